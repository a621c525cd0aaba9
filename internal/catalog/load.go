package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/flexigpt/lingo-go/internal/match"
	"github.com/flexigpt/lingo-go/internal/tmpl"
	"github.com/flexigpt/lingo-go/spec"
)

const maxCatalogBytes = 1 << 20 // 1 MiB

//go:embed scenarios.yaml
var defaultYAML []byte

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultYAML, nil)
})

// Default returns the built-in catalog. It is parsed once per process.
func Default() (*Catalog, error) {
	return loadDefault()
}

type fileDoc struct {
	CommonExtract []ruleDoc     `yaml:"common_extract"`
	Scenarios     []scenarioDoc `yaml:"scenarios"`
}

type scenarioDoc struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	StartStep   string    `yaml:"start_step"`
	Steps       []stepDoc `yaml:"steps"`
	Extract     []ruleDoc `yaml:"extract"`
}

type stepDoc struct {
	ID        string            `yaml:"id"`
	Bot       string            `yaml:"bot"`
	Keywords  []string          `yaml:"keywords"`
	AcceptAny bool              `yaml:"accept_any"`
	NextStep  string            `yaml:"next_step"`
	Options   []optionDoc       `yaml:"options"`
	Feedback  string            `yaml:"feedback"`
	Fallbacks map[string]string `yaml:"fallbacks"`
}

type optionDoc struct {
	Keywords []string `yaml:"keywords"`
	NextStep string   `yaml:"next_step"`
}

type ruleDoc struct {
	Step    string      `yaml:"step"`
	Slot    string      `yaml:"slot"`
	Capture bool        `yaml:"capture"`
	Choose  []choiceDoc `yaml:"choose"`
}

type choiceDoc struct {
	Keywords []string `yaml:"keywords"`
	Value    string   `yaml:"value"`
}

// Parse decodes and validates one YAML catalog document.
//
// All validation problems are reported together, joined under spec.ErrInvalidCatalog.
// A malformed bot template is not fatal: the step keeps its raw line and a warning is logged.
func Parse(data []byte, logger *slog.Logger) (*Catalog, error) {
	return ParseAll([][]byte{data}, logger)
}

// ParseAll merges several YAML catalog documents into one catalog. Scenario ids must be unique
// across documents.
func ParseAll(docs [][]byte, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := newBuilder(logger)
	for i, data := range docs {
		doc, err := decodeDoc(data)
		if err != nil {
			if len(docs) > 1 {
				return nil, fmt.Errorf("%w: document %d: %w", spec.ErrInvalidCatalog, i, err)
			}
			return nil, fmt.Errorf("%w: %w", spec.ErrInvalidCatalog, err)
		}
		b.addDoc(doc)
	}
	return b.finish()
}

func decodeDoc(data []byte) (fileDoc, error) {
	var doc fileDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fileDoc{}, fmt.Errorf("decode yaml: %w", err)
	}
	return doc, nil
}

// LoadFS reads every file in fsys matching pattern (fs.Glob syntax), in lexical order, and
// merges them into one catalog. Scenario ids must be unique across files.
func LoadFS(fsys fs.FS, pattern string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", spec.ErrInvalidArgument, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no catalog files match %q", spec.ErrInvalidCatalog, pattern)
	}

	b := newBuilder(logger)
	for _, name := range names {
		data, err := readLimited(fsys, name)
		if err != nil {
			return nil, err
		}
		doc, err := decodeDoc(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", spec.ErrInvalidCatalog, name, err)
		}
		b.addDoc(doc)
	}
	return b.finish()
}

func readLimited(fsys fs.FS, name string) ([]byte, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxCatalogBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > maxCatalogBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", spec.ErrInvalidCatalog, name, maxCatalogBytes)
	}
	return data, nil
}

type builder struct {
	logger *slog.Logger
	cat    *Catalog
	errs   []error
}

func newBuilder(logger *slog.Logger) *builder {
	return &builder{
		logger: logger,
		cat:    &Catalog{scenarios: map[spec.ScenarioID]*Scenario{}},
	}
}

func (b *builder) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
}

func (b *builder) finish() (*Catalog, error) {
	if len(b.cat.order) == 0 && len(b.errs) == 0 {
		b.fail("catalog declares no scenarios")
	}
	if len(b.errs) > 0 {
		return nil, errors.Join(append([]error{spec.ErrInvalidCatalog}, b.errs...)...)
	}
	return b.cat, nil
}

func (b *builder) addDoc(doc fileDoc) {
	for i, rd := range doc.CommonExtract {
		if rd.Step != "" {
			b.fail("common_extract[%d]: common rules cannot be restricted to a step", i)
			continue
		}
		if r, ok := b.compileRule(fmt.Sprintf("common_extract[%d]", i), rd, nil); ok {
			b.cat.common = append(b.cat.common, r)
		}
	}
	for i, sd := range doc.Scenarios {
		b.addScenario(i, sd)
	}
}

func (b *builder) addScenario(idx int, sd scenarioDoc) {
	id := spec.ScenarioID(strings.TrimSpace(sd.ID))
	where := fmt.Sprintf("scenario[%d] %q", idx, id)
	if id == "" {
		b.fail("scenario[%d]: id is required", idx)
		return
	}
	if _, dup := b.cat.scenarios[id]; dup {
		b.fail("%s: duplicate scenario id", where)
		return
	}

	sc := &Scenario{
		ID:          id,
		Title:       strings.TrimSpace(sd.Title),
		Description: strings.TrimSpace(sd.Description),
		StartStep:   spec.StepID(strings.TrimSpace(sd.StartStep)),
		Steps:       map[spec.StepID]*Step{},
	}
	if sc.Title == "" {
		sc.Title = string(id)
	}

	for i, stDoc := range sd.Steps {
		st, ok := b.compileStep(fmt.Sprintf("%s step[%d]", where, i), stDoc)
		if !ok {
			continue
		}
		if _, dup := sc.Steps[st.ID]; dup {
			b.fail("%s: duplicate step id %q", where, st.ID)
			continue
		}
		sc.Steps[st.ID] = st
		sc.StepOrder = append(sc.StepOrder, st.ID)
	}

	switch start, ok := sc.Steps[sc.StartStep]; {
	case sc.StartStep == "":
		b.fail("%s: start_step is required", where)
	case !ok:
		b.fail("%s: start_step %q is not a step", where, sc.StartStep)
	case start.Terminal():
		b.fail("%s: start_step %q must not be terminal", where, sc.StartStep)
	}

	for _, sid := range sc.StepOrder {
		st := sc.Steps[sid]
		if st.Next != "" {
			if _, ok := sc.Steps[st.Next]; !ok {
				b.fail("%s step %q: next_step %q does not exist", where, sid, st.Next)
			}
		}
		for i, o := range st.Options {
			if _, ok := sc.Steps[o.Next]; !ok {
				b.fail("%s step %q option[%d]: next_step %q does not exist", where, sid, i, o.Next)
			}
		}
	}

	for i, rd := range sd.Extract {
		if r, ok := b.compileRule(fmt.Sprintf("%s extract[%d]", where, i), rd, sc.Steps); ok {
			sc.Rules = append(sc.Rules, r)
		}
	}

	b.cat.scenarios[id] = sc
	b.cat.order = append(b.cat.order, id)
}

func (b *builder) compileStep(where string, d stepDoc) (*Step, bool) {
	id := spec.StepID(strings.TrimSpace(d.ID))
	if id == "" {
		b.fail("%s: id is required", where)
		return nil, false
	}
	where = fmt.Sprintf("%s %q", where, id)
	if strings.TrimSpace(d.Bot) == "" {
		b.fail("%s: bot line is required", where)
		return nil, false
	}

	tp, err := tmpl.Compile(d.Bot)
	if err != nil {
		b.logger.Warn("scenario step template is malformed; using raw line", "step", where, "err", err)
	}
	st := &Step{
		ID:        id,
		Template:  tp,
		Fallbacks: maps.Clone(d.Fallbacks),
		Next:      spec.StepID(strings.TrimSpace(d.NextStep)),
		Feedback:  strings.TrimSpace(d.Feedback),
	}

	switch {
	case len(d.Options) > 0:
		if st.Next != "" {
			b.fail("%s: options and next_step are mutually exclusive", where)
			return nil, false
		}
		if d.AcceptAny || len(d.Keywords) > 0 {
			b.fail("%s: options step cannot also declare keywords or accept_any", where)
			return nil, false
		}
		st.Kind = KindOptions
		for i, od := range d.Options {
			set := match.Compile(od.Keywords)
			if set.Len() == 0 {
				b.fail("%s option[%d]: keywords are required", where, i)
				return nil, false
			}
			next := spec.StepID(strings.TrimSpace(od.NextStep))
			if next == "" {
				b.fail("%s option[%d]: next_step is required", where, i)
				return nil, false
			}
			st.Options = append(st.Options, Option{Keywords: set, Next: next})
		}

	case st.Next == "":
		if st.Feedback == "" {
			b.fail("%s: step needs next_step, options or feedback", where)
			return nil, false
		}
		st.Kind = KindTerminal

	default:
		st.Keywords = match.Compile(d.Keywords)
		if d.AcceptAny || st.Keywords.Len() == 0 {
			st.Kind = KindAcceptAny
		} else {
			st.Kind = KindKeyword
		}
	}
	return st, true
}

func (b *builder) compileRule(where string, d ruleDoc, steps map[spec.StepID]*Step) (Rule, bool) {
	r := Rule{
		Step:    spec.StepID(strings.TrimSpace(d.Step)),
		Slot:    strings.TrimSpace(d.Slot),
		Capture: d.Capture,
	}
	if r.Slot == "" {
		b.fail("%s: slot is required", where)
		return Rule{}, false
	}
	if r.Step != "" {
		if _, ok := steps[r.Step]; !ok {
			b.fail("%s: step %q does not exist", where, r.Step)
			return Rule{}, false
		}
	}
	if len(d.Choose) == 0 && !r.Capture {
		b.fail("%s: rule for slot %q has no choices and does not capture", where, r.Slot)
		return Rule{}, false
	}
	for i, cd := range d.Choose {
		set := match.Compile(cd.Keywords)
		val := strings.TrimSpace(cd.Value)
		if set.Len() == 0 || val == "" {
			b.fail("%s choose[%d]: keywords and value are required", where, i)
			return Rule{}, false
		}
		r.Choices = append(r.Choices, Choice{Keywords: set, Value: val})
	}
	return r, true
}
