// Package catalog loads, validates and serves the scenario catalog.
//
// A Catalog is immutable once loaded and may be shared across sessions and goroutines without
// locking.
package catalog

import (
	"slices"
	"sort"

	"github.com/flexigpt/lingo-go/internal/match"
	"github.com/flexigpt/lingo-go/internal/tmpl"
	"github.com/flexigpt/lingo-go/spec"
)

// StepKind is the compiled shape of a step.
type StepKind int

const (
	// KindAcceptAny accepts any non-blank reply. Steps declared with accept_any and keyword
	// steps with an empty keyword list both compile to this kind.
	KindAcceptAny StepKind = iota
	KindKeyword
	KindOptions
	KindTerminal
)

func (k StepKind) String() string {
	switch k {
	case KindAcceptAny:
		return "accept_any"
	case KindKeyword:
		return "keyword"
	case KindOptions:
		return "options"
	case KindTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

type Option struct {
	Keywords *match.Set
	Next     spec.StepID
}

type Step struct {
	ID       spec.StepID
	Kind     StepKind
	Template *tmpl.Template

	// Fallbacks holds the per-placeholder text used when a slot is missing. Placeholders not
	// listed here fall back to "[name]".
	Fallbacks map[string]string

	Keywords *match.Set
	Next     spec.StepID
	Options  []Option
	Feedback string
}

// Terminal reports whether the step ends its scenario.
func (s *Step) Terminal() bool { return s.Kind == KindTerminal }

// Render fills the step's bot line from slots.
func (s *Step) Render(slots map[string]string) string {
	return s.Template.Render(slots, s.Fallbacks)
}

// ExpectedKeywords returns the sorted, deduplicated keywords that would move the conversation
// past this step. Accept-any and terminal steps expect nothing.
func (s *Step) ExpectedKeywords() []string {
	var all []string
	switch s.Kind {
	case KindKeyword:
		all = s.Keywords.Keywords()
	case KindOptions:
		for _, o := range s.Options {
			all = append(all, o.Keywords.Keywords()...)
		}
	default:
		return nil
	}
	sort.Strings(all)
	return slices.Compact(all)
}

// Choice maps a keyword set to a normalized slot value.
type Choice struct {
	Keywords *match.Set
	Value    string
}

// Rule extracts one slot. Choices are tried in order and the first match wins. When no choice
// matches and Capture is set, the trimmed utterance itself is stored.
type Rule struct {
	// Step restricts the rule to one step of its scenario. Empty means every step.
	Step    spec.StepID
	Slot    string
	Choices []Choice
	Capture bool
}

// AppliesTo reports whether the rule runs while the conversation sits at step.
func (r Rule) AppliesTo(step spec.StepID) bool {
	return r.Step == "" || r.Step == step
}

type Scenario struct {
	ID          spec.ScenarioID
	Title       string
	Description string
	StartStep   spec.StepID

	Steps     map[spec.StepID]*Step
	StepOrder []spec.StepID

	// Rules are scenario-specific extraction rules in declaration order.
	Rules []Rule
}

// Start returns the scenario's start step.
func (s *Scenario) Start() *Step { return s.Steps[s.StartStep] }

// Step returns the step with the given id.
func (s *Scenario) Step(id spec.StepID) (*Step, bool) {
	st, ok := s.Steps[id]
	return st, ok
}

func (s *Scenario) Summary() spec.ScenarioSummary {
	return spec.ScenarioSummary{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		StartStep:   s.StartStep,
		StepCount:   len(s.StepOrder),
	}
}

type Catalog struct {
	scenarios map[spec.ScenarioID]*Scenario
	order     []spec.ScenarioID

	// common rules run in every scenario, after the scenario's own rules.
	common []Rule
}

// Scenario returns the scenario with the given id.
func (c *Catalog) Scenario(id spec.ScenarioID) (*Scenario, bool) {
	if c == nil {
		return nil, false
	}
	s, ok := c.scenarios[id]
	return s, ok
}

// Scenarios returns all scenarios in declaration order.
func (c *Catalog) Scenarios() []*Scenario {
	if c == nil {
		return nil
	}
	out := make([]*Scenario, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.scenarios[id])
	}
	return out
}

// List returns the listing records of all scenarios in declaration order.
func (c *Catalog) List() []spec.ScenarioSummary {
	scs := c.Scenarios()
	out := make([]spec.ScenarioSummary, 0, len(scs))
	for _, s := range scs {
		out = append(out, s.Summary())
	}
	return out
}

// CommonRules returns the scenario-independent extraction rules.
func (c *Catalog) CommonRules() []Rule {
	if c == nil {
		return nil
	}
	return c.common
}
