// Package quiz serves multiple-choice questions from a fixed bank and checks answers.
package quiz

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/flexigpt/lingo-go/spec"
)

//go:embed questions.yaml
var defaultQuestions []byte

type Item struct {
	ID       string   `yaml:"id"`
	Question string   `yaml:"question"`
	Options  []string `yaml:"options"`
	Answer   string   `yaml:"answer"`
}

type bankFile struct {
	Questions []Item `yaml:"questions"`
}

// Bank is an immutable question bank, safe for concurrent use.
type Bank struct {
	items []Item
	byID  map[string]int
	pick  func(n int) int
}

type Option func(*Bank)

// WithPicker replaces the random index source; pick(n) must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(b *Bank) {
		if pick != nil {
			b.pick = pick
		}
	}
}

func NewBank(items []Item, opts ...Option) (*Bank, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: quiz bank has no questions", spec.ErrInvalidArgument)
	}
	b := &Bank{
		items: make([]Item, 0, len(items)),
		byID:  make(map[string]int, len(items)),
		pick:  rand.IntN,
	}

	var errs []error
	for i, it := range items {
		it.ID = strings.TrimSpace(it.ID)
		switch {
		case it.ID == "":
			errs = append(errs, fmt.Errorf("question %d: id is required", i))
			continue
		case strings.TrimSpace(it.Question) == "":
			errs = append(errs, fmt.Errorf("question %q: question text is required", it.ID))
		case len(it.Options) < 2:
			errs = append(errs, fmt.Errorf("question %q: at least two options are required", it.ID))
		case !slices.Contains(it.Options, it.Answer):
			errs = append(errs, fmt.Errorf("question %q: answer %q is not an option", it.ID, it.Answer))
		}
		if _, dup := b.byID[it.ID]; dup {
			errs = append(errs, fmt.Errorf("question %q: duplicate id", it.ID))
			continue
		}
		it.Options = slices.Clone(it.Options)
		b.byID[it.ID] = len(b.items)
		b.items = append(b.items, it)
	}
	if len(errs) > 0 {
		return nil, errors.Join(append([]error{spec.ErrInvalidArgument}, errs...)...)
	}

	for _, o := range opts {
		if o != nil {
			o(b)
		}
	}
	return b, nil
}

// ParseBank decodes a YAML question bank.
func ParseBank(data []byte, opts ...Option) (*Bank, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f bankFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: decode quiz bank: %w", spec.ErrInvalidArgument, err)
	}
	return NewBank(f.Questions, opts...)
}

var defaultBank = sync.OnceValues(func() (*Bank, error) {
	return ParseBank(defaultQuestions)
})

// Default returns the built-in question bank.
func Default() (*Bank, error) { return defaultBank() }

func (b *Bank) Len() int { return len(b.items) }

// WithPicker returns a copy of b that picks questions with pick. A nil pick returns b.
func (b *Bank) WithPicker(pick func(n int) int) *Bank {
	if pick == nil {
		return b
	}
	c := *b
	c.pick = pick
	return &c
}

// Next returns a random question with the answer withheld.
func (b *Bank) Next() spec.Question {
	it := b.items[b.pick(len(b.items))]
	return spec.Question{ID: it.ID, Question: it.Question, Options: slices.Clone(it.Options)}
}

// Question returns the question with the given id.
func (b *Bank) Question(id string) (spec.Question, bool) {
	i, ok := b.byID[strings.TrimSpace(id)]
	if !ok {
		return spec.Question{}, false
	}
	it := b.items[i]
	return spec.Question{ID: it.ID, Question: it.Question, Options: slices.Clone(it.Options)}, true
}

// Check compares answer with the stored answer. Surrounding whitespace is ignored; the
// comparison is otherwise exact.
func (b *Bank) Check(id, answer string) (spec.AnswerCheck, error) {
	i, ok := b.byID[strings.TrimSpace(id)]
	if !ok {
		return spec.AnswerCheck{}, fmt.Errorf("%w: %q", spec.ErrQuestionNotFound, id)
	}
	want := b.items[i].Answer
	return spec.AnswerCheck{
		IsCorrect:     strings.TrimSpace(answer) == want,
		CorrectAnswer: want,
	}, nil
}
