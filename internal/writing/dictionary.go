package writing

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/flexigpt/lingo-go/spec"
)

type Entry struct {
	Definition string
	Example    string
}

// Dictionary is an immutable word table keyed by lowercase word.
type Dictionary struct {
	entries map[string]Entry
}

func NewDictionary(entries map[string]Entry) *Dictionary {
	d := &Dictionary{entries: make(map[string]Entry, len(entries))}
	for w, e := range entries {
		d.entries[strings.ToLower(strings.TrimSpace(w))] = e
	}
	return d
}

var defaultEntries = map[string]Entry{
	"ubiquitous": {
		Definition: "Present, appearing, or found everywhere.",
		Example:    "Mobile phones are ubiquitous these days.",
	},
	"ephemeral": {
		Definition: "Lasting for a very short time.",
		Example:    "The beauty of the cherry blossoms is ephemeral.",
	},
	"resilience": {
		Definition: "The capacity to recover quickly from difficulties; toughness.",
		Example:    "Her resilience in the face of adversity was admirable.",
	},
	"eloquent": {
		Definition: "Fluent or persuasive in speaking or writing.",
		Example:    "The speaker gave an eloquent speech about climate change.",
	},
	"ambiguous": {
		Definition: "Open to more than one interpretation; having a double meaning.",
		Example:    "The instructions were ambiguous, which led to confusion.",
	},
	"integrity": {
		Definition: "The quality of being honest and having strong moral principles.",
		Example:    "He is a man of great integrity.",
	},
}

func DefaultDictionary() *Dictionary { return NewDictionary(defaultEntries) }

func (d *Dictionary) Len() int { return len(d.entries) }

// Explain returns the learner-facing explanation of word. Unknown words produce a suggestion text
// with Found unset.
func (d *Dictionary) Explain(word string) spec.ExplainResult {
	w := strings.ToLower(strings.TrimSpace(word))
	e, ok := d.entries[w]
	if !ok {
		return spec.ExplainResult{
			Text: fmt.Sprintf(
				"Sorry, I don't have a definition for '%s'. Try another word like 'resilience' or 'ephemeral'.",
				w,
			),
		}
	}
	// Casers are stateful; one per call.
	title := cases.Title(language.English).String(w)
	return spec.ExplainResult{
		Text:  fmt.Sprintf("'%s' means: %s\n\nExample: \"%s\"", title, e.Definition, e.Example),
		Found: true,
	}
}
