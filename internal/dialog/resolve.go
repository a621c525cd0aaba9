package dialog

import (
	"strings"

	"github.com/flexigpt/lingo-go/internal/catalog"
	"github.com/flexigpt/lingo-go/spec"
)

type TransitionKind int

const (
	// NoMatch leaves the conversation where it is; the learner is re-prompted.
	NoMatch TransitionKind = iota
	// Advance moves to Transition.Next.
	Advance
	// Complete ends the scenario from a terminal step.
	Complete
)

type Transition struct {
	Kind TransitionKind
	Next spec.StepID
}

// Resolve decides where utterance takes the conversation from step.
//
// Options are scanned in declaration order and the first matching option wins. Accept-any steps
// (including keyword steps with no keywords) take any non-blank reply. A terminal step always
// completes.
func Resolve(step *catalog.Step, utterance string) Transition {
	switch step.Kind {
	case catalog.KindTerminal:
		return Transition{Kind: Complete}
	case catalog.KindOptions:
		for _, o := range step.Options {
			if o.Keywords.Any(utterance) {
				return Transition{Kind: Advance, Next: o.Next}
			}
		}
		return Transition{Kind: NoMatch}
	case catalog.KindAcceptAny:
		if strings.TrimSpace(utterance) == "" {
			return Transition{Kind: NoMatch}
		}
		return Transition{Kind: Advance, Next: step.Next}
	case catalog.KindKeyword:
		if step.Keywords.Any(utterance) {
			return Transition{Kind: Advance, Next: step.Next}
		}
		return Transition{Kind: NoMatch}
	default:
		return Transition{Kind: NoMatch}
	}
}
