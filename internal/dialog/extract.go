package dialog

import (
	"strings"

	"github.com/flexigpt/lingo-go/internal/catalog"
	"github.com/flexigpt/lingo-go/spec"
)

// Extract applies the extraction rules that fire at step to utterance and writes the results into
// slots, which is allocated when nil and returned. Scenario rules run before common rules, each
// list in declaration order, so a later rule for the same slot overwrites an earlier one.
// A rule that matches nothing leaves its slot alone.
func Extract(rules, common []catalog.Rule, step spec.StepID, utterance string, slots map[string]string) map[string]string {
	if slots == nil {
		slots = map[string]string{}
	}
	for _, list := range [][]catalog.Rule{rules, common} {
		for _, r := range list {
			if !r.AppliesTo(step) {
				continue
			}
			if v, ok := applyRule(r, utterance); ok {
				slots[r.Slot] = v
			}
		}
	}
	return slots
}

func applyRule(r catalog.Rule, utterance string) (string, bool) {
	for _, c := range r.Choices {
		if c.Keywords.Any(utterance) {
			return c.Value, true
		}
	}
	if r.Capture {
		if v := strings.TrimSpace(utterance); v != "" {
			return v, true
		}
	}
	return "", false
}
