package dialog

import (
	"maps"

	"github.com/flexigpt/lingo-go/spec"
)

// State is the conversation record of one session. The zero value is an uninitialized
// conversation. State is not safe for concurrent use; callers serialize turns.
type State struct {
	Scenario spec.ScenarioID
	Step     spec.StepID

	// Slots holds values extracted so far. Entries are only overwritten, never removed one by
	// one; the whole bag is dropped on Reset.
	Slots map[string]string
}

// Active reports whether a scenario is in progress.
func (s State) Active() bool { return s.Scenario != "" }

// Reset returns the state to uninitialized.
func (s *State) Reset() {
	s.Scenario = ""
	s.Step = ""
	s.Slots = nil
}

func (s *State) start(id spec.ScenarioID, step spec.StepID) {
	s.Scenario = id
	s.Step = step
	s.Slots = map[string]string{}
}

// SlotsCopy returns a copy of the slot bag, or nil when it is empty.
func (s State) SlotsCopy() map[string]string {
	if len(s.Slots) == 0 {
		return nil
	}
	return maps.Clone(s.Slots)
}
