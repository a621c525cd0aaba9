// Package dialog runs scripted scenario conversations: slot extraction, step transitions and
// reply rendering over one conversation State.
package dialog

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/flexigpt/lingo-go/internal/catalog"
	"github.com/flexigpt/lingo-go/spec"
)

// DefaultCompletion is the reply for completing at a terminal step that has no feedback text.
const DefaultCompletion = "Scenario complete. Well done!"

// feedbackSeparator joins a terminal step's bot line and its feedback in one reply.
const feedbackSeparator = "\n\n"

type Engine struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewEngine(c *catalog.Catalog, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{catalog: c, logger: logger}
}

// Catalog returns the catalog the engine runs against.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Respond runs one turn of scenarioID against st and returns the reply. It never fails: unknown
// scenarios, unmatched replies and missing slots all produce a normal reply.
//
// A turn for a scenario other than the active one (re)starts that scenario and returns its
// opening line; the utterance is not evaluated as an answer.
func (e *Engine) Respond(st *State, scenarioID spec.ScenarioID, utterance string) spec.Reply {
	sc, ok := e.catalog.Scenario(scenarioID)
	if !ok {
		e.logger.Debug("turn for unknown scenario", "scenario", scenarioID)
		return spec.Reply{Text: spec.InvalidScenarioText, Outcome: spec.OutcomeInvalidScenario}
	}

	current, ok := sc.Step(st.Step)
	if st.Scenario != sc.ID || !ok {
		return e.start(st, sc)
	}

	// Extraction is committed only when the turn moves the conversation.
	slots := Extract(sc.Rules, e.catalog.CommonRules(), current.ID, utterance, maps.Clone(st.Slots))

	tr := Resolve(current, utterance)
	switch tr.Kind {
	case Complete:
		text := current.Feedback
		if text == "" {
			text = DefaultCompletion
		}
		e.logger.Debug("scenario completed", "scenario", sc.ID, "step", current.ID)
		st.Reset()
		return spec.Reply{Text: text, Outcome: spec.OutcomeCompleted, Scenario: sc.ID}

	case Advance:
		st.Slots = slots
		next := sc.Steps[tr.Next]
		text := next.Render(st.Slots)
		if next.Terminal() {
			text += feedbackSeparator + next.Feedback
			e.logger.Debug("scenario completed", "scenario", sc.ID, "step", next.ID)
			st.Reset()
			return spec.Reply{Text: text, Outcome: spec.OutcomeCompleted, Scenario: sc.ID}
		}
		st.Step = next.ID
		e.logger.Debug("turn advanced", "scenario", sc.ID, "from", current.ID, "to", next.ID)
		return spec.Reply{
			Text:     text,
			Outcome:  spec.OutcomeAdvanced,
			Scenario: sc.ID,
			Step:     next.ID,
			Slots:    st.SlotsCopy(),
		}

	default:
		return spec.Reply{
			Text:     reprompt(current) + current.Render(st.Slots),
			Outcome:  spec.OutcomeReprompt,
			Scenario: sc.ID,
			Step:     current.ID,
			Slots:    st.SlotsCopy(),
		}
	}
}

func (e *Engine) start(st *State, sc *catalog.Scenario) spec.Reply {
	st.start(sc.ID, sc.StartStep)
	e.logger.Debug("scenario started", "scenario", sc.ID, "step", sc.StartStep)
	return spec.Reply{
		Text:     sc.Start().Render(st.Slots),
		Outcome:  spec.OutcomeStarted,
		Scenario: sc.ID,
		Step:     sc.StartStep,
	}
}

func reprompt(step *catalog.Step) string {
	expected := strings.Join(step.ExpectedKeywords(), ", ")
	switch {
	case step.Kind == catalog.KindOptions:
		return fmt.Sprintf(
			"(I didn't quite catch that. Could you choose one of the options: %s? Let's try again...) ",
			expected,
		)
	case expected == "":
		return "(I was hoping for a bit more detail. Let's try that question again...) "
	default:
		return fmt.Sprintf(
			"(I was hoping for a bit more detail. Try mentioning one of: %s. Let's try that question again...) ",
			expected,
		)
	}
}
