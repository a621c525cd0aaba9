package spec

// SessionID identifies one conversation. Runtime-minted ids are UUIDv7 strings, but callers may
// supply any non-empty id of their own.
type SessionID string

// ScenarioID names a scenario in the catalog (e.g. "coffee_shop").
type ScenarioID string

// StepID names a step within one scenario.
type StepID string

// Outcome classifies what a turn did to the conversation.
type Outcome string

const (
	OutcomeStarted         Outcome = "started"
	OutcomeAdvanced        Outcome = "advanced"
	OutcomeReprompt        Outcome = "reprompt"
	OutcomeCompleted       Outcome = "completed"
	OutcomeInvalidScenario Outcome = "invalid_scenario"
)

// InvalidScenarioText is the reply for a scenario id the catalog does not know.
const InvalidScenarioText = "Error: Invalid scenario selected."

type RespondArgs struct {
	Scenario ScenarioID `json:"scenario"`
	Message  string     `json:"message"`
}

// Reply is the result of one turn. Text is what the learner sees; the other fields describe the
// conversation after the turn.
type Reply struct {
	Text     string     `json:"text"`
	Outcome  Outcome    `json:"outcome"`
	Scenario ScenarioID `json:"scenario,omitempty"`

	// Step is the current step after the turn. Empty once the scenario completed.
	Step StepID `json:"step,omitempty"`

	// Slots is a copy of the slot bag after the turn.
	Slots map[string]string `json:"slots,omitempty"`
}

// Complete reports whether the turn ended the scenario.
func (r Reply) Complete() bool { return r.Outcome == OutcomeCompleted }

// ScenarioSummary is the listing record of one catalog scenario.
type ScenarioSummary struct {
	ID          ScenarioID `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartStep   StepID     `json:"startStep"`
	StepCount   int        `json:"stepCount"`
}

type ListScenariosArgs struct{}

type ListScenariosResult struct {
	Scenarios []ScenarioSummary `json:"scenarios"`
}

type ExplainArgs struct {
	Word string `json:"word"`
}

type ExplainResult struct {
	Text  string `json:"text"`
	Found bool   `json:"found"`
}

// Question is a quiz question as shown to a learner; the answer is withheld.
type Question struct {
	ID       string   `json:"question_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type AnswerCheck struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
}
