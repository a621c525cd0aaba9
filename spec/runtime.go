package spec

import "context"

// Runtime is the interface that tools bind to.
// Implementations (like package lingo Runtime) own session state.
type Runtime interface {
	Respond(ctx context.Context, sessionID SessionID, args RespondArgs) (Reply, error)
	ListScenarios() []ScenarioSummary
	Explain(word string) ExplainResult
}
