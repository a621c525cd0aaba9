package lingo

import (
	"context"

	"github.com/flexigpt/llmtools-go"
	llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

	"github.com/flexigpt/lingo-go/spec"
	"github.com/flexigpt/lingo-go/tutortool"
)

// Session is a convenience handle bound to one session id.
type Session struct {
	rt *Runtime
	id spec.SessionID
}

func (s *Session) ID() spec.SessionID { return s.id }

func (s *Session) Respond(ctx context.Context, scenario spec.ScenarioID, message string) (spec.Reply, error) {
	return s.rt.Respond(ctx, s.id, spec.RespondArgs{Scenario: scenario, Message: message})
}

// Tools returns the tutor tool specs (tutor.respond, tutor.list_scenarios, writing.explain).
func (s *Session) Tools() []llmtoolsgoSpec.Tool { return Tools() }

// NewToolsRegistry returns a new llmtools-go Registry with the tutor tools bound to this session.
func (s *Session) NewToolsRegistry(opts ...llmtools.RegistryOption) (*llmtools.Registry, error) {
	return s.rt.NewToolsRegistry(s.id, opts...)
}

func (s *Session) Close(ctx context.Context) error {
	return s.rt.CloseSession(ctx, s.id)
}

// Tools returns the tutor tool specs.
func Tools() []llmtoolsgoSpec.Tool { return tutortool.Tools() }
