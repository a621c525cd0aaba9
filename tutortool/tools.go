// Package tutortool registers the tutor tools of any spec.Runtime into an llmtools-go Registry,
// for hosts that keep their own registry alongside other tools.
package tutortool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flexigpt/llmtools-go"
	llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

	"github.com/flexigpt/lingo-go/spec"
)

// Handlers are the tool implementations for one session. Every call goes through the runtime by
// session id, so a session the runtime dropped is recreated on the next turn.
type Handlers struct {
	rt        spec.Runtime
	sessionID spec.SessionID
}

func NewHandlers(rt spec.Runtime, sessionID spec.SessionID) (Handlers, error) {
	if rt == nil {
		return Handlers{}, errors.New("nil runtime")
	}
	if strings.TrimSpace(string(sessionID)) == "" {
		return Handlers{}, fmt.Errorf("%w: session id is required", spec.ErrInvalidArgument)
	}
	return Handlers{rt: rt, sessionID: sessionID}, nil
}

func (h Handlers) Respond(ctx context.Context, args spec.RespondArgs) (spec.Reply, error) {
	if err := ctx.Err(); err != nil {
		return spec.Reply{}, err
	}
	if strings.TrimSpace(string(args.Scenario)) == "" {
		return spec.Reply{}, fmt.Errorf("%w: scenario is required", spec.ErrInvalidArgument)
	}
	return h.rt.Respond(ctx, h.sessionID, args)
}

func (h Handlers) ListScenarios(ctx context.Context, _ spec.ListScenariosArgs) (spec.ListScenariosResult, error) {
	if err := ctx.Err(); err != nil {
		return spec.ListScenariosResult{}, err
	}
	return spec.ListScenariosResult{Scenarios: h.rt.ListScenarios()}, nil
}

func (h Handlers) Explain(ctx context.Context, args spec.ExplainArgs) (spec.ExplainResult, error) {
	if err := ctx.Err(); err != nil {
		return spec.ExplainResult{}, err
	}
	if strings.TrimSpace(args.Word) == "" {
		return spec.ExplainResult{}, fmt.Errorf("%w: word is required", spec.ErrInvalidArgument)
	}
	return h.rt.Explain(args.Word), nil
}

// Register registers the tutor tools into an existing llmtools-go Registry.
// Session binding is done by closure via sessionID.
func Register(r *llmtools.Registry, rt spec.Runtime, sessionID spec.SessionID) error {
	if r == nil {
		return errors.New("nil registry")
	}
	h, err := NewHandlers(rt, sessionID)
	if err != nil {
		return err
	}

	if err := llmtools.RegisterTypedAsTextTool(r, spec.TutorRespondTool(), h.Respond); err != nil {
		return err
	}
	if err := llmtools.RegisterTypedAsTextTool(r, spec.TutorListScenariosTool(), h.ListScenarios); err != nil {
		return err
	}
	if err := llmtools.RegisterTypedAsTextTool(r, spec.WritingExplainTool(), h.Explain); err != nil {
		return err
	}
	return nil
}

func Tools() []llmtoolsgoSpec.Tool {
	return []llmtoolsgoSpec.Tool{
		spec.TutorRespondTool(),
		spec.TutorListScenariosTool(),
		spec.WritingExplainTool(),
	}
}
