// Package writing holds the stateless writing helpers: grammar fixes, vocabulary boosting and
// word explanations, with optional LLM rewriting in front of the rule tables.
package writing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flexigpt/lingo-go/spec"
)

type Action string

const (
	ActionExplain    Action = "explain"
	ActionGrammar    Action = "grammar"
	ActionVocabulary Action = "vocabulary"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionExplain, ActionGrammar, ActionVocabulary:
		return a, nil
	default:
		return "", fmt.Errorf("%w: invalid action %q", spec.ErrInvalidArgument, s)
	}
}

// Rewriter rewrites text for the grammar and vocabulary actions, typically with an LLM. action is
// one of the Action values.
type Rewriter interface {
	Rewrite(ctx context.Context, action, text string) (string, error)
}

// Processor runs writing actions. When a Rewriter is configured it is tried first and the rule
// tables are the fallback on any rewriter error.
type Processor struct {
	dict     *Dictionary
	rewriter Rewriter
	logger   *slog.Logger
}

func NewProcessor(dict *Dictionary, rewriter Rewriter, logger *slog.Logger) *Processor {
	if dict == nil {
		dict = DefaultDictionary()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{dict: dict, rewriter: rewriter, logger: logger}
}

func (p *Processor) Dictionary() *Dictionary { return p.dict }

func (p *Processor) Explain(word string) spec.ExplainResult { return p.dict.Explain(word) }

// Process applies action to text. Blank text is rejected with spec.ErrInvalidArgument.
func (p *Processor) Process(ctx context.Context, action Action, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text is required", spec.ErrInvalidArgument)
	}

	switch action {
	case ActionExplain:
		return p.dict.Explain(text).Text, nil
	case ActionGrammar, ActionVocabulary:
		if p.rewriter != nil {
			out, err := p.rewriter.Rewrite(ctx, string(action), text)
			if err == nil && strings.TrimSpace(out) != "" {
				return out, nil
			}
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			p.logger.Warn("rewriter failed, using rule tables", "action", action, "err", err)
		}
		if action == ActionGrammar {
			return FixGrammar(text), nil
		}
		return BoostVocabulary(text), nil
	default:
		return "", fmt.Errorf("%w: invalid action %q", spec.ErrInvalidArgument, action)
	}
}
