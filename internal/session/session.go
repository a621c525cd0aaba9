// Package session holds per-learner conversations in a keyed, bounded store.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/flexigpt/lingo-go/internal/dialog"
	"github.com/flexigpt/lingo-go/spec"
)

type SessionConfig struct {
	ID     spec.SessionID
	Engine *dialog.Engine
	Logger *slog.Logger

	// Touch is called after every turn so the owning store can refresh the session's LRU slot.
	Touch func()
}

// Session is one conversation. Turns on the same session are serialized; turns on different
// sessions run independently.
type Session struct {
	id spec.SessionID

	// mu is held for a whole turn.
	mu    sync.Mutex
	state dialog.State

	engine *dialog.Engine
	logger *slog.Logger
	touch  func()

	closed atomic.Bool
}

func newSession(cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	touch := cfg.Touch
	if touch == nil {
		touch = func() {}
	}
	return &Session{
		id:     cfg.ID,
		engine: cfg.Engine,
		logger: logger.With("session", cfg.ID),
		touch:  touch,
	}
}

func (s *Session) ID() spec.SessionID { return s.id }

// Respond runs one turn. Errors are reserved for a cancelled context and a session that was
// closed or evicted; every conversational outcome comes back as a Reply.
func (s *Session) Respond(ctx context.Context, args spec.RespondArgs) (spec.Reply, error) {
	if err := ctx.Err(); err != nil {
		return spec.Reply{}, err
	}
	if s.closed.Load() {
		return spec.Reply{}, fmt.Errorf("%w: %s", spec.ErrSessionNotFound, s.id)
	}

	s.mu.Lock()
	reply := s.engine.Respond(&s.state, args.Scenario, args.Message)
	s.mu.Unlock()

	s.touch()
	s.logger.Debug("turn", "scenario", args.Scenario, "outcome", reply.Outcome, "step", reply.Step)
	return reply, nil
}

// State returns a copy of the conversation state.
func (s *Session) State() dialog.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dialog.State{Scenario: s.state.Scenario, Step: s.state.Step, Slots: s.state.SlotsCopy()}
}

// Reset abandons the active scenario, if any.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()
}
