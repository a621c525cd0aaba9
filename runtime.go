package lingo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flexigpt/llmtools-go"

	"github.com/flexigpt/lingo-go/internal/catalog"
	"github.com/flexigpt/lingo-go/internal/dialog"
	"github.com/flexigpt/lingo-go/internal/quiz"
	"github.com/flexigpt/lingo-go/internal/session"
	"github.com/flexigpt/lingo-go/internal/writing"
	"github.com/flexigpt/lingo-go/spec"
	"github.com/flexigpt/lingo-go/tutortool"
)

var _ spec.Runtime = (*Runtime)(nil)

type Runtime struct {
	logger *slog.Logger

	catalog  *catalog.Catalog
	engine   *dialog.Engine
	sessions *session.Store

	writer  *writing.Processor
	quiz    *quiz.Bank
	speaker Speaker
}

func New(opts ...Option) (*Runtime, error) {
	o := defaultRuntimeOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	cat, err := loadCatalog(o)
	if err != nil {
		return nil, err
	}

	bank, err := loadQuiz(o)
	if err != nil {
		return nil, err
	}

	dict := writing.DefaultDictionary()
	if len(o.dictionary) > 0 {
		entries := make(map[string]writing.Entry, len(o.dictionary))
		for w, e := range o.dictionary {
			entries[w] = writing.Entry{Definition: e.Definition, Example: e.Example}
		}
		dict = writing.NewDictionary(entries)
	}
	var rw writing.Rewriter
	if o.rewriter != nil {
		rw = o.rewriter
	}
	writer := writing.NewProcessor(dict, rw, o.logger)

	engine := dialog.NewEngine(cat, o.logger)
	rt := &Runtime{
		logger:  o.logger,
		catalog: cat,
		engine:  engine,
		sessions: session.NewStore(session.StoreConfig{
			TTL:         o.sessionTTL,
			MaxSessions: o.maxSessions,
			Engine:      engine,
			Logger:      o.logger,
		}),
		writer:  writer,
		quiz:    bank,
		speaker: o.speaker,
	}
	o.logger.Debug("runtime ready", "scenarios", len(cat.List()), "quizQuestions", bank.Len())
	return rt, nil
}

func loadCatalog(o runtimeOptions) (*catalog.Catalog, error) {
	switch {
	case o.catalogFS != nil && len(o.catalogYAML) > 0:
		return nil, errors.New("catalog fs and catalog yaml are mutually exclusive")
	case o.catalogFS != nil:
		return catalog.LoadFS(o.catalogFS, o.catalogPattern, o.logger)
	case len(o.catalogYAML) > 0:
		return catalog.ParseAll(o.catalogYAML, o.logger)
	default:
		return catalog.Default()
	}
}

func loadQuiz(o runtimeOptions) (*quiz.Bank, error) {
	if len(o.quizYAML) > 0 {
		return quiz.ParseBank(o.quizYAML, quiz.WithPicker(o.quizPick))
	}
	def, err := quiz.Default()
	if err != nil {
		return nil, err
	}
	return def.WithPicker(o.quizPick), nil
}

// NewSession mints a new session id.
func (r *Runtime) NewSession(ctx context.Context) (spec.SessionID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.sessions.NewSessionID(), nil
}

// CloseSession drops a session. Unknown or blank ids are not an error.
func (r *Runtime) CloseSession(ctx context.Context, id spec.SessionID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(string(id)) == "" {
		return nil
	}
	r.sessions.Delete(id)
	return nil
}

// ActiveScenario reports the scenario in progress on sessionID, if any. It never creates a
// session.
func (r *Runtime) ActiveScenario(sessionID spec.SessionID) (spec.ScenarioID, bool) {
	s, ok := r.sessions.Get(sessionID)
	if !ok {
		return "", false
	}
	st := s.State()
	return st.Scenario, st.Active()
}

// Session returns a convenience wrapper bound to a session ID.
func (r *Runtime) Session(id spec.SessionID) *Session {
	return &Session{rt: r, id: id}
}

// Respond runs one conversation turn for sessionID. Sessions are created on first use, so callers
// may bring their own ids. Conversational failures (unknown scenario, unmatched reply) come back
// as a Reply; errors are reserved for a blank session id and a cancelled context.
func (r *Runtime) Respond(ctx context.Context, sessionID spec.SessionID, args spec.RespondArgs) (spec.Reply, error) {
	if err := ctx.Err(); err != nil {
		return spec.Reply{}, err
	}
	s, err := r.sessions.Acquire(sessionID)
	if err != nil {
		return spec.Reply{}, err
	}
	reply, err := s.Respond(ctx, args)
	if errors.Is(err, spec.ErrSessionNotFound) {
		// Evicted between Acquire and the turn; the conversation starts over.
		if s, err = r.sessions.Acquire(sessionID); err != nil {
			return spec.Reply{}, err
		}
		reply, err = s.Respond(ctx, args)
	}
	return reply, err
}

// ListScenarios returns the catalog scenarios in declaration order.
func (r *Runtime) ListScenarios() []spec.ScenarioSummary { return r.catalog.List() }

// ScenariosPromptXML builds <availableScenarios> XML for system prompts.
func (r *Runtime) ScenariosPromptXML() (string, error) {
	return catalog.AvailableScenariosXML(r.catalog.List())
}

func (r *Runtime) Explain(word string) spec.ExplainResult { return r.writer.Explain(word) }

// Process runs a writing action ("explain", "grammar" or "vocabulary") over text.
func (r *Runtime) Process(ctx context.Context, action, text string) (string, error) {
	a, err := writing.ParseAction(action)
	if err != nil {
		return "", err
	}
	return r.writer.Process(ctx, a, text)
}

// NewQuestion returns a random quiz question.
func (r *Runtime) NewQuestion() spec.Question { return r.quiz.Next() }

func (r *Runtime) CheckAnswer(questionID, answer string) (spec.AnswerCheck, error) {
	if strings.TrimSpace(questionID) == "" || strings.TrimSpace(answer) == "" {
		return spec.AnswerCheck{}, fmt.Errorf("%w: question id and answer are required", spec.ErrInvalidArgument)
	}
	return r.quiz.Check(questionID, answer)
}

// SpeechEnabled reports whether a Speaker is configured.
func (r *Runtime) SpeechEnabled() bool { return r.speaker != nil }

// Speak synthesizes text. Without a configured Speaker it returns spec.ErrSpeechUnavailable.
func (r *Runtime) Speak(ctx context.Context, text string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", spec.ErrInvalidArgument)
	}
	if r.speaker == nil {
		return nil, spec.ErrSpeechUnavailable
	}
	return r.speaker.Speak(ctx, text)
}

// NewToolsRegistry returns a new llmtools-go Registry with the tutor tools bound to sessionID.
// The tools address the session by id, so they keep working after the session expires.
func (r *Runtime) NewToolsRegistry(
	sessionID spec.SessionID,
	opts ...llmtools.RegistryOption,
) (*llmtools.Registry, error) {
	return tutortool.NewTutorRegistry(r, sessionID, opts...)
}
