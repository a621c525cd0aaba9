package lingo

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/flexigpt/lingo-go/spec"
)

const customCatalog = `
scenarios:
  - id: greet
    title: Greeting
    start_step: hello
    steps:
      - id: hello
        bot: Hi! What is your name?
        accept_any: true
        next_step: bye
      - id: bye
        bot: Nice to meet you, {name}.
        feedback: Done.
    extract:
      - step: hello
        slot: name
        capture: true
`

func mustNewRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	rt, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if rt == nil {
		t.Fatalf("New: got nil runtime")
	}
	return rt
}

func TestRuntime_RespondWalkthrough(t *testing.T) {
	t.Parallel()

	rt := mustNewRuntime(t)
	ctx := t.Context()

	id, err := rt.NewSession(ctx)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	s := rt.Session(id)

	steps := []struct {
		msg     string
		outcome spec.Outcome
	}{
		{"hi", spec.OutcomeStarted},
		{"a cappuccino please", spec.OutcomeAdvanced},
		{"large", spec.OutcomeAdvanced},
		{"yes, a muffin", spec.OutcomeAdvanced},
		{"cash", spec.OutcomeCompleted},
	}
	var last spec.Reply
	for _, st := range steps {
		last, err = s.Respond(ctx, "coffee_shop", st.msg)
		if err != nil {
			t.Fatalf("Respond(%q): %v", st.msg, err)
		}
		if last.Outcome != st.outcome {
			t.Fatalf("Respond(%q): outcome=%q want %q (%q)", st.msg, last.Outcome, st.outcome, last.Text)
		}
	}
	if !strings.HasSuffix(last.Text, "\n\nGreat job! You successfully ordered a drink. This conversation is complete.") {
		t.Fatalf("final reply missing feedback: %q", last.Text)
	}
}

func TestRuntime_RespondValidation(t *testing.T) {
	t.Parallel()

	rt := mustNewRuntime(t)

	if _, err := rt.Respond(t.Context(), " ", spec.RespondArgs{Scenario: "coffee_shop"}); !errors.Is(
		err,
		spec.ErrInvalidArgument,
	) {
		t.Fatalf("blank session id: want ErrInvalidArgument, got %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if _, err := rt.Respond(ctx, "s1", spec.RespondArgs{Scenario: "coffee_shop"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled: want context.Canceled, got %v", err)
	}

	got, err := rt.Respond(t.Context(), "s1", spec.RespondArgs{Scenario: "nope", Message: "hi"})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got.Text != spec.InvalidScenarioText {
		t.Fatalf("got %q", got.Text)
	}
}

func TestRuntime_SessionsAreIsolated(t *testing.T) {
	t.Parallel()

	rt := mustNewRuntime(t)
	ctx := t.Context()

	var wg sync.WaitGroup
	replies := make([]spec.Reply, 2)
	errs := make([]error, 2)
	drinks := []string{"latte", "tea"}

	for i, drink := range drinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := spec.SessionID("learner-" + drink)
			if _, errs[i] = rt.Respond(ctx, id, spec.RespondArgs{Scenario: "coffee_shop", Message: "hi"}); errs[i] != nil {
				return
			}
			replies[i], errs[i] = rt.Respond(ctx, id, spec.RespondArgs{Scenario: "coffee_shop", Message: drink})
		}()
	}
	wg.Wait()

	for i, drink := range drinks {
		if errs[i] != nil {
			t.Fatalf("session %d: %v", i, errs[i])
		}
		if got := replies[i].Slots["drink"]; got != drink {
			t.Fatalf("session %d: drink=%q want %q", i, got, drink)
		}
		if !strings.Contains(replies[i].Text, "for your "+drink+"?") {
			t.Fatalf("session %d: text=%q", i, replies[i].Text)
		}
	}
}

func TestRuntime_CloseSessionStartsOver(t *testing.T) {
	t.Parallel()

	rt := mustNewRuntime(t)
	ctx := t.Context()
	id := spec.SessionID("learner")

	for _, msg := range []string{"hi", "latte"} {
		if _, err := rt.Respond(ctx, id, spec.RespondArgs{Scenario: "coffee_shop", Message: msg}); err != nil {
			t.Fatalf("Respond: %v", err)
		}
	}
	if err := rt.CloseSession(ctx, id); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
	if err := rt.CloseSession(ctx, ""); err != nil {
		t.Fatalf("CloseSession blank: %v", err)
	}

	got, err := rt.Respond(ctx, id, spec.RespondArgs{Scenario: "coffee_shop", Message: "medium"})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got.Outcome != spec.OutcomeStarted {
		t.Fatalf("outcome=%q want started", got.Outcome)
	}
}

func TestRuntime_ActiveScenario(t *testing.T) {
	t.Parallel()

	rt := mustNewRuntime(t)
	ctx := t.Context()

	if _, ok := rt.ActiveScenario("nobody"); ok {
		t.Fatalf("unknown session reported active")
	}

	if _, err := rt.Respond(ctx, "learner", spec.RespondArgs{Scenario: "job_interview", Message: "hi"}); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got, ok := rt.ActiveScenario("learner"); !ok || got != "job_interview" {
		t.Fatalf("ActiveScenario=%q,%v", got, ok)
	}

	if _, err := rt.Respond(ctx, "learner", spec.RespondArgs{Scenario: "moon_base", Message: "hi"}); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got, ok := rt.ActiveScenario("learner"); !ok || got != "job_interview" {
		t.Fatalf("invalid scenario changed state: %q,%v", got, ok)
	}
}

func TestNew_CatalogOptions(t *testing.T) {
	t.Parallel()

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		rt := mustNewRuntime(t, WithCatalogYAML([]byte(customCatalog)))
		list := rt.ListScenarios()
		if len(list) != 1 || list[0].ID != "greet" {
			t.Fatalf("unexpected scenarios: %+v", list)
		}

		ctx := t.Context()
		s := rt.Session("g")
		if _, err := s.Respond(ctx, "greet", ""); err != nil {
			t.Fatalf("start: %v", err)
		}
		got, err := s.Respond(ctx, "greet", "  Ana ")
		if err != nil {
			t.Fatalf("Respond: %v", err)
		}
		if want := "Nice to meet you, Ana.\n\nDone."; got.Text != want {
			t.Fatalf("got %q want %q", got.Text, want)
		}
	})

	t.Run("fs", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{"scenarios/greet.yaml": {Data: []byte(customCatalog)}}
		rt := mustNewRuntime(t, WithCatalogFS(fsys, "scenarios/*.yaml"))
		if len(rt.ListScenarios()) != 1 {
			t.Fatalf("unexpected scenarios: %+v", rt.ListScenarios())
		}
	})

	t.Run("exclusive", func(t *testing.T) {
		t.Parallel()

		_, err := New(
			WithCatalogYAML([]byte(customCatalog)),
			WithCatalogFS(fstest.MapFS{}, "*.yaml"),
		)
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		_, err := New(
			WithLogger(slog.New(slog.DiscardHandler)),
			WithCatalogYAML([]byte("scenarios:\n  - id: x\n    title: X\n    start_step: missing\n")),
		)
		if !errors.Is(err, spec.ErrInvalidCatalog) {
			t.Fatalf("want ErrInvalidCatalog, got %v", err)
		}
	})
}

func TestRuntime_ScenariosPromptXML(t *testing.T) {
	t.Parallel()

	rt := mustNewRuntime(t)
	xml, err := rt.ScenariosPromptXML()
	if err != nil {
		t.Fatalf("ScenariosPromptXML: %v", err)
	}
	for _, id := range []string{"coffee_shop", "doctor_appointment", "job_interview", "weekend_trip"} {
		if !strings.Contains(xml, id) {
			t.Fatalf("xml missing %q:\n%s", id, xml)
		}
	}
}

func TestRuntime_Writing(t *testing.T) {
	t.Parallel()

	rt := mustNewRuntime(t, WithDictionary(map[string]DictionaryEntry{
		"gato": {Definition: "A cat.", Example: "El gato duerme."},
	}))
	ctx := t.Context()

	if got := rt.Explain("GATO"); !got.Found {
		t.Fatalf("Explain: %+v", got)
	}
	if got := rt.Explain("ephemeral"); got.Found {
		t.Fatalf("built-in dictionary should be replaced: %+v", got)
	}

	got, err := rt.Process(ctx, ActionGrammar, "she have a dog")
	if err != nil {
		t.Fatalf("Process grammar: %v", err)
	}
	if got != "She has a dog." {
		t.Fatalf("grammar=%q", got)
	}

	if _, err := rt.Process(ctx, "summarize", "text"); !errors.Is(err, spec.ErrInvalidArgument) {
		t.Fatalf("bad action: want ErrInvalidArgument, got %v", err)
	}
	if _, err := rt.Process(ctx, ActionVocabulary, ""); !errors.Is(err, spec.ErrInvalidArgument) {
		t.Fatalf("blank text: want ErrInvalidArgument, got %v", err)
	}
}

type stubRewriter struct{}

func (stubRewriter) Rewrite(ctx context.Context, action, text string) (string, error) {
	return "[" + action + "] " + text, nil
}

func TestRuntime_RewriterOption(t *testing.T) {
	t.Parallel()

	rt := mustNewRuntime(t, WithRewriter(stubRewriter{}))
	got, err := rt.Process(t.Context(), ActionVocabulary, "good")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != "[vocabulary] good" {
		t.Fatalf("got %q", got)
	}
}

func TestRuntime_Quiz(t *testing.T) {
	t.Parallel()

	rt := mustNewRuntime(t, WithQuizRand(func(int) int { return 0 }))

	q := rt.NewQuestion()
	if q.ID != "q1" || len(q.Options) != 4 {
		t.Fatalf("unexpected question: %+v", q)
	}
	res, err := rt.CheckAnswer(q.ID, "He doesn't like vegetables.")
	if err != nil {
		t.Fatalf("CheckAnswer: %v", err)
	}
	if !res.IsCorrect {
		t.Fatalf("expected correct: %+v", res)
	}

	if _, err := rt.CheckAnswer("q1", ""); !errors.Is(err, spec.ErrInvalidArgument) {
		t.Fatalf("missing answer: want ErrInvalidArgument, got %v", err)
	}
	if _, err := rt.CheckAnswer("zz", "x"); !errors.Is(err, spec.ErrQuestionNotFound) {
		t.Fatalf("unknown id: want ErrQuestionNotFound, got %v", err)
	}
}

type stubSpeaker struct{ err error }

func (s stubSpeaker) Speak(ctx context.Context, text string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("mp3:" + text), nil
}

func TestRuntime_Speak(t *testing.T) {
	t.Parallel()

	plain := mustNewRuntime(t)
	if plain.SpeechEnabled() {
		t.Fatalf("speech should be disabled by default")
	}
	if _, err := plain.Speak(t.Context(), "hello"); !errors.Is(err, spec.ErrSpeechUnavailable) {
		t.Fatalf("want ErrSpeechUnavailable, got %v", err)
	}

	rt := mustNewRuntime(t, WithSpeaker(stubSpeaker{}))
	if _, err := rt.Speak(t.Context(), " "); !errors.Is(err, spec.ErrInvalidArgument) {
		t.Fatalf("blank: want ErrInvalidArgument, got %v", err)
	}
	audio, err := rt.Speak(t.Context(), "hello")
	if err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if string(audio) != "mp3:hello" {
		t.Fatalf("audio=%q", audio)
	}
}

func TestRuntime_Tools(t *testing.T) {
	t.Parallel()

	rt := mustNewRuntime(t)

	tools := Tools()
	slugs := make([]string, 0, len(tools))
	for _, tl := range tools {
		slugs = append(slugs, tl.Slug)
	}
	if got := strings.Join(slugs, ","); got != "tutor.respond,tutor.list_scenarios,writing.explain" {
		t.Fatalf("slugs=%s", got)
	}

	if _, err := rt.NewToolsRegistry(""); !errors.Is(err, spec.ErrInvalidArgument) {
		t.Fatalf("blank id: want ErrInvalidArgument, got %v", err)
	}
	reg, err := rt.Session("tools").NewToolsRegistry()
	if err != nil {
		t.Fatalf("NewToolsRegistry: %v", err)
	}
	if reg == nil {
		t.Fatalf("nil registry")
	}
}
