package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/flexigpt/lingo-go"
	"github.com/flexigpt/lingo-go/spec"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubSpeaker struct{ err error }

func (s stubSpeaker) Speak(ctx context.Context, text string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("ID3" + text), nil
}

func newTestRouter(t *testing.T, opts ...lingo.Option) *gin.Engine {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	opts = append([]lingo.Option{lingo.WithLogger(logger)}, opts...)
	rt, err := lingo.New(opts...)
	require.NoError(t, err)

	return NewRouter(RouterConfig{Service: rt, Logger: logger})
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/healthcheck", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestListScenarios(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/api/scenarios", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[struct {
		Scenarios []spec.ScenarioSummary `json:"scenarios"`
	}](t, rec)
	require.Len(t, got.Scenarios, 4)
	require.Equal(t, spec.ScenarioID("coffee_shop"), got.Scenarios[0].ID)
	require.Equal(t, "Ordering Coffee", got.Scenarios[0].Title)
}

func TestChat_Conversation(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	// No session id: one is minted and echoed in body and header.
	rec := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"scenario": "coffee_shop"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[chatResponse](t, rec)
	require.NotEmpty(t, first.SessionID)
	require.Equal(t, string(first.SessionID), rec.Header().Get(SessionHeader))
	require.Equal(t, spec.OutcomeStarted, first.Outcome)
	require.Equal(t, "Hello! Welcome to Lingo Coffee. What can I get for you today?", first.Reply)

	// Continue through the header.
	h := http.Header{SessionHeader: {string(first.SessionID)}}
	rec = doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"scenario": "coffee_shop", "message": "a latte"}, h)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[chatResponse](t, rec)
	require.Equal(t, spec.OutcomeAdvanced, second.Outcome)
	require.Equal(t, spec.StepID("size"), second.Step)
	require.Contains(t, second.Reply, "for your latte?")

	// Empty message mid-scenario is rejected.
	rec = doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"scenario": "coffee_shop", "message": " "}, h)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "missing_message", decode[ErrorEnvelope](t, rec).Error.Code)

	// Empty message for another scenario starts it.
	rec = doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"scenario": "job_interview", "session_id": string(first.SessionID)}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, spec.OutcomeStarted, decode[chatResponse](t, rec).Outcome)

	// Ending the chat forgets the conversation.
	rec = doJSON(t, r, http.MethodDelete, "/api/chat/"+string(first.SessionID), nil, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"scenario": "job_interview", "message": "I am a nurse"}, h)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, spec.OutcomeStarted, decode[chatResponse](t, rec).Outcome)
}

func TestChat_InvalidScenarioAndBody(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"scenario": "mars", "message": "hi"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[chatResponse](t, rec)
	require.Equal(t, spec.InvalidScenarioText, got.Reply)
	require.Equal(t, spec.OutcomeInvalidScenario, got.Outcome)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	bad := httptest.NewRecorder()
	r.ServeHTTP(bad, req)
	require.Equal(t, http.StatusBadRequest, bad.Code)
	require.Equal(t, "invalid_json", decode[ErrorEnvelope](t, bad).Error.Code)
}

func TestProcess(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	cases := []struct {
		name     string
		body     gin.H
		status   int
		result   string
		wantCode string
	}{
		{name: "grammar", body: gin.H{"text": "i has a cat", "action": "grammar"}, status: 200, result: "I have a cat."},
		{name: "vocabulary", body: gin.H{"text": "a good day", "action": "vocabulary"}, status: 200, result: "a excellent day"},
		{name: "missing_text", body: gin.H{"action": "grammar"}, status: 400, wantCode: "missing_text"},
		{name: "invalid_action", body: gin.H{"text": "x", "action": "sing"}, status: 400, wantCode: "invalid_action"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := doJSON(t, r, http.MethodPost, "/api/process", tc.body, nil)
			require.Equal(t, tc.status, rec.Code)
			if tc.wantCode != "" {
				require.Equal(t, tc.wantCode, decode[ErrorEnvelope](t, rec).Error.Code)
				return
			}
			require.Equal(t, tc.result, decode[map[string]string](t, rec)["result"])
		})
	}

	rec := doJSON(t, r, http.MethodPost, "/api/process", gin.H{"text": "resilience", "action": "explain"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, decode[map[string]string](t, rec)["result"], "'Resilience' means:")
}

func TestTextToSpeech(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		r := newTestRouter(t)
		rec := doJSON(t, r, http.MethodPost, "/api/tts", gin.H{"text": "hello"}, nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("empty_text", func(t *testing.T) {
		t.Parallel()
		r := newTestRouter(t, lingo.WithSpeaker(stubSpeaker{}))
		rec := doJSON(t, r, http.MethodPost, "/api/tts", gin.H{"text": ""}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		r := newTestRouter(t, lingo.WithSpeaker(stubSpeaker{}))
		rec := doJSON(t, r, http.MethodPost, "/api/tts", gin.H{"text": "hello"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
		require.Equal(t, "ID3hello", rec.Body.String())
	})

	t.Run("speaker_failure", func(t *testing.T) {
		t.Parallel()
		r := newTestRouter(t, lingo.WithSpeaker(stubSpeaker{err: errors.New("quota")}))
		rec := doJSON(t, r, http.MethodPost, "/api/tts", gin.H{"text": "hello"}, nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "speech_failed", decode[ErrorEnvelope](t, rec).Error.Code)
	})
}

func TestQuiz(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, lingo.WithQuizRand(func(n int) int { return 9 }))

	rec := doJSON(t, r, http.MethodGet, "/api/quiz/new", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[spec.Question](t, rec)
	require.Equal(t, "q10", q.ID)
	require.Contains(t, q.Options, "since")

	rec = doJSON(t, r, http.MethodPost, "/api/quiz/check", gin.H{"question_id": "q10", "answer": "for"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	check := decode[spec.AnswerCheck](t, rec)
	require.False(t, check.IsCorrect)
	require.Equal(t, "since", check.CorrectAnswer)

	rec = doJSON(t, r, http.MethodPost, "/api/quiz/check", gin.H{"question_id": "q10"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/quiz/check", gin.H{"question_id": "q404", "answer": "x"}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "question_not_found", decode[ErrorEnvelope](t, rec).Error.Code)
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.POST("/api/chat", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
