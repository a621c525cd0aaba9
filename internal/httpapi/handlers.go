package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flexigpt/lingo-go/spec"
)

// Service is what the handlers need from the tutor runtime.
type Service interface {
	spec.Runtime

	NewSession(ctx context.Context) (spec.SessionID, error)
	CloseSession(ctx context.Context, id spec.SessionID) error
	ActiveScenario(id spec.SessionID) (spec.ScenarioID, bool)

	Process(ctx context.Context, action, text string) (string, error)

	NewQuestion() spec.Question
	CheckAnswer(questionID, answer string) (spec.AnswerCheck, error)

	SpeechEnabled() bool
	Speak(ctx context.Context, text string) ([]byte, error)
}

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type TutorHandler struct {
	svc Service
}

func NewTutorHandler(svc Service) *TutorHandler { return &TutorHandler{svc: svc} }

type chatRequest struct {
	Message   string `json:"message"`
	Scenario  string `json:"scenario"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Reply     string          `json:"reply"`
	Outcome   spec.Outcome    `json:"outcome"`
	Scenario  spec.ScenarioID `json:"scenario,omitempty"`
	Step      spec.StepID     `json:"step,omitempty"`
	SessionID spec.SessionID  `json:"session_id"`
}

// ListScenarios handles GET /api/scenarios.
func (h *TutorHandler) ListScenarios(c *gin.Context) {
	RespondOK(c, gin.H{"scenarios": h.svc.ListScenarios()})
}

// Chat handles POST /api/chat. The session id comes from the body or the X-Session-ID header; a
// new one is minted when both are absent. An empty message is only accepted when the turn starts
// a scenario.
func (h *TutorHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	ctx := c.Request.Context()

	sid := spec.SessionID(strings.TrimSpace(req.SessionID))
	if sid == "" {
		sid = spec.SessionID(strings.TrimSpace(c.GetHeader(SessionHeader)))
	}
	if sid == "" {
		id, err := h.svc.NewSession(ctx)
		if err != nil {
			respondErr(c, err)
			return
		}
		sid = id
	}
	c.Header(SessionHeader, string(sid))

	scenario := spec.ScenarioID(strings.TrimSpace(req.Scenario))
	msg := req.Message
	if strings.TrimSpace(msg) == "" {
		if active, ok := h.svc.ActiveScenario(sid); ok && active == scenario {
			RespondError(c, http.StatusBadRequest, "missing_message", errors.New("no message provided"))
			return
		}
		msg = "start"
	}

	reply, err := h.svc.Respond(ctx, sid, spec.RespondArgs{Scenario: scenario, Message: msg})
	if err != nil {
		respondErr(c, err)
		return
	}
	RespondOK(c, chatResponse{
		Reply:     reply.Text,
		Outcome:   reply.Outcome,
		Scenario:  reply.Scenario,
		Step:      reply.Step,
		SessionID: sid,
	})
}

// EndChat handles DELETE /api/chat/:session_id.
func (h *TutorHandler) EndChat(c *gin.Context) {
	if err := h.svc.CloseSession(c.Request.Context(), spec.SessionID(c.Param("session_id"))); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type WritingHandler struct {
	svc Service
}

func NewWritingHandler(svc Service) *WritingHandler { return &WritingHandler{svc: svc} }

type processRequest struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

// Process handles POST /api/process.
func (h *WritingHandler) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		RespondError(c, http.StatusBadRequest, "missing_text", errors.New("no text provided"))
		return
	}
	out, err := h.svc.Process(c.Request.Context(), req.Action, req.Text)
	if err != nil {
		if errors.Is(err, spec.ErrInvalidArgument) {
			RespondError(c, http.StatusBadRequest, "invalid_action", err)
			return
		}
		respondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"result": out})
}

type SpeechHandler struct {
	svc Service
}

func NewSpeechHandler(svc Service) *SpeechHandler { return &SpeechHandler{svc: svc} }

type ttsRequest struct {
	Text string `json:"text"`
}

// TextToSpeech handles POST /api/tts and answers with MP3 audio.
func (h *SpeechHandler) TextToSpeech(c *gin.Context) {
	var req ttsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		RespondError(c, http.StatusBadRequest, "missing_text", errors.New("no text provided for speech"))
		return
	}
	if !h.svc.SpeechEnabled() {
		RespondError(c, http.StatusServiceUnavailable, "speech_unavailable", spec.ErrSpeechUnavailable)
		return
	}
	audio, err := h.svc.Speak(c.Request.Context(), req.Text)
	if err != nil {
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "speech_failed", errors.New("failed to generate audio"))
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", audio)
}

type QuizHandler struct {
	svc Service
}

func NewQuizHandler(svc Service) *QuizHandler { return &QuizHandler{svc: svc} }

type checkRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// NewQuestion handles GET /api/quiz/new.
func (h *QuizHandler) NewQuestion(c *gin.Context) {
	RespondOK(c, h.svc.NewQuestion())
}

// Check handles POST /api/quiz/check.
func (h *QuizHandler) Check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if strings.TrimSpace(req.QuestionID) == "" || strings.TrimSpace(req.Answer) == "" {
		RespondError(c, http.StatusBadRequest, "missing_field", errors.New("missing question ID or answer"))
		return
	}
	res, err := h.svc.CheckAnswer(req.QuestionID, req.Answer)
	if err != nil {
		respondErr(c, err)
		return
	}
	RespondOK(c, res)
}
