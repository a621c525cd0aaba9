package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flexigpt/lingo-go/spec"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondErr maps a runtime error to a status and code.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, spec.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, spec.ErrQuestionNotFound):
		RespondError(c, http.StatusNotFound, "question_not_found", err)
	case errors.Is(err, spec.ErrScenarioNotFound):
		RespondError(c, http.StatusNotFound, "scenario_not_found", err)
	case errors.Is(err, spec.ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "session_not_found", err)
	case errors.Is(err, spec.ErrSpeechUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "speech_unavailable", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		RespondError(c, http.StatusServiceUnavailable, "canceled", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
