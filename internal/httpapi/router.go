// Package httpapi exposes the tutor runtime over HTTP with gin.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Service        Service
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Logger))
	r.Use(CORS(cfg.AllowedOrigins))

	health := NewHealthHandler()
	r.GET("/healthcheck", health.HealthCheck)

	if cfg.Service == nil {
		return r
	}
	tutor := NewTutorHandler(cfg.Service)
	writing := NewWritingHandler(cfg.Service)
	speech := NewSpeechHandler(cfg.Service)
	quiz := NewQuizHandler(cfg.Service)

	api := r.Group("/api")
	{
		api.GET("/scenarios", tutor.ListScenarios)
		api.POST("/chat", tutor.Chat)
		api.DELETE("/chat/:session_id", tutor.EndChat)

		api.POST("/process", writing.Process)
		api.POST("/tts", speech.TextToSpeech)

		api.GET("/quiz/new", quiz.NewQuestion)
		api.POST("/quiz/check", quiz.Check)
	}
	return r
}

// NewServer wraps h in an http.Server with conservative timeouts.
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
