// Package assist talks to an OpenAI-compatible API for speech synthesis and LLM rewriting.
// Calls run under a per-attempt timeout and are retried with exponential backoff.
package assist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	openai "github.com/sashabaranov/go-openai"

	"github.com/flexigpt/lingo-go/internal/writing"
	"github.com/flexigpt/lingo-go/spec"
)

const (
	DefaultSpeechModel = string(openai.TTSModel1)
	DefaultVoice       = string(openai.VoiceAlloy)
	DefaultChatModel   = openai.GPT4oMini
	DefaultTimeout     = 20 * time.Second
	DefaultMaxTries    = 3

	// maxSpeechBytes bounds the audio read from one response.
	maxSpeechBytes = 16 << 20
)

type Config struct {
	APIKey  string
	BaseURL string

	SpeechModel string
	Voice       string
	ChatModel   string

	// Timeout bounds one attempt.
	Timeout  time.Duration
	MaxTries uint

	// InitialInterval overrides the first backoff delay. Zero keeps the library default.
	InitialInterval time.Duration
}

// api is the subset of *openai.Client used here.
type api interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
	CreateChatCompletion(
		ctx context.Context,
		request openai.ChatCompletionRequest,
	) (openai.ChatCompletionResponse, error)
}

type Client struct {
	api    api
	cfg    Config
	logger *slog.Logger
}

// New builds a client for cfg. An empty API key is rejected.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: api key is required", spec.ErrInvalidArgument)
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return newWithAPI(openai.NewClientWithConfig(oc), cfg, logger), nil
}

func newWithAPI(a api, cfg Config, logger *slog.Logger) *Client {
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = DefaultSpeechModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxTries == 0 {
		cfg.MaxTries = DefaultMaxTries
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{api: a, cfg: cfg, logger: logger}
}

// Speak synthesizes text as MP3 audio.
func (c *Client) Speak(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", spec.ErrInvalidArgument)
	}
	audio, err := retry(ctx, c, "speech", func(ctx context.Context) ([]byte, error) {
		resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
			Model:          openai.SpeechModel(c.cfg.SpeechModel),
			Input:          text,
			Voice:          openai.SpeechVoice(c.cfg.Voice),
			ResponseFormat: openai.SpeechResponseFormatMp3,
		})
		if err != nil {
			return nil, err
		}
		defer resp.Close()
		return io.ReadAll(io.LimitReader(resp, maxSpeechBytes))
	})
	if err != nil {
		return nil, errors.Join(spec.ErrSpeechUnavailable, err)
	}
	return audio, nil
}

var rewritePrompts = map[writing.Action]string{
	writing.ActionGrammar: "You are an English writing tutor. Correct the grammar and spelling of the " +
		"user's text. Keep the meaning and tone. Reply with the corrected text only.",
	writing.ActionVocabulary: "You are an English writing tutor. Rewrite the user's text with richer, " +
		"more precise vocabulary. Keep the meaning. Reply with the rewritten text only.",
}

// Rewrite implements writing.Rewriter.
func (c *Client) Rewrite(ctx context.Context, action, text string) (string, error) {
	prompt, ok := rewritePrompts[writing.Action(action)]
	if !ok {
		return "", fmt.Errorf("%w: cannot rewrite for action %q", spec.ErrInvalidArgument, action)
	}
	out, err := retry(ctx, c, "rewrite", func(ctx context.Context) (string, error) {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.cfg.ChatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: prompt},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
			Temperature: 0.2,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", backoff.Permanent(errors.New("empty completion"))
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	})
	if err != nil {
		return "", errors.Join(spec.ErrRewriteUnavailable, err)
	}
	return out, nil
}

func retry[T any](ctx context.Context, c *Client, op string, fn func(context.Context) (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	if c.cfg.InitialInterval > 0 {
		b.InitialInterval = c.cfg.InitialInterval
	}
	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, backoff.Permanent(err)
		}
		attempt++
		actx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()

		v, err := fn(actx)
		if err != nil {
			if !retryable(err) {
				return v, backoff.Permanent(err)
			}
			c.logger.Debug("assist call failed", "op", op, "attempt", attempt, "err", err)
		}
		return v, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(c.cfg.MaxTries))
}

// retryable reports whether err is worth another attempt: transport errors, timeouts, rate limits
// and server errors are; other API errors are not.
func retryable(err error) bool {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status == 0 {
		return true
	}
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
