package lingo

import (
	"errors"
	"io/fs"
	"log/slog"
	"time"
)

type runtimeOptions struct {
	logger *slog.Logger

	catalogYAML    [][]byte
	catalogFS      fs.FS
	catalogPattern string

	sessionTTL  time.Duration
	maxSessions int

	speaker    Speaker
	rewriter   Rewriter
	dictionary map[string]DictionaryEntry

	quizYAML []byte
	quizPick func(n int) int
}

type Option func(*runtimeOptions) error

func WithLogger(l *slog.Logger) Option {
	return func(o *runtimeOptions) error {
		o.logger = l
		return nil
	}
}

// WithCatalogFS loads the scenario catalog from the files in fsys matching pattern, replacing the
// built-in scenarios.
func WithCatalogFS(fsys fs.FS, pattern string) Option {
	return func(o *runtimeOptions) error {
		if fsys == nil {
			return errors.New("catalog fs is nil")
		}
		if pattern == "" {
			pattern = "*.yaml"
		}
		o.catalogFS = fsys
		o.catalogPattern = pattern
		return nil
	}
}

// WithCatalogYAML adds a YAML catalog document. Several documents are merged; together they
// replace the built-in scenarios.
func WithCatalogYAML(data []byte) Option {
	return func(o *runtimeOptions) error {
		if len(data) == 0 {
			return errors.New("catalog yaml is empty")
		}
		o.catalogYAML = append(o.catalogYAML, data)
		return nil
	}
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(o *runtimeOptions) error {
		o.sessionTTL = ttl
		return nil
	}
}

func WithMaxSessions(maxSessions int) Option {
	return func(o *runtimeOptions) error {
		o.maxSessions = maxSessions
		return nil
	}
}

// WithSpeaker enables Speak.
func WithSpeaker(s Speaker) Option {
	return func(o *runtimeOptions) error {
		o.speaker = s
		return nil
	}
}

// WithRewriter puts r in front of the rule-based grammar and vocabulary actions.
func WithRewriter(r Rewriter) Option {
	return func(o *runtimeOptions) error {
		o.rewriter = r
		return nil
	}
}

// WithDictionary replaces the built-in explanation dictionary.
func WithDictionary(entries map[string]DictionaryEntry) Option {
	return func(o *runtimeOptions) error {
		if len(entries) == 0 {
			return errors.New("dictionary is empty")
		}
		o.dictionary = entries
		return nil
	}
}

// WithQuizYAML replaces the built-in quiz bank.
func WithQuizYAML(data []byte) Option {
	return func(o *runtimeOptions) error {
		o.quizYAML = data
		return nil
	}
}

// WithQuizRand sets the index source used to pick quiz questions. pick(n) must return a value in
// [0, n).
func WithQuizRand(pick func(n int) int) Option {
	return func(o *runtimeOptions) error {
		o.quizPick = pick
		return nil
	}
}

func defaultRuntimeOptions() runtimeOptions {
	return runtimeOptions{logger: slog.Default()}
}
