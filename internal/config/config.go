// Package config reads process configuration from LINGO_* environment variables, optionally
// seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/flexigpt/lingo-go/internal/logging"
)

const Prefix = "LINGO_"

type Config struct {
	Addr           string   `env:"ADDR"            envDefault:"127.0.0.1:5000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// CatalogDir, when set, replaces the built-in scenarios with every *.yaml file in the directory.
	CatalogDir string `env:"CATALOG_DIR"`

	SessionTTL      time.Duration `env:"SESSION_TTL"      envDefault:"30m"`
	MaxSessions     int           `env:"MAX_SESSIONS"     envDefault:"4096"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Log    logging.Config `envPrefix:"LOG_"`
	OpenAI OpenAIConfig   `envPrefix:"OPENAI_"`
}

type OpenAIConfig struct {
	// APIKey falls back to the conventional OPENAI_API_KEY variable.
	APIKey      string        `env:"API_KEY"`
	BaseURL     string        `env:"BASE_URL"`
	SpeechModel string        `env:"SPEECH_MODEL"`
	Voice       string        `env:"VOICE"`
	ChatModel   string        `env:"CHAT_MODEL"`
	Timeout     time.Duration `env:"TIMEOUT"   envDefault:"20s"`
	MaxTries    uint          `env:"MAX_TRIES" envDefault:"3"`

	// Rewrite routes grammar and vocabulary requests through the chat model.
	Rewrite bool `env:"REWRITE" envDefault:"false"`
}

func (c OpenAIConfig) Enabled() bool { return c.APIKey != "" }

// Load reads the given .env files (".env" when none are named; missing files are ignored) into
// the process environment and parses the configuration from it.
func Load(dotenv ...string) (Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}
	return parse(env.Options{Prefix: Prefix})
}

// Parse reads the configuration from environ instead of the process environment.
func Parse(environ map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = lookup(opts, "OPENAI_API_KEY")
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL))
	}
	if c.MaxSessions <= 0 {
		errs = append(errs, fmt.Errorf("max sessions must be positive, got %d", c.MaxSessions))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.OpenAI.Rewrite && !c.OpenAI.Enabled() {
		errs = append(errs, errors.New("openai rewrite requires an api key"))
	}
	return errors.Join(errs...)
}

func lookup(opts env.Options, key string) string {
	if opts.Environment != nil {
		return opts.Environment[key]
	}
	return os.Getenv(key)
}
