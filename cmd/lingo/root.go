package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	lingo "github.com/flexigpt/lingo-go"
	"github.com/flexigpt/lingo-go/internal/assist"
	"github.com/flexigpt/lingo-go/internal/config"
	"github.com/flexigpt/lingo-go/internal/logging"
)

// app carries what every subcommand shares once the root pre-run has loaded configuration.
type app struct {
	stderr io.Writer

	envFile string
	cfg     config.Config
	logger  *slog.Logger
	closer  io.Closer
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr}

	root := &cobra.Command{
		Use:   "lingo",
		Short: "Scripted scenario tutor for language practice",
		Long: `lingo walks learners through scripted everyday conversations (ordering coffee,
a job interview, planning a trip), offers writing help and a vocabulary quiz.

Configuration is read from LINGO_* environment variables and an optional .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "dotenv file to load (default .env)")

	root.AddCommand(
		newServeCmd(a),
		newChatCmd(a),
		newScenariosCmd(a),
		newValidateCmd(a),
	)
	return root
}

func (a *app) init() error {
	var files []string
	if a.envFile != "" {
		if _, err := os.Stat(a.envFile); err != nil {
			return fmt.Errorf("env file: %w", err)
		}
		files = append(files, a.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(cfg.Log, a.stderr)
	if err != nil {
		return err
	}
	a.cfg, a.logger, a.closer = cfg, logger, closer
	slog.SetDefault(logger)
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// newRuntime builds the tutor runtime from the loaded configuration.
func (a *app) newRuntime() (*lingo.Runtime, error) {
	opts := []lingo.Option{
		lingo.WithLogger(a.logger),
		lingo.WithSessionTTL(a.cfg.SessionTTL),
		lingo.WithMaxSessions(a.cfg.MaxSessions),
	}
	if a.cfg.CatalogDir != "" {
		opts = append(opts, lingo.WithCatalogFS(os.DirFS(a.cfg.CatalogDir), "*.yaml"))
	}
	if a.cfg.OpenAI.Enabled() {
		client, err := assist.New(assist.Config{
			APIKey:      a.cfg.OpenAI.APIKey,
			BaseURL:     a.cfg.OpenAI.BaseURL,
			SpeechModel: a.cfg.OpenAI.SpeechModel,
			Voice:       a.cfg.OpenAI.Voice,
			ChatModel:   a.cfg.OpenAI.ChatModel,
			Timeout:     a.cfg.OpenAI.Timeout,
			MaxTries:    a.cfg.OpenAI.MaxTries,
		}, a.logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, lingo.WithSpeaker(client))
		if a.cfg.OpenAI.Rewrite {
			opts = append(opts, lingo.WithRewriter(client))
		}
	} else {
		a.logger.Info("openai api key not set; text-to-speech disabled")
	}

	rt, err := lingo.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("build runtime: %w", err)
	}
	return rt, nil
}
