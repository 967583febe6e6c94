package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammarquiz/internal/app"
	"github.com/abhisek/grammarquiz/internal/config"
	"github.com/abhisek/grammarquiz/internal/generation"
	"github.com/abhisek/grammarquiz/internal/i18n"
	"github.com/abhisek/grammarquiz/internal/llm"
	"github.com/abhisek/grammarquiz/internal/logging"
	"github.com/abhisek/grammarquiz/internal/quizgen"
	"github.com/abhisek/grammarquiz/internal/store"
)

// runApp resolves configuration, opens the store, builds the generation
// pipeline and launches the TUI. The TUI logs to a file.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	logger, closer, err := logging.SetupFile(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()

	provider, err := llm.NewProvider(ctx, cfg.LLM, logger)
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}

	st, err := store.Open(cfg.DBPath, store.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	logger.Info("starting grammarquiz",
		"provider", provider.Name(),
		"model", provider.ModelID(),
		"db", cfg.DBPath,
		"lang", cfg.Lang,
	)

	diff, _ := cmd.Flags().GetString("difficulty")
	noWelcome, _ := cmd.Flags().GetBool("no-welcome")

	return app.Run(ctx, app.Options{
		Orchestrator: newOrchestrator(cfg, provider, st, logger),
		Events:       st.Events(),
		Translator:   i18n.MustNew(cfg.Lang),
		Difficulty:   quizgen.ParseDifficulty(diff),
		SkipWelcome:  noWelcome,
	})
}

// newOrchestrator wires the generator and the store into an orchestrator
// whose events are labelled with the configured provider.
func newOrchestrator(cfg *config.Config, provider llm.Provider, st *store.Store, logger *slog.Logger) *generation.Orchestrator {
	genCfg := quizgen.DefaultConfig()
	return generation.New(generation.Config{
		Generator: quizgen.New(provider, genCfg, logger),
		Questions: st.Questions(),
		Events:    st.Events(),
		Provider:  cfg.LLM.Provider,
		Model:     provider.ModelID(),
		Timeout:   genCfg.Timeout,
		Logger:    logger,
	})
}
