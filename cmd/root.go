package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammarquiz/internal/config"
	"github.com/abhisek/grammarquiz/internal/logging"
	"github.com/abhisek/grammarquiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "grammarquiz",
	Short: "LLM-generated English grammar quiz",
	Long:  "grammarquiz asks an LLM for multiple-choice English grammar questions, checks them, stores them locally and quizzes you in the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

// Execute runs the root command. An interrupt cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	config.RegisterFlags(rootCmd)
	rootCmd.Flags().StringP("difficulty", "d", "intermediate", "Initial difficulty (beginner, intermediate, advanced or a1/b1/b2)")
	rootCmd.Flags().Bool("no-welcome", false, "Skip the welcome animation")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// openCLI loads configuration for a non-interactive command, logs to stderr
// and opens the store.
func openCLI(cmd *cobra.Command) (*config.Config, *store.Store, *slog.Logger, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	s, err := store.Open(cfg.DBPath, store.WithLogger(logger))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, s, logger, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
