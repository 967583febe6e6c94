package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammarquiz/internal/generation"
	"github.com/abhisek/grammarquiz/internal/llm"
	"github.com/abhisek/grammarquiz/internal/quizgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and store a new question batch without the TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		diff, _ := cmd.Flags().GetString("difficulty")
		hint, _ := cmd.Flags().GetString("hint")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, s, logger, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		provider, err := llm.NewProvider(ctx, cfg.LLM, logger)
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		orch := newOrchestrator(cfg, provider, s, logger)
		run, _ := orch.Start(quizgen.GenerateInput{
			Difficulty: quizgen.ParseDifficulty(diff),
			Hint:       strings.TrimSpace(hint),
		})
		res := run()
		msg, ok := res.(generation.ResultMsg)
		if !ok {
			return fmt.Errorf("unexpected generation result %T", res)
		}

		out := orch.Complete(ctx, msg)
		if out.Status != generation.OutcomeSucceeded {
			return fmt.Errorf("generation failed (%s): %w", out.Kind, out.Err)
		}
		if out.SizeMismatch {
			fmt.Fprintf(os.Stderr, "note: expected %d questions, saved %d\n", quizgen.BatchSize, out.Saved)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Questions)
		}
		printQuestions(cmd, out.Questions, true)
		fmt.Fprintf(cmd.OutOrStdout(), "\nSaved %d questions (attempt %s).\n", out.Saved, out.AttemptID)
		return nil
	},
}

// printQuestions writes a numbered question list, optionally with the answer
// and explanation under each question.
func printQuestions(cmd *cobra.Command, qs []quizgen.Question, answers bool) {
	w := cmd.OutOrStdout()
	for i, q := range qs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%2d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			mark := " "
			if answers && q.IsCorrect(j+1) {
				mark = "*"
			}
			fmt.Fprintf(w, "   %s %d) %s\n", mark, j+1, opt)
		}
		if answers && q.Explanation != "" {
			fmt.Fprintf(w, "     %s\n", q.Explanation)
		}
	}
}

func init() {
	generateCmd.Flags().StringP("difficulty", "d", "intermediate", "Difficulty (beginner, intermediate, advanced or a1/b1/b2)")
	generateCmd.Flags().String("hint", "", "Optional topic hint appended to the prompt")
	generateCmd.Flags().Bool("json", false, "Print the stored questions as JSON")
}
