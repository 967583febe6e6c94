package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the stored question batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, _ := cmd.Flags().GetBool("answers")

		_, s, _, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		qs, err := s.Questions().LoadAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}
		if len(qs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No questions stored. Run `grammarquiz generate` first.")
			return nil
		}
		printQuestions(cmd, qs, answers)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolP("answers", "a", false, "Mark the correct option and show explanations")
}
