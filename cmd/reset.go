package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored question batch",
	Long:  "Delete the stored question batch. The generation history is kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, _, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		n, err := s.Questions().Count(ctx)
		if err != nil {
			return fmt.Errorf("count questions: %w", err)
		}
		if _, err := s.Questions().ReplaceAll(ctx, nil); err != nil {
			return fmt.Errorf("clear questions: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d questions.\n", n)
		return nil
	},
}
