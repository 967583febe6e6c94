package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammarquiz/internal/llm"
	"github.com/abhisek/grammarquiz/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect recorded generation attempts",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generation attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		failed, _ := cmd.Flags().GetBool("failed")

		_, s, _, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.Events().QueryGenerations(cmd.Context(), store.QueryOpts{
			Limit:      limit,
			FailedOnly: failed,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(w, "No generation attempts recorded.")
			return nil
		}

		fmt.Fprintf(w, "%-36s  %-19s  %-28s  %-12s  %3s  %-7s  %s\n",
			"Attempt", "Timestamp", "Model", "Difficulty", "Qs", "Ms", "Result")
		fmt.Fprintln(w, strings.Repeat("─", 128))

		for _, e := range events {
			result := "✓"
			if !e.Success {
				result = "✗ " + e.ErrorKind
			}
			fmt.Fprintf(w, "%-36s  %-19s  %-28s  %-12s  %3d  %-7d  %s\n",
				e.AttemptID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Model, 28),
				e.Difficulty,
				e.QuestionCount,
				e.LatencyMs,
				result,
			)
		}
		return nil
	},
}

var eventsViewCmd = &cobra.Command{
	Use:   "view <attempt-id>",
	Short: "View one generation attempt including the raw model reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, _, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.Events().GetGeneration(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("attempt %s not found", args[0])
		}

		w := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)

		fmt.Fprintf(w, "Attempt:     %s\n", e.AttemptID)
		fmt.Fprintf(w, "Time:        %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Provider:    %s\n", e.Provider)
		fmt.Fprintf(w, "Model:       %s\n", e.Model)
		fmt.Fprintf(w, "Difficulty:  %s\n", e.Difficulty)
		if e.Hint != "" {
			fmt.Fprintf(w, "Hint:        %s\n", e.Hint)
		}
		fmt.Fprintf(w, "Tokens:      %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Fprintf(w, "Latency:     %dms\n", e.LatencyMs)
		fmt.Fprintf(w, "Success:     %v\n", e.Success)
		if e.Success {
			fmt.Fprintf(w, "Questions:   %d", e.QuestionCount)
			if e.SizeMismatch {
				fmt.Fprint(w, " (size mismatch)")
			}
			fmt.Fprintln(w)
		}
		if e.ErrorMessage != "" {
			fmt.Fprintf(w, "Error:       [%s] %s\n", e.ErrorKind, e.ErrorMessage)
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, "RESPONSE")
		fmt.Fprintln(w, sep)
		if e.RawResponse != "" {
			fmt.Fprintln(w, e.RawResponse)
		} else {
			fmt.Fprintln(w, "(not captured)")
		}
		return nil
	},
}

var eventsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and success rate per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, _, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		usage, err := s.Events().UsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(usage) == 0 {
			fmt.Fprintln(w, "No generation attempts recorded.")
			return nil
		}

		sep := strings.Repeat("─", 92)
		fmt.Fprintln(w, sep)
		fmt.Fprintf(w, "%-32s  %8s  %6s  %10s  %10s  %6s  %9s\n",
			"Model", "Attempts", "OK", "Input", "Output", "Avg Ms", "Cost")
		fmt.Fprintln(w, sep)

		var attempts, ok, in, out int
		var totalCost float64
		var unpriced []string
		for _, u := range usage {
			cost := "?"
			if c := llm.LookupCost(u.Model); c != nil {
				usd := c.Cost(u.InputTokens, u.OutputTokens)
				totalCost += usd
				cost = formatCost(usd)
			} else {
				unpriced = append(unpriced, u.Model)
			}
			fmt.Fprintf(w, "%-32s  %8d  %6d  %10d  %10d  %6d  %9s\n",
				truncate(u.Model, 32), u.Attempts, u.Succeeded, u.InputTokens, u.OutputTokens, u.AvgLatencyMs, cost)
			attempts += u.Attempts
			ok += u.Succeeded
			in += u.InputTokens
			out += u.OutputTokens
		}

		fmt.Fprintln(w, sep)
		label := "TOTAL"
		if len(unpriced) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Fprintf(w, "%-32s  %8d  %6d  %10d  %10d  %6s  %9s\n",
			label, attempts, ok, in, out, "", formatCost(totalCost))

		if len(unpriced) > 0 {
			fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	eventsListCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
	eventsListCmd.Flags().Bool("failed", false, "Only show failed attempts")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsViewCmd)
	eventsCmd.AddCommand(eventsStatsCmd)
}
