package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careercoach/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show quiz performance by topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		snap, err := e.client.Performance(cmd.Context(), e.cfg.User.ID)
		if err != nil {
			return fmt.Errorf("fetch performance: %w", err)
		}

		out := cmd.OutOrStdout()
		report, ok := progress.Aggregate(snap)
		if !ok {
			fmt.Fprintln(out, "No quiz data yet. Take a quiz to see your progress.")
			return nil
		}

		if report.Message != "" {
			fmt.Fprintln(out, report.Message)
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Strongest:  %s (%.1f%%)\n", report.Strongest.Topic, report.Strongest.Accuracy)
		fmt.Fprintf(out, "Needs work: %s (%.1f%%)\n\n", report.Weakest.Topic, report.Weakest.Accuracy)

		fmt.Fprintf(out, "%-20s  %7s  %s\n", "Topic", "Acc", "Details")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, t := range report.Topics {
			details := make([]string, 0, len(t.Details))
			for _, k := range t.DetailKeys() {
				details = append(details, k+": "+t.Details[k])
			}
			fmt.Fprintf(out, "%-20s  %6.1f%%  %s\n", t.Topic, t.Accuracy, strings.Join(details, ", "))
		}
		return nil
	},
}
