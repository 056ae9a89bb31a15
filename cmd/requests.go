package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careercoach/internal/store"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List backend requests recorded on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		failed, _ := cmd.Flags().GetBool("failed")

		st, err := openJournal(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().QueryRequests(cmd.Context(), store.QueryOpts{Limit: limit, FailedOnly: failed})
		if err != nil {
			return fmt.Errorf("query requests: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No requests found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-16s  %-6s  %-32s  %-6s  %-6s  %s\n",
			"Seq", "Timestamp", "Op", "Method", "Path", "Status", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 110))
		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗ " + e.ErrorMessage
			}
			path := e.Path
			if len(path) > 32 {
				path = path[:29] + "..."
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-16s  %-6s  %-32s  %-6d  %-6d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Op,
				e.Method,
				path,
				e.Status,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

func init() {
	requestsCmd.Flags().Int("limit", 50, "Maximum number of requests to show (0 = all)")
	requestsCmd.Flags().Bool("failed", false, "Show failed requests only")
}
