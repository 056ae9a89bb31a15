package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careercoach/internal/config"
	"github.com/abhisek/careercoach/internal/quiz"
	"github.com/abhisek/careercoach/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List quiz runs recorded on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openJournal(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.EventRepo().QueryQuizRuns(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query quiz runs: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No quizzes yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-16s  %-18s  %-7s  %-5s  %s\n",
			"Seq", "Finished", "Topic", "Score", "Pct", "Saved")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, r := range runs {
			saved := "✓"
			if !r.Submitted {
				saved = "✗"
			}
			fmt.Fprintf(out, "%-5d  %-16s  %-18s  %-7s  %4d%%  %s\n",
				r.Sequence,
				r.FinishedAt.Local().Format("2006-01-02 15:04"),
				r.Topic,
				fmt.Sprintf("%d/%d", r.Score, r.QuestionCount),
				quiz.Percent(r.Score, r.QuestionCount),
				saved,
			)
		}
		return nil
	},
}

// openJournal opens the local journal without building a backend client.
func openJournal(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 = all)")
}
