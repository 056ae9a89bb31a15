package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careercoach/internal/api"
	"github.com/abhisek/careercoach/internal/chat"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage chat sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chat sessions, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		list, err := e.client.ListSessions(cmd.Context(), e.cfg.User.ID)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No chat sessions yet.")
			return nil
		}
		printSessions(out, list)
		return nil
	},
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a chat session",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		d := chat.NewDriver(e.client, e.cfg.User.ID, e.logger.Named("chat"))
		sess, err := d.Create(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", sess.ID, displayTitle(sess))
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a chat session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		d := chat.NewDriver(e.client, e.cfg.User.ID, e.logger.Named("chat"))
		if err := d.Bootstrap(ctx); err != nil {
			return err
		}
		if err := d.Delete(ctx, args[0]); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Deleted", args[0])
		if active, ok := d.Sessions.Active(); ok {
			fmt.Fprintf(out, "Active session: %s (%s)\n", active.ID, displayTitle(active))
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a session transcript (the most recent session by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		d := chat.NewDriver(e.client, e.cfg.User.ID, e.logger.Named("chat"))
		if err := d.Bootstrap(ctx); err != nil {
			return err
		}
		if len(args) == 1 && args[0] != d.Sessions.ActiveID() {
			if err := d.Select(ctx, args[0]); err != nil {
				return err
			}
			if d.Sessions.ActiveID() != args[0] {
				return fmt.Errorf("session %s not found", args[0])
			}
		}

		out := cmd.OutOrStdout()
		active, _ := d.Sessions.Active()
		fmt.Fprintf(out, "%s (%s)\n\n", displayTitle(active), active.ID)
		msgs := d.Transcript.Messages()
		if len(msgs) == 0 {
			fmt.Fprintln(out, "No messages yet.")
			return nil
		}
		for _, m := range msgs {
			label := "You"
			if m.Role == chat.RoleAssistant {
				label = "Coach"
			}
			fmt.Fprintf(out, "%s: %s\n\n", label, m.Content)
		}
		return nil
	},
}

func displayTitle(s api.Session) string {
	if strings.TrimSpace(s.Title) == "" {
		return "New Chat"
	}
	return s.Title
}

func printSessions(w io.Writer, list []api.Session) {
	fmt.Fprintf(w, "%-24s  %s\n", "ID", "Title")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, s := range list {
		fmt.Fprintf(w, "%-24s  %s\n", s.ID, displayTitle(s))
	}
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsNewCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
}
