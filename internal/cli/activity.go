package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fastygo/nexus/domain"
)

func newActivityCmd(rt *runtime) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the newest-first activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			return printActivity(rt, cmd.OutOrStdout(), rt.app.Activity.Recent(limit))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show, 0 for all")
	return cmd
}

func newDashboardCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show task statistics and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			overview := rt.app.Dashboard.Overview()
			return rt.print(cmd.OutOrStdout(), overview, func(w io.Writer) {
				s := overview.Stats
				fmt.Fprintf(w, "Tasks: %d total, %d completed, %d in progress, %d pending\n",
					s.Total, s.Completed, s.InProgress, s.Pending)
				fmt.Fprintf(w, "Priority: %d high, %d medium, %d low\n", s.High, s.Medium, s.Low)
				fmt.Fprintf(w, "Completion: %.0f%%\n\n", s.CompletionRate*100)
				writeActivity(w, overview.RecentActivity)
			})
		},
	}
}

func newInsightCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "insight",
		Short: "Generate an AI summary of the visible tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			result := rt.app.Insight.Analyze(cmd.Context())
			return rt.print(cmd.OutOrStdout(), result, func(w io.Writer) {
				fmt.Fprintln(w, result.Text)
			})
		},
	}
}

func printActivity(rt *runtime, w io.Writer, entries []domain.ActivityLog) error {
	return rt.print(w, entries, func(w io.Writer) {
		writeActivity(w, entries)
	})
}

func writeActivity(w io.Writer, entries []domain.ActivityLog) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No activity recorded.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-14s  %s  %s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Action, e.UserName, e.Details)
	}
}
