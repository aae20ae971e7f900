package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent activity, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		events, err := a.tracker.History(cmd.Context(), a.cfg.Learner, limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No activity yet.")
			return nil
		}

		fmt.Fprintf(out, "%-6s  %-20s  %-22s  %-16s  %5s\n", "Seq", "Time", "Kind", "Subject", "XP")
		fmt.Fprintln(out, strings.Repeat("─", 77))
		for _, ev := range events {
			fmt.Fprintf(out, "%-6d  %-20s  %-22s  %-16s  %+5d\n",
				ev.Sequence, ev.Timestamp.Local().Format("2006-01-02 15:04:05"), ev.Kind, ev.Subject, ev.XP)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of events")
}
