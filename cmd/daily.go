package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpapath/cpapath/internal/ui/components"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show today's goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.tracker.Dashboard(cmd.Context(), a.cfg.Learner, now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), components.DailyView(d.Daily, components.DefaultWidth))
		return nil
	},
}
