package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpapath/cpapath/internal/ui/components"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and which are unlocked",
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

		out := cmd.OutOrStdout()
		if banner := components.UnlockBanner(d.NewAchievements); banner != "" {
			fmt.Fprintln(out, banner)
		}
		fmt.Fprintln(out, components.AchievementList(d.Achievements))
		return nil
	},
}
