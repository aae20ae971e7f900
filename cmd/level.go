package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cpapath/cpapath/internal/ui/components"
)

var levelCmd = &cobra.Command{
	Use:   "level [xp]",
	Short: "Show the level for an XP total (defaults to the learner's XP)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			xp, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid xp %q: %w", args[0], err)
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, components.LevelView(catalog.CalculateLevel(xp), xp, components.DefaultWidth))
			return nil
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.tracker.Dashboard(cmd.Context(), a.cfg.Learner, now())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, components.LevelView(d.Level, d.Profile.XP, components.DefaultWidth))
		return nil
	},
}
