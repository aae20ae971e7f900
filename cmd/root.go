package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cpapath/cpapath/internal/config"
	"github.com/cpapath/cpapath/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "cpapath",
	Short: "Track CPA study progress",
	Long:  "cpapath records lessons and answers and derives levels, streaks, achievements and daily goals from them.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CPAPATH_DB)")
	rootCmd.PersistentFlags().String("learner", "", "Learner id (overrides CPAPATH_LEARNER)")
	rootCmd.PersistentFlags().String("catalog", "", "Level/achievement catalog YAML (overrides CPAPATH_CATALOG)")
	rootCmd.PersistentFlags().String("data-dir", "", "Curriculum data directory (overrides CPAPATH_DATA_DIR)")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CPAPATH_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = cfg.DBPath
	}
	if p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// applyFlags overlays persistent flags on the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("learner"); v != "" {
		cfg.Learner = v
	}
	if v, _ := cmd.Flags().GetString("catalog"); v != "" {
		cfg.CatalogPath = v
	}
	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}
}
