package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpapath/cpapath/internal/ui/components"
	"github.com/cpapath/cpapath/internal/ui/theme"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Record lesson activity",
}

var lessonCompleteCmd = &cobra.Command{
	Use:   "complete <lesson-id>",
	Short: "Record a completed lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, _ := cmd.Flags().GetInt("score")
		xp, _ := cmd.Flags().GetInt("xp")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.tracker.CompleteLesson(cmd.Context(), a.cfg.Learner, args[0], score, xp, now())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		line := fmt.Sprintf("Lesson %s complete: +%d XP", res.LessonID, res.XPEarned)
		if res.Bonus > 1 {
			line += fmt.Sprintf(" (x%.1f streak bonus)", res.Bonus)
		}
		fmt.Fprintln(out, theme.Unlocked.Render(line))
		fmt.Fprintf(out, "Total %d XP, streak %d day(s)\n", res.TotalXP, res.Streak)
		if res.LevelUp {
			fmt.Fprintln(out, theme.Highlight.Render(fmt.Sprintf("Level up! Lv.%d %s", res.Level.Level, res.Level.Title)))
		}
		if banner := components.UnlockBanner(res.NewAchievements); banner != "" {
			fmt.Fprintln(out, banner)
		}
		return nil
	},
}

func init() {
	lessonCompleteCmd.Flags().Int("score", 100, "Lesson score (0-100)")
	lessonCompleteCmd.Flags().Int("xp", 10, "Base XP before the streak bonus")

	lessonCmd.AddCommand(lessonCompleteCmd)
}
