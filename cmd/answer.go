package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpapath/cpapath/internal/progress"
	"github.com/cpapath/cpapath/internal/ui/components"
	"github.com/cpapath/cpapath/internal/ui/theme"
)

var answerCmd = &cobra.Command{
	Use:   "answer <question-id>",
	Short: "Record an answer to a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		correct, _ := cmd.Flags().GetBool("correct")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		t := now()
		res, err := a.tracker.SubmitAnswer(cmd.Context(), a.cfg.Learner, args[0], correct, t)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if res.Correct {
			fmt.Fprintln(out, theme.Unlocked.Render(fmt.Sprintf("Correct! +%d XP", res.XPEarned)))
		} else {
			fmt.Fprintln(out, theme.Danger.Render("Wrong answer"))
		}
		fmt.Fprintf(out, "Hearts %s", components.Hearts(res.Lives, progress.MaxHearts))
		if !res.NextHeartAt.IsZero() {
			fmt.Fprint(out, theme.Hint.Render(fmt.Sprintf("  next at %s", res.NextHeartAt.Local().Format("15:04"))))
		}
		fmt.Fprintln(out)
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
	answerCmd.Flags().Bool("correct", false, "The answer was correct")
}
