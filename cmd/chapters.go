package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cpapath/cpapath/internal/ui/theme"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "List curriculum chapters and the learner's completed lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := requireDataDir(a.cfg); err != nil {
			return err
		}
		rec, err := a.tracker.Record(cmd.Context(), a.cfg.Learner)
		if err != nil {
			return err
		}

		done := make(map[string]int)
		for id := range rec.Progress.Lessons {
			if ch, _, ok := strings.Cut(id, "_"); ok {
				done[ch]++
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(a.course.Info.Title))
		fmt.Fprintf(out, "%-4s  %-24s  %7s  %6s  %-8s  %s\n", "Ch", "Title", "Lessons", "XP", "Weight", "Difficulty")
		fmt.Fprintln(out, strings.Repeat("─", 70))
		for _, ch := range a.course.Chapters {
			fmt.Fprintf(out, "%-4s  %-24s  %3d/%-3d  %6d  %-8s  %s\n",
				ch.ChapterID, ch.Title, min(done[ch.ChapterID], ch.LessonsCount), ch.LessonsCount,
				ch.TotalXP, ch.ExamWeight, strings.Repeat("★", ch.Difficulty))
		}
		fmt.Fprintf(out, "\n%d chapters, %d lessons, %d XP\n",
			a.course.Info.TotalChapters, a.course.Info.TotalLessons, a.course.Info.TotalXP)
		return nil
	},
}
