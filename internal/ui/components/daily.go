package components

import (
	"fmt"
	"strings"

	"github.com/cpapath/cpapath/internal/gamification"
	"github.com/cpapath/cpapath/internal/ui/theme"
)

// DailyView renders today's goals as progress bars.
func DailyView(dp gamification.DailyProgress, width int) string {
	var b strings.Builder
	b.WriteString(theme.Hint.Render(dp.Date))
	b.WriteString("\n")
	b.WriteString(GoalBar("Lessons", dp.Goals.Lessons.Current, dp.Goals.Lessons.Target, width).View())
	b.WriteString("\n")
	b.WriteString(GoalBar("XP     ", dp.Goals.XP.Current, dp.Goals.XP.Target, width).View())
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("%d questions answered today", dp.QuestionsAnswered)))
	if dp.Completed {
		b.WriteString("\n")
		b.WriteString(theme.Unlocked.Render("Daily goal complete!"))
	}
	return b.String()
}
