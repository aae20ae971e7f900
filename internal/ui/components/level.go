package components

import (
	"fmt"
	"strings"

	"github.com/cpapath/cpapath/internal/gamification"
	"github.com/cpapath/cpapath/internal/ui/theme"
)

// LevelView renders the level title line and a bar towards the next level.
func LevelView(d gamification.LevelDescriptor, xp, width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Lv.%d %s", d.Level, d.Title)))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  %d XP", xp)))
	b.WriteString("\n")

	if d.IsMaxLevel() {
		b.WriteString(theme.Highlight.Render("Max level reached"))
		return b.String()
	}

	b.WriteString(NewProgressBar("", d.Progress/100, true, width).View())
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d / %d XP, %d to next level",
		d.XPInCurrentLevel, d.XPForNextLevel, d.XPToNextLevel())))
	return b.String()
}
