package components

import (
	"fmt"
	"strings"

	"github.com/cpapath/cpapath/internal/gamification"
	"github.com/cpapath/cpapath/internal/ui/theme"
)

// AchievementList renders one line per achievement: unlocked ones with their
// icon, locked ones dimmed with their condition.
func AchievementList(states []gamification.AchievementState) string {
	lines := make([]string, 0, len(states)+1)
	lines = append(lines, theme.Hint.Render(fmt.Sprintf("%d/%d unlocked",
		gamification.CountUnlocked(states), len(states))))

	for _, a := range states {
		if a.Unlocked {
			lines = append(lines, theme.Unlocked.Render(fmt.Sprintf("%s %s  %s", a.Icon, a.Title, a.Description)))
			continue
		}
		lines = append(lines, theme.Locked.Render(fmt.Sprintf("🔒 %s  %s (%s ≥ %d)",
			a.Title, a.Description, a.Condition.Stat.DisplayName(), a.Condition.Min)))
	}
	return strings.Join(lines, "\n")
}

// UnlockBanner announces freshly unlocked achievements. Empty input renders
// nothing.
func UnlockBanner(fresh []gamification.AchievementState) string {
	if len(fresh) == 0 {
		return ""
	}
	lines := make([]string, len(fresh))
	for i, a := range fresh {
		lines[i] = theme.Highlight.Render(fmt.Sprintf("Achievement unlocked: %s %s", a.Icon, a.Title))
	}
	return strings.Join(lines, "\n")
}
