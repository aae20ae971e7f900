package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/cpapath/cpapath/internal/progress"
	"github.com/cpapath/cpapath/internal/tracker"
	"github.com/cpapath/cpapath/internal/ui/theme"
)

// DashboardView renders the full status screen for one learner.
func DashboardView(d *tracker.Dashboard, now time.Time, width int) string {
	var profile strings.Builder
	profile.WriteString(LevelView(d.Level, d.Profile.XP, width-4))
	profile.WriteString("\n\n")
	profile.WriteString(fmt.Sprintf("Hearts  %s", Hearts(d.Profile.Lives, progress.MaxHearts)))
	if !d.NextHeartAt.IsZero() {
		wait := d.NextHeartAt.Sub(now).Round(time.Second)
		profile.WriteString(theme.Hint.Render(fmt.Sprintf("  next in %s", max(wait, 0))))
	}
	profile.WriteString("\n")
	profile.WriteString(fmt.Sprintf("Streak  %d day(s), bonus x%.1f", d.Streak, d.StreakBonus))
	if d.Streak < d.Profile.Streak {
		profile.WriteString(theme.Hint.Render(fmt.Sprintf("  lapsed after %d day(s)", d.Profile.Streak)))
	}
	if d.NextBonusStreak > 0 {
		profile.WriteString(theme.Hint.Render(fmt.Sprintf("  next tier at %d", d.NextBonusStreak)))
	}

	blocks := []string{
		Card(d.Profile.Username, profile.String(), width),
		Card("Today", DailyView(d.Daily, width-4), width),
		Card("Statistics", StatsTable(d.Stats), width),
	}
	if banner := UnlockBanner(d.NewAchievements); banner != "" {
		blocks = append(blocks, banner)
	}
	return Stack(blocks...)
}
