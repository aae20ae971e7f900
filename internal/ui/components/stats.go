package components

import (
	"fmt"
	"strings"

	"github.com/cpapath/cpapath/internal/gamification"
	"github.com/cpapath/cpapath/internal/ui/theme"
)

// StatsTable renders every statistic as a label/value row.
func StatsTable(s gamification.Statistics) string {
	rows := make([]string, 0, len(gamification.AllStats()))
	for _, stat := range gamification.AllStats() {
		v, _ := s.Value(stat)
		val := fmt.Sprint(v)
		if stat == gamification.StatAccuracy {
			val += "%"
		}
		rows = append(rows, fmt.Sprintf("%-22s %s", stat.DisplayName(), theme.Body.Render(val)))
	}
	return strings.Join(rows, "\n")
}

// Hearts renders lives as filled and empty hearts.
func Hearts(lives, capacity int) string {
	lives = min(max(lives, 0), capacity)
	return theme.Danger.Render(strings.Repeat("♥", lives)) +
		theme.Locked.Render(strings.Repeat("♡", capacity-lives))
}
