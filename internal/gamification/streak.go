package gamification

import "math"

// StreakBonus returns the XP multiplier for a daily streak. The highest
// qualifying tier wins; negative streaks earn no bonus.
func StreakBonus(streak int) float64 {
	switch {
	case streak >= 30:
		return 1.5
	case streak >= 14:
		return 1.3
	case streak >= 7:
		return 1.2
	case streak >= 3:
		return 1.1
	default:
		return 1.0
	}
}

// ApplyStreakBonus scales baseXP by the streak multiplier, rounding half up.
func ApplyStreakBonus(baseXP, streak int) int {
	return int(math.Round(float64(baseXP) * StreakBonus(streak)))
}

// NextBonusStreak returns the streak length at which the multiplier next
// increases, or 0 when the top tier is already reached.
func NextBonusStreak(streak int) int {
	for _, t := range []int{3, 7, 14, 30} {
		if t > streak {
			return t
		}
	}
	return 0
}
