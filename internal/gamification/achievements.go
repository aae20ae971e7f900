package gamification

import "time"

// CheckAchievements evaluates the default catalog.
func CheckAchievements(stats Statistics, unlockedIDs []string, now time.Time) []AchievementState {
	return DefaultCatalog().CheckAchievements(stats, unlockedIDs, now)
}

// CheckAchievements returns one state per catalog definition, in catalog
// order. An id in unlockedIDs stays unlocked whatever stats say; its
// UnlockedAt is now. Achievements that only satisfy their condition in this
// call are unlocked with a nil UnlockedAt. Detecting and recording those is
// the caller's job (see NewlyUnlocked).
func (c *Catalog) CheckAchievements(stats Statistics, unlockedIDs []string, now time.Time) []AchievementState {
	recorded := make(map[string]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		recorded[id] = true
	}

	states := make([]AchievementState, len(c.Achievements))
	for i, def := range c.Achievements {
		st := AchievementState{AchievementDefinition: def}
		if recorded[def.ID] {
			at := now
			st.Unlocked = true
			st.UnlockedAt = &at
		} else {
			st.Unlocked = def.Condition.Met(stats)
		}
		states[i] = st
	}
	return states
}

// NewlyUnlocked returns the unlocked states whose id is not in unlockedIDs,
// preserving catalog order.
func NewlyUnlocked(states []AchievementState, unlockedIDs []string) []AchievementState {
	recorded := make(map[string]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		recorded[id] = true
	}

	var fresh []AchievementState
	for _, st := range states {
		if st.Unlocked && !recorded[st.ID] {
			fresh = append(fresh, st)
		}
	}
	return fresh
}

// CountUnlocked returns how many states are unlocked.
func CountUnlocked(states []AchievementState) int {
	n := 0
	for _, st := range states {
		if st.Unlocked {
			n++
		}
	}
	return n
}
