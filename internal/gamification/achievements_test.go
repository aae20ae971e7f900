package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evalTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func unlockedIDs(states []AchievementState) []string {
	var ids []string
	for _, st := range states {
		if st.Unlocked {
			ids = append(ids, st.ID)
		}
	}
	return ids
}

func TestCheckAchievements_CatalogOrder(t *testing.T) {
	states := CheckAchievements(Statistics{}, nil, evalTime)
	cat := DefaultCatalog()

	require.Len(t, states, len(cat.Achievements))
	for i, st := range states {
		assert.Equal(t, cat.Achievements[i].ID, st.ID, "position %d", i)
	}
	assert.Empty(t, unlockedIDs(states))
}

func TestCheckAchievements_Conditions(t *testing.T) {
	tests := []struct {
		name  string
		stats Statistics
		want  []string
	}{
		{"zero", Statistics{}, nil},
		{"first lesson", Statistics{LessonsCompleted: 1}, []string{"first_lesson"}},
		{"ten lessons", Statistics{LessonsCompleted: 10}, []string{"first_lesson", "ten_lessons"}},
		{"hundred lessons", Statistics{LessonsCompleted: 100},
			[]string{"first_lesson", "ten_lessons", "fifty_lessons", "hundred_lessons"}},
		{"week streak", Statistics{MaxStreak: 7}, []string{"first_streak", "week_streak"}},
		{"perfect + speed", Statistics{PerfectLessons: 1, MaxDailyLessons: 5},
			[]string{"perfect_lesson", "speed_learner"}},
		{"half course", Statistics{ChaptersCompleted: 14}, []string{"first_chapter", "half_course"}},
		{"accuracy 80", Statistics{Accuracy: 80}, []string{"accuracy_50", "accuracy_80"}},
		{"accuracy 94", Statistics{Accuracy: 94}, []string{"accuracy_50", "accuracy_80"}},
		{"accuracy 95", Statistics{Accuracy: 95}, []string{"accuracy_50", "accuracy_80", "accuracy_95"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			states := CheckAchievements(tt.stats, nil, evalTime)
			assert.Equal(t, tt.want, unlockedIDs(states))
			for _, st := range states {
				assert.Nil(t, st.UnlockedAt, "%s: fresh unlock must not carry a timestamp", st.ID)
			}
		})
	}
}

func TestCheckAchievements_Completeness(t *testing.T) {
	stats := Statistics{LessonsCompleted: 12, MaxStreak: 3, Accuracy: 81, ChaptersCompleted: 1}
	states := CheckAchievements(stats, nil, evalTime)

	for i, def := range DefaultCatalog().Achievements {
		assert.Equal(t, def.Condition.Met(stats), states[i].Unlocked, def.ID)
	}
}

func TestCheckAchievements_RecordedUnlocksAreSticky(t *testing.T) {
	recorded := []string{"hundred_lessons", "accuracy_95", "month_streak"}

	// Stats regressed to zero, e.g. after a reset that kept the unlock list.
	states := CheckAchievements(Statistics{}, recorded, evalTime)

	byID := make(map[string]AchievementState, len(states))
	for _, st := range states {
		byID[st.ID] = st
	}
	for _, id := range recorded {
		st := byID[id]
		assert.True(t, st.Unlocked, id)
		require.NotNil(t, st.UnlockedAt, id)
		assert.True(t, st.UnlockedAt.Equal(evalTime), id)
	}
	assert.False(t, byID["first_lesson"].Unlocked)
}

func TestCheckAchievements_UnknownRecordedIDIgnored(t *testing.T) {
	states := CheckAchievements(Statistics{}, []string{"retired_badge"}, evalTime)
	assert.Len(t, states, len(DefaultCatalog().Achievements))
	assert.Empty(t, unlockedIDs(states))
}

func TestCheckAchievements_Idempotent(t *testing.T) {
	stats := Statistics{LessonsCompleted: 3, Accuracy: 60}
	a := CheckAchievements(stats, []string{"first_streak"}, evalTime)
	b := CheckAchievements(stats, []string{"first_streak"}, evalTime)
	assert.Equal(t, a, b)
}

func TestCheckAchievements_AccuracyFlipsWithoutRecord(t *testing.T) {
	up := CheckAchievements(Statistics{Accuracy: 82}, nil, evalTime)
	down := CheckAchievements(Statistics{Accuracy: 40}, nil, evalTime)
	assert.Contains(t, unlockedIDs(up), "accuracy_80")
	assert.NotContains(t, unlockedIDs(down), "accuracy_80")

	kept := CheckAchievements(Statistics{Accuracy: 40}, []string{"accuracy_80"}, evalTime)
	assert.Contains(t, unlockedIDs(kept), "accuracy_80")
}

func TestNewlyUnlocked(t *testing.T) {
	stats := Statistics{LessonsCompleted: 10, MaxStreak: 1}
	recorded := []string{"first_lesson"}
	states := CheckAchievements(stats, recorded, evalTime)

	fresh := NewlyUnlocked(states, recorded)
	var ids []string
	for _, st := range fresh {
		ids = append(ids, st.ID)
	}
	assert.Equal(t, []string{"ten_lessons", "first_streak"}, ids)

	assert.Empty(t, NewlyUnlocked(states, []string{"first_lesson", "ten_lessons", "first_streak"}))
}

func TestCountUnlocked(t *testing.T) {
	states := CheckAchievements(Statistics{LessonsCompleted: 1}, []string{"accuracy_50"}, evalTime)
	assert.Equal(t, 2, CountUnlocked(states))
}
