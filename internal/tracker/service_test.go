package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpapath/cpapath/internal/gamification"
	"github.com/cpapath/cpapath/internal/progress"
	"github.com/cpapath/cpapath/internal/store"
)

var t0 = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := NewService(st, Options{
		LessonCounts: map[string]int{"1": 2, "2": 3},
	})
	return svc, st
}

func achievementIDs(states []gamification.AchievementState) []string {
	ids := make([]string, 0, len(states))
	for _, s := range states {
		ids = append(ids, s.ID)
	}
	return ids
}

func eventKinds(events []store.Event) []store.EventKind {
	kinds := make([]store.EventKind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	return kinds
}

func TestCompleteLesson_First(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	out, err := svc.CompleteLesson(ctx, "amy", "1_1", 100, 20, t0)
	require.NoError(t, err)

	assert.Equal(t, 20, out.XPEarned)
	assert.Equal(t, 1.0, out.Bonus)
	assert.Equal(t, 20, out.TotalXP)
	assert.Equal(t, 1, out.Streak)
	assert.Equal(t, 1, out.Level.Level)
	assert.False(t, out.LevelUp)
	assert.Equal(t, []string{"first_lesson", "first_streak", "perfect_lesson"}, achievementIDs(out.NewAchievements))
	for _, a := range out.NewAchievements {
		require.NotNil(t, a.UnlockedAt)
		assert.True(t, a.UnlockedAt.Equal(t0))
	}

	rec, err := st.Repos().Learners.Get(ctx, "amy")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, []string{"first_lesson", "first_streak", "perfect_lesson"}, rec.Progress.Achievements)

	events, err := svc.History(ctx, "amy", 0)
	require.NoError(t, err)
	assert.Equal(t, []store.EventKind{
		store.EventAchievementUnlocked,
		store.EventAchievementUnlocked,
		store.EventAchievementUnlocked,
		store.EventLessonCompleted,
	}, eventKinds(events))
	assert.Equal(t, "1_1", events[3].Subject)
	assert.Equal(t, 20, events[3].XP)
}

func TestCompleteLesson_AchievementsRecordedOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CompleteLesson(ctx, "amy", "1_1", 100, 20, t0)
	require.NoError(t, err)

	out, err := svc.CompleteLesson(ctx, "amy", "2_1", 100, 20, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, out.NewAchievements)
}

func TestCompleteLesson_ChapterCompletion(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CompleteLesson(ctx, "amy", "1_1", 90, 10, t0)
	require.NoError(t, err)
	out, err := svc.CompleteLesson(ctx, "amy", "1_2", 90, 10, t0.Add(time.Minute))
	require.NoError(t, err)

	assert.Contains(t, achievementIDs(out.NewAchievements), "first_chapter")

	dash, err := svc.Dashboard(ctx, "amy", t0.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, dash.Stats.ChaptersCompleted)
}

func TestCompleteLesson_StreakBonusAndLevelUp(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Days 1-3 build a streak of 3; the bonus uses the streak held before
	// each completion.
	for day := 0; day < 3; day++ {
		out, err := svc.CompleteLesson(ctx, "amy", "1_1", 90, 20, t0.AddDate(0, 0, day))
		require.NoError(t, err)
		assert.Equal(t, 20, out.XPEarned, "day %d", day+1)
		assert.Equal(t, day+1, out.Streak)
		if day == 2 {
			assert.True(t, out.LevelUp, "60 XP reaches level 2")
			assert.Equal(t, 2, out.Level.Level)
		}
	}

	out, err := svc.CompleteLesson(ctx, "amy", "1_2", 90, 20, t0.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, 1.1, out.Bonus)
	assert.Equal(t, 22, out.XPEarned)
	assert.Equal(t, 82, out.TotalXP)
	assert.Equal(t, 4, out.Streak)

	events, err := svc.History(ctx, "amy", 0)
	require.NoError(t, err)
	assert.Contains(t, eventKinds(events), store.EventLevelUp)
}

func TestCompleteLesson_LapsedStreakGetsNoBonus(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	rec := progress.NewRecord("amy")
	last := "2026-04-01"
	rec.Profile.Streak = 30
	rec.Profile.LastActiveDate = &last
	require.NoError(t, st.Repos().Learners.Put(ctx, "amy", rec, t0))

	out, err := svc.CompleteLesson(ctx, "amy", "1_1", 90, 20, t0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.Bonus)
	assert.Equal(t, 20, out.XPEarned)
	assert.Equal(t, 1, out.Streak)
}

func TestDashboard_LapsedStreak(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	rec := progress.NewRecord("amy")
	last := "2026-04-01"
	rec.Profile.Streak = 12
	rec.Profile.LastActiveDate = &last
	require.NoError(t, st.Repos().Learners.Put(ctx, "amy", rec, t0))

	d, err := svc.Dashboard(ctx, "amy", t0)
	require.NoError(t, err)
	assert.Equal(t, 12, d.Profile.Streak, "stored streak is reported as is")
	assert.Equal(t, 0, d.Streak)
	assert.Equal(t, 1.0, d.StreakBonus)
	assert.Equal(t, 3, d.NextBonusStreak)
}

func TestCompleteLesson_InvalidArgument(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		learner  string
		lessonID string
		score    int
		baseXP   int
	}{
		{"negative base xp", "amy", "1_1", 90, -1},
		{"score above 100", "amy", "1_1", 101, 10},
		{"empty lesson", "amy", "", 90, 10},
		{"empty learner", "", "1_1", 90, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CompleteLesson(ctx, tt.learner, tt.lessonID, tt.score, tt.baseXP, t0)
			assert.True(t, errors.Is(err, gamification.ErrInvalidArgument), "err = %v", err)
		})
	}

	ids, err := st.Repos().Learners.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "failed calls must not store a record")
}

func TestSubmitAnswer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	out, err := svc.SubmitAnswer(ctx, "amy", "ex_1_1_1", true, t0)
	require.NoError(t, err)
	assert.Equal(t, progress.AnswerXP, out.XPEarned)
	assert.Equal(t, progress.AnswerXP, out.TotalXP)
	assert.Equal(t, progress.MaxHearts, out.Lives)
	assert.True(t, out.NextHeartAt.IsZero())
	assert.Equal(t,
		[]string{"first_streak", "accuracy_50", "accuracy_80", "accuracy_95"},
		achievementIDs(out.NewAchievements))

	out, err = svc.SubmitAnswer(ctx, "amy", "ex_1_1_2", false, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, out.XPEarned)
	assert.Equal(t, progress.MaxHearts-1, out.Lives)
	assert.True(t, out.NextHeartAt.Equal(t0.Add(time.Minute+progress.HeartRecoveryInterval)), "NextHeartAt = %v", out.NextHeartAt)
	assert.Empty(t, out.NewAchievements, "recorded accuracy achievements stay unlocked")

	dash, err := svc.Dashboard(ctx, "amy", t0.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 50, dash.Stats.Accuracy)
	assert.Equal(t, 4, gamification.CountUnlocked(dash.Achievements))
}

func TestDashboard_UnknownLearner(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	dash, err := svc.Dashboard(ctx, "nobody", t0)
	require.NoError(t, err)

	assert.Equal(t, 1, dash.Level.Level)
	assert.Equal(t, "会计新手", dash.Level.Title)
	assert.Len(t, dash.Achievements, 15)
	assert.Equal(t, 0, gamification.CountUnlocked(dash.Achievements))
	assert.Equal(t, "2026-04-10", dash.Daily.Date)
	assert.False(t, dash.Daily.Completed)
	assert.Equal(t, 1.0, dash.StreakBonus)
	assert.Equal(t, 3, dash.NextBonusStreak)

	ids, err := st.Repos().Learners.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "read-only dashboard should not create a record")
}

func TestDashboard_RecoversHearts(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.SubmitAnswer(ctx, "amy", "q", false, t0)
		require.NoError(t, err)
	}

	dash, err := svc.Dashboard(ctx, "amy", t0.Add(25*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 4, dash.Profile.Lives)

	rec, err := st.Repos().Learners.Get(ctx, "amy")
	require.NoError(t, err)
	assert.Equal(t, 4, rec.Profile.Lives, "recovered hearts are persisted")
}

func TestDashboard_RecordsPendingUnlocks(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	raw := `{"profile":{"xp":300,"streak":2,"last_active_date":"2026-04-09"},
		"progress":{"statistics":{"max_streak":7},"achievements":[]}}`
	_, err := svc.Import(ctx, "amy", []byte(raw), t0)
	require.NoError(t, err)

	dash, err := svc.Dashboard(ctx, "amy", t0)
	require.NoError(t, err)
	assert.Equal(t, []string{"first_streak", "week_streak"}, achievementIDs(dash.NewAchievements))
	assert.Equal(t, 4, dash.Level.Level)
	assert.Equal(t, 2, dash.Profile.Streak)

	dash, err = svc.Dashboard(ctx, "amy", t0)
	require.NoError(t, err)
	assert.Empty(t, dash.NewAchievements)
}

func TestResetAndRestore(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CompleteLesson(ctx, "amy", "1_1", 100, 40, t0)
	require.NoError(t, err)

	out, err := svc.Reset(ctx, "amy", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 40, out.PreviousXP)
	assert.Positive(t, out.SnapshotSequence)

	rec, err := svc.Record(ctx, "amy")
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Profile.XP)
	assert.Empty(t, rec.Progress.Achievements)
	assert.Empty(t, rec.Progress.Lessons)

	restored, err := svc.Restore(ctx, "amy", t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 40, restored.Profile.XP)
	assert.Contains(t, restored.Progress.Achievements, "first_lesson")

	rec, err = svc.Record(ctx, "amy")
	require.NoError(t, err)
	assert.Equal(t, 40, rec.Profile.XP)

	events, err := svc.History(ctx, "amy", 2)
	require.NoError(t, err)
	assert.Equal(t, []store.EventKind{store.EventProgressRestored, store.EventProgressReset}, eventKinds(events))
	assert.Equal(t, 40, events[0].XP)
	assert.Equal(t, float64(out.SnapshotSequence), events[0].Data["snapshot_sequence"])
}

func TestReset_AccuracyAchievementsReevaluated(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	out, err := svc.SubmitAnswer(ctx, "amy", "ex_1_1_1", true, t0)
	require.NoError(t, err)
	assert.Contains(t, achievementIDs(out.NewAchievements), "accuracy_95")

	_, err = svc.Reset(ctx, "amy", t0.Add(time.Hour))
	require.NoError(t, err)

	// Lifetime accuracy after the reset is 0, so accuracy unlocks do not return.
	out, err = svc.SubmitAnswer(ctx, "amy", "ex_1_1_2", false, t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"first_streak"}, achievementIDs(out.NewAchievements))

	d, err := svc.Dashboard(ctx, "amy", t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, d.Stats.Accuracy)
	for _, a := range d.Achievements {
		if a.ID == "accuracy_95" {
			assert.False(t, a.Unlocked)
		}
	}
}

func TestReset_PrunesSnapshots(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	for i := 0; i < SnapshotsKept+3; i++ {
		_, err := svc.Reset(ctx, "amy", t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	var n int
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM snapshots WHERE learner_id = ?", "amy").Scan(&n))
	assert.Equal(t, SnapshotsKept, n)
}

func TestRestore_NoSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Restore(context.Background(), "amy", t0)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestImport(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	_, err := svc.CompleteLesson(ctx, "amy", "1_1", 90, 10, t0)
	require.NoError(t, err)

	raw := `{"profile":{"username":"Amy","xp":520,"lives":3},"progress":{"lessons":{"1_1":{"completed_at":"2026-04-01T08:00:00Z","score":100,"xp_earned":20}}}}`
	rec, err := svc.Import(ctx, "amy", []byte(raw), t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 520, rec.Profile.XP)
	assert.Equal(t, 5, rec.Profile.Level, "level is derived from xp")

	stored, err := st.Repos().Learners.Get(ctx, "amy")
	require.NoError(t, err)
	assert.Equal(t, "Amy", stored.Profile.Username)
	assert.Equal(t, 3, stored.Profile.Lives)

	snap, err := st.Repos().Snapshots.Latest(ctx, "amy")
	require.NoError(t, err)
	require.NotNil(t, snap, "replaced record is snapshotted")
	assert.Equal(t, 10, snap.Data.Record.Profile.XP)
}

func TestImport_Invalid(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, "amy", []byte(`{"profile":{"xp":-1},"progress":{}}`), t0)
	var verr *progress.ValidationError
	assert.True(t, errors.As(err, &verr), "err = %v", err)

	ids, err := st.Repos().Learners.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestHistory_Limit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.SubmitAnswer(ctx, "amy", "q", false, t0.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	events, err := svc.History(ctx, "amy", 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Greater(t, events[0].Sequence, events[1].Sequence)
	assert.Equal(t, store.EventAnswerSubmitted, events[0].Kind)
}
