// Package tracker applies learner activity to stored records and derives
// levels, achievements and daily progress from them.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cpapath/cpapath/internal/gamification"
	"github.com/cpapath/cpapath/internal/platform/logger"
	"github.com/cpapath/cpapath/internal/progress"
	"github.com/cpapath/cpapath/internal/store"
)

// SnapshotsKept is how many reset snapshots are retained per learner.
const SnapshotsKept = 5

// ErrNoSnapshot is returned by Restore when the learner has no snapshot.
var ErrNoSnapshot = errors.New("no snapshot to restore")

// Options configures a Service. Zero values select defaults.
type Options struct {
	Catalog *gamification.Catalog

	// LessonCounts maps chapter id to lesson count. When empty the
	// chapters-completed counter is left as stored.
	LessonCounts map[string]int

	Logger *logger.Logger
}

// Service records learner activity.
type Service struct {
	store        *store.Store
	catalog      *gamification.Catalog
	lessonCounts map[string]int
	log          *logger.Logger
}

// NewService creates a Service backed by st.
func NewService(st *store.Store, opts Options) *Service {
	if opts.Catalog == nil {
		opts.Catalog = gamification.DefaultCatalog()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Service{
		store:        st,
		catalog:      opts.Catalog,
		lessonCounts: opts.LessonCounts,
		log:          opts.Logger,
	}
}

// Catalog returns the catalog the service evaluates against.
func (s *Service) Catalog() *gamification.Catalog {
	return s.catalog
}

// Record returns the learner's stored record, or a fresh one if none exists.
func (s *Service) Record(ctx context.Context, learnerID string) (*progress.Record, error) {
	var rec *progress.Record
	err := s.store.WithTx(ctx, func(r *store.Repos) error {
		var err error
		rec, err = loadOrNew(ctx, r, learnerID)
		return err
	})
	return rec, err
}

// Dashboard recovers hearts, records achievements whose conditions are now
// met and returns the derived view. The record is only written when
// something changed.
func (s *Service) Dashboard(ctx context.Context, learnerID string, now time.Time) (*Dashboard, error) {
	var dash *Dashboard
	err := s.store.WithTx(ctx, func(r *store.Repos) error {
		rec, err := loadOrNew(ctx, r, learnerID)
		if err != nil {
			return err
		}

		changed := rec.RecoverHearts(now) > 0
		prevChapters := rec.Progress.Statistics.ChaptersCompleted
		if rec.RecountChapters(s.lessonCounts) != prevChapters {
			changed = true
		}

		fresh := s.unlock(rec, now)
		if len(fresh) > 0 {
			changed = true
		}

		if changed {
			if err := r.Learners.Put(ctx, learnerID, rec, now); err != nil {
				return err
			}
			if err := s.appendUnlocks(ctx, r, learnerID, fresh, now); err != nil {
				return err
			}
		}

		dash = s.dashboard(learnerID, rec, now)
		dash.NewAchievements = fresh
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard %s: %w", learnerID, err)
	}
	return dash, nil
}

// CompleteLesson records a finished lesson. baseXP is scaled by the streak
// bonus of the streak held before this completion.
func (s *Service) CompleteLesson(ctx context.Context, learnerID, lessonID string, score, baseXP int, now time.Time) (*LessonOutcome, error) {
	if baseXP < 0 {
		return nil, fmt.Errorf("negative base xp %d: %w", baseXP, gamification.ErrInvalidArgument)
	}

	var out *LessonOutcome
	err := s.store.WithTx(ctx, func(r *store.Repos) error {
		rec, err := loadOrNew(ctx, r, learnerID)
		if err != nil {
			return err
		}

		before := s.catalog.CalculateLevel(rec.Profile.XP)
		streak := rec.CurrentStreak(now)
		xp := gamification.ApplyStreakBonus(baseXP, streak)

		if err := rec.CompleteLesson(lessonID, score, xp, now); err != nil {
			return err
		}
		rec.RecountChapters(s.lessonCounts)

		after := s.catalog.CalculateLevel(rec.Profile.XP)
		rec.Profile.Level = after.Level
		fresh := s.unlock(rec, now)

		if err := r.Learners.Put(ctx, learnerID, rec, now); err != nil {
			return err
		}

		_, err = r.Events.Append(ctx, store.EventData{
			LearnerID: learnerID,
			Kind:      store.EventLessonCompleted,
			Subject:   lessonID,
			XP:        xp,
			Data: map[string]any{
				"score":   score,
				"base_xp": baseXP,
				"streak":  rec.Profile.Streak,
			},
			Timestamp: now,
		})
		if err != nil {
			return err
		}
		if err := s.appendLevelUp(ctx, r, learnerID, before, after, now); err != nil {
			return err
		}
		if err := s.appendUnlocks(ctx, r, learnerID, fresh, now); err != nil {
			return err
		}

		out = &LessonOutcome{
			LessonID:        lessonID,
			Score:           score,
			BaseXP:          baseXP,
			XPEarned:        xp,
			Bonus:           gamification.StreakBonus(streak),
			TotalXP:         rec.Profile.XP,
			Streak:          rec.Profile.Streak,
			Level:           after,
			LevelUp:         after.Level > before.Level,
			NewAchievements: fresh,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("complete lesson %s: %w", lessonID, err)
	}

	s.log.Info("lesson completed",
		"learner", learnerID,
		"lesson", lessonID,
		"score", score,
		"xp", out.XPEarned,
		"bonus", out.Bonus,
		"streak", out.Streak,
	)
	s.logOutcome(learnerID, out.LevelUp, out.Level, out.NewAchievements)
	return out, nil
}

// SubmitAnswer records one answer.
func (s *Service) SubmitAnswer(ctx context.Context, learnerID, questionID string, correct bool, now time.Time) (*AnswerOutcome, error) {
	var out *AnswerOutcome
	err := s.store.WithTx(ctx, func(r *store.Repos) error {
		rec, err := loadOrNew(ctx, r, learnerID)
		if err != nil {
			return err
		}

		before := s.catalog.CalculateLevel(rec.Profile.XP)
		if err := rec.SubmitAnswer(questionID, correct, now); err != nil {
			return err
		}
		after := s.catalog.CalculateLevel(rec.Profile.XP)
		rec.Profile.Level = after.Level
		fresh := s.unlock(rec, now)

		if err := r.Learners.Put(ctx, learnerID, rec, now); err != nil {
			return err
		}

		xp := 0
		if correct {
			xp = progress.AnswerXP
		}
		_, err = r.Events.Append(ctx, store.EventData{
			LearnerID: learnerID,
			Kind:      store.EventAnswerSubmitted,
			Subject:   questionID,
			XP:        xp,
			Data:      map[string]any{"correct": correct, "lives": rec.Profile.Lives},
			Timestamp: now,
		})
		if err != nil {
			return err
		}
		if err := s.appendLevelUp(ctx, r, learnerID, before, after, now); err != nil {
			return err
		}
		if err := s.appendUnlocks(ctx, r, learnerID, fresh, now); err != nil {
			return err
		}

		out = &AnswerOutcome{
			QuestionID:      questionID,
			Correct:         correct,
			XPEarned:        xp,
			Lives:           rec.Profile.Lives,
			NextHeartAt:     rec.NextHeartAt(),
			TotalXP:         rec.Profile.XP,
			Level:           after,
			LevelUp:         after.Level > before.Level,
			NewAchievements: fresh,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("submit answer %s: %w", questionID, err)
	}

	s.log.Debug("answer submitted",
		"learner", learnerID,
		"question", questionID,
		"correct", correct,
		"lives", out.Lives,
	)
	s.logOutcome(learnerID, out.LevelUp, out.Level, out.NewAchievements)
	return out, nil
}

// Reset snapshots the learner's record, clears its progress and prunes old
// snapshots.
func (s *Service) Reset(ctx context.Context, learnerID string, now time.Time) (*ResetOutcome, error) {
	var out *ResetOutcome
	err := s.store.WithTx(ctx, func(r *store.Repos) error {
		rec, err := loadOrNew(ctx, r, learnerID)
		if err != nil {
			return err
		}

		snap := &store.Snapshot{
			LearnerID: learnerID,
			Timestamp: now,
			Data:      store.SnapshotData{Record: rec},
		}
		if err := r.Snapshots.Save(ctx, snap); err != nil {
			return err
		}
		out = &ResetOutcome{SnapshotSequence: snap.Sequence, PreviousXP: rec.Profile.XP}

		rec.Reset()
		if err := r.Learners.Put(ctx, learnerID, rec, now); err != nil {
			return err
		}
		_, err = r.Events.Append(ctx, store.EventData{
			LearnerID: learnerID,
			Kind:      store.EventProgressReset,
			XP:        -out.PreviousXP,
			Data:      map[string]any{"snapshot_sequence": snap.Sequence},
			Timestamp: now,
		})
		if err != nil {
			return err
		}
		return r.Snapshots.Prune(ctx, learnerID, SnapshotsKept)
	})
	if err != nil {
		return nil, fmt.Errorf("reset %s: %w", learnerID, err)
	}

	s.log.Info("progress reset", "learner", learnerID, "previous_xp", out.PreviousXP)
	return out, nil
}

// Restore replaces the learner's record with the latest snapshot.
func (s *Service) Restore(ctx context.Context, learnerID string, now time.Time) (*progress.Record, error) {
	var rec *progress.Record
	err := s.store.WithTx(ctx, func(r *store.Repos) error {
		snap, err := r.Snapshots.Latest(ctx, learnerID)
		if err != nil {
			return err
		}
		if snap == nil || snap.Data.Record == nil {
			return ErrNoSnapshot
		}
		rec = snap.Data.Record
		if err := r.Learners.Put(ctx, learnerID, rec, now); err != nil {
			return err
		}
		_, err = r.Events.Append(ctx, store.EventData{
			LearnerID: learnerID,
			Kind:      store.EventProgressRestored,
			XP:        rec.Profile.XP,
			Data:      map[string]any{"snapshot_sequence": snap.Sequence},
			Timestamp: now,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", learnerID, err)
	}

	s.log.Info("record restored", "learner", learnerID, "xp", rec.Profile.XP)
	return rec, nil
}

// Import validates raw as a learner record and stores it, snapshotting any
// record it replaces.
func (s *Service) Import(ctx context.Context, learnerID string, raw []byte, now time.Time) (*progress.Record, error) {
	rec, err := progress.DecodeJSON(raw)
	if err != nil {
		return nil, err
	}
	rec.Profile.Level = s.catalog.CalculateLevel(rec.Profile.XP).Level

	err = s.store.WithTx(ctx, func(r *store.Repos) error {
		prev, err := r.Learners.Get(ctx, learnerID)
		if err != nil {
			return err
		}
		if prev != nil {
			snap := &store.Snapshot{
				LearnerID: learnerID,
				Timestamp: now,
				Data:      store.SnapshotData{Record: prev},
			}
			if err := r.Snapshots.Save(ctx, snap); err != nil {
				return err
			}
			if err := r.Snapshots.Prune(ctx, learnerID, SnapshotsKept); err != nil {
				return err
			}
		}

		if err := r.Learners.Put(ctx, learnerID, rec, now); err != nil {
			return err
		}
		_, err = r.Events.Append(ctx, store.EventData{
			LearnerID: learnerID,
			Kind:      store.EventRecordImported,
			XP:        rec.Profile.XP,
			Data:      map[string]any{"source": "json", "replaced": prev != nil},
			Timestamp: now,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", learnerID, err)
	}

	s.log.Info("record imported",
		"learner", learnerID,
		"xp", rec.Profile.XP,
		"lessons", len(rec.Progress.Lessons),
	)
	return rec, nil
}

// History returns the learner's most recent activity events, newest first.
func (s *Service) History(ctx context.Context, learnerID string, limit int) ([]store.Event, error) {
	events, err := s.store.Repos().Events.Query(ctx, learnerID, store.QueryOpts{
		Limit: limit,
		Desc:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", learnerID, err)
	}
	return events, nil
}

func (s *Service) dashboard(learnerID string, rec *progress.Record, now time.Time) *Dashboard {
	stats := gamification.CalculateStats(&rec.Progress)
	streak := rec.CurrentStreak(now)
	return &Dashboard{
		LearnerID:       learnerID,
		Profile:         rec.Profile,
		Level:           s.catalog.CalculateLevel(rec.Profile.XP),
		Stats:           stats,
		Achievements:    s.catalog.CheckAchievements(stats, rec.Progress.Achievements, now),
		Daily:           s.catalog.DailyProgress(rec.Progress.DailyActivity, now),
		Streak:          streak,
		StreakBonus:     gamification.StreakBonus(streak),
		NextBonusStreak: gamification.NextBonusStreak(streak),
		NextHeartAt:     rec.NextHeartAt(),
	}
}

// unlock evaluates the catalog against rec and records the achievements
// unlocked for the first time. It returns those, in catalog order.
func (s *Service) unlock(rec *progress.Record, now time.Time) []gamification.AchievementState {
	stats := gamification.CalculateStats(&rec.Progress)
	states := s.catalog.CheckAchievements(stats, rec.Progress.Achievements, now)
	fresh := gamification.NewlyUnlocked(states, rec.Progress.Achievements)

	ids := make([]string, len(fresh))
	for i := range fresh {
		at := now
		fresh[i].UnlockedAt = &at
		ids[i] = fresh[i].ID
	}
	rec.RecordAchievements(ids...)
	return fresh
}

func (s *Service) appendUnlocks(ctx context.Context, r *store.Repos, learnerID string, fresh []gamification.AchievementState, now time.Time) error {
	for _, a := range fresh {
		_, err := r.Events.Append(ctx, store.EventData{
			LearnerID: learnerID,
			Kind:      store.EventAchievementUnlocked,
			Subject:   a.ID,
			Data:      map[string]any{"title": a.Title},
			Timestamp: now,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) appendLevelUp(ctx context.Context, r *store.Repos, learnerID string, before, after gamification.LevelDescriptor, now time.Time) error {
	if after.Level <= before.Level {
		return nil
	}
	_, err := r.Events.Append(ctx, store.EventData{
		LearnerID: learnerID,
		Kind:      store.EventLevelUp,
		Data: map[string]any{
			"from":  before.Level,
			"to":    after.Level,
			"title": after.Title,
		},
		Timestamp: now,
	})
	return err
}

func (s *Service) logOutcome(learnerID string, levelUp bool, level gamification.LevelDescriptor, fresh []gamification.AchievementState) {
	if levelUp {
		s.log.Info("level up", "learner", learnerID, "level", level.Level, "title", level.Title)
	}
	for _, a := range fresh {
		s.log.Info("achievement unlocked", "learner", learnerID, "achievement", a.ID)
	}
}

func loadOrNew(ctx context.Context, r *store.Repos, learnerID string) (*progress.Record, error) {
	if learnerID == "" {
		return nil, fmt.Errorf("learner id is empty: %w", gamification.ErrInvalidArgument)
	}
	rec, err := r.Learners.Get(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = progress.NewRecord(learnerID)
	}
	return rec, nil
}
