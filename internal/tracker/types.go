package tracker

import (
	"time"

	"github.com/cpapath/cpapath/internal/gamification"
	"github.com/cpapath/cpapath/internal/progress"
)

// Dashboard is everything derived from a learner record at one instant.
type Dashboard struct {
	LearnerID       string                          `json:"learner_id"`
	Profile         progress.Profile                `json:"profile"`
	Level           gamification.LevelDescriptor    `json:"level"`
	Stats           gamification.Statistics         `json:"stats"`
	Achievements    []gamification.AchievementState `json:"achievements"`
	NewAchievements []gamification.AchievementState `json:"new_achievements"`
	Daily           gamification.DailyProgress      `json:"daily"`
	Streak          int                             `json:"streak"` // 0 once the stored streak has lapsed
	StreakBonus     float64                         `json:"streak_bonus"`
	NextBonusStreak int                             `json:"next_bonus_streak"` // 0 when the top bonus tier is reached
	NextHeartAt     time.Time                       `json:"next_heart_at"`     // zero when hearts are full
}

// LessonOutcome reports the effect of completing a lesson.
type LessonOutcome struct {
	LessonID        string                          `json:"lesson_id"`
	Score           int                             `json:"score"`
	BaseXP          int                             `json:"base_xp"`
	XPEarned        int                             `json:"xp_earned"` // BaseXP scaled by Bonus
	Bonus           float64                         `json:"bonus"`     // multiplier from the streak before completion
	TotalXP         int                             `json:"total_xp"`
	Streak          int                             `json:"streak"`
	Level           gamification.LevelDescriptor    `json:"level"`
	LevelUp         bool                            `json:"level_up"`
	NewAchievements []gamification.AchievementState `json:"new_achievements"`
}

// AnswerOutcome reports the effect of answering a question.
type AnswerOutcome struct {
	QuestionID      string                          `json:"question_id"`
	Correct         bool                            `json:"correct"`
	XPEarned        int                             `json:"xp_earned"`
	Lives           int                             `json:"lives"`
	NextHeartAt     time.Time                       `json:"next_heart_at"`
	TotalXP         int                             `json:"total_xp"`
	Level           gamification.LevelDescriptor    `json:"level"`
	LevelUp         bool                            `json:"level_up"`
	NewAchievements []gamification.AchievementState `json:"new_achievements"`
}

// ResetOutcome reports a progress reset.
type ResetOutcome struct {
	SnapshotSequence int64 `json:"snapshot_sequence"`
	PreviousXP       int   `json:"previous_xp"`
}
