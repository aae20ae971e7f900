// Package gamification derives display state (level, statistics,
// achievements, streak bonus and daily goals) from a learner's raw progress.
// Every function here is pure: the clock is passed in and nothing is stored.
package gamification

import "time"

// Stat names a Statistics field that achievement conditions can test.
type Stat string

const (
	StatLessonsCompleted  Stat = "lessons_completed"
	StatTotalQuestions    Stat = "total_questions"
	StatCorrect           Stat = "correct"
	StatWrong             Stat = "wrong"
	StatAccuracy          Stat = "accuracy"
	StatChaptersCompleted Stat = "chapters_completed"
	StatMaxStreak         Stat = "max_streak"
	StatMaxDailyLessons   Stat = "max_daily_lessons"
	StatPerfectLessons    Stat = "perfect_lessons"
)

// AllStats returns every stat in Statistics field order.
func AllStats() []Stat {
	return []Stat{
		StatLessonsCompleted, StatTotalQuestions, StatCorrect, StatWrong, StatAccuracy,
		StatChaptersCompleted, StatMaxStreak, StatMaxDailyLessons, StatPerfectLessons,
	}
}

// DisplayName returns a human-readable label for the stat.
func (s Stat) DisplayName() string {
	switch s {
	case StatLessonsCompleted:
		return "Lessons completed"
	case StatTotalQuestions:
		return "Questions answered"
	case StatCorrect:
		return "Correct answers"
	case StatWrong:
		return "Wrong answers"
	case StatAccuracy:
		return "Accuracy"
	case StatChaptersCompleted:
		return "Chapters completed"
	case StatMaxStreak:
		return "Best streak"
	case StatMaxDailyLessons:
		return "Most lessons in a day"
	case StatPerfectLessons:
		return "Perfect lessons"
	default:
		return string(s)
	}
}

// Statistics is the normalized view of a learner's raw progress.
type Statistics struct {
	LessonsCompleted  int `json:"lessons_completed"`
	TotalQuestions    int `json:"total_questions"`
	Correct           int `json:"correct"`
	Wrong             int `json:"wrong"`
	Accuracy          int `json:"accuracy"` // 0-100
	ChaptersCompleted int `json:"chapters_completed"`
	MaxStreak         int `json:"max_streak"`
	MaxDailyLessons   int `json:"max_daily_lessons"`
	PerfectLessons    int `json:"perfect_lessons"`
}

// Value returns the value of the named stat. ok is false for unknown stats.
func (s Statistics) Value(stat Stat) (v int, ok bool) {
	switch stat {
	case StatLessonsCompleted:
		return s.LessonsCompleted, true
	case StatTotalQuestions:
		return s.TotalQuestions, true
	case StatCorrect:
		return s.Correct, true
	case StatWrong:
		return s.Wrong, true
	case StatAccuracy:
		return s.Accuracy, true
	case StatChaptersCompleted:
		return s.ChaptersCompleted, true
	case StatMaxStreak:
		return s.MaxStreak, true
	case StatMaxDailyLessons:
		return s.MaxDailyLessons, true
	case StatPerfectLessons:
		return s.PerfectLessons, true
	default:
		return 0, false
	}
}

// LevelThreshold is one row of the level table.
type LevelThreshold struct {
	Level      int    `yaml:"level" json:"level"`
	XPRequired int    `yaml:"xp_required" json:"xp_required"`
	Title      string `yaml:"title" json:"title"`
}

// LevelDescriptor describes where an XP total sits in the level table.
type LevelDescriptor struct {
	Level            int     `json:"level"`
	Title            string  `json:"title"`
	XPInCurrentLevel int     `json:"xp_in_current_level"`
	XPForNextLevel   int     `json:"xp_for_next_level"` // 0 at max level
	Progress         float64 `json:"progress"`          // 0-100
}

// IsMaxLevel reports whether there is no further level to reach.
func (d LevelDescriptor) IsMaxLevel() bool {
	return d.XPForNextLevel == 0
}

// Condition is a threshold predicate: the stat must be at least Min.
type Condition struct {
	Stat Stat `yaml:"stat" json:"stat"`
	Min  int  `yaml:"min" json:"min"`
}

// Met reports whether stats satisfy the condition.
func (c Condition) Met(stats Statistics) bool {
	v, ok := stats.Value(c.Stat)
	return ok && v >= c.Min
}

// AchievementDefinition is a catalog entry.
type AchievementDefinition struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Icon        string    `yaml:"icon" json:"icon"`
	Condition   Condition `yaml:"condition" json:"condition"`
}

// AchievementState is a definition evaluated against a learner.
type AchievementState struct {
	AchievementDefinition
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at"` // set only for already-recorded unlocks
}

// GoalSpec is one daily goal.
type GoalSpec struct {
	Target   int `yaml:"target" json:"target"`
	XPReward int `yaml:"xp" json:"xp"`
}

// DailyGoals is the fixed set of per-day goals.
type DailyGoals struct {
	Lessons  GoalSpec `yaml:"lessons" json:"lessons"`
	XP       GoalSpec `yaml:"xp" json:"xp"`
	Accuracy GoalSpec `yaml:"accuracy" json:"accuracy"`
}

// GoalProgress pairs a current value with its target.
type GoalProgress struct {
	Current int `json:"current"`
	Target  int `json:"target"`
}

// Done reports whether the goal has been reached.
func (g GoalProgress) Done() bool {
	return g.Current >= g.Target
}

// DailyProgress is today's slice of the activity log measured against the goals.
type DailyProgress struct {
	Date              string            `json:"date"` // YYYY-MM-DD, UTC
	LessonsCompleted  int               `json:"lessons_completed"`
	XPEarned          int               `json:"xp_earned"`
	QuestionsAnswered int               `json:"questions_answered"`
	Goals             DailyGoalProgress `json:"goals"`
	Completed         bool              `json:"completed"`
}

// DailyGoalProgress is the per-goal breakdown of DailyProgress.
type DailyGoalProgress struct {
	Lessons GoalProgress `json:"lessons"`
	XP      GoalProgress `json:"xp"`
}
