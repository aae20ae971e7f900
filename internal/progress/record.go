// Package progress defines the raw learner record and the ledger operations
// that advance it as lessons are completed and questions answered.
package progress

import "time"

const (
	// MaxHearts is the number of lives a learner can hold.
	MaxHearts = 5

	// HeartRecoveryInterval is how long it takes to regain one heart.
	HeartRecoveryInterval = 10 * time.Minute

	// AnswerXP is awarded for every correct answer.
	AnswerXP = 2

	// DefaultDailyGoal is the daily XP goal shown on a new profile.
	DefaultDailyGoal = 50

	// DefaultUsername is used when a record is created without a name.
	DefaultUsername = "CPA学习者"

	dateLayout = "2006-01-02"
)

// Profile holds the learner's headline counters.
type Profile struct {
	Username          string     `json:"username"`
	XP                int        `json:"xp"`
	Level             int        `json:"level"`
	Streak            int        `json:"streak"`
	Lives             int        `json:"lives"`
	LastActiveDate    *string    `json:"last_active_date"`
	LastHeartRecovery *time.Time `json:"last_heart_recovery"`
	DailyGoal         int        `json:"daily_goal"`
}

// LessonResult is stored per completed lesson.
type LessonResult struct {
	CompletedAt time.Time `json:"completed_at"`
	Score       int       `json:"score"`
	XPEarned    int       `json:"xp_earned"`
}

// QuestionState tallies outcomes for one question.
type QuestionState struct {
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

// Statistics is the pre-aggregated counter block maintained incrementally
// by the ledger.
type Statistics struct {
	TotalQuestionsAnswered int `json:"total_questions_answered"`
	TotalCorrectAnswers    int `json:"total_correct_answers"`
	TotalXPEarned          int `json:"total_xp_earned"`
	TodayXP                int `json:"today_xp"`
	LessonsCompleted       int `json:"lessons_completed"`
	ChaptersCompleted      int `json:"chapters_completed"`
	MaxStreak              int `json:"max_streak"`
	MaxDailyLessons        int `json:"max_daily_lessons"`
	PerfectLessons         int `json:"perfect_lessons"`
}

// DayActivity is one day's entry in the activity log.
type DayActivity struct {
	XPEarned          int  `json:"xp_earned"`
	LessonsCompleted  int  `json:"lessons_completed"`
	QuestionsAnswered int  `json:"questions_answered"`
	StreakActive      bool `json:"streak_active"`
}

// Progress is the learning history part of a record.
type Progress struct {
	Lessons        map[string]LessonResult  `json:"lessons"`
	QuestionStates map[string]QuestionState `json:"question_states"`
	Statistics     Statistics               `json:"statistics"`
	DailyActivity  map[string]DayActivity   `json:"daily_activity"`
	Achievements   []string                 `json:"achievements"`
}

// Record is everything persisted for one learner.
type Record struct {
	Profile  Profile  `json:"profile"`
	Progress Progress `json:"progress"`
}

// NewRecord returns a fresh record with full hearts.
func NewRecord(username string) *Record {
	if username == "" {
		username = DefaultUsername
	}
	r := &Record{
		Profile: Profile{
			Username:  username,
			Level:     1,
			Lives:     MaxHearts,
			DailyGoal: DefaultDailyGoal,
		},
	}
	r.ensure()
	return r
}

// ensure initializes nil maps so ledger operations can write through them.
func (r *Record) ensure() {
	if r.Progress.Lessons == nil {
		r.Progress.Lessons = make(map[string]LessonResult)
	}
	if r.Progress.QuestionStates == nil {
		r.Progress.QuestionStates = make(map[string]QuestionState)
	}
	if r.Progress.DailyActivity == nil {
		r.Progress.DailyActivity = make(map[string]DayActivity)
	}
	if r.Progress.Achievements == nil {
		r.Progress.Achievements = []string{}
	}
}

// HasAchievement reports whether id is already recorded as unlocked.
func (r *Record) HasAchievement(id string) bool {
	for _, a := range r.Progress.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// DateKey returns the UTC calendar-day key used by the activity log.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
