package progress

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidArgument marks input outside the accepted domain.
var ErrInvalidArgument = errors.New("invalid argument")

// CompleteLesson records a finished lesson worth xp (already scaled by any
// streak bonus) and advances the profile, daily log and counters.
// Completing the same lesson again overwrites its result but still counts
// toward daily activity and XP.
func (r *Record) CompleteLesson(lessonID string, score, xp int, now time.Time) error {
	if lessonID == "" {
		return fmt.Errorf("lesson id is empty: %w", ErrInvalidArgument)
	}
	if score < 0 || score > 100 {
		return fmt.Errorf("score %d outside 0-100: %w", score, ErrInvalidArgument)
	}
	if xp < 0 {
		return fmt.Errorf("negative xp %d: %w", xp, ErrInvalidArgument)
	}
	r.ensure()

	today := r.touchDay(now)

	r.Progress.Lessons[lessonID] = LessonResult{
		CompletedAt: now.UTC(),
		Score:       score,
		XPEarned:    xp,
	}
	r.Profile.XP += xp

	st := &r.Progress.Statistics
	st.TotalXPEarned += xp
	st.TodayXP += xp
	st.LessonsCompleted++

	act := r.Progress.DailyActivity[today]
	act.XPEarned += xp
	act.LessonsCompleted++
	r.Progress.DailyActivity[today] = act

	if act.LessonsCompleted > st.MaxDailyLessons {
		st.MaxDailyLessons = act.LessonsCompleted
	}
	if score == 100 {
		st.PerfectLessons++
	}
	return nil
}

// SubmitAnswer records one answer. A correct answer earns AnswerXP; a wrong
// one costs a heart. Hearts are recovered before the answer is applied.
func (r *Record) SubmitAnswer(questionID string, correct bool, now time.Time) error {
	if questionID == "" {
		return fmt.Errorf("question id is empty: %w", ErrInvalidArgument)
	}
	r.ensure()
	r.RecoverHearts(now)

	today := r.touchDay(now)
	qs := r.Progress.QuestionStates[questionID]
	act := r.Progress.DailyActivity[today]
	st := &r.Progress.Statistics

	st.TotalQuestionsAnswered++
	act.QuestionsAnswered++

	if correct {
		qs.Correct++
		r.Profile.XP += AnswerXP
		act.XPEarned += AnswerXP
		st.TotalCorrectAnswers++
		st.TotalXPEarned += AnswerXP
		st.TodayXP += AnswerXP
	} else {
		qs.Wrong++
		r.loseHeart(now)
	}

	r.Progress.QuestionStates[questionID] = qs
	r.Progress.DailyActivity[today] = act
	return nil
}

// CurrentStreak returns the streak as of now: the stored streak while the
// last active day is today or yesterday, otherwise 0.
func (r *Record) CurrentStreak(now time.Time) int {
	last := r.Profile.LastActiveDate
	if last == nil {
		return 0
	}
	if *last == DateKey(now) || *last == DateKey(now.UTC().AddDate(0, 0, -1)) {
		return r.Profile.Streak
	}
	return 0
}

// RecoverHearts restores one heart per HeartRecoveryInterval since the last
// recovery and returns how many were restored. A profile with no recovery
// timestamp is refilled immediately.
func (r *Record) RecoverHearts(now time.Time) int {
	p := &r.Profile
	if p.Lives >= MaxHearts {
		return 0
	}

	if p.LastHeartRecovery == nil {
		gained := MaxHearts - p.Lives
		p.Lives = MaxHearts
		stamp := now.UTC()
		p.LastHeartRecovery = &stamp
		return gained
	}

	n := int(now.Sub(*p.LastHeartRecovery) / HeartRecoveryInterval)
	if n <= 0 {
		return 0
	}

	gained := min(MaxHearts-p.Lives, n)
	p.Lives += gained

	// Carry the partial interval forward unless the hearts are full.
	stamp := now.UTC()
	if p.Lives < MaxHearts {
		stamp = p.LastHeartRecovery.Add(time.Duration(n) * HeartRecoveryInterval)
	}
	p.LastHeartRecovery = &stamp
	return gained
}

// NextHeartAt returns when the next heart will be restored, or the zero time
// when hearts are full.
func (r *Record) NextHeartAt() time.Time {
	if r.Profile.Lives >= MaxHearts || r.Profile.LastHeartRecovery == nil {
		return time.Time{}
	}
	return r.Profile.LastHeartRecovery.Add(HeartRecoveryInterval)
}

// Reset clears XP, streak, hearts, lessons, question tallies, achievements and
// counters. The daily activity log is kept, but no day counts as having
// advanced the streak any more.
func (r *Record) Reset() {
	r.Profile.XP = 0
	r.Profile.Level = 1
	r.Profile.Streak = 0
	r.Profile.Lives = MaxHearts
	r.Profile.LastActiveDate = nil
	r.Profile.LastHeartRecovery = nil

	r.Progress.Lessons = make(map[string]LessonResult)
	r.Progress.QuestionStates = make(map[string]QuestionState)
	r.Progress.Achievements = []string{}
	r.Progress.Statistics = Statistics{}

	r.ensure()
	for day, act := range r.Progress.DailyActivity {
		act.StreakActive = false
		r.Progress.DailyActivity[day] = act
	}
}

// RecountChapters sets the chapters-completed counter from the completed
// lessons, given each chapter's lesson count. Lesson ids are
// "<chapter>_<n>". An empty lessonCounts leaves the counter untouched.
func (r *Record) RecountChapters(lessonCounts map[string]int) int {
	if len(lessonCounts) == 0 {
		return r.Progress.Statistics.ChaptersCompleted
	}

	done := make(map[string]int)
	for id := range r.Progress.Lessons {
		if ch, _, ok := strings.Cut(id, "_"); ok {
			done[ch]++
		}
	}

	n := 0
	for ch, total := range lessonCounts {
		if total > 0 && done[ch] >= total {
			n++
		}
	}
	r.Progress.Statistics.ChaptersCompleted = n
	return n
}

// RecordAchievements appends ids not yet recorded and returns the ones added.
func (r *Record) RecordAchievements(ids ...string) []string {
	var added []string
	for _, id := range ids {
		if id == "" || r.HasAchievement(id) {
			continue
		}
		r.Progress.Achievements = append(r.Progress.Achievements, id)
		added = append(added, id)
	}
	return added
}

// touchDay marks today's activity entry and, on the first activity of the
// day, advances the streak. It returns today's date key.
func (r *Record) touchDay(now time.Time) string {
	today := DateKey(now)
	act := r.Progress.DailyActivity[today]

	if !act.StreakActive {
		act.StreakActive = true
		yesterday := DateKey(now.UTC().AddDate(0, 0, -1))

		p := &r.Profile
		switch {
		case p.LastActiveDate == nil:
			p.Streak = 1
		case *p.LastActiveDate == yesterday:
			p.Streak++
		case *p.LastActiveDate == today:
			p.Streak = max(p.Streak, 1)
		default:
			p.Streak = 1
		}
		p.LastActiveDate = &today
		r.Progress.Statistics.TodayXP = 0
	}
	r.Progress.DailyActivity[today] = act

	if st := &r.Progress.Statistics; r.Profile.Streak > st.MaxStreak {
		st.MaxStreak = r.Profile.Streak
	}
	return today
}

// loseHeart removes one heart. Dropping from full starts the recovery clock.
func (r *Record) loseHeart(now time.Time) {
	p := &r.Profile
	if p.Lives <= 0 {
		p.Lives = 0
		return
	}
	if p.Lives >= MaxHearts || p.LastHeartRecovery == nil {
		stamp := now.UTC()
		p.LastHeartRecovery = &stamp
	}
	p.Lives--
}
