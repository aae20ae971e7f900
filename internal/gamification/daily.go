package gamification

import (
	"time"

	"github.com/cpapath/cpapath/internal/progress"
)

// GetDailyProgress evaluates the default catalog's daily goals.
func GetDailyProgress(activity map[string]progress.DayActivity, now time.Time) DailyProgress {
	return DefaultCatalog().DailyProgress(activity, now)
}

// DailyProgress looks up today's activity (UTC date of now) and compares it
// with the daily goals. A missing log or day counts as zero activity.
func (c *Catalog) DailyProgress(activity map[string]progress.DayActivity, now time.Time) DailyProgress {
	key := progress.DateKey(now)
	today := activity[key] // zero value when absent or nil map

	dp := DailyProgress{
		Date:              key,
		LessonsCompleted:  today.LessonsCompleted,
		XPEarned:          today.XPEarned,
		QuestionsAnswered: today.QuestionsAnswered,
	}
	dp.Goals.Lessons = GoalProgress{Current: today.LessonsCompleted, Target: c.DailyGoals.Lessons.Target}
	dp.Goals.XP = GoalProgress{Current: today.XPEarned, Target: c.DailyGoals.XP.Target}
	dp.Completed = dp.Goals.Lessons.Done()
	return dp
}
