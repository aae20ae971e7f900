package gamification

import (
	"math"

	"github.com/cpapath/cpapath/internal/progress"
)

// CalculateStats projects a raw progress record into Statistics. A nil
// record yields all-zero statistics.
func CalculateStats(p *progress.Progress) Statistics {
	if p == nil {
		return Statistics{}
	}

	var correct, wrong int
	for _, qs := range p.QuestionStates {
		correct += qs.Correct
		wrong += qs.Wrong
	}

	total := correct + wrong
	accuracy := 0
	if total > 0 {
		accuracy = int(math.Round(100 * float64(correct) / float64(total)))
	}

	// Chapter, streak, daily and perfect counters are maintained by the
	// ledger and passed through as-is.
	return Statistics{
		LessonsCompleted:  len(p.Lessons),
		TotalQuestions:    total,
		Correct:           correct,
		Wrong:             wrong,
		Accuracy:          accuracy,
		ChaptersCompleted: p.Statistics.ChaptersCompleted,
		MaxStreak:         p.Statistics.MaxStreak,
		MaxDailyLessons:   p.Statistics.MaxDailyLessons,
		PerfectLessons:    p.Statistics.PerfectLessons,
	}
}
