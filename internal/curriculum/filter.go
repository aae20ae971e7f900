package curriculum

import (
	"math/rand/v2"

	"github.com/cpapath/cpapath/internal/progress"
)

// DefaultQuestionLimit caps a practice set when FilterOpts.Limit is zero.
const DefaultQuestionLimit = 20

// FilterOpts selects practice questions.
type FilterOpts struct {
	ChapterID  string
	Type       string
	Difficulty int // 0 = any
	WrongOnly  bool
	Limit      int // 0 = DefaultQuestionLimit
}

// FilterResult is a shuffled practice set and how many questions matched
// before the limit was applied.
type FilterResult struct {
	Questions []Question
	Total     int
}

// Filter picks practice questions for rec. Once any lesson is completed only
// questions from completed lessons are eligible. WrongOnly keeps questions
// answered wrong at least once. rng shuffles the matches; nil keeps bank
// order.
func Filter(questions []Question, opts FilterOpts, rec *progress.Record, rng *rand.Rand) FilterResult {
	var (
		lessons map[string]progress.LessonResult
		states  map[string]progress.QuestionState
	)
	if rec != nil {
		lessons = rec.Progress.Lessons
		states = rec.Progress.QuestionStates
	}
	wantType := NormalizeType(opts.Type)

	matched := make([]Question, 0, len(questions))
	for _, q := range questions {
		if len(lessons) > 0 {
			if _, ok := lessons[LessonOf(q.ID)]; !ok {
				continue
			}
		}
		if opts.WrongOnly && states[q.ID].Wrong == 0 {
			continue
		}
		if opts.ChapterID != "" && q.ChapterID != opts.ChapterID {
			continue
		}
		if wantType != "" && q.Type != wantType {
			continue
		}
		if opts.Difficulty != 0 && q.Difficulty != opts.Difficulty {
			continue
		}
		matched = append(matched, q)
	}

	if rng != nil {
		rng.Shuffle(len(matched), func(i, j int) {
			matched[i], matched[j] = matched[j], matched[i]
		})
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultQuestionLimit
	}
	return FilterResult{
		Questions: matched[:min(limit, len(matched))],
		Total:     len(matched),
	}
}
