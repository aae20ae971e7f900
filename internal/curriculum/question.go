package curriculum

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// QuestionBankFile is the bank's file name inside a data dir.
const QuestionBankFile = "question_bank.json"

// Normalized question types.
const (
	TypeSingleChoice = "single_choice"
	TypeMultiChoice  = "multi_choice"
	TypeJudgment     = "judgment"
)

// Question is one practice question. Options and CorrectAnswer keep their
// raw JSON since their shape depends on Type.
type Question struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Difficulty    int             `json:"difficulty"`
	ChapterID     string          `json:"chapter_id"`
	LessonID      string          `json:"lesson_id"`
	Question      string          `json:"question"`
	Options       json.RawMessage `json:"options,omitempty"`
	CorrectAnswer json.RawMessage `json:"correct_answer,omitempty"`
	Explanation   string          `json:"explanation"`
}

// QuestionBank is the flattened list of every lesson's exercises.
type QuestionBank struct {
	TotalQuestions int        `json:"total_questions"`
	Questions      []Question `json:"questions"`
}

// NormalizeType maps question type aliases onto the normalized set.
func NormalizeType(t string) string {
	switch t {
	case "multiple_choice":
		return TypeMultiChoice
	case "judgment", "true_false":
		return TypeJudgment
	}
	return t
}

// LessonOf returns the lesson a question id belongs to. Question ids have
// the form "ex_<lesson>_<n>".
func LessonOf(questionID string) string {
	id := strings.TrimPrefix(questionID, "ex_")
	if i := strings.LastIndex(id, "_"); i >= 0 {
		return id[:i]
	}
	return id
}

// LoadQuestionBank reads a question bank file. Types are normalized.
func LoadQuestionBank(path string) (*QuestionBank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	var bank QuestionBank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	for i := range bank.Questions {
		bank.Questions[i].Type = NormalizeType(bank.Questions[i].Type)
	}
	bank.TotalQuestions = len(bank.Questions)
	return &bank, nil
}

// lessonFile is the part of lesson_*.json the bank is built from.
type lessonFile struct {
	ChapterID string `json:"chapter_id"`
	LessonID  string `json:"lesson_id"`
	Exercises []struct {
		ID            string          `json:"id"`
		Type          string          `json:"type"`
		Difficulty    *int            `json:"difficulty"`
		Question      string          `json:"question"`
		Options       json.RawMessage `json:"options"`
		CorrectAnswer json.RawMessage `json:"correct_answer"`
		Explanation   string          `json:"explanation"`
	} `json:"exercises"`
}

// BuildQuestionBank collects the exercises of every lesson file in the
// chapter directories under dataDir. Lesson files that fail to parse are
// returned in skipped rather than failing the build.
func BuildQuestionBank(dataDir string) (bank *QuestionBank, skipped []string, err error) {
	bank = &QuestionBank{Questions: []Question{}}

	for i := 1; i <= MaxChapters; i++ {
		dir := filepath.Join(dataDir, "chapter_"+strconv.Itoa(i))
		files, err := lessonFiles(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, nil, fmt.Errorf("list chapter %d lessons: %w", i, err)
		}

		for _, path := range files {
			qs, err := lessonQuestions(path)
			if err != nil {
				skipped = append(skipped, path)
				continue
			}
			bank.Questions = append(bank.Questions, qs...)
		}
	}

	bank.TotalQuestions = len(bank.Questions)
	return bank, skipped, nil
}

func lessonQuestions(path string) ([]Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lf lessonFile
	if err := json.Unmarshal(raw, &lf); err != nil {
		return nil, err
	}

	qs := make([]Question, 0, len(lf.Exercises))
	for _, ex := range lf.Exercises {
		q := Question{
			ID:            ex.ID,
			Type:          NormalizeType(ex.Type),
			Difficulty:    1,
			ChapterID:     lf.ChapterID,
			LessonID:      lf.LessonID,
			Question:      ex.Question,
			Options:       ex.Options,
			CorrectAnswer: ex.CorrectAnswer,
			Explanation:   ex.Explanation,
		}
		if q.Type == "" {
			q.Type = TypeSingleChoice
		}
		if ex.Difficulty != nil {
			q.Difficulty = *ex.Difficulty
		}
		qs = append(qs, q)
	}
	return qs, nil
}

// WriteQuestionBank writes bank as indented JSON.
func WriteQuestionBank(path string, bank *QuestionBank) error {
	b, err := json.MarshalIndent(bank, "", "  ")
	if err != nil {
		return fmt.Errorf("encode question bank: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write question bank: %w", err)
	}
	return nil
}
