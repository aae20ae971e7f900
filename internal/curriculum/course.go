// Package curriculum reads the chapter and question data a learner works
// through. It only reads files; progress lives in the progress package.
package curriculum

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxChapters is the highest chapter number scanned under the data dir.
const MaxChapters = 30

// CourseTitle names the course in summaries.
const CourseTitle = "CPA注册会计师考试-会计科目"

// ChapterSummary describes one chapter directory.
type ChapterSummary struct {
	ChapterID    string `json:"chapter_id"`
	Title        string `json:"title"`
	LessonsCount int    `json:"lessons_count"`
	TotalXP      int    `json:"total_xp"`
	ExamWeight   string `json:"exam_weight"`
	Difficulty   int    `json:"difficulty"`
}

// CourseInfo aggregates the chapter summaries.
type CourseInfo struct {
	Title         string `json:"title"`
	TotalChapters int    `json:"total_chapters"`
	TotalLessons  int    `json:"total_lessons"`
	TotalXP       int    `json:"total_xp"`
}

// Course is the chapter listing of a data dir.
type Course struct {
	Info     CourseInfo       `json:"course_info"`
	Chapters []ChapterSummary `json:"chapters"`
}

// chapterIndex is the part of chapter_<n>/index.json we read.
type chapterIndex struct {
	Chapter struct {
		ChapterID  string `json:"chapter_id"`
		Title      string `json:"title"`
		TotalXP    int    `json:"total_xp"`
		ExamWeight string `json:"exam_weight"`
		Difficulty *int   `json:"difficulty"`
	} `json:"chapter"`
}

// LoadChapters scans chapter_1 .. chapter_<MaxChapters> under dataDir.
// Directories without an index.json are skipped.
func LoadChapters(dataDir string) (*Course, error) {
	course := &Course{Info: CourseInfo{Title: CourseTitle}}

	for i := 1; i <= MaxChapters; i++ {
		dir := filepath.Join(dataDir, "chapter_"+strconv.Itoa(i))
		raw, err := os.ReadFile(filepath.Join(dir, "index.json"))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read chapter %d: %w", i, err)
		}

		var idx chapterIndex
		if err := json.Unmarshal(raw, &idx); err != nil {
			return nil, fmt.Errorf("parse chapter %d index: %w", i, err)
		}

		lessons, err := lessonFiles(dir)
		if err != nil {
			return nil, fmt.Errorf("list chapter %d lessons: %w", i, err)
		}

		ch := ChapterSummary{
			ChapterID:    idx.Chapter.ChapterID,
			Title:        idx.Chapter.Title,
			LessonsCount: len(lessons),
			TotalXP:      idx.Chapter.TotalXP,
			ExamWeight:   idx.Chapter.ExamWeight,
			Difficulty:   1,
		}
		if ch.ChapterID == "" {
			ch.ChapterID = strconv.Itoa(i)
		}
		if ch.Title == "" {
			ch.Title = fmt.Sprintf("Chapter %d", i)
		}
		if ch.ExamWeight == "" {
			ch.ExamWeight = "约1分"
		}
		if idx.Chapter.Difficulty != nil {
			ch.Difficulty = *idx.Chapter.Difficulty
		}

		course.Chapters = append(course.Chapters, ch)
		course.Info.TotalLessons += ch.LessonsCount
		course.Info.TotalXP += ch.TotalXP
	}

	course.Info.TotalChapters = len(course.Chapters)
	return course, nil
}

// LessonCounts maps chapter id to its lesson count.
func (c *Course) LessonCounts() map[string]int {
	counts := make(map[string]int, len(c.Chapters))
	for _, ch := range c.Chapters {
		counts[ch.ChapterID] = ch.LessonsCount
	}
	return counts
}

// Chapter returns the summary for id.
func (c *Course) Chapter(id string) (ChapterSummary, bool) {
	for _, ch := range c.Chapters {
		if ch.ChapterID == id {
			return ch, true
		}
	}
	return ChapterSummary{}, false
}

// lessonFiles returns the sorted lesson_*.json paths in dir.
func lessonFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "lesson_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}
