package progression

import (
	"fmt"
	"time"
)

// Star thresholds on the best score seen for a lesson.
const (
	ThreeStarScore = 90
	TwoStarScore   = 70
	OneStarScore   = 50
	// PassingScore is the minimum score that completes a lesson.
	PassingScore = 50
	MaxScore     = 100
)

// LessonState is the per-user record of one (theme, level) lesson.
type LessonState struct {
	Completed   bool      `json:"completed"`
	Stars       int       `json:"stars"`
	Score       int       `json:"score"`
	Attempts    int       `json:"attempts"`
	Unlocked    bool      `json:"unlocked"`
	LastAttempt time.Time `json:"last_attempt"`
}

// LessonRecord ties a LessonState to its theme and level.
type LessonRecord struct {
	ThemeID string `json:"theme_id"`
	Level   Level  `json:"level"`
	LessonState
}

// LessonResult is what CompleteLesson changed.
type LessonResult struct {
	Record LessonRecord
	// FirstCompletion is set only on the attempt that flipped Completed.
	FirstCompletion bool
	// Unlocked is the next level's record when FirstCompletion unlocked it.
	Unlocked *LessonRecord
}

// StarsFor maps a score to 0–3 stars.
func StarsFor(score int) int {
	switch {
	case score >= ThreeStarScore:
		return 3
	case score >= TwoStarScore:
		return 2
	case score >= OneStarScore:
		return 1
	default:
		return 0
	}
}

// ValidateScore rejects scores outside 0–100.
func ValidateScore(score int) error {
	if score < 0 || score > MaxScore {
		return fmt.Errorf("score %d: %w", score, ErrOutOfRange)
	}
	return nil
}

// FindLesson returns the index of (themeID, level) in records, or -1.
func FindLesson(records []LessonRecord, themeID string, level Level) int {
	for i := range records {
		if records[i].ThemeID == themeID && records[i].Level == level {
			return i
		}
	}
	return -1
}

// IsUnlocked reports whether a lesson may be started. A1 is always open; any
// other level opens once its record is unlocked or the previous level is completed.
func IsUnlocked(records []LessonRecord, themeID string, level Level) bool {
	if level == LevelA1 {
		return true
	}
	if i := FindLesson(records, themeID, level); i >= 0 && records[i].Unlocked {
		return true
	}
	prev, ok := level.Prev()
	if !ok {
		return false
	}
	i := FindLesson(records, themeID, prev)
	return i >= 0 && records[i].Completed
}

// StartLesson returns records with an entry for (themeID, level), creating an
// unlocked one if absent. The caller checks IsUnlocked first.
func StartLesson(records []LessonRecord, themeID string, level Level) ([]LessonRecord, LessonRecord) {
	if i := FindLesson(records, themeID, level); i >= 0 {
		return records, records[i]
	}
	rec := LessonRecord{ThemeID: themeID, Level: level, LessonState: LessonState{Unlocked: true}}
	return append(records, rec), rec
}

// CompleteLesson grades one attempt. records is updated in place (and may grow
// by the attempted lesson and the newly unlocked next level).
func CompleteLesson(records []LessonRecord, themeID string, level Level, score int, now time.Time) ([]LessonRecord, LessonResult, error) {
	if level.Index() < 0 {
		return records, LessonResult{}, fmt.Errorf("level %q: %w", level, ErrOutOfRange)
	}
	if err := ValidateScore(score); err != nil {
		return records, LessonResult{}, err
	}

	i := FindLesson(records, themeID, level)
	if i < 0 {
		records = append(records, LessonRecord{ThemeID: themeID, Level: level, LessonState: LessonState{Unlocked: true}})
		i = len(records) - 1
	}

	rec := &records[i]
	rec.Attempts++
	rec.Score = max(rec.Score, score)
	rec.LastAttempt = now
	rec.Stars = max(rec.Stars, StarsFor(rec.Score))

	var result LessonResult
	if !rec.Completed && score >= PassingScore {
		rec.Completed = true
		result.FirstCompletion = true

		if next, ok := level.Next(); ok {
			j := FindLesson(records, themeID, next)
			if j < 0 {
				records = append(records, LessonRecord{ThemeID: themeID, Level: next})
				j = len(records) - 1
				rec = &records[i]
			}
			records[j].Unlocked = true
			unlocked := records[j]
			result.Unlocked = &unlocked
		}
	}

	result.Record = *rec
	return records, result, nil
}
