package services

import (
	"errors"
	"fmt"
	"time"

	"lingo-progress-system/models"
	"lingo-progress-system/progression"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ErrLessonLocked is returned when a lesson's previous level is not completed yet.
var ErrLessonLocked = errors.New("lesson locked")

type LessonService struct {
	DB           *gorm.DB
	Now          func() time.Time
	Progression  *ProgressionService
	Missions     *MissionService
	Achievements *AchievementService
}

func NewLessonService(db *gorm.DB, prog *ProgressionService, missions *MissionService, achievements *AchievementService) *LessonService {
	return &LessonService{DB: db, Now: time.Now, Progression: prog, Missions: missions, Achievements: achievements}
}

// NormalizeTheme lowercases and slugifies a theme id ("Travel " → "travel").
func NormalizeTheme(themeID string) (string, error) {
	id := slug.Make(themeID)
	if id == "" {
		return "", fmt.Errorf("theme id %q: %w", themeID, progression.ErrInvalidState)
	}
	return id, nil
}

func (s *LessonService) recordsTx(tx *gorm.DB, externalUserID, themeID string) ([]models.LessonRecord, error) {
	q := tx.Where("external_user_id = ?", externalUserID)
	if themeID != "" {
		q = q.Where("theme_id = ?", themeID)
	}
	var rows []models.LessonRecord
	err := q.Find(&rows).Error
	return rows, err
}

func toRecords(rows []models.LessonRecord) []progression.LessonRecord {
	out := make([]progression.LessonRecord, len(rows))
	for i, r := range rows {
		out[i] = r.Record()
	}
	return out
}

type LevelView struct {
	Level     progression.Level `json:"level"`
	LevelName string            `json:"level_name"`
	progression.LessonState
}

type ThemeView struct {
	models.Theme
	Levels []LevelView `json:"levels"`
}

// Catalog lists every theme with per-level state for the user.
func (s *LessonService) Catalog(externalUserID string) ([]ThemeView, error) {
	rows, err := s.recordsTx(s.DB, externalUserID, "")
	if err != nil {
		return nil, err
	}
	recs := toRecords(rows)

	out := make([]ThemeView, 0, len(models.LessonThemes))
	for _, theme := range models.LessonThemes {
		tv := ThemeView{Theme: theme, Levels: make([]LevelView, 0, len(progression.Levels))}
		for _, lvl := range progression.Levels {
			lv := LevelView{Level: lvl, LevelName: lvl.Name()}
			if i := progression.FindLesson(recs, theme.ID, lvl); i >= 0 {
				lv.LessonState = recs[i].LessonState
			}
			lv.Unlocked = progression.IsUnlocked(recs, theme.ID, lvl)
			tv.Levels = append(tv.Levels, lv)
		}
		out = append(out, tv)
	}
	return out, nil
}

// Get returns the user's view of one lesson, failing with ErrLessonLocked when locked.
func (s *LessonService) Get(externalUserID, themeID string, level progression.Level) (*LevelView, error) {
	themeID, err := NormalizeTheme(themeID)
	if err != nil {
		return nil, err
	}
	rows, err := s.recordsTx(s.DB, externalUserID, themeID)
	if err != nil {
		return nil, err
	}
	recs := toRecords(rows)
	if !progression.IsUnlocked(recs, themeID, level) {
		return nil, fmt.Errorf("%s/%s: %w", themeID, level, ErrLessonLocked)
	}

	lv := LevelView{Level: level, LevelName: level.Name()}
	if i := progression.FindLesson(recs, themeID, level); i >= 0 {
		lv.LessonState = recs[i].LessonState
	}
	lv.Unlocked = true
	return &lv, nil
}

// Start lazily creates the lesson record once the lesson is unlocked.
func (s *LessonService) Start(externalUserID, themeID string, level progression.Level) (*models.LessonRecord, error) {
	themeID, err := NormalizeTheme(themeID)
	if err != nil {
		return nil, err
	}

	var out models.LessonRecord
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		rows, err := s.recordsTx(tx, externalUserID, themeID)
		if err != nil {
			return err
		}
		recs := toRecords(rows)
		if !progression.IsUnlocked(recs, themeID, level) {
			return fmt.Errorf("%s/%s: %w", themeID, level, ErrLessonLocked)
		}
		if i := progression.FindLesson(recs, themeID, level); i >= 0 {
			out = rows[i]
			return nil
		}
		_, rec := progression.StartLesson(recs, themeID, level)
		out = models.LessonRecord{ExternalUserID: externalUserID, ThemeID: themeID, Level: level, LessonState: rec.LessonState}
		return tx.Create(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type LessonResult struct {
	Lesson          models.LessonRecord  `json:"lesson"`
	FirstCompletion bool                 `json:"first_completion"`
	Unlocked        *models.LessonRecord `json:"unlocked,omitempty"`
	Activity        *ActivityResult      `json:"progress"`
}

// Complete grades an attempt. Locked lessons are rejected before grading.
func (s *LessonService) Complete(externalUserID, themeID string, level progression.Level, score int) (*LessonResult, error) {
	themeID, err := NormalizeTheme(themeID)
	if err != nil {
		return nil, err
	}
	if err := progression.ValidateScore(score); err != nil {
		return nil, err
	}

	var out LessonResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		rows, err := s.recordsTx(tx, externalUserID, themeID)
		if err != nil {
			return err
		}
		recs := toRecords(rows)
		if !progression.IsUnlocked(recs, themeID, level) {
			return fmt.Errorf("%s/%s: %w", themeID, level, ErrLessonLocked)
		}

		_, graded, err := progression.CompleteLesson(recs, themeID, level, score, s.Now())
		if err != nil {
			return err
		}

		lesson, err := s.saveRecordTx(tx, rows, externalUserID, graded.Record)
		if err != nil {
			return err
		}
		out.Lesson = *lesson
		out.FirstCompletion = graded.FirstCompletion
		if graded.Unlocked != nil {
			next, err := s.saveRecordTx(tx, rows, externalUserID, *graded.Unlocked)
			if err != nil {
				return err
			}
			out.Unlocked = next
		}

		act := Activity{
			Reason:  fmt.Sprintf("lesson_%s_%s", themeID, level),
			BaseXP:  progression.LessonXP(score),
			Boosted: true,
			CheckIn: true,
			Daily:   models.DailyStat{},
		}
		if graded.FirstCompletion {
			act.Coins = progression.LessonCoins(graded.Record.Stars)
			act.Counters = func(p *models.UserProfile) { p.LessonsCompleted++ }
			act.Daily.LessonsCompleted = 1
		}
		out.Activity, err = s.Progression.RecordActivity(tx, externalUserID, act)
		return err
	})
	if err != nil {
		return nil, err
	}

	steps := map[progression.MissionType]int{}
	if score >= progression.PassingScore {
		steps[progression.MissionLessons] = 1
	}
	followUp(s.Missions, s.Achievements, externalUserID, out.Activity, steps)
	return &out, nil
}

// saveRecordTx writes rec over the matching row in rows, or inserts it.
func (s *LessonService) saveRecordTx(tx *gorm.DB, rows []models.LessonRecord, externalUserID string, rec progression.LessonRecord) (*models.LessonRecord, error) {
	for i := range rows {
		if rows[i].ThemeID == rec.ThemeID && rows[i].Level == rec.Level {
			rows[i].LessonState = rec.LessonState
			if err := tx.Save(&rows[i]).Error; err != nil {
				return nil, err
			}
			return &rows[i], nil
		}
	}
	row := models.LessonRecord{ExternalUserID: externalUserID, ThemeID: rec.ThemeID, Level: rec.Level, LessonState: rec.LessonState}
	if err := tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
