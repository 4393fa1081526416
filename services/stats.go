package services

import (
	"time"

	"lingo-progress-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dayLayout = "2006-01-02"

// bumpDailyStat adds delta to the user's row for now's calendar day.
func bumpDailyStat(tx *gorm.DB, externalUserID string, now time.Time, delta models.DailyStat) error {
	row := models.DailyStat{
		ExternalUserID:   externalUserID,
		Date:             now.Format(dayLayout),
		XPEarned:         delta.XPEarned,
		LessonsCompleted: delta.LessonsCompleted,
		GamesPlayed:      delta.GamesPlayed,
		TimeSpent:        delta.TimeSpent,
		WordsLearned:     delta.WordsLearned,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"xp_earned":         gorm.Expr("daily_stats.xp_earned + ?", row.XPEarned),
			"lessons_completed": gorm.Expr("daily_stats.lessons_completed + ?", row.LessonsCompleted),
			"games_played":      gorm.Expr("daily_stats.games_played + ?", row.GamesPlayed),
			"time_spent":        gorm.Expr("daily_stats.time_spent + ?", row.TimeSpent),
			"words_learned":     gorm.Expr("daily_stats.words_learned + ?", row.WordsLearned),
		}),
	}).Create(&row).Error
}

type StatsService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db, Now: time.Now}
}

// Daily returns the last `days` calendar days of activity, newest first.
// Days without activity are omitted.
func (s *StatsService) Daily(externalUserID string, days int) ([]models.DailyStat, error) {
	if days <= 0 || days > 365 {
		days = 7
	}
	since := s.Now().AddDate(0, 0, -(days - 1)).Format(dayLayout)

	var rows []models.DailyStat
	err := s.DB.Where("external_user_id = ? AND date >= ?", externalUserID, since).
		Order("date desc").
		Find(&rows).Error
	return rows, err
}

type OverallStats struct {
	GamesPlayed        int     `json:"games_played"`
	LessonsCompleted   int     `json:"lessons_completed"`
	TotalScore         int     `json:"total_score"`
	AverageScore       float64 `json:"average_score"`
	TotalTimeSpent     int     `json:"total_time_spent"`
	WordsLearned       int     `json:"words_learned"`
	VocabularyMastered int     `json:"vocabulary_mastered"`
	StreakDays         int     `json:"streak_days"`
	Level              int     `json:"level"`
	XP                 int     `json:"xp"`
	Achievements       int64   `json:"achievements"`
}

func (s *StatsService) Overall(externalUserID string) (*OverallStats, error) {
	prof, err := ensureProfileTx(s.DB, externalUserID)
	if err != nil {
		return nil, err
	}

	out := &OverallStats{
		GamesPlayed:        prof.GamesPlayed,
		LessonsCompleted:   prof.LessonsCompleted,
		TotalScore:         prof.TotalScore,
		TotalTimeSpent:     prof.TotalTimeSpent,
		WordsLearned:       prof.WordsLearned,
		VocabularyMastered: prof.VocabularyMastered,
		StreakDays:         prof.StreakDays,
		Level:              prof.Level,
		XP:                 prof.XP,
	}
	if prof.GamesPlayed > 0 {
		out.AverageScore = float64(prof.TotalScore) / float64(prof.GamesPlayed)
	}
	err = s.DB.Model(&models.UserAchievement{}).Where("external_user_id = ?", externalUserID).Count(&out.Achievements).Error
	return out, err
}
