package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyStat aggregates one user's activity for one calendar day.
type DailyStat struct {
	ID               string `gorm:"primaryKey;type:uuid" json:"-"`
	ExternalUserID   string `gorm:"not null;uniqueIndex:idx_daily_stat_user_date,priority:1" json:"-"`
	Date             string `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_stat_user_date,priority:2" json:"date"` // YYYY-MM-DD
	XPEarned         int    `gorm:"not null;default:0" json:"xp_earned"`
	LessonsCompleted int    `gorm:"not null;default:0" json:"lessons_completed"`
	GamesPlayed      int    `gorm:"not null;default:0" json:"games_played"`
	TimeSpent        int    `gorm:"not null;default:0" json:"time_spent"`
	WordsLearned     int    `gorm:"not null;default:0" json:"words_learned"`
}

func (d *DailyStat) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
