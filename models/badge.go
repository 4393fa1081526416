package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserAchievement is an awarded achievement; the definitions are static.
type UserAchievement struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"-"`
	ExternalUserID string    `gorm:"not null;uniqueIndex:idx_user_achievement,priority:1" json:"-"`
	AchievementID  string    `gorm:"not null;uniqueIndex:idx_user_achievement,priority:2" json:"achievement_id"`
	XPAwarded      int       `json:"xp_awarded"`
	Auto           bool      `json:"auto"` // threshold award rather than a client unlock
	UnlockedAt     time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

func (a *UserAchievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
