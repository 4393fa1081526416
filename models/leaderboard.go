package models

import (
	"time"

	"lingo-progress-system/progression"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LeaderboardSnapshot is a materialized ranking, replaced whole on every rebuild.
type LeaderboardSnapshot struct {
	ID       string                                       `gorm:"primaryKey;type:uuid" json:"-"`
	Type     progression.LeaderboardType                  `gorm:"type:varchar(16);not null;uniqueIndex:idx_leaderboard_type_period,priority:1" json:"type"`
	Period   string                                       `gorm:"not null;uniqueIndex:idx_leaderboard_type_period,priority:2" json:"period"`
	Rankings datatypes.JSONSlice[progression.RankedEntry] `json:"rankings"`
	BuiltAt  time.Time                                    `gorm:"not null" json:"built_at"`
}

func (s *LeaderboardSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
