package models

import (
	"time"

	"lingo-progress-system/progression"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DailyMissionSet holds today's three missions for a user.
type DailyMissionSet struct {
	ID             string                                   `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string                                   `gorm:"uniqueIndex;not null" json:"-"`
	Missions       datatypes.JSONSlice[progression.Mission] `json:"missions"`
	LastReset      time.Time                                `gorm:"index" json:"last_reset"`

	Timestamps
}

func (m *DailyMissionSet) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *DailyMissionSet) State() progression.MissionSet {
	return progression.MissionSet{Missions: m.Missions, LastReset: m.LastReset}
}

func (m *DailyMissionSet) SetState(s progression.MissionSet) {
	m.Missions = s.Missions
	m.LastReset = s.LastReset
}
