package models

import (
	"time"

	"lingo-progress-system/progression"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProfile is the single progression row per learner (denormalized counters included)
type UserProfile struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // gateway identity

	// Display data, mirrored by the profile sync worker
	Name             string     `json:"name"`
	Avatar           string     `json:"avatar"`
	ProfileUpdatedAt *time.Time `json:"-" gorm:"index"`

	// XP ledger
	XP            int        `json:"xp" gorm:"not null;default:0;index"`
	Level         int        `json:"level" gorm:"not null;default:1"`
	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`

	// Weekly league
	LeagueXP   int                `json:"league_xp" gorm:"not null;default:0;index"`
	League     progression.League `json:"league" gorm:"type:varchar(16);not null;default:'bronze';index"`
	LeagueRank int                `json:"league_rank" gorm:"not null;default:0"`

	// Streak
	StreakDays       int        `json:"streak_days" gorm:"not null;default:0"`
	LastStreakDate   *time.Time `json:"last_streak_date,omitempty"`
	FreezesAvailable int        `json:"freezes_available" gorm:"not null;default:0"`

	Coins int `json:"coins" gorm:"not null;default:0"`

	// Overall stats
	GamesPlayed        int `json:"games_played" gorm:"not null;default:0"`
	LessonsCompleted   int `json:"lessons_completed" gorm:"not null;default:0"`
	TotalScore         int `json:"total_score" gorm:"not null;default:0"`
	TotalTimeSpent     int `json:"total_time_spent" gorm:"not null;default:0"`
	WordsLearned       int `json:"words_learned" gorm:"not null;default:0"`
	VocabularyMastered int `json:"vocabulary_mastered" gorm:"not null;default:0"`
	PerfectScores      int `json:"perfect_scores" gorm:"not null;default:0"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.League == "" {
		p.League = progression.LeagueBronze
	}
	if p.Level == 0 {
		p.Level = 1
	}
	return nil
}

func (p *UserProfile) XPState() progression.XPState {
	return progression.XPState{XP: p.XP, Level: p.Level, LeagueXP: p.LeagueXP}
}

func (p *UserProfile) SetXPState(s progression.XPState) {
	p.XP, p.Level, p.LeagueXP = s.XP, s.Level, s.LeagueXP
}

func (p *UserProfile) StreakState() progression.StreakState {
	return progression.StreakState{
		StreakDays:       p.StreakDays,
		LastStreakDate:   p.LastStreakDate,
		FreezesAvailable: p.FreezesAvailable,
	}
}

func (p *UserProfile) SetStreakState(s progression.StreakState) {
	p.StreakDays, p.LastStreakDate, p.FreezesAvailable = s.StreakDays, s.LastStreakDate, s.FreezesAvailable
}

// AchievementStats is the counter snapshot threshold achievements are judged on.
func (p *UserProfile) AchievementStats() progression.AchievementStats {
	return progression.AchievementStats{
		GamesPlayed:        p.GamesPlayed,
		LessonsCompleted:   p.LessonsCompleted,
		PerfectScores:      p.PerfectScores,
		Level:              p.Level,
		StreakDays:         p.StreakDays,
		WordsLearned:       p.WordsLearned,
		VocabularyMastered: p.VocabularyMastered,
	}
}
