package models

import (
	"lingo-progress-system/progression"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GameStat keeps the full play history of one game for one user.
type GameStat struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"not null;uniqueIndex:idx_game_user_game,priority:1" json:"-"`
	GameID         string `gorm:"not null;uniqueIndex:idx_game_user_game,priority:2" json:"game_id"`

	Scores       datatypes.JSONSlice[progression.ScoreEntry] `json:"scores"`
	BestScore    int                                         `json:"best_score" gorm:"not null;default:0"`
	TotalPlays   int                                         `json:"total_plays" gorm:"not null;default:0"`
	AverageScore int                                         `json:"average_score" gorm:"not null;default:0"`

	Timestamps
}

func (g *GameStat) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

func (g *GameStat) State() progression.GameState {
	return progression.GameState{
		Scores:       g.Scores,
		BestScore:    g.BestScore,
		TotalPlays:   g.TotalPlays,
		AverageScore: g.AverageScore,
	}
}

func (g *GameStat) SetState(s progression.GameState) {
	g.Scores = s.Scores
	g.BestScore, g.TotalPlays, g.AverageScore = s.BestScore, s.TotalPlays, s.AverageScore
}
