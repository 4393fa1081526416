package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lingo-progress-system/models"
	"lingo-progress-system/progression"

	"gorm.io/gorm"
)

// GameService records mini-game plays.
type GameService struct {
	DB           *gorm.DB
	Now          func() time.Time
	Progression  *ProgressionService
	Missions     *MissionService
	Achievements *AchievementService
}

func NewGameService(db *gorm.DB, prog *ProgressionService, missions *MissionService, achievements *AchievementService) *GameService {
	return &GameService{DB: db, Now: time.Now, Progression: prog, Missions: missions, Achievements: achievements}
}

type GameResult struct {
	Stat     *models.GameStat `json:"game_stats"`
	Activity *ActivityResult  `json:"progress"`
}

// Record appends a play to the game's history and credits XP, coins-free.
func (s *GameService) Record(externalUserID, gameID string, score, timeSpent int) (*GameResult, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, fmt.Errorf("game id is required: %w", progression.ErrInvalidState)
	}
	if err := progression.ValidateScore(score); err != nil {
		return nil, err
	}
	if timeSpent < 0 {
		return nil, fmt.Errorf("time spent %d: %w", timeSpent, progression.ErrOutOfRange)
	}

	var out GameResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var stat models.GameStat
		err := tx.Where("external_user_id = ? AND game_id = ?", externalUserID, gameID).First(&stat).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stat = models.GameStat{ExternalUserID: externalUserID, GameID: gameID}
		}

		stat.SetState(stat.State().Record(score, timeSpent, s.Now()))
		if err := tx.Save(&stat).Error; err != nil {
			return err
		}

		res, err := s.Progression.RecordActivity(tx, externalUserID, Activity{
			Reason:  "game_" + gameID,
			BaseXP:  progression.GameXP(score),
			Boosted: true,
			CheckIn: true,
			Counters: func(p *models.UserProfile) {
				p.GamesPlayed++
				p.TotalScore += score
				p.TotalTimeSpent += timeSpent
				if score >= progression.MaxScore {
					p.PerfectScores++
				}
			},
			Daily: models.DailyStat{GamesPlayed: 1, TimeSpent: timeSpent},
		})
		if err != nil {
			return err
		}

		out = GameResult{Stat: &stat, Activity: res}
		return nil
	})
	if err != nil {
		return nil, err
	}

	followUp(s.Missions, s.Achievements, externalUserID, out.Activity, map[progression.MissionType]int{
		progression.MissionGames: 1,
	})
	return &out, nil
}

// followUp runs the secondary effects of a committed activity: mission
// progress, streak missions and threshold achievements. Nothing here can fail
// the primary action.
func followUp(missions *MissionService, achievements *AchievementService, externalUserID string, res *ActivityResult, steps map[progression.MissionType]int) {
	if missions != nil {
		if steps == nil {
			steps = map[progression.MissionType]int{}
		}
		steps[progression.MissionXP] += res.XP.Awarded
		missions.Track(externalUserID, steps)
		trackStreak(missions, externalUserID, res.Streak)
	}
	if achievements != nil {
		achievements.AutoAward(externalUserID)
	}
}
