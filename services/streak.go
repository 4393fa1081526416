package services

import (
	"time"

	"lingo-progress-system/progression"

	"gorm.io/gorm"
)

type StreakService struct {
	DB       *gorm.DB
	Now      func() time.Time
	Missions *MissionService
}

func NewStreakService(db *gorm.DB, missions *MissionService) *StreakService {
	return &StreakService{DB: db, Now: time.Now, Missions: missions}
}

type StreakResult struct {
	StreakDays       int                       `json:"streak_days"`
	FreezesAvailable int                       `json:"freezes_available"`
	LastStreakDate   *time.Time                `json:"last_streak_date"`
	Outcome          progression.StreakOutcome `json:"outcome"`
}

// CheckIn records a daily login as a qualifying streak activity.
func (s *StreakService) CheckIn(externalUserID string) (*StreakResult, error) {
	var out StreakResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		prof, err := ensureProfileTx(tx, externalUserID)
		if err != nil {
			return err
		}
		st, outcome := prof.StreakState().Update(s.Now())
		if outcome.Changed {
			prof.SetStreakState(st)
			if err := tx.Save(prof).Error; err != nil {
				return err
			}
		}
		out = StreakResult{
			StreakDays:       prof.StreakDays,
			FreezesAvailable: prof.FreezesAvailable,
			LastStreakDate:   prof.LastStreakDate,
			Outcome:          outcome,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	trackStreak(s.Missions, externalUserID, out.Outcome)
	return &out, nil
}

// trackStreak counts the first check-in of a day toward streak missions.
func trackStreak(missions *MissionService, externalUserID string, out progression.StreakOutcome) {
	if missions == nil || !out.Changed {
		return
	}
	missions.Track(externalUserID, map[progression.MissionType]int{progression.MissionStreak: 1})
}
