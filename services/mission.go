package services

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"lingo-progress-system/models"
	"lingo-progress-system/progression"

	"gorm.io/gorm"
)

// lockedRand makes a RandSource safe for concurrent requests.
type lockedRand struct {
	mu  sync.Mutex
	src progression.RandSource
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

type MissionService struct {
	DB          *gorm.DB
	Now         func() time.Time
	Progression *ProgressionService
	rng         progression.RandSource
}

// NewMissionService uses rng to draw templates; nil seeds a private source.
func NewMissionService(db *gorm.DB, prog *ProgressionService, rng progression.RandSource) *MissionService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MissionService{DB: db, Now: time.Now, Progression: prog, rng: &lockedRand{src: rng}}
}

// currentSetTx loads the user's set, regenerating it when missing or from an earlier day.
func (s *MissionService) currentSetTx(tx *gorm.DB, externalUserID string, force bool) (*models.DailyMissionSet, error) {
	now := s.Now()

	var set models.DailyMissionSet
	err := tx.Where("external_user_id = ?", externalUserID).First(&set).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		set = models.DailyMissionSet{ExternalUserID: externalUserID}
		set.SetState(progression.GenerateMissions(s.rng, now))
		if err := tx.Create(&set).Error; err != nil {
			return nil, err
		}
		return &set, nil
	case err != nil:
		return nil, err
	}

	if force || set.State().NeedsReset(now) {
		set.SetState(progression.GenerateMissions(s.rng, now))
		if err := tx.Save(&set).Error; err != nil {
			return nil, err
		}
	}
	return &set, nil
}

// GetDaily returns today's missions, generating them on first access of the day.
func (s *MissionService) GetDaily(externalUserID string) (*models.DailyMissionSet, error) {
	var out *models.DailyMissionSet
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		set, err := s.currentSetTx(tx, externalUserID, false)
		out = set
		return err
	})
	return out, err
}

// Refresh discards today's set and draws a new one.
func (s *MissionService) Refresh(externalUserID string) (*models.DailyMissionSet, error) {
	var out *models.DailyMissionSet
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		set, err := s.currentSetTx(tx, externalUserID, true)
		out = set
		return err
	})
	return out, err
}

// UpdateProgress advances every uncompleted mission of type t.
func (s *MissionService) UpdateProgress(externalUserID string, t progression.MissionType, amount int) (*models.DailyMissionSet, bool, error) {
	var (
		out     *models.DailyMissionSet
		updated bool
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		set, err := s.currentSetTx(tx, externalUserID, false)
		if err != nil {
			return err
		}
		state := set.State()
		updated = state.UpdateProgress(t, amount)
		out = set
		if !updated {
			return nil
		}
		set.SetState(state)
		return tx.Save(set).Error
	})
	return out, updated, err
}

// Track is UpdateProgress for secondary effects: failures are logged, never returned.
func (s *MissionService) Track(externalUserID string, steps map[progression.MissionType]int) {
	for t, n := range steps {
		if n <= 0 {
			continue
		}
		if _, _, err := s.UpdateProgress(externalUserID, t, n); err != nil {
			log.Printf("⚠️ mission progress %s (%s +%d) failed: %v", externalUserID, t, n, err)
		}
	}
}

type ClaimResult struct {
	Reward   progression.Reward `json:"reward"`
	NewCoins int                `json:"new_coins"`
	XP       XPAward            `json:"xp"`
}

// Claim marks a mission claimed and pays its reward exactly once.
func (s *MissionService) Claim(externalUserID, missionID string) (*ClaimResult, error) {
	var out ClaimResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		set, err := s.currentSetTx(tx, externalUserID, false)
		if err != nil {
			return err
		}
		state := set.State()
		reward, err := state.Claim(missionID)
		if err != nil {
			return err
		}
		set.SetState(state)
		if err := tx.Save(set).Error; err != nil {
			return err
		}

		res, err := s.Progression.RecordActivity(tx, externalUserID, Activity{
			Reason: "mission_" + missionID,
			BaseXP: reward.XP,
			Coins:  reward.Coins,
		})
		if err != nil {
			return err
		}
		out = ClaimResult{Reward: reward, NewCoins: res.Profile.Coins, XP: res.XP}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetStale regenerates every set generated before today. Run daily at midnight.
func (s *MissionService) ResetStale() (int, error) {
	now := s.Now()
	today := progression.StartOfDay(now)

	var sets []models.DailyMissionSet
	if err := s.DB.Where("last_reset < ?", today).Find(&sets).Error; err != nil {
		return 0, err
	}

	reset := 0
	for i := range sets {
		sets[i].SetState(progression.GenerateMissions(s.rng, now))
		if err := s.DB.Save(&sets[i]).Error; err != nil {
			log.Printf("[Scheduler] ⚠️ mission reset failed for %s: %v", sets[i].ExternalUserID, err)
			continue
		}
		reset++
	}
	return reset, nil
}
