package services

import (
	"errors"
	"fmt"
	"log"

	"lingo-progress-system/models"
	"lingo-progress-system/progression"

	"gorm.io/gorm"
)

type AchievementService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewAchievementService(db *gorm.DB, prog *ProgressionService) *AchievementService {
	return &AchievementService{DB: db, Progression: prog}
}

type UnlockResult struct {
	AchievementID string                   `json:"achievement_id"`
	NewlyUnlocked bool                     `json:"newly_unlocked"`
	XPEarned      int                      `json:"xp_earned"`
	Achievements  []models.UserAchievement `json:"achievements"`
}

// Unlock records a client-reported achievement and pays AchievementXP the first time.
func (s *AchievementService) Unlock(externalUserID, achievementID string) (*UnlockResult, error) {
	if achievementID == "" {
		return nil, fmt.Errorf("achievement id is required: %w", progression.ErrInvalidState)
	}
	if _, ok := progression.FindAchievement(achievementID); !ok {
		return nil, fmt.Errorf("achievement %s: %w", achievementID, progression.ErrNotFound)
	}

	out := &UnlockResult{AchievementID: achievementID}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		created, err := s.awardTx(tx, externalUserID, achievementID, false)
		if err != nil || !created {
			return err
		}
		out.NewlyUnlocked = true
		out.XPEarned = progression.AchievementXP
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.NewlyUnlocked {
		log.Printf("🎖️ Achievement unlocked: %s → %s", achievementID, externalUserID)
		s.AutoAward(externalUserID)
	}
	out.Achievements, err = s.List(externalUserID)
	return out, err
}

func (s *AchievementService) List(externalUserID string) ([]models.UserAchievement, error) {
	var rows []models.UserAchievement
	err := s.DB.Where("external_user_id = ?", externalUserID).Order("unlocked_at, achievement_id").Find(&rows).Error
	return rows, err
}

// AutoAward checks threshold achievements after a progress update. Errors are
// logged so the triggering action never fails because of it.
func (s *AchievementService) AutoAward(externalUserID string) {
	// Each award pays XP, which can cross another threshold (level_10).
	for i := 0; i < 3; i++ {
		n, err := s.autoAwardOnce(externalUserID)
		if err != nil {
			log.Printf("⚠️ achievement check failed for %s: %v", externalUserID, err)
			return
		}
		if n == 0 {
			return
		}
	}
}

func (s *AchievementService) autoAwardOnce(externalUserID string) (int, error) {
	prof, err := s.Progression.GetProfile(externalUserID)
	if err != nil {
		return 0, err
	}
	owned, err := s.ownedSet(externalUserID)
	if err != nil {
		return 0, err
	}

	awarded := 0
	for _, a := range progression.EarnedAchievements(prof.AchievementStats(), owned) {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			created, err := s.awardTx(tx, externalUserID, a.ID, true)
			if created {
				awarded++
			}
			return err
		})
		if err != nil {
			return awarded, err
		}
		log.Printf("🎖️ Achievement awarded: %s → %s", a.Name, externalUserID)
	}
	return awarded, nil
}

func (s *AchievementService) ownedSet(externalUserID string) (map[string]bool, error) {
	var ids []string
	if err := s.DB.Model(&models.UserAchievement{}).
		Where("external_user_id = ?", externalUserID).
		Pluck("achievement_id", &ids).Error; err != nil {
		return nil, err
	}
	owned := make(map[string]bool, len(ids))
	for _, id := range ids {
		owned[id] = true
	}
	return owned, nil
}

// awardTx inserts the achievement once and credits its XP. created is false
// when the user already had it.
func (s *AchievementService) awardTx(tx *gorm.DB, externalUserID, achievementID string, auto bool) (bool, error) {
	var existing models.UserAchievement
	err := tx.Where("external_user_id = ? AND achievement_id = ?", externalUserID, achievementID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	row := models.UserAchievement{
		ExternalUserID: externalUserID,
		AchievementID:  achievementID,
		XPAwarded:      progression.AchievementXP,
		Auto:           auto,
	}
	if err := tx.Create(&row).Error; err != nil {
		return false, err
	}
	_, err = s.Progression.RecordActivity(tx, externalUserID, Activity{
		Reason: "achievement_" + achievementID,
		BaseXP: progression.AchievementXP,
	})
	return err == nil, err
}
