package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"lingo-progress-system/models"
	"lingo-progress-system/progression"

	"gorm.io/gorm"
)

// ProgressionService owns the profile row: XP ledger, coins, counters and streak.
type ProgressionService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db, Now: time.Now}
}

// XPAward is the outcome of one ledger credit.
type XPAward struct {
	Base       int     `json:"base_xp"`
	Multiplier float64 `json:"multiplier"`
	Awarded    int     `json:"xp_earned"`
	progression.LevelResult
}

// Activity describes everything a finished action credits to the profile.
type Activity struct {
	Reason  string
	BaseXP  int
	Boosted bool
	Coins   int
	// Counters mutates the overall stats on the profile.
	Counters func(p *models.UserProfile)
	// Daily is added to today's DailyStat row (XPEarned is filled in by the ledger).
	Daily models.DailyStat
	// CheckIn marks the action as a qualifying streak activity.
	CheckIn bool
}

type ActivityResult struct {
	Profile *models.UserProfile       `json:"profile"`
	XP      XPAward                   `json:"xp"`
	Coins   int                       `json:"coins_earned"`
	Streak  progression.StreakOutcome `json:"streak"`
}

// EnsureProfile ensures a UserProfile row exists (idempotent)
func (s *ProgressionService) EnsureProfile(externalUserID string) (*models.UserProfile, error) {
	return ensureProfileTx(s.DB, externalUserID)
}

func ensureProfileTx(tx *gorm.DB, externalUserID string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := tx.Where("external_user_id = ?", externalUserID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = models.UserProfile{ExternalUserID: externalUserID, Level: 1, League: progression.LeagueBronze}
		if err := tx.Create(&p).Error; err != nil {
			return nil, err
		}
		return &p, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProgressionService) GetProfile(externalUserID string) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&p).Error; err != nil {
		return nil, notFound(err, "profile %s", externalUserID)
	}
	return &p, nil
}

// RecordActivity applies an Activity inside tx. The caller owns the transaction
// so the primary record and the profile credit commit together.
func (s *ProgressionService) RecordActivity(tx *gorm.DB, externalUserID string, a Activity) (*ActivityResult, error) {
	now := s.Now()

	prof, err := ensureProfileTx(tx, externalUserID)
	if err != nil {
		return nil, err
	}

	award, err := s.creditXP(tx, prof, a.BaseXP, a.Boosted, now)
	if err != nil {
		return nil, err
	}

	prof.Coins += a.Coins
	if a.Counters != nil {
		a.Counters(prof)
	}

	var streak progression.StreakOutcome
	if a.CheckIn {
		st, out := prof.StreakState().Update(now)
		prof.SetStreakState(st)
		streak = out
	}

	if err := tx.Save(prof).Error; err != nil {
		return nil, err
	}

	daily := a.Daily
	daily.XPEarned = award.Awarded
	if err := bumpDailyStat(tx, externalUserID, now, daily); err != nil {
		return nil, err
	}

	log.Printf("🎮 %s: %s → +%d XP (x%.1f), Lvl=%d, coins=%d", a.Reason, externalUserID, award.Awarded, award.Multiplier, prof.Level, prof.Coins)
	return &ActivityResult{Profile: prof, XP: award, Coins: a.Coins, Streak: streak}, nil
}

// AwardXP credits XP outside any activity (mission and achievement rewards).
func (s *ProgressionService) AwardXP(externalUserID string, base int, boosted bool, reason string) (*XPAward, error) {
	var award XPAward
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res, err := s.RecordActivity(tx, externalUserID, Activity{Reason: reason, BaseXP: base, Boosted: boosted})
		if err != nil {
			return err
		}
		award = res.XP
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &award, nil
}

// creditXP runs the ledger on prof in memory and records the level-up time.
func (s *ProgressionService) creditXP(tx *gorm.DB, prof *models.UserProfile, base int, boosted bool, now time.Time) (XPAward, error) {
	if base < 0 {
		return XPAward{}, fmt.Errorf("xp amount %d: %w", base, progression.ErrOutOfRange)
	}

	mult := 1.0
	if boosted && base > 0 {
		m, err := activeMultiplierTx(tx, prof.ExternalUserID, now)
		if err != nil {
			return XPAward{}, err
		}
		mult = m
	}

	amount := progression.ApplyMultiplier(base, mult)
	st, lvl, err := prof.XPState().Add(amount)
	if err != nil {
		return XPAward{}, err
	}
	prof.SetXPState(st)
	if lvl.LevelUp {
		prof.LastLevelUpAt = &now
		log.Printf("⬆️ Level up: %s → %d", prof.ExternalUserID, lvl.NewLevel)
	}

	return XPAward{Base: base, Multiplier: mult, Awarded: amount, LevelResult: lvl}, nil
}

// FullProgress is the combined view behind GET /user/progress/full.
type FullProgress struct {
	Profile      *models.UserProfile      `json:"profile"`
	XP           progression.XPProgress   `json:"xp"`
	Lessons      []models.LessonRecord    `json:"lessons"`
	Games        []models.GameStat        `json:"games"`
	Vocabulary   int64                    `json:"vocabulary_count"`
	Achievements []models.UserAchievement `json:"achievements"`
}

func (s *ProgressionService) FullProgress(externalUserID string) (*FullProgress, error) {
	prof, err := s.EnsureProfile(externalUserID)
	if err != nil {
		return nil, err
	}

	out := &FullProgress{Profile: prof, XP: progression.ProgressFor(prof.XP)}
	if err := s.DB.Where("external_user_id = ?", externalUserID).Order("theme_id, level").Find(&out.Lessons).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("external_user_id = ?", externalUserID).Order("game_id").Find(&out.Games).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.VocabularyCard{}).Where("external_user_id = ?", externalUserID).Count(&out.Vocabulary).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("external_user_id = ?", externalUserID).Order("unlocked_at").Find(&out.Achievements).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// notFound maps gorm.ErrRecordNotFound onto the domain error and leaves other errors alone.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, progression.ErrNotFound)...)
	}
	return err
}
