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

type VocabularyService struct {
	DB           *gorm.DB
	Now          func() time.Time
	Progression  *ProgressionService
	Missions     *MissionService
	Achievements *AchievementService
}

func NewVocabularyService(db *gorm.DB, prog *ProgressionService, missions *MissionService, achievements *AchievementService) *VocabularyService {
	return &VocabularyService{DB: db, Now: time.Now, Progression: prog, Missions: missions, Achievements: achievements}
}

type ReviewResult struct {
	Card     *models.VocabularyCard `json:"card"`
	Activity *ActivityResult        `json:"progress"`
}

// Review applies one answer to the user's card for word, creating the card on
// the first review.
func (s *VocabularyService) Review(externalUserID, word string, correct bool) (*ReviewResult, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, fmt.Errorf("word is required: %w", progression.ErrInvalidState)
	}

	var out ReviewResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var card models.VocabularyCard
		err := tx.Where("external_user_id = ? AND word = ?", externalUserID, word).First(&card).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			card = models.VocabularyCard{ExternalUserID: externalUserID, Word: word, CardState: progression.NewCardState()}
		}

		wasMastered := card.Mastered()
		card.CardState = card.Review(correct, s.Now())
		if err := tx.Save(&card).Error; err != nil {
			return err
		}

		act := Activity{
			Reason:  "vocabulary_review",
			BaseXP:  progression.ReviewXP(correct),
			Boosted: true,
			CheckIn: true,
		}
		if correct {
			act.Daily.WordsLearned = 1
		}
		act.Counters = func(p *models.UserProfile) {
			if correct {
				p.WordsLearned++
			}
			if !wasMastered && card.Mastered() {
				p.VocabularyMastered++
			}
		}

		out.Card = &card
		out.Activity, err = s.Progression.RecordActivity(tx, externalUserID, act)
		return err
	})
	if err != nil {
		return nil, err
	}

	followUp(s.Missions, s.Achievements, externalUserID, out.Activity, map[progression.MissionType]int{
		progression.MissionVocabulary: 1,
	})
	return &out, nil
}

// DueForReview returns the cards whose next review is at or before now, in storage order.
func (s *VocabularyService) DueForReview(externalUserID string) ([]models.VocabularyCard, error) {
	var cards []models.VocabularyCard
	err := s.DB.Where("external_user_id = ? AND next_review <= ?", externalUserID, s.Now()).
		Order("created_at, id").
		Find(&cards).Error
	return cards, err
}
