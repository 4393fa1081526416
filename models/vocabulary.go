package models

import (
	"lingo-progress-system/progression"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VocabularyCard is created on a word's first review and never deleted.
type VocabularyCard struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"not null;uniqueIndex:idx_vocab_user_word,priority:1" json:"-"`
	Word           string `gorm:"not null;uniqueIndex:idx_vocab_user_word,priority:2" json:"word"`

	progression.CardState

	Timestamps
}

func (c *VocabularyCard) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
