package models

import (
	"lingo-progress-system/progression"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LessonRecord is one (theme, CEFR level) lesson for one user.
type LessonRecord struct {
	ID             string            `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string            `gorm:"not null;uniqueIndex:idx_lesson_user_theme_level,priority:1" json:"-"`
	ThemeID        string            `gorm:"not null;uniqueIndex:idx_lesson_user_theme_level,priority:2" json:"theme_id"`
	Level          progression.Level `gorm:"type:varchar(2);not null;uniqueIndex:idx_lesson_user_theme_level,priority:3" json:"level"`

	progression.LessonState

	Timestamps
}

func (l *LessonRecord) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (l LessonRecord) Record() progression.LessonRecord {
	return progression.LessonRecord{ThemeID: l.ThemeID, Level: l.Level, LessonState: l.LessonState}
}

// Theme is a static lesson catalog entry.
type Theme struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

var LessonThemes = []Theme{
	{ID: "travel", Title: "Travel & Tourism", Description: "Airports, hotels and directions", Icon: "✈️"},
	{ID: "business", Title: "Business English", Description: "Meetings, email and the office", Icon: "💼"},
	{ID: "daily", Title: "Daily Conversation", Description: "Routines, home and small talk", Icon: "💬"},
}

func FindTheme(id string) (Theme, bool) {
	for _, t := range LessonThemes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}
