package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship is one request between two users. Once accepted it is mutual,
// so a pair has at most one row whichever side asked first.
type Friendship struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	RequesterID string     `gorm:"not null;uniqueIndex:idx_friendship,priority:1;index" json:"requester_id"`
	AddresseeID string     `gorm:"not null;uniqueIndex:idx_friendship,priority:2;index" json:"addressee_id"`
	Status      string     `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// Other returns the side of the friendship that is not userID.
func (f *Friendship) Other(userID string) string {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}
