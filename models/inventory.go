package models

import (
	"lingo-progress-system/progression"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Inventory struct {
	ID             string                                         `gorm:"primaryKey;type:uuid" json:"-"`
	ExternalUserID string                                         `gorm:"uniqueIndex;not null" json:"-"`
	Items          datatypes.JSONSlice[progression.InventoryItem] `json:"items"`
	ActiveBoosts   datatypes.JSONSlice[progression.Boost]         `json:"active_boosts"`

	Timestamps
}

func (i *Inventory) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (i *Inventory) State() progression.InventoryState {
	return progression.InventoryState{Items: i.Items, ActiveBoosts: i.ActiveBoosts}
}

func (i *Inventory) SetState(s progression.InventoryState) {
	i.Items = s.Items
	i.ActiveBoosts = s.ActiveBoosts
}
