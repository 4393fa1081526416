package progression

import (
	"fmt"
	"slices"
	"time"
)

type ItemType string

const (
	ItemAvatar   ItemType = "avatar"
	ItemTheme    ItemType = "theme"
	ItemFreeze   ItemType = "freeze"
	ItemXPBoost  ItemType = "xp_boost"
	ItemHint     ItemType = "hint"
	ItemCosmetic ItemType = "cosmetic"
)

// Consumable items stack by quantity; the rest are owned once.
func (t ItemType) Consumable() bool {
	return t == ItemFreeze || t == ItemXPBoost || t == ItemHint
}

// Equippable items toggle Active within their type.
func (t ItemType) Equippable() bool {
	return t == ItemAvatar || t == ItemTheme || t == ItemCosmetic
}

// Default boost parameters when an item's metadata omits them.
const (
	DefaultBoostMultiplier = 2.0
	DefaultBoostDuration   = time.Hour
)

// ItemMetadata is the typed subset of shop metadata the engine reads.
type ItemMetadata struct {
	Multiplier float64 `json:"multiplier,omitempty"`
	Duration   int     `json:"duration,omitempty"` // seconds
	Uses       int     `json:"uses,omitempty"`
	Quantity   int     `json:"quantity,omitempty"`
	ImageURL   string  `json:"imageUrl,omitempty"`
	ThemeName  string  `json:"themeName,omitempty"`
}

type InventoryItem struct {
	ItemID      string       `json:"item_id"`
	ItemType    ItemType     `json:"item_type"`
	Quantity    int          `json:"quantity"`
	PurchasedAt time.Time    `json:"purchased_at"`
	Active      bool         `json:"active"`
	Metadata    ItemMetadata `json:"metadata"`
}

type Boost struct {
	ItemID      string    `json:"item_id"`
	Multiplier  float64   `json:"multiplier"`
	ActivatedAt time.Time `json:"activated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type InventoryState struct {
	Items        []InventoryItem `json:"items"`
	ActiveBoosts []Boost         `json:"active_boosts"`
}

// UseResult describes the effect of consuming one item.
type UseResult struct {
	Type       ItemType   `json:"type"`
	Multiplier float64    `json:"multiplier,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

func (s *InventoryState) find(itemID string) *InventoryItem {
	for i := range s.Items {
		if s.Items[i].ItemID == itemID {
			return &s.Items[i]
		}
	}
	return nil
}

// AddItem stacks consumables and ignores repeat purchases of owned cosmetics.
func (s *InventoryState) AddItem(itemID string, t ItemType, quantity int, meta ItemMetadata, now time.Time) InventoryItem {
	if it := s.find(itemID); it != nil {
		if t.Consumable() {
			it.Quantity += quantity
		}
		return *it
	}
	s.Items = append(s.Items, InventoryItem{
		ItemID:      itemID,
		ItemType:    t,
		Quantity:    quantity,
		PurchasedAt: now,
		Metadata:    meta,
	})
	return s.Items[len(s.Items)-1]
}

// UseItem consumes one unit. An xp_boost starts a timed boost.
func (s *InventoryState) UseItem(itemID string, now time.Time) (UseResult, error) {
	it := s.find(itemID)
	if it == nil {
		return UseResult{}, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	if !it.ItemType.Consumable() {
		return UseResult{}, fmt.Errorf("item %s cannot be used: %w", itemID, ErrInvalidState)
	}
	if it.Quantity <= 0 {
		return UseResult{}, fmt.Errorf("item %s has no uses left: %w", itemID, ErrInvalidState)
	}
	it.Quantity--

	res := UseResult{Type: it.ItemType}
	if it.ItemType == ItemXPBoost {
		mult := it.Metadata.Multiplier
		if mult <= 0 {
			mult = DefaultBoostMultiplier
		}
		dur := DefaultBoostDuration
		if it.Metadata.Duration > 0 {
			dur = time.Duration(it.Metadata.Duration) * time.Second
		}
		exp := now.Add(dur)
		s.ActiveBoosts = append(s.ActiveBoosts, Boost{ItemID: itemID, Multiplier: mult, ActivatedAt: now, ExpiresAt: exp})
		res.Multiplier = mult
		res.ExpiresAt = &exp
	}
	return res, nil
}

// EquipItem activates a cosmetic and deactivates others of the same type.
func (s *InventoryState) EquipItem(itemID string) (InventoryItem, error) {
	it := s.find(itemID)
	if it == nil {
		return InventoryItem{}, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	if !it.ItemType.Equippable() {
		return InventoryItem{}, fmt.Errorf("item %s is not equippable: %w", itemID, ErrInvalidState)
	}
	for i := range s.Items {
		if s.Items[i].ItemType == it.ItemType {
			s.Items[i].Active = false
		}
	}
	it.Active = true
	return *it, nil
}

// PruneBoosts drops expired boosts and reports whether any were removed.
func (s *InventoryState) PruneBoosts(now time.Time) bool {
	n := len(s.ActiveBoosts)
	s.ActiveBoosts = slices.DeleteFunc(s.ActiveBoosts, func(b Boost) bool {
		return !b.ExpiresAt.After(now)
	})
	return len(s.ActiveBoosts) != n
}

// ActiveXPMultiplier prunes expired boosts and returns the highest remaining
// multiplier, never below 1.
func (s *InventoryState) ActiveXPMultiplier(now time.Time) float64 {
	s.PruneBoosts(now)
	best := 1.0
	for _, b := range s.ActiveBoosts {
		best = max(best, b.Multiplier)
	}
	return best
}
