package models

import (
	"lingo-progress-system/progression"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StockUnlimited marks a shop item that never runs out.
const StockUnlimited = -1

type ShopItem struct {
	ID          string                                       `gorm:"primaryKey;type:uuid" json:"-"`
	ItemID      string                                       `gorm:"uniqueIndex;not null" json:"item_id"`
	Name        string                                       `gorm:"not null" json:"name"`
	Description string                                       `json:"description"`
	Type        progression.ItemType                         `gorm:"type:varchar(16);not null;index" json:"type"`
	Price       int                                          `gorm:"not null" json:"price"`
	Icon        string                                       `json:"icon"`
	Rarity      string                                       `gorm:"type:varchar(16)" json:"rarity"` // common, rare, epic, legendary
	Available   bool                                         `gorm:"index" json:"available"`
	Metadata    datatypes.JSONType[progression.ItemMetadata] `json:"metadata"`
	Stock       int                                          `gorm:"not null" json:"stock"`

	Timestamps
}

func (s *ShopItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// DefaultShopItems is upserted at startup when shop seeding is enabled.
var DefaultShopItems = []ShopItem{
	{
		ItemID:      "streak_freeze",
		Name:        "Streak Freeze",
		Description: "Protects your streak for one missed day",
		Type:        progression.ItemFreeze,
		Price:       100,
		Icon:        "❄️",
		Rarity:      "rare",
		Metadata:    datatypes.NewJSONType(progression.ItemMetadata{Uses: 1}),
	},
	{
		ItemID:      "xp_boost_1h",
		Name:        "XP Boost (1h)",
		Description: "Doubles XP earned for one hour",
		Type:        progression.ItemXPBoost,
		Price:       50,
		Icon:        "⚡",
		Rarity:      "common",
		Metadata:    datatypes.NewJSONType(progression.ItemMetadata{Multiplier: 2, Duration: 3600}),
	},
	{
		ItemID:      "xp_boost_24h",
		Name:        "XP Boost (24h)",
		Description: "Doubles XP earned for 24 hours",
		Type:        progression.ItemXPBoost,
		Price:       200,
		Icon:        "🚀",
		Rarity:      "epic",
		Metadata:    datatypes.NewJSONType(progression.ItemMetadata{Multiplier: 2, Duration: 86400}),
	},
	{
		ItemID:      "avatar_star",
		Name:        "Star Avatar",
		Description: "A shining star avatar",
		Type:        progression.ItemAvatar,
		Price:       150,
		Icon:        "⭐",
		Rarity:      "rare",
		Metadata:    datatypes.NewJSONType(progression.ItemMetadata{ImageURL: "/assets/avatars/star.png"}),
	},
	{
		ItemID:      "avatar_trophy",
		Name:        "Trophy Avatar",
		Description: "A champion's trophy avatar",
		Type:        progression.ItemAvatar,
		Price:       300,
		Icon:        "🏆",
		Rarity:      "epic",
		Metadata:    datatypes.NewJSONType(progression.ItemMetadata{ImageURL: "/assets/avatars/trophy.png"}),
	},
	{
		ItemID:      "theme_dark",
		Name:        "Dark Theme",
		Description: "Premium dark mode",
		Type:        progression.ItemTheme,
		Price:       200,
		Icon:        "🌙",
		Rarity:      "rare",
		Metadata:    datatypes.NewJSONType(progression.ItemMetadata{ThemeName: "dark"}),
	},
	{
		ItemID:      "hint_pack",
		Name:        "Hint Pack (5x)",
		Description: "Five hints for hard exercises",
		Type:        progression.ItemHint,
		Price:       75,
		Icon:        "💡",
		Rarity:      "common",
		Metadata:    datatypes.NewJSONType(progression.ItemMetadata{Quantity: 5}),
	},
}
