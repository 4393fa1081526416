package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"lingo-progress-system/models"
	"lingo-progress-system/progression"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShopService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewShopService(db *gorm.DB) *ShopService {
	return &ShopService{DB: db, Now: time.Now}
}

// SeedDefaults upserts models.DefaultShopItems by item id.
func (s *ShopService) SeedDefaults() error {
	for _, item := range models.DefaultShopItems {
		item.Available = true
		if item.Stock == 0 {
			item.Stock = models.StockUnlimited
		}
		err := s.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "type", "price", "icon", "rarity", "available", "metadata",
			}),
		}).Create(&item).Error
		if err != nil {
			return fmt.Errorf("seed shop item %s: %w", item.ItemID, err)
		}
	}
	log.Printf("✅ Shop items seeded (%d)", len(models.DefaultShopItems))
	return nil
}

// Items lists available items, cheapest first.
func (s *ShopService) Items() ([]models.ShopItem, error) {
	var items []models.ShopItem
	err := s.DB.Where("available = ?", true).Order("price asc, item_id asc").Find(&items).Error
	return items, err
}

type PurchaseResult struct {
	Item     models.ShopItem           `json:"item"`
	NewCoins int                       `json:"new_coins"`
	Owned    progression.InventoryItem `json:"inventory"`
}

// Purchase debits coins, applies freeze effects and adds the item to the inventory
// in one transaction.
func (s *ShopService) Purchase(externalUserID, itemID string) (*PurchaseResult, error) {
	now := s.Now()
	var out PurchaseResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var item models.ShopItem
		if err := tx.Where("item_id = ? AND available = ?", itemID, true).First(&item).Error; err != nil {
			return notFound(err, "shop item %s", itemID)
		}
		if item.Stock != models.StockUnlimited && item.Stock <= 0 {
			return fmt.Errorf("shop item %s out of stock: %w", itemID, progression.ErrInvalidState)
		}

		prof, err := ensureProfileTx(tx, externalUserID)
		if err != nil {
			return err
		}
		if prof.Coins < item.Price {
			return fmt.Errorf("need %d coins, have %d: %w", item.Price, prof.Coins, progression.ErrInvalidState)
		}

		meta := item.Metadata.Data()
		prof.Coins -= item.Price
		if item.Type == progression.ItemFreeze {
			uses := meta.Uses
			if uses <= 0 {
				uses = 1
			}
			prof.FreezesAvailable += uses
		}
		if err := tx.Save(prof).Error; err != nil {
			return err
		}

		inv, err := loadInventoryTx(tx, externalUserID)
		if err != nil {
			return err
		}
		state := inv.State()
		owned := state.AddItem(item.ItemID, item.Type, 1, meta, now)
		inv.SetState(state)
		if err := tx.Save(inv).Error; err != nil {
			return err
		}

		if item.Stock != models.StockUnlimited {
			res := tx.Model(&models.ShopItem{}).
				Where("id = ? AND stock > 0", item.ID).
				Update("stock", gorm.Expr("stock - 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("shop item %s out of stock: %w", itemID, progression.ErrInvalidState)
			}
			item.Stock--
		}

		out = PurchaseResult{Item: item, NewCoins: prof.Coins, Owned: owned}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🛒 %s bought %s (coins left %d)", externalUserID, itemID, out.NewCoins)
	return &out, nil
}

// Inventory returns the user's inventory, creating an empty one on first access.
func (s *ShopService) Inventory(externalUserID string) (*models.Inventory, error) {
	return loadInventoryTx(s.DB, externalUserID)
}

// Equip activates a cosmetic. Equipping an avatar also updates the profile avatar.
func (s *ShopService) Equip(externalUserID, itemID string) (*progression.InventoryItem, error) {
	var equipped progression.InventoryItem
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		inv, err := findInventoryTx(tx, externalUserID)
		if err != nil {
			return err
		}
		state := inv.State()
		it, err := state.EquipItem(itemID)
		if err != nil {
			return err
		}
		inv.SetState(state)
		if err := tx.Save(inv).Error; err != nil {
			return err
		}

		if it.ItemType == progression.ItemAvatar && it.Metadata.ImageURL != "" {
			if _, err := ensureProfileTx(tx, externalUserID); err != nil {
				return err
			}
			if err := tx.Model(&models.UserProfile{}).
				Where("external_user_id = ?", externalUserID).
				Update("avatar", it.Metadata.ImageURL).Error; err != nil {
				return err
			}
		}
		equipped = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &equipped, nil
}

// Use consumes one unit of a consumable.
func (s *ShopService) Use(externalUserID, itemID string) (*progression.UseResult, *models.Inventory, error) {
	var (
		res progression.UseResult
		inv *models.Inventory
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		inv, err = findInventoryTx(tx, externalUserID)
		if err != nil {
			return err
		}
		state := inv.State()
		state.PruneBoosts(s.Now())
		res, err = state.UseItem(itemID, s.Now())
		if err != nil {
			return err
		}
		inv.SetState(state)
		return tx.Save(inv).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &res, inv, nil
}

// PruneExpiredBoosts drops expired boosts from every inventory holding any.
func (s *ShopService) PruneExpiredBoosts() (int, error) {
	now := s.Now()
	var invs []models.Inventory
	if err := s.DB.Find(&invs).Error; err != nil {
		return 0, err
	}

	pruned := 0
	for i := range invs {
		state := invs[i].State()
		if !state.PruneBoosts(now) {
			continue
		}
		invs[i].SetState(state)
		if err := s.DB.Save(&invs[i]).Error; err != nil {
			log.Printf("[Scheduler] ⚠️ failed to prune boosts for %s: %v", invs[i].ExternalUserID, err)
			continue
		}
		pruned++
	}
	return pruned, nil
}

func findInventoryTx(tx *gorm.DB, externalUserID string) (*models.Inventory, error) {
	var inv models.Inventory
	if err := tx.Where("external_user_id = ?", externalUserID).First(&inv).Error; err != nil {
		return nil, notFound(err, "inventory for %s", externalUserID)
	}
	return &inv, nil
}

func loadInventoryTx(tx *gorm.DB, externalUserID string) (*models.Inventory, error) {
	inv, err := findInventoryTx(tx, externalUserID)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, progression.ErrNotFound) {
		return nil, err
	}
	inv = &models.Inventory{ExternalUserID: externalUserID}
	if err := tx.Create(inv).Error; err != nil {
		return nil, err
	}
	return inv, nil
}

// activeMultiplierTx is the inventory collaborator of the XP ledger. Expired
// boosts are pruned and persisted as a side effect.
func activeMultiplierTx(tx *gorm.DB, externalUserID string, now time.Time) (float64, error) {
	inv, err := findInventoryTx(tx, externalUserID)
	if errors.Is(err, progression.ErrNotFound) {
		return 1, nil
	}
	if err != nil {
		return 1, err
	}

	state := inv.State()
	pruned := state.PruneBoosts(now)
	mult := state.ActiveXPMultiplier(now)
	if pruned {
		inv.SetState(state)
		if err := tx.Save(inv).Error; err != nil {
			return 1, err
		}
	}
	return mult, nil
}
