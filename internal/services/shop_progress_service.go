package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"nekoyaBack/internal/models"
	"nekoyaBack/internal/repositories"
)

// ShopEventPusher delivers shop events to a player's connected sockets.
type ShopEventPusher interface {
	PushShopEvent(playerID int, event models.ShopEvent)
}

type ShopProgressService struct {
	ShopRepo *repositories.ShopItemRepository
	Events   ShopEventPusher
}

func (s *ShopProgressService) ListItems(ctx context.Context, playerID int) ([]models.ShopItem, error) {
	return s.ShopRepo.GetShopItemsByPlayer(ctx, playerID)
}

func (s *ShopProgressService) GetItem(ctx context.Context, playerID int, itemID string) (models.ShopItem, error) {
	return s.ShopRepo.GetShopItemByID(ctx, playerID, itemID)
}

// RecordSale raises the tracked stock of a listing. Sales are how stock climbs
// past the cleanup threshold.
func (s *ShopProgressService) RecordSale(ctx context.Context, playerID int, itemID string, quantity int) (models.ShopItem, error) {
	if quantity <= 0 {
		quantity = 1
	}
	item, err := s.ShopRepo.RecordSale(ctx, playerID, itemID, quantity)
	if err != nil {
		return models.ShopItem{}, err
	}

	if s.Events != nil {
		s.Events.PushShopEvent(playerID, models.ShopEvent{
			Type:   models.ShopEventSaleRecorded,
			ItemID: item.ID,
			Stock:  item.Stock,
		})
		if models.CrossedCleanupThreshold(item.Stock, quantity) {
			s.Events.PushShopEvent(playerID, models.ShopEvent{
				Type:   models.ShopEventStockOverflow,
				ItemID: item.ID,
				Stock:  item.Stock,
			})
		}
	}
	return item, nil
}

// CreateItemDef registers a catalog item. Admin only.
func (s *ShopProgressService) CreateItemDef(ctx context.Context, def models.ItemDef) (models.ItemDef, error) {
	if def.ID == "" {
		return models.ItemDef{}, errors.New("item definition id is required")
	}
	if def.Name == "" {
		return models.ItemDef{}, errors.New("item definition name is required")
	}
	return s.ShopRepo.CreateItemDef(ctx, def)
}

// AddListing puts a catalog item on the player's shelf, appended after the
// player's existing listings.
func (s *ShopProgressService) AddListing(ctx context.Context, playerID int, itemID, itemDefID string, stock *int) (models.ShopItem, error) {
	if itemID == "" {
		itemID = uuid.New().String()
	}
	def, err := s.ShopRepo.GetItemDef(ctx, itemDefID)
	if err != nil {
		return models.ShopItem{}, err
	}

	existing, err := s.ShopRepo.GetShopItemsByPlayer(ctx, playerID)
	if err != nil {
		return models.ShopItem{}, err
	}

	item := models.ShopItem{
		ID:       itemID,
		PlayerID: playerID,
		Def:      def,
		Stock:    stock,
		Position: len(existing) + 1,
	}
	return s.ShopRepo.CreateShopItem(ctx, item)
}
