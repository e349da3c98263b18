package services

import (
	"context"

	"nekoyaBack/internal/models"
	"nekoyaBack/internal/repositories"
)

type CleanupService struct {
	ShopRepo *repositories.ShopItemRepository
	Events   ShopEventPusher
}

// CleanupStockAndAutoSell trims an overflowing listing down to the retained
// stock and credits the removed surplus as cat tickets. The whole change is one
// database transaction; the websocket push happens only after it commits.
func (s *CleanupService) CleanupStockAndAutoSell(ctx context.Context, playerID int, itemID string) (models.CleanupResult, error) {
	result, err := s.ShopRepo.CleanupStockAndCredit(ctx, playerID, itemID)
	if err != nil {
		return models.CleanupResult{}, err
	}

	if s.Events != nil {
		retained := result.RetainedQuantity
		s.Events.PushShopEvent(playerID, models.ShopEvent{
			Type:          models.ShopEventStockCleanup,
			ItemID:        result.ItemID,
			Stock:         &retained,
			TicketBalance: result.TicketBalance,
		})
	}
	return result, nil
}
