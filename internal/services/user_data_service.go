package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"nekoyaBack/internal/models"
	"nekoyaBack/internal/repositories"
)

// UserDataService holds the per-player shop snapshots the client screens read
// from. Loads go to MySQL and refresh the in-process snapshot; the snapshot is
// mirrored to Redis so it survives restarts. Reads never touch the database.
type UserDataService struct {
	ShopRepo   *repositories.ShopItemRepository
	PlayerRepo *repositories.PlayerRepository
	Cache      *SnapshotCache

	mu      sync.RWMutex
	shops   map[int][]models.ShopItem
	players map[int]*models.Player
}

func NewUserDataService(shopRepo *repositories.ShopItemRepository, playerRepo *repositories.PlayerRepository, cache *SnapshotCache) *UserDataService {
	return &UserDataService{
		ShopRepo:   shopRepo,
		PlayerRepo: playerRepo,
		Cache:      cache,
		shops:      make(map[int][]models.ShopItem),
		players:    make(map[int]*models.Player),
	}
}

func (s *UserDataService) LoadShopItems(ctx context.Context, playerID int) error {
	items, err := s.ShopRepo.GetShopItemsByPlayer(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load shop items: %w", err)
	}

	s.mu.Lock()
	s.shops[playerID] = items
	s.mu.Unlock()

	if s.Cache != nil {
		if err := s.Cache.StoreShopItems(ctx, playerID, items); err != nil {
			log.Printf("snapshot cache: store shop items for player %d: %v", playerID, err)
		}
	}
	return nil
}

func (s *UserDataService) LoadGameState(ctx context.Context, playerID int) error {
	player, err := s.PlayerRepo.GetPlayerByID(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load game state: %w", err)
	}
	player.DeviceSecret = ""

	s.mu.Lock()
	s.players[playerID] = &player
	s.mu.Unlock()

	if s.Cache != nil {
		if err := s.Cache.StorePlayer(ctx, player); err != nil {
			log.Printf("snapshot cache: store player %d: %v", playerID, err)
		}
	}
	return nil
}

// ShopItems returns the player's loaded shop snapshot in display order.
func (s *UserDataService) ShopItems(playerID int) []models.ShopItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shops[playerID]
}

// ShopCleanupCandidates filters the loaded snapshot down to items holding more
// stock than the cleanup threshold, keeping the shop display order.
func (s *UserDataService) ShopCleanupCandidates(playerID int) []models.ShopItem {
	s.mu.RLock()
	items := s.shops[playerID]
	s.mu.RUnlock()

	var candidates []models.ShopItem
	for _, item := range items {
		if models.IsCleanupCandidate(item) {
			candidates = append(candidates, item)
		}
	}
	return candidates
}

// CachedPlayer returns the loaded player snapshot, or nil when the player's
// game state has never been loaded.
func (s *UserDataService) CachedPlayer(playerID int) *models.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.players[playerID]
}

// PlayerProfile serves reads that tolerate a stale snapshot. It tries the
// in-process snapshot, then Redis, then MySQL.
func (s *UserDataService) PlayerProfile(ctx context.Context, playerID int) (models.Player, error) {
	s.mu.RLock()
	cached := s.players[playerID]
	s.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	if s.Cache != nil {
		player, err := s.Cache.LoadPlayer(ctx, playerID)
		if err == nil {
			return player, nil
		}
		if err != models.ErrNoRecord {
			log.Printf("snapshot cache: load player %d: %v", playerID, err)
		}
	}

	if err := s.LoadGameState(ctx, playerID); err != nil {
		return models.Player{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.players[playerID], nil
}

// Forget drops a player's in-process snapshots, e.g. on sign-out.
func (s *UserDataService) Forget(playerID int) {
	s.mu.Lock()
	delete(s.shops, playerID)
	delete(s.players, playerID)
	s.mu.Unlock()
}
