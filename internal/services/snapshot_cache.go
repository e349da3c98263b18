package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nekoyaBack/internal/models"
)

// SnapshotCache mirrors per-player shop snapshots into Redis so a restarted
// process can serve cached reads before the first load completes.
type SnapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSnapshotCache(rdb *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SnapshotCache{rdb: rdb, ttl: ttl}
}

func shopItemsKey(playerID int) string {
	return fmt.Sprintf("shop:items:%d", playerID)
}

func playerKey(playerID int) string {
	return fmt.Sprintf("shop:player:%d", playerID)
}

func (c *SnapshotCache) StoreShopItems(ctx context.Context, playerID int, items []models.ShopItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, shopItemsKey(playerID), data, c.ttl).Err()
}

func (c *SnapshotCache) LoadShopItems(ctx context.Context, playerID int) ([]models.ShopItem, error) {
	data, err := c.rdb.Get(ctx, shopItemsKey(playerID)).Bytes()
	if err == redis.Nil {
		return nil, models.ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	var items []models.ShopItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *SnapshotCache) StorePlayer(ctx context.Context, player models.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, playerKey(player.ID), data, c.ttl).Err()
}

func (c *SnapshotCache) LoadPlayer(ctx context.Context, playerID int) (models.Player, error) {
	data, err := c.rdb.Get(ctx, playerKey(playerID)).Bytes()
	if err == redis.Nil {
		return models.Player{}, models.ErrNoRecord
	}
	if err != nil {
		return models.Player{}, err
	}
	var player models.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return models.Player{}, err
	}
	return player, nil
}
