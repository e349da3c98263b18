package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"nekoyaBack/internal/repositories"
	"nekoyaBack/internal/services"
)

const (
	overflowNotifierTimeout = 2 * time.Minute
	overflowNotifyCooldown  = 24 * time.Hour
)

// startOverflowNotifier periodically pushes a reminder to players whose shop
// holds stock above the cleanup threshold, pointing them at the cleanup screen.
// A Redis cooldown key keeps a player from being reminded more than once per
// day while the overflow persists.
func startOverflowNotifier(ctx context.Context, shopRepo *repositories.ShopItemRepository, svc *services.NotificationService, rdb *redis.Client, interval time.Duration, infoLog, errorLog *log.Logger) {
	if shopRepo == nil || svc == nil || svc.Client == nil {
		return
	}
	if interval <= 0 {
		interval = time.Hour
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		run := func() {
			runCtx, cancel := context.WithTimeout(ctx, overflowNotifierTimeout)
			defer cancel()

			players, err := shopRepo.PlayersWithOverflowingStock(runCtx)
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("overflow notifier: failed to list players: %v", err)
				}
				return
			}

			sent := 0
			for _, player := range players {
				if player.FCMToken == nil || *player.FCMToken == "" {
					continue
				}

				cooldownKey := fmt.Sprintf("shop:overflow_notified:%d", player.ID)
				if rdb != nil {
					fresh, err := rdb.SetNX(runCtx, cooldownKey, 1, overflowNotifyCooldown).Result()
					if err != nil {
						if errorLog != nil {
							errorLog.Printf("overflow notifier: cooldown check for player %d: %v", player.ID, err)
						}
					} else if !fresh {
						continue
					}
				}

				if err := svc.SendStockOverflowPush(runCtx, *player.FCMToken); err != nil {
					if errorLog != nil {
						errorLog.Printf("overflow notifier: push to player %d: %v", player.ID, err)
					}
					if rdb != nil {
						rdb.Del(runCtx, cooldownKey)
					}
					continue
				}
				sent++
			}
			if sent > 0 && infoLog != nil {
				infoLog.Printf("overflow notifier: sent %d reminders", sent)
			}
		}

		run()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}
