package repositories

import (
	"context"
	"database/sql"
	"time"

	"nekoyaBack/internal/models"
)

type ShopItemRepository struct {
	DB *sql.DB
}

func (r *ShopItemRepository) CreateItemDef(ctx context.Context, def models.ItemDef) (models.ItemDef, error) {
	query := `
        INSERT INTO item_defs (id, name, icon_url, created_at)
        VALUES (?, ?, ?, ?)
    `
	def.CreatedAt = time.Now()
	_, err := r.DB.ExecContext(ctx, query, def.ID, def.Name, def.IconURL, def.CreatedAt)
	if err != nil {
		return models.ItemDef{}, err
	}
	return def, nil
}

func (r *ShopItemRepository) GetItemDef(ctx context.Context, id string) (models.ItemDef, error) {
	var def models.ItemDef
	query := `
        SELECT id, name, icon_url, created_at, updated_at
        FROM item_defs
        WHERE id = ?
    `
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&def.ID, &def.Name, &def.IconURL, &def.CreatedAt, &def.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.ItemDef{}, models.ErrItemDefNotFound
	}
	if err != nil {
		return models.ItemDef{}, err
	}
	return def, nil
}

func (r *ShopItemRepository) GetShopItemsByPlayer(ctx context.Context, playerID int) ([]models.ShopItem, error) {
	query := `
        SELECT si.id, si.player_id, si.stock, si.position, si.created_at, si.updated_at,
               d.id, d.name, d.icon_url
        FROM shop_items si
        JOIN item_defs d ON si.item_def_id = d.id
        WHERE si.player_id = ?
        ORDER BY si.position, si.id
    `
	rows, err := r.DB.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ShopItem
	for rows.Next() {
		var item models.ShopItem
		var stock sql.NullInt64
		err = rows.Scan(
			&item.ID, &item.PlayerID, &stock, &item.Position, &item.CreatedAt, &item.UpdatedAt,
			&item.Def.ID, &item.Def.Name, &item.Def.IconURL,
		)
		if err != nil {
			return nil, err
		}
		if stock.Valid {
			value := int(stock.Int64)
			item.Stock = &value
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ShopItemRepository) GetShopItemByID(ctx context.Context, playerID int, itemID string) (models.ShopItem, error) {
	var item models.ShopItem
	var stock sql.NullInt64
	query := `
        SELECT si.id, si.player_id, si.stock, si.position, si.created_at, si.updated_at,
               d.id, d.name, d.icon_url
        FROM shop_items si
        JOIN item_defs d ON si.item_def_id = d.id
        WHERE si.id = ? AND si.player_id = ?
    `
	err := r.DB.QueryRowContext(ctx, query, itemID, playerID).Scan(
		&item.ID, &item.PlayerID, &stock, &item.Position, &item.CreatedAt, &item.UpdatedAt,
		&item.Def.ID, &item.Def.Name, &item.Def.IconURL,
	)
	if err == sql.ErrNoRows {
		return models.ShopItem{}, models.ErrItemNotFound
	}
	if err != nil {
		return models.ShopItem{}, err
	}
	if stock.Valid {
		value := int(stock.Int64)
		item.Stock = &value
	}
	return item, nil
}

func (r *ShopItemRepository) CreateShopItem(ctx context.Context, item models.ShopItem) (models.ShopItem, error) {
	query := `
        INSERT INTO shop_items (id, player_id, item_def_id, stock, position, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	item.CreatedAt = time.Now()
	var stock sql.NullInt64
	if item.Stock != nil {
		stock = sql.NullInt64{Int64: int64(*item.Stock), Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query,
		item.ID, item.PlayerID, item.Def.ID, stock, item.Position, item.CreatedAt,
	)
	if err != nil {
		return models.ShopItem{}, err
	}
	return r.GetShopItemByID(ctx, item.PlayerID, item.ID)
}

func (r *ShopItemRepository) RecordSale(ctx context.Context, playerID int, itemID string, quantity int) (models.ShopItem, error) {
	query := `
        UPDATE shop_items
        SET stock = stock + ?, updated_at = ?
        WHERE id = ? AND player_id = ? AND stock IS NOT NULL
    `
	result, err := r.DB.ExecContext(ctx, query, quantity, time.Now(), itemID, playerID)
	if err != nil {
		return models.ShopItem{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return models.ShopItem{}, err
	}
	if rowsAffected == 0 {
		item, getErr := r.GetShopItemByID(ctx, playerID, itemID)
		if getErr != nil {
			return models.ShopItem{}, getErr
		}
		if item.Stock == nil {
			return models.ShopItem{}, models.ErrStockNotTracked
		}
		return item, nil
	}
	return r.GetShopItemByID(ctx, playerID, itemID)
}

// CleanupStockAndCredit reduces an overflowing item to the retained stock and
// credits the surplus as cat tickets in one transaction. The ledger row keeps
// the item name so history survives listing removal.
func (r *ShopItemRepository) CleanupStockAndCredit(ctx context.Context, playerID int, itemID string) (models.CleanupResult, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.CleanupResult{}, err
	}
	defer tx.Rollback()

	var stock sql.NullInt64
	var itemName string
	query := `
        SELECT si.stock, d.name
        FROM shop_items si
        JOIN item_defs d ON si.item_def_id = d.id
        WHERE si.id = ? AND si.player_id = ?
        FOR UPDATE
    `
	err = tx.QueryRowContext(ctx, query, itemID, playerID).Scan(&stock, &itemName)
	if err == sql.ErrNoRows {
		return models.CleanupResult{}, models.ErrItemNotFound
	}
	if err != nil {
		return models.CleanupResult{}, err
	}
	if !stock.Valid {
		return models.CleanupResult{}, models.ErrStockNotTracked
	}
	if int(stock.Int64) <= models.CleanupThreshold {
		return models.CleanupResult{}, models.ErrNothingToCleanup
	}

	removed := int(stock.Int64) - models.RetainedStock
	tickets := models.TicketsForSurplus(removed)

	_, err = tx.ExecContext(ctx, `UPDATE shop_items SET stock = ?, updated_at = ? WHERE id = ?`,
		models.RetainedStock, time.Now(), itemID)
	if err != nil {
		return models.CleanupResult{}, err
	}

	_, err = tx.ExecContext(ctx, `UPDATE players SET cat_tickets = cat_tickets + ?, updated_at = ? WHERE id = ?`,
		tickets, time.Now(), playerID)
	if err != nil {
		return models.CleanupResult{}, err
	}

	var balance int
	err = tx.QueryRowContext(ctx, `SELECT cat_tickets FROM players WHERE id = ?`, playerID).Scan(&balance)
	if err != nil {
		return models.CleanupResult{}, err
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO ticket_ledger (player_id, shop_item_id, item_name, removed_qty, tickets, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, playerID, itemID, itemName, removed, tickets, time.Now())
	if err != nil {
		return models.CleanupResult{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.CleanupResult{}, err
	}

	return models.CleanupResult{
		ItemID:           itemID,
		ItemName:         itemName,
		RemovedQuantity:  removed,
		RetainedQuantity: models.RetainedStock,
		TicketsGranted:   tickets,
		TicketBalance:    balance,
	}, nil
}

// PlayersWithOverflowingStock returns players who currently hold at least one
// item above the cleanup threshold and have a registered push token.
func (r *ShopItemRepository) PlayersWithOverflowingStock(ctx context.Context) ([]models.Player, error) {
	query := `
        SELECT DISTINCT p.id, p.name, p.fcm_token
        FROM players p
        JOIN shop_items si ON si.player_id = p.id
        WHERE si.stock > ? AND p.fcm_token IS NOT NULL AND p.fcm_token <> ''
    `
	rows, err := r.DB.QueryContext(ctx, query, models.CleanupThreshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var player models.Player
		err = rows.Scan(&player.ID, &player.Name, &player.FCMToken)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}
