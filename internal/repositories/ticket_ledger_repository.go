package repositories

import (
	"context"
	"database/sql"

	"nekoyaBack/internal/models"
)

type TicketLedgerRepository struct {
	DB *sql.DB
}

func (r *TicketLedgerRepository) GetEntriesByPlayer(ctx context.Context, playerID int, limit int) ([]models.TicketLedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
        SELECT id, player_id, shop_item_id, item_name, removed_qty, tickets, created_at
        FROM ticket_ledger
        WHERE player_id = ?
        ORDER BY id DESC
        LIMIT ?
    `
	rows, err := r.DB.QueryContext(ctx, query, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TicketLedgerEntry
	for rows.Next() {
		var entry models.TicketLedgerEntry
		err = rows.Scan(
			&entry.ID, &entry.PlayerID, &entry.ShopItemID, &entry.ItemName,
			&entry.RemovedQty, &entry.Tickets, &entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
