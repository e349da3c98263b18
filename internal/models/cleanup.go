package models

import (
	"time"
)

// StockPerTicket is how many removed units convert into one cat ticket.
// Any cleanup that removes at least one unit grants at least one ticket.
const StockPerTicket = 10

type CleanupResult struct {
	ItemID           string `json:"item_id"`
	ItemName         string `json:"item_name"`
	RemovedQuantity  int    `json:"removed_quantity"`
	RetainedQuantity int    `json:"retained_quantity"`
	TicketsGranted   int    `json:"tickets_granted"`
	TicketBalance    int    `json:"ticket_balance"`
}

// TicketsForSurplus converts removed stock into cat tickets.
func TicketsForSurplus(removed int) int {
	if removed <= 0 {
		return 0
	}
	tickets := removed / StockPerTicket
	if tickets < 1 {
		tickets = 1
	}
	return tickets
}

// CrossedCleanupThreshold reports whether the last sale pushed a listing's
// stock over the cleanup threshold. Stock is the quantity after the sale.
func CrossedCleanupThreshold(stock *int, sold int) bool {
	if stock == nil || sold <= 0 {
		return false
	}
	return *stock > CleanupThreshold && *stock-sold <= CleanupThreshold
}

type TicketLedgerEntry struct {
	ID         int       `json:"id"`
	PlayerID   int       `json:"player_id"`
	ShopItemID string    `json:"shop_item_id"`
	ItemName   string    `json:"item_name"`
	RemovedQty int       `json:"removed_qty"`
	Tickets    int       `json:"tickets"`
	CreatedAt  time.Time `json:"created_at"`
}

type ShopEvent struct {
	Type          string `json:"type"`
	ItemID        string `json:"item_id,omitempty"`
	Stock         *int   `json:"stock,omitempty"`
	TicketBalance int    `json:"ticket_balance,omitempty"`
}

const (
	ShopEventStockCleanup  = "stock_cleanup"
	ShopEventStockOverflow = "stock_overflow"
	ShopEventSaleRecorded  = "sale_recorded"
)
