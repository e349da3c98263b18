package models

import (
	"time"
)

const (
	// CleanupThreshold is the stock level above which a shop item can be
	// cleaned up. Items at exactly the threshold are left alone.
	CleanupThreshold = 99

	// RetainedStock is the stock an item is reduced to by a cleanup.
	RetainedStock = 5

	// StockDisplayLimit caps the quantity shown to the player. Stock at or
	// above the limit renders as "99+個".
	StockDisplayLimit = 99
)

type ItemDef struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	IconURL   string     `json:"icon_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type ShopItem struct {
	ID        string     `json:"id"`
	PlayerID  int        `json:"player_id"`
	Def       ItemDef    `json:"def"`
	Stock     *int       `json:"stock,omitempty"`
	Position  int        `json:"position"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// IsCleanupCandidate reports whether the item holds more stock than the
// cleanup threshold. Items with untracked stock are never candidates.
func IsCleanupCandidate(item ShopItem) bool {
	return item.Stock != nil && *item.Stock > CleanupThreshold
}

type RecordSaleRequest struct {
	Quantity int `json:"quantity"`
}

type ShopItemListResponse struct {
	Items []ShopItem `json:"items"`
}

type CreateItemDefRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AddListingRequest struct {
	ItemID    string `json:"item_id"`
	ItemDefID string `json:"item_def_id"`
	Stock     *int   `json:"stock"`
}
