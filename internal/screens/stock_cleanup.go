// Package screens holds the server-driven screen sessions the mobile client
// renders verbatim. Each screen owns its ephemeral UI state; all game state
// lives in the services layer.
package screens

import (
	"context"
	"fmt"
	"sync"

	"nekoyaBack/internal/models"
)

// UserData is the read side the screen consumes. Loads refresh the services
// snapshot; the two reads are synchronous views of already-loaded state.
type UserData interface {
	LoadShopItems(ctx context.Context) error
	LoadGameState(ctx context.Context) error
	ShopCleanupCandidates() []models.ShopItem
	CachedPlayer() *models.Player
}

// AppServices is the single mutating operation the screen invokes.
type AppServices interface {
	CleanupStockAndAutoSell(ctx context.Context, itemID string) (models.CleanupResult, error)
}

const (
	captionText    = "在庫が上限いっぱいの商品を5個まで整理し、余剰分をネコチケットに自動変換します。"
	headerText     = "整理できる商品"
	footerText     = "整理すると在庫は5個になり、減らした分はネコチケットになります。"
	emptyMessage   = "整理できる商品はありません。在庫が99個を超えた商品がここに表示されます。"
	ticketRowLabel = "ネコチケット"

	retryAction         = "/shop/cleanup/retry"
	cleanupActionFormat = "/shop/cleanup/items/%s"
)

// StockCleanupScreen lets a player trim shop listings stacked above the
// cleanup threshold down to a small retained stock, converting the surplus
// into cat tickets. It renders state fetched from the services layer and, on
// the cleanup action, invokes one mutating call and reloads.
type StockCleanupScreen struct {
	userData UserData
	app      AppServices

	mu           sync.Mutex
	candidates   []models.ShopItem
	player       *models.Player
	isLoading    bool
	showError    bool
	errorMessage string
}

func NewStockCleanupScreen(userData UserData, app AppServices) *StockCleanupScreen {
	return &StockCleanupScreen{userData: userData, app: app}
}

// Load refreshes the screen from the services layer: shop items first, then
// game state, each awaited before the next. A call while another load is in
// flight does nothing. The loading flag drops on every exit path.
func (s *StockCleanupScreen) Load(ctx context.Context) {
	s.mu.Lock()
	if s.isLoading {
		s.mu.Unlock()
		return
	}
	s.isLoading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isLoading = false
		s.mu.Unlock()
	}()

	if err := s.userData.LoadShopItems(ctx); err != nil {
		s.fail(err)
		return
	}
	if err := s.userData.LoadGameState(ctx); err != nil {
		s.fail(err)
		return
	}
	s.refresh()
}

// Cleanup runs the cleanup operation for one item, then refreshes game state
// and shop items in that order. The operation result is not surfaced. Taps are
// not guarded against overlap; the services layer rejects a second cleanup of
// an already-trimmed item.
func (s *StockCleanupScreen) Cleanup(ctx context.Context, itemID string) {
	if _, err := s.app.CleanupStockAndAutoSell(ctx, itemID); err != nil {
		s.fail(err)
		return
	}
	if err := s.userData.LoadGameState(ctx); err != nil {
		s.fail(err)
		return
	}
	if err := s.userData.LoadShopItems(ctx); err != nil {
		s.fail(err)
		return
	}
	s.refresh()
}

func (s *StockCleanupScreen) refresh() {
	candidates := s.userData.ShopCleanupCandidates()
	player := s.userData.CachedPlayer()

	s.mu.Lock()
	s.candidates = candidates
	s.player = player
	s.showError = false
	s.errorMessage = ""
	s.mu.Unlock()
}

// fail raises the error flag with the failure's description. Previously loaded
// candidates and player stay in place; they are just not rendered while the
// error panel is up.
func (s *StockCleanupScreen) fail(err error) {
	s.mu.Lock()
	s.showError = true
	s.errorMessage = err.Error()
	s.mu.Unlock()
}

type View struct {
	Loading bool        `json:"loading"`
	Error   *ErrorPanel `json:"error,omitempty"`
	Empty   *EmptyPanel `json:"empty,omitempty"`
	List    *ListPanel  `json:"list,omitempty"`
}

type ErrorPanel struct {
	Message     string `json:"message"`
	RetryAction string `json:"retry_action"`
}

type EmptyPanel struct {
	Message string `json:"message"`
}

type ListPanel struct {
	Caption   string     `json:"caption"`
	TicketRow *TicketRow `json:"ticket_row,omitempty"`
	Header    string     `json:"header"`
	Footer    string     `json:"footer"`
	Items     []ItemRow  `json:"items"`
}

type TicketRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type ItemRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IconURL       string `json:"icon_url,omitempty"`
	QuantityText  string `json:"quantity_text,omitempty"`
	CleanupAction string `json:"cleanup_action"`
}

// Render builds the client payload from local state. Exactly one panel is set:
// the error panel wins, then the empty panel when there are no candidates and
// no load in flight, otherwise the list.
func (s *StockCleanupScreen) Render() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := View{Loading: s.isLoading}
	switch {
	case s.showError:
		view.Error = &ErrorPanel{Message: s.errorMessage, RetryAction: retryAction}
	case len(s.candidates) == 0 && !s.isLoading:
		view.Empty = &EmptyPanel{Message: emptyMessage}
	default:
		list := &ListPanel{
			Caption: captionText,
			Header:  headerText,
			Footer:  footerText,
			Items:   make([]ItemRow, 0, len(s.candidates)),
		}
		if s.player != nil {
			list.TicketRow = &TicketRow{Label: ticketRowLabel, Count: s.player.CatTickets}
		}
		for _, item := range s.candidates {
			row := ItemRow{
				ID:            item.ID,
				Name:          item.Def.Name,
				IconURL:       item.Def.IconURL,
				CleanupAction: fmt.Sprintf(cleanupActionFormat, item.ID),
			}
			if item.Stock != nil {
				row.QuantityText = FormatStockCount(*item.Stock)
			}
			list.Items = append(list.Items, row)
		}
		view.List = list
	}
	return view
}

// FormatStockCount renders a stock quantity for display. Counts at or above
// the display limit are capped as "99+個".
func FormatStockCount(quantity int) string {
	if quantity >= models.StockDisplayLimit {
		return fmt.Sprintf("%d+個", models.StockDisplayLimit)
	}
	return fmt.Sprintf("%d個", quantity)
}
