package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"nekoyaBack/internal/models"
	"nekoyaBack/internal/screens"
)

type stubScreenServices struct {
	candidates []models.ShopItem
	player     *models.Player
	loadErr    error
	itemIDs    []string
}

func (s *stubScreenServices) LoadShopItems(ctx context.Context) error { return s.loadErr }

func (s *stubScreenServices) LoadGameState(ctx context.Context) error { return nil }

func (s *stubScreenServices) ShopCleanupCandidates() []models.ShopItem { return s.candidates }

func (s *stubScreenServices) CachedPlayer() *models.Player { return s.player }

func (s *stubScreenServices) CleanupStockAndAutoSell(ctx context.Context, itemID string) (models.CleanupResult, error) {
	s.itemIDs = append(s.itemIDs, itemID)
	s.candidates = nil
	return models.CleanupResult{ItemID: itemID, RetainedQuantity: 5}, nil
}

func (s *stubScreenServices) ForPlayer(playerID int) (screens.UserData, screens.AppServices) {
	return s, s
}

func overflowItem(id, name string, quantity int) models.ShopItem {
	return models.ShopItem{
		ID:    id,
		Def:   models.ItemDef{ID: "def_" + id, Name: name},
		Stock: &quantity,
	}
}

func withPlayer(r *http.Request, playerID int) *http.Request {
	ctx := context.WithValue(r.Context(), "player_id", playerID)
	return r.WithContext(ctx)
}

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) screens.View {
	t.Helper()
	var view screens.View
	if err := json.NewDecoder(rr.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return view
}

func TestGetScreenRendersList(t *testing.T) {
	svc := &stubScreenServices{
		candidates: []models.ShopItem{overflowItem("sword_1", "剣", 150)},
		player:     &models.Player{ID: 1, CatTickets: 3},
	}
	h := &StockCleanupHandler{Screens: screens.NewRegistry(svc)}

	rr := httptest.NewRecorder()
	req := withPlayer(httptest.NewRequest(http.MethodGet, "/shop/cleanup", nil), 1)
	h.GetScreen(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	view := decodeView(t, rr)
	if view.List == nil {
		t.Fatal("expected list panel")
	}
	if view.List.Items[0].QuantityText != "99+個" {
		t.Fatalf("expected 99+個 got %q", view.List.Items[0].QuantityText)
	}
	if view.List.TicketRow == nil || view.List.TicketRow.Count != 3 {
		t.Fatalf("expected ticket row with 3 tickets, got %+v", view.List.TicketRow)
	}
}

func TestGetScreenUnauthorized(t *testing.T) {
	h := &StockCleanupHandler{Screens: screens.NewRegistry(&stubScreenServices{})}

	rr := httptest.NewRecorder()
	h.GetScreen(rr, httptest.NewRequest(http.MethodGet, "/shop/cleanup", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestCleanupItemRoundTrip(t *testing.T) {
	svc := &stubScreenServices{
		candidates: []models.ShopItem{overflowItem("sword_1", "剣", 150)},
	}
	h := &StockCleanupHandler{Screens: screens.NewRegistry(svc)}

	rr := httptest.NewRecorder()
	req := withPlayer(httptest.NewRequest(http.MethodPost, "/shop/cleanup/items/sword_1?item_id=sword_1", nil), 1)
	h.CleanupItem(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if len(svc.itemIDs) != 1 || svc.itemIDs[0] != "sword_1" {
		t.Fatalf("expected cleanup of sword_1 got %v", svc.itemIDs)
	}
	view := decodeView(t, rr)
	if view.Empty == nil {
		t.Fatal("expected empty panel once the last candidate is cleaned")
	}
}

func TestCleanupItemMissingID(t *testing.T) {
	h := &StockCleanupHandler{Screens: screens.NewRegistry(&stubScreenServices{})}

	rr := httptest.NewRecorder()
	req := withPlayer(httptest.NewRequest(http.MethodPost, "/shop/cleanup/items/", nil), 1)
	h.CleanupItem(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestRetryAfterFailure(t *testing.T) {
	svc := &stubScreenServices{
		loadErr: errors.New("shop items unavailable"),
	}
	h := &StockCleanupHandler{Screens: screens.NewRegistry(svc)}

	rr := httptest.NewRecorder()
	h.GetScreen(rr, withPlayer(httptest.NewRequest(http.MethodGet, "/shop/cleanup", nil), 1))

	view := decodeView(t, rr)
	if view.Error == nil {
		t.Fatal("expected error panel")
	}
	if view.Error.Message != "shop items unavailable" {
		t.Fatalf("expected the failure description, got %q", view.Error.Message)
	}

	svc.loadErr = nil
	svc.candidates = []models.ShopItem{overflowItem("ball_1", "ボール", 120)}

	rr = httptest.NewRecorder()
	h.Retry(rr, withPlayer(httptest.NewRequest(http.MethodPost, "/shop/cleanup/retry", nil), 1))

	view = decodeView(t, rr)
	if view.Error != nil {
		t.Fatal("error panel must clear after a successful retry")
	}
	if view.List == nil || len(view.List.Items) != 1 {
		t.Fatalf("expected one candidate row, got %+v", view.List)
	}
}

func TestDismissDestroysSession(t *testing.T) {
	svc := &stubScreenServices{
		candidates: []models.ShopItem{overflowItem("ball_1", "ボール", 120)},
	}
	h := &StockCleanupHandler{Screens: screens.NewRegistry(svc)}

	h.GetScreen(httptest.NewRecorder(), withPlayer(httptest.NewRequest(http.MethodGet, "/shop/cleanup", nil), 1))

	rr := httptest.NewRecorder()
	h.Dismiss(rr, withPlayer(httptest.NewRequest(http.MethodDelete, "/shop/cleanup", nil), 1))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rr.Code)
	}

	svc.loadErr = errors.New("shop items unavailable")
	rr = httptest.NewRecorder()
	h.GetScreen(rr, withPlayer(httptest.NewRequest(http.MethodGet, "/shop/cleanup", nil), 1))

	view := decodeView(t, rr)
	if view.Error == nil {
		t.Fatal("expected a fresh session to rerun the initial load")
	}
}
