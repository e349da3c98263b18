package screens

import (
	"context"
	"errors"
	"testing"

	"nekoyaBack/internal/models"
)

type stubServices struct {
	candidates []models.ShopItem
	player     *models.Player

	shopErr       error
	gameErr       error
	cleanupErr    error
	cleanupResult models.CleanupResult

	calls   []string
	itemIDs []string

	shopStarted chan struct{}
	shopRelease chan struct{}
}

func (s *stubServices) LoadShopItems(ctx context.Context) error {
	s.calls = append(s.calls, "shop")
	if s.shopStarted != nil {
		s.shopStarted <- struct{}{}
	}
	if s.shopRelease != nil {
		<-s.shopRelease
	}
	return s.shopErr
}

func (s *stubServices) LoadGameState(ctx context.Context) error {
	s.calls = append(s.calls, "game")
	return s.gameErr
}

func (s *stubServices) ShopCleanupCandidates() []models.ShopItem {
	return s.candidates
}

func (s *stubServices) CachedPlayer() *models.Player {
	return s.player
}

func (s *stubServices) CleanupStockAndAutoSell(ctx context.Context, itemID string) (models.CleanupResult, error) {
	s.calls = append(s.calls, "cleanup")
	s.itemIDs = append(s.itemIDs, itemID)
	if s.cleanupErr != nil {
		return models.CleanupResult{}, s.cleanupErr
	}
	return s.cleanupResult, nil
}

func (s *stubServices) count(call string) int {
	n := 0
	for _, c := range s.calls {
		if c == call {
			n++
		}
	}
	return n
}

func stock(n int) *int { return &n }

func candidate(id, name string, quantity *int) models.ShopItem {
	return models.ShopItem{
		ID:    id,
		Def:   models.ItemDef{ID: "def_" + id, Name: name},
		Stock: quantity,
	}
}

func TestRenderEmptyState(t *testing.T) {
	svc := &stubServices{player: &models.Player{ID: 1, CatTickets: 12}}
	scr := NewStockCleanupScreen(svc, svc)

	scr.Load(context.Background())

	view := scr.Render()
	if view.Empty == nil {
		t.Fatal("expected empty panel")
	}
	if view.List != nil {
		t.Fatal("list must not render alongside the empty panel")
	}
	if view.Error != nil {
		t.Fatal("unexpected error panel")
	}
	if view.Loading {
		t.Fatal("loading flag must drop after the load finishes")
	}
}

func TestRenderKeepsCandidateOrder(t *testing.T) {
	svc := &stubServices{
		candidates: []models.ShopItem{
			candidate("fish_3", "さかな", stock(150)),
			candidate("ball_1", "ボール", stock(120)),
			candidate("herb_2", "ハーブ", stock(101)),
		},
	}
	scr := NewStockCleanupScreen(svc, svc)

	scr.Load(context.Background())

	view := scr.Render()
	if view.List == nil {
		t.Fatal("expected list panel")
	}
	want := []string{"fish_3", "ball_1", "herb_2"}
	if len(view.List.Items) != len(want) {
		t.Fatalf("expected %d rows got %d", len(want), len(view.List.Items))
	}
	for i, id := range want {
		if view.List.Items[i].ID != id {
			t.Fatalf("row %d: expected %s got %s", i, id, view.List.Items[i].ID)
		}
	}
}

func TestRenderTicketRow(t *testing.T) {
	svc := &stubServices{
		candidates: []models.ShopItem{candidate("ball_1", "ボール", stock(120))},
		player:     &models.Player{ID: 1, CatTickets: 34},
	}
	scr := NewStockCleanupScreen(svc, svc)

	scr.Load(context.Background())

	view := scr.Render()
	if view.List == nil {
		t.Fatal("expected list panel")
	}
	if view.List.TicketRow == nil {
		t.Fatal("expected ticket row when a player snapshot is loaded")
	}
	if view.List.TicketRow.Count != 34 {
		t.Fatalf("expected 34 got %d", view.List.TicketRow.Count)
	}
}

func TestRenderWithoutPlayerSnapshot(t *testing.T) {
	svc := &stubServices{
		candidates: []models.ShopItem{candidate("ball_1", "ボール", stock(120))},
	}
	scr := NewStockCleanupScreen(svc, svc)

	scr.Load(context.Background())

	view := scr.Render()
	if view.List == nil {
		t.Fatal("expected list panel")
	}
	if view.List.TicketRow != nil {
		t.Fatal("ticket row must be absent without a player snapshot")
	}
}

func TestFormatStockCount(t *testing.T) {
	cases := []struct {
		quantity int
		want     string
	}{
		{0, "0個"},
		{40, "40個"},
		{98, "98個"},
		{99, "99+個"},
		{150, "99+個"},
	}

	for _, tc := range cases {
		got := FormatStockCount(tc.quantity)
		if got != tc.want {
			t.Fatalf("quantity %d: expected %q got %q", tc.quantity, tc.want, got)
		}
	}
}

func TestRenderQuantityText(t *testing.T) {
	svc := &stubServices{
		candidates: []models.ShopItem{
			candidate("sword_1", "剣", stock(150)),
			candidate("coin_1", "コイン", stock(40)),
		},
	}
	scr := NewStockCleanupScreen(svc, svc)

	scr.Load(context.Background())

	view := scr.Render()
	if view.List == nil {
		t.Fatal("expected list panel")
	}
	if got := view.List.Items[0].QuantityText; got != "99+個" {
		t.Fatalf("expected 99+個 got %q", got)
	}
	if got := view.List.Items[1].QuantityText; got != "40個" {
		t.Fatalf("expected 40個 got %q", got)
	}
}

func TestRenderOmitsUntrackedQuantity(t *testing.T) {
	svc := &stubServices{
		candidates: []models.ShopItem{candidate("charm_1", "おまもり", nil)},
	}
	scr := NewStockCleanupScreen(svc, svc)

	scr.Load(context.Background())

	view := scr.Render()
	if view.List == nil {
		t.Fatal("expected list panel")
	}
	if got := view.List.Items[0].QuantityText; got != "" {
		t.Fatalf("expected no quantity text got %q", got)
	}
}

func TestLoadIgnoresDuplicateTrigger(t *testing.T) {
	svc := &stubServices{
		shopStarted: make(chan struct{}),
		shopRelease: make(chan struct{}),
	}
	scr := NewStockCleanupScreen(svc, svc)

	done := make(chan struct{})
	go func() {
		scr.Load(context.Background())
		close(done)
	}()

	<-svc.shopStarted

	scr.Load(context.Background())
	if got := svc.count("shop"); got != 1 {
		t.Fatalf("expected 1 shop load got %d", got)
	}

	view := scr.Render()
	if !view.Loading {
		t.Fatal("expected loading flag while a load is in flight")
	}
	if view.Empty != nil {
		t.Fatal("empty panel must not render while loading")
	}
	if view.List == nil {
		t.Fatal("expected neutral list panel while loading")
	}

	close(svc.shopRelease)
	<-done

	if got := svc.count("shop"); got != 1 {
		t.Fatalf("expected 1 shop load got %d", got)
	}
	if got := svc.count("game"); got != 1 {
		t.Fatalf("expected 1 game load got %d", got)
	}

	svc.shopStarted = nil
	svc.shopRelease = nil
	scr.Load(context.Background())
	if got := svc.count("shop"); got != 2 {
		t.Fatalf("expected the next load to run, shop loads = %d", got)
	}
}

func TestLoadFailureAndRetry(t *testing.T) {
	svc := &stubServices{
		candidates: []models.ShopItem{candidate("ball_1", "ボール", stock(120))},
		shopErr:    errors.New("shop items unavailable"),
	}
	scr := NewStockCleanupScreen(svc, svc)

	scr.Load(context.Background())

	view := scr.Render()
	if view.Error == nil {
		t.Fatal("expected error panel")
	}
	if view.Error.Message != "shop items unavailable" {
		t.Fatalf("expected the failure description, got %q", view.Error.Message)
	}
	if view.Error.RetryAction == "" {
		t.Fatal("error panel must expose a retry action")
	}
	if got := svc.count("game"); got != 0 {
		t.Fatalf("game load must not run after the shop load fails, got %d", got)
	}

	svc.shopErr = nil
	scr.Load(context.Background())

	view = scr.Render()
	if view.Error != nil {
		t.Fatal("error panel must clear after a successful retry")
	}
	if view.List == nil {
		t.Fatal("expected list panel after retry")
	}
	if got := svc.count("shop"); got != 2 {
		t.Fatalf("expected retry to reload shop items, got %d", got)
	}
	if got := svc.count("game"); got != 1 {
		t.Fatalf("expected retry to reload game state, got %d", got)
	}
}

func TestLoadFailureKeepsStaleData(t *testing.T) {
	svc := &stubServices{
		candidates: []models.ShopItem{candidate("ball_1", "ボール", stock(120))},
		player:     &models.Player{ID: 1, CatTickets: 7},
	}
	scr := NewStockCleanupScreen(svc, svc)

	scr.Load(context.Background())

	svc.gameErr = errors.New("game state unavailable")
	scr.Load(context.Background())

	view := scr.Render()
	if view.Error == nil {
		t.Fatal("expected error panel")
	}
	if view.Error.Message != "game state unavailable" {
		t.Fatalf("expected the second call's description, got %q", view.Error.Message)
	}

	scr.mu.Lock()
	kept := len(scr.candidates)
	keptPlayer := scr.player
	scr.mu.Unlock()
	if kept != 1 {
		t.Fatalf("failure must not clear loaded candidates, got %d", kept)
	}
	if keptPlayer == nil {
		t.Fatal("failure must not clear the player snapshot")
	}
}

func TestCleanupRefreshOrder(t *testing.T) {
	svc := &stubServices{
		candidates: []models.ShopItem{candidate("sword_1", "剣", stock(150))},
		cleanupResult: models.CleanupResult{
			ItemID: "sword_1", RemovedQuantity: 145, RetainedQuantity: 5, TicketsGranted: 14,
		},
	}
	scr := NewStockCleanupScreen(svc, svc)

	scr.Load(context.Background())
	scr.Cleanup(context.Background(), "sword_1")

	if len(svc.itemIDs) != 1 || svc.itemIDs[0] != "sword_1" {
		t.Fatalf("expected cleanup call with sword_1 got %v", svc.itemIDs)
	}

	tail := svc.calls[len(svc.calls)-3:]
	if tail[0] != "cleanup" || tail[1] != "game" || tail[2] != "shop" {
		t.Fatalf("expected cleanup, game, shop got %v", tail)
	}
}

func TestCleanupFailureSkipsRefresh(t *testing.T) {
	svc := &stubServices{
		candidates: []models.ShopItem{candidate("sword_1", "剣", stock(150))},
		cleanupErr: errors.New("stock is not above the cleanup threshold"),
	}
	scr := NewStockCleanupScreen(svc, svc)

	scr.Load(context.Background())
	scr.Cleanup(context.Background(), "sword_1")

	view := scr.Render()
	if view.Error == nil {
		t.Fatal("expected error panel")
	}
	if view.Error.Message != "stock is not above the cleanup threshold" {
		t.Fatalf("expected the failure description, got %q", view.Error.Message)
	}
	if got := svc.count("shop"); got != 1 {
		t.Fatalf("no refresh may follow a failed cleanup, shop loads = %d", got)
	}
	if got := svc.count("game"); got != 1 {
		t.Fatalf("no refresh may follow a failed cleanup, game loads = %d", got)
	}
}

func TestCleanupScenario(t *testing.T) {
	svc := &stubServices{
		candidates: []models.ShopItem{candidate("sword_1", "剣", stock(150))},
	}
	scr := NewStockCleanupScreen(svc, svc)

	scr.Load(context.Background())

	view := scr.Render()
	if view.List == nil {
		t.Fatal("expected list panel")
	}
	row := view.List.Items[0]
	if row.Name != "剣" {
		t.Fatalf("expected 剣 got %q", row.Name)
	}
	if row.QuantityText != "99+個" {
		t.Fatalf("expected 99+個 got %q", row.QuantityText)
	}

	svc.cleanupResult = models.CleanupResult{ItemID: "sword_1", RemovedQuantity: 145, RetainedQuantity: 5}
	svc.candidates = nil

	scr.Cleanup(context.Background(), row.ID)

	if svc.itemIDs[0] != "sword_1" {
		t.Fatalf("expected sword_1 got %s", svc.itemIDs[0])
	}
	view = scr.Render()
	if view.Empty == nil {
		t.Fatal("expected empty panel once no candidates remain")
	}
}
