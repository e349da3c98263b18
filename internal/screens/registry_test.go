package screens

import (
	"context"
	"testing"

	"nekoyaBack/internal/models"
)

type stubSessionServices struct {
	data      *stubServices
	requested []int
}

func (s *stubSessionServices) ForPlayer(playerID int) (UserData, AppServices) {
	s.requested = append(s.requested, playerID)
	return s.data, s.data
}

func TestRegistryOpenRunsInitialLoadOnce(t *testing.T) {
	svc := &stubServices{
		candidates: []models.ShopItem{candidate("ball_1", "ボール", stock(120))},
	}
	reg := NewRegistry(&stubSessionServices{data: svc})

	scr, created := reg.Open(context.Background(), 7)
	if !created {
		t.Fatal("expected a new session on first open")
	}
	if got := svc.count("shop"); got != 1 {
		t.Fatalf("expected the initial load to run, shop loads = %d", got)
	}

	again, created := reg.Open(context.Background(), 7)
	if created {
		t.Fatal("expected the existing session on reopen")
	}
	if again != scr {
		t.Fatal("expected the same session instance")
	}
	if got := svc.count("shop"); got != 1 {
		t.Fatalf("reopening must not reload, shop loads = %d", got)
	}
}

func TestRegistryCloseDestroysSession(t *testing.T) {
	svc := &stubServices{
		candidates: []models.ShopItem{candidate("ball_1", "ボール", stock(120))},
	}
	reg := NewRegistry(&stubSessionServices{data: svc})

	first, _ := reg.Open(context.Background(), 7)
	reg.Close(7)
	if reg.Get(7) != nil {
		t.Fatal("expected no session after close")
	}

	second, created := reg.Open(context.Background(), 7)
	if !created {
		t.Fatal("expected a fresh session after close")
	}
	if second == first {
		t.Fatal("expected a new screen instance")
	}
	if got := svc.count("shop"); got != 2 {
		t.Fatalf("expected a fresh initial load, shop loads = %d", got)
	}
}

func TestRegistrySessionsArePerPlayer(t *testing.T) {
	svc := &stubServices{}
	binder := &stubSessionServices{data: svc}
	reg := NewRegistry(binder)

	one, _ := reg.Open(context.Background(), 1)
	two, _ := reg.Open(context.Background(), 2)
	if one == two {
		t.Fatal("players must not share a screen session")
	}
	if len(binder.requested) != 2 || binder.requested[0] != 1 || binder.requested[1] != 2 {
		t.Fatalf("expected services bound for players 1 and 2, got %v", binder.requested)
	}
}

func TestRegistryGetWithoutOpen(t *testing.T) {
	reg := NewRegistry(&stubSessionServices{data: &stubServices{}})
	if reg.Get(3) != nil {
		t.Fatal("expected nil for a screen never opened")
	}
}
