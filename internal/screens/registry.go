package screens

import (
	"context"
	"sync"
)

// SessionServices binds a player id to the service views a screen consumes.
type SessionServices interface {
	ForPlayer(playerID int) (UserData, AppServices)
}

// Registry keeps one stock-cleanup screen session per player. A session is
// created when the player first opens the screen and destroyed on dismiss.
type Registry struct {
	services SessionServices

	mu      sync.Mutex
	screens map[int]*StockCleanupScreen
}

func NewRegistry(services SessionServices) *Registry {
	return &Registry{
		services: services,
		screens:  make(map[int]*StockCleanupScreen),
	}
}

// Open returns the player's screen session. On first open it creates the
// session and runs the initial load before returning; created reports whether
// that happened on this call.
func (r *Registry) Open(ctx context.Context, playerID int) (scr *StockCleanupScreen, created bool) {
	r.mu.Lock()
	scr, ok := r.screens[playerID]
	if !ok {
		userData, app := r.services.ForPlayer(playerID)
		scr = NewStockCleanupScreen(userData, app)
		r.screens[playerID] = scr
	}
	r.mu.Unlock()

	if !ok {
		scr.Load(ctx)
	}
	return scr, !ok
}

// Get returns the player's open session, or nil when the screen is not open.
func (r *Registry) Get(playerID int) *StockCleanupScreen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.screens[playerID]
}

// Close destroys the player's session. The next Open starts from a clean
// screen with a fresh initial load.
func (r *Registry) Close(playerID int) {
	r.mu.Lock()
	delete(r.screens, playerID)
	r.mu.Unlock()
}
