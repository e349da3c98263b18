package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("player"))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("admin"))

	mux := pat.New()

	// Auth
	mux.Post("/auth/sign_up", standardMiddleware.ThenFunc(app.playerHandler.SignUp))
	mux.Post("/auth/sign_in", standardMiddleware.ThenFunc(app.playerHandler.SignIn))
	mux.Post("/auth/refresh", standardMiddleware.ThenFunc(app.playerHandler.Refresh))
	mux.Post("/auth/sign_out", authMiddleware.ThenFunc(app.playerHandler.SignOut))

	// Player
	mux.Get("/player", authMiddleware.ThenFunc(app.playerHandler.GetProfile))
	mux.Post("/player/fcm_token", authMiddleware.ThenFunc(app.playerHandler.RegisterFCMToken))
	mux.Get("/player/tickets", authMiddleware.ThenFunc(app.playerHandler.TicketHistory))

	// Stock cleanup screen
	mux.Get("/shop/cleanup", authMiddleware.ThenFunc(app.stockCleanupHandler.GetScreen))
	mux.Post("/shop/cleanup/retry", authMiddleware.ThenFunc(app.stockCleanupHandler.Retry))
	mux.Post("/shop/cleanup/items/:item_id", authMiddleware.ThenFunc(app.stockCleanupHandler.CleanupItem))
	mux.Del("/shop/cleanup", authMiddleware.ThenFunc(app.stockCleanupHandler.Dismiss))

	// Shop items
	mux.Get("/shop/items", authMiddleware.ThenFunc(app.shopItemHandler.GetItems))
	mux.Post("/shop/items", authMiddleware.ThenFunc(app.shopItemHandler.AddListing))
	mux.Post("/shop/items/:item_id/sale", authMiddleware.ThenFunc(app.shopItemHandler.RecordSale))

	// Item catalog
	mux.Post("/admin/items", adminAuthMiddleware.ThenFunc(app.shopItemHandler.CreateItemDef))

	// Shop events
	mux.Get("/ws/shop", authMiddleware.ThenFunc(app.ShopSocketHandler))

	return standardMiddleware.Then(mux)
}
