package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"firebase.google.com/go/messaging"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"nekoyaBack/internal/config"
	"nekoyaBack/internal/handlers"
	"nekoyaBack/internal/models"
	"nekoyaBack/internal/repositories"
	"nekoyaBack/internal/screens"
	services "nekoyaBack/internal/services"
	"nekoyaBack/utils"
)

type application struct {
	errorLog            *log.Logger
	infoLog             *log.Logger
	config              config.Config
	db                  *sql.DB
	playerRepo          *repositories.PlayerRepository
	shopRepo            *repositories.ShopItemRepository
	playerHandler       *handlers.PlayerHandler
	shopItemHandler     *handlers.ShopItemHandler
	stockCleanupHandler *handlers.StockCleanupHandler
	userData            *services.UserDataService
	notifications       *services.NotificationService
	shopEvents          *ShopEventsHub
	screenRegistry      *screens.Registry
}

func initializeApp(cfg config.Config, db *sql.DB, rdb *redis.Client, fcmClient *messaging.Client, hub *ShopEventsHub, errorLog, infoLog *log.Logger) *application {
	// Repositories
	shopRepo := repositories.ShopItemRepository{DB: db}
	playerRepo := repositories.PlayerRepository{DB: db}
	ledgerRepo := repositories.TicketLedgerRepository{DB: db}

	// Services
	snapshotCache := services.NewSnapshotCache(rdb, time.Duration(cfg.Redis.SnapshotTTL)*time.Minute)
	userDataService := services.NewUserDataService(&shopRepo, &playerRepo, snapshotCache)
	shopProgressService := &services.ShopProgressService{ShopRepo: &shopRepo, Events: hub}
	cleanupService := &services.CleanupService{ShopRepo: &shopRepo, Events: hub}
	notificationService := &services.NotificationService{Client: fcmClient}

	tokenManager, err := utils.NewManager(cfg.Auth.SigningKey)
	if err != nil {
		errorLog.Fatal(err)
	}
	playerService := &services.PlayerService{
		PlayerRepo:   &playerRepo,
		LedgerRepo:   &ledgerRepo,
		TokenManager: tokenManager,
		SigningKey:   cfg.Auth.SigningKey,
		AccessTTL:    time.Duration(cfg.Auth.AccessTTL) * time.Minute,
	}

	// Screens
	registry := screens.NewRegistry(&screenBinder{userData: userDataService, cleanup: cleanupService})

	// Handlers
	storage := utils.S3Storage{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	}
	playerHandler := &handlers.PlayerHandler{Service: playerService, UserData: userDataService}
	shopItemHandler := &handlers.ShopItemHandler{Service: shopProgressService, Storage: storage, S3Folder: cfg.S3.Folder}
	stockCleanupHandler := &handlers.StockCleanupHandler{Screens: registry}

	return &application{
		errorLog:            errorLog,
		infoLog:             infoLog,
		config:              cfg,
		db:                  db,
		playerRepo:          &playerRepo,
		shopRepo:            &shopRepo,
		playerHandler:       playerHandler,
		shopItemHandler:     shopItemHandler,
		stockCleanupHandler: stockCleanupHandler,
		userData:            userDataService,
		notifications:       notificationService,
		shopEvents:          hub,
		screenRegistry:      registry,
	}
}

// screenBinder hands the stock-cleanup screen per-player views over the shared
// services, so screen code never carries a player id itself.
type screenBinder struct {
	userData *services.UserDataService
	cleanup  *services.CleanupService
}

func (b *screenBinder) ForPlayer(playerID int) (screens.UserData, screens.AppServices) {
	return playerData{svc: b.userData, playerID: playerID}, appBinding{svc: b.cleanup, playerID: playerID}
}

type playerData struct {
	svc      *services.UserDataService
	playerID int
}

func (d playerData) LoadShopItems(ctx context.Context) error {
	return d.svc.LoadShopItems(ctx, d.playerID)
}

func (d playerData) LoadGameState(ctx context.Context) error {
	return d.svc.LoadGameState(ctx, d.playerID)
}

func (d playerData) ShopCleanupCandidates() []models.ShopItem {
	return d.svc.ShopCleanupCandidates(d.playerID)
}

func (d playerData) CachedPlayer() *models.Player {
	return d.svc.CachedPlayer(d.playerID)
}

type appBinding struct {
	svc      *services.CleanupService
	playerID int
}

func (b appBinding) CleanupStockAndAutoSell(ctx context.Context, itemID string) (models.CleanupResult, error) {
	return b.svc.CleanupStockAndAutoSell(ctx, b.playerID, itemID)
}

func openDB(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
