package services

import (
	"context"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"nekoyaBack/internal/models"
	"nekoyaBack/internal/repositories"
	"nekoyaBack/utils"
)

const refreshTTL = 30 * 24 * time.Hour

type tokenClaims struct {
	jwt.StandardClaims
	PlayerID int    `json:"player_id"`
	Role     string `json:"role"`
}

type PlayerService struct {
	PlayerRepo   *repositories.PlayerRepository
	LedgerRepo   *repositories.TicketLedgerRepository
	TokenManager *utils.Manager
	SigningKey   string
	AccessTTL    time.Duration
}

func (s *PlayerService) SignUp(ctx context.Context, req models.SignUpRequest) (models.SignInResponse, error) {
	existing, err := s.PlayerRepo.GetPlayerByDeviceID(ctx, req.DeviceID)
	if err != nil && err != models.ErrPlayerNotFound {
		return models.SignInResponse{}, err
	}
	if existing.ID != 0 {
		return models.SignInResponse{}, models.ErrDuplicateDevice
	}

	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(req.DeviceSecret), bcrypt.DefaultCost)
	if err != nil {
		return models.SignInResponse{}, err
	}

	name := req.Name
	if name == "" {
		name = "店長"
	}

	player, err := s.PlayerRepo.CreatePlayer(ctx, models.Player{
		Name:         name,
		DeviceID:     req.DeviceID,
		DeviceSecret: string(hashedSecret),
		Role:         "player",
	})
	if err != nil {
		return models.SignInResponse{}, err
	}

	return s.issueTokens(ctx, player)
}

func (s *PlayerService) SignIn(ctx context.Context, req models.SignInRequest) (models.SignInResponse, error) {
	player, err := s.PlayerRepo.GetPlayerByDeviceID(ctx, req.DeviceID)
	if err == models.ErrPlayerNotFound {
		return models.SignInResponse{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.SignInResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.DeviceSecret), []byte(req.DeviceSecret)); err != nil {
		return models.SignInResponse{}, models.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, player)
}

func (s *PlayerService) RefreshTokens(ctx context.Context, refreshToken string) (models.SignInResponse, error) {
	player, err := s.PlayerRepo.GetPlayerByRefreshToken(ctx, refreshToken)
	if err != nil {
		return models.SignInResponse{}, err
	}
	return s.issueTokens(ctx, player)
}

func (s *PlayerService) issueTokens(ctx context.Context, player models.Player) (models.SignInResponse, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &tokenClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(s.AccessTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
		PlayerID: player.ID,
		Role:     player.Role,
	})

	accessToken, err := token.SignedString([]byte(s.SigningKey))
	if err != nil {
		log.Printf("Error signing token: %v", err)
		return models.SignInResponse{}, err
	}

	refreshToken := uuid.New().String()
	if s.TokenManager != nil {
		refreshToken, err = s.TokenManager.NewRefreshToken()
		if err != nil {
			return models.SignInResponse{}, err
		}
	}

	session := models.Session{
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(refreshTTL),
	}
	if err := s.PlayerRepo.SetSession(ctx, player.ID, session); err != nil {
		return models.SignInResponse{}, err
	}

	return models.SignInResponse{
		PlayerID:     player.ID,
		Name:         player.Name,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *PlayerService) SignOut(ctx context.Context, playerID int) error {
	return s.PlayerRepo.ClearSession(ctx, playerID)
}

func (s *PlayerService) Profile(ctx context.Context, playerID int) (models.Player, error) {
	player, err := s.PlayerRepo.GetPlayerByID(ctx, playerID)
	if err != nil {
		return models.Player{}, err
	}
	player.DeviceSecret = ""
	return player, nil
}

func (s *PlayerService) RegisterFCMToken(ctx context.Context, playerID int, token string) error {
	return s.PlayerRepo.SetFCMToken(ctx, playerID, token)
}

func (s *PlayerService) TicketHistory(ctx context.Context, playerID int, limit int) ([]models.TicketLedgerEntry, error) {
	return s.LedgerRepo.GetEntriesByPlayer(ctx, playerID, limit)
}
