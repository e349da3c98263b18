package models

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

type Player struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	DeviceID     string     `json:"device_id,omitempty"`
	DeviceSecret string     `json:"device_secret,omitempty"`
	CatTickets   int        `json:"cat_tickets"`
	FCMToken     *string    `json:"fcm_token,omitempty"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type Claims struct {
	PlayerID uint   `json:"player_id"`
	Role     string `json:"role"`
	jwt.StandardClaims
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type Session struct {
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type SignUpRequest struct {
	Name         string `json:"name"`
	DeviceID     string `json:"device_id"`
	DeviceSecret string `json:"device_secret"`
}

type SignInRequest struct {
	DeviceID     string `json:"device_id"`
	DeviceSecret string `json:"device_secret"`
}

type SignInResponse struct {
	PlayerID     int    `json:"player_id"`
	Name         string `json:"name"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateFCMTokenRequest struct {
	FCMToken string `json:"fcm_token"`
}
