package models

import (
	"errors"
)

var ErrItemNotFound = errors.New("shop item not found")
var ErrItemDefNotFound = errors.New("item definition not found")
var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateDevice    = errors.New("models: duplicate device id")
	ErrPlayerNotFound     = errors.New("models: player not found")
	ErrStockNotTracked    = errors.New("models: stock not tracked for item")
	ErrNothingToCleanup   = errors.New("models: stock is not above the cleanup threshold")
	ErrSessionExpired     = errors.New("models: session expired")
)
