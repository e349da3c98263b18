package repositories

import (
	"context"
	"database/sql"
	"time"

	"nekoyaBack/internal/models"
)

type PlayerRepository struct {
	DB *sql.DB
}

func (r *PlayerRepository) CreatePlayer(ctx context.Context, player models.Player) (models.Player, error) {
	query := `
        INSERT INTO players (name, device_id, device_secret, cat_tickets, role, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	player.CreatedAt = time.Now()
	player.UpdatedAt = &player.CreatedAt
	result, err := r.DB.ExecContext(ctx, query,
		player.Name, player.DeviceID, player.DeviceSecret, player.CatTickets, player.Role,
		player.CreatedAt, player.UpdatedAt,
	)
	if err != nil {
		return models.Player{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Player{}, err
	}
	player.ID = int(id)
	return player, nil
}

func (r *PlayerRepository) GetPlayerByID(ctx context.Context, id int) (models.Player, error) {
	var player models.Player
	query := `
        SELECT id, name, device_id, device_secret, cat_tickets, fcm_token, role, created_at, updated_at
        FROM players
        WHERE id = ?
    `
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&player.ID, &player.Name, &player.DeviceID, &player.DeviceSecret,
		&player.CatTickets, &player.FCMToken, &player.Role, &player.CreatedAt, &player.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Player{}, models.ErrPlayerNotFound
	}
	if err != nil {
		return models.Player{}, err
	}
	return player, nil
}

func (r *PlayerRepository) GetPlayerByDeviceID(ctx context.Context, deviceID string) (models.Player, error) {
	var player models.Player
	query := `
        SELECT id, name, device_id, device_secret, cat_tickets, fcm_token, role, created_at, updated_at
        FROM players
        WHERE device_id = ?
    `
	err := r.DB.QueryRowContext(ctx, query, deviceID).Scan(
		&player.ID, &player.Name, &player.DeviceID, &player.DeviceSecret,
		&player.CatTickets, &player.FCMToken, &player.Role, &player.CreatedAt, &player.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Player{}, models.ErrPlayerNotFound
	}
	if err != nil {
		return models.Player{}, err
	}
	return player, nil
}

func (r *PlayerRepository) SetSession(ctx context.Context, playerID int, session models.Session) error {
	query := `
        UPDATE players
        SET refresh_token = ?, expires_at = ?
        WHERE id = ?
    `
	result, err := r.DB.ExecContext(ctx, query, session.RefreshToken, session.ExpiresAt, playerID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrPlayerNotFound
	}
	return nil
}

func (r *PlayerRepository) GetPlayerByRefreshToken(ctx context.Context, refreshToken string) (models.Player, error) {
	var player models.Player
	var expiresAt time.Time
	query := `
        SELECT id, name, device_id, cat_tickets, role, expires_at, created_at, updated_at
        FROM players
        WHERE refresh_token = ?
    `
	err := r.DB.QueryRowContext(ctx, query, refreshToken).Scan(
		&player.ID, &player.Name, &player.DeviceID, &player.CatTickets, &player.Role,
		&expiresAt, &player.CreatedAt, &player.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Player{}, models.ErrNoRecord
	}
	if err != nil {
		return models.Player{}, err
	}
	if expiresAt.Before(time.Now()) {
		return models.Player{}, models.ErrSessionExpired
	}
	return player, nil
}

func (r *PlayerRepository) ClearSession(ctx context.Context, playerID int) error {
	query := `UPDATE players SET refresh_token = '' WHERE id = ?`
	_, err := r.DB.ExecContext(ctx, query, playerID)
	return err
}

func (r *PlayerRepository) SetFCMToken(ctx context.Context, playerID int, token string) error {
	query := `UPDATE players SET fcm_token = ?, updated_at = ? WHERE id = ?`
	result, err := r.DB.ExecContext(ctx, query, token, time.Now(), playerID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrPlayerNotFound
	}
	return nil
}
