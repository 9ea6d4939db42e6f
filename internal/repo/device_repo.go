package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supersaha/server/internal/model"
)

// DeviceRepo defines the interface for device pairing repository operations
type DeviceRepo interface {
	Create(ctx context.Context, playerID uuid.UUID, deviceName string) (model.DevicePairing, error)
	ListByPlayer(ctx context.Context, playerID uuid.UUID) ([]model.DevicePairing, error)
	TouchLastSeen(ctx context.Context, id uuid.UUID) error
}

type deviceRepo struct {
	db *sql.DB
}

// NewDeviceRepo creates a new DeviceRepo instance
func NewDeviceRepo(db *sql.DB) DeviceRepo {
	return &deviceRepo{db: db}
}

// Create pairs a new device to a player
func (r *deviceRepo) Create(ctx context.Context, playerID uuid.UUID, deviceName string) (model.DevicePairing, error) {
	query := `
		INSERT INTO device_pairings (player_id, device_name)
		VALUES ($1, $2)
		RETURNING id, paired_at
	`

	var pairing model.DevicePairing
	var idStr string
	var pairedAt time.Time

	err := r.db.QueryRowContext(ctx, query, playerID, deviceName).Scan(
		&idStr,
		&pairedAt,
	)
	if err != nil {
		return model.DevicePairing{}, fmt.Errorf("failed to create device pairing: %w", err)
	}

	pairing.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.DevicePairing{}, fmt.Errorf("failed to parse pairing ID: %w", err)
	}

	pairing.PlayerID = playerID
	pairing.DeviceName = deviceName
	pairing.PairedAt = pairedAt

	return pairing, nil
}

// ListByPlayer returns all device pairings for a player, newest first
func (r *deviceRepo) ListByPlayer(ctx context.Context, playerID uuid.UUID) ([]model.DevicePairing, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player_id, device_name, paired_at, last_seen_at
		FROM device_pairings
		WHERE player_id = $1
		ORDER BY paired_at DESC
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list device pairings: %w", err)
	}
	defer rows.Close()

	var pairings []model.DevicePairing
	for rows.Next() {
		var p model.DevicePairing
		var idStr, playerIDStr string
		if err := rows.Scan(&idStr, &playerIDStr, &p.DeviceName, &p.PairedAt, &p.LastSeenAt); err != nil {
			return nil, fmt.Errorf("failed to scan device pairing: %w", err)
		}
		p.ID, _ = uuid.Parse(idStr)
		p.PlayerID, _ = uuid.Parse(playerIDStr)
		pairings = append(pairings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate device pairings: %w", err)
	}
	return pairings, nil
}

// TouchLastSeen updates the pairing's last_seen_at timestamp
func (r *deviceRepo) TouchLastSeen(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE device_pairings SET last_seen_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to update last_seen_at: %w", err)
	}
	return nil
}
