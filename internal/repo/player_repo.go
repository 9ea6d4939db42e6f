package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/supersaha/server/internal/model"
)

// PlayerRepo defines the interface for player repository operations
type PlayerRepo interface {
	GetByID(ctx context.Context, id string) (model.Player, error)
	GetOrCreateByPhone(ctx context.Context, phone string) (model.Player, error)
	GetByPhone(ctx context.Context, phone string) (model.Player, error)
	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error
}

type playerRepo struct {
	db *sql.DB
}

// NewPlayerRepo creates a new PlayerRepo instance
func NewPlayerRepo(db *sql.DB) PlayerRepo {
	return &playerRepo{db: db}
}

// GetByID retrieves a player by ID
func (r *playerRepo) GetByID(ctx context.Context, id string) (model.Player, error) {
	query := `
		SELECT id, phone_number, display_name, created_at
		FROM players
		WHERE id = $1
	`
	var player model.Player
	var idStr string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&idStr,
		&player.PhoneNumber,
		&player.DisplayName,
		&player.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Player{}, fmt.Errorf("player not found: %w", err)
		}
		return model.Player{}, fmt.Errorf("failed to query player: %w", err)
	}
	player.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.Player{}, fmt.Errorf("failed to parse player ID: %w", err)
	}
	return player, nil
}

// GetOrCreateByPhone retrieves a player by E.164 phone number or creates one if it doesn't exist
func (r *playerRepo) GetOrCreateByPhone(ctx context.Context, phone string) (model.Player, error) {
	// Try to insert first, using ON CONFLICT DO NOTHING
	query := `
		INSERT INTO players (phone_number)
		VALUES ($1)
		ON CONFLICT (phone_number) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, phone)
	if err != nil {
		return model.Player{}, fmt.Errorf("failed to insert player: %w", err)
	}

	// Now select the player (whether it was just created or already existed)
	return r.GetByPhone(ctx, phone)
}

// GetByPhone retrieves a player by E.164 phone number
func (r *playerRepo) GetByPhone(ctx context.Context, phone string) (model.Player, error) {
	query := `
		SELECT id, phone_number, display_name, created_at
		FROM players
		WHERE phone_number = $1
	`

	var player model.Player
	var idStr string
	err := r.db.QueryRowContext(ctx, query, phone).Scan(
		&idStr,
		&player.PhoneNumber,
		&player.DisplayName,
		&player.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Player{}, fmt.Errorf("player not found: %w", err)
		}
		return model.Player{}, fmt.Errorf("failed to query player: %w", err)
	}

	player.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.Player{}, fmt.Errorf("failed to parse player ID: %w", err)
	}

	return player, nil
}

// UpdateDisplayName sets the display name shown on rankings and dashboards
func (r *playerRepo) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE players SET display_name = $2 WHERE id = $1
	`, id, displayName)
	if err != nil {
		return fmt.Errorf("failed to update display name: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("player not found")
	}
	return nil
}
