package model

import (
	"time"

	"github.com/google/uuid"
)

// Player represents a player account, identified by E.164 phone number
type Player struct {
	ID          uuid.UUID
	PhoneNumber string
	DisplayName string
	CreatedAt   time.Time
}

// DevicePairing represents a device paired to a player account
type DevicePairing struct {
	ID         uuid.UUID
	PlayerID   uuid.UUID
	DeviceName string
	PairedAt   time.Time
	LastSeenAt *time.Time
}

// RefreshSession represents a refresh token session
type RefreshSession struct {
	ID         uuid.UUID
	PlayerID   uuid.UUID
	TokenHash  string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	ReplacedBy *uuid.UUID
}
