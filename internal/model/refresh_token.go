package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore is the ledger of issued refresh tokens.
// Tokens are addressed by their SHA-256 hash, never by the raw string.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	Find(ctx context.Context, tokenHash []byte, userID uuid.UUID) (RefreshToken, error)
	DeleteByToken(ctx context.Context, tokenHash []byte) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RefreshToken is a ledger entry proving a session may mint access tokens.
type RefreshToken struct {
	ID        uuid.UUID
	TokenHash []byte
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the entry is no longer usable at now.
func (t RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
