package auth

import (
	"context"
	"time"
)

// RefreshTokenRepository persists issued refresh tokens. Only a hash of the
// token is stored.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt time.Time, session SessionTrackingRequest) error

	// IsRefreshTokenRevoked returns the owning user ID and whether the token is
	// revoked or expired.
	IsRefreshTokenRevoked(ctx context.Context, token string) (userID string, revoked bool, err error)

	RevokeRefreshToken(ctx context.Context, token string) error

	// RevokeAllForUser revokes every active refresh token of the user
	RevokeAllForUser(ctx context.Context, userID string) error

	// PurgeRefreshTokens deletes tokens that expired or were revoked before
	// the cutoff and returns how many were removed.
	PurgeRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}
