package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	refreshTokenPurgeInterval = 6 * time.Hour

	// RefreshTokenRetention is how long an expired or revoked refresh token
	// row is kept before it is deleted.
	RefreshTokenRetention = 7 * 24 * time.Hour
)

// RefreshTokenPurger deletes refresh tokens that expired or were revoked
// before the cutoff.
type RefreshTokenPurger interface {
	PurgeRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}

type HousekeepingJobs struct {
	tokens RefreshTokenPurger
	now    func() time.Time
}

func NewHousekeepingJobs(tokens RefreshTokenPurger) *HousekeepingJobs {
	return &HousekeepingJobs{tokens: tokens, now: time.Now}
}

func (j *HousekeepingJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_refresh_tokens", refreshTokenPurgeInterval, j.PurgeRefreshTokens)
}

func (j *HousekeepingJobs) PurgeRefreshTokens(ctx context.Context) error {
	cutoff := j.now().Add(-RefreshTokenRetention)

	deleted, err := j.tokens.PurgeRefreshTokens(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge refresh tokens: %w", err)
	}

	if deleted > 0 {
		slog.Info("Cron: purged refresh tokens", "deleted", deleted, "cutoff", cutoff)
	}
	return nil
}
