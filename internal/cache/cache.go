package cache

import (
	"context"
	"time"

	"nosticpos/backend/internal/domain"
)

// SummaryCache holds the latest today-summary snapshot written by the
// background poller and read by the dashboard endpoint.
type SummaryCache interface {
	Get(ctx context.Context, key string) (*domain.TodaySummary, bool, error)
	Set(ctx context.Context, key string, value *domain.TodaySummary, ttl time.Duration) error
}

// TokenDenylist records revoked access tokens until they expire on their
// own. Logout is best-effort when the backing cache is a noop.
type TokenDenylist interface {
	Deny(ctx context.Context, tokenID string, ttl time.Duration) error
	IsDenied(ctx context.Context, tokenID string) (bool, error)
}

type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(_ context.Context, _ string) (*domain.TodaySummary, bool, error) {
	return nil, false, nil
}

func (NoopSummaryCache) Set(_ context.Context, _ string, _ *domain.TodaySummary, _ time.Duration) error {
	return nil
}

type NoopTokenDenylist struct{}

func (NoopTokenDenylist) Deny(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

func (NoopTokenDenylist) IsDenied(_ context.Context, _ string) (bool, error) {
	return false, nil
}
