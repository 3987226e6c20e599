package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const breakerPrefix = "breaker:"

// BreakerState publishes open circuit windows so every replica fails fast together.
type BreakerState struct {
	client *redis.Client
	now    func() time.Time
}

// NewBreakerState creates the shared breaker store.
func NewBreakerState(client *redis.Client) *BreakerState {
	return &BreakerState{client: client, now: time.Now}
}

// MarkOpen records that providerID is open until the given time.
func (s *BreakerState) MarkOpen(ctx context.Context, providerID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.client.Set(ctx, breakerPrefix+providerID, until.UnixMilli(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to mark circuit open: %w", err)
	}
	return nil
}

// OpenUntil returns the shared open window for providerID, if any.
func (s *BreakerState) OpenUntil(ctx context.Context, providerID string) (time.Time, bool, error) {
	raw, err := s.client.Get(ctx, breakerPrefix+providerID).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read circuit state: %w", err)
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("malformed circuit state %q: %w", raw, err)
	}
	return time.UnixMilli(ms), true, nil
}
