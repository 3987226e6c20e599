// Package breaker isolates failing providers. After a run of failures a
// provider's circuit opens for a cooldown window during which calls fail fast
// without touching the network.
package breaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/observability"
)

// Config holds breaker settings.
type Config struct {
	FailureThreshold int           `env:"BREAKER_FAILURE_THRESHOLD" envDefault:"3"`
	Cooldown         time.Duration `env:"BREAKER_COOLDOWN"          envDefault:"60s"`
	Shared           bool          `env:"BREAKER_SHARED"            envDefault:"false"`
}

// SharedState mirrors open windows to a store other replicas can read.
type SharedState interface {
	MarkOpen(ctx context.Context, providerID string, until time.Time) error
	OpenUntil(ctx context.Context, providerID string) (time.Time, bool, error)
}

type circuit struct {
	failureCount int
	openUntil    time.Time
	probing      bool
}

// Breaker keeps one circuit per provider identifier.
type Breaker struct {
	mu       sync.Mutex
	circuits map[string]*circuit
	config   Config
	now      func() time.Time
	shared   SharedState
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		b.now = now
	}
}

// WithSharedState mirrors open windows through s.
func WithSharedState(s SharedState) Option {
	return func(b *Breaker) {
		b.shared = s
	}
}

// New creates a breaker. A threshold below one is treated as one.
func New(config Config, opts ...Option) *Breaker {
	if config.FailureThreshold < 1 {
		config.FailureThreshold = 1
	}

	b := &Breaker{
		circuits: make(map[string]*circuit),
		config:   config,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Call runs fn unless providerID's circuit is open. Failures count toward the
// threshold; a success closes the circuit. Once the cooldown has elapsed a
// single probe is let through while concurrent callers keep failing fast.
func (b *Breaker) Call(ctx context.Context, providerID string, fn func(ctx context.Context) error) error {
	probe, openErr := b.acquire(providerID)
	if openErr != nil {
		return openErr
	}

	if !probe && b.shared != nil {
		if until, open := b.sharedOpen(ctx, providerID); open {
			return &domain.CircuitOpenError{Provider: providerID, OpenUntil: until}
		}
	}

	err := fn(ctx)
	b.record(ctx, providerID, err, probe)
	return err
}

// Snapshot returns the current state of providerID's circuit.
func (b *Breaker) Snapshot(providerID string) domain.CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.circuits[providerID]
	if !ok {
		return domain.CircuitState{FailureCount: 0, OpenUntil: nil}
	}

	state := domain.CircuitState{FailureCount: c.failureCount, OpenUntil: nil}
	if !c.openUntil.IsZero() {
		until := c.openUntil
		state.OpenUntil = &until
	}
	return state
}

func (b *Breaker) acquire(providerID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.circuits[providerID]
	if !ok || c.openUntil.IsZero() {
		return false, nil
	}

	if b.now().Before(c.openUntil) || c.probing {
		return false, &domain.CircuitOpenError{Provider: providerID, OpenUntil: c.openUntil}
	}

	c.probing = true
	return true, nil
}

func (b *Breaker) record(ctx context.Context, providerID string, err error, probe bool) {
	logger := observability.FromContext(ctx)

	b.mu.Lock()

	if err == nil {
		delete(b.circuits, providerID)
		b.mu.Unlock()
		if probe {
			logger.Info("circuit closed after probe", observability.String("provider", providerID))
		}
		return
	}

	c, ok := b.circuits[providerID]
	if !ok {
		c = &circuit{}
		b.circuits[providerID] = c
	}

	// A caller that walked away tells us nothing about the provider.
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		c.probing = false
		if c.failureCount == 0 && c.openUntil.IsZero() {
			delete(b.circuits, providerID)
		}
		b.mu.Unlock()
		return
	}

	c.failureCount++
	opened := probe || c.failureCount >= b.config.FailureThreshold
	var until time.Time
	if opened {
		until = b.now().Add(b.config.Cooldown)
		c.openUntil = until
		c.failureCount = 0
	}
	c.probing = false
	b.mu.Unlock()

	if !opened {
		logger.Warn("provider failure recorded",
			observability.String("provider", providerID),
			observability.Error(err))
		return
	}

	logger.Error("circuit opened",
		observability.String("provider", providerID),
		observability.Duration("cooldown", b.config.Cooldown),
		observability.Bool("after_probe", probe),
		observability.Error(err))

	if b.shared != nil {
		if markErr := b.shared.MarkOpen(context.WithoutCancel(ctx), providerID, until); markErr != nil {
			logger.Warn("failed to share open circuit", observability.Error(markErr))
		}
	}
}

func (b *Breaker) sharedOpen(ctx context.Context, providerID string) (time.Time, bool) {
	until, ok, err := b.shared.OpenUntil(ctx, providerID)
	if err != nil {
		observability.FromContext(ctx).Warn("shared circuit state unavailable", observability.Error(err))
		return time.Time{}, false
	}
	if !ok || !b.now().Before(until) {
		return time.Time{}, false
	}
	return until, true
}
