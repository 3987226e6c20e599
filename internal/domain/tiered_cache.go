package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/davidbz/quill/internal/observability"
)

// TieredCacheConfig holds the cache tier settings.
type TieredCacheConfig struct {
	ExpectedDimension int           `env:"EMBEDDING_DIMENSION"   envDefault:"1536"`
	PersistentTTL     time.Duration `env:"CACHE_PERSISTENT_TTL"  envDefault:"720h"`
	IndexTTL          time.Duration `env:"CACHE_INDEX_TTL"       envDefault:"168h"`
	LocalSize         int           `env:"CACHE_LOCAL_SIZE"      envDefault:"4096"`
	NormalizerVersion string        `env:"CACHE_NORMALIZER_VERSION" envDefault:"v1"`
}

// LookupOption adjusts a single GetOrCreate call.
type LookupOption func(*lookupOptions)

type lookupOptions struct {
	generate bool
}

// WithoutGeneration makes a lookup return ErrNoVector instead of calling the provider on a full miss.
func WithoutGeneration() LookupOption {
	return func(o *lookupOptions) {
		o.generate = false
	}
}

// WithGeneration sets whether a full miss may call the provider.
func WithGeneration(generate bool) LookupOption {
	return func(o *lookupOptions) {
		o.generate = generate
	}
}

// TieredCache resolves embeddings through the local, persistent and index tiers
// before generating. Store and index are optional.
type TieredCache struct {
	fingerprints Fingerprinter
	local        LocalTier
	store        PersistentStore
	index        VectorIndex
	embedder     Embedder
	config       TieredCacheConfig
	now          func() time.Time
	inflight     singleflight.Group
}

// NewTieredCache creates the cache manager. Pass nil for a disabled store or index.
func NewTieredCache(
	fingerprints Fingerprinter,
	local LocalTier,
	store PersistentStore,
	index VectorIndex,
	embedder Embedder,
	config TieredCacheConfig,
) *TieredCache {
	return &TieredCache{
		fingerprints: fingerprints,
		local:        local,
		store:        store,
		index:        index,
		embedder:     embedder,
		config:       config,
		now:          time.Now,
	}
}

// SetClock replaces the time source used for expiry checks.
func (c *TieredCache) SetClock(now func() time.Time) {
	c.now = now
}

// GetEmbedding is the exposed lookup: a nil vector with ErrNoVector means nothing was cached
// and generation was not allowed.
func (c *TieredCache) GetEmbedding(
	ctx context.Context,
	text, modelID string,
	generateIfMissing bool,
) ([]float64, error) {
	return c.GetOrCreate(ctx, text, modelID, WithGeneration(generateIfMissing))
}

// GetOrCreate returns the vector for text under modelID, filling faster tiers on the way back.
func (c *TieredCache) GetOrCreate(
	ctx context.Context,
	text, modelID string,
	opts ...LookupOption,
) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("text cannot be empty")
	}
	if modelID == "" {
		return nil, errors.New("model cannot be empty")
	}

	options := lookupOptions{generate: true}
	for _, opt := range opts {
		opt(&options)
	}

	key := c.fingerprints.Fingerprint(text, modelID)
	logger := observability.FromContext(ctx).With(
		observability.String("fingerprint", key),
		observability.String("embedding_model", modelID),
	)

	if entry, ok := c.local.Get(key); ok && c.usable(logger, &entry, TierLocal) {
		logger.Debug("embedding cache hit", observability.String("tier", string(TierLocal)))
		return entry.Vector, nil
	}
	missed := []SourceTier{TierLocal}

	if c.store != nil {
		entry, err := c.store.Get(ctx, key)
		if c.hit(logger, entry, err, TierPersistent) {
			c.backfill(ctx, logger, entry, missed)
			return entry.Vector, nil
		}
		missed = append(missed, TierPersistent)
	}

	if c.index != nil {
		entry, err := c.index.Lookup(ctx, key)
		if c.hit(logger, entry, err, TierIndex) {
			c.backfill(ctx, logger, entry, missed)
			return entry.Vector, nil
		}
		missed = append(missed, TierIndex)
	}

	if !options.generate {
		logger.Debug("embedding cache miss, generation disabled")
		return nil, ErrNoVector
	}

	// The shared generation outlives any single caller; the embedder bounds it
	// with its own call timeout.
	genCtx := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(key, func() (interface{}, error) {
		return c.generate(genCtx, logger, key, text, modelID, missed)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		logger.Debug("embedding generation shared with concurrent caller")
	}

	entry, ok := res.Val.(*CacheEntry)
	if !ok {
		return nil, fmt.Errorf("unexpected generation result %T", res.Val)
	}
	return entry.Vector, nil
}

// hit interprets one tier read. Read errors and unusable entries fall through as misses.
func (c *TieredCache) hit(logger *zap.Logger, entry *CacheEntry, err error, tier SourceTier) bool {
	switch {
	case errors.Is(err, ErrCacheMiss):
		return false
	case err != nil:
		logger.Warn("cache tier read failed, treating as miss",
			observability.String("tier", string(tier)),
			observability.Error(err))
		return false
	case entry == nil:
		return false
	}

	if !c.usable(logger, entry, tier) {
		return false
	}

	logger.Debug("embedding cache hit", observability.String("tier", string(tier)))
	return true
}

// usable enforces the dimension and expiry invariants on every read.
func (c *TieredCache) usable(logger *zap.Logger, entry *CacheEntry, tier SourceTier) bool {
	if entry.Dimension != c.config.ExpectedDimension || len(entry.Vector) != c.config.ExpectedDimension {
		logger.Warn("cached embedding dimension mismatch, entry ignored",
			observability.String("tier", string(tier)),
			observability.Int("expected_dimension", c.config.ExpectedDimension),
			observability.Int("entry_dimension", entry.Dimension),
			observability.Int("vector_length", len(entry.Vector)))
		return false
	}

	if entry.Expired(c.now()) {
		logger.Debug("cached embedding expired", observability.String("tier", string(tier)))
		return false
	}

	return true
}

// generate calls the embedder and writes the entry to every configured tier.
func (c *TieredCache) generate(
	ctx context.Context,
	logger *zap.Logger,
	key, text, modelID string,
	tiers []SourceTier,
) (*CacheEntry, error) {
	vector, err := c.embedder.Embed(ctx, text, modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	// The embedder validates dimension; this guards embedders that do not.
	if len(vector) != c.config.ExpectedDimension {
		logger.Warn("generated embedding dimension mismatch, not cached",
			observability.Int("expected_dimension", c.config.ExpectedDimension),
			observability.Int("vector_length", len(vector)))
		return nil, &DimensionMismatchError{Model: modelID, Expected: c.config.ExpectedDimension, Got: len(vector)}
	}

	now := c.now()
	entry := &CacheEntry{
		Fingerprint: key,
		Model:       modelID,
		Vector:      vector,
		Dimension:   len(vector),
		SourceTier:  TierGenerated,
		CreatedAt:   now,
		ExpiresAt:   nil,
	}
	if c.config.PersistentTTL > 0 {
		expires := now.Add(c.config.PersistentTTL)
		entry.ExpiresAt = &expires
	}

	logger.Info("embedding generated", observability.Int("embedding_dimension", len(vector)))

	// Slowest tier first so a crash mid-way never leaves a fast tier ahead of a slow one.
	for i := len(tiers) - 1; i >= 0; i-- {
		c.write(ctx, logger, entry, tiers[i])
	}

	return entry, nil
}

// backfill copies a hit into the faster tiers that missed.
func (c *TieredCache) backfill(ctx context.Context, logger *zap.Logger, entry *CacheEntry, missed []SourceTier) {
	for _, tier := range missed {
		c.write(ctx, logger, entry, tier)
	}
}

func (c *TieredCache) write(ctx context.Context, logger *zap.Logger, entry *CacheEntry, tier SourceTier) {
	var err error

	switch tier {
	case TierLocal:
		c.local.Add(*entry)
	case TierPersistent:
		if c.store != nil {
			err = c.store.Put(ctx, entry)
		}
	case TierIndex:
		if c.index != nil {
			err = c.index.Upsert(ctx, entry, c.config.IndexTTL)
		}
	case TierGenerated:
	}

	if err != nil {
		logger.Warn("cache tier write failed",
			observability.String("tier", string(tier)),
			observability.Error(err))
	}
}
