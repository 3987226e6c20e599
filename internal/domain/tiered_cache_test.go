package domain_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/quill/internal/cache/memory"
	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/fingerprint"
	"github.com/davidbz/quill/internal/mocks"
)

const (
	testModel     = "text-embedding-3-small"
	testDimension = 1536
)

func vectorOf(dimension int, seed float64) []float64 {
	v := make([]float64, dimension)
	for i := range v {
		v[i] = seed + float64(i)/float64(dimension)
	}
	return v
}

func cacheConfig() domain.TieredCacheConfig {
	return domain.TieredCacheConfig{
		ExpectedDimension: testDimension,
		PersistentTTL:     24 * time.Hour,
		IndexTTL:          time.Hour,
		LocalSize:         16,
		NormalizerVersion: fingerprint.DefaultNormalizerVersion,
	}
}

type cacheFixture struct {
	cache    *domain.TieredCache
	local    *memory.Tier
	store    *mocks.MockPersistentStore
	index    *mocks.MockVectorIndex
	embedder *mocks.MockEmbedder
	engine   *fingerprint.Engine
}

func newCacheFixture(t *testing.T) *cacheFixture {
	t.Helper()

	local, err := memory.NewTier(16)
	require.NoError(t, err)

	f := &cacheFixture{
		local:    local,
		store:    mocks.NewMockPersistentStore(t),
		index:    mocks.NewMockVectorIndex(t),
		embedder: mocks.NewMockEmbedder(t),
		engine:   fingerprint.NewEngine(fingerprint.DefaultNormalizerVersion),
	}
	f.cache = domain.NewTieredCache(f.engine, f.local, f.store, f.index, f.embedder, cacheConfig())
	return f
}

func TestTieredCache_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("should generate once and serve the second call from the local tier", func(t *testing.T) {
		f := newCacheFixture(t)
		key := f.engine.Fingerprint("Ship small, ship often", testModel)
		vector := vectorOf(testDimension, 0.1)

		f.store.EXPECT().Get(mock.Anything, key).Return(nil, domain.ErrCacheMiss).Once()
		f.index.EXPECT().Lookup(mock.Anything, key).Return(nil, domain.ErrCacheMiss).Once()
		f.embedder.EXPECT().Embed(mock.Anything, "Ship small, ship often", testModel).Return(vector, nil).Once()
		f.index.EXPECT().Upsert(mock.Anything, mock.MatchedBy(func(e *domain.CacheEntry) bool {
			return e.Fingerprint == key && e.Dimension == testDimension && e.ExpiresAt != nil
		}), time.Hour).Return(nil).Once()
		f.store.EXPECT().Put(mock.Anything, mock.AnythingOfType("*domain.CacheEntry")).Return(nil).Once()

		first, err := f.cache.GetOrCreate(ctx, "Ship small, ship often", testModel)
		require.NoError(t, err)
		require.Equal(t, vector, first)

		// Same text with cosmetic differences hits the local tier without touching the store.
		second, err := f.cache.GetOrCreate(ctx, "  ship SMALL,   ship often  ", testModel)
		require.NoError(t, err)
		require.Equal(t, vector, second)
		require.Equal(t, 1, f.local.Len())
	})

	t.Run("should ignore a persistent entry with the wrong dimension", func(t *testing.T) {
		f := newCacheFixture(t)
		key := f.engine.Fingerprint("topic", testModel)
		stale := &domain.CacheEntry{
			Fingerprint: key,
			Model:       testModel,
			Vector:      vectorOf(3072, 0.5),
			Dimension:   3072,
			CreatedAt:   time.Now(),
		}
		fresh := vectorOf(testDimension, 0.2)

		f.store.EXPECT().Get(mock.Anything, key).Return(stale, nil).Once()
		f.index.EXPECT().Lookup(mock.Anything, key).Return(nil, domain.ErrCacheMiss).Once()
		f.embedder.EXPECT().Embed(mock.Anything, "topic", testModel).Return(fresh, nil).Once()
		f.index.EXPECT().Upsert(mock.Anything, mock.Anything, time.Hour).Return(nil).Once()
		f.store.EXPECT().Put(mock.Anything, mock.Anything).Return(nil).Once()

		got, err := f.cache.GetOrCreate(ctx, "topic", testModel)
		require.NoError(t, err)
		require.Len(t, got, testDimension)
		require.Equal(t, fresh, got)
	})

	t.Run("should return ErrNoVector without generating when generation is disabled", func(t *testing.T) {
		f := newCacheFixture(t)
		key := f.engine.Fingerprint("topic", testModel)

		f.store.EXPECT().Get(mock.Anything, key).Return(nil, domain.ErrCacheMiss).Once()
		f.index.EXPECT().Lookup(mock.Anything, key).Return(nil, domain.ErrCacheMiss).Once()

		got, err := f.cache.GetEmbedding(ctx, "topic", testModel, false)
		require.ErrorIs(t, err, domain.ErrNoVector)
		require.Nil(t, got)
		f.embedder.AssertNotCalled(t, "Embed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should backfill persistent and local tiers on an index hit", func(t *testing.T) {
		f := newCacheFixture(t)
		key := f.engine.Fingerprint("topic", testModel)
		indexed := &domain.CacheEntry{
			Fingerprint: key,
			Model:       testModel,
			Vector:      vectorOf(testDimension, 0.3),
			Dimension:   testDimension,
			SourceTier:  domain.TierIndex,
			CreatedAt:   time.Now(),
		}

		f.store.EXPECT().Get(mock.Anything, key).Return(nil, domain.ErrCacheMiss).Once()
		f.index.EXPECT().Lookup(mock.Anything, key).Return(indexed, nil).Once()
		f.store.EXPECT().Put(mock.Anything, indexed).Return(nil).Once()

		got, err := f.cache.GetOrCreate(ctx, "topic", testModel, domain.WithoutGeneration())
		require.NoError(t, err)
		require.Equal(t, indexed.Vector, got)

		cached, ok := f.local.Get(key)
		require.True(t, ok)
		require.Equal(t, indexed.Vector, cached.Vector)

		again, err := f.cache.GetOrCreate(ctx, "topic", testModel, domain.WithoutGeneration())
		require.NoError(t, err)
		require.Equal(t, indexed.Vector, again)
	})

	t.Run("should backfill only the local tier on a persistent hit", func(t *testing.T) {
		f := newCacheFixture(t)
		key := f.engine.Fingerprint("topic", testModel)
		stored := &domain.CacheEntry{
			Fingerprint: key,
			Model:       testModel,
			Vector:      vectorOf(testDimension, 0.4),
			Dimension:   testDimension,
			CreatedAt:   time.Now(),
		}

		f.store.EXPECT().Get(mock.Anything, key).Return(stored, nil).Once()

		got, err := f.cache.GetOrCreate(ctx, "topic", testModel)
		require.NoError(t, err)
		require.Equal(t, stored.Vector, got)

		_, ok := f.local.Get(key)
		require.True(t, ok)

		// The store expectation is Once: a second read would fail the mock.
		again, err := f.cache.GetOrCreate(ctx, "topic", testModel)
		require.NoError(t, err)
		require.Equal(t, stored.Vector, again)
	})

	t.Run("should treat a persistent read error as a miss", func(t *testing.T) {
		f := newCacheFixture(t)
		key := f.engine.Fingerprint("topic", testModel)
		vector := vectorOf(testDimension, 0.6)

		f.store.EXPECT().Get(mock.Anything, key).Return(nil, errors.New("connection refused")).Once()
		f.index.EXPECT().Lookup(mock.Anything, key).Return(nil, domain.ErrCacheMiss).Once()
		f.embedder.EXPECT().Embed(mock.Anything, "topic", testModel).Return(vector, nil).Once()
		f.index.EXPECT().Upsert(mock.Anything, mock.Anything, time.Hour).Return(nil).Once()
		f.store.EXPECT().Put(mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

		got, err := f.cache.GetOrCreate(ctx, "topic", testModel)
		require.NoError(t, err)
		require.Equal(t, vector, got)
	})

	t.Run("should treat an expired local entry as a miss", func(t *testing.T) {
		f := newCacheFixture(t)
		now := time.Unix(1_700_000_000, 0)
		f.cache.SetClock(func() time.Time { return now })
		key := f.engine.Fingerprint("topic", testModel)

		expired := now.Add(-time.Minute)
		f.local.Add(domain.CacheEntry{
			Fingerprint: key,
			Model:       testModel,
			Vector:      vectorOf(testDimension, 0.7),
			Dimension:   testDimension,
			ExpiresAt:   &expired,
		})

		f.store.EXPECT().Get(mock.Anything, key).Return(nil, domain.ErrCacheMiss).Once()
		f.index.EXPECT().Lookup(mock.Anything, key).Return(nil, domain.ErrCacheMiss).Once()

		_, err := f.cache.GetOrCreate(ctx, "topic", testModel, domain.WithoutGeneration())
		require.ErrorIs(t, err, domain.ErrNoVector)
	})

	t.Run("should propagate generation failures without caching", func(t *testing.T) {
		f := newCacheFixture(t)
		key := f.engine.Fingerprint("topic", testModel)
		providerErr := &domain.ProviderError{Provider: "openai", Model: testModel, Err: errors.New("503")}

		f.store.EXPECT().Get(mock.Anything, key).Return(nil, domain.ErrCacheMiss).Once()
		f.index.EXPECT().Lookup(mock.Anything, key).Return(nil, domain.ErrCacheMiss).Once()
		f.embedder.EXPECT().Embed(mock.Anything, "topic", testModel).Return(nil, providerErr).Once()

		_, err := f.cache.GetOrCreate(ctx, "topic", testModel)
		require.ErrorIs(t, err, domain.ErrProviderFailure)
		require.Zero(t, f.local.Len())
	})

	t.Run("should work without persistent and index tiers", func(t *testing.T) {
		local, err := memory.NewTier(4)
		require.NoError(t, err)
		embedder := mocks.NewMockEmbedder(t)
		engine := fingerprint.NewEngine(fingerprint.DefaultNormalizerVersion)
		cache := domain.NewTieredCache(engine, local, nil, nil, embedder, cacheConfig())

		vector := vectorOf(testDimension, 0.8)
		embedder.EXPECT().Embed(mock.Anything, "topic", testModel).Return(vector, nil).Once()

		for range 3 {
			got, getErr := cache.GetOrCreate(ctx, "topic", testModel)
			require.NoError(t, getErr)
			require.Equal(t, vector, got)
		}
	})

	t.Run("should reject empty text", func(t *testing.T) {
		f := newCacheFixture(t)

		_, err := f.cache.GetOrCreate(ctx, "   ", testModel)
		require.Error(t, err)
	})
}

// doneSignal reports the first time a caller starts waiting on Done.
type doneSignal struct {
	context.Context
	once    sync.Once
	waiting chan struct{}
}

func (d *doneSignal) Done() <-chan struct{} {
	d.once.Do(func() { close(d.waiting) })
	return d.Context.Done()
}

func TestTieredCache_SharedGeneration(t *testing.T) {
	t.Run("should keep generating for other callers when the first caller cancels", func(t *testing.T) {
		local, err := memory.NewTier(4)
		require.NoError(t, err)
		embedder := mocks.NewMockEmbedder(t)
		engine := fingerprint.NewEngine(fingerprint.DefaultNormalizerVersion)
		cache := domain.NewTieredCache(engine, local, nil, nil, embedder, cacheConfig())

		vector := vectorOf(testDimension, 0.9)
		started := make(chan struct{})
		release := make(chan struct{})
		embedder.EXPECT().Embed(mock.Anything, "topic", testModel).
			RunAndReturn(func(ctx context.Context, _, _ string) ([]float64, error) {
				close(started)
				select {
				case <-release:
					return vector, nil
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}).Once()

		firstCtx, cancelFirst := context.WithCancel(context.Background())
		firstErr := make(chan error, 1)
		go func() {
			_, getErr := cache.GetOrCreate(firstCtx, "topic", testModel)
			firstErr <- getErr
		}()

		<-started
		cancelFirst()
		require.ErrorIs(t, <-firstErr, context.Canceled)

		second := &doneSignal{Context: context.Background(), waiting: make(chan struct{})}
		type outcome struct {
			vector []float64
			err    error
		}
		secondResult := make(chan outcome, 1)
		go func() {
			got, getErr := cache.GetOrCreate(second, "topic", testModel)
			secondResult <- outcome{vector: got, err: getErr}
		}()

		<-second.waiting
		close(release)

		res := <-secondResult
		require.NoError(t, res.err)
		require.Equal(t, vector, res.vector)

		cached, ok := local.Get(engine.Fingerprint("topic", testModel))
		require.True(t, ok)
		require.Equal(t, vector, cached.Vector)
	})

	t.Run("should return the caller's context error while generation is pending", func(t *testing.T) {
		local, err := memory.NewTier(4)
		require.NoError(t, err)
		embedder := mocks.NewMockEmbedder(t)
		engine := fingerprint.NewEngine(fingerprint.DefaultNormalizerVersion)
		cache := domain.NewTieredCache(engine, local, nil, nil, embedder, cacheConfig())

		release := make(chan struct{})
		done := make(chan struct{})
		embedder.EXPECT().Embed(mock.Anything, "topic", testModel).
			RunAndReturn(func(context.Context, string, string) ([]float64, error) {
				defer close(done)
				<-release
				return vectorOf(testDimension, 0.1), nil
			}).Once()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err = cache.GetOrCreate(ctx, "topic", testModel)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		close(release)
		<-done
	})
}
