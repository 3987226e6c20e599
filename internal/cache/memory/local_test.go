package memory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/quill/internal/cache/memory"
	"github.com/davidbz/quill/internal/domain"
)

func entry(fp string, v ...float64) domain.CacheEntry {
	return domain.CacheEntry{
		Fingerprint: fp,
		Model:       "text-embedding-3-small",
		Vector:      v,
		Dimension:   len(v),
		SourceTier:  domain.TierGenerated,
		CreatedAt:   time.Unix(1_700_000_000, 0),
	}
}

func TestTier(t *testing.T) {
	t.Run("should reject a non-positive size", func(t *testing.T) {
		_, err := memory.NewTier(0)
		require.Error(t, err)
	})

	t.Run("should store and return entries", func(t *testing.T) {
		tier, err := memory.NewTier(4)
		require.NoError(t, err)

		tier.Add(entry("a", 1, 2))

		got, ok := tier.Get("a")
		require.True(t, ok)
		require.Equal(t, []float64{1, 2}, got.Vector)
		require.Equal(t, domain.TierLocal, got.SourceTier)

		_, ok = tier.Get("missing")
		require.False(t, ok)
	})

	t.Run("should evict the least recently used entry", func(t *testing.T) {
		tier, err := memory.NewTier(2)
		require.NoError(t, err)

		tier.Add(entry("a", 1))
		tier.Add(entry("b", 2))
		_, _ = tier.Get("a")
		tier.Add(entry("c", 3))

		_, ok := tier.Get("b")
		require.False(t, ok)
		_, ok = tier.Get("a")
		require.True(t, ok)
		require.Equal(t, 2, tier.Len())
	})

	t.Run("should keep the first write when the vector is unchanged", func(t *testing.T) {
		tier, err := memory.NewTier(2)
		require.NoError(t, err)

		first := entry("a", 1, 2)
		tier.Add(first)

		again := entry("a", 1, 2)
		again.CreatedAt = first.CreatedAt.Add(time.Hour)
		tier.Add(again)

		got, _ := tier.Get("a")
		require.Equal(t, first.CreatedAt, got.CreatedAt)
		require.Equal(t, 1, tier.Len())
	})

	t.Run("should replace a changed vector", func(t *testing.T) {
		tier, err := memory.NewTier(2)
		require.NoError(t, err)

		tier.Add(entry("a", 1, 2))
		tier.Add(entry("a", 3, 4))

		got, _ := tier.Get("a")
		require.Equal(t, []float64{3, 4}, got.Vector)
	})

	t.Run("should drop everything on purge", func(t *testing.T) {
		tier, err := memory.NewTier(2)
		require.NoError(t, err)

		tier.Add(entry("a", 1))
		tier.Purge()
		require.Zero(t, tier.Len())
	})
}
