// Package memory provides the bounded in-process embedding tier.
package memory

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/davidbz/quill/internal/domain"
)

// Tier is an LRU of cache entries keyed by fingerprint. Safe for concurrent use.
type Tier struct {
	entries *lru.Cache[string, domain.CacheEntry]
}

// NewTier creates a tier holding at most size entries.
func NewTier(size int) (*Tier, error) {
	entries, err := lru.New[string, domain.CacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create local tier: %w", err)
	}
	return &Tier{entries: entries}, nil
}

// Get returns the entry stored under fingerprint.
func (t *Tier) Get(fingerprint string) (domain.CacheEntry, bool) {
	return t.entries.Get(fingerprint)
}

// Add stores entry. Re-adding an identical vector only refreshes recency.
func (t *Tier) Add(entry domain.CacheEntry) {
	if existing, ok := t.entries.Get(entry.Fingerprint); ok && domain.SameVector(existing.Vector, entry.Vector) {
		return
	}
	entry.SourceTier = domain.TierLocal
	t.entries.Add(entry.Fingerprint, entry)
}

// Len returns the number of cached entries.
func (t *Tier) Len() int {
	return t.entries.Len()
}

// Purge drops every entry.
func (t *Tier) Purge() {
	t.entries.Purge()
}
