package corpus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/observability"
)

// Reference is one exemplar with its similarity to a query.
type Reference struct {
	ID         string
	Text       string
	Similarity float64
}

type reference struct {
	exemplar    Exemplar
	fingerprint string
	vector      []float64
}

// ReferenceSet holds the exemplar texts and their embeddings. Vectors are
// resolved through the embedding cache once by Warm.
type ReferenceSet struct {
	exemplars    []Exemplar
	cache        domain.EmbeddingCache
	index        domain.VectorIndex
	fingerprints domain.Fingerprinter
	model        string

	mu   sync.RWMutex
	refs []reference
}

// NewReferenceSet creates the set. index may be nil, in which case Nearest
// scans the warmed vectors in memory.
func NewReferenceSet(
	style *Style,
	cache domain.EmbeddingCache,
	index domain.VectorIndex,
	fingerprints domain.Fingerprinter,
	config Config,
) *ReferenceSet {
	var exemplars []Exemplar
	if style != nil {
		exemplars = style.Exemplars
	}

	return &ReferenceSet{
		exemplars:    exemplars,
		cache:        cache,
		index:        index,
		fingerprints: fingerprints,
		model:        config.EmbeddingModel,
	}
}

// Warm embeds every exemplar. Exemplars that fail are skipped and logged; an
// error is returned only when none could be embedded.
func (s *ReferenceSet) Warm(ctx context.Context) error {
	logger := observability.FromContext(ctx)

	refs := make([]reference, 0, len(s.exemplars))
	var lastErr error
	for _, ex := range s.exemplars {
		vector, err := s.cache.GetEmbedding(ctx, ex.Text, s.model, true)
		if err != nil {
			logger.Warn("failed to embed reference exemplar",
				observability.String("exemplar_id", ex.ID),
				observability.Error(err))
			lastErr = err
			continue
		}
		refs = append(refs, reference{
			exemplar:    ex,
			fingerprint: s.fingerprints.Fingerprint(ex.Text, s.model),
			vector:      vector,
		})
	}

	s.mu.Lock()
	s.refs = refs
	s.mu.Unlock()

	if len(refs) == 0 && lastErr != nil {
		return fmt.Errorf("no reference exemplar could be embedded: %w", lastErr)
	}

	logger.Info("reference set warmed",
		observability.Int("exemplars", len(s.exemplars)),
		observability.Int("embedded", len(refs)))
	return nil
}

// Len returns the number of warmed references.
func (s *ReferenceSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.refs)
}

// RetrieveReferenceVectors returns up to k warmed vectors in document order.
// k <= 0 returns all of them.
func (s *ReferenceSet) RetrieveReferenceVectors(k int) [][]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := limit(s.refs, k)
	out := make([][]float64, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.vector)
	}
	return out
}

// RetrieveReferenceTexts returns up to k exemplar texts in document order.
// k <= 0 returns all of them.
func (s *ReferenceSet) RetrieveReferenceTexts(k int) []string {
	exemplars := s.exemplars
	if k > 0 && k < len(exemplars) {
		exemplars = exemplars[:k]
	}

	out := make([]string, 0, len(exemplars))
	for _, ex := range exemplars {
		out = append(out, ex.Text)
	}
	return out
}

// Nearest returns up to k exemplars ordered by similarity to vector. The vector
// index is asked first; its hits that are not exemplars are ignored. Index
// failures fall back to an in-memory scan.
func (s *ReferenceSet) Nearest(ctx context.Context, vector []float64, k int) ([]Reference, error) {
	if len(vector) == 0 {
		return nil, errors.New("query vector cannot be empty")
	}

	s.mu.RLock()
	refs := s.refs
	s.mu.RUnlock()

	if k <= 0 || k > len(refs) {
		k = len(refs)
	}
	if k == 0 {
		return nil, nil
	}

	if s.index != nil {
		found, err := s.searchIndex(ctx, refs, vector, k)
		if err == nil && len(found) > 0 {
			return found, nil
		}
		if err != nil {
			observability.FromContext(ctx).Warn("reference index search failed, scanning in memory",
				observability.Error(err))
		}
	}

	return scan(refs, vector, k), nil
}

// ExamplesFor returns up to k exemplar texts closest to text, falling back to
// document order when text cannot be embedded. Embedding text may generate.
func (s *ReferenceSet) ExamplesFor(ctx context.Context, text string, k int) []string {
	if s.Len() == 0 {
		return s.RetrieveReferenceTexts(k)
	}

	vector, err := s.cache.GetEmbedding(ctx, text, s.model, true)
	if err != nil {
		observability.FromContext(ctx).Warn("failed to embed topic, using default exemplars",
			observability.Error(err))
		return s.RetrieveReferenceTexts(k)
	}

	nearest, err := s.Nearest(ctx, vector, k)
	if err != nil || len(nearest) == 0 {
		return s.RetrieveReferenceTexts(k)
	}

	out := make([]string, 0, len(nearest))
	for _, ref := range nearest {
		out = append(out, ref.Text)
	}
	return out
}

// Similarity embeds text and returns its highest cosine similarity against the
// references, or nil when no reference is warmed.
func (s *ReferenceSet) Similarity(ctx context.Context, text string) (*float64, error) {
	if s.Len() == 0 {
		return nil, nil
	}

	vector, err := s.cache.GetEmbedding(ctx, text, s.model, true)
	if err != nil {
		return nil, fmt.Errorf("failed to embed draft: %w", err)
	}

	best := scan(s.snapshot(), vector, 1)
	if len(best) == 0 {
		return nil, nil
	}
	score := best[0].Similarity
	return &score, nil
}

func (s *ReferenceSet) snapshot() []reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refs
}

func (s *ReferenceSet) searchIndex(ctx context.Context, refs []reference, vector []float64, k int) ([]Reference, error) {
	byFingerprint := make(map[string]Exemplar, len(refs))
	for _, r := range refs {
		byFingerprint[r.fingerprint] = r.exemplar
	}

	// Drafts share the index with exemplars, so over-fetch before filtering.
	results, err := s.index.Search(ctx, vector, -1, k*4)
	if err != nil {
		return nil, err
	}

	out := make([]Reference, 0, k)
	for _, res := range results {
		ex, ok := byFingerprint[res.Fingerprint]
		if !ok {
			continue
		}
		out = append(out, Reference{ID: ex.ID, Text: ex.Text, Similarity: res.Similarity})
		if len(out) == k {
			break
		}
	}
	return out, nil
}

func scan(refs []reference, vector []float64, k int) []Reference {
	out := make([]Reference, 0, len(refs))
	for _, r := range refs {
		out = append(out, Reference{
			ID:         r.exemplar.ID,
			Text:       r.exemplar.Text,
			Similarity: domain.Cosine(vector, r.vector),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	return limit(out, k)
}

func limit[T any](items []T, k int) []T {
	if k > 0 && k < len(items) {
		return items[:k]
	}
	return items
}
