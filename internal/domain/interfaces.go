package domain

import (
	"context"
	"time"
)

// Provider represents any LLM provider that can produce completions.
type Provider interface {
	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider identifier.
	Name() string

	// IsModelSupported checks if the provider supports the given model.
	IsModelSupported(ctx context.Context, model string) bool

	// SupportedModels lists the models the provider serves.
	SupportedModels(ctx context.Context) []string
}

// EmbeddingProvider represents any provider that can embed text.
type EmbeddingProvider interface {
	// Embed returns the vector for text under the given embedding model.
	Embed(ctx context.Context, text, model string) ([]float64, error)

	// Name returns the provider identifier. Breaker state is keyed by it.
	Name() string

	// SupportsEmbeddingModel checks if the provider serves the embedding model.
	SupportsEmbeddingModel(model string) bool
}

// ProviderRegistry manages available providers.
type ProviderRegistry interface {
	// Register adds a provider to the registry.
	Register(ctx context.Context, provider Provider) error

	// Get retrieves a provider by name.
	Get(ctx context.Context, providerName string) (Provider, error)

	// List returns all available providers in registration order.
	List(ctx context.Context) ([]string, error)

	// GetByModel retrieves the first provider that supports the model.
	GetByModel(ctx context.Context, model string) (Provider, error)
}

// Router determines which providers may serve a request.
type Router interface {
	// Route returns the names of providers able to serve the request, in preference order.
	Route(ctx context.Context, req *RouteRequest) ([]string, error)
}

// RouteRequest contains criteria for provider selection.
type RouteRequest struct {
	Model string
}

// CircuitBreaker isolates failing providers.
type CircuitBreaker interface {
	// Call runs fn unless the provider's circuit is open and records the outcome.
	Call(ctx context.Context, providerID string, fn func(ctx context.Context) error) error
}

// Completer runs a completion through an ordered provider fallback chain.
type Completer interface {
	CompleteChain(ctx context.Context, chain []ModelRef, req *CompletionRequest) (*CompletionResponse, error)
}

// Embedder produces validated embeddings.
type Embedder interface {
	Embed(ctx context.Context, text, model string) ([]float64, error)
}

// Fingerprinter derives cache keys.
type Fingerprinter interface {
	Fingerprint(text, modelID string) string
}

// LocalTier is the bounded in-process cache tier.
type LocalTier interface {
	// Get returns the entry stored under fingerprint.
	Get(fingerprint string) (CacheEntry, bool)

	// Add stores the entry, evicting the least recently used one when full.
	Add(entry CacheEntry)
}

// PersistentStore is the durable document tier.
type PersistentStore interface {
	// Get returns the entry or ErrCacheMiss.
	Get(ctx context.Context, fingerprint string) (*CacheEntry, error)

	// Put upserts the entry by fingerprint; an unchanged vector is a no-op.
	Put(ctx context.Context, entry *CacheEntry) error
}

// VectorIndex is the vector index tier.
type VectorIndex interface {
	// Lookup returns the entry stored under fingerprint or ErrCacheMiss.
	Lookup(ctx context.Context, fingerprint string) (*CacheEntry, error)

	// Upsert stores the entry under its fingerprint.
	Upsert(ctx context.Context, entry *CacheEntry, ttl time.Duration) error

	// Search finds stored vectors with cosine similarity at or above threshold.
	Search(ctx context.Context, embedding []float64, threshold float64, limit int) ([]*SearchResult, error)
}

// SearchResult represents a vector search result.
type SearchResult struct {
	Fingerprint string
	Similarity  float64
	IndexedAt   time.Time
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

// PipelineRunner executes one generation run for a topic.
type PipelineRunner interface {
	RunTopic(ctx context.Context, topic Topic) (*PipelineResult, error)
}

// EmbeddingCache resolves embeddings through the cache tiers.
type EmbeddingCache interface {
	GetEmbedding(ctx context.Context, text, modelID string, generateIfMissing bool) ([]float64, error)
}
