package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davidbz/quill/internal/observability"
)

// EmbeddingService calls the provider that serves an embedding model, guarded by
// the circuit breaker and validated against the configured dimension.
type EmbeddingService struct {
	providers         []EmbeddingProvider
	breaker           CircuitBreaker
	expectedDimension int
	callTimeout       time.Duration
}

// NewEmbeddingService creates an embedding service over providers in preference order.
func NewEmbeddingService(
	providers []EmbeddingProvider,
	breaker CircuitBreaker,
	expectedDimension int,
	callTimeout time.Duration,
) *EmbeddingService {
	return &EmbeddingService{
		providers:         providers,
		breaker:           breaker,
		expectedDimension: expectedDimension,
		callTimeout:       callTimeout,
	}
}

// Embed returns the vector for text. Vectors from another model are never
// substituted, so there is no cross-provider fallback for a given model.
func (s *EmbeddingService) Embed(ctx context.Context, text, model string) ([]float64, error) {
	if text == "" {
		return nil, errors.New("text cannot be empty")
	}

	provider := s.providerFor(model)
	if provider == nil {
		return nil, fmt.Errorf("no embedding provider serves model %s", model)
	}

	ctx = observability.WithProvider(ctx, provider.Name())
	logger := observability.FromContext(ctx)

	var vector []float64
	err := s.breaker.Call(ctx, provider.Name(), func(callCtx context.Context) error {
		if s.callTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, s.callTimeout)
			defer cancel()
		}

		v, embedErr := provider.Embed(callCtx, text, model)
		if embedErr != nil {
			return &ProviderError{Provider: provider.Name(), Model: model, Err: embedErr}
		}
		if validateErr := ValidateVector(v); validateErr != nil {
			return &ProviderError{
				Provider: provider.Name(),
				Model:    model,
				Err:      fmt.Errorf("%w: %v", ErrMalformedResponse, validateErr),
			}
		}

		vector = v
		return nil
	})
	if err != nil {
		logger.Error("embedding call failed", observability.Error(err))
		return nil, err
	}

	if len(vector) != s.expectedDimension {
		mismatch := &DimensionMismatchError{Model: model, Expected: s.expectedDimension, Got: len(vector)}
		logger.Warn("embedding rejected", observability.Error(mismatch))
		return nil, mismatch
	}

	return vector, nil
}

func (s *EmbeddingService) providerFor(model string) EmbeddingProvider {
	for _, p := range s.providers {
		if p.SupportsEmbeddingModel(model) {
			return p
		}
	}
	return nil
}
