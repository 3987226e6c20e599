package routing

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/davidbz/quill/internal/domain"
)

// Config sets the provider preference used when a chain link names only a model.
type Config struct {
	ProviderOrder []string `env:"ROUTING_PROVIDER_ORDER" envSeparator:"," envDefault:"openai,gemini,echo"`
}

// SimpleRouter resolves a model to every registered provider that supports it.
type SimpleRouter struct {
	registry domain.ProviderRegistry
	order    []string
}

// NewRouter creates a new router.
func NewRouter(registry domain.ProviderRegistry, config *Config) *SimpleRouter {
	return &SimpleRouter{
		registry: registry,
		order:    config.ProviderOrder,
	}
}

// Route returns the providers supporting req.Model, configured order first,
// then any other provider in registration order.
func (r *SimpleRouter) Route(ctx context.Context, req *domain.RouteRequest) ([]string, error) {
	if req == nil {
		return nil, errors.New("route request cannot be nil")
	}

	if req.Model == "" {
		return nil, errors.New("model name is required")
	}

	registered, err := r.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}

	if len(registered) == 0 {
		return nil, errors.New("no providers available")
	}

	candidates := make([]string, 0, len(registered))
	for _, name := range r.order {
		if slices.Contains(registered, name) {
			candidates = append(candidates, name)
		}
	}
	for _, name := range registered {
		if !slices.Contains(candidates, name) {
			candidates = append(candidates, name)
		}
	}

	var names []string
	for _, name := range candidates {
		provider, getErr := r.registry.Get(ctx, name)
		if getErr != nil {
			continue
		}

		if provider.IsModelSupported(ctx, req.Model) {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("no provider found for model: %s", req.Model)
	}

	return names, nil
}
