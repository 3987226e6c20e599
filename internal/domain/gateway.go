package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davidbz/quill/internal/observability"
)

// GatewayConfig holds provider call settings.
type GatewayConfig struct {
	CallTimeout time.Duration `env:"PROVIDER_CALL_TIMEOUT" envDefault:"30s"`
}

// GatewayService runs completions through ordered fallback chains. Every call
// goes through the circuit breaker and is bounded by the call timeout.
type GatewayService struct {
	registry       ProviderRegistry
	router         Router
	breaker        CircuitBreaker
	costCalculator CostCalculator
	config         GatewayConfig
}

// NewGatewayService creates a new gateway service (DI constructor).
func NewGatewayService(
	registry ProviderRegistry,
	router Router,
	breaker CircuitBreaker,
	costCalculator CostCalculator,
	config *GatewayConfig,
) *GatewayService {
	return &GatewayService{
		registry:       registry,
		router:         router,
		breaker:        breaker,
		costCalculator: costCalculator,
		config:         *config,
	}
}

// CompleteChain tries each link of chain in order and returns the first success.
func (g *GatewayService) CompleteChain(
	ctx context.Context,
	chain []ModelRef,
	req *CompletionRequest,
) (*CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if len(chain) == 0 {
		return nil, errors.New("model chain cannot be empty")
	}

	var (
		errs         []error
		lastProvider string
		lastModel    string
	)

	for _, ref := range chain {
		providerNames, err := g.resolve(ctx, ref)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, name := range providerNames {
			resp, callErr := g.call(ctx, name, ref.Model, req)
			if callErr == nil {
				return resp, nil
			}

			// The caller gave up; do not move on to the next provider.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("completion abandoned: %w", ctxErr)
			}

			errs = append(errs, callErr)
			lastProvider, lastModel = name, ref.Model
		}
	}

	if lastProvider == "" {
		return nil, fmt.Errorf("no provider available for chain %s: %w", chainString(chain), errors.Join(errs...))
	}

	return nil, &ProviderError{Provider: lastProvider, Model: lastModel, Err: errors.Join(errs...)}
}

func (g *GatewayService) resolve(ctx context.Context, ref ModelRef) ([]string, error) {
	if ref.Provider != "" {
		return []string{ref.Provider}, nil
	}

	names, err := g.router.Route(ctx, &RouteRequest{Model: ref.Model})
	if err != nil {
		return nil, fmt.Errorf("provider routing failed: %w", err)
	}
	return names, nil
}

func (g *GatewayService) call(
	ctx context.Context,
	providerName, model string,
	req *CompletionRequest,
) (*CompletionResponse, error) {
	provider, err := g.registry.Get(ctx, providerName)
	if err != nil {
		return nil, fmt.Errorf("provider not found: %w", err)
	}

	ctx = observability.WithProvider(ctx, providerName)
	ctx = observability.WithModel(ctx, model)
	logger := observability.FromContext(ctx)

	scoped := *req
	scoped.Model = model

	var response *CompletionResponse
	callErr := g.breaker.Call(ctx, providerName, func(callCtx context.Context) error {
		if g.config.CallTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, g.config.CallTimeout)
			defer cancel()
		}

		resp, completeErr := provider.Complete(callCtx, &scoped)
		if completeErr != nil {
			return &ProviderError{Provider: providerName, Model: model, Err: completeErr}
		}
		if resp == nil || strings.TrimSpace(resp.Content) == "" {
			return &ProviderError{Provider: providerName, Model: model, Err: fmt.Errorf("%w: empty content", ErrMalformedResponse)}
		}

		response = resp
		return nil
	})
	if callErr != nil {
		logger.Warn("completion failed", observability.Error(callErr))
		return nil, callErr
	}

	cost, _ := g.costCalculator.Calculate(ctx, model, response.Usage)
	response.Usage.Cost = cost
	UsageLedgerFrom(ctx).Record(providerName, model, response.Usage)

	logger.Debug("completion succeeded",
		observability.Int("tokens", response.Usage.TotalTokens),
		observability.Float64("cost", cost))

	return response, nil
}

func chainString(chain []ModelRef) string {
	parts := make([]string, len(chain))
	for i, ref := range chain {
		parts[i] = ref.String()
	}
	return strings.Join(parts, ",")
}
