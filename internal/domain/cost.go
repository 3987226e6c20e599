package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const tokensToPerK = 1000.0

// PricingConfig contains model pricing information.
type PricingConfig struct {
	InputCostPer1K  float64 // USD per 1K input tokens
	OutputCostPer1K float64 // USD per 1K output tokens
}

// CostCalculator calculates cost based on token usage.
type CostCalculator interface {
	// Calculate returns the total cost for a given model and usage.
	Calculate(ctx context.Context, model string, usage Usage) (float64, error)
}

// PricingRegistry maintains pricing information for models.
type PricingRegistry interface {
	// GetPricing returns pricing config for a model.
	GetPricing(ctx context.Context, model string) (PricingConfig, error)

	// RegisterPricing adds pricing for a model.
	RegisterPricing(ctx context.Context, model string, config PricingConfig) error
}

// InMemoryPricingRegistry stores pricing configs in memory.
type InMemoryPricingRegistry struct {
	mu      sync.RWMutex
	pricing map[string]PricingConfig
}

// NewInMemoryPricingRegistry creates a new in-memory pricing registry.
func NewInMemoryPricingRegistry() *InMemoryPricingRegistry {
	return &InMemoryPricingRegistry{
		mu:      sync.RWMutex{},
		pricing: make(map[string]PricingConfig),
	}
}

// GetPricing retrieves pricing for a model.
func (r *InMemoryPricingRegistry) GetPricing(_ context.Context, model string) (PricingConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	config, exists := r.pricing[model]
	if !exists {
		return PricingConfig{}, fmt.Errorf("pricing not found for model: %s", model)
	}

	return config, nil
}

// RegisterPricing adds pricing for a model.
func (r *InMemoryPricingRegistry) RegisterPricing(_ context.Context, model string, config PricingConfig) error {
	if model == "" {
		return errors.New("model cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pricing[model] = config
	return nil
}

// StandardCostCalculator implements token-based cost calculation.
type StandardCostCalculator struct {
	pricingRegistry PricingRegistry
}

// NewStandardCostCalculator creates a new cost calculator.
func NewStandardCostCalculator(registry PricingRegistry) *StandardCostCalculator {
	return &StandardCostCalculator{
		pricingRegistry: registry,
	}
}

// Calculate computes the total cost based on token usage and model pricing.
// Unknown models cost nothing; pricing gaps must not fail a run.
func (c *StandardCostCalculator) Calculate(ctx context.Context, model string, usage Usage) (float64, error) {
	if model == "" {
		return 0, errors.New("model cannot be empty")
	}

	pricing, err := c.pricingRegistry.GetPricing(ctx, model)
	if err != nil {
		//nolint:nilerr // unknown pricing is reported as zero cost
		return 0, nil
	}

	inputCost := float64(usage.PromptTokens) / tokensToPerK * pricing.InputCostPer1K
	outputCost := float64(usage.CompletionTokens) / tokensToPerK * pricing.OutputCostPer1K

	return inputCost + outputCost, nil
}

// UsageLedger accumulates usage over every provider call of one pipeline run.
type UsageLedger struct {
	mu      sync.Mutex
	total   Usage
	calls   int
	byModel map[string]int
}

// NewUsageLedger creates an empty ledger.
func NewUsageLedger() *UsageLedger {
	return &UsageLedger{
		byModel: make(map[string]int),
	}
}

// Record adds one call's usage. Safe on a nil ledger.
func (l *UsageLedger) Record(provider, model string, usage Usage) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.total = l.total.Add(usage)
	l.calls++
	l.byModel[provider+"/"+model]++
}

// Total returns the accumulated usage.
func (l *UsageLedger) Total() Usage {
	if l == nil {
		return Usage{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Calls returns how many calls were recorded, optionally for one "provider/model" key.
func (l *UsageLedger) Calls(key ...string) int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(key) == 0 {
		return l.calls
	}
	return l.byModel[key[0]]
}

type ledgerKey struct{}

// WithUsageLedger attaches a ledger to the context; the gateway records into it.
func WithUsageLedger(ctx context.Context, ledger *UsageLedger) context.Context {
	return context.WithValue(ctx, ledgerKey{}, ledger)
}

// UsageLedgerFrom returns the ledger attached to ctx, or nil.
func UsageLedgerFrom(ctx context.Context) *UsageLedger {
	ledger, _ := ctx.Value(ledgerKey{}).(*UsageLedger)
	return ledger
}
