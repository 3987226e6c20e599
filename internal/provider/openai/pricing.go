package openai

import (
	"context"
	"fmt"

	"github.com/davidbz/quill/internal/domain"
)

// RegisterPricing registers OpenAI model pricing with the registry.
func RegisterPricing(ctx context.Context, registry domain.PricingRegistry) error {
	models := map[string]domain.PricingConfig{
		"gpt-4o":                 {InputCostPer1K: 0.0025, OutputCostPer1K: 0.01},
		"gpt-4o-mini":            {InputCostPer1K: 0.00015, OutputCostPer1K: 0.0006},
		"gpt-4.1":                {InputCostPer1K: 0.002, OutputCostPer1K: 0.008},
		"gpt-4.1-mini":           {InputCostPer1K: 0.0004, OutputCostPer1K: 0.0016},
		"text-embedding-3-small": {InputCostPer1K: 0.00002, OutputCostPer1K: 0},
		"text-embedding-3-large": {InputCostPer1K: 0.00013, OutputCostPer1K: 0},
	}

	for model, config := range models {
		if err := registry.RegisterPricing(ctx, model, config); err != nil {
			return fmt.Errorf("failed to register pricing for model %s: %w", model, err)
		}
	}

	return nil
}
