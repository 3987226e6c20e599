package echo

import (
	"context"
	"fmt"

	"github.com/davidbz/quill/internal/domain"
)

// RegisterPricing registers zero-cost pricing for the echo models.
func RegisterPricing(ctx context.Context, registry domain.PricingRegistry) error {
	for _, model := range []string{modelName, embeddingModel} {
		if err := registry.RegisterPricing(ctx, model, domain.PricingConfig{
			InputCostPer1K:  0,
			OutputCostPer1K: 0,
		}); err != nil {
			return fmt.Errorf("failed to register echo pricing: %w", err)
		}
	}
	return nil
}
