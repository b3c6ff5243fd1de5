package pricing

import (
	"context"
	"time"

	settlement "energy-report/internal/settlement/domain"
)

// DefaultPricePerKWh is one currency unit per kWh.
const DefaultPricePerKWh = 1.0

// FixedPriceProvider returns a fixed price per kWh.
type FixedPriceProvider struct {
	price float64
}

// NewFixedPriceProvider constructs the provider.
func NewFixedPriceProvider(price float64) (*FixedPriceProvider, error) {
	if price < 0 {
		return nil, settlement.ErrNegativePrice
	}
	return &FixedPriceProvider{price: price}, nil
}

// PriceAt returns the configured fixed price.
func (p *FixedPriceProvider) PriceAt(_ context.Context, _ string, _ time.Time) (float64, error) {
	return p.price, nil
}
