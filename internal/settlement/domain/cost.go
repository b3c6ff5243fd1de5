package settlement

import (
	"context"
	"fmt"
	"time"
)

// PriceProvider resolves the price per kWh for a subject.
type PriceProvider interface {
	PriceAt(ctx context.Context, subjectID string, at time.Time) (float64, error)
}

// Cost is the estimated bill for an energy total.
type Cost struct {
	EnergyKWh   float64
	PricePerKWh float64
	Amount      float64
	Currency    string
}

// String formats the cost for display.
func (c Cost) String() string {
	return fmt.Sprintf("Total Cost (24 hour cycle): %s%.2f", c.Currency, c.Amount)
}

// Calculate prices energyKWh for subjectID at the given time.
func Calculate(ctx context.Context, prices PriceProvider, subjectID string, at time.Time, energyKWh float64, currency string) (Cost, error) {
	if prices == nil {
		return Cost{}, ErrNilPriceProvider
	}
	if subjectID == "" {
		return Cost{}, ErrEmptySubjectID
	}
	price, err := prices.PriceAt(ctx, subjectID, at)
	if err != nil {
		return Cost{}, err
	}
	if price < 0 {
		return Cost{}, ErrNegativePrice
	}
	return Cost{
		EnergyKWh:   energyKWh,
		PricePerKWh: price,
		Amount:      energyKWh * price,
		Currency:    currency,
	}, nil
}
