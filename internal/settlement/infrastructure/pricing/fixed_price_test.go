package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	settlement "energy-report/internal/settlement/domain"
)

func TestFixedPriceProvider(t *testing.T) {
	provider, err := NewFixedPriceProvider(DefaultPricePerKWh)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	price, err := provider.PriceAt(context.Background(), "house_0", time.Now())
	if err != nil {
		t.Fatalf("price at: %v", err)
	}
	if price != 1 {
		t.Fatalf("expected 1, got %v", price)
	}
}

func TestFixedPriceProviderRejectsNegative(t *testing.T) {
	if _, err := NewFixedPriceProvider(-0.5); !errors.Is(err, settlement.ErrNegativePrice) {
		t.Fatalf("expected ErrNegativePrice, got %v", err)
	}
}
