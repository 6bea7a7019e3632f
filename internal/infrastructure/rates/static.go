package rates

import (
	"context"
	"time"

	"github.com/foodworks/backend/internal/domain/costing"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// StaticProvider returns one fixed exchange rate for every date. It backs
// single-currency deployments and test environments, where costing still runs
// on both legs but the rate never moves.
type StaticProvider struct {
	rate decimal.Decimal
}

// NewStaticProvider creates a static provider from a decimal rate string
func NewStaticProvider(rate string) (*StaticProvider, error) {
	parsed, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, err
	}
	if parsed.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_RATE", "Static exchange rate must be positive")
	}
	return &StaticProvider{rate: parsed}, nil
}

// RateFor returns the configured rate stamped with the requested date
func (p *StaticProvider) RateFor(_ context.Context, date time.Time) (valueobject.ExchangeRate, error) {
	return valueobject.NewExchangeRate(p.rate, date)
}

var _ costing.RateProvider = (*StaticProvider)(nil)
