package costing

import (
	"context"
	"time"

	"github.com/foodworks/backend/internal/domain/shared/valueobject"
)

// RateProvider resolves the base/foreign exchange rate applicable on a date.
// The engine treats the rate as an opaque input; where it comes from (static
// configuration, a cache, an external feed) is an infrastructure concern.
type RateProvider interface {
	// RateFor returns the exchange rate applicable on the given date
	RateFor(ctx context.Context, date time.Time) (valueobject.ExchangeRate, error)
}
