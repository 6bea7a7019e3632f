package valueobject

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the number of base-currency units per one foreign-currency unit,
// applicable on a given date. The ledger stores every cost in both currencies and
// this rate keeps the two mutually derivable.
type ExchangeRate struct {
	rate decimal.Decimal
	date time.Time
}

// NewExchangeRate creates an exchange rate for a date. The rate must be positive.
func NewExchangeRate(rate decimal.Decimal, date time.Time) (ExchangeRate, error) {
	if !rate.IsPositive() {
		return ExchangeRate{}, errors.New("exchange rate must be positive")
	}
	return ExchangeRate{rate: rate, date: date}, nil
}

// Rate returns the raw rate value
func (r ExchangeRate) Rate() decimal.Decimal {
	return r.rate
}

// Date returns the date the rate applies to
func (r ExchangeRate) Date() time.Time {
	return r.date
}

// IsZero reports whether the rate is unset
func (r ExchangeRate) IsZero() bool {
	return r.rate.IsZero()
}

// ToBase converts a foreign-currency amount to the base currency
func (r ExchangeRate) ToBase(foreign decimal.Decimal) decimal.Decimal {
	return foreign.Mul(r.rate)
}

// ToForeign converts a base-currency amount to the foreign currency
func (r ExchangeRate) ToForeign(base decimal.Decimal) decimal.Decimal {
	if r.rate.IsZero() {
		return decimal.Zero
	}
	return base.Div(r.rate)
}
