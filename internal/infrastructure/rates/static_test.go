package rates

import (
	"context"
	"testing"
	"time"

	"github.com/foodworks/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider(t *testing.T) {
	t.Run("returns the configured rate for any date", func(t *testing.T) {
		provider, err := NewStaticProvider("15500.50")
		require.NoError(t, err)

		date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		rate, err := provider.RateFor(context.Background(), date)

		require.NoError(t, err)
		assert.True(t, rate.Rate().Equal(decimal.RequireFromString("15500.50")))
		assert.Equal(t, date, rate.Date())
	})

	t.Run("rejects a malformed rate", func(t *testing.T) {
		_, err := NewStaticProvider("not-a-number")
		assert.Error(t, err)
	})

	t.Run("rejects a non-positive rate", func(t *testing.T) {
		_, err := NewStaticProvider("0")
		assert.Error(t, err)

		_, err = NewStaticProvider("-3")
		assert.Error(t, err)
	})
}

func TestRateKey(t *testing.T) {
	date := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "rates:daily:2026-09-01", rateKey(date))
}

func TestNewProvider(t *testing.T) {
	t.Run("builds static provider", func(t *testing.T) {
		provider, err := NewProvider(config.RatesConfig{Provider: "static", StaticRate: "1"}, nil)
		require.NoError(t, err)
		assert.IsType(t, &StaticProvider{}, provider)
	})

	t.Run("redis provider requires a client", func(t *testing.T) {
		_, err := NewProvider(config.RatesConfig{Provider: "redis"}, nil)
		assert.Error(t, err)
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		_, err := NewProvider(config.RatesConfig{Provider: "carrier-pigeon"}, nil)
		assert.Error(t, err)
	})
}
