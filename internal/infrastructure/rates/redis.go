package rates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foodworks/backend/internal/domain/costing"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/shared/valueobject"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const rateKeyPrefix = "rates:daily:"

// RedisProvider reads daily exchange rates from Redis. Rates are published
// per calendar date by a separate feed process; a missing key means no rate
// was published for that date and the caller must decide what to do.
type RedisProvider struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProvider creates a Redis-backed rate provider
func NewRedisProvider(client *redis.Client, ttl time.Duration) *RedisProvider {
	return &RedisProvider{client: client, ttl: ttl}
}

// RateFor returns the exchange rate published for the given date
func (p *RedisProvider) RateFor(ctx context.Context, date time.Time) (valueobject.ExchangeRate, error) {
	value, err := p.client.Get(ctx, rateKey(date)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return valueobject.ExchangeRate{}, shared.NewDomainError("MISSING_RATE",
				fmt.Sprintf("No exchange rate published for %s", date.Format("2006-01-02")))
		}
		return valueobject.ExchangeRate{}, fmt.Errorf("failed to read exchange rate: %w", err)
	}

	rate, err := decimal.NewFromString(value)
	if err != nil {
		return valueobject.ExchangeRate{}, fmt.Errorf("malformed exchange rate %q: %w", value, err)
	}
	return valueobject.NewExchangeRate(rate, date)
}

// Publish stores the exchange rate for a date with the configured TTL
func (p *RedisProvider) Publish(ctx context.Context, rate valueobject.ExchangeRate) error {
	return p.client.Set(ctx, rateKey(rate.Date()), rate.Rate().String(), p.ttl).Err()
}

// rateKey builds the Redis key for a calendar date
func rateKey(date time.Time) string {
	return rateKeyPrefix + date.Format("2006-01-02")
}

var _ costing.RateProvider = (*RedisProvider)(nil)
