package rates

import (
	"fmt"

	"github.com/foodworks/backend/internal/domain/costing"
	"github.com/foodworks/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// NewProvider creates the rate provider named by configuration. The redis
// provider requires a connected client; the static provider ignores it.
func NewProvider(cfg config.RatesConfig, client *redis.Client) (costing.RateProvider, error) {
	switch cfg.Provider {
	case "static":
		return NewStaticProvider(cfg.StaticRate)
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis rate provider requires a redis client")
		}
		return NewRedisProvider(client, cfg.CacheTTL), nil
	default:
		return nil, fmt.Errorf("unknown rate provider %q", cfg.Provider)
	}
}
