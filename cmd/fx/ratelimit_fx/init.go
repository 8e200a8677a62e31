package ratelimit_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"coivault/internal/config"
	"coivault/pkg/ratelimit"
)

var Module = fx.Provide(provideLimiter)

// provideLimiter shares counters through Redis when REDIS_URL is set and
// falls back to a per-process limiter otherwise.
func provideLimiter(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (ratelimit.Limiter, error) {
	rl := cfg.RateLimit

	if rl.RedisURL != "" {
		client, err := ratelimit.NewRedisClient(context.Background(), rl.RedisURL)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		log.Info("Rate limiter backed by Redis",
			zap.Int("max_requests", rl.MaxRequests),
			zap.Duration("window", rl.Window))
		return ratelimit.NewRedisLimiter(client, rl.MaxRequests, rl.Window), nil
	}

	limiter := ratelimit.NewMemoryLimiter(rl.MaxRequests, rl.Window)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			limiter.Stop()
			return nil
		},
	})
	log.Info("Rate limiter running in memory",
		zap.Int("max_requests", rl.MaxRequests),
		zap.Duration("window", rl.Window))
	return limiter, nil
}
