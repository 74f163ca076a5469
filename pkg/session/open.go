package session

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/rvno/roadline/pkg/cache"
	"github.com/rvno/roadline/pkg/errors"
)

// Config selects and configures a session store.
type Config struct {
	// Backend is "memory", "file" or "redis".
	Backend string            `toml:"backend"`
	Dir     string            `toml:"dir"`
	Redis   cache.RedisConfig `toml:"redis"`
}

// Open returns the configured store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		s, err := NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		addr := cfg.Redis.Addr
		if addr == "" {
			addr = "localhost:6379"
		}
		client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		err := cache.RetryWithBackoff(ctx, func() error {
			if err := client.Ping(ctx).Err(); err != nil {
				return cache.Retryable(err)
			}
			return nil
		})
		if err != nil {
			client.Close()
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect redis %s", addr)
		}
		return NewRedisStore(client, cfg.Redis.Prefix), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown session backend %q", cfg.Backend)
	}
}
