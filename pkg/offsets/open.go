package offsets

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rvno/roadline/pkg/cache"
	"github.com/rvno/roadline/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures an offset store.
type Config struct {
	Backend string `toml:"backend"`
	// Path is the JSON file (file) or database file (sqlite).
	Path  string      `toml:"path"`
	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Key      string `toml:"key"`
}

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Open returns the configured store. Remote backends are pinged before
// Open returns; transient connection failures are retried with backoff.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(nil), nil
	case BackendFile:
		s, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "sqlite backend needs a path")
		}
		s, err := NewSQLiteStore(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		return openRedis(ctx, cfg.Redis)
	case BackendMongo:
		return openMongo(ctx, cfg.Mongo)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown offset backend %q", cfg.Backend)
	}
}

func openRedis(ctx context.Context, cfg RedisConfig) (Store, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Password, DB: cfg.DB})
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
	return NewRedisStore(client, cfg.Key), nil
}

func openMongo(ctx context.Context, cfg MongoConfig) (Store, error) {
	uri := cfg.URI
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect mongo")
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongo")
	}
	return NewMongoStore(client, cfg.Database, cfg.Collection), nil
}

// Describe returns a one-line description of cfg for logs.
func Describe(cfg Config) string {
	switch cfg.Backend {
	case BackendFile, BackendSQLite:
		return fmt.Sprintf("%s:%s", cfg.Backend, cfg.Path)
	case BackendRedis:
		return fmt.Sprintf("redis:%s", cfg.Redis.Addr)
	case BackendMongo:
		return "mongo"
	case "":
		return BackendMemory
	default:
		return cfg.Backend
	}
}
