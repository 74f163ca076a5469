//go:build integration

package offsets

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestRedisStoreIntegration(t *testing.T) {
	addr := os.Getenv("ROADLINE_REDIS_ADDR")
	if addr == "" {
		t.Skip("ROADLINE_REDIS_ADDR not set")
	}
	suite.Run(t, &StoreSuite{open: func(t *testing.T) Store {
		s, err := Open(context.Background(), Config{
			Backend: BackendRedis,
			Redis:   RedisConfig{Addr: addr, Key: "roadline:test:offsets"},
		})
		require.NoError(t, err)
		for _, k := range []string{"2021", "2022", "ride-7"} {
			require.NoError(t, s.Delete(context.Background(), k))
		}
		return s
	}})
}

func TestMongoStoreIntegration(t *testing.T) {
	uri := os.Getenv("ROADLINE_MONGO_URI")
	if uri == "" {
		t.Skip("ROADLINE_MONGO_URI not set")
	}
	suite.Run(t, &StoreSuite{open: func(t *testing.T) Store {
		s, err := Open(context.Background(), Config{
			Backend: BackendMongo,
			Mongo:   MongoConfig{URI: uri, Database: "roadline_test", Collection: "offsets_test"},
		})
		require.NoError(t, err)
		ms := s.(*MongoStore)
		_ = ms.coll.Drop(context.Background())
		return s
	}})
}
