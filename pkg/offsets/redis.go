package offsets

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/redis/go-redis/v9"

	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/geom"
)

// DefaultRedisKey is the hash holding all offsets.
const DefaultRedisKey = "roadline:offsets"

// RedisStore keeps all offsets as fields of one Redis hash. Each field holds
// the JSON encoding of the offset.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisStore wraps client. An empty hash key uses DefaultRedisKey.
func NewRedisStore(client redis.UniversalClient, hashKey string) *RedisStore {
	if hashKey == "" {
		hashKey = DefaultRedisKey
	}
	return &RedisStore{client: client, key: hashKey}
}

func (s *RedisStore) Get(ctx context.Context, key string) (geom.Offset, error) {
	raw, err := s.client.HGet(ctx, s.key, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return geom.Offset{}, nil
	}
	if err != nil {
		return geom.Offset{}, errors.Wrap(errors.ErrCodeStorage, err, "get offset %s", key)
	}
	var o geom.Offset
	if err := json.Unmarshal(raw, &o); err != nil {
		return geom.Offset{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode offset %s", key)
	}
	return o, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, o geom.Offset) error {
	if err := errors.ValidateKey(key); err != nil {
		return err
	}
	raw, err := json.Marshal(o)
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.key, key, raw).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "set offset %s", key)
	}
	return nil
}

func (s *RedisStore) All(ctx context.Context) (map[string]geom.Offset, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list offsets")
	}
	out := make(map[string]geom.Offset, len(fields))
	for k, v := range fields {
		var o geom.Offset
		if err := json.Unmarshal([]byte(v), &o); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode offset %s", k)
		}
		out[k] = o
	}
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.HDel(ctx, s.key, key).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete offset %s", key)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
