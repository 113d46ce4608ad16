package redis

import (
	"context"
	"errors"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/nexus/domain"
	"github.com/fastygo/nexus/repository"
)

type store struct {
	client *redislib.Client
	prefix string
}

// NewStore creates a Redis-backed key-value store. Records never expire.
func NewStore(client *redislib.Client, prefix string) repository.KeyValueStore {
	if prefix == "" {
		prefix = "nexus:"
	}
	return &store{
		client: client,
		prefix: prefix,
	}
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return result, nil
}

func (s *store) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *store) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *store) Close() error {
	return s.client.Close()
}

func (s *store) key(id string) string {
	return fmt.Sprintf("%s%s", s.prefix, id)
}
