package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewRedisStore(client *redisv9.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    normalizeTTL(ttl),
	}
}

func (s *RedisStore) Create(ctx context.Context, token string) (string, error) {
	id := uuid.NewString()
	if err := s.client.Set(ctx, s.key(id), token, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set session failed: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (string, bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", false, nil
	}
	token, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redisv9.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get session failed: %w", err)
	}
	return token, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session failed: %w", err)
	}
	return nil
}

func (s *RedisStore) key(id string) string {
	return "session:" + id
}
