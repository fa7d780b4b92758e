package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps continuations in Redis so pending flows survive restarts.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(userID int64) string {
	return fmt.Sprintf("continuation:%d", userID)
}

func (s *RedisStore) Put(ctx context.Context, userID int64, c Continuation) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(userID), data, s.ttl).Err()
}

func (s *RedisStore) Pop(ctx context.Context, userID int64) (Continuation, bool, error) {
	var c Continuation
	data, err := s.client.GetDel(ctx, key(userID)).Result()
	if err == redis.Nil {
		return c, false, nil
	}
	if err != nil {
		return c, false, err
	}
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return c, false, err
	}
	return c, true, nil
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, key(userID)).Err()
}
