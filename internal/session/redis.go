package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"vocabquiz/internal/stats"
)

const redisKeyPrefix = "vocabquiz:session:"

// RedisStore keeps session stats in Redis with a sliding TTL, so several
// server instances can share sessions.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a RedisStore using client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (stats.Stats, error) {
	if !ValidID(id) {
		return stats.Stats{}, ErrInvalidID
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return stats.Stats{}, ErrNotFound
		}
		return stats.Stats{}, err
	}
	var st stats.Stats
	if err := json.Unmarshal(data, &st); err != nil || !st.Valid() {
		_ = s.client.Del(ctx, s.key(id)).Err()
		return stats.Stats{}, ErrNotFound
	}
	if s.ttl > 0 {
		_ = s.client.Expire(ctx, s.key(id), s.ttl).Err()
	}
	return st, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, st stats.Stats) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(id), data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	return s.client.Del(ctx, s.key(id)).Err()
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
