package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the subset of the redis client the store needs.
type Client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Store struct {
	rdb Client
	ttl time.Duration
}

func NewStore(rdb Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Key(topic string, partition int, offset int64) string {
	return fmt.Sprintf("idem:%s:%d:%d", topic, partition, offset)
}

// EventKey identifies one outbox event as seen by one consumer group.
func (s *Store) EventKey(group, eventID string) string {
	return fmt.Sprintf("idem:event:%s:%s", group, eventID)
}

func (s *Store) RequestKey(scope, method, path, token string) string {
	return fmt.Sprintf("idem:http:%s:%s:%s:%s", scope, method, path, token)
}

// Seen claims key and reports whether it had already been claimed.
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}

	return !ok, nil
}

// Forget releases a claimed key so the same request may be retried.
func (s *Store) Forget(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
