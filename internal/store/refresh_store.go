package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrRefreshNotFound = errors.New("refresh token not found")

// RefreshStore keeps the active refresh JTI per user; issuing a new refresh
// token invalidates the previous one.
type RefreshStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRefreshStore(rdb *redis.Client, ttl time.Duration) *RefreshStore {
	return &RefreshStore{rdb: rdb, ttl: ttl}
}

func (s *RefreshStore) key(userID string) string { return "refresh:" + userID }

func (s *RefreshStore) Put(ctx context.Context, userID, jti string) error {
	return s.rdb.Set(ctx, s.key(userID), jti, s.ttl).Err()
}

func (s *RefreshStore) Validate(ctx context.Context, userID, jti string) error {
	current, err := s.rdb.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrRefreshNotFound
		}
		return err
	}
	if current != jti {
		return ErrRefreshNotFound
	}
	return nil
}

func (s *RefreshStore) Revoke(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, s.key(userID)).Err()
}
