package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *RefreshStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRefreshStore(rdb, time.Hour)
}

func TestRefreshStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "user-1", "jti-a"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Validate(ctx, "user-1", "jti-a"); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestRefreshStoreRejectsStaleJTI(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "user-1", "jti-a"); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Rotation: a new token invalidates the old one.
	if err := s.Put(ctx, "user-1", "jti-b"); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if err := s.Validate(ctx, "user-1", "jti-a"); !errors.Is(err, ErrRefreshNotFound) {
		t.Fatalf("expected ErrRefreshNotFound for stale jti, got %v", err)
	}
	if err := s.Validate(ctx, "user-1", "jti-b"); err != nil {
		t.Fatalf("current jti should validate: %v", err)
	}
}

func TestRefreshStoreRevoke(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "user-1", "jti-a"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Revoke(ctx, "user-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := s.Validate(ctx, "user-1", "jti-a"); !errors.Is(err, ErrRefreshNotFound) {
		t.Fatalf("expected ErrRefreshNotFound after revoke, got %v", err)
	}
}

func TestRefreshStoreUnknownUser(t *testing.T) {
	s := newTestStore(t)
	if err := s.Validate(context.Background(), "ghost", "jti"); !errors.Is(err, ErrRefreshNotFound) {
		t.Fatalf("expected ErrRefreshNotFound, got %v", err)
	}
}
