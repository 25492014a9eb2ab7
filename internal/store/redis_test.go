package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStoreWithClient(client, "test:credential")
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t)

	if _, ok, err := s.Load(ctx); err != nil || ok {
		t.Fatalf("Load on empty store = (ok=%v, err=%v), want absent without error", ok, err)
	}

	if err := s.Save(ctx, "header.payload.sig"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := s.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load = (ok=%v, err=%v), want present", ok, err)
	}
	if got != "header.payload.sig" {
		t.Errorf("Load = %q, want %q", got, "header.payload.sig")
	}
}

func TestRedisStoreLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t)

	if err := s.Save(ctx, "first"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, "second"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "second" {
		t.Errorf("Load = %q, want last write", got)
	}
}

func TestRedisStoreClearIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t)

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}

	if err := s.Save(ctx, "value"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if _, ok, err := s.Load(ctx); err != nil || ok {
		t.Fatalf("Load after Clear = (ok=%v, err=%v), want absent", ok, err)
	}
}
