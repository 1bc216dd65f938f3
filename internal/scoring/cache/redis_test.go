package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, ttl), mr
}

func TestGetMiss(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	_, ok, err := c.Get(context.Background(), "missing")
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestSetThenGet(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "k1", "INTENT: High"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx, "k1")
	if err != nil || !ok || got != "INTENT: High" {
		t.Fatalf("unexpected get: %q %v %v", got, ok, err)
	}
	if ttl := mr.TTL(keyPrefix + "k1"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}
}

func TestEntriesExpire(t *testing.T) {
	c, mr := newTestCache(t, time.Second)
	ctx := context.Background()
	if err := c.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2 * time.Second)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestGetReportsConnectionErrors(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	mr.Close()
	if _, _, err := c.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error when redis is down")
	}
}
