package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) RedisClient {
	t.Helper()

	mr := miniredis.RunT(t)
	t.Setenv("REDIS_HOST", mr.Addr())
	t.Setenv("REDIS_PASSWORD", "")

	client, err := NewRedisClient()
	if err != nil {
		t.Fatalf("Failed to create Redis client: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return client
}

func TestRedisSetAndGet(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	if err := client.SetToCache(ctx, "lead:test", `{"name":"Test User"}`, time.Minute); err != nil {
		t.Fatalf("SetToCache failed: %v", err)
	}

	got, err := client.GetFromCache(ctx, "lead:test")
	if err != nil {
		t.Fatalf("GetFromCache failed: %v", err)
	}
	if got != `{"name":"Test User"}` {
		t.Errorf("GetFromCache got = %v", got)
	}
}

func TestRedisExpiration(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_HOST", mr.Addr())
	t.Setenv("REDIS_PASSWORD", "")

	client, err := NewRedisClient()
	if err != nil {
		t.Fatalf("Failed to create Redis client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	if err := client.SetToCache(ctx, "lead:test", "value", time.Second); err != nil {
		t.Fatalf("SetToCache failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	_, err = client.GetFromCache(ctx, "lead:test")
	if err == nil {
		t.Fatal("Expected error after expiration, got nil")
	}
	if !errors.Is(err, redis.Nil) {
		t.Errorf("Expected redis.Nil error, got %v", err)
	}
}

func TestRedisDelete(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	if err := client.SetToCache(ctx, "lead:test", "value", time.Minute); err != nil {
		t.Fatalf("SetToCache failed: %v", err)
	}

	if err := client.DeleteFromCache(ctx, "lead:test"); err != nil {
		t.Fatalf("DeleteFromCache failed: %v", err)
	}

	_, err := client.GetFromCache(ctx, "lead:test")
	if !errors.Is(err, redis.Nil) {
		t.Errorf("Expected redis.Nil after delete, got %v", err)
	}
}

func TestLeadCacheKey(t *testing.T) {
	got := LeadCacheKey("507f1f77bcf86cd799439011")
	if got != "lead:507f1f77bcf86cd799439011" {
		t.Errorf("LeadCacheKey = %q", got)
	}
}
