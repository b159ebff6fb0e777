package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestMetricsKey(t *testing.T) {
	tenant, event := uuid.New(), uuid.New()
	want := "metrics:" + tenant.String() + ":" + event.String()
	if got := MetricsKey(tenant, event); got != want {
		t.Fatalf("MetricsKey = %q, want %q", got, want)
	}
}

func TestPrefixedKey(t *testing.T) {
	if got := NewRedisCache(nil, "confhub").key("a"); got != "confhub:a" {
		t.Fatalf("key = %q", got)
	}
	if got := NewRedisCache(nil, "").key("a"); got != "a" {
		t.Fatalf("key = %q", got)
	}
}

// Runs against a real server when TEST_REDIS_ADDR is set.
func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	c := NewRedisCache(client, "test-"+uuid.NewString())

	type payload struct {
		Count int `json:"count"`
	}

	var got payload
	found, err := c.Get(ctx, "missing", &got)
	if err != nil || found {
		t.Fatalf("Get(missing) = %v, %v", found, err)
	}

	if err := c.Set(ctx, "k", payload{Count: 7}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	found, err = c.Get(ctx, "k", &got)
	if err != nil || !found || got.Count != 7 {
		t.Fatalf("Get(k) = %+v, %v, %v", got, found, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	found, _ = c.Get(ctx, "k", &got)
	if found {
		t.Fatal("key still present after Delete")
	}
}
