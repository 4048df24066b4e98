package redis

import (
	"context"
	"os"
	"testing"
	"time"
)

// Requiere un redis real: TEST_REDIS_ADDR (o localhost:6379); si no, se salta.
func newTestCache(t *testing.T) *Cache {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	c, err := New(context.Background(), Options{Addr: addr, DB: 15})
	if err != nil {
		t.Skipf("redis not reachable (skipping): %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_SetGetDeletePrefix(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "test-breeds:missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	_ = c.Set(ctx, "test-breeds:a", []byte("1"), time.Minute)
	_ = c.Set(ctx, "test-breeds:b", []byte("2"), time.Minute)
	_ = c.Set(ctx, "other:a", []byte("3"), time.Minute)

	if v, ok, _ := c.Get(ctx, "test-breeds:a"); !ok || string(v) != "1" {
		t.Fatalf("expected hit, got %q ok=%v", v, ok)
	}

	if err := c.DeletePrefix(ctx, "test-breeds"); err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "test-breeds:b"); ok {
		t.Fatalf("expected prefix deleted")
	}
	if _, ok, _ := c.Get(ctx, "other:a"); !ok {
		t.Fatalf("other prefixes must survive")
	}
	_ = c.DeletePrefix(ctx, "other")
}
