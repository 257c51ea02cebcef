package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

var _ Store = (*Memory)(nil)
var _ Store = (*Redis)(nil)

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	if err := c.Set(ctx, "k", "val", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || got != "val" {
		t.Fatalf("Get = %q, %v, %v; want val", got, ok, err)
	}

	c.Set(ctx, "k2", "x", 0)
	c.Delete(ctx, "k", "k2")
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("k should be gone")
	}
	if _, ok, _ := c.Get(ctx, "k2"); ok {
		t.Error("k2 should be gone")
	}
}

func TestMemory_TTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	c.Set(ctx, "short", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "short"); ok {
		t.Error("expired key still returned")
	}
}

func TestMemory_Incr(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Incr(ctx, "hits"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if got, _, _ := c.Get(ctx, "hits"); got != "50" {
		t.Errorf("hits = %q, want 50", got)
	}

	c.Set(ctx, "word", "abc", 0)
	if _, err := c.Incr(ctx, "word"); err == nil {
		t.Error("Incr on non-integer value should fail")
	}
}
