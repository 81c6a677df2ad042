package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestStore_GetSet(t *testing.T) {
	c := New(5*time.Second, 100)

	c.Set("screen:AAPL", 42)

	got, ok := c.Get("screen:AAPL")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.(int) != 42 {
		t.Errorf("expected 42, got %v", got)
	}
}

func TestStore_Miss(t *testing.T) {
	c := New(5*time.Second, 100)

	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected cache miss for nonexistent key")
	}
}

func TestStore_TTLExpiration(t *testing.T) {
	c := New(50*time.Millisecond, 100)

	c.Set("key", "value")
	if _, ok := c.Get("key"); !ok {
		t.Fatal("expected cache hit before expiry")
	}

	time.Sleep(80 * time.Millisecond)
	if _, ok := c.Get("key"); ok {
		t.Error("expected cache miss after expiry")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed lazily, len=%d", c.Len())
	}
}

func TestStore_EvictsOldestAtCapacity(t *testing.T) {
	c := New(time.Minute, 3)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("key%d", i), i)
	}
	c.Set("key3", 3)

	if _, ok := c.Get("key0"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := c.Get("key3"); !ok {
		t.Error("newest entry missing")
	}
	if c.Len() != 3 {
		t.Errorf("len=%d, want 3", c.Len())
	}
}

func TestStore_UpdateInPlaceKeepsCapacity(t *testing.T) {
	c := New(time.Minute, 2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10) // update, no eviction

	if _, ok := c.Get("b"); !ok {
		t.Error("update must not evict")
	}
	got, _ := c.Get("a")
	if got.(int) != 10 {
		t.Errorf("expected updated value 10, got %v", got)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	c := New(time.Minute, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%10)
			c.Set(key, n)
			c.Get(key)
		}(i)
	}
	wg.Wait()
}

func TestBucketKey(t *testing.T) {
	window := 5 * time.Minute
	base := time.Date(2026, time.March, 2, 12, 2, 30, 0, time.UTC)

	k1 := BucketKey("screen:AAPL", base, window)
	k2 := BucketKey("screen:AAPL", base.Add(time.Minute), window)
	if k1 != k2 {
		t.Errorf("keys inside one window differ: %s vs %s", k1, k2)
	}

	k3 := BucketKey("screen:AAPL", base.Add(5*time.Minute), window)
	if k1 == k3 {
		t.Error("keys across windows must differ")
	}

	k4 := BucketKey("screen:MSFT", base, window)
	if k1 == k4 {
		t.Error("keys for different identities must differ")
	}
}
