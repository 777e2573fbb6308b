package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func entryWith(content string) func() (*Entry, error) {
	return func() (*Entry, error) {
		return &Entry{
			Bytes:       []byte(content),
			ContentType: "video/mp4",
			CreatedAt:   time.Now(),
		}, nil
	}
}

func TestGetOrGenerateMiss(t *testing.T) {
	c := New(10)

	entry, err := c.GetOrGenerate(context.Background(), "k1", entryWith("artifact"))
	if err != nil {
		t.Fatalf("GetOrGenerate failed: %v", err)
	}
	if string(entry.Bytes) != "artifact" {
		t.Errorf("Expected generated bytes, got %q", entry.Bytes)
	}
	if entry.Key != "k1" {
		t.Errorf("Expected entry key to be set, got %q", entry.Key)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 cached entry, got %d", c.Len())
	}
}

func TestGetOrGenerateHitSkipsGenerator(t *testing.T) {
	c := New(10)
	if _, err := c.GetOrGenerate(context.Background(), "k1", entryWith("first")); err != nil {
		t.Fatalf("initial generation failed: %v", err)
	}

	entry, err := c.GetOrGenerate(context.Background(), "k1", func() (*Entry, error) {
		t.Fatal("generator must not run on a cache hit")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("GetOrGenerate failed: %v", err)
	}
	if string(entry.Bytes) != "first" {
		t.Errorf("Expected the cached entry, got %q", entry.Bytes)
	}
}

func TestSingleFlight(t *testing.T) {
	c := New(10)

	var invocations int32
	release := make(chan struct{})
	generate := func() (*Entry, error) {
		atomic.AddInt32(&invocations, 1)
		<-release
		return &Entry{Bytes: []byte("shared")}, nil
	}

	const waiters = 16
	var wg sync.WaitGroup
	results := make([]*Entry, waiters)
	errs := make([]error, waiters)

	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrGenerate(context.Background(), "k1", generate)
		}(i)
	}

	// Give every goroutine a chance to reach the cache before the
	// generator completes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&invocations); got != 1 {
		t.Errorf("Expected exactly 1 generator invocation, got %d", got)
	}
	for i := 0; i < waiters; i++ {
		if errs[i] != nil {
			t.Fatalf("Waiter %d failed: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Errorf("Waiter %d received a different entry", i)
		}
	}
}

func TestFailureDeliveredToAllWaitersAndNotCached(t *testing.T) {
	c := New(10)

	boom := errors.New("encoder exploded")
	release := make(chan struct{})

	var wg sync.WaitGroup
	const waiters = 4
	errs := make([]error, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.GetOrGenerate(context.Background(), "k1", func() (*Entry, error) {
				<-release
				return nil, boom
			})
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if !errors.Is(err, boom) {
			t.Errorf("Waiter %d: expected the generation error, got %v", i, err)
		}
	}
	if c.Len() != 0 {
		t.Errorf("Expected failures never to be cached, got %d entries", c.Len())
	}

	// The next request retries from scratch and can succeed.
	entry, err := c.GetOrGenerate(context.Background(), "k1", entryWith("second try"))
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if string(entry.Bytes) != "second try" {
		t.Errorf("Expected the retry result, got %q", entry.Bytes)
	}
}

func TestLRUEviction(t *testing.T) {
	c := New(3)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		key := fmt.Sprintf("k%d", i)
		if _, err := c.GetOrGenerate(ctx, key, entryWith(key)); err != nil {
			t.Fatalf("generation failed: %v", err)
		}
	}

	// Inserting a fourth key evicts exactly the least recently used.
	if _, err := c.GetOrGenerate(ctx, "k4", entryWith("k4")); err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	if c.Len() != 3 {
		t.Fatalf("Expected 3 entries after eviction, got %d", c.Len())
	}
	if _, ok := c.Get("k1"); ok {
		t.Error("Expected k1 (least recently used) to be evicted")
	}
	for _, key := range []string{"k2", "k3", "k4"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("Expected %s to survive eviction", key)
		}
	}
}

func TestLRUAccessProtectsFromEviction(t *testing.T) {
	c := New(3)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		key := fmt.Sprintf("k%d", i)
		if _, err := c.GetOrGenerate(ctx, key, entryWith(key)); err != nil {
			t.Fatalf("generation failed: %v", err)
		}
	}

	// Touch k1 so it is no longer the oldest.
	if _, err := c.GetOrGenerate(ctx, "k1", entryWith("must not regenerate")); err != nil {
		t.Fatalf("hit failed: %v", err)
	}

	if _, err := c.GetOrGenerate(ctx, "k4", entryWith("k4")); err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	if _, ok := c.Get("k1"); !ok {
		t.Error("Expected the recently accessed k1 to survive")
	}
	if _, ok := c.Get("k2"); ok {
		t.Error("Expected k2 to be evicted instead")
	}
}

func TestEntryImmutableAcrossEviction(t *testing.T) {
	c := New(1)
	ctx := context.Background()

	entry, err := c.GetOrGenerate(ctx, "k1", entryWith("held by a slow reader"))
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	snapshot := make([]byte, len(entry.Bytes))
	copy(snapshot, entry.Bytes)

	// Evict k1 by inserting another key into the size-1 cache.
	if _, err := c.GetOrGenerate(ctx, "k2", entryWith("evictor")); err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if _, ok := c.Get("k1"); ok {
		t.Fatal("Expected k1 to be evicted")
	}

	// The reader's reference is untouched by the eviction.
	if !bytes.Equal(entry.Bytes, snapshot) {
		t.Error("Expected evicted entry bytes to remain identical for held references")
	}
}

func TestWaiterHonorsContext(t *testing.T) {
	c := New(10)

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	go func() {
		c.GetOrGenerate(context.Background(), "k1", func() (*Entry, error) {
			close(started)
			<-release
			return &Entry{Bytes: []byte("slow")}, nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetOrGenerate(ctx, "k1", func() (*Entry, error) {
		t.Fatal("a waiter must not start a second generation")
		return nil, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestNewFallsBackToDefaultCapacity(t *testing.T) {
	c := New(0)
	ctx := context.Background()

	for i := 0; i < DefaultCapacity+5; i++ {
		key := fmt.Sprintf("k%d", i)
		if _, err := c.GetOrGenerate(ctx, key, entryWith(key)); err != nil {
			t.Fatalf("generation failed: %v", err)
		}
	}

	if c.Len() != DefaultCapacity {
		t.Errorf("Expected capacity to default to %d, got %d", DefaultCapacity, c.Len())
	}
}
