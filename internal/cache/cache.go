package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"timelapse-server/internal/logging"
	"timelapse-server/internal/metrics"
)

// DefaultCapacity is the entry-count capacity used when none is
// configured. Capacity counts entries, not bytes; artifact sizes vary
// widely, so the byte footprint is exported as a gauge for operators
// to watch.
const DefaultCapacity = 10

// Entry is one fully materialized artifact. Entries are owned by the
// cache once inserted and handed to readers as shared read-only views:
// nothing mutates an Entry after insertion, which is what makes
// mid-read eviction safe.
type Entry struct {
	Key         string
	Bytes       []byte
	ContentType string
	Filename    string
	CreatedAt   time.Time
}

// Size returns the artifact size in bytes.
func (e *Entry) Size() int {
	return len(e.Bytes)
}

// inflight is the completion cell for one running generation. The
// first request for a key creates it and runs the generator; later
// requests wait on done. entry and err are written exactly once,
// before done is closed.
type inflight struct {
	done  chan struct{}
	entry *Entry
	err   error
}

// Cache is a fixed-capacity LRU of generated artifacts with
// single-flight generation per key.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front is most recently used
	inflight map[string]*inflight
}

// New creates a cache holding up to capacity entries. A capacity of
// zero or less falls back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		inflight: make(map[string]*inflight),
	}
}

// GetOrGenerate returns the cached entry for key, generating it with
// generate on a miss. At most one generator runs per key at a time:
// concurrent requests for a generating key attach to the running
// generation and receive its outcome. Failures are delivered to every
// waiter and never cached, so the next request retries from scratch.
//
// The generator runs outside the cache lock. A waiter whose ctx ends
// stops waiting and returns the context error, but the generation
// itself continues for the remaining waiters and future requests.
func (c *Cache) GetOrGenerate(ctx context.Context, key string, generate func() (*Entry, error)) (*Entry, error) {
	c.mu.Lock()

	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		entry := el.Value.(*Entry)
		c.mu.Unlock()
		metrics.CacheHits.Inc()
		logging.Debug("Cache hit: %s (%d bytes)", key, entry.Size())
		return entry, nil
	}

	if fl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		logging.Debug("Attaching to in-flight generation: %s", key)
		select {
		case <-fl.done:
			return fl.entry, fl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	fl := &inflight{done: make(chan struct{})}
	c.inflight[key] = fl
	c.mu.Unlock()

	metrics.CacheMisses.Inc()
	entry, err := generate()

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil {
		entry.Key = key
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now()
		}
		c.insertLocked(entry)
	}
	c.mu.Unlock()

	// Publish after the bookkeeping transition: waiters observe the
	// result only through the closed channel.
	fl.entry = entry
	fl.err = err
	close(fl.done)

	return entry, err
}

// Get returns the entry for key without generating, refreshing its
// recency on a hit.
func (c *Cache) Get(key string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*Entry), true
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// insertLocked adds an entry and evicts least-recently-used entries
// while over capacity. Eviction only drops the cache's reference;
// readers mid-download hold their own reference to the immutable
// entry.
func (c *Cache) insertLocked(entry *Entry) {
	if el, ok := c.entries[entry.Key]; ok {
		// A racing generation for the same key already inserted.
		// Keep the existing entry; it is already being served.
		c.order.MoveToFront(el)
		return
	}

	c.entries[entry.Key] = c.order.PushFront(entry)

	for len(c.entries) > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		evicted := c.order.Remove(oldest).(*Entry)
		delete(c.entries, evicted.Key)
		metrics.CacheEvictions.Inc()
		logging.Debug("Evicted artifact: %s (%d bytes)", evicted.Key, evicted.Size())
	}

	c.updateGaugesLocked()
}

func (c *Cache) updateGaugesLocked() {
	var total int
	for el := c.order.Front(); el != nil; el = el.Next() {
		total += el.Value.(*Entry).Size()
	}
	metrics.CacheEntries.Set(float64(len(c.entries)))
	metrics.CacheBytes.Set(float64(total))
}
