package data

import (
	"sync"
	"time"
)

type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// ResultCache keeps finished scan runs in memory for later retrieval by id.
// Entries expire after ttl and are swept by a background goroutine that
// stops when Close is called.
type ResultCache[T any] struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry[T]
	ttl   time.Duration
	now   func() time.Time
	done  chan struct{}
	once  sync.Once
}

func NewResultCache[T any](ttl time.Duration, sweep time.Duration) *ResultCache[T] {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &ResultCache[T]{
		store: make(map[string]*cacheEntry[T]),
		ttl:   ttl,
		now:   time.Now,
		done:  make(chan struct{}),
	}
	if sweep > 0 {
		go c.cleanup(sweep)
	}
	return c
}

// Get retrieves a value if present and not expired.
func (c *ResultCache[T]) Get(key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || c.now().After(entry.expiresAt) {
		return zero, false
	}
	return entry.value, true
}

func (c *ResultCache[T]) Set(key string, v T) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = &cacheEntry[T]{value: v, expiresAt: c.now().Add(c.ttl)}
}

func (c *ResultCache[T]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Close stops the sweeper.
func (c *ResultCache[T]) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *ResultCache[T]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
		}
	}
}

func (c *ResultCache[T]) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.done:
			return
		}
	}
}
