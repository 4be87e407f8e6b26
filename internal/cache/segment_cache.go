// Package cache provides a small TTL-bounded byte cache for proxied
// origin responses, so a burst of player retries or ABR-ladder
// requests hitting the same segment within a short window don't each
// pay a fresh origin round trip.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/streamops/stitcher/internal/logger"
)

// entry is one cached response body plus the content-type it was
// served with and when it was stored.
type entry struct {
	body        []byte
	contentType string
	insertedAt  time.Time
}

// ByteCache is a thread-safe, TTL-evicted cache keyed by fetch URL.
type ByteCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	logger  logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a ByteCache with the given eviction TTL. Call Start to
// begin the background sweep and Stop at shutdown.
func New(log logger.Logger, ttl time.Duration) *ByteCache {
	ctx, cancel := context.WithCancel(context.Background())
	return &ByteCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		logger:  log,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins the background eviction worker.
func (c *ByteCache) Start() {
	go c.sweepLoop()
}

// Stop halts the background eviction worker.
func (c *ByteCache) Stop() {
	c.cancel()
}

// Set records a fetched body under key.
func (c *ByteCache) Set(key string, body []byte, contentType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{body: body, contentType: contentType, insertedAt: time.Now()}
}

// Get returns a cached body for key if present and not yet expired.
func (c *ByteCache) Get(key string) (body []byte, contentType string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, found := c.entries[key]
	if !found || time.Since(e.insertedAt) > c.ttl {
		return nil, "", false
	}
	return e.body, e.contentType, true
}

func (c *ByteCache) sweepLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.sweepExpired()
		}
	}
}

func (c *ByteCache) sweepExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	evicted := 0
	for k, e := range c.entries {
		if now.Sub(e.insertedAt) > c.ttl {
			delete(c.entries, k)
			evicted++
		}
	}
	if evicted > 0 {
		c.logger.Debugf("cache: evicted %d stale byte-cache entries", evicted)
	}
}
