/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package imagecache keeps decrypted imaging assets in memory behind a
// bounded, TTL-aware cache. Every cached asset owns a release callback for
// its underlying resource handle; the cache guarantees the callback runs
// exactly once no matter how the entry leaves (capacity eviction, lazy
// expiry, explicit removal, or Close).
package imagecache

import (
	"sync"
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/medvault/vault/internal/logfields"
	"github.com/medvault/vault/pkg/observability/metrics"
)

var logger = log.New("image-cache")

const (
	// DefaultCapacity bounds the entry count.
	DefaultCapacity = 50
	// DefaultTTL bounds each entry's lifetime.
	DefaultTTL = 30 * time.Minute
)

// Asset is a decrypted imaging payload together with its resource handle.
type Asset struct {
	Data     []byte
	MIMEType string
	// Release frees the underlying resource handle. May be nil.
	Release func()
}

type entry struct {
	asset       *Asset
	insertedAt  time.Time
	accessCount int
}

// score favors frequently accessed and recently inserted entries. The
// lowest-scored entry is evicted at capacity.
func (e *entry) score(now time.Time) float64 {
	return float64(e.accessCount) - now.Sub(e.insertedAt).Minutes()
}

// Cache is a bounded in-memory cache of decrypted imaging assets.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	capacity int
	ttl      time.Duration
	metrics  metrics.Metrics
	clock    func() time.Time
	closed   bool
}

type cacheOpts struct {
	capacity int
	ttl      time.Duration
	clock    func() time.Time
}

// Opt configures Cache.
type Opt func(*cacheOpts)

// WithCapacity overrides DefaultCapacity.
func WithCapacity(capacity int) Opt {
	return func(opts *cacheOpts) {
		opts.capacity = capacity
	}
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Opt {
	return func(opts *cacheOpts) {
		opts.ttl = ttl
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Opt {
	return func(opts *cacheOpts) {
		opts.clock = clock
	}
}

// New creates a Cache.
func New(m metrics.Metrics, opts ...Opt) *Cache {
	op := &cacheOpts{
		capacity: DefaultCapacity,
		ttl:      DefaultTTL,
		clock:    time.Now,
	}

	for _, fn := range opts {
		fn(op)
	}

	return &Cache{
		entries:  map[string]*entry{},
		capacity: op.capacity,
		ttl:      op.ttl,
		metrics:  m,
		clock:    op.clock,
	}
}

// Get returns the asset for blobID and bumps its access count. An entry past
// its TTL is evicted on access and reported as a miss.
func (c *Cache) Get(blobID string) *Asset {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[blobID]
	if !ok {
		c.metrics.ImageCacheMiss()

		return nil
	}

	if c.clock().Sub(e.insertedAt) >= c.ttl {
		c.releaseLocked(blobID, e)
		c.metrics.ImageCacheLazyExpiry()
		c.metrics.ImageCacheMiss()

		return nil
	}

	e.accessCount++
	c.metrics.ImageCacheHit()

	return e.asset
}

// Put inserts the asset, evicting the lowest-scored entry at capacity. A
// second Put for the same blob id releases the previous asset.
func (c *Cache) Put(blobID string, asset *Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		release(asset)

		return
	}

	if existing, ok := c.entries[blobID]; ok {
		c.releaseLocked(blobID, existing)
	}

	if len(c.entries) >= c.capacity {
		c.evictLowestLocked()
	}

	c.entries[blobID] = &entry{
		asset:      asset,
		insertedAt: c.clock(),
	}
}

// Remove releases and drops a single entry.
func (c *Cache) Remove(blobID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[blobID]; ok {
		c.releaseLocked(blobID, e)
	}
}

// Clear releases and drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLocked()
}

// Close releases every entry unconditionally and rejects further inserts.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLocked()
	c.closed = true
}

// Len reports the live entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *Cache) clearLocked() {
	for blobID, e := range c.entries {
		c.releaseLocked(blobID, e)
	}
}

func (c *Cache) evictLowestLocked() {
	now := c.clock()

	var (
		lowestID    string
		lowestEntry *entry
	)

	for blobID, e := range c.entries {
		if lowestEntry == nil || e.score(now) < lowestEntry.score(now) {
			lowestID = blobID
			lowestEntry = e
		}
	}

	if lowestEntry != nil {
		c.releaseLocked(lowestID, lowestEntry)
		c.metrics.ImageCacheEviction()

		logger.Debug("evicted imaging asset", logfields.WithBlobID(lowestID))
	}
}

// releaseLocked removes the entry from the map before running the release
// callback, so the callback can never run twice for one entry.
func (c *Cache) releaseLocked(blobID string, e *entry) {
	delete(c.entries, blobID)
	release(e.asset)
}

func release(asset *Asset) {
	if asset != nil && asset.Release != nil {
		asset.Release()
	}
}
