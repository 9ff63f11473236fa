// Package cache memoises computed routes. Routes are a pure function of the
// venue version and the request, so entries never need invalidation beyond
// their TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"venue-wayfinding/internal/wayfinding/models"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ============================================================
// Keys
// ============================================================

// hashKey returns prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// RouteKey identifies one route request against one venue version.
func RouteKey(venueID string, version int64, from models.WayfindingPoint, toObjectID string, accessibleOnly bool) string {
	return hashKey("route", venueID, version, from.FloorID, from.X, from.Y, toObjectID, accessibleOnly)
}

// ============================================================
// Null
// ============================================================

// NullCache never stores anything.
type NullCache struct{}

func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)

// ============================================================
// Memory
// ============================================================

type memoryEntry struct {
	data    []byte
	expires time.Time
}

const (
	defaultMaxEntries = 10000
	sweepEvery        = 256
)

// MemoryCache is a process-local cache for single-instance deployments and
// tests. Expired entries are swept on writes; when the cache is full the
// entry closest to expiry is evicted.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	now        func() time.Time
	maxEntries int
	writes     int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		now:        time.Now,
		maxEntries: defaultMaxEntries,
	}
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.data, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	e := memoryEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}

	c.writes++
	_, exists := c.entries[key]
	if !exists && (c.writes%sweepEvery == 0 || len(c.entries) >= c.maxEntries) {
		c.sweep(now)
		if len(c.entries) >= c.maxEntries {
			c.evictOne()
		}
	}
	c.entries[key] = e
	return nil
}

// sweep drops every expired entry. Caller holds mu.
func (c *MemoryCache) sweep(now time.Time) {
	for k, e := range c.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
}

// evictOne drops the entry that expires first; entries without a TTL go
// last. Caller holds mu.
func (c *MemoryCache) evictOne() {
	victim := ""
	var soonest time.Time
	for k, e := range c.entries {
		if victim != "" && !expiresFirst(e.expires, k, soonest, victim) {
			continue
		}
		victim, soonest = k, e.expires
	}
	if victim != "" {
		delete(c.entries, victim)
	}
}

// expiresFirst orders entries by expiry, zero meaning never, then by key.
func expiresFirst(a time.Time, ka string, b time.Time, kb string) bool {
	switch {
	case a.Equal(b):
		return ka < kb
	case a.IsZero():
		return false
	case b.IsZero():
		return true
	}
	return a.Before(b)
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}

var _ Cache = (*MemoryCache)(nil)

// ============================================================
// Typed route layer
// ============================================================

// Routes stores routes as JSON in any Cache.
type Routes struct {
	c   Cache
	ttl time.Duration
}

func NewRoutes(c Cache, ttl time.Duration) *Routes {
	if c == nil {
		c = NewNullCache()
	}
	return &Routes{c: c, ttl: ttl}
}

// Get reports a miss for undecodable entries rather than failing the request.
func (r *Routes) Get(ctx context.Context, key string) (*models.Route, bool, error) {
	data, ok, err := r.c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var route models.Route
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, false, nil
	}
	return &route, true, nil
}

func (r *Routes) Put(ctx context.Context, key string, route *models.Route) error {
	data, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("encode route: %w", err)
	}
	return r.c.Set(ctx, key, data, r.ttl)
}

func (r *Routes) Close() error {
	return r.c.Close()
}
