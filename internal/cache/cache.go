// internal/cache/cache.go
//
// Byte cache for upstream catalog responses.
// Implementations:
//   - memory: map guarded by RWMutex, lazy expiry on read (this package).
//   - redis:  go-redis client, TTL handled by the server (redis.go).
//
// A cache miss and a cache failure look the same to callers: the upstream
// client simply fetches again. Errors are logged, never returned.

package cache

import (
	"context"
	"sync"
	"time"
)

// Cache stores raw response bodies by key.
type Cache interface {
	// Get returns the cached value and true, or nil and false on miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores val for ttl. A zero ttl keeps the value until evicted.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

type entry struct {
	val     []byte
	expires time.Time // zero = never
}

// memory is an in-process Cache.
type memory struct {
	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time
}

// NewMemory constructs an empty in-process cache.
func NewMemory() Cache {
	return &memory{items: make(map[string]entry), now: time.Now}
}

// Get looks up key, dropping it if expired.
func (m *memory) Get(ctx context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.val, true
}

// Set adds or replaces key.
func (m *memory) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	e := entry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = e
	m.mu.Unlock()
}

// Nop is a Cache that never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (Nop) Set(context.Context, string, []byte, time.Duration) {}
