package replay

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is the in-process nonce cache. Suitable for single-instance
// deployments; multi-instance setups want the Redis cache so all replicas
// share one nonce space.
type MemoryCache struct {
	mu    sync.Mutex
	seen  map[string]time.Time
	sweep time.Time

	now func() time.Time
}

// NewMemoryCache returns an empty in-memory nonce cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Remember records the nonce and returns false if it was already present
// and unexpired.
func (c *MemoryCache) Remember(_ context.Context, nonce string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	if expiry, ok := c.seen[nonce]; ok && now.Before(expiry) {
		return false, nil
	}
	c.seen[nonce] = now.Add(ttl)

	c.maybeSweep(now)

	return true, nil
}

// maybeSweep drops expired nonces. Called with the mutex held.
func (c *MemoryCache) maybeSweep(now time.Time) {
	if now.Sub(c.sweep) < time.Minute {
		return
	}
	c.sweep = now

	for nonce, expiry := range c.seen {
		if now.After(expiry) {
			delete(c.seen, nonce)
		}
	}
}
