// ABOUTME: TTL guard against gateway redelivery of platform messages.
// ABOUTME: Bounded in size; expired entries are swept when room is needed.

package relay

import (
	"sync"
	"time"
)

// seenCache remembers recently relayed platform message IDs so a gateway
// reconnect replaying events cannot deliver the same reply twice.
type seenCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	entries map[string]time.Time
}

func newSeenCache(ttl time.Duration, maxSize int) *seenCache {
	return &seenCache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]time.Time),
	}
}

// CheckAndMark atomically reports whether the key was already seen and marks
// it otherwise. Returns true for duplicates.
func (c *seenCache) CheckAndMark(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if at, ok := c.entries[key]; ok && now.Sub(at) < c.ttl {
		return true
	}

	if len(c.entries) >= c.maxSize {
		c.sweepLocked(now)
	}
	c.entries[key] = now
	return false
}

// sweepLocked drops expired entries; if none expired it evicts the oldest so
// an insert always finds room. Must be called with mu held.
func (c *seenCache) sweepLocked(now time.Time) {
	for key, at := range c.entries {
		if now.Sub(at) >= c.ttl {
			delete(c.entries, key)
		}
	}
	if len(c.entries) < c.maxSize {
		return
	}

	var oldestKey string
	var oldestAt time.Time
	for key, at := range c.entries {
		if oldestKey == "" || at.Before(oldestAt) {
			oldestKey = key
			oldestAt = at
		}
	}
	delete(c.entries, oldestKey)
}
