// ABOUTME: In-memory conversion cache that wraps a markdown conversion function with sha256-keyed caching.
// ABOUTME: Supports TTL-based expiry, concurrent access, and manual cache clearing.
package render

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// ConvertFunc is the signature for a markdown conversion function that the cache wraps.
type ConvertFunc func(src string) (string, error)

// cacheEntry holds a single cached conversion with its creation timestamp.
type cacheEntry struct {
	html      string
	createdAt time.Time
}

// Cache wraps a conversion function with an in-memory cache.
// Cache keys are derived from the sha256 hash of the source combined with a variant tag
// so that raw and sanitized output of the same source never collide.
// Entries expire after the configured TTL.
type Cache struct {
	convertFn ConvertFunc
	variant   string
	ttl       time.Duration
	entries   map[string]*cacheEntry
	mu        sync.RWMutex
}

// NewCache creates a Cache wrapping the given conversion function.
// Cached entries expire after the specified TTL duration.
func NewCache(convertFn ConvertFunc, variant string, ttl time.Duration) *Cache {
	return &Cache{
		convertFn: convertFn,
		variant:   variant,
		ttl:       ttl,
		entries:   make(map[string]*cacheEntry),
	}
}

// Convert returns the HTML for src, serving cached results when available
// and not expired. Errors are never cached.
func (c *Cache) Convert(src string) (string, error) {
	key := cacheKey(src, c.variant)

	c.mu.RLock()
	if entry, ok := c.entries[key]; ok {
		if time.Since(entry.createdAt) < c.ttl {
			out := entry.html
			c.mu.RUnlock()
			return out, nil
		}
	}
	c.mu.RUnlock()

	out, err := c.convertFn(src)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{
		html:      out,
		createdAt: time.Now(),
	}
	c.mu.Unlock()

	return out, nil
}

// Len returns the number of entries currently in the cache (including expired ones).
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// cacheKey generates a deterministic key from the source text and variant tag.
func cacheKey(src string, variant string) string {
	return fmt.Sprintf("%x:%s", sha256.Sum256([]byte(src)), variant)
}
