package fixer

import (
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of fixes kept when no size is given.
const DefaultCacheSize = 128

// Cache is a bounded least-recently-used store of generated fixes.
// It is safe for concurrent use.
type Cache struct {
	capacity int
	lru      *lru.Cache[uint64, string]
}

// NewCache creates a cache holding at most size fixes.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	l, _ := lru.New[uint64, string](size)
	return &Cache{capacity: size, lru: l}
}

// Key hashes a code window and issue description into a cache key.
func Key(window, description string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(window)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(description)
	return d.Sum64()
}

// Get returns the fix stored under key and marks it most recently used.
func (c *Cache) Get(key uint64) (string, bool) {
	if c == nil {
		return "", false
	}
	return c.lru.Get(key)
}

// Put stores a fix, evicting the least recently used entry when full.
func (c *Cache) Put(key uint64, value string) {
	if c == nil {
		return
	}
	c.lru.Add(key, value)
}

// Len returns the number of cached fixes.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
