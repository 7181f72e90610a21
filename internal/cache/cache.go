// Package cache stores per-file review results on disk. Entries are keyed
// by file path and validated by a BLAKE3 hash of the file content together
// with the settings that produced the result.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	"github.com/panbanda/scry/pkg/models"
)

// Cache provides file-based caching for review results.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry represents a cached review.
type Entry struct {
	Hash      string            `json:"hash"`
	Timestamp time.Time         `json:"timestamp"`
	Review    models.FileReview `json:"review"`
}

// New creates a new cache instance. A disabled cache never hits and never
// writes. A ttl of zero keeps entries until the content changes.
func New(dir string, ttl time.Duration, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Cache{
		dir:     dir,
		ttl:     ttl,
		enabled: true,
	}, nil
}

// Disabled returns a cache that does nothing.
func Disabled() *Cache {
	return &Cache{}
}

// Enabled reports whether the cache reads and writes entries.
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// HashBytes computes a BLAKE3 hash of the given parts and returns it as a
// hex string.
func HashBytes(parts ...[]byte) string {
	h := blake3.New()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached review of path if its content and settings are
// unchanged and the entry has not expired.
func (c *Cache) Get(path string, content []byte, settings string) (models.FileReview, bool) {
	if !c.Enabled() {
		return models.FileReview{}, false
	}

	file := c.keyPath(path)
	data, err := os.ReadFile(file)
	if err != nil {
		return models.FileReview{}, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return models.FileReview{}, false
	}

	if entry.Hash != HashBytes([]byte(settings), content) {
		return models.FileReview{}, false
	}

	if c.ttl > 0 && time.Since(entry.Timestamp) > c.ttl {
		_ = os.Remove(file)
		return models.FileReview{}, false
	}

	entry.Review.Cached = true
	return entry.Review, true
}

// Set stores the review of path.
func (c *Cache) Set(path string, content []byte, settings string, review models.FileReview) error {
	if !c.Enabled() {
		return nil
	}

	entry := Entry{
		Hash:      HashBytes([]byte(settings), content),
		Timestamp: time.Now(),
		Review:    review,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return os.WriteFile(c.keyPath(path), data, 0600)
}

// Invalidate removes the entry for path.
func (c *Cache) Invalidate(path string) error {
	if !c.Enabled() {
		return nil
	}
	err := os.Remove(c.keyPath(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.Enabled() {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// keyPath converts a file path to a cache file name.
func (c *Cache) keyPath(path string) string {
	hash := blake3.Sum256([]byte(path))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+".json")
}

// Stats returns cache statistics.
type Stats struct {
	Entries   int   `json:"entries"`
	TotalSize int64 `json:"total_size"`
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.Enabled() {
		return &Stats{}, nil
	}

	stats := &Stats{}
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		stats.Entries++
		stats.TotalSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
