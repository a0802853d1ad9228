// Package cache implements the TTL-based content store collectors use to
// avoid re-fetching article bodies.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// entry is the on-disk shape of one cache file. ExpiresAt is epoch
// milliseconds so caches written by older deployments stay readable.
type entry struct {
	Content   string `json:"content"`
	ExpiresAt int64  `json:"expiresAt"`
}

// ContentCache stores one JSON file per key under a directory. Entries are
// advisory speed-ups: writes are not lock-protected and concurrent
// GetOrFetch calls for the same key may both run the fetch (last write wins).
type ContentCache struct {
	dir string
	now func() time.Time
}

// New ensures dir exists and returns a cache over it.
func New(dir string) (*ContentCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache dir: %w", err)
	}

	return &ContentCache{
		dir: dir,
		now: time.Now,
	}, nil
}

// Get returns the content stored under key. Missing, unreadable, corrupt
// and expired entries all read as absent; an expired entry is removed as a
// side effect.
func (c *ContentCache) Get(key string) (string, bool) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", false
	}

	if c.now().UnixMilli() > e.ExpiresAt {
		os.Remove(path)
		return "", false
	}

	return e.Content, true
}

// Set overwrites any existing entry for key with content expiring
// ttlHours from now.
func (c *ContentCache) Set(key, content string, ttlHours int) error {
	e := entry{
		Content:   content,
		ExpiresAt: c.now().Add(time.Duration(ttlHours) * time.Hour).UnixMilli(),
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := os.WriteFile(c.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}

	return nil
}

// GetOrFetch returns the cached content for key, running fetch and storing
// its result when the cache misses. A failed cache write does not fail the
// fetch.
func (c *ContentCache) GetOrFetch(key string, fetch func() (string, error), ttlHours int) (string, error) {
	if content, ok := c.Get(key); ok {
		return content, nil
	}

	content, err := fetch()
	if err != nil {
		return "", err
	}

	_ = c.Set(key, content, ttlHours)

	return content, nil
}

func (c *ContentCache) path(key string) string {
	sum := md5.Sum([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}
