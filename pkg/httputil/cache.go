package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when an entry exists but is older
// than the cache TTL. The stale file stays on disk until the next [Cache.Set].
var ErrExpired = errors.New("cache entry expired")

// Cache stores JSON-marshalable values as files named by the SHA-256 of
// their key. Freshness is judged by file modification time; a TTL of 0
// disables expiry.
//
// A Cache is not goroutine-safe. Separate instances may share a directory.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache creates a Cache in dir, creating the directory if needed.
// An empty dir selects ~/.cache/unshred/http.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "unshred", "http")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the entry lifetime; 0 means entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get loads the value stored under key into v.
//
//   - (true, nil): hit, v populated
//   - (false, nil): miss, v untouched
//   - (false, ErrExpired): stale entry, v untouched
//   - (false, err): I/O or decode failure
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(c.prefix + key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores v under key, replacing any previous entry and resetting its age.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(c.prefix+key), data, 0o644)
}

// Delete removes the entry for key. Missing entries are not an error.
func (c *Cache) Delete(key string) error {
	err := os.Remove(c.keyPath(c.prefix + key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Namespace returns a view of the cache whose keys are prefixed with prefix.
// Views share directory and TTL and can be chained.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{
		dir:    c.dir,
		ttl:    c.ttl,
		prefix: c.prefix + prefix,
	}
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
