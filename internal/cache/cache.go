package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// Cache stores translation results in a JSON file under the user cache
// directory, keyed by a digest of the request. A corrupt or missing file is
// treated as an empty cache rather than an error.
type Cache struct {
	path string

	mu      sync.Mutex
	entries map[string]string
}

// Open loads the cache file, creating its directory if needed.
func Open() (*Cache, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("cache: resolve user cache directory: %w", err)
	}
	cacheDir := filepath.Join(dir, "translive")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("cache: create cache directory: %w", err)
	}
	return OpenFile(filepath.Join(cacheDir, "translations.json"))
}

// OpenFile loads the cache from an explicit path.
func OpenFile(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		log.Warn().Str("path", path).Err(err).Msg("cache: file unreadable, starting empty")
		c.entries = make(map[string]string)
	}
	return c, nil
}

// Key derives the cache key for one translation request.
func Key(sourceLang, targetLang, formality, text string) string {
	h := sha256.New()
	for _, part := range []string{sourceLang, targetLang, formality, text} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get looks a translation up.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put records a translation and persists the file.
func (c *Cache) Put(key, translation string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = translation

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("cache: write %s: %w", c.path, err)
	}
	return nil
}

// Len reports the number of cached translations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
