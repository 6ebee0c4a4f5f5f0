package media

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

const (
	cacheDirName  = "stories/media"
	cacheMaxAge   = 30 * 24 * time.Hour // 30 days
	pruneInterval = 24 * time.Hour
)

// Cache stores resized story images on disk as PNG.
type Cache struct {
	dir    string
	maxAge time.Duration

	mu         sync.Mutex
	lastPruned time.Time
}

// NewCache creates a disk cache under baseDir, or under the XDG cache home
// when baseDir is empty. Entries untouched for 30 days are pruned in the
// background.
func NewCache(baseDir string) (*Cache, error) {
	var dir string
	if baseDir == "" {
		dir = filepath.Join(xdg.CacheHome, cacheDirName)
	} else {
		dir = baseDir
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media cache: %w", err)
	}

	c := &Cache{dir: dir, maxAge: cacheMaxAge}
	go c.prune()

	return c, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func cacheKey(src string, width, height int) string {
	data := fmt.Sprintf("%s:%d:%d", src, width, height)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

func (c *Cache) path(src string, width, height int) string {
	return filepath.Join(c.dir, cacheKey(src, width, height)+".png")
}

// Get returns the cached PNG for src at the given pixel box, or nil.
func (c *Cache) Get(src string, width, height int) []byte {
	if c == nil {
		return nil
	}

	path := c.path(src, width, height)
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil
	}

	// Touch so that frequently viewed stories survive pruning.
	now := time.Now()
	_ = os.Chtimes(path, now, now) //nolint:errcheck // best-effort

	return data
}

// Put stores PNG data for src at the given pixel box.
func (c *Cache) Put(src string, width, height int, data []byte) error {
	if c == nil {
		return nil
	}
	return os.WriteFile(c.path(src, width, height), data, 0o600)
}

// prune removes entries older than maxAge. It runs at most once per
// pruneInterval.
func (c *Cache) prune() {
	if c == nil {
		return
	}

	c.mu.Lock()
	if time.Since(c.lastPruned) < pruneInterval {
		c.mu.Unlock()
		return
	}
	c.lastPruned = time.Now()
	c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-c.maxAge)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".png" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(c.dir, entry.Name())) //nolint:errcheck // best-effort cleanup
		}
	}
}
