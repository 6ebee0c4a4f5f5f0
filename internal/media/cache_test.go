package media

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(t.TempDir())
	require.NoError(t, err)
	return c
}

func TestNewCache_CustomDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")

	c, err := NewCache(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, c.Dir())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCache_PutAndGet(t *testing.T) {
	c := newTestCache(t)
	data := []byte("png bytes")

	require.NoError(t, c.Put("https://example.com/a.jpg", 320, 240, data))

	assert.Equal(t, data, c.Get("https://example.com/a.jpg", 320, 240))
}

func TestCache_Get_Miss(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Put("https://example.com/a.jpg", 320, 240, []byte("x")))

	tests := []struct {
		name   string
		src    string
		width  int
		height int
	}{
		{"unknown url", "https://example.com/b.jpg", 320, 240},
		{"other width", "https://example.com/a.jpg", 640, 240},
		{"other height", "https://example.com/a.jpg", 320, 480},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, c.Get(tt.src, tt.width, tt.height))
		})
	}
}

func TestCache_Nil(t *testing.T) {
	var c *Cache

	assert.Nil(t, c.Get("a", 1, 1))
	assert.NoError(t, c.Put("a", 1, 1, []byte("x")))
	assert.Empty(t, c.Dir())
}

func TestCache_Get_UpdatesMtime(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Put("a", 1, 1, []byte("x")))
	path := c.path("a", 1, 1)
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	c.Get("a", 1, 1)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().After(old.Add(time.Hour)))
}

func TestCache_Prune(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Put("old", 1, 1, []byte("x")))
	require.NoError(t, c.Put("fresh", 1, 1, []byte("y")))
	stale := time.Now().Add(-cacheMaxAge - time.Hour)
	require.NoError(t, os.Chtimes(c.path("old", 1, 1), stale, stale))
	foreign := filepath.Join(c.Dir(), "notes.txt")
	require.NoError(t, os.WriteFile(foreign, []byte("keep"), 0o600))
	require.NoError(t, os.Chtimes(foreign, stale, stale))

	c.mu.Lock()
	c.lastPruned = time.Time{}
	c.mu.Unlock()
	c.prune()

	_, err := os.Stat(c.path("old", 1, 1))
	assert.True(t, os.IsNotExist(err), "old entry should be pruned")
	assert.NotNil(t, c.Get("fresh", 1, 1))
	_, err = os.Stat(foreign)
	assert.NoError(t, err, "non-cache files are left alone")
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, cacheKey("a", 1, 2), cacheKey("a", 1, 2))
	assert.NotEqual(t, cacheKey("a", 1, 2), cacheKey("a", 2, 1))
	assert.NotEqual(t, cacheKey("a", 1, 2), cacheKey("b", 1, 2))
	assert.Len(t, cacheKey("a", 1, 2), 64)
}
