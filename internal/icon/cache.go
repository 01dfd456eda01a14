package icon

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Cache stores converted icons on disk, keyed by source path and size and
// invalidated by the hash of the source bytes.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// NewCache creates an icon cache in dir.
func NewCache(dir string) *Cache {
	_ = os.MkdirAll(dir, 0755)
	return &Cache{dir: dir}
}

var (
	defaultOnce  sync.Once
	defaultCache *Cache
)

// DefaultCache lives in the user cache directory (deskview/icons).
func DefaultCache() *Cache {
	defaultOnce.Do(func() {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		defaultCache = NewCache(filepath.Join(base, "deskview", "icons"))
	})
	return defaultCache
}

func (c *Cache) filePath(key string) string {
	return filepath.Join(c.dir, key+".png")
}

func (c *Cache) hashPath(key string) string {
	return filepath.Join(c.dir, key+".hash")
}

// Get returns the cached icon, or nil if not cached or the hash differs.
func (c *Cache) Get(key, hash string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if hash == "" {
		return nil, nil
	}

	stored, err := os.ReadFile(c.hashPath(key))
	if err != nil || string(stored) != hash {
		return nil, nil
	}

	data, err := os.ReadFile(c.filePath(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}

// Put stores an icon and its hash.
func (c *Cache) Put(key, hash string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.WriteFile(c.filePath(key), data, 0644); err != nil {
		return err
	}
	return os.WriteFile(c.hashPath(key), []byte(hash), 0644)
}

// Export is the cached form of the package-level Export.
func (c *Cache) Export(path string, size int) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	key := fmt.Sprintf("%s-%d", hashBytes([]byte(abs)), size)
	hash := hashBytes(raw)

	if data, _ := c.Get(key, hash); data != nil {
		return data, nil
	}
	data, err := exportBytes(raw, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// A failed write only costs a later re-conversion.
	_ = c.Put(key, hash, data)
	return data, nil
}

func hashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:8]) // 16 hex chars
}
