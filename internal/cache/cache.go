// Package cache persists fetched lyrics on disk so repeated pulls and
// viewer sessions do not hammer the lyrics API.
package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"karolbroda.com/lrcvis/internal/lrclib"
)

const (
	entryVersion = 1
	defaultTTL   = 30 * 24 * time.Hour
	cacheDirName = "lrcvis"
)

var (
	ErrMiss    = errors.New("cache miss")
	ErrExpired = errors.New("cache expired")
	ErrCorrupt = errors.New("cache corrupt")
)

type entry struct {
	Version   uint8
	Lyrics    lrclib.Lyrics
	CreatedAt int64
	ExpiresAt int64
}

type Cache struct {
	basePath string
	mu       sync.RWMutex
	mem      map[string]*entry
}

// New opens the cache under the user's XDG cache directory.
func New() (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}

	return NewAt(filepath.Join(base, cacheDirName, "lyrics"))
}

// NewAt opens the cache rooted at an explicit directory.
func NewAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}

	return &Cache{
		basePath: dir,
		mem:      make(map[string]*entry),
	}, nil
}

func key(artist, title string) string {
	normalized := strings.ToLower(artist) + "|" + strings.ToLower(title)
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:12])
}

func (c *Cache) filePath(k string) string {
	return filepath.Join(c.basePath, k+".bin")
}

// Get returns cached lyrics for the pair, or ErrMiss/ErrExpired.
func (c *Cache) Get(artist, title string) (*lrclib.Lyrics, error) {
	if artist == "" || title == "" {
		return nil, ErrMiss
	}
	k := key(artist, title)

	c.mu.RLock()
	cached, ok := c.mem[k]
	c.mu.RUnlock()

	if !ok {
		loaded, err := c.load(k)
		if err != nil {
			return nil, err
		}
		cached = loaded

		c.mu.Lock()
		c.mem[k] = cached
		c.mu.Unlock()
	}

	if time.Now().Unix() > cached.ExpiresAt {
		return nil, ErrExpired
	}

	lyrics := cached.Lyrics
	return &lyrics, nil
}

func (c *Cache) Set(artist, title string, lyrics *lrclib.Lyrics) error {
	if artist == "" || title == "" || lyrics == nil {
		return errors.New("invalid cache entry")
	}

	now := time.Now()
	e := &entry{
		Version:   entryVersion,
		Lyrics:    *lyrics,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(defaultTTL).Unix(),
	}

	k := key(artist, title)

	c.mu.Lock()
	c.mem[k] = e
	c.mu.Unlock()

	f, err := os.Create(c.filePath(k))
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(e); err != nil {
		f.Close()
		os.Remove(c.filePath(k))
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return f.Close()
}

func (c *Cache) load(k string) (*entry, error) {
	f, err := os.Open(c.filePath(k))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMiss
		}
		return nil, err
	}
	defer f.Close()

	var e entry
	if err := gob.NewDecoder(f).Decode(&e); err != nil {
		return nil, ErrCorrupt
	}
	if e.Version != entryVersion {
		return nil, ErrCorrupt
	}

	return &e, nil
}

// Clear removes every stored entry and reports how many were deleted.
func (c *Cache) Clear() (int, error) {
	c.mu.Lock()
	c.mem = make(map[string]*entry)
	c.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(c.basePath, "*.bin"))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range matches {
		if err := os.Remove(path); err == nil {
			removed++
		}
	}

	return removed, nil
}

// Stats reports entry count and total size on disk.
func (c *Cache) Stats() (count int, bytes int64, err error) {
	matches, err := filepath.Glob(filepath.Join(c.basePath, "*.bin"))
	if err != nil {
		return 0, 0, err
	}

	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		count++
		bytes += info.Size()
	}

	return count, bytes, nil
}
