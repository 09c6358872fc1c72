// Package cache implements the content-addressed on-disk audio cache.
// Entries are 16-bit PCM WAV files named by their cache key; the mapping
// key -> file is a pure function of the speech request, so an entry is
// written once and never updated in place.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"murmur/internal/speech/audio"
)

const entryExt = ".wav"

// Cache stores synthesized audio under a single root directory. The root
// is created lazily on first store; absence of an entry is a normal miss.
type Cache struct {
	root string
}

// Stats summarizes the cache contents.
type Stats struct {
	Root       string
	Entries    int
	TotalBytes int64
}

// New returns a cache rooted at dir. The directory is not created until
// the first store.
func New(dir string) *Cache {
	return &Cache{root: dir}
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.root, key+entryExt)
}

// Lookup returns the cached buffer for key if present. A missing entry is
// reported as (nil, false, nil); only unreadable or corrupt entries return
// an error.
func (c *Cache) Lookup(key string) (*audio.Buffer, bool, error) {
	f, err := os.Open(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to open cache entry %s: %w", key, err)
	}
	defer f.Close()

	buf, err := audio.DecodeWAV(f)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return buf, true, nil
}

// Store writes the buffer under key. The entry is encoded into a temporary
// file in the same directory and renamed into place, so a concurrent
// reader never observes a partially written file. Overwriting an existing
// key is harmless: keys are content-derived, last writer wins.
func (c *Cache) Store(key string, buf *audio.Buffer) error {
	if err := os.MkdirAll(c.root, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", c.root, err)
	}

	tmp, err := os.CreateTemp(c.root, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", c.root, err)
	}
	tmpName := tmp.Name()

	if err := audio.EncodeWAV(tmp, buf); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", key, err)
	}

	if err := os.Rename(tmpName, c.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to publish cache entry %s: %w", key, err)
	}

	logrus.WithFields(logrus.Fields{
		"key":  key,
		"file": c.path(key),
	}).Debug("Cached synthesized audio")
	return nil
}

// Stats walks the cache root and reports entry count and total size.
func (c *Cache) Stats() (Stats, error) {
	stats := Stats{Root: c.root}

	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil // empty cache
		}
		return stats, fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), entryExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()
	}
	return stats, nil
}

// Clear removes every cache entry. Stray temp files are removed too.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(e.Name(), entryExt) && !strings.HasSuffix(e.Name(), ".tmp") {
			continue
		}
		if err := os.Remove(filepath.Join(c.root, e.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", e.Name(), err)
		}
	}
	logrus.WithField("dir", c.root).Info("Cleared audio cache")
	return nil
}
