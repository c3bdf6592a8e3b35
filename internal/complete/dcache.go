package complete

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when diskEntry format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты автодополнения на диске между запусками.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type diskEntry struct {
	Schema     uint16
	Query      string
	Stored     time.Time
	Candidates []Candidate
}

// OpenDiskCache opens the cache rooted at dir. An empty dir selects
// $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenDiskCache(dir, app string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(query string) string {
	sum := sha256.Sum256([]byte(query))
	return filepath.Join(c.dir, "lookup", hex.EncodeToString(sum[:])+".mp")
}

// Put stores the candidates for query.
func (c *DiskCache) Put(query string, stored time.Time, cands []Candidate) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(query)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) // после Rename файла уже нет, ошибка не важна

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&diskEntry{
		Schema:     diskCacheSchemaVersion,
		Query:      query,
		Stored:     stored,
		Candidates: cands,
	}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get loads the candidates stored for query and when they were stored.
func (c *DiskCache) Get(query string) ([]Candidate, time.Time, bool, error) {
	if c == nil {
		return nil, time.Time{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(query))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, time.Time{}, false, nil
		}
		return nil, time.Time{}, false, err
	}
	defer f.Close()

	var e diskEntry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return nil, time.Time{}, false, err
	}
	// коллизия хэша или старая схема: считаем промахом
	if e.Schema != diskCacheSchemaVersion || e.Query != query {
		return nil, time.Time{}, false, nil
	}
	return e.Candidates, e.Stored, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "lookup"))
}
