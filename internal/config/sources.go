package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"tagcalc/internal/complete"
)

// Stack is the autocomplete source assembled from a Config. Local sources
// are queried directly; the remote endpoint sits behind a cache.
type Stack struct {
	// Source queries inline tags, the remote endpoint, the SQLite catalog
	// and the builtin catalog, merging results in that order.
	Source complete.Source
	Inline *complete.Catalog
	SQLite *complete.SQLiteCatalog
	Remote *complete.Cached
	Disk   *complete.DiskCache
}

// OpenSources builds the stack described by cfg. The caller must Close it.
func OpenSources(cfg Config) (*Stack, error) {
	s := &Stack{Inline: complete.NewCatalog(cfg.Tags...)}
	multi := complete.Multi{s.Inline}

	if cfg.Catalog.Path != "" {
		db, err := complete.OpenSQLiteCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog %s: %w", cfg.Catalog.Path, err)
		}
		s.SQLite = db
	}

	if cfg.Autocomplete.URL != "" {
		opts := []complete.CacheOption{complete.WithStaleTime(cfg.Autocomplete.Stale.Duration)}
		if cfg.Autocomplete.CacheDir != "" {
			disk, err := complete.OpenDiskCache(cfg.Autocomplete.CacheDir, "tagcalc")
			if err != nil {
				_ = s.Close()
				return nil, fmt.Errorf("failed to open lookup cache: %w", err)
			}
			s.Disk = disk
			opts = append(opts, complete.WithDiskCache(disk))
		}
		s.Remote = complete.NewCached(complete.NewHTTPSource(cfg.Autocomplete.URL), opts...)
	}

	// Remote results rank ahead of the local catalogs, the builtin sample
	// data comes last.
	if s.Remote != nil {
		multi = append(multi, s.Remote)
	}
	if s.SQLite != nil {
		multi = append(multi, s.SQLite)
	}
	if cfg.Autocomplete.Builtin {
		multi = append(multi, complete.DefaultCatalog())
	}

	if len(multi) == 1 {
		s.Source = s.Inline
	} else {
		s.Source = multi
	}
	return s, nil
}

// Reload applies the parts of cfg that can change without reopening the
// stack: inline tags and the remote cache contents.
func (s *Stack) Reload(cfg Config) {
	s.Inline.Replace(cfg.Tags)
	if s.Remote != nil {
		s.Remote.Invalidate()
	}
}

// Tracker returns a lookup tracker over the stack honoring cfg's limit and
// timeout.
func (s *Stack) Tracker(cfg Config, opts ...complete.TrackerOption) *complete.Tracker {
	base := []complete.TrackerOption{
		complete.WithLimit(cfg.Autocomplete.Limit),
		complete.WithTimeout(cfg.Autocomplete.Timeout.Duration),
	}
	return complete.NewTracker(s.Source, append(base, opts...)...)
}

// Close releases the SQLite catalog.
func (s *Stack) Close() error {
	if s == nil {
		return nil
	}
	var merr *multierror.Error
	if s.SQLite != nil {
		if err := s.SQLite.Close(); err != nil {
			merr = multierror.Append(merr, err)
		}
		s.SQLite = nil
	}
	return merr.ErrorOrNil()
}
