// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores extracted PDF text so that re-runs skip extraction.
//
// Entries are keyed by source filename and extraction strategy. A stored
// entry is reused as long as it exists; nothing checks whether the source
// changed. Clear, or deleting the cache location, forces re-extraction.
package cache

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pdiddy/incident-reports/pkg/types"
)

// Cache is a keyed store of extracted text.
type Cache interface {
	// Get returns the text stored under key. ok is false on a miss.
	Get(ctx context.Context, key string) (text string, ok bool, err error)

	// Put stores text under key, replacing any previous entry.
	Put(ctx context.Context, key, text string) error

	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases any resources held by the cache.
	Close() error
}

// Key returns the cache key for a source file extracted with strategy.
func Key(sourcePath string, strategy types.ExtractionStrategy) string {
	return filepath.Base(sourcePath) + "." + string(strategy)
}

// Open returns the cache selected by cfg. The none backend returns a nil
// Cache and no error.
func Open(cfg types.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", types.CacheNone:
		return nil, nil
	case types.CacheDir:
		c, err := NewDirCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case types.CacheSQLite:
		c, err := NewSQLiteCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
