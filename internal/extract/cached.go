// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"

	"github.com/pdiddy/incident-reports/internal/cache"
	"github.com/pdiddy/incident-reports/internal/logger"
	"github.com/pdiddy/incident-reports/pkg/types"
)

// Cached serves extractions from a cache and stores new ones in it.
type Cached struct {
	next  Extractor
	cache cache.Cache
	log   logger.Logger
}

// NewCached wraps next with c.
func NewCached(next Extractor, c cache.Cache, log logger.Logger) *Cached {
	return &Cached{next: next, cache: c, log: log}
}

func (c *Cached) Name() string { return c.next.Name() }

// Extract returns the cached text for path when present. A cache failure
// is logged and extraction proceeds without the cache.
func (c *Cached) Extract(ctx context.Context, path string) (string, error) {
	key := cache.Key(path, types.ExtractionStrategy(c.next.Name()))

	text, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.log.Warn("cache read failed", logger.String("key", key), logger.Err(err))
	case ok:
		c.log.Debug("cache hit", logger.String("key", key))
		return text, nil
	}

	text, err = c.next.Extract(ctx, path)
	if err != nil {
		return "", err
	}
	if err := c.cache.Put(ctx, key, text); err != nil {
		c.log.Warn("cache write failed", logger.String("key", key), logger.Err(err))
	}
	return text, nil
}
