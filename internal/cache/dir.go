// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/incident-reports/internal/fileutil"
)

const dirEntryExt = ".txt"

// DirCache keeps one text file per entry in a directory.
type DirCache struct {
	dir string
}

// NewDirCache returns a DirCache rooted at dir, creating it if needed.
func NewDirCache(dir string) (*DirCache, error) {
	if dir == "" {
		return nil, errors.New("cache directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &DirCache{dir: dir}, nil
}

func (c *DirCache) path(key string) string {
	return filepath.Join(c.dir, strings.ReplaceAll(key, string(filepath.Separator), "_")+dirEntryExt)
}

func (c *DirCache) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	return string(data), true, nil
}

func (c *DirCache) Put(_ context.Context, key, text string) error {
	if err := fileutil.WriteAtomic(c.path(key), []byte(text)); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

func (c *DirCache) Clear(_ context.Context) (int, error) {
	paths, err := filepath.Glob(filepath.Join(c.dir, "*"+dirEntryExt))
	if err != nil {
		return 0, err
	}
	for i, p := range paths {
		if err := os.Remove(p); err != nil {
			return i, fmt.Errorf("removing cache entry: %w", err)
		}
	}
	return len(paths), nil
}

func (c *DirCache) Close() error { return nil }
