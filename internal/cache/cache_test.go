// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/incident-reports/pkg/types"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "2024-01-05-db.pdf.layout", Key("/reports/2024-01-05-db.pdf", types.StrategyLayout))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(types.CacheConfig{Backend: types.CacheNone})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = Open(types.CacheConfig{Backend: types.CacheDir, Dir: filepath.Join(dir, "d")})
	require.NoError(t, err)
	assert.IsType(t, &DirCache{}, c)
	require.NoError(t, c.Close())

	c, err = Open(types.CacheConfig{Backend: types.CacheSQLite, Dir: filepath.Join(dir, "s")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteCache{}, c)
	require.NoError(t, c.Close())

	_, err = Open(types.CacheConfig{Backend: "redis"})
	assert.Error(t, err)

	_, err = Open(types.CacheConfig{Backend: types.CacheDir})
	assert.Error(t, err)
}

func TestBackends(t *testing.T) {
	backends := []struct {
		name string
		open func(t *testing.T) Cache
	}{
		{
			name: "dir",
			open: func(t *testing.T) Cache {
				c, err := NewDirCache(t.TempDir())
				require.NoError(t, err)
				return c
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) Cache {
				c, err := NewSQLiteCache(t.TempDir())
				require.NoError(t, err)
				return c
			},
		},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			c := b.open(t)
			defer c.Close()

			_, ok, err := c.Get(ctx, "a.pdf.plain")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, c.Put(ctx, "a.pdf.plain", "first"))
			require.NoError(t, c.Put(ctx, "a.pdf.plain", "second"))
			require.NoError(t, c.Put(ctx, "b.pdf.layout", "other"))

			text, ok, err := c.Get(ctx, "a.pdf.plain")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "second", text)

			n, err := c.Clear(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			_, ok, err = c.Get(ctx, "b.pdf.layout")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSQLiteCache_PersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c, err := NewSQLiteCache(dir)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, "k", "v"))
	require.NoError(t, c.Close())

	c, err = NewSQLiteCache(dir)
	require.NoError(t, err)
	defer c.Close()

	text, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", text)
}
