// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/incident-reports/internal/cache"
	"github.com/pdiddy/incident-reports/internal/logger"
	"github.com/pdiddy/incident-reports/pkg/types"
)

// fakeExtractor returns canned text and counts calls.
type fakeExtractor struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Name() string { return f.name }

func (f *fakeExtractor) Extract(context.Context, string) (string, error) {
	f.calls++
	return f.text, f.err
}

// fakeRuntime implements container.Runtime.
type fakeRuntime struct {
	images map[string]bool
	output string
	err    error
	stdin  string
}

func (r *fakeRuntime) Name() string                  { return "docker" }
func (r *fakeRuntime) Available(context.Context) bool { return true }

func (r *fakeRuntime) ImageExists(_ context.Context, image string) error {
	if r.images[image] {
		return nil
	}
	return errors.New("no such image")
}

func (r *fakeRuntime) Run(_ context.Context, _ string, _ []string, stdin io.Reader, stdout io.Writer) error {
	data, _ := io.ReadAll(stdin)
	r.stdin = string(data)
	if r.err != nil {
		return r.err
	}
	_, err := io.WriteString(stdout, r.output)
	return err
}

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "2024-01-05-db.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))
	return path
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	ex, err := New(ctx, types.ConversionConfig{}, nil, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "plain", ex.Name())

	ex, err = New(ctx, types.ConversionConfig{Strategy: types.StrategyLayout}, nil, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LayoutExtractor{}, ex)

	c, err := cache.NewDirCache(t.TempDir())
	require.NoError(t, err)
	ex, err = New(ctx, types.ConversionConfig{Strategy: types.StrategyPlain}, c, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Cached{}, ex)
	assert.Equal(t, "plain", ex.Name())

	_, err = New(ctx, types.ConversionConfig{Strategy: "ocr"}, nil, logger.NewNop())
	assert.Error(t, err)
}

func TestCached(t *testing.T) {
	ctx := context.Background()
	path := writePDF(t)
	c, err := cache.NewDirCache(t.TempDir())
	require.NoError(t, err)

	inner := &fakeExtractor{name: "layout", text: "extracted"}
	ex := NewCached(inner, c, logger.NewNop())

	for i := 0; i < 2; i++ {
		text, err := ex.Extract(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "extracted", text)
	}
	assert.Equal(t, 1, inner.calls, "second call should be served from the cache")

	text, ok, err := c.Get(ctx, "2024-01-05-db.pdf.layout")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "extracted", text)
}

func TestCached_ErrorNotStored(t *testing.T) {
	ctx := context.Background()
	path := writePDF(t)
	c, err := cache.NewDirCache(t.TempDir())
	require.NoError(t, err)

	inner := &fakeExtractor{name: "plain", err: errors.New("corrupt xref")}
	_, err = NewCached(inner, c, logger.NewNop()).Extract(ctx, path)
	require.Error(t, err)

	_, ok, err := c.Get(ctx, cache.Key(path, types.StrategyPlain))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMLExtractor(t *testing.T) {
	ctx := context.Background()
	path := writePDF(t)

	t.Run("missing image", func(t *testing.T) {
		_, err := NewMLExtractor(ctx, &fakeRuntime{}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "docker")
	})

	t.Run("pipes pdf through container", func(t *testing.T) {
		rt := &fakeRuntime{images: map[string]bool{DefaultImage: true}, output: "## Hub outage\nStatus: Draft\n"}
		ml, err := NewMLExtractor(ctx, rt, "")
		require.NoError(t, err)

		text, err := ml.Extract(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "## Hub outage\nStatus: Draft\n", text)
		assert.Equal(t, "%PDF-1.4 fake", rt.stdin)
		assert.Equal(t, "ml", ml.Name())
	})

	t.Run("empty output", func(t *testing.T) {
		rt := &fakeRuntime{images: map[string]bool{"custom:1": true}, output: "  \n"}
		ml, err := NewMLExtractor(ctx, rt, "custom:1")
		require.NoError(t, err)

		_, err = ml.Extract(ctx, path)
		assert.ErrorIs(t, err, ErrNoText)
	})

	t.Run("container failure", func(t *testing.T) {
		rt := &fakeRuntime{images: map[string]bool{DefaultImage: true}, err: errors.New("exit 137")}
		ml, err := NewMLExtractor(ctx, rt, "")
		require.NoError(t, err)

		_, err = ml.Extract(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exit 137")
	})
}
