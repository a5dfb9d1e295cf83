// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "nested", "out.md")

	require.NoError(t, WriteAtomic(dest, []byte("first")))
	require.NoError(t, WriteAtomic(dest, []byte("second")))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

func TestWriteAtomicFrom_ErrorKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.md")
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0o644))

	err := WriteAtomicFrom(dest, failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExistsAndStem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2024-01-05-db.pdf")
	assert.False(t, Exists(path))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.True(t, Exists(path))

	assert.Equal(t, "2024-01-05-db", Stem(path))
	assert.Equal(t, "notes.v2", Stem("/x/notes.v2.md"))
}
