// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/incident-reports/internal/logger"
	"github.com/pdiddy/incident-reports/pkg/types"
)

const convertedDoc = `---
title: "Hub outage: part 2"
date: 2024-03-02
---

# Hub outage: part 2

| Field | Value |
| --- | --- |
| **Impact Time** | Mar 2 at 10:00 to Mar 2 at 12:00 |
| **Duration** | 2h 0m |
`

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name    string
		stem    string
		content string
		want    types.IndexEntry
		wantErr bool
	}{
		{
			name:    "frontmatter and duration",
			stem:    "2024-03-02-hub",
			content: convertedDoc,
			want:    types.IndexEntry{Date: "2024-03-02", Title: "Hub outage: part 2", Duration: "2h 0m", Link: "./report/2024-03-02-hub"},
		},
		{
			name:    "no frontmatter",
			stem:    "2024-01-01-notes",
			content: "# Notes\n",
			want:    types.IndexEntry{Date: "2024-01-01", Title: "2024-01-01-notes", Duration: "Unknown", Link: "./report/2024-01-01-notes"},
		},
		{
			name:    "malformed frontmatter falls back",
			stem:    "2024-01-02-bad",
			content: "---\ntitle: [unclosed\n---\n| **Duration** | 5m |\n",
			want:    types.IndexEntry{Date: "2024-01-02", Title: "2024-01-02-bad", Duration: "5m", Link: "./report/2024-01-02-bad"},
			wantErr: true,
		},
		{
			name:    "undated filename",
			stem:    "notes",
			content: "---\ntitle: \"Notes\"\n---\n",
			want:    types.IndexEntry{Date: "Unknown", Title: "Notes", Duration: "Unknown", Link: "./report/notes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntry(tt.stem, tt.content, DefaultLinkPrefix)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTable(t *testing.T) {
	got := Table([]types.IndexEntry{
		{Date: "2024-03-02", Title: "Hub", Duration: "2h", Link: "./report/2024-03-02-hub"},
	})
	want := "| Date | Report | Duration |\n| --- | --- | --- |\n| 2024-03-02 | [Hub](./report/2024-03-02-hub) | 2h |\n"
	assert.Equal(t, want, got)
	assert.Equal(t, "| Date | Report | Duration |\n| --- | --- | --- |\n", Table(nil))
}

func TestTable_EscapesTitle(t *testing.T) {
	got := Table([]types.IndexEntry{
		{Date: "2024-03-02", Title: "Hub [prod] | API", Duration: "2h", Link: "./report/2024-03-02-hub"},
	})
	assert.Contains(t, got, `| 2024-03-02 | [Hub \[prod\] \| API](./report/2024-03-02-hub) | 2h |`)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "2024-03-02-hub.md", convertedDoc)
	writeDoc(t, dir, "2023-11-20-old.md", "---\ntitle: \"Old\"\ndate: 2023-11-20\n---\n")
	writeDoc(t, dir, "2024-01-02-bad.md", "---\ntitle: [unclosed\n---\n")
	writeDoc(t, dir, "ignored.txt", "not markdown")

	tableFile := filepath.Join(dir, DefaultTableFile)
	entries, err := New(dir, "", logger.NewNop()).Generate(tableFile)
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, "Hub outage: part 2", entries[0].Title)
	assert.Equal(t, "2024-01-02-bad", entries[1].Title)
	assert.Equal(t, "Old", entries[2].Title)

	data, err := os.ReadFile(tableFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "| 2024-03-02 | [Hub outage: part 2](./report/2024-03-02-hub) | 2h 0m |")
	assert.Contains(t, string(data), "| 2023-11-20 | [Old](./report/2023-11-20-old) | Unknown |")
}

func TestGenerate_CustomLinkPrefix(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "2024-03-02-hub.md", convertedDoc)

	entries, err := New(dir, "/incidents/", logger.NewNop()).Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/incidents/2024-03-02-hub", entries[0].Link)
}

func TestGenerate_EmptyDir(t *testing.T) {
	dir := t.TempDir()
	tableFile := filepath.Join(dir, "out", DefaultTableFile)

	entries, err := New(dir, "", logger.NewNop()).Generate(tableFile)
	require.NoError(t, err)
	assert.Empty(t, entries)

	data, err := os.ReadFile(tableFile)
	require.NoError(t, err)
	assert.Equal(t, "| Date | Report | Duration |\n| --- | --- | --- |\n", string(data))
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, []types.IndexEntry{{Date: "2024-03-02", Title: "Hub", Duration: "2h", Link: "./report/x"}})

	out := buf.String()
	assert.Contains(t, out, "Hub")
	assert.Contains(t, out, "2024-03-02")
	assert.Contains(t, strings.ToLower(out), "1 reports")
}
