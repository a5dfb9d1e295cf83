// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/incident-reports/pkg/types"
)

func TestDocument(t *testing.T) {
	report := types.Report{
		ID:   "2024-01-05-db-outage",
		Date: "2024-01-05",
		Metadata: types.Metadata{
			Title:      "DB outage",
			Status:     "Draft",
			ImpactTime: "Jan 5 at 10:00 to Jan 5 at 12:00",
		},
		Sections: []types.Section{
			{Name: "Overview", Content: "All good"},
			{Name: "What Happened", Content: "  "},
			{Name: "Action Items", Content: "- [ ] Add alert\n- [x] Page"},
		},
		Timeline: types.Timeline{Groups: []types.DateGroup{
			{Entries: []types.TimelineEntry{{Time: "10:00 AM", Event: "Paged"}}},
		}},
	}

	want := `---
title: "DB outage"
date: 2024-01-05
status: "Draft"
---

# DB outage

| Field | Value |
| --- | --- |
| **Impact Time** | Jan 5 at 10:00 to Jan 5 at 12:00 |
| **Duration** | Unknown |

## Overview

All good

## Action Items

- Add alert
- Page

## Timeline

| Time | Event |
| --- | --- |
| 10:00 AM | Paged |
`

	assert.Equal(t, want, Document(report, Options{}))
}

func TestDocument_Minimal(t *testing.T) {
	got := Document(types.Report{ID: "outage-notes"}, Options{SourceLink: "../../reports/outage-notes.pdf"})

	want := `---
title: "Outage Notes"
date: Unknown
downloads:
  - file: ../../reports/outage-notes.pdf
    title: Download Source Report
---

# Outage Notes

| Field | Value |
| --- | --- |
| **Impact Time** | Unknown |
| **Duration** | Unknown |
`
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "## ")
}

func TestDocument_QuotesTitle(t *testing.T) {
	got := Document(types.Report{Metadata: types.Metadata{Title: `Hub "beta" down`}}, Options{})
	assert.Contains(t, got, `title: "Hub \"beta\" down"`)
}

func TestEnsureFrontmatter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		stem    string
		opts    Options
		want    string
	}{
		{
			name:    "existing frontmatter passes through",
			content: "---\ntitle: \"Kept\"\ndate: 2024-01-01\nextra: [a, b]\n---\n\n- [x] done\n- [ ] todo\n",
			stem:    "2024-01-01-kept",
			want:    "---\ntitle: \"Kept\"\ndate: 2024-01-01\nextra: [a, b]\n---\n\n- done\n- todo\n",
		},
		{
			name:    "title from first heading",
			content: "Intro\n# My Title\n\nBody\n",
			stem:    "2024-03-02-foo",
			want:    "---\ntitle: \"My Title\"\ndate: 2024-03-02\n---\n\nIntro\n# My Title\n\nBody\n",
		},
		{
			name:    "title from filename",
			content: "## Not a title\nBody\n",
			stem:    "notes-on_things",
			want:    "---\ntitle: \"Notes On Things\"\ndate: Unknown\n---\n\n## Not a title\nBody\n",
		},
		{
			name:    "download link",
			content: "# T\n",
			stem:    "2024-03-02-t",
			opts:    Options{SourceLink: "../../reports/2024-03-02-t.md"},
			want: "---\ntitle: \"T\"\ndate: 2024-03-02\ndownloads:\n  - file: ../../reports/2024-03-02-t.md\n" +
				"    title: Download Source Report\n---\n\n# T\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnsureFrontmatter(tt.content, tt.stem, tt.opts))
		})
	}
}

func TestFilenameTitle(t *testing.T) {
	tests := []struct {
		stem string
		want string
	}{
		{"2024-01-05-leap-hub_outage", "Leap Hub Outage"},
		{"2025-07-21_openscapes", "Openscapes"},
		{"notes", "Notes"},
		{"2024-01-05", "2024 01 05"},
		{"dubois--image  issue", "Dubois Image Issue"},
	}

	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			assert.Equal(t, tt.want, FilenameTitle(tt.stem))
		})
	}
}

func TestDateFromStem(t *testing.T) {
	assert.Equal(t, "2024-01-05", DateFromStem("2024-01-05-db"))
	assert.Empty(t, DateFromStem("db-2024-01-05"))
}

func TestNormalizeCheckboxes(t *testing.T) {
	assert.Equal(t, "- a\n- b\n- c", NormalizeCheckboxes("- [ ] a\n- [x] b\n- [X] c"))
}
