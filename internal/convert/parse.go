// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"github.com/pdiddy/incident-reports/internal/metadata"
	"github.com/pdiddy/incident-reports/internal/normalize"
	"github.com/pdiddy/incident-reports/internal/render"
	"github.com/pdiddy/incident-reports/internal/segment"
	"github.com/pdiddy/incident-reports/internal/timeline"
	"github.com/pdiddy/incident-reports/pkg/types"
)

// Parse builds a report from the raw text extracted from one PDF. id is the
// source filename stem. Sidebar fields are read from raw before
// normalization removes them; everything else is read from normalized text.
func Parse(id, raw string) types.Report {
	normalized := normalize.Text(raw)

	md := metadata.Extract(raw, normalized)
	if md.Title == "" {
		md.Title = render.FilenameTitle(id)
	}

	return types.Report{
		ID:       id,
		Date:     render.DateFromStem(id),
		Metadata: md,
		Sections: segment.Segment(normalized),
		Timeline: timeline.Parse(normalized),
	}
}
