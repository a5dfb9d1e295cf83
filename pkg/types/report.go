// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the incident-reports
// pipeline: source documents, extracted report fields, timeline rows, index
// entries, and stage configuration.
package types

// Unknown is the text rendered for a metadata field that could not be
// extracted. Only the rendering and indexing stages emit it; extracted
// values use the empty string for "not found".
const Unknown = "Unknown"

// SourceKind identifies the format of a source document.
type SourceKind string

const (
	SourcePDF      SourceKind = "pdf"
	SourceMarkdown SourceKind = "markdown"
)

// RawDocument is a source file as read from the reports directory.
type RawDocument struct {
	// ID is the filename stem, conventionally prefixed YYYY-MM-DD-.
	ID string `json:"id" yaml:"id"`

	// Path is the filesystem path of the source file.
	Path string `json:"path" yaml:"path"`

	// Kind is the source format.
	Kind SourceKind `json:"kind" yaml:"kind"`

	// Content is the extracted text (PDF) or the file contents (markdown).
	Content string `json:"content" yaml:"content"`
}

// Metadata holds the fixed-format fields of a postmortem. An empty field
// means the extractor did not find it.
type Metadata struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`
	ReviewOwner string `json:"review_owner,omitempty" yaml:"review_owner,omitempty"`
	ImpactTime  string `json:"impact_time,omitempty" yaml:"impact_time,omitempty"`
	Duration    string `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// Section is one named narrative section of a report.
type Section struct {
	// Name is the display name from the section vocabulary.
	Name string `json:"name" yaml:"name"`

	// Content is the stripped section body. Empty sections are not rendered.
	Content string `json:"content" yaml:"content"`
}

// TimelineEntry is one time-stamped timeline row.
type TimelineEntry struct {
	Time  string `json:"time" yaml:"time"`
	Event string `json:"event" yaml:"event"`
}

// DateGroup is a contiguous run of timeline entries under one date header.
// Date is empty for rows that appeared before any date header.
type DateGroup struct {
	Date    string          `json:"date,omitempty" yaml:"date,omitempty"`
	Entries []TimelineEntry `json:"entries" yaml:"entries"`
}

// Timeline is the reconstructed chronological log of a report.
type Timeline struct {
	Groups []DateGroup `json:"groups" yaml:"groups"`

	// Dated reports whether the source contained at least one date header.
	Dated bool `json:"dated" yaml:"dated"`
}

// Empty reports whether the timeline has no rows.
func (t Timeline) Empty() bool {
	for _, g := range t.Groups {
		if len(g.Entries) > 0 {
			return false
		}
	}
	return true
}

// Report is a parsed postmortem ready to be rendered.
type Report struct {
	// ID is the source filename stem.
	ID string `json:"id" yaml:"id"`

	// Date is the YYYY-MM-DD prefix of ID, or empty when absent.
	Date string `json:"date" yaml:"date"`

	Metadata Metadata  `json:"metadata" yaml:"metadata"`
	Sections []Section `json:"sections" yaml:"sections"`
	Timeline Timeline  `json:"timeline" yaml:"timeline"`
}

// IndexEntry is one row of the corpus summary table.
type IndexEntry struct {
	Date     string `json:"date" yaml:"date"`
	Title    string `json:"title" yaml:"title"`
	Duration string `json:"duration" yaml:"duration"`

	// Link is the site route of the converted document.
	Link string `json:"link" yaml:"link"`
}

// ConversionStatus indicates the outcome of converting one source document.
type ConversionStatus string

const (
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"
)
