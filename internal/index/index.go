// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index builds the corpus summary table from converted documents.
//
// The table is recomputed from scratch on every run by reading back each
// document's frontmatter and metadata table. A document whose frontmatter
// cannot be parsed still gets a row built from its filename.
package index

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/incident-reports/internal/fileutil"
	"github.com/pdiddy/incident-reports/internal/logger"
	"github.com/pdiddy/incident-reports/internal/render"
	"github.com/pdiddy/incident-reports/internal/timeline"
	"github.com/pdiddy/incident-reports/pkg/types"
)

// Defaults matching the site's routing convention.
const (
	DefaultTableFile  = "report-table.txt"
	DefaultLinkPrefix = "./report/"
)

var durationRe = regexp.MustCompile(`\|\s*\*\*Duration\*\*\s*\|\s*(.+?)\s*\|`)

type frontmatter struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
}

// Indexer reads converted documents from a directory.
type Indexer struct {
	dir        string
	linkPrefix string
	log        logger.Logger
}

// New returns an Indexer over dir. An empty linkPrefix uses
// DefaultLinkPrefix.
func New(dir, linkPrefix string, log logger.Logger) *Indexer {
	if linkPrefix == "" {
		linkPrefix = DefaultLinkPrefix
	}
	return &Indexer{dir: dir, linkPrefix: linkPrefix, log: log}
}

// Entries returns one entry per markdown document in the directory, newest
// first by filename. Per-document problems are logged and the document
// falls back to filename-derived values.
func (x *Indexer) Entries() ([]types.IndexEntry, error) {
	paths, err := filepath.Glob(filepath.Join(x.dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", x.dir, err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	entries := make([]types.IndexEntry, 0, len(paths))
	for _, path := range paths {
		stem := fileutil.Stem(path)
		data, err := os.ReadFile(path)
		if err != nil {
			x.log.Warn("reading document", logger.String("file", path), logger.Err(err))
			entries = append(entries, ReadEntry(stem, "", x.linkPrefix))
			continue
		}
		entry, err := ParseEntry(stem, string(data), x.linkPrefix)
		if err != nil {
			x.log.Warn("parsing frontmatter, using filename", logger.String("file", path), logger.Err(err))
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Generate builds the table and writes it to tableFile atomically. It
// returns the entries it wrote.
func (x *Indexer) Generate(tableFile string) ([]types.IndexEntry, error) {
	entries, err := x.Entries()
	if err != nil {
		return nil, err
	}
	if err := fileutil.WriteAtomic(tableFile, []byte(Table(entries))); err != nil {
		return nil, fmt.Errorf("writing report table: %w", err)
	}
	x.log.Info("report table written", logger.String("file", tableFile), logger.Int("rows", len(entries)))
	return entries, nil
}

// ParseEntry builds the index entry for one document. On a frontmatter
// parse error the returned entry uses filename-derived values and the error
// is returned alongside it.
func ParseEntry(stem, content, linkPrefix string) (types.IndexEntry, error) {
	var fm frontmatter
	var parseErr error
	if block, ok := frontmatterBlock(content); ok {
		if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
			fm = frontmatter{}
			parseErr = err
		}
	}

	entry := ReadEntry(stem, content, linkPrefix)
	if fm.Title != "" {
		entry.Title = fm.Title
	}
	if fm.Date != "" {
		entry.Date = fm.Date
	}
	return entry, parseErr
}

// ReadEntry builds an entry from the filename and the body's Duration row
// only.
func ReadEntry(stem, content, linkPrefix string) types.IndexEntry {
	date := render.DateFromStem(stem)
	if date == "" {
		date = types.Unknown
	}
	duration := types.Unknown
	if m := durationRe.FindStringSubmatch(content); m != nil {
		duration = strings.TrimSpace(m[1])
	}
	return types.IndexEntry{
		Date:     date,
		Title:    stem,
		Duration: duration,
		Link:     linkPrefix + stem,
	}
}

// frontmatterBlock returns the text between a leading "---" line and the
// next line that starts with "---".
func frontmatterBlock(content string) (string, bool) {
	s := strings.TrimLeft(content, " \t\r\n")
	if !strings.HasPrefix(s, "---") {
		return "", false
	}
	rest := s[3:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// Table renders entries as the markdown summary table.
func Table(entries []types.IndexEntry) string {
	var b strings.Builder
	b.WriteString("| Date | Report | Duration |\n| --- | --- | --- |\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | [%s](%s) | %s |\n",
			timeline.EscapeCell(e.Date), linkText(e.Title), e.Link, timeline.EscapeCell(e.Duration))
	}
	return b.String()
}

// linkText escapes a title for use as link text inside a table cell.
func linkText(title string) string {
	title = timeline.EscapeCell(title)
	for _, br := range []string{"[", "]"} {
		title = strings.ReplaceAll(strings.ReplaceAll(title, `\`+br, br), br, `\`+br)
	}
	return title
}

// Print writes entries to w as a terminal table.
func Print(w io.Writer, entries []types.IndexEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Date", "Report", "Duration", "Link"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Date, e.Title, e.Duration, e.Link})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d reports", len(entries)), "", ""})
	t.Render()
}
