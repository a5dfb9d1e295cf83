// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render assembles parsed postmortems into site-ready markdown with
// YAML frontmatter, and adds frontmatter to markdown sources that lack it.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/incident-reports/internal/segment"
	"github.com/pdiddy/incident-reports/internal/timeline"
	"github.com/pdiddy/incident-reports/pkg/types"
)

// DownloadTitle labels the source file link in the frontmatter.
const DownloadTitle = "Download Source Report"

// Options controls optional parts of the rendered document.
type Options struct {
	// SourceLink, when set, is added to the frontmatter as a downloads
	// entry so the site offers the source file for download.
	SourceLink string
}

var (
	checkboxRe = regexp.MustCompile(`- \[[ xX]\] `)
	h1Re       = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*$`)
	datePrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)
	stemDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[-_]?`)
)

// Document renders r as a complete markdown document: frontmatter, a level-1
// title, the Impact Time/Duration table, each non-empty section, and the
// timeline when it has rows.
func Document(r types.Report, opts Options) string {
	title := r.Metadata.Title
	if title == "" {
		title = FilenameTitle(r.ID)
	}

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", title)
	fmt.Fprintf(&b, "date: %s\n", orUnknown(r.Date))
	if r.Metadata.Status != "" {
		fmt.Fprintf(&b, "status: %q\n", r.Metadata.Status)
	}
	if r.Metadata.ReviewOwner != "" {
		fmt.Fprintf(&b, "review_owner: %q\n", r.Metadata.ReviewOwner)
	}
	writeDownloads(&b, opts)
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("| Field | Value |\n| --- | --- |\n")
	fmt.Fprintf(&b, "| **Impact Time** | %s |\n", orUnknown(r.Metadata.ImpactTime))
	fmt.Fprintf(&b, "| **Duration** | %s |\n", orUnknown(r.Metadata.Duration))

	for _, s := range r.Sections {
		content := strings.TrimSpace(s.Content)
		if s.Name == "Action Items" {
			content = NormalizeCheckboxes(content)
		}
		writeSection(&b, s.Name, content)
	}
	writeSection(&b, segment.Timeline, timeline.Render(r.Timeline))

	return b.String()
}

func writeSection(b *strings.Builder, name, content string) {
	if content == "" {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n%s\n", name, content)
}

func writeDownloads(b *strings.Builder, opts Options) {
	if opts.SourceLink == "" {
		return
	}
	b.WriteString("downloads:\n")
	fmt.Fprintf(b, "  - file: %s\n", opts.SourceLink)
	fmt.Fprintf(b, "    title: %s\n", DownloadTitle)
}

// NormalizeCheckboxes rewrites "- [ ] " and "- [x] " task items as plain
// bullets.
func NormalizeCheckboxes(content string) string {
	return checkboxRe.ReplaceAllString(content, "- ")
}

// EnsureFrontmatter prepares a markdown source for the site. Content that
// already starts with a frontmatter block is returned with only checkbox
// normalization. Otherwise a block is added with the date taken from the
// filename stem and the title from the first level-1 heading, falling back
// to a title derived from the stem.
func EnsureFrontmatter(content, stem string, opts Options) string {
	content = NormalizeCheckboxes(content)
	if strings.HasPrefix(strings.TrimSpace(content), "---") {
		return content
	}

	title := FilenameTitle(stem)
	if m := h1Re.FindStringSubmatch(content); m != nil {
		title = m[1]
	}

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", title)
	fmt.Fprintf(&b, "date: %s\n", orUnknown(DateFromStem(stem)))
	writeDownloads(&b, opts)
	b.WriteString("---\n\n")
	b.WriteString(content)
	return b.String()
}

// DateFromStem returns the leading YYYY-MM-DD of a filename stem, or "".
func DateFromStem(stem string) string {
	if m := datePrefix.FindStringSubmatch(stem); m != nil {
		return m[1]
	}
	return ""
}

// FilenameTitle derives a title from a filename stem: hyphens and
// underscores become spaces and words are title-cased. The leading
// YYYY-MM-DD date is dropped first, since the date already has its own
// frontmatter field; a stem that is only a date keeps it.
func FilenameTitle(stem string) string {
	name := stemDateRe.ReplaceAllString(stem, "")
	if name == "" {
		name = stem
	}
	name = strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	}), " ")
	return cases.Title(language.English).String(name)
}

func orUnknown(s string) string {
	if s == "" {
		return types.Unknown
	}
	return s
}
