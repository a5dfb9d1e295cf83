// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits normalized postmortem text into the named
// narrative sections.
//
// A section starts at a line holding its name and ends before the first
// later line that starts with one of its successors, or at end of text.
// Successors come from the ordered Vocabulary, so a report that omits a
// section still ends the previous one at the next section that is present.
// The first matching header wins; a section name repeated inside another
// section's prose is not disambiguated.
package segment

import (
	"regexp"
	"strings"

	"github.com/pdiddy/incident-reports/pkg/types"
)

// Timeline is the header that follows every narrative section.
const Timeline = "Timeline"

// Vocabulary is the ordered set of narrative sections. Adding a section is a
// matter of inserting its name at the position it appears in reports.
var Vocabulary = []string{
	"Overview",
	"What Happened",
	"Resolution",
	"Where We Got Lucky",
	"What Went Well",
	"What Didn't Go So Well",
	"Action Items",
}

var placeholderRe = regexp.MustCompile(`(?i)no comments added`)

// Successors returns the headers that may end the named section: every later
// vocabulary entry followed by Timeline. Unknown names get only Timeline.
func Successors(name string) []string {
	for i, v := range Vocabulary {
		if strings.EqualFold(v, name) {
			next := make([]string, 0, len(Vocabulary)-i)
			next = append(next, Vocabulary[i+1:]...)
			return append(next, Timeline)
		}
	}
	return []string{Timeline}
}

// Segment returns the non-empty vocabulary sections of text, in vocabulary
// order.
func Segment(text string) []types.Section {
	var sections []types.Section
	for _, name := range Vocabulary {
		if content := Extract(text, name, Successors(name)); content != "" {
			sections = append(sections, types.Section{Name: name, Content: content})
		}
	}
	return sections
}

// Extract returns the trimmed content of the named section, or "" when the
// header is absent. The "No comments added" placeholder is removed.
func Extract(text, name string, successors []string) string {
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if isHeader(line, name) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if endsSection(lines[i], successors) {
			end = i
			break
		}
	}

	content := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
	content = placeholderRe.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}

// isHeader reports whether line is exactly the section name, ignoring case,
// typographic apostrophes, and a trailing "?" or ":".
func isHeader(line, name string) bool {
	return strings.EqualFold(headerText(line), headerText(name))
}

func endsSection(line string, successors []string) bool {
	folded := fold(strings.TrimSpace(line))
	for _, s := range successors {
		if isHeader(line, s) || strings.HasPrefix(folded, fold(s)) {
			return true
		}
	}
	return false
}

func headerText(s string) string {
	s = fold(strings.TrimSpace(s))
	return strings.TrimSpace(strings.TrimRight(s, "?:"))
}

func fold(s string) string {
	return strings.NewReplacer("’", "'", "‘", "'").Replace(s)
}
