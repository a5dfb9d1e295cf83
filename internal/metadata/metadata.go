// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata pulls the fixed-format fields (title, status, review
// owner, impact time, duration) out of postmortem text.
//
// Title and status are read from normalized text. Impact time, duration, and
// review owner live in the sidebar that normalization deletes, so they are
// read from the raw extracted text. A field that cannot be found is left
// empty; callers decide what to render in its place.
package metadata

import (
	"regexp"
	"strings"

	"github.com/pdiddy/incident-reports/pkg/types"
)

// StatusMarker ends the title block in exported postmortems.
const StatusMarker = "Status:"

const (
	impactRange = `[A-Z][a-z]{2}\s+\d{1,2}\s+at\s+\d{1,2}:\d{2}\s+to\s+[A-Z][a-z]{2}\s+\d{1,2}\s+at\s+\d{1,2}:\d{2}`

	// durationValue is one or more <N><unit> tokens in descending unit order.
	durationValue = `\d+d(?:\s+\d+h)?(?:\s+\d+m)?(?:\s+\d+s)?` +
		`|\d+h(?:\s+\d+m)?(?:\s+\d+s)?` +
		`|\d+m(?:\s+\d+s)?` +
		`|\d+s`

	// labelGap skips the line break and any blank lines between a sidebar
	// label and its value.
	labelGap = `[ \t]*\n(?:[ \t]*\n)*[ \t]*`
)

var (
	statusRe = regexp.MustCompile(`Status:\s*(\w+)`)

	impactLabeledRe = regexp.MustCompile(`(?im)^[ \t]*impact ti[a-z]*` + labelGap + `(` + impactRange + `)`)
	impactInlineRe  = regexp.MustCompile(impactRange)

	durationLabeledRe = regexp.MustCompile(`(?im)^[ \t]*duration` + labelGap + `(` + durationValue + `)[ \t]*$`)
	durationInlineRe  = regexp.MustCompile(`\b(?:` + durationValue + `)\b`)

	ownerLabeledRe = regexp.MustCompile(`(?im)^[ \t]*owner of re[a-z]*(?:[ \t]+p[a-z]*)?` + labelGap + `([^\n]*?)[ \t]*$`)
	sidebarLabelRe = regexp.MustCompile(`(?i)^(?:owner of re|impact ti|duration)`)

	// bannerRe matches the export tool's page header that some PDFs carry
	// above the title.
	bannerRe = regexp.MustCompile(`(?i)https?://|pagerduty`)

	headingMarkRe = regexp.MustCompile(`^#+\s*`)
	titlePrefixRe = regexp.MustCompile(`(?i)^(?:incident report\s+[a-z]+\s+\d{1,2},?\s+\d{4}\s*-\s*|postmortem report\s*-\s*)`)
)

// Extract returns every metadata field. raw is the text as extracted;
// normalized is the same text after normalization.
func Extract(raw, normalized string) types.Metadata {
	return types.Metadata{
		Title:       Title(normalized),
		Status:      Status(normalized),
		ReviewOwner: ReviewOwner(raw),
		ImpactTime:  ImpactTime(raw),
		Duration:    Duration(raw),
	}
}

// Title returns the incident title: every line before the status marker,
// joined with single spaces, with a leading export banner line dropped and
// boilerplate prefixes removed. Without a status marker it falls back to the
// first non-empty line that is not a URL.
func Title(text string) string {
	idx := strings.Index(text, StatusMarker)
	if idx < 0 {
		return fallbackTitle(text)
	}

	lines := nonEmptyLines(text[:idx])
	if len(lines) > 1 && bannerRe.MatchString(lines[0]) {
		lines = lines[1:]
	}
	title := CleanTitle(strings.Join(strings.Fields(strings.Join(lines, " ")), " "))
	if title == "" {
		return fallbackTitle(text)
	}
	return title
}

func fallbackTitle(text string) string {
	for _, line := range nonEmptyLines(text) {
		if strings.HasPrefix(line, "http") || strings.HasPrefix(line, StatusMarker) {
			continue
		}
		return CleanTitle(strings.Join(strings.Fields(line), " "))
	}
	return ""
}

// CleanTitle strips heading markers and the "Incident report <Month> <D>
// <YYYY> -" or "Postmortem Report -" prefixes. Other titles are returned
// unchanged apart from surrounding whitespace.
func CleanTitle(title string) string {
	title = headingMarkRe.ReplaceAllString(strings.TrimSpace(title), "")
	title = titlePrefixRe.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// Status returns the first word after the status marker.
func Status(text string) string {
	if m := statusRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ImpactTime returns the "<Mon> <D> at <H:MM> to <Mon> <D> at <H:MM>" range,
// preferring the value under an impact time label over an inline match.
func ImpactTime(raw string) string {
	if m := impactLabeledRe.FindStringSubmatch(raw); m != nil {
		return collapse(m[1])
	}
	if m := impactInlineRe.FindString(raw); m != "" {
		return collapse(m)
	}
	return ""
}

// Duration returns a duration such as "13h 58m" or "4d 1h 30m". A labeled
// value may be a single token. Inline matches need at least two tokens, since
// a lone "5m" in prose is rarely a duration.
func Duration(raw string) string {
	if m := durationLabeledRe.FindStringSubmatch(raw); m != nil {
		return collapse(m[1])
	}
	for _, m := range durationInlineRe.FindAllString(raw, -1) {
		if len(strings.Fields(m)) >= 2 {
			return collapse(m)
		}
	}
	return ""
}

// ReviewOwner returns the value under the owner of review process label.
func ReviewOwner(raw string) string {
	m := ownerLabeledRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	owner := strings.TrimSpace(m[1])
	if sidebarLabelRe.MatchString(owner) {
		return ""
	}
	return owner
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
