// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize repairs layout artifacts in text extracted from
// postmortem PDFs so that later stages see a single logical column of prose.
//
// Text applies its passes in a fixed order; later passes assume the earlier
// ones ran. Every pass is a best-effort rewrite and a missing pattern is not
// an error. Applying Text twice yields the same result as applying it once.
//
// Sidebar metadata (impact time, duration, review owner) is deleted here, so
// it must be read from the raw text before calling Text.
package normalize

import (
	"regexp"
	"strings"
)

// TimelineMarker is the bare header line that opens the timeline.
const TimelineMarker = "Timeline"

var (
	// schemeGapRe matches whitespace or a line break directly after "://".
	schemeGapRe = regexp.MustCompile(`(https?://)[ \t]*\n?[ \t]*`)

	// urlTokenRe matches a whitespace-free token that is a URL.
	urlTokenRe = regexp.MustCompile(`^<?https?://\S+$`)

	// urlCharsRe matches a token made only of characters legal in a URL.
	urlCharsRe = regexp.MustCompile(`^[A-Za-z0-9._~%!$&'()*+,;=:@/?#\[\]-]+$`)

	headingRe = regexp.MustCompile(`(?m)^[ \t]*(?:#{1,6}[ \t]+)+`)

	// headingTokenRe matches a bare markdown heading marker.
	headingTokenRe = regexp.MustCompile(`^#{1,6}$`)

	timezoneRe = regexp.MustCompile(`(?ms)^[ \t]*\*All times.*?Pacific Time.*?\)[^\n]*\n?`)

	// sidebarRe matches a sidebar label line, possibly truncated by the
	// column width, and the value line that follows it.
	sidebarRe = regexp.MustCompile(`(?im)^[ \t]*(?:owner of re[a-z]*(?:[ \t]+p[a-z]*)?|impact ti[a-z]*|duration)[ \t]*\n(?:[ \t]*\n)*[^\n]*\n?`)

	bulletGlyphRe = regexp.MustCompile(`(?m)^[ \t]*\\[ \t]*\n(?:[ \t]*\n)*[ \t]*([^\s\\][^\n]*)`)
	loneSlashRe   = regexp.MustCompile(`(?m)^[ \t]*\\[ \t]*(?:\n|$)`)

	timelineBulletRe = regexp.MustCompile(`(?m)^[ \t]*[-*•][ \t]+(?:\*\*)?Timeline(?:\*\*)?:?[ \t]*$`)

	timelineTableRowRe = regexp.MustCompile(`^\|\s*(?:Time|\d{1,2}:\d{2}\s*[AaPp][Mm])\s*\|`)
	timelineTimeRe     = regexp.MustCompile(`^(?:[-*•]\s+)?\d{1,2}:\d{2}\s*[AP]M\b`)
)

// Text returns raw with layout artifacts removed.
func Text(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = FixWrappedURLs(text)
	text = StripHeadingMarkers(text)
	text = RemoveTimezoneFooter(text)
	text = RemoveSidebarMetadata(text)
	text = ConvertBulletGlyphs(text)
	// Removed sidebar and glyph lines can leave a URL next to its tail.
	text = FixWrappedURLs(text)
	text = CanonicalizeTimelineMarker(text)
	text = InsertTimelineMarker(text)
	return text
}

// FixWrappedURLs rejoins URLs that the PDF layout broke across lines. A break
// or space right after "://" is always removed. A break after a URL is
// removed only when the next line starts with a token that still looks like
// part of a URL path, so ordinary prose after a link stays on its own line.
func FixWrappedURLs(text string) string {
	text = schemeGapRe.ReplaceAllString(text, "$1")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if n := len(out); n > 0 && continuesURL(out[n-1], line) {
			out[n-1] = strings.TrimRight(out[n-1], " \t") + strings.TrimLeft(line, " \t")
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func continuesURL(prev, next string) bool {
	fields := strings.Fields(prev)
	if len(fields) == 0 {
		return false
	}
	last := fields[len(fields)-1]
	if !urlTokenRe.MatchString(last) {
		return false
	}

	nextFields := strings.Fields(next)
	if len(nextFields) == 0 {
		return false
	}
	tok := nextFields[0]
	if !urlCharsRe.MatchString(tok) || headingTokenRe.MatchString(tok) {
		return false
	}
	if strings.TrimSpace(next) == TimelineMarker {
		return false
	}

	// A URL cut right after a separator is certainly incomplete.
	if strings.ContainsAny(last[len(last)-1:], "-_=&?%") {
		return true
	}
	return strings.ContainsAny(tok, "/=&#%_")
}

// StripHeadingMarkers removes markdown "#" heading prefixes so that section
// names match regardless of the heading level an extraction engine chose.
// Stacked markers such as "# # Overview" are removed together.
func StripHeadingMarkers(text string) string {
	return headingRe.ReplaceAllString(text, "")
}

// RemoveTimezoneFooter deletes the "*All times listed in ... Pacific Time
// (...)" disclaimer, which may span several lines.
func RemoveTimezoneFooter(text string) string {
	return timezoneRe.ReplaceAllString(text, "")
}

// RemoveSidebarMetadata deletes sidebar label lines (owner of review process,
// impact time, duration) together with their one-line values.
func RemoveSidebarMetadata(text string) string {
	return sidebarRe.ReplaceAllString(text, "")
}

// ConvertBulletGlyphs turns a bullet glyph that was extracted as a lone
// backslash line into a markdown list item on the following text, then drops
// any backslash lines that remain.
func ConvertBulletGlyphs(text string) string {
	text = bulletGlyphRe.ReplaceAllString(text, "- ${1}")
	return loneSlashRe.ReplaceAllString(text, "")
}

// CanonicalizeTimelineMarker rewrites a "- Timeline" list item into the bare
// header line.
func CanonicalizeTimelineMarker(text string) string {
	return timelineBulletRe.ReplaceAllString(text, TimelineMarker)
}

// InsertTimelineMarker adds a Timeline header before the first timeline-shaped
// line (a time table row, a bare timestamp, or a list-item timestamp) that
// follows the Action Items section, when the text has no Timeline header.
// Without it the Action Items section would run to the end of the text.
func InsertTimelineMarker(text string) string {
	lines := strings.Split(text, "\n")
	actions := -1
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if t == TimelineMarker {
			return text
		}
		if actions < 0 && strings.EqualFold(strings.TrimRight(t, ":"), "Action Items") {
			actions = i
		}
	}
	if actions < 0 {
		return text
	}

	for i := actions + 1; i < len(lines); i++ {
		t := strings.TrimSpace(lines[i])
		if timelineTableRowRe.MatchString(t) || timelineTimeRe.MatchString(t) {
			out := make([]string, 0, len(lines)+1)
			out = append(out, lines[:i]...)
			out = append(out, TimelineMarker)
			out = append(out, lines[i:]...)
			return strings.Join(out, "\n")
		}
	}
	return text
}
