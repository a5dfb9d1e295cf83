// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package timeline rebuilds the chronological log that closes a postmortem
// into date-grouped time/event rows.
//
// Parsing is a line scanner over everything after the Timeline marker. Each
// line is classified once and the scanner keeps one open date group. Rows
// keep source order; nothing is re-sorted by time.
package timeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/incident-reports/pkg/types"
)

// Marker is the header line that opens the timeline.
const Marker = "Timeline"

// LineKind classifies one timeline line.
type LineKind int

const (
	// Continuation extends the previous row's event text.
	Continuation LineKind = iota
	// Skip is an empty line or an incident number.
	Skip
	// Dropped is system-generated text such as "Triggered" or "Resolved".
	Dropped
	// Separator is a table header or a |---| rule.
	Separator
	// DateHeader opens a new date group.
	DateHeader
	// Row is a time-stamped event from a table, a bare line, or a list item.
	Row
)

var kindNames = map[LineKind]string{
	Continuation: "continuation",
	Skip:         "skip",
	Dropped:      "dropped",
	Separator:    "separator",
	DateHeader:   "date",
	Row:          "row",
}

func (k LineKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("LineKind(%d)", int(k))
}

// Line is a classified timeline line. Time and Event are set for rows.
type Line struct {
	Kind  LineKind
	Text  string
	Time  string
	Event string
}

var (
	dateHeaderRe  = regexp.MustCompile(`^[A-Z][a-z]{2,8}\s+\d{1,2},?\s+\d{4}$`)
	separatorRe   = regexp.MustCompile(`^\|?\s*:?-{3,}:?\s*(?:\|\s*:?-{3,}:?\s*)*\|?$`)
	tableHeaderRe = regexp.MustCompile(`(?i)^\|\s*time\s*\|\s*event\s*\|?$`)
	timeRowRe     = regexp.MustCompile(`^(\d{1,2}:\d{2}\s*[AP]M)(?:\s+(.*))?$`)
	listTimeRowRe = regexp.MustCompile(`^[-*•]\s+(\d{1,2}:\d{2}\s*[AP]M)(?:\s+(.*))?$`)
	incidentNoRe  = regexp.MustCompile(`^(?:INCIDENT\s*#|#\d+$)`)
	droppedRe     = regexp.MustCompile(`^(?:Triggered|Resolved|INCIDENT)\b`)
)

// Classify returns the kind of a single timeline line.
func Classify(line string) Line {
	t := strings.TrimSpace(line)
	switch {
	case t == "" || incidentNoRe.MatchString(t):
		return Line{Kind: Skip, Text: t}
	case dateHeaderRe.MatchString(t):
		return Line{Kind: DateHeader, Text: t}
	case separatorRe.MatchString(t) || tableHeaderRe.MatchString(t):
		return Line{Kind: Separator, Text: t}
	case strings.HasPrefix(t, "|"):
		if time, event, ok := splitTableRow(t); ok {
			return Line{Kind: Row, Text: t, Time: time, Event: event}
		}
	}
	if m := timeRowRe.FindStringSubmatch(t); m != nil {
		return Line{Kind: Row, Text: t, Time: m[1], Event: strings.TrimSpace(m[2])}
	}
	if m := listTimeRowRe.FindStringSubmatch(t); m != nil {
		return Line{Kind: Row, Text: t, Time: m[1], Event: strings.TrimSpace(m[2])}
	}
	if droppedRe.MatchString(t) {
		return Line{Kind: Dropped, Text: t}
	}
	return Line{Kind: Continuation, Text: t}
}

// splitTableRow reads "| time | event |". Extra cells stay in the event.
func splitTableRow(t string) (time, event string, ok bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(t, "|"), "|")
	cells := strings.Split(inner, "|")
	if len(cells) < 2 {
		return "", "", false
	}
	time = strings.TrimSpace(cells[0])
	event = strings.TrimSpace(strings.Join(cells[1:], "|"))
	return time, event, time != ""
}

// Parse reconstructs the timeline following the first Marker line in text.
// A text without the marker yields an empty timeline.
func Parse(text string) types.Timeline {
	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if t := strings.TrimSpace(line); t == Marker || t == Marker+":" {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return types.Timeline{}
	}

	var (
		tl  types.Timeline
		cur types.DateGroup
	)
	flush := func() {
		if len(cur.Entries) > 0 {
			tl.Groups = append(tl.Groups, cur)
		}
	}

	for _, raw := range lines[start:] {
		line := Classify(raw)
		switch line.Kind {
		case DateHeader:
			flush()
			cur = types.DateGroup{Date: line.Text}
			tl.Dated = true
		case Row:
			cur.Entries = append(cur.Entries, types.TimelineEntry{Time: line.Time, Event: line.Event})
		case Continuation:
			if n := len(cur.Entries); n > 0 {
				e := &cur.Entries[n-1]
				e.Event = strings.TrimSpace(e.Event + " " + line.Text)
			}
		}
	}
	flush()
	return tl
}

// Render formats tl as markdown: one Time/Event table per group, each
// preceded by a "### <date>" heading when the group has a date. Groups are
// separated by a blank line. An empty timeline renders as "".
func Render(tl types.Timeline) string {
	var b strings.Builder
	for _, g := range tl.Groups {
		if len(g.Entries) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		if g.Date != "" {
			fmt.Fprintf(&b, "### %s\n\n", g.Date)
		}
		b.WriteString("| Time | Event |\n| --- | --- |\n")
		for _, e := range g.Entries {
			fmt.Fprintf(&b, "| %s | %s |\n", EscapeCell(e.Time), EscapeCell(e.Event))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Reconstruct parses and renders the timeline in text.
func Reconstruct(text string) string {
	return Render(Parse(text))
}

// EscapeCell escapes "|" so s can sit inside a markdown table cell. Pipes
// that are already escaped are left as they are.
func EscapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, `\|`, "|"), "|", `\|`)
}
