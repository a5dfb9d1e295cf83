// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/incident-reports/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line      string
		wantKind  LineKind
		wantTime  string
		wantEvent string
	}{
		{line: "", wantKind: Skip},
		{line: "INCIDENT #1234", wantKind: Skip},
		{line: "#1234", wantKind: Skip},
		{line: "October 16, 2025", wantKind: DateHeader},
		{line: "Feb 11 2026", wantKind: DateHeader},
		{line: "| Time | Event |", wantKind: Separator},
		{line: "| --- | --- |", wantKind: Separator},
		{line: "|---|---|", wantKind: Separator},
		{line: "| 3:00 PM | Alert fired |", wantKind: Row, wantTime: "3:00 PM", wantEvent: "Alert fired"},
		{line: "3:00 PM Alert fired", wantKind: Row, wantTime: "3:00 PM", wantEvent: "Alert fired"},
		{line: "  - 3:05PM Engineer paged", wantKind: Row, wantTime: "3:05PM", wantEvent: "Engineer paged"},
		{line: "10:15 AM", wantKind: Row, wantTime: "10:15 AM"},
		{line: "Triggered by monitor", wantKind: Dropped},
		{line: "Resolved by Jane", wantKind: Dropped},
		{line: "and the hub recovered", wantKind: Continuation},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := Classify(tt.line)
			assert.Equal(t, tt.wantKind, got.Kind, "kind %s", got.Kind)
			assert.Equal(t, tt.wantTime, got.Time)
			assert.Equal(t, tt.wantEvent, got.Event)
		})
	}
}

func TestParse(t *testing.T) {
	text := "Action Items\n- fix\nTimeline\n" +
		"October 16, 2025\n" +
		"3:00 PM Alert fired for\n" +
		"the staging hub\n" +
		"Triggered by Grafana\n" +
		"3:10 PM Engineer acknowledged\n" +
		"INCIDENT #42\n" +
		"October 17, 2025\n" +
		"9:00 AM Fix deployed\n" +
		"Resolved by Jane\n"

	got := Parse(text)

	assert.True(t, got.Dated)
	require.Len(t, got.Groups, 2)
	assert.Equal(t, types.DateGroup{
		Date: "October 16, 2025",
		Entries: []types.TimelineEntry{
			{Time: "3:00 PM", Event: "Alert fired for the staging hub"},
			{Time: "3:10 PM", Event: "Engineer acknowledged"},
		},
	}, got.Groups[0])
	assert.Equal(t, types.DateGroup{
		Date:    "October 17, 2025",
		Entries: []types.TimelineEntry{{Time: "9:00 AM", Event: "Fix deployed"}},
	}, got.Groups[1])
}

func TestParse_NoMarker(t *testing.T) {
	got := Parse("Overview\n3:00 PM Something")
	assert.True(t, got.Empty())
	assert.False(t, got.Dated)
}

func TestParse_DateWithoutRowsDropped(t *testing.T) {
	got := Parse("Timeline\nOctober 16, 2025\nOctober 17, 2025\n1:00 PM Paged")
	require.Len(t, got.Groups, 1)
	assert.Equal(t, "October 17, 2025", got.Groups[0].Date)
}

func TestParse_ContinuationBeforeAnyRowIgnored(t *testing.T) {
	got := Parse("Timeline\nstray text\n| 1:00 PM | Paged |")
	require.Len(t, got.Groups, 1)
	assert.Equal(t, []types.TimelineEntry{{Time: "1:00 PM", Event: "Paged"}}, got.Groups[0].Entries)
}

func TestReconstruct(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "undated table",
			text: "Timeline\n| Time | Event |\n| --- | --- |\n| 10:00 AM | Page fired |\n- 10:05 AM Acked\n",
			want: "| Time | Event |\n| --- | --- |\n| 10:00 AM | Page fired |\n| 10:05 AM | Acked |",
		},
		{
			name: "dated groups",
			text: "Timeline\nOctober 16, 2025\n3:00 PM A\nOctober 17, 2025\n4:00 PM B",
			want: "### October 16, 2025\n\n| Time | Event |\n| --- | --- |\n| 3:00 PM | A |\n\n" +
				"### October 17, 2025\n\n| Time | Event |\n| --- | --- |\n| 4:00 PM | B |",
		},
		{
			name: "rows before first date stay undated",
			text: "Timeline\n1:00 PM Early\nOctober 17, 2025\n4:00 PM B",
			want: "| Time | Event |\n| --- | --- |\n| 1:00 PM | Early |\n\n" +
				"### October 17, 2025\n\n| Time | Event |\n| --- | --- |\n| 4:00 PM | B |",
		},
		{
			name: "pipes in events escaped",
			text: "Timeline\n1:00 PM ran a | b",
			want: "| Time | Event |\n| --- | --- |\n| 1:00 PM | ran a \\| b |",
		},
		{
			name: "no marker",
			text: "1:00 PM Early",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reconstruct(tt.text))
		})
	}
}
