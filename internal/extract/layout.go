// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/incident-reports/pkg/types"
)

// Layout thresholds, as multiples of the font size.
const (
	wordGap   = 0.15
	columnGap = 2.5

	// minSidebarOffset is how far right of the page's left text edge a
	// sidebar label must start, in points.
	minSidebarOffset = 100.0

	// columnSlack tolerates small x jitter at the sidebar edge, in points.
	columnSlack = 2.0
)

var sidebarLabelRe = regexp.MustCompile(`(?i)^(?:owner of re|impact ti|duration\b)`)

// LayoutExtractor rebuilds text rows from glyph positions. On pages with a
// metadata sidebar, the sidebar is emitted after the main column so that
// its labels and values stay on consecutive lines.
type LayoutExtractor struct{}

// NewLayoutExtractor returns a LayoutExtractor.
func NewLayoutExtractor() *LayoutExtractor { return &LayoutExtractor{} }

func (*LayoutExtractor) Name() string { return string(types.StrategyLayout) }

// Extract returns the main column text of every page followed by the
// sidebar text of every page.
func (*LayoutExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var main, side []string
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pdfRows, err := p.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("reading page %d of %s: %w", i, path, err)
		}

		rows := make([]row, 0, len(pdfRows))
		for _, pr := range pdfRows {
			rw := row{y: float64(pr.Position)}
			for _, t := range pr.Content {
				rw.runs = append(rw.runs, run{x: t.X, w: t.W, size: t.FontSize, s: t.S})
			}
			rows = append(rows, rw)
		}
		m, s := splitColumns(rows)
		main = append(main, m...)
		side = append(side, s...)
	}

	if len(main) == 0 && len(side) == 0 {
		return "", fmt.Errorf("%s: %w", path, ErrNoText)
	}
	lines := append(main, side...)
	return strings.Join(lines, "\n") + "\n", nil
}

// run is a positioned piece of text, usually one glyph.
type run struct {
	x, w, size float64
	s          string
}

// row is the runs that share a baseline.
type row struct {
	y    float64
	runs []run
}

// segment is a stretch of a row with no column-sized gap in it.
type segment struct {
	x    float64
	text string
}

// segments joins a row's runs into words and splits it at wide gaps.
func segments(r row) []segment {
	runs := append([]run(nil), r.runs...)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].x < runs[j].x })

	var (
		out  []segment
		cur  strings.Builder
		curX float64
		end  float64
	)
	flush := func() {
		if text := strings.TrimSpace(cur.String()); text != "" {
			out = append(out, segment{x: curX, text: strings.Join(strings.Fields(text), " ")})
		}
		cur.Reset()
	}

	for i, rn := range runs {
		size := rn.size
		if size <= 0 {
			size = 10
		}
		if i > 0 {
			gap := rn.x - end
			switch {
			case gap > columnGap*size:
				flush()
			case gap > wordGap*size:
				cur.WriteByte(' ')
			}
		}
		if cur.Len() == 0 {
			curX = rn.x
		}
		cur.WriteString(rn.s)
		end = rn.x + rn.w
	}
	flush()
	return out
}

// splitColumns returns the main column lines and the sidebar lines of one
// page. The sidebar starts at the left edge of the leftmost sidebar label;
// a page with no such label is a single column.
func splitColumns(rows []row) (main, side []string) {
	rows = append([]row(nil), rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	segs := make([][]segment, len(rows))
	left, boundary := -1.0, -1.0
	for i, r := range rows {
		segs[i] = segments(r)
		for _, s := range segs[i] {
			if left < 0 || s.x < left {
				left = s.x
			}
		}
	}
	for _, ss := range segs {
		for _, s := range ss {
			if sidebarLabelRe.MatchString(s.text) && s.x-left >= minSidebarOffset {
				if boundary < 0 || s.x < boundary {
					boundary = s.x
				}
			}
		}
	}

	for _, ss := range segs {
		var m, sd []string
		for _, s := range ss {
			if boundary >= 0 && s.x >= boundary-columnSlack {
				sd = append(sd, s.text)
			} else {
				m = append(m, s.text)
			}
		}
		if len(m) > 0 {
			main = append(main, strings.Join(m, " "))
		}
		if len(sd) > 0 {
			side = append(side, strings.Join(sd, " "))
		}
	}
	return main, side
}
