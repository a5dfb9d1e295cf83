// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/incident-reports/pkg/types"
)

// PlainExtractor reads text straight from page content streams, in the
// order the PDF draws it.
type PlainExtractor struct{}

// NewPlainExtractor returns a PlainExtractor.
func NewPlainExtractor() *PlainExtractor { return &PlainExtractor{} }

func (*PlainExtractor) Name() string { return string(types.StrategyPlain) }

// Extract returns the text of every page, one page after another.
func (*PlainExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	pdfCtx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return "", fmt.Errorf("reading PDF %s: %w", path, err)
	}

	var pages []string
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
		if err != nil {
			return "", fmt.Errorf("reading page %d of %s: %w", pageNr, path, err)
		}
		if r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("reading page %d of %s: %w", pageNr, path, err)
		}
		if text := textFromContentStream(data); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("%s: %w", path, ErrNoText)
	}
	return strings.Join(pages, "\n") + "\n", nil
}

// kernSpace is the TJ adjustment, in thousandths of an em, beyond which a
// gap between two strings is read as a word space.
const kernSpace = 250

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// textFromContentStream interprets the text operators of a content stream.
// Line moves become newlines; everything that is not text is ignored.
func textFromContentStream(data []byte) string {
	var (
		w     textWriter
		stack []operand
		lastY float64
		haveY bool
	)

	s := &scanner{data: data}
	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		if tok.kind != kindOperator {
			stack = append(stack, tok)
			continue
		}

		switch tok.str {
		case "Tj":
			w.text(lastOf(stack, kindString).str)
		case "'":
			w.newline()
			w.text(lastOf(stack, kindString).str)
		case `"`:
			w.newline()
			w.text(lastOf(stack, kindString).str)
		case "TJ":
			for _, item := range lastOf(stack, kindArray).items {
				switch item.kind {
				case kindString:
					w.text(item.str)
				case kindNumber:
					if item.num < -kernSpace {
						w.space()
					}
				}
			}
		case "Td", "TD":
			if n := len(stack); n >= 2 && stack[n-1].num != 0 {
				w.newline()
			} else {
				w.space()
			}
		case "T*":
			w.newline()
		case "Tm":
			if n := len(stack); n >= 6 {
				y := stack[n-1].num
				if haveY && y != lastY {
					w.newline()
				} else {
					w.space()
				}
				lastY, haveY = y, true
			}
		case "ID":
			s.skipInlineImage()
		}
		stack = stack[:0]
	}

	lines := strings.Split(w.b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimSpace(blankRunRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

func lastOf(stack []operand, kind operandKind) operand {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].kind == kind {
			return stack[i]
		}
	}
	return operand{}
}

// textWriter collapses the separators emitted between text runs.
type textWriter struct {
	b strings.Builder
}

func (w *textWriter) text(s string) {
	w.b.WriteString(s)
}

func (w *textWriter) last() byte {
	s := w.b.String()
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}

func (w *textWriter) newline() {
	if w.b.Len() > 0 && w.last() != '\n' {
		w.b.WriteByte('\n')
	}
}

func (w *textWriter) space() {
	if c := w.last(); c != 0 && c != ' ' && c != '\n' {
		w.b.WriteByte(' ')
	}
}
