// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the per-document conversion pipeline over a
// directory of postmortem sources and then rebuilds the corpus index.
//
// Documents are processed one at a time. A failure in one document is
// reported and counted, and the batch moves on; the index is still built
// over whatever was written.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/incident-reports/internal/extract"
	"github.com/pdiddy/incident-reports/internal/fileutil"
	"github.com/pdiddy/incident-reports/internal/logger"
	"github.com/pdiddy/incident-reports/internal/render"
	"github.com/pdiddy/incident-reports/pkg/types"
)

// Indexer rebuilds the corpus table after a batch.
type Indexer interface {
	Generate(tableFile string) ([]types.IndexEntry, error)
}

// Options configures a Converter.
type Options struct {
	// OutputDir receives <stem>.md for each source.
	OutputDir string

	// SkipExisting leaves sources whose output already exists untouched.
	SkipExisting bool

	// SourceLinkPrefix, when set, adds a download link to
	// SourceLinkPrefix + source filename in each document's frontmatter.
	SourceLinkPrefix string

	// Progress receives one human-readable line per document. Defaults to
	// io.Discard.
	Progress io.Writer
}

// Converter converts PDF and markdown sources into site documents.
type Converter struct {
	extractor extract.Extractor
	opts      Options
	log       logger.Logger
}

// New returns a Converter. ex may be nil when only markdown sources will be
// converted.
func New(ex extract.Extractor, opts Options, log logger.Logger) *Converter {
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	return &Converter{extractor: ex, opts: opts, log: log}
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int

	// FailedFiles lists the source filenames that failed, in batch order.
	FailedFiles []string
}

// Total returns the number of sources processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// Succeeded returns the number of sources that have an up-to-date output.
func (r BatchResult) Succeeded() int {
	return r.Converted + r.Skipped
}

// HasFailures reports whether any source failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// SourceKind returns the kind of a source file from its extension.
func SourceKind(path string) (types.SourceKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return types.SourcePDF, true
	case ".md", ".markdown":
		return types.SourceMarkdown, true
	}
	return "", false
}

// ListSources returns the PDF and markdown files directly inside dir,
// sorted by name. A missing directory yields no sources.
func ListSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, ok := SourceKind(e.Name()); ok {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// OutputPath returns where the document for source is written.
func (c *Converter) OutputPath(source string) string {
	return filepath.Join(c.opts.OutputDir, fileutil.Stem(source)+".md")
}

// ConvertReport converts one source file and writes its document. A panic
// while parsing or rendering is turned into a failure for this document.
func (c *Converter) ConvertReport(ctx context.Context, source string) (status types.ConversionStatus, err error) {
	name := filepath.Base(source)
	log := c.log.With(logger.String("file", name))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic converting %s: %v", name, r)
		}
		if err != nil {
			status = types.ConversionFailed
			log.Error("conversion failed", logger.Err(err))
			fmt.Fprintf(c.opts.Progress, "failed:  %s (%v)\n", name, err)
		}
	}()

	out := c.OutputPath(source)
	if c.opts.SkipExisting && fileutil.Exists(out) {
		log.Debug("output exists", logger.String("output", out))
		fmt.Fprintf(c.opts.Progress, "skipped: %s (already exists)\n", name)
		return types.ConversionSkipped, nil
	}

	doc, err := c.render(ctx, source)
	if err != nil {
		return types.ConversionFailed, err
	}
	if err := fileutil.WriteAtomic(out, []byte(doc)); err != nil {
		return types.ConversionFailed, err
	}

	log.Info("converted", logger.String("output", out))
	fmt.Fprintf(c.opts.Progress, "converted: %s\n", name)
	return types.ConversionDone, nil
}

func (c *Converter) render(ctx context.Context, source string) (string, error) {
	doc, err := c.load(ctx, source)
	if err != nil {
		return "", err
	}

	var opts render.Options
	if c.opts.SourceLinkPrefix != "" {
		opts.SourceLink = c.opts.SourceLinkPrefix + filepath.Base(doc.Path)
	}

	if doc.Kind == types.SourcePDF {
		return render.Document(Parse(doc.ID, doc.Content), opts), nil
	}
	return render.EnsureFrontmatter(doc.Content, doc.ID, opts), nil
}

// load reads a source file: the extracted text of a PDF, or the contents
// of a markdown file.
func (c *Converter) load(ctx context.Context, source string) (types.RawDocument, error) {
	kind, ok := SourceKind(source)
	if !ok {
		return types.RawDocument{}, fmt.Errorf("unsupported source type %q", filepath.Ext(source))
	}
	doc := types.RawDocument{ID: fileutil.Stem(source), Path: source, Kind: kind}

	switch kind {
	case types.SourcePDF:
		if c.extractor == nil {
			return doc, errors.New("no PDF extractor configured")
		}
		text, err := c.extractor.Extract(ctx, source)
		if err != nil {
			return doc, err
		}
		doc.Content = text
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return doc, fmt.Errorf("reading %s: %w", source, err)
		}
		doc.Content = string(data)
	}
	return doc, nil
}

// ConvertBatch converts sources in order. It stops early only when ctx is
// done.
func (c *Converter) ConvertBatch(ctx context.Context, sources []string) (BatchResult, error) {
	var result BatchResult
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		status, _ := c.ConvertReport(ctx, src)
		switch status {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionSkipped:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
			result.FailedFiles = append(result.FailedFiles, filepath.Base(src))
		}
	}
	return result, nil
}

// Run converts every source in sourceDir, then rebuilds the corpus table
// with idx when idx is not nil. It prints a final "N/M succeeded" line.
func (c *Converter) Run(ctx context.Context, sourceDir string, idx Indexer, tableFile string) (BatchResult, error) {
	sources, err := ListSources(sourceDir)
	if err != nil {
		return BatchResult{}, err
	}

	if len(sources) == 0 {
		fmt.Fprintf(c.opts.Progress, "no PDF or markdown files found in %s\n", sourceDir)
	} else {
		fmt.Fprintf(c.opts.Progress, "found %d source files in %s\n", len(sources), sourceDir)
	}
	return c.RunSources(ctx, sources, idx, tableFile)
}

// RunSources converts the given sources, rebuilds the corpus table with idx
// when idx is not nil, and prints the summary line. The summary is printed
// even when the table cannot be built; that error is returned after it.
func (c *Converter) RunSources(ctx context.Context, sources []string, idx Indexer, tableFile string) (BatchResult, error) {
	w := c.opts.Progress
	c.log.Info("batch started", logger.Int("sources", len(sources)))

	result, err := c.ConvertBatch(ctx, sources)
	if err != nil {
		return result, err
	}

	var indexErr error
	if idx != nil {
		entries, err := idx.Generate(tableFile)
		if err != nil {
			indexErr = fmt.Errorf("building report table: %w", err)
			c.log.Error("index failed", logger.String("file", tableFile), logger.Err(err))
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(tableFile), err)
		} else {
			fmt.Fprintf(w, "indexed: %d reports in %s\n", len(entries), tableFile)
		}
	}

	fmt.Fprintf(w, "\n%d/%d succeeded (%d converted, %d skipped, %d failed)\n",
		result.Succeeded(), result.Total(), result.Converted, result.Skipped, result.Failed)
	return result, indexErr
}
