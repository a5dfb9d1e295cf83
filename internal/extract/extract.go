// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract recovers text from postmortem PDFs.
//
// Three interchangeable strategies implement Extractor: plain reads the text
// operators of each page, layout rebuilds rows from glyph positions and moves
// the metadata sidebar below the main column, and ml runs a layout-recovery
// model in a container. New selects one from configuration and wraps it in a
// cache when one is configured.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/incident-reports/internal/cache"
	"github.com/pdiddy/incident-reports/internal/container"
	"github.com/pdiddy/incident-reports/internal/logger"
	"github.com/pdiddy/incident-reports/pkg/types"
)

// ErrNoText is returned when a PDF has no extractable text layer.
var ErrNoText = errors.New("no extractable text")

// Extractor turns a PDF into text.
type Extractor interface {
	// Name returns the strategy name.
	Name() string

	// Extract returns the text of the PDF at path.
	Extract(ctx context.Context, path string) (string, error)
}

// New returns the extractor selected by cfg.Strategy, wrapped with c when c
// is not nil. The ml strategy needs a working container runtime and image.
func New(ctx context.Context, cfg types.ConversionConfig, c cache.Cache, log logger.Logger) (Extractor, error) {
	var ex Extractor
	switch cfg.Strategy {
	case "", types.StrategyPlain:
		ex = NewPlainExtractor()
	case types.StrategyLayout:
		ex = NewLayoutExtractor()
	case types.StrategyML:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		ml, err := NewMLExtractor(ctx, rt, cfg.ContainerImage)
		if err != nil {
			return nil, err
		}
		ex = ml
	default:
		return nil, fmt.Errorf("unknown extraction strategy %q", cfg.Strategy)
	}

	if c != nil {
		ex = NewCached(ex, c, log)
	}
	return ex, nil
}
