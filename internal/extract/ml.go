// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/incident-reports/internal/container"
	"github.com/pdiddy/incident-reports/pkg/types"
)

// DefaultImage is the layout-recovery image used when none is configured.
// It must read a PDF on stdin and write markdown to stdout.
const DefaultImage = "docling:latest"

// MLExtractor pipes PDFs through a layout-recovery model in a container.
type MLExtractor struct {
	runtime container.Runtime
	image   string
}

// NewMLExtractor checks that image is available in rt. An empty image means
// DefaultImage.
func NewMLExtractor(ctx context.Context, rt container.Runtime, image string) (*MLExtractor, error) {
	if image == "" {
		image = DefaultImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("layout model image not available in %s: %w", rt.Name(), err)
	}
	return &MLExtractor{runtime: rt, image: image}, nil
}

func (m *MLExtractor) Name() string { return string(types.StrategyML) }

// Extract returns the markdown the model produced for the PDF at path.
func (m *MLExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, m.image, nil, f, &out); err != nil {
		return "", fmt.Errorf("extracting %s with %s: %w", path, m.image, err)
	}
	if strings.TrimSpace(out.String()) == "" {
		return "", fmt.Errorf("%s: %w", path, ErrNoText)
	}
	return out.String(), nil
}
