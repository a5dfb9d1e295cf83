// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/incident-reports/internal/cache"
	"github.com/pdiddy/incident-reports/internal/convert"
	"github.com/pdiddy/incident-reports/internal/extract"
	"github.com/pdiddy/incident-reports/internal/index"
)

var convertCmd = &cobra.Command{
	Use:   "convert [sources...]",
	Short: "Convert postmortem PDFs and markdown into site documents",
	Long: `Convert reads every PDF and markdown file in the reports directory (or
only the given files), writes one normalized markdown document per source
to the output directory, and then rebuilds the report table.

PDF text is recovered with one of three strategies: plain (text operators,
in process), layout (glyph positions with the metadata sidebar split out,
in process), or ml (a layout-recovery model run with docker or podman).
A failed document is reported and the batch moves on.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("strategy", "", "PDF extraction strategy: plain, layout, or ml (default plain)")
	convertCmd.Flags().String("image", "", "container image for the ml strategy (default "+extract.DefaultImage+")")
	convertCmd.Flags().String("cache", "", "extracted-text cache: none, dir, or sqlite (default none)")
	convertCmd.Flags().String("cache-dir", "", "cache directory (default .extract-cache)")
	convertCmd.Flags().Bool("skip-existing", false, "skip sources whose output document already exists")
	convertCmd.Flags().String("source-link-prefix", "", "add a download link to <prefix><source file> in each document")
	convertCmd.Flags().String("table-file", "", "report table path (default <output-dir>/"+index.DefaultTableFile+")")
	convertCmd.Flags().String("link-prefix", "", "link prefix for table rows (default "+index.DefaultLinkPrefix+")")
	convertCmd.Flags().Bool("no-index", false, "do not rebuild the report table")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if err := bindCommandFlags(cmd, map[string]string{
		"strategy":           keyStrategy,
		"image":              keyContainerImage,
		"cache":              keyCacheBackend,
		"cache-dir":          keyCacheDir,
		"skip-existing":      keySkipExisting,
		"source-link-prefix": keySourceLinkPrefix,
		"table-file":         keyTableFile,
		"link-prefix":        keyLinkPrefix,
	}); err != nil {
		return err
	}
	noIndex, _ := cmd.Flags().GetBool("no-index")

	cfg := loadConfig()
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	c, err := cache.Open(cfg.Cache)
	if err != nil {
		return err
	}
	if c != nil {
		defer c.Close()
	}

	ex, err := extract.New(ctx, cfg.Conversion, c, log)
	if err != nil {
		return err
	}

	conv := convert.New(ex, convert.Options{
		OutputDir:        cfg.Conversion.OutputDir,
		SkipExisting:     cfg.Conversion.SkipExisting,
		SourceLinkPrefix: cfg.Conversion.SourceLinkPrefix,
		Progress:         os.Stdout,
	}, log)

	var idx convert.Indexer
	if !noIndex {
		idx = index.New(cfg.Conversion.OutputDir, cfg.Index.LinkPrefix, log)
	}

	var result convert.BatchResult
	if len(args) > 0 {
		for _, src := range args {
			if _, ok := convert.SourceKind(src); !ok {
				return fmt.Errorf("%s: not a PDF or markdown file", src)
			}
		}
		result, err = conv.RunSources(ctx, args, idx, cfg.Index.TableFile)
	} else {
		result, err = conv.Run(ctx, cfg.Conversion.ReportsDir, idx, cfg.Index.TableFile)
	}
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d report(s) failed conversion", result.Failed)
	}
	return nil
}
