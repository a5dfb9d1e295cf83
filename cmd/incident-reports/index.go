// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/incident-reports/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the report table from converted documents",
	Long: `Index reads the frontmatter and Duration row of every markdown document
in the output directory and writes the report table, newest first. A
document with unreadable frontmatter still gets a row built from its
filename.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("table-file", "", "report table path (default <output-dir>/"+index.DefaultTableFile+")")
	indexCmd.Flags().String("link-prefix", "", "link prefix for table rows (default "+index.DefaultLinkPrefix+")")
	indexCmd.Flags().Bool("print", false, "also print the entries as a terminal table")

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if err := bindCommandFlags(cmd, map[string]string{
		"table-file":  keyTableFile,
		"link-prefix": keyLinkPrefix,
	}); err != nil {
		return err
	}
	printTable, _ := cmd.Flags().GetBool("print")

	cfg := loadConfig()
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	idx := index.New(cfg.Conversion.OutputDir, cfg.Index.LinkPrefix, log)
	entries, err := idx.Generate(cfg.Index.TableFile)
	if err != nil {
		return err
	}

	if printTable {
		index.Print(os.Stdout, entries)
	}
	fmt.Fprintf(os.Stdout, "indexed: %d reports in %s\n", len(entries), cfg.Index.TableFile)
	return nil
}
