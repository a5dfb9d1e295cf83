// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/incident-reports/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the extracted-text cache",
	Long: `The extracted-text cache holds the text recovered from each PDF, keyed
by source filename and extraction strategy. Entries are reused whenever
they exist; clear the cache after replacing a source PDF.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached extraction",
	RunE:  runCacheClear,
}

func init() {
	cacheClearCmd.Flags().String("cache", "", "cache backend: dir or sqlite (default from config)")
	cacheClearCmd.Flags().String("cache-dir", "", "cache directory (default .extract-cache)")

	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	if err := bindCommandFlags(cmd, map[string]string{
		"cache":     keyCacheBackend,
		"cache-dir": keyCacheDir,
	}); err != nil {
		return err
	}

	cfg := loadConfig()
	c, err := cache.Open(cfg.Cache)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("no cache configured: set --cache to dir or sqlite")
	}
	defer c.Close()

	n, err := c.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "cleared: %d cached extractions from %s\n", n, cfg.Cache.Dir)
	return nil
}
