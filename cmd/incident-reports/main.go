// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the incident-reports CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/incident-reports/internal/index"
	"github.com/pdiddy/incident-reports/internal/logger"
	"github.com/pdiddy/incident-reports/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Configuration keys. Flags and the config file resolve to these; the path
// keys may also come from INCIDENT_REPORTS_* environment variables.
const (
	keyReportsDir       = "conversion.reports_dir"
	keyOutputDir        = "conversion.output_dir"
	keyStrategy         = "conversion.strategy"
	keyContainerImage   = "conversion.container_image"
	keySkipExisting     = "conversion.skip_existing"
	keySourceLinkPrefix = "conversion.source_link_prefix"
	keyCacheBackend     = "cache.backend"
	keyCacheDir         = "cache.dir"
	keyTableFile        = "index.table_file"
	keyLinkPrefix       = "index.link_prefix"
	keyLogLevel         = "logging.level"
	keyLogFormat        = "logging.format"
)

// rootCmd is the base command for the incident-reports CLI.
var rootCmd = &cobra.Command{
	Use:   "incident-reports",
	Short: "Convert incident postmortems into site-ready markdown",
	Long: `incident-reports turns postmortem exports (PDF) and loose markdown
reports into normalized markdown documents with YAML frontmatter, and
maintains a summary table over the converted corpus.

convert processes every source in the reports directory and rebuilds the
table; index rebuilds the table alone.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./incident-reports.yaml or ~/.config/incident-reports/config.yaml)")
	pf.String("reports-dir", "", "directory of source PDFs and markdown files (default reports)")
	pf.String("output-dir", "", "directory for converted documents (default doc/report)")
	pf.String("log-level", "", "diagnostic log level: debug, info, warn, error (default warn)")
	pf.String("log-format", "", "diagnostic log format: console or json")

	for name, key := range map[string]string{
		"reports-dir": keyReportsDir,
		"output-dir":  keyOutputDir,
		"log-level":   keyLogLevel,
		"log-format":  keyLogFormat,
	} {
		if err := viper.BindPFlag(key, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetDefault(keyReportsDir, "reports")
	viper.SetDefault(keyOutputDir, filepath.Join("doc", "report"))
	viper.SetDefault(keyStrategy, string(types.StrategyPlain))
	viper.SetDefault(keyCacheBackend, string(types.CacheNone))
	viper.SetDefault(keyCacheDir, ".extract-cache")
	viper.SetDefault(keyLinkPrefix, index.DefaultLinkPrefix)
	viper.SetDefault(keyLogLevel, "warn")
	viper.SetDefault(keyLogFormat, logger.FormatConsole)
}

func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("incident-reports")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "incident-reports"))
		}
	}

	// Only directory and file locations are read from the environment.
	viper.SetEnvPrefix("INCIDENT_REPORTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{keyReportsDir, keyOutputDir, keyCacheDir, keyTableFile} {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindCommandFlags binds the named local flags of cmd to their keys. It runs
// when the command starts so that flags shared by several commands bind to
// the invoked command's copy.
func bindCommandFlags(cmd *cobra.Command, keys map[string]string) error {
	for name, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// loadConfig resolves the pipeline configuration from flags, the config
// file, the environment, and defaults, in that order of precedence.
func loadConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Conversion: types.ConversionConfig{
			ReportsDir:       viper.GetString(keyReportsDir),
			OutputDir:        viper.GetString(keyOutputDir),
			Strategy:         types.ExtractionStrategy(viper.GetString(keyStrategy)),
			ContainerImage:   viper.GetString(keyContainerImage),
			SkipExisting:     viper.GetBool(keySkipExisting),
			SourceLinkPrefix: viper.GetString(keySourceLinkPrefix),
		},
		Cache: types.CacheConfig{
			Backend: types.CacheBackend(viper.GetString(keyCacheBackend)),
			Dir:     viper.GetString(keyCacheDir),
		},
		Index: types.IndexConfig{
			TableFile:  viper.GetString(keyTableFile),
			LinkPrefix: viper.GetString(keyLinkPrefix),
		},
		Logging: types.LoggingConfig{
			Level:  viper.GetString(keyLogLevel),
			Format: viper.GetString(keyLogFormat),
		},
	}
	if cfg.Index.TableFile == "" {
		cfg.Index.TableFile = filepath.Join(cfg.Conversion.OutputDir, index.DefaultTableFile)
	}
	return cfg
}

// newLogger builds the diagnostic logger for one invocation.
func newLogger(cfg types.LoggingConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{Level: cfg.Level, Format: cfg.Format})
	if err != nil {
		return nil, err
	}
	return logger.WithRunID(log), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
