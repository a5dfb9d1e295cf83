// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExtractionStrategy selects how PDF text is recovered.
type ExtractionStrategy string

const (
	// StrategyPlain reads the PDF text operators page by page (pdfcpu).
	StrategyPlain ExtractionStrategy = "plain"
	// StrategyLayout rebuilds rows from glyph positions and splits the
	// metadata sidebar into its own column (ledongthuc/pdf).
	StrategyLayout ExtractionStrategy = "layout"
	// StrategyML runs a layout-recovery model in a container and reads its
	// markdown output.
	StrategyML ExtractionStrategy = "ml"
)

// CacheBackend selects where extracted text is cached.
type CacheBackend string

const (
	CacheNone   CacheBackend = "none"
	CacheDir    CacheBackend = "dir"
	CacheSQLite CacheBackend = "sqlite"
)

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	// ReportsDir is the directory of source PDFs and markdown files.
	ReportsDir string `json:"reports_dir" yaml:"reports_dir"`

	// OutputDir receives one converted markdown file per source.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Strategy selects the PDF extraction strategy: plain, layout, or ml.
	Strategy ExtractionStrategy `json:"strategy" yaml:"strategy"`

	// ContainerImage is the image used by the ml strategy.
	ContainerImage string `json:"container_image" yaml:"container_image"`

	// SkipExisting skips sources whose converted output already exists.
	SkipExisting bool `json:"skip_existing" yaml:"skip_existing"`

	// SourceLinkPrefix, when set, adds a downloads entry pointing at
	// SourceLinkPrefix + source filename to the frontmatter.
	SourceLinkPrefix string `json:"source_link_prefix,omitempty" yaml:"source_link_prefix,omitempty"`
}

// CacheConfig holds settings for the extracted-text cache.
type CacheConfig struct {
	// Backend is none, dir, or sqlite.
	Backend CacheBackend `json:"backend" yaml:"backend"`

	// Dir is the cache directory (dir backend) or the directory holding the
	// database file (sqlite backend).
	Dir string `json:"dir" yaml:"dir"`
}

// IndexConfig holds settings for the corpus index.
type IndexConfig struct {
	// TableFile is the path of the generated summary table.
	TableFile string `json:"table_file" yaml:"table_file"`

	// LinkPrefix is prepended to each document stem to form its site link.
	LinkPrefix string `json:"link_prefix" yaml:"link_prefix"`
}

// LoggingConfig holds settings for diagnostic logs.
type LoggingConfig struct {
	// Level is debug, info, warn, or error.
	Level string `json:"level" yaml:"level"`

	// Format is console or json.
	Format string `json:"format" yaml:"format"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Cache      CacheConfig      `json:"cache" yaml:"cache"`
	Index      IndexConfig      `json:"index" yaml:"index"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}
