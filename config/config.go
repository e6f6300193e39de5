// Package config loads the binder YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/binder"
	"github.com/tsawler/binder/tables"
)

// Config holds the full binder configuration.
type Config struct {
	MaxChunk    int               `yaml:"max_chunk"`
	Image       ImageConfig       `yaml:"image"`
	Tables      TableConfig       `yaml:"tables"`
	Spreadsheet SpreadsheetConfig `yaml:"spreadsheet"`
	CoverPage   bool              `yaml:"cover_page"`
	LogLevel    string            `yaml:"log_level"` // debug | info | warn | error
}

// ImageConfig configures image re-encoding.
type ImageConfig struct {
	MaxWidth  int    `yaml:"max_width"`
	MaxHeight int    `yaml:"max_height"`
	Quality   int    `yaml:"quality"`
	Format    string `yaml:"format"` // JPEG | PNG
}

// TableConfig tunes PDF table detection. Zero values keep the detector
// defaults.
type TableConfig struct {
	MinRows         int     `yaml:"min_rows"`
	MinCols         int     `yaml:"min_cols"`
	RowTolerance    float64 `yaml:"row_tolerance"`
	ColumnTolerance float64 `yaml:"column_tolerance"`
	MinColumnGap    float64 `yaml:"min_column_gap"`
	MaxRowGap       float64 `yaml:"max_row_gap"`
}

// SpreadsheetConfig bounds what is read from each sheet. Zero values keep
// the reader defaults.
type SpreadsheetConfig struct {
	MaxRows int `yaml:"max_rows"`
	MaxCols int `yaml:"max_cols"`
}

// DefaultConfig returns the defaults used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		MaxChunk: binder.DefaultMaxChunk,
		Image: ImageConfig{
			MaxWidth:  800,
			MaxHeight: 800,
			Quality:   85,
			Format:    "JPEG",
		},
		CoverPage: true,
		LogLevel:  "info",
	}
}

// Load reads a YAML config file over the defaults. An empty path or a file
// that does not exist yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that values are sane.
func (c *Config) Validate() error {
	if c.MaxChunk <= 0 {
		return fmt.Errorf("max_chunk must be > 0")
	}
	if c.Image.MaxWidth <= 0 || c.Image.MaxHeight <= 0 {
		return fmt.Errorf("image.max_width and image.max_height must be > 0")
	}
	if c.Image.Quality < 1 || c.Image.Quality > 100 {
		return fmt.Errorf("image.quality must be within 1..100, got %d", c.Image.Quality)
	}
	switch strings.ToUpper(c.Image.Format) {
	case "JPEG", "JPG", "PNG":
	default:
		return fmt.Errorf("unsupported image.format %q (use JPEG or PNG)", c.Image.Format)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if t := c.Tables; t.MinRows < 0 || t.MinCols < 0 || t.RowTolerance < 0 ||
		t.ColumnTolerance < 0 || t.MinColumnGap < 0 || t.MaxRowGap < 0 {
		return fmt.Errorf("tables values must not be negative")
	}
	if c.Spreadsheet.MaxRows < 0 || c.Spreadsheet.MaxCols < 0 {
		return fmt.Errorf("spreadsheet.max_rows and spreadsheet.max_cols must not be negative")
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unsupported log_level %q", s)
	}
}

// Apply configures b from c.
func (c *Config) Apply(b *binder.Binder) *binder.Binder {
	return b.
		MaxChunk(c.MaxChunk).
		ImageBox(c.Image.MaxWidth, c.Image.MaxHeight).
		ImageQuality(c.Image.Quality).
		ImageFormat(c.Image.Format).
		TableDetection(tables.Config{
			MinRows:         c.Tables.MinRows,
			MinCols:         c.Tables.MinCols,
			RowTolerance:    c.Tables.RowTolerance,
			ColumnTolerance: c.Tables.ColumnTolerance,
			MinColumnGap:    c.Tables.MinColumnGap,
			MaxRowGap:       c.Tables.MaxRowGap,
		}).
		SheetLimits(c.Spreadsheet.MaxRows, c.Spreadsheet.MaxCols).
		CoverPage(c.CoverPage)
}
