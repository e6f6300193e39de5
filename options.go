package binder

import (
	"github.com/tsawler/binder/imageopt"
	"github.com/tsawler/binder/tables"
	"github.com/tsawler/binder/xlsx"
)

// DefaultMaxChunk is the default maximum paragraph length in characters.
const DefaultMaxChunk = 2000

// SpacerSize separates consecutive source files.
const SpacerSize = 20

// CoverSpacerSize follows the cover page.
const CoverSpacerSize = 30

// PageHeadingLevel is the heading level of PDF page markers.
const PageHeadingLevel = 3

// Options holds assembly configuration.
type Options struct {
	maxChunk    int
	image       imageopt.Options
	tables      tables.Config
	sheetLimits xlsx.Limits
	coverPage   bool
}

// defaultOptions returns the default assembly options.
func defaultOptions() Options {
	return Options{
		maxChunk:  DefaultMaxChunk,
		image:     imageopt.DefaultOptions(),
		tables:    tables.DefaultConfig(),
		coverPage: false,
	}
}

// clone creates a copy of Options. All fields are values.
func (o Options) clone() Options {
	return o
}

// MaxChunkLen returns the configured maximum paragraph length.
func (o Options) MaxChunkLen() int { return o.maxChunk }

// Image returns the image re-encoding options.
func (o Options) Image() imageopt.Options { return o.image }

// Tables returns the PDF table detector configuration.
func (o Options) Tables() tables.Config { return o.tables }

// SheetLimits returns the per-sheet row and column bounds. Zero fields mean
// the xlsx defaults.
func (o Options) SheetLimits() xlsx.Limits { return o.sheetLimits }

// Cover reports whether a cover page is emitted.
func (o Options) Cover() bool { return o.coverPage }
