package binder

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/binder/extract"
	"github.com/tsawler/binder/format"
	"github.com/tsawler/binder/model"
	"github.com/tsawler/binder/tables"
	"github.com/tsawler/binder/textnorm"
	"github.com/tsawler/binder/xlsx"
)

// Binder provides a fluent interface for assembling a directory. Each
// configuration method returns a new Binder, so a configured Binder can be
// shared and reused.
type Binder struct {
	root    string
	options Options
	logger  *slog.Logger
	now     func() time.Time

	// Per-format replacements for the default extractors
	extractors map[format.Format]extract.Extractor

	// Accumulated configuration error (fail-fast)
	err error
}

// clone creates a copy of the Binder with its own extractor map.
func (b *Binder) clone() *Binder {
	nb := *b
	nb.options = b.options.clone()
	if b.extractors != nil {
		nb.extractors = make(map[format.Format]extract.Extractor, len(b.extractors))
		for f, e := range b.extractors {
			nb.extractors[f] = e
		}
	}
	return &nb
}

// fail records the first configuration error.
func (b *Binder) fail(err error) *Binder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// ============================================================================
// Configuration Methods (return new Binder instance)
// ============================================================================

// MaxChunk sets the maximum paragraph length in characters.
//
// Example:
//
//	flow, _, err := binder.Open("./docs").MaxChunk(1000).Assemble(ctx)
func (b *Binder) MaxChunk(n int) *Binder {
	nb := b.clone()
	if n <= 0 {
		return nb.fail(fmt.Errorf("max chunk must be positive, got %d", n))
	}
	nb.options.maxChunk = n
	return nb
}

// ImageBox sets the bounding box images are shrunk to fit.
func (b *Binder) ImageBox(width, height int) *Binder {
	nb := b.clone()
	if width <= 0 || height <= 0 {
		return nb.fail(fmt.Errorf("image box must be positive, got %dx%d", width, height))
	}
	nb.options.image.MaxWidth = width
	nb.options.image.MaxHeight = height
	return nb
}

// ImageQuality sets the JPEG quality, 1 to 100.
func (b *Binder) ImageQuality(q int) *Binder {
	nb := b.clone()
	if q < 1 || q > 100 {
		return nb.fail(fmt.Errorf("image quality must be within 1..100, got %d", q))
	}
	nb.options.image.Quality = q
	return nb
}

// ImageFormat sets the re-encoding format, "JPEG" or "PNG".
func (b *Binder) ImageFormat(f string) *Binder {
	nb := b.clone()
	switch strings.ToUpper(strings.TrimSpace(f)) {
	case "JPEG", "JPG":
		nb.options.image.Format = "JPEG"
	case "PNG":
		nb.options.image.Format = "PNG"
	default:
		return nb.fail(fmt.Errorf("unknown image format %q", f))
	}
	return nb
}

// TableDetection sets the configuration of the PDF table detector.
// Zero fields keep their defaults.
func (b *Binder) TableDetection(cfg tables.Config) *Binder {
	nb := b.clone()
	d := tables.NewDetector()
	d.Configure(cfg)
	nb.options.tables = d.Config()
	return nb
}

// SheetLimits bounds the rows and columns read from each spreadsheet sheet.
// Non-empty cells past the bounds are dropped with a warning. Zero keeps the
// default for that dimension.
func (b *Binder) SheetLimits(rows, cols int) *Binder {
	nb := b.clone()
	if rows < 0 || cols < 0 {
		return nb.fail(fmt.Errorf("sheet limits must not be negative, got %dx%d", rows, cols))
	}
	nb.options.sheetLimits = xlsx.Limits{Rows: rows, Cols: cols}
	return nb
}

// CoverPage enables or disables the leading cover page.
func (b *Binder) CoverPage(enabled bool) *Binder {
	nb := b.clone()
	nb.options.coverPage = enabled
	return nb
}

// Logger sets the logger. A nil logger uses slog.Default.
func (b *Binder) Logger(l *slog.Logger) *Binder {
	nb := b.clone()
	if l == nil {
		l = slog.Default()
	}
	nb.logger = l
	return nb
}

// Now sets the clock used for the cover page date.
func (b *Binder) Now(now func() time.Time) *Binder {
	nb := b.clone()
	if now == nil {
		now = time.Now
	}
	nb.now = now
	return nb
}

// WithExtractor replaces the extractor used for one format.
//
// Example:
//
//	flow, _, err := binder.Open("./docs").
//	    WithExtractor(format.Text, myTextExtractor).
//	    Assemble(ctx)
func (b *Binder) WithExtractor(f format.Format, e extract.Extractor) *Binder {
	nb := b.clone()
	if e == nil {
		return nb.fail(fmt.Errorf("nil extractor for %s", f))
	}
	if nb.extractors == nil {
		nb.extractors = make(map[format.Format]extract.Extractor)
	}
	nb.extractors[f] = e
	return nb
}

// Options returns the active configuration.
func (b *Binder) Options() Options {
	return b.options
}

// Err returns the first configuration error, if any.
func (b *Binder) Err() error {
	return b.err
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Assemble walks the root directory and returns the flow for every supported
// file, in lexicographic path order, plus the warnings met on the way.
//
// The error is non-nil only when the configuration is invalid, the root
// cannot be enumerated, or ctx is done; in the last case the flow assembled
// so far is returned with ctx.Err().
func (b *Binder) Assemble(ctx context.Context) ([]model.FlowElement, []model.Warning, error) {
	if b.err != nil {
		return nil, nil, b.err
	}

	run := &assembly{
		options: b.options,
		logger:  b.logger.With("run", uuid.NewString()),
	}
	run.set = b.extractorSet(run.logger)

	files, err := run.enumerate(b.root)
	if err != nil {
		return nil, nil, err
	}
	run.logger.Info("assembling directory", "root", b.root, "files", len(files))

	if b.options.coverPage {
		run.cover(b.root, b.now())
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			run.logger.Warn("assembly cancelled", "err", err)
			return run.flow, run.warnings, err
		}
		run.process(file)
	}

	run.logger.Info("assembly complete",
		"files", len(files), "elements", len(run.flow), "warnings", len(run.warnings))
	return run.flow, run.warnings, nil
}

// extractorSet builds the dispatch set for one run.
func (b *Binder) extractorSet(logger *slog.Logger) *extract.Set {
	set := extract.New(b.root, logger)

	detector := tables.NewDetector()
	detector.Configure(b.options.tables)
	set.Register(format.PDF, &extract.PDF{Detector: detector, Logger: logger})
	set.Register(format.Spreadsheet, &extract.Spreadsheet{Limits: b.options.sheetLimits, Logger: logger})

	for f, e := range b.extractors {
		set.Register(f, e)
	}
	return set
}

// assembly is the mutable state of one Assemble call.
type assembly struct {
	options  Options
	logger   *slog.Logger
	set      *extract.Set
	flow     []model.FlowElement
	warnings []model.Warning
}

func (a *assembly) emit(elems ...model.FlowElement) {
	a.flow = append(a.flow, elems...)
}

func (a *assembly) warn(w model.Warning) {
	a.warnings = append(a.warnings, w)
	a.logger.Warn(w.Message, "path", w.Path, "stage", w.Stage, "index", w.Index)
}

// enumerate lists the supported regular files under root, sorted by full
// path. Unreadable subdirectories are skipped with a warning.
func (a *assembly) enumerate(root string) ([]model.SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	var files []model.SourceFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			a.warn(model.Warning{Path: extract.RelPath(root, path), Stage: "walk", Message: err.Error()})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		f := format.Detect(d.Name())
		if f == format.Unknown {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			a.warn(model.Warning{Path: extract.RelPath(root, path), Stage: "walk", Message: err.Error()})
			return nil
		}
		files = append(files, model.SourceFile{
			Path:    path,
			RelPath: extract.RelPath(root, path),
			Ext:     strings.ToLower(filepath.Ext(path)),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
			Format:  f,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking root: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// process emits the title, metadata, content and spacer for one file. A
// file whose extractor fails contributes no elements at all.
func (a *assembly) process(file model.SourceFile) {
	a.logger.Info("processing file", "path", file.RelPath, "format", file.Format)

	doc, err := a.set.Document(file.Path)
	if err != nil {
		a.warn(model.Warning{Path: file.RelPath, Stage: "extract", Message: err.Error()})
		return
	}
	for _, w := range doc.Warnings {
		w.Path = file.RelPath
		a.warn(w)
	}

	meta := doc.Metadata
	if doc.MetadataErr != nil {
		a.warn(model.Warning{Path: file.RelPath, Stage: "metadata", Message: doc.MetadataErr.Error()})
		meta = fallbackMetadata(file)
	}
	meta.Title = textnorm.Clean(meta.Title)
	meta.Author = textnorm.Clean(meta.Author)
	meta.Subject = textnorm.Clean(meta.Subject)

	if doc.Format != format.Unknown {
		file.Format = doc.Format
	}
	a.emit(
		&model.Title{Text: file.Name()},
		&model.MetadataBlock{Lines: meta.Lines()},
	)
	a.convert(file, doc.Units)
	a.emit(&model.Spacer{Size: SpacerSize})
}

// fallbackMetadata describes a file from what the walk already knows.
func fallbackMetadata(file model.SourceFile) model.Metadata {
	return model.Metadata{
		Filename:     file.Name(),
		Type:         strings.ToUpper(strings.TrimPrefix(file.Ext, ".")),
		RelativePath: file.RelPath,
		ModifiedAt:   file.ModTime,
		Size:         file.Size,
	}
}

// cover emits the leading cover page.
func (a *assembly) cover(root string, now time.Time) {
	a.emit(
		&model.Title{Text: "Document Compilation"},
		&model.Paragraph{Text: "Generated on " + now.Format("Monday, January 02, 2006 at 03:04:05 PM")},
		&model.Paragraph{Text: "Source Directory: " + root},
		&model.Spacer{Size: CoverSpacerSize},
	)
}
