// Package extract converts one source file into raw content units.
//
// Each supported format has an Extractor variant. For picks the variant for a
// format tag, and a Set dispatches whole paths by extension and content while
// reporting metadata relative to the corpus root.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/binder/format"
	"github.com/tsawler/binder/model"
)

// ErrUnsupported is returned for paths whose format has no extractor.
var ErrUnsupported = errors.New("unsupported format")

// Extractor turns one file into content units and describes it.
type Extractor interface {
	Extract(path string) ([]model.ContentUnit, error)
	Metadata(path string) (model.Metadata, error)
}

// Document is what one extraction pass yields for a file.
type Document struct {
	Format      format.Format
	Metadata    model.Metadata
	MetadataErr error // Metadata is zero when set
	Units       []model.ContentUnit
	Warnings    []model.Warning // Path left empty; callers fill it in
}

// DocumentExtractor is implemented by extractors that can describe and
// extract a file from a single open, reporting the units they skipped.
type DocumentExtractor interface {
	Extractor
	ExtractDocument(path string) (Document, error)
}

// For returns the default extractor for a format.
func For(f format.Format) (Extractor, bool) {
	return forLogger(f, nil)
}

func forLogger(f format.Format, logger *slog.Logger) (Extractor, bool) {
	switch f {
	case format.PDF:
		return &PDF{Logger: logger}, true
	case format.Word:
		return &Word{Logger: logger}, true
	case format.Spreadsheet:
		return &Spreadsheet{Logger: logger}, true
	case format.Text:
		return &Text{}, true
	case format.Image:
		return &Image{}, true
	default:
		return nil, false
	}
}

// Set dispatches files to per-format extractors.
type Set struct {
	root       string
	logger     *slog.Logger
	extractors map[format.Format]Extractor
}

// New returns a Set with the default extractor for every format. Metadata
// reports paths relative to root.
func New(root string, logger *slog.Logger) *Set {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Set{
		root:       root,
		logger:     logger,
		extractors: make(map[format.Format]Extractor),
	}
	for _, f := range []format.Format{format.PDF, format.Word, format.Spreadsheet, format.Text, format.Image} {
		e, _ := forLogger(f, logger)
		s.extractors[f] = e
	}
	return s
}

// Register replaces the extractor used for a format.
func (s *Set) Register(f format.Format, e Extractor) {
	s.extractors[f] = e
}

// For returns the extractor registered for a format.
func (s *Set) For(f format.Format) (Extractor, bool) {
	e, ok := s.extractors[f]
	return e, ok
}

// lookup picks the extractor for path by extension. When the content of a
// binary file names a different supported format, that format wins.
func (s *Set) lookup(path string) (Extractor, format.Format, error) {
	f := format.Detect(path)
	if f != format.Unknown && f != format.Text {
		if sniffed := sniff(path); sniffed != format.Unknown && sniffed != f {
			s.logger.Debug("content does not match extension", "path", path, "ext", f, "format", sniffed)
			f = sniffed
		}
	}
	e, ok := s.extractors[f]
	if !ok || e == nil {
		return nil, f, fmt.Errorf("%s: %w", filepath.Ext(path), ErrUnsupported)
	}
	return e, f, nil
}

// sniff detects the format from the file's content, or Unknown.
func sniff(path string) format.Format {
	fh, err := os.Open(path)
	if err != nil {
		return format.Unknown
	}
	defer fh.Close()

	info, err := fh.Stat()
	if err != nil {
		return format.Unknown
	}
	f, err := format.DetectFromReader(fh, info.Size())
	if err != nil {
		return format.Unknown
	}
	return f
}

// Document extracts and describes path with the extractor for its format,
// rewriting the metadata's relative path against the Set's root. An
// extractor that panics is reported as an error; one whose Metadata panics
// yields a Document with MetadataErr set.
func (s *Set) Document(path string) (doc Document, err error) {
	e, f, err := s.lookup(path)
	if err != nil {
		return Document{}, err
	}
	s.logger.Debug("dispatching file", "path", path, "format", f)

	defer func() {
		if p := recover(); p != nil {
			doc, err = Document{}, fmt.Errorf("%s extractor panic: %v", f, p)
		}
	}()

	if de, ok := e.(DocumentExtractor); ok {
		doc, err = de.ExtractDocument(path)
	} else {
		doc.Units, err = e.Extract(path)
		if err == nil {
			doc.Metadata, doc.MetadataErr = describe(e, f, path)
		}
	}
	if err != nil {
		return Document{}, err
	}

	doc.Format = f
	if doc.MetadataErr != nil {
		doc.Metadata = model.Metadata{}
	} else {
		doc.Metadata.RelativePath = RelPath(s.root, path)
	}
	return doc, nil
}

// describe calls e.Metadata, reporting a panic as an error.
func describe(e Extractor, f format.Format, path string) (meta model.Metadata, err error) {
	defer func() {
		if p := recover(); p != nil {
			meta, err = model.Metadata{}, fmt.Errorf("%s metadata panic: %v", f, p)
		}
	}()
	return e.Metadata(path)
}

// RelPath returns path relative to root with forward slashes, or the
// cleaned path itself when it is not under root.
func RelPath(root, path string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !outside(rel) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}

func outside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// BaseMetadata describes a file from the filesystem alone.
func BaseMetadata(path string) (model.Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.Metadata{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return model.Metadata{}, fmt.Errorf("%s is a directory", path)
	}
	return model.Metadata{
		Filename:     info.Name(),
		Type:         strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), ".")),
		RelativePath: filepath.ToSlash(path),
		ModifiedAt:   info.ModTime(),
		Size:         info.Size(),
	}, nil
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
