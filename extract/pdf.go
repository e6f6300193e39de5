package extract

import (
	"log/slog"

	"github.com/tsawler/binder/model"
	"github.com/tsawler/binder/pdf"
	"github.com/tsawler/binder/tables"
)

// PDF extracts embedded images, detected tables and page text.
type PDF struct {
	Detector *tables.Detector // nil uses the default detector
	Logger   *slog.Logger
}

// Extract returns the file's units in the order images, tables, page text.
func (x *PDF) Extract(path string) ([]model.ContentUnit, error) {
	doc, err := x.ExtractDocument(path)
	return doc.Units, err
}

// ExtractDocument parses the file once for its units, one warning per
// skipped page, table or image, and its metadata.
func (x *PDF) ExtractDocument(path string) (Document, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return Document{}, err
	}

	var doc Document
	doc.Units, doc.Warnings = r.Units(x.Detector)
	doc.Metadata, doc.MetadataErr = BaseMetadata(path)
	if doc.MetadataErr == nil {
		describePDF(r, &doc.Metadata)
	}
	loggerOrDefault(x.Logger).Debug("pdf extracted",
		"path", path, "pages", r.PageCount(), "units", len(doc.Units), "warnings", len(doc.Warnings))
	return doc, nil
}

// Metadata adds the page count and document properties. A file that does
// not parse is described from the filesystem alone.
func (x *PDF) Metadata(path string) (model.Metadata, error) {
	meta, err := BaseMetadata(path)
	if err != nil {
		return meta, err
	}

	r, err := pdf.Open(path)
	if err != nil {
		loggerOrDefault(x.Logger).Debug("pdf properties unavailable", "path", path, "err", err)
		return meta, nil
	}
	describePDF(r, &meta)
	return meta, nil
}

func describePDF(r *pdf.Reader, meta *model.Metadata) {
	info := r.Info()
	meta.Pages = r.PageCount()
	meta.Title = info.Title
	meta.Author = info.Author
	meta.Subject = info.Subject
}
