package extract

import (
	"log/slog"

	"github.com/tsawler/binder/model"
	"github.com/tsawler/binder/xlsx"
)

// Spreadsheet extracts one heading and one grid per non-empty sheet.
type Spreadsheet struct {
	Limits xlsx.Limits // zero fields use the xlsx defaults
	Logger *slog.Logger
}

// Extract returns the sheet headings and grids in workbook order.
func (x *Spreadsheet) Extract(path string) ([]model.ContentUnit, error) {
	doc, err := x.ExtractDocument(path)
	return doc.Units, err
}

// ExtractDocument opens the workbook once for its grids, its core
// properties and one warning per sheet that had cells past the limits.
func (x *Spreadsheet) ExtractDocument(path string) (Document, error) {
	r, err := xlsx.OpenWithLimits(path, x.Limits)
	if err != nil {
		return Document{}, err
	}
	defer r.Close()

	var doc Document
	doc.Units, doc.Warnings = r.Units()
	doc.Metadata, doc.MetadataErr = BaseMetadata(path)
	if doc.MetadataErr == nil {
		describeSpreadsheet(r, &doc.Metadata)
	}
	loggerOrDefault(x.Logger).Debug("xlsx extracted",
		"path", path, "sheets", r.SheetCount(), "units", len(doc.Units), "warnings", len(doc.Warnings))
	return doc, nil
}

// Metadata adds the core-properties title, author and subject.
func (x *Spreadsheet) Metadata(path string) (model.Metadata, error) {
	meta, err := BaseMetadata(path)
	if err != nil {
		return meta, err
	}

	r, err := xlsx.OpenWithLimits(path, x.Limits)
	if err != nil {
		loggerOrDefault(x.Logger).Debug("xlsx properties unavailable", "path", path, "err", err)
		return meta, nil
	}
	defer r.Close()

	describeSpreadsheet(r, &meta)
	return meta, nil
}

func describeSpreadsheet(r *xlsx.Reader, meta *model.Metadata) {
	props := r.Properties()
	meta.Title = props.Title
	meta.Author = props.Author
	meta.Subject = props.Subject
}
