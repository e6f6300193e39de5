package extract

import (
	"log/slog"

	"github.com/tsawler/binder/docx"
	"github.com/tsawler/binder/model"
)

// Word extracts tables, paragraphs and inline images from DOCX files.
type Word struct {
	Logger *slog.Logger
}

// Extract returns every table, then paragraphs and inline images in
// document order.
func (x *Word) Extract(path string) ([]model.ContentUnit, error) {
	doc, err := x.ExtractDocument(path)
	return doc.Units, err
}

// ExtractDocument opens the file once for its units, its core properties
// and one warning per image reference that could not be resolved.
func (x *Word) ExtractDocument(path string) (Document, error) {
	r, err := docx.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer r.Close()

	units, unresolved := r.Units()
	doc := Document{Units: units}
	for _, u := range unresolved {
		doc.Warnings = append(doc.Warnings, model.Warning{Stage: "image", Message: u.Error()})
	}
	doc.Metadata, doc.MetadataErr = BaseMetadata(path)
	if doc.MetadataErr == nil {
		describeWord(r, &doc.Metadata)
	}
	loggerOrDefault(x.Logger).Debug("docx extracted", "path", path, "units", len(units), "unresolved", len(unresolved))
	return doc, nil
}

// Metadata adds the core-properties title, author and subject.
func (x *Word) Metadata(path string) (model.Metadata, error) {
	meta, err := BaseMetadata(path)
	if err != nil {
		return meta, err
	}

	r, err := docx.Open(path)
	if err != nil {
		loggerOrDefault(x.Logger).Debug("docx properties unavailable", "path", path, "err", err)
		return meta, nil
	}
	defer r.Close()

	describeWord(r, &meta)
	return meta, nil
}

func describeWord(r *docx.Reader, meta *model.Metadata) {
	props := r.Properties()
	meta.Title = props.Title
	meta.Author = props.Author
	meta.Subject = props.Subject
}
