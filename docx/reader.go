// Package docx provides DOCX (Office Open XML) document parsing.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// Reader provides access to DOCX document content.
type Reader struct {
	zipReader *zip.ReadCloser
	files     map[string]*zip.File
	rels      map[string]relationshipXML
	coreProps *corePropertiesXML

	// body holds top-level paragraphs and tables in document order
	body []bodyElement
}

// bodyElement is one top-level block of the document body.
type bodyElement struct {
	Paragraph *paragraphXML
	Table     *tableXML
}

// Open opens a DOCX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	// Validate required files exist
	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}

	// Parse relationships first (needed to resolve images)
	if err := r.parseRelationships(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}

	// Parse document.xml
	if err := r.parseDocument(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	// Parse metadata (optional)
	r.parseCoreProperties()

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// validate checks that required DOCX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"word/document.xml",
	}

	for _, name := range required {
		if r.files[name] == nil {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f := r.files[name]
	if f == nil {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Properties holds core document properties.
type Properties struct {
	Title   string
	Author  string
	Subject string
}

// Properties returns the document's core properties.
func (r *Reader) Properties() Properties {
	if r.coreProps == nil {
		return Properties{}
	}
	return Properties{
		Title:   strings.TrimSpace(r.coreProps.Title),
		Author:  strings.TrimSpace(r.coreProps.Creator),
		Subject: strings.TrimSpace(r.coreProps.Subject),
	}
}

// parseRelationships parses the document relationships file.
func (r *Reader) parseRelationships() error {
	r.rels = make(map[string]relationshipXML)

	data, err := r.getFileContent("word/_rels/document.xml.rels")
	if err != nil {
		// Relationships file is optional
		return nil
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return err
	}
	for _, rel := range rels.Relationships {
		r.rels[rel.ID] = rel
	}
	return nil
}

// parseDocument walks word/document.xml and records the top-level
// paragraphs and tables of the body in order. Wrappers such as content
// controls are descended into.
func (r *Reader) parseDocument() error {
	f := r.files["word/document.xml"]
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	inBody, sawBody := false, false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if !inBody {
				inBody = t.Name.Local == "body"
				sawBody = sawBody || inBody
				continue
			}
			switch t.Name.Local {
			case "p":
				p := &paragraphXML{}
				if err := dec.DecodeElement(p, &t); err != nil {
					return fmt.Errorf("decoding paragraph: %w", err)
				}
				r.body = append(r.body, bodyElement{Paragraph: p})
			case "tbl":
				tbl := &tableXML{}
				if err := dec.DecodeElement(tbl, &t); err != nil {
					return fmt.Errorf("decoding table: %w", err)
				}
				r.body = append(r.body, bodyElement{Table: tbl})
			case "sectPr", "sdtPr", "bookmarkStart", "bookmarkEnd", "Fallback":
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "body" {
				inBody = false
			}
		}
	}

	if !sawBody {
		return errors.New("document.xml has no body")
	}

	return nil
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}

	props := &corePropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		r.coreProps = props
	}
}

// mediaPath resolves a relationship target to a path inside the archive.
// Targets are relative to the word/ directory unless they start with "/".
func mediaPath(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join("word", target))
}
