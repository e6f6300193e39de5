package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tsawler/binder/model"
)

// XML renders a flow as a corpus of documents, one per source file. Each
// Title opens a document; a MetadataBlock after it becomes the document's
// metadata and everything else its content. Images are described by their
// format and size rather than embedded.
type XML struct {
	Generated time.Time // corpus timestamp, omitted when zero
}

type xmlCorpus struct {
	XMLName   xml.Name       `xml:"corpus"`
	Timestamp string         `xml:"timestamp,attr,omitempty"`
	Documents []*xmlDocument `xml:"document"`
}

type xmlDocument struct {
	Name     string       `xml:"name,attr,omitempty"`
	Metadata *xmlMetadata `xml:"metadata"`
	Content  xmlContent   `xml:"content"`
}

type xmlMetadata struct {
	Fields []xmlNode
}

type xmlContent struct {
	Items []xmlNode
}

// xmlNode is a named element with optional attributes and text.
type xmlNode struct {
	XMLName xml.Name
	Level   int    `xml:"level,attr,omitempty"`
	Format  string `xml:"format,attr,omitempty"`
	Width   int    `xml:"width,attr,omitempty"`
	Height  int    `xml:"height,attr,omitempty"`
	Text    string `xml:",chardata"`
}

func node(name, text string) xmlNode {
	return xmlNode{XMLName: xml.Name{Local: name}, Text: text}
}

// Render writes the document to w.
func (x XML) Render(w io.Writer, flow []model.FlowElement) error {
	corpus := xmlCorpus{}
	if !x.Generated.IsZero() {
		corpus.Timestamp = x.Generated.Format(time.RFC3339)
	}

	var doc *xmlDocument
	current := func() *xmlDocument {
		if doc == nil {
			doc = &xmlDocument{}
			corpus.Documents = append(corpus.Documents, doc)
		}
		return doc
	}

	for _, e := range flow {
		switch el := e.(type) {
		case *model.Title:
			doc = &xmlDocument{Name: oneLine(el.Text)}
			corpus.Documents = append(corpus.Documents, doc)
		case *model.MetadataBlock:
			d := current()
			if d.Metadata == nil {
				d.Metadata = &xmlMetadata{}
			}
			for _, l := range el.Lines {
				d.Metadata.Fields = append(d.Metadata.Fields, node(fieldName(l.Key), l.Value))
			}
		case *model.Heading:
			n := node("heading", oneLine(el.Text))
			n.Level = el.Level
			current().add(n)
		case *model.Paragraph:
			current().add(node("paragraph", el.Text))
		case *model.TableElement:
			current().add(node("table", el.Table.ToCSV()))
		case *model.Image:
			n := node("image", "")
			n.Format, n.Width, n.Height = el.Format, el.Width, el.Height
			current().add(n)
		case *model.Caption:
			current().add(node("caption", oneLine(el.Text)))
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing xml: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(corpus); err != nil {
		return fmt.Errorf("writing xml: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("writing xml: %w", err)
	}
	return nil
}

func (d *xmlDocument) add(n xmlNode) {
	d.Content.Items = append(d.Content.Items, n)
}

// fieldName turns a metadata key such as "Last Modified" into an element
// name such as "last_modified".
func fieldName(key string) string {
	return strings.ToLower(strings.Join(strings.Fields(key), "_"))
}
