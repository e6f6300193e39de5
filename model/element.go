package model

// ElementType represents the type of flow element
type ElementType int

const (
	ElementTypeUnknown ElementType = iota
	ElementTypeTitle
	ElementTypeMetadata
	ElementTypeHeading
	ElementTypeParagraph
	ElementTypeTable
	ElementTypeImage
	ElementTypeCaption
	ElementTypeSpacer
)

func (et ElementType) String() string {
	switch et {
	case ElementTypeTitle:
		return "Title"
	case ElementTypeMetadata:
		return "MetadataBlock"
	case ElementTypeHeading:
		return "Heading"
	case ElementTypeParagraph:
		return "Paragraph"
	case ElementTypeTable:
		return "Table"
	case ElementTypeImage:
		return "Image"
	case ElementTypeCaption:
		return "Caption"
	case ElementTypeSpacer:
		return "Spacer"
	default:
		return "Unknown"
	}
}

// FlowElement is the interface for everything a renderer consumes. The order
// of a flow slice is the final document order.
type FlowElement interface {
	Type() ElementType
}

// TextElement is an interface for elements containing text
type TextElement interface {
	FlowElement
	GetText() string
}

// Title opens the content of one source file.
type Title struct {
	Text string
}

func (t *Title) Type() ElementType { return ElementTypeTitle }
func (t *Title) GetText() string   { return t.Text }

// MetadataBlock is a small-font block of key/value lines.
type MetadataBlock struct {
	Lines []MetadataLine
}

func (m *MetadataBlock) Type() ElementType { return ElementTypeMetadata }
func (m *MetadataBlock) GetText() string {
	var text string
	for i, l := range m.Lines {
		if i > 0 {
			text += "\n"
		}
		text += l.String()
	}
	return text
}

// Heading represents a section heading within a source file
type Heading struct {
	Text  string
	Level int // 2-6; level 1 is reserved for Title
}

func (h *Heading) Type() ElementType { return ElementTypeHeading }
func (h *Heading) GetText() string   { return h.Text }

// Paragraph represents a paragraph of body text
type Paragraph struct {
	Text string
}

func (p *Paragraph) Type() ElementType { return ElementTypeParagraph }
func (p *Paragraph) GetText() string   { return p.Text }

// TableElement wraps a normalized table.
type TableElement struct {
	Table Table
}

func (t *TableElement) Type() ElementType { return ElementTypeTable }
func (t *TableElement) GetText() string   { return t.Table.GetText() }

// Image represents an optimized image ready for embedding
type Image struct {
	Data   []byte
	Format string // "jpeg" or "png"
	Width  int
	Height int
}

func (i *Image) Type() ElementType { return ElementTypeImage }

// Caption labels the table or image immediately before it.
type Caption struct {
	Text string
}

func (c *Caption) Type() ElementType { return ElementTypeCaption }
func (c *Caption) GetText() string   { return c.Text }

// Spacer is vertical whitespace of Size points.
type Spacer struct {
	Size float64
}

func (s *Spacer) Type() ElementType { return ElementTypeSpacer }
