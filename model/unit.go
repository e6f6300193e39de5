package model

// UnitKind identifies the variant of a ContentUnit.
type UnitKind int

const (
	UnitText UnitKind = iota
	UnitTable
	UnitImage
	UnitHeading
)

func (k UnitKind) String() string {
	switch k {
	case UnitText:
		return "text"
	case UnitTable:
		return "table"
	case UnitImage:
		return "image"
	case UnitHeading:
		return "heading"
	default:
		return "unknown"
	}
}

// ContentUnit is one piece of raw content produced by an extractor, in
// source document order.
type ContentUnit interface {
	Kind() UnitKind
}

// TextBlock is raw extracted text. Page is the 1-based PDF page number, or 0
// when the source has no pages.
type TextBlock struct {
	Text string
	Page int
}

func (*TextBlock) Kind() UnitKind { return UnitText }

// TableGrid is a raw cell grid as reported by an extractor. A nil cell is
// absent (typically covered by a merge); a non-nil cell holding "" is empty.
type TableGrid struct {
	Rows [][]*string
}

func (*TableGrid) Kind() UnitKind { return UnitTable }

// ImageAsset is an embedded or standalone raster image.
type ImageAsset struct {
	Data   []byte
	Format string // Declared encoding: "jpeg", "png", "gif", ...
}

func (*ImageAsset) Kind() UnitKind { return UnitImage }

// HeadingUnit is a section heading emitted by an extractor, such as the name
// of a spreadsheet sheet.
type HeadingUnit struct {
	Text  string
	Level int
}

func (*HeadingUnit) Kind() UnitKind { return UnitHeading }

// Cell returns a pointer to a copy of s, for building TableGrid rows.
func Cell(s string) *string {
	return &s
}

// GridFromStrings builds a TableGrid in which every cell is present.
func GridFromStrings(rows [][]string) *TableGrid {
	grid := &TableGrid{Rows: make([][]*string, len(rows))}
	for i, row := range rows {
		grid.Rows[i] = make([]*string, len(row))
		for j := range row {
			grid.Rows[i][j] = Cell(row[j])
		}
	}
	return grid
}
