package xlsx

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CellType is the kind of value a cell holds.
type CellType int

const (
	CellTypeEmpty CellType = iota
	CellTypeString
	CellTypeNumber
	CellTypeBoolean
	CellTypeFormula // formula without a cached result
	CellTypeError
)

// Excel's own sheet bounds.
const (
	maxSheetRows = 1 << 20
	maxSheetCols = 1 << 14
)

// Cell is a written worksheet cell.
type Cell struct {
	Col     int // 0-indexed
	Value   string
	Type    CellType
	Formula string
}

// IsEmpty reports whether the cell holds no visible text.
func (c Cell) IsEmpty() bool {
	return c.Type == CellTypeEmpty || strings.TrimSpace(c.Value) == ""
}

// Row is a written worksheet row. Cells holds only the written cells, in
// column order.
type Row struct {
	Index int // 0-indexed
	Cells []Cell
}

func (r Row) hasValue() bool {
	for _, c := range r.Cells {
		if !c.IsEmpty() {
			return true
		}
	}
	return false
}

// Sheet is a worksheet held sparsely: only written rows and cells are
// stored, so memory follows the content rather than the cell addresses.
type Sheet struct {
	Name  string
	Index int
	Rows  []Row // ascending by Index

	// MaxCol is the highest column holding a non-empty value, or -1.
	MaxCol int

	MergedRegions []MergedRegion

	// Dropped counts non-empty cells outside the reader's Limits.
	Dropped int
}

// MergedRegion is an inclusive range of merged cells, 0-indexed.
type MergedRegion struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

func (m MergedRegion) contains(row, col int) bool {
	return row >= m.StartRow && row <= m.EndRow && col >= m.StartCol && col <= m.EndCol
}

// Cell returns the written cell at row and col, or nil.
func (s *Sheet) Cell(row, col int) *Cell {
	i := sort.Search(len(s.Rows), func(i int) bool { return s.Rows[i].Index >= row })
	if i == len(s.Rows) || s.Rows[i].Index != row {
		return nil
	}
	cells := s.Rows[i].Cells
	j := sort.Search(len(cells), func(j int) bool { return cells[j].Col >= col })
	if j == len(cells) || cells[j].Col != col {
		return nil
	}
	return &cells[j]
}

// coveredByMerge reports whether row, col lies in a merged region without
// being its top-left cell.
func (s *Sheet) coveredByMerge(row, col int) bool {
	for _, m := range s.MergedRegions {
		if m.contains(row, col) {
			return row != m.StartRow || col != m.StartCol
		}
	}
	return false
}

// ParseCellRef splits a reference such as "B3" into 0-indexed column and
// row. References past Excel's sheet bounds are rejected.
func ParseCellRef(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && isLetter(ref[i]) {
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}

	col = ColumnToIndex(ref[:i])
	if col < 0 || col >= maxSheetCols {
		return 0, 0, fmt.Errorf("invalid column in %q", ref)
	}
	n, err := strconv.Atoi(ref[i:])
	if err != nil || n < 1 || n > maxSheetRows {
		return 0, 0, fmt.Errorf("invalid row in %q", ref)
	}
	return col, n - 1, nil
}

// ColumnToIndex converts column letters to a 0-indexed column: A=0, Z=25,
// AA=26. It returns -1 for anything but one to three letters.
func ColumnToIndex(letters string) int {
	if len(letters) == 0 || len(letters) > 3 {
		return -1
	}
	n := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		if !isLetter(c) {
			return -1
		}
		n = n*26 + int((c|0x20)-'a') + 1
	}
	return n - 1
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// ParseRangeRef parses a range such as "A1:D10".
func ParseRangeRef(ref string) (startCol, startRow, endCol, endRow int, err error) {
	from, to, ok := strings.Cut(ref, ":")
	if !ok || strings.Contains(to, ":") {
		return 0, 0, 0, 0, fmt.Errorf("invalid range reference %q", ref)
	}
	if startCol, startRow, err = ParseCellRef(from); err != nil {
		return 0, 0, 0, 0, err
	}
	if endCol, endRow, err = ParseCellRef(to); err != nil {
		return 0, 0, 0, 0, err
	}
	return startCol, startRow, endCol, endRow, nil
}
