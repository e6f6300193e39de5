package tables

import (
	"strings"

	"github.com/tsawler/binder/model"
)

// AnomalyKind classifies a recoverable geometry problem found while
// normalizing a grid.
type AnomalyKind int

const (
	// AnomalyShortRow means a row had fewer cells than the header and was padded
	AnomalyShortRow AnomalyKind = iota
	// AnomalyLongRow means a row had more cells than the header and was truncated
	AnomalyLongRow
)

func (k AnomalyKind) String() string {
	switch k {
	case AnomalyShortRow:
		return "padded"
	case AnomalyLongRow:
		return "truncated"
	default:
		return "unknown"
	}
}

// Anomaly describes one padded or truncated row. Row is the index within the
// normalized table.
type Anomaly struct {
	Row  int
	Kind AnomalyKind
	Want int // header width
	Got  int // cells reported for the row
}

// Clean normalizes a raw grid into a rectangular table.
//
// Rows and columns in which every cell is absent or blank are dropped, the
// remaining cells are trimmed, and absent or blank cells are filled from the
// nearest non-empty cell above them in the same column. Every row is then
// made as wide as the header row; padding cells are empty. A grid with no rows, or whose header is
// empty, yields an empty table.
func Clean(grid [][]*string) (model.Table, []Anomaly) {
	rows := dropEmptyRows(grid)
	if len(rows) == 0 {
		return model.Table{}, nil
	}

	keep := keptColumns(rows)
	if len(keep) == 0 {
		return model.Table{}, nil
	}

	// Project the kept columns, remembering how many cells each row really
	// carried so ragged rows can be detected after column pruning.
	type projected struct {
		cells    []*string
		reported int
	}
	proj := make([]projected, len(rows))
	for i, row := range rows {
		p := projected{cells: make([]*string, 0, len(keep))}
		for _, c := range keep {
			if c < len(row) {
				p.reported++
				p.cells = append(p.cells, row[c])
			}
		}
		proj[i] = p
	}

	width := proj[0].reported
	if width == 0 {
		return model.Table{}, nil
	}

	var anomalies []Anomaly
	out := make([][]string, len(proj))
	last := make([]string, width) // nearest non-empty value per column

	for i, p := range proj {
		cells := p.cells
		switch {
		case p.reported < width:
			anomalies = append(anomalies, Anomaly{Row: i, Kind: AnomalyShortRow, Want: width, Got: p.reported})
		case p.reported > width:
			anomalies = append(anomalies, Anomaly{Row: i, Kind: AnomalyLongRow, Want: width, Got: p.reported})
			cells = cells[:width]
		}

		// Cells past the reported width stay "" as padding.
		row := make([]string, width)
		for c := range cells {
			var text string
			if cells[c] != nil {
				text = strings.TrimSpace(*cells[c])
			}
			if text == "" {
				text = last[c]
			} else {
				last[c] = text
			}
			row[c] = text
		}
		out[i] = row
	}

	return model.Table{Rows: out}, anomalies
}

// blank reports whether a cell is absent or whitespace only.
func blank(cell *string) bool {
	return cell == nil || strings.TrimSpace(*cell) == ""
}

func dropEmptyRows(grid [][]*string) [][]*string {
	var rows [][]*string
	for _, row := range grid {
		for _, cell := range row {
			if !blank(cell) {
				rows = append(rows, row)
				break
			}
		}
	}
	return rows
}

// keptColumns returns the indices, up to the widest row, of columns holding
// at least one non-blank cell.
func keptColumns(rows [][]*string) []int {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	var keep []int
	for c := 0; c < width; c++ {
		for _, row := range rows {
			if c < len(row) && !blank(row[c]) {
				keep = append(keep, c)
				break
			}
		}
	}
	return keep
}
