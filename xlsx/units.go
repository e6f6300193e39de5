package xlsx

import (
	"fmt"

	"github.com/tsawler/binder/model"
)

// SheetHeadingLevel is the heading level used for sheet names.
const SheetHeadingLevel = 2

// Grid returns the sheet as a raw table grid. Rows without a non-empty cell
// are left out and the first remaining row is the header. Every row spans
// the columns up to the rightmost non-empty cell, so written but empty cells
// never widen the grid. Cells that were never written, and cells covered by
// a merged region other than its top-left cell, are absent (nil). Grid
// returns nil when no row survives.
func (s *Sheet) Grid() *model.TableGrid {
	if s.MaxCol < 0 {
		return nil
	}

	width := s.MaxCol + 1
	grid := &model.TableGrid{}
	for _, row := range s.Rows {
		if !row.hasValue() {
			continue
		}
		cells := make([]*string, width)
		for _, c := range row.Cells {
			if c.Col >= width || s.coveredByMerge(row.Index, c.Col) {
				continue
			}
			cells[c.Col] = model.Cell(c.Value)
		}
		grid.Rows = append(grid.Rows, cells)
	}
	return grid
}

// Units returns a heading naming each sheet followed by the sheet's grid,
// in workbook order. Sheets with no non-empty row produce nothing. Each
// sheet that had cells past the reader's limits gets a warning indexed by
// its workbook position.
func (r *Reader) Units() ([]model.ContentUnit, []model.Warning) {
	var units []model.ContentUnit
	var warnings []model.Warning
	for _, sheet := range r.sheets {
		if sheet.Dropped > 0 {
			msg := fmt.Sprintf("sheet %q: %d cells beyond %d rows by %d columns dropped",
				sheet.Name, sheet.Dropped, r.limits.Rows, r.limits.Cols)
			warnings = append(warnings, model.Warning{Stage: "table", Index: sheet.Index + 1, Message: msg})
		}

		grid := sheet.Grid()
		if grid == nil {
			continue
		}
		units = append(units,
			&model.HeadingUnit{Text: "Sheet: " + sheet.Name, Level: SheetHeadingLevel},
			grid,
		)
	}
	return units, warnings
}
