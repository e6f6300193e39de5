package docx

import (
	"strconv"
	"strings"

	"github.com/tsawler/binder/model"
)

// Tables returns every top-level table of the document as a raw grid, in
// document order.
//
// A cell that continues a vertical merge (<w:vMerge/> without
// val="restart") is reported as absent so that normalization can fill it
// from the cell that started the merge. A cell spanning several grid
// columns repeats its text in each of them.
func (r *Reader) Tables() []*model.TableGrid {
	var grids []*model.TableGrid
	for _, el := range r.body {
		if el.Table != nil {
			grids = append(grids, tableGrid(el.Table))
		}
	}
	return grids
}

// tableGrid converts a table XML element to a raw grid.
func tableGrid(tbl *tableXML) *model.TableGrid {
	grid := &model.TableGrid{Rows: make([][]*string, 0, len(tbl.Rows))}

	for _, row := range tbl.Rows {
		var cells []*string
		for _, cell := range row.Cells {
			span := cellSpan(cell)

			if isMergeContinuation(cell) {
				for i := 0; i < span; i++ {
					cells = append(cells, nil)
				}
				continue
			}

			text := cellText(cell)
			for i := 0; i < span; i++ {
				cells = append(cells, model.Cell(text))
			}
		}
		grid.Rows = append(grid.Rows, cells)
	}

	return grid
}

// cellSpan returns the number of grid columns a cell covers.
func cellSpan(cell tableCellXML) int {
	if cell.Properties.GridSpan.Val != "" {
		if span, err := strconv.Atoi(cell.Properties.GridSpan.Val); err == nil && span > 0 {
			return span
		}
	}
	return 1
}

// isMergeContinuation reports whether a cell continues a vertical merge.
// An empty val means continue.
func isMergeContinuation(cell tableCellXML) bool {
	vm := cell.Properties.VMerge
	return vm.XMLName.Local == "vMerge" && vm.Val != "restart"
}

// cellText joins the text of a cell's paragraphs with newlines.
func cellText(cell tableCellXML) string {
	var parts []string
	for _, p := range cell.Paragraphs {
		if text := paragraphText(p); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
