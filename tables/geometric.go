package tables

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/binder/model"
)

// Detector recovers tables from positioned text fragments using geometric
// heuristics. It looks for consecutive rows whose cells line up on shared
// column edges.
type Detector struct {
	config Config
}

// NewDetector creates a detector with default configuration.
func NewDetector() *Detector {
	return &Detector{config: DefaultConfig()}
}

// Configure sets the detector configuration. Zero or negative fields fall
// back to their defaults.
func (d *Detector) Configure(config Config) {
	def := DefaultConfig()
	if config.MinRows <= 0 {
		config.MinRows = def.MinRows
	}
	if config.MinCols <= 0 {
		config.MinCols = def.MinCols
	}
	if config.RowTolerance <= 0 {
		config.RowTolerance = def.RowTolerance
	}
	if config.ColumnTolerance <= 0 {
		config.ColumnTolerance = def.ColumnTolerance
	}
	if config.MinColumnGap <= 0 {
		config.MinColumnGap = def.MinColumnGap
	}
	if config.MaxRowGap <= 0 {
		config.MaxRowGap = def.MaxRowGap
	}
	d.config = config
}

// Config returns the active configuration.
func (d *Detector) Config() Config {
	return d.config
}

// segment is a run of fragments on one row that reads as a single cell.
type segment struct {
	text  string
	left  float64
	right float64
}

// textRow is one baseline worth of fragments split into cells.
type textRow struct {
	y     float64
	cells []segment
}

// Detect finds tables among the fragments of one page and returns one raw
// grid per table, top to bottom. Cells with no text at a column position are
// nil.
func (d *Detector) Detect(fragments []model.Fragment) []*model.TableGrid {
	if len(fragments) == 0 {
		return nil
	}

	rows := d.groupRows(fragments)

	var grids []*model.TableGrid
	for _, run := range d.findRuns(rows) {
		if grid := d.buildGrid(run); grid != nil {
			grids = append(grids, grid)
		}
	}
	return grids
}

// Lines returns the fragments as reading-order text lines, top to bottom.
// Cells on a line are separated by a single space.
func (d *Detector) Lines(fragments []model.Fragment) []string {
	if len(fragments) == 0 {
		return nil
	}

	var lines []string
	for _, row := range d.groupRows(fragments) {
		parts := make([]string, 0, len(row.cells))
		for _, cell := range row.cells {
			parts = append(parts, cell.text)
		}
		if line := strings.Join(parts, " "); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// groupRows sorts fragments top to bottom and clusters them by baseline
// within RowTolerance, then splits each row into cells.
func (d *Detector) groupRows(fragments []model.Fragment) []textRow {
	sorted := make([]model.Fragment, len(fragments))
	copy(sorted, fragments)

	// PDF coordinates: larger Y is higher on the page
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BBox.Y != sorted[j].BBox.Y {
			return sorted[i].BBox.Y > sorted[j].BBox.Y
		}
		return sorted[i].BBox.X < sorted[j].BBox.X
	})

	var rows []textRow
	var current []model.Fragment
	baseline := sorted[0].BBox.Y

	flush := func() {
		if len(current) > 0 {
			rows = append(rows, textRow{y: baseline, cells: d.splitCells(current)})
		}
	}

	for _, frag := range sorted {
		if len(current) > 0 && math.Abs(baseline-frag.BBox.Y) > d.config.RowTolerance {
			flush()
			current = nil
			baseline = frag.BBox.Y
		}
		current = append(current, frag)
	}
	flush()

	return rows
}

// splitCells joins the fragments of one row left to right, starting a new
// cell wherever the horizontal gap reaches MinColumnGap. Whitespace
// fragments only mark a word break.
func (d *Detector) splitCells(row []model.Fragment) []segment {
	sort.SliceStable(row, func(i, j int) bool {
		return row[i].BBox.X < row[j].BBox.X
	})

	var cells []segment
	var sb strings.Builder
	var cur *segment
	pendingSpace := false

	closeCell := func() {
		if cur != nil {
			cur.text = strings.TrimSpace(sb.String())
			if cur.text != "" {
				cells = append(cells, *cur)
			}
		}
		cur = nil
		sb.Reset()
		pendingSpace = false
	}

	for _, frag := range row {
		if strings.TrimSpace(frag.Text) == "" {
			pendingSpace = true
			continue
		}

		gap := 0.0
		if cur != nil {
			gap = frag.BBox.Left() - cur.right
		}

		if cur != nil && gap >= d.config.MinColumnGap {
			closeCell()
		}

		if cur == nil {
			cur = &segment{left: frag.BBox.Left(), right: frag.BBox.Right()}
		} else {
			if pendingSpace || gap > wordGap(frag) {
				sb.WriteByte(' ')
			}
			if frag.BBox.Right() > cur.right {
				cur.right = frag.BBox.Right()
			}
		}
		sb.WriteString(frag.Text)
		pendingSpace = false
	}
	closeCell()

	return cells
}

// wordGap is the horizontal distance treated as an implicit space between
// glyph runs.
func wordGap(frag model.Fragment) float64 {
	if frag.FontSize > 0 {
		return frag.FontSize * 0.2
	}
	return 1.5
}

// findRuns returns maximal runs of consecutive rows that each have at least
// MinCols cells and sit within MaxRowGap of the previous row.
func (d *Detector) findRuns(rows []textRow) [][]textRow {
	var runs [][]textRow
	var run []textRow

	flush := func() {
		if len(run) >= d.config.MinRows {
			runs = append(runs, run)
		}
		run = nil
	}

	for _, row := range rows {
		if len(row.cells) < d.config.MinCols {
			flush()
			continue
		}
		if len(run) > 0 && run[len(run)-1].y-row.y > d.config.MaxRowGap {
			flush()
		}
		run = append(run, row)
	}
	flush()

	return runs
}

// buildGrid clusters the left edges of a run's cells into column anchors and
// places every cell in its column. Runs that do not keep MinCols columns
// populated in at least MinRows rows are rejected.
func (d *Detector) buildGrid(run []textRow) *model.TableGrid {
	var lefts []float64
	for _, row := range run {
		for _, cell := range row.cells {
			lefts = append(lefts, cell.left)
		}
	}
	sort.Float64s(lefts)
	anchors := d.clusterValues(lefts, d.config.ColumnTolerance)
	if len(anchors) < d.config.MinCols {
		return nil
	}

	grid := &model.TableGrid{Rows: make([][]*string, len(run))}
	filled := make([]int, len(anchors))

	for i, row := range run {
		cells := make([]*string, len(anchors))
		for _, cell := range row.cells {
			col := nearestAnchor(cell.left, anchors)
			if cells[col] == nil {
				filled[col]++
				cells[col] = model.Cell(cell.text)
			} else {
				*cells[col] += " " + cell.text
			}
		}
		grid.Rows[i] = cells
	}

	aligned := 0
	for _, n := range filled {
		if n >= d.config.MinRows {
			aligned++
		}
	}
	if aligned < d.config.MinCols {
		return nil
	}

	return grid
}

// clusterValues clusters sorted values within the given tolerance, averaging
// values that fall within the tolerance of the cluster center.
func (d *Detector) clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	clustered := []float64{values[0]}

	for i := 1; i < len(values); i++ {
		diff := values[i] - clustered[len(clustered)-1]
		if diff > tolerance {
			clustered = append(clustered, values[i])
		} else {
			// Update cluster center with average
			clustered[len(clustered)-1] = (clustered[len(clustered)-1] + values[i]) / 2
		}
	}

	return clustered
}

// nearestAnchor returns the index of the anchor closest to x.
func nearestAnchor(x float64, anchors []float64) int {
	best := 0
	bestDist := math.Abs(x - anchors[0])
	for i := 1; i < len(anchors); i++ {
		if dist := math.Abs(x - anchors[i]); dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}
