package tables

import (
	"reflect"
	"testing"

	"github.com/tsawler/binder/model"
)

// row builds a raw grid row; "<nil>" marks an absent cell.
func row(cells ...string) []*string {
	out := make([]*string, len(cells))
	for i, c := range cells {
		if c != "<nil>" {
			out[i] = model.Cell(c)
		}
	}
	return out
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		grid [][]*string
		want [][]string
	}{
		{
			name: "forward fill from header and body",
			grid: [][]*string{
				row("H1", "H2"),
				row("v1", "<nil>"),
				row("<nil>", "v3"),
			},
			want: [][]string{
				{"H1", "H2"},
				{"v1", "H2"},
				{"v1", "v3"},
			},
		},
		{
			name: "multi-row gap fills from nearest non-empty ancestor",
			grid: [][]*string{
				row("Region", "Item"),
				row("North", "a"),
				row("<nil>", "b"),
				row("  ", "c"),
				row("South", "d"),
			},
			want: [][]string{
				{"Region", "Item"},
				{"North", "a"},
				{"North", "b"},
				{"North", "c"},
				{"South", "d"},
			},
		},
		{
			name: "trims cells",
			grid: [][]*string{
				row("  A ", "B\n"),
				row(" 1", "2 "),
			},
			want: [][]string{{"A", "B"}, {"1", "2"}},
		},
		{
			name: "drops empty rows and columns",
			grid: [][]*string{
				row("A", "", "B"),
				row("<nil>", "<nil>", "<nil>"),
				row("1", " ", "2"),
				row("", "", ""),
			},
			want: [][]string{{"A", "B"}, {"1", "2"}},
		},
		{
			name: "empty header column dropped only when empty everywhere",
			grid: [][]*string{
				row("A", ""),
				row("1", "x"),
			},
			want: [][]string{{"A", ""}, {"1", "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, anomalies := Clean(tt.grid)
			if !reflect.DeepEqual(got.Rows, tt.want) {
				t.Errorf("Clean() = %q, want %q", got.Rows, tt.want)
			}
			if len(anomalies) != 0 {
				t.Errorf("unexpected anomalies: %+v", anomalies)
			}
		})
	}
}

func TestCleanEmpty(t *testing.T) {
	tests := []struct {
		name string
		grid [][]*string
	}{
		{"nil grid", nil},
		{"no rows", [][]*string{}},
		{"all absent", [][]*string{row("<nil>", "<nil>"), row("<nil>")}},
		{"all blank", [][]*string{row("", " "), row("\t")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Clean(tt.grid)
			if !got.IsEmpty() {
				t.Errorf("Clean() = %q, want empty table", got.Rows)
			}
		})
	}
}

func TestCleanRaggedRows(t *testing.T) {
	grid := [][]*string{
		row("A", "B", "C"),
		row("1"),
		row("x", "y", "z"),
		row("p", "q", "r", "s"),
	}

	got, anomalies := Clean(grid)

	want := [][]string{
		{"A", "B", "C"},
		{"1", "", ""},
		{"x", "y", "z"},
		{"p", "q", "r"},
	}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("Clean() = %q, want %q", got.Rows, want)
	}

	wantAnomalies := []Anomaly{
		{Row: 1, Kind: AnomalyShortRow, Want: 3, Got: 1},
		{Row: 3, Kind: AnomalyLongRow, Want: 3, Got: 4},
	}
	if !reflect.DeepEqual(anomalies, wantAnomalies) {
		t.Errorf("anomalies = %+v, want %+v", anomalies, wantAnomalies)
	}
}

func TestCleanRectangular(t *testing.T) {
	grids := [][][]*string{
		{row("a"), row("b", "c", "d"), row("<nil>", "e")},
		{row("h1", "h2", "h3", "h4"), row("", "", "", "x"), row("y")},
		{row("<nil>", "k"), row("v", "<nil>", "w")},
	}

	for i, grid := range grids {
		got, _ := Clean(grid)
		width := got.ColCount()
		for r, cells := range got.Rows {
			if len(cells) != width {
				t.Errorf("grid %d row %d has %d cells, header has %d", i, r, len(cells), width)
			}
		}
	}
}

func TestAnomalyKindString(t *testing.T) {
	if AnomalyShortRow.String() != "padded" || AnomalyLongRow.String() != "truncated" {
		t.Error("unexpected anomaly kind names")
	}
}
