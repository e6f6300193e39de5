package model

import (
	"strings"
	"testing"
	"time"
)

// ============================================================================
// Table Tests
// ============================================================================

func TestTableCounts(t *testing.T) {
	tbl := Table{Rows: [][]string{{"A", "B"}, {"1", "2"}, {"3", "4"}}}
	if tbl.RowCount() != 3 {
		t.Errorf("RowCount() = %d, want 3", tbl.RowCount())
	}
	if tbl.ColCount() != 2 {
		t.Errorf("ColCount() = %d, want 2", tbl.ColCount())
	}
	if len(tbl.Body()) != 2 {
		t.Errorf("Body() has %d rows, want 2", len(tbl.Body()))
	}
	if got := tbl.Header(); got[0] != "A" || got[1] != "B" {
		t.Errorf("Header() = %v", got)
	}
}

func TestTableEmpty(t *testing.T) {
	var tbl Table
	if !tbl.IsEmpty() {
		t.Error("zero Table should be empty")
	}
	if tbl.Header() != nil || tbl.Body() != nil {
		t.Error("empty table should have nil header and body")
	}
	if tbl.ToMarkdown() != "" {
		t.Error("empty table should render empty markdown")
	}
}

func TestTableToMarkdown(t *testing.T) {
	tbl := Table{Rows: [][]string{{"Name", "Note"}, {"a|b", "line\nbreak"}}}
	want := "| Name | Note |\n|---|---|\n| a\\|b | line break |\n"
	if got := tbl.ToMarkdown(); got != want {
		t.Errorf("ToMarkdown() = %q, want %q", got, want)
	}
}

func TestTableToCSV(t *testing.T) {
	tbl := Table{Rows: [][]string{{"h1", "h2"}, {"plain", `say "hi", ok`}}}
	want := "h1,h2\nplain,\"say \"\"hi\"\", ok\"\n"
	if got := tbl.ToCSV(); got != want {
		t.Errorf("ToCSV() = %q, want %q", got, want)
	}
}

func TestTableGetText(t *testing.T) {
	tbl := Table{Rows: [][]string{{"a", "b"}, {"c", "d"}}}
	if got := tbl.GetText(); got != "a\tb\nc\td\n" {
		t.Errorf("GetText() = %q", got)
	}
}

// ============================================================================
// Unit Tests
// ============================================================================

func TestGridFromStrings(t *testing.T) {
	grid := GridFromStrings([][]string{{"a", ""}, {"b"}})
	if len(grid.Rows) != 2 || len(grid.Rows[0]) != 2 || len(grid.Rows[1]) != 1 {
		t.Fatalf("unexpected shape: %+v", grid.Rows)
	}
	if grid.Rows[0][1] == nil || *grid.Rows[0][1] != "" {
		t.Error("empty string cell should be present, not absent")
	}
	if grid.Kind() != UnitTable {
		t.Errorf("Kind() = %v", grid.Kind())
	}
}

func TestUnitKinds(t *testing.T) {
	units := []struct {
		unit ContentUnit
		want string
	}{
		{&TextBlock{}, "text"},
		{&TableGrid{}, "table"},
		{&ImageAsset{}, "image"},
		{&HeadingUnit{}, "heading"},
	}
	for _, u := range units {
		if got := u.unit.Kind().String(); got != u.want {
			t.Errorf("Kind() = %q, want %q", got, u.want)
		}
	}
}

// ============================================================================
// Element Tests
// ============================================================================

func TestElementTypes(t *testing.T) {
	elems := []struct {
		elem FlowElement
		want string
	}{
		{&Title{}, "Title"},
		{&MetadataBlock{}, "MetadataBlock"},
		{&Heading{}, "Heading"},
		{&Paragraph{}, "Paragraph"},
		{&TableElement{}, "Table"},
		{&Image{}, "Image"},
		{&Caption{}, "Caption"},
		{&Spacer{}, "Spacer"},
	}
	for _, e := range elems {
		if got := e.elem.Type().String(); got != e.want {
			t.Errorf("Type() = %q, want %q", got, e.want)
		}
	}
	if ElementType(99).String() != "Unknown" {
		t.Error("unknown element type should stringify as Unknown")
	}
}

// ============================================================================
// Metadata Tests
// ============================================================================

func TestMetadataLines(t *testing.T) {
	m := Metadata{
		Filename:     "report.pdf",
		Type:         "PDF",
		RelativePath: "q1/report.pdf",
		ModifiedAt:   time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Size:         2048,
		Author:       "Dana",
		Subject:      "Quarterly figures",
		Pages:        3,
	}
	lines := m.Lines()

	var keys []string
	for _, l := range lines {
		keys = append(keys, l.Key)
	}
	if got := strings.Join(keys, ","); got != "File,Type,Path,Last Modified,Size,Author,Subject,Pages" {
		t.Errorf("keys = %s", got)
	}
	if lines[3].Value != "2024-03-01T09:30:00" {
		t.Errorf("Last Modified = %q", lines[3].Value)
	}
	if lines[4].Value != "2.0 kB" {
		t.Errorf("Size = %q", lines[4].Value)
	}
	if lines[0].String() != "File: report.pdf" {
		t.Errorf("String() = %q", lines[0].String())
	}
}

func TestSourceFileName(t *testing.T) {
	tests := map[string]string{
		"/a/b/c.txt": "c.txt",
		`C:\x\y.pdf`: "y.pdf",
		"plain.png":  "plain.png",
	}
	for path, want := range tests {
		if got := (SourceFile{Path: path}).Name(); got != want {
			t.Errorf("Name(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestFormatWarnings(t *testing.T) {
	ws := []Warning{
		{Path: "a.pdf", Stage: "image", Index: 2, Message: "decode failed"},
		{Path: "b.docx", Stage: "extract", Message: "corrupt"},
	}
	want := "a.pdf: image 2: decode failed\nb.docx: extract: corrupt"
	if got := FormatWarnings(ws); got != want {
		t.Errorf("FormatWarnings() = %q, want %q", got, want)
	}
}
