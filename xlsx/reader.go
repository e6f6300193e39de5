// Package xlsx reads Office Open XML spreadsheets into sparse sheets and
// table grids.
package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"
)

// Reader provides access to XLSX workbook content.
type Reader struct {
	zipReader     *zip.ReadCloser
	files         map[string]*zip.File
	workbook      *workbookXML
	sharedStrings []string
	coreProps     *corePropertiesXML
	sheets        []*Sheet
	sheetRels     map[string]string // RID -> target path
	limits        Limits
}

// Default sheet bounds used by Open.
const (
	DefaultMaxRows = 100_000
	DefaultMaxCols = 1024
)

// Limits bounds the rows and columns read from each sheet. Zero fields use
// the defaults.
type Limits struct {
	Rows int
	Cols int
}

func (l Limits) withDefaults() Limits {
	if l.Rows <= 0 {
		l.Rows = DefaultMaxRows
	}
	if l.Cols <= 0 {
		l.Cols = DefaultMaxCols
	}
	return l
}

// Open opens an XLSX file for reading with the default limits.
func Open(filename string) (*Reader, error) {
	return OpenWithLimits(filename, Limits{})
}

// OpenWithLimits opens an XLSX file, reading at most limits.Rows rows and
// limits.Cols columns of each sheet.
func OpenWithLimits(filename string, limits Limits) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File, len(zr.File)),
		sheetRels: make(map[string]string),
		limits:    limits.withDefaults(),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}

	if err := r.parseRelationships(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}

	if err := r.parseWorkbook(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing workbook: %w", err)
	}

	if err := r.parseSharedStrings(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing shared strings: %w", err)
	}

	if err := r.parseWorksheets(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing worksheets: %w", err)
	}

	r.parseCoreProperties()

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// validate checks that required XLSX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"xl/workbook.xml",
	}

	for _, name := range required {
		if _, ok := r.files[name]; !ok {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseRelationships parses the workbook relationships file.
func (r *Reader) parseRelationships() error {
	data, err := r.getFileContent("xl/_rels/workbook.xml.rels")
	if err != nil {
		// Relationships are optional
		return nil
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return err
	}

	for _, rel := range rels.Relationship {
		r.sheetRels[rel.ID] = rel.Target
	}

	return nil
}

// parseWorkbook parses the main workbook file.
func (r *Reader) parseWorkbook() error {
	data, err := r.getFileContent("xl/workbook.xml")
	if err != nil {
		return err
	}

	r.workbook = &workbookXML{}
	return xml.Unmarshal(data, r.workbook)
}

// parseSharedStrings parses the shared strings table.
func (r *Reader) parseSharedStrings() error {
	data, err := r.getFileContent("xl/sharedStrings.xml")
	if err != nil {
		// Shared strings are optional
		return nil
	}

	var sst sharedStringsXML
	if err := xml.Unmarshal(data, &sst); err != nil {
		return err
	}

	r.sharedStrings = make([]string, len(sst.SI))
	for i, si := range sst.SI {
		r.sharedStrings[i] = si.text()
	}

	return nil
}

// parseWorksheets parses all worksheet files in workbook order. Sheets that
// cannot be read are skipped; a workbook with none readable is an error.
func (r *Reader) parseWorksheets() error {
	r.sheets = make([]*Sheet, 0, len(r.workbook.Sheets.Sheet))

	for i, sheetRef := range r.workbook.Sheets.Sheet {
		target := r.sheetRels[sheetRef.RID]
		if target == "" {
			target = fmt.Sprintf("worksheets/sheet%d.xml", i+1)
		}

		data, err := r.getFileContent(partPath(target))
		if err != nil {
			continue
		}

		sheet, err := r.parseWorksheet(data, sheetRef.Name, i)
		if err != nil {
			continue
		}
		r.sheets = append(r.sheets, sheet)
	}

	if len(r.sheets) == 0 && len(r.workbook.Sheets.Sheet) > 0 {
		return fmt.Errorf("no readable worksheets")
	}

	return nil
}

// partPath resolves a workbook relationship target to an archive path.
// Relative targets are relative to xl/; absolute ones to the package root.
func partPath(target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	return path.Clean("xl/" + target)
}

// parseWorksheet parses a single worksheet into sparse rows. Cells past
// the reader's limits are counted in Dropped instead of stored.
func (r *Reader) parseWorksheet(data []byte, name string, index int) (*Sheet, error) {
	var ws worksheetXML
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, err
	}

	sheet := &Sheet{
		Name:   name,
		Index:  index,
		MaxCol: -1,
	}

	if ws.MergeCells != nil {
		for _, mc := range ws.MergeCells.MergeCell {
			startCol, startRow, endCol, endRow, err := ParseRangeRef(mc.Ref)
			if err != nil {
				continue
			}
			sheet.MergedRegions = append(sheet.MergedRegions, MergedRegion{
				StartRow: startRow,
				StartCol: startCol,
				EndRow:   endRow,
				EndCol:   endCol,
			})
		}
	}

	// r attributes on rows and cells are optional and default to the
	// next row or column.
	written := make(map[int][]Cell)
	nextRow := 0
	for _, row := range ws.SheetData.Rows {
		rowIdx := nextRow
		if row.R > 0 {
			rowIdx = row.R - 1
		}
		nextRow = rowIdx + 1

		nextCol := 0
		for _, c := range row.Cells {
			col := nextCol
			if c.R != "" {
				refCol, _, err := ParseCellRef(c.R)
				if err != nil {
					continue
				}
				col = refCol
			}
			nextCol = col + 1

			cell := Cell{Col: col, Formula: c.F}
			cell.Type, cell.Value = r.cellValue(c)
			if rowIdx >= r.limits.Rows || col >= r.limits.Cols {
				if !cell.IsEmpty() {
					sheet.Dropped++
				}
				continue
			}

			written[rowIdx] = append(written[rowIdx], cell)
			if !cell.IsEmpty() && col > sheet.MaxCol {
				sheet.MaxCol = col
			}
		}
	}

	sheet.Rows = make([]Row, 0, len(written))
	for idx, cells := range written {
		sheet.Rows = append(sheet.Rows, Row{Index: idx, Cells: dedupeCells(cells)})
	}
	sort.Slice(sheet.Rows, func(i, j int) bool {
		return sheet.Rows[i].Index < sheet.Rows[j].Index
	})

	return sheet, nil
}

// dedupeCells sorts cells by column. A column written twice keeps its last
// value.
func dedupeCells(cells []Cell) []Cell {
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].Col < cells[j].Col })
	out := cells[:0]
	for _, c := range cells {
		if n := len(out); n > 0 && out[n-1].Col == c.Col {
			out[n-1] = c
			continue
		}
		out = append(out, c)
	}
	return out
}

// cellValue returns the type and display value of a cell.
func (r *Reader) cellValue(c cellXML) (CellType, string) {
	switch c.T {
	case "s": // shared string
		idx, err := strconv.Atoi(strings.TrimSpace(c.V))
		if err != nil || idx < 0 || idx >= len(r.sharedStrings) {
			return CellTypeEmpty, ""
		}
		return CellTypeString, r.sharedStrings[idx]
	case "b":
		if strings.TrimSpace(c.V) == "1" {
			return CellTypeBoolean, "TRUE"
		}
		return CellTypeBoolean, "FALSE"
	case "e":
		return CellTypeError, c.V
	case "str": // formula string result
		return CellTypeString, c.V
	case "inlineStr":
		if c.Is != nil {
			return CellTypeString, c.Is.text()
		}
		return CellTypeEmpty, ""
	default:
		if c.V != "" {
			return CellTypeNumber, formatNumber(c.V)
		}
		if c.F != "" {
			// formula without a cached value
			return CellTypeFormula, ""
		}
		return CellTypeEmpty, ""
	}
}

// formatNumber renders a stored numeric value in its shortest decimal form.
// Very large and very small magnitudes keep exponent notation.
func formatNumber(value string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return value
	}
	if math.Abs(v) >= 1e15 || (v != 0 && math.Abs(v) < 1e-6) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}

	var props corePropertiesXML
	if err := xml.Unmarshal(data, &props); err != nil {
		return
	}
	r.coreProps = &props
}

// Properties holds the workbook's core properties.
type Properties struct {
	Title   string
	Author  string
	Subject string
}

// Properties returns the workbook's core properties.
func (r *Reader) Properties() Properties {
	if r.coreProps == nil {
		return Properties{}
	}
	return Properties{
		Title:   strings.TrimSpace(r.coreProps.Title),
		Author:  strings.TrimSpace(r.coreProps.Creator),
		Subject: strings.TrimSpace(r.coreProps.Subject),
	}
}

// SheetCount returns the number of readable sheets.
func (r *Reader) SheetCount() int {
	return len(r.sheets)
}
