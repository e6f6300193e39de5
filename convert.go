package binder

import (
	"fmt"
	"strconv"

	"github.com/tsawler/binder/imageopt"
	"github.com/tsawler/binder/model"
	"github.com/tsawler/binder/tables"
	"github.com/tsawler/binder/textnorm"
)

// convert turns one file's content units into flow elements. Tables and
// images are numbered by their position among the file's table and image
// units, so a skipped unit leaves a gap in the captions.
func (a *assembly) convert(file model.SourceFile, units []model.ContentUnit) {
	label := file.Format.Label()
	tableNum, imageNum := 0, 0

	for _, unit := range units {
		switch u := unit.(type) {
		case *model.TextBlock:
			a.text(u)

		case *model.TableGrid:
			tableNum++
			a.table(file, label, tableNum, u)

		case *model.ImageAsset:
			imageNum++
			a.image(file, label, imageNum, u)

		case *model.HeadingUnit:
			a.emit(&model.Heading{Text: textnorm.Clean(u.Text), Level: u.Level})

		default:
			a.logger.Debug("ignoring unknown unit", "path", file.RelPath, "kind", unit.Kind())
		}
	}
}

// text emits chunked paragraphs, preceded by a page marker for PDF pages.
func (a *assembly) text(u *model.TextBlock) {
	chunks := textnorm.Paragraphs(u.Text, a.options.maxChunk)
	if len(chunks) == 0 {
		return
	}
	if u.Page > 0 {
		a.emit(&model.Heading{Text: "Page " + strconv.Itoa(u.Page), Level: PageHeadingLevel})
	}
	for _, c := range chunks {
		a.emit(&model.Paragraph{Text: c})
	}
}

// table normalizes a grid and emits it with its caption. Ragged rows are
// reported; empty tables are dropped.
func (a *assembly) table(file model.SourceFile, label string, num int, grid *model.TableGrid) {
	table, anomalies := tables.Clean(grid.Rows)
	for _, an := range anomalies {
		a.warn(model.Warning{
			Path:    file.RelPath,
			Stage:   "table",
			Index:   num,
			Message: fmt.Sprintf("row %d %s: %d cells, header has %d", an.Row, an.Kind, an.Got, an.Want),
		})
	}
	if table.IsEmpty() {
		a.logger.Debug("skipping empty table", "path", file.RelPath, "index", num)
		return
	}
	a.emit(
		&model.TableElement{Table: table},
		&model.Caption{Text: fmt.Sprintf("Table %d from %s", num, label)},
	)
}

// image re-encodes an image and emits it with its caption, or reports it
// and emits nothing.
func (a *assembly) image(file model.SourceFile, label string, num int, asset *model.ImageAsset) {
	res, err := imageopt.Process(asset.Data, a.options.image)
	if err != nil {
		a.warn(model.Warning{Path: file.RelPath, Stage: "image", Index: num, Message: err.Error()})
		return
	}
	a.emit(
		&model.Image{Data: res.Data, Format: res.Format, Width: res.Width, Height: res.Height},
		&model.Caption{Text: fmt.Sprintf("Image %d from %s", num, label)},
	)
}
