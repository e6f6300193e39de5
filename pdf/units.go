package pdf

import (
	"github.com/tsawler/binder/model"
	"github.com/tsawler/binder/tables"
)

// Units runs the three sub-extractions over every page and returns their
// content in the order images, tables, page text. A failure on one page
// becomes a warning and the page is skipped for that sub-extraction only; a
// failure on one image skips that image only.
// Warnings carry the page number as Index and no Path.
func (r *Reader) Units(detector *tables.Detector) ([]model.ContentUnit, []model.Warning) {
	if detector == nil {
		detector = tables.NewDetector()
	}

	var units []model.ContentUnit
	var warnings []model.Warning

	warn := func(stage string, page int, err error) {
		warnings = append(warnings, model.Warning{Stage: stage, Index: page, Message: err.Error()})
	}

	// Images
	if _, err := r.imageContext(); err != nil {
		warn("image", 0, err)
	} else {
		for page := 1; page <= r.pageCount; page++ {
			images, skipped, err := r.PageImages(page)
			if err != nil {
				warn("image", page, err)
				continue
			}
			for _, img := range images {
				units = append(units, &model.ImageAsset{Data: img.Data, Format: img.Format})
			}
			for _, s := range skipped {
				warn("image", page, s)
			}
		}
	}

	if r.text == nil {
		warn("page", 0, r.textErr)
		return units, warnings
	}

	// Tables and text share the text layer but fail independently.
	var texts []model.ContentUnit
	for page := 1; page <= r.pageCount; page++ {
		frags, ferr := r.PageFragments(page)
		if ferr != nil {
			warn("table", page, ferr)
		} else {
			for _, grid := range detector.Detect(frags) {
				units = append(units, grid)
			}
		}

		var text string
		if ferr == nil && len(frags) > 0 {
			text = linesText(detector, frags)
		} else {
			var err error
			if text, err = r.plainText(page); err != nil {
				warn("page", page, err)
				continue
			}
		}
		if hasText(text) {
			texts = append(texts, &model.TextBlock{Text: text, Page: page})
		}
	}

	return append(units, texts...), warnings
}
