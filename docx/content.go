package docx

import (
	"fmt"
	"path"
	"strings"

	"github.com/tsawler/binder/format"
	"github.com/tsawler/binder/model"
)

// Unresolved describes an image reference that could not be loaded.
type Unresolved struct {
	RelID  string
	Reason string
}

func (u Unresolved) Error() string {
	return fmt.Sprintf("image %s: %s", u.RelID, u.Reason)
}

// Units returns the document content: every table first, then the body in
// document order, with each paragraph's text followed by the images placed
// in its runs. Image references that cannot be resolved are skipped and
// returned separately.
func (r *Reader) Units() ([]model.ContentUnit, []Unresolved) {
	var units []model.ContentUnit
	var skipped []Unresolved

	for _, grid := range r.Tables() {
		units = append(units, grid)
	}

	for _, el := range r.body {
		if el.Paragraph == nil {
			continue
		}

		if text := paragraphText(*el.Paragraph); strings.TrimSpace(text) != "" {
			units = append(units, &model.TextBlock{Text: text})
		}

		for _, relID := range imageRefs(*el.Paragraph) {
			img, err := r.image(relID)
			if err != nil {
				skipped = append(skipped, *err)
				continue
			}
			units = append(units, img)
		}
	}

	return units, skipped
}

// paragraphText concatenates the text of a paragraph's runs.
func paragraphText(p paragraphXML) string {
	var sb strings.Builder
	for _, run := range p.Runs {
		sb.WriteString(runText(run))
	}
	return sb.String()
}

// runText extracts text from a run element.
func runText(run runXML) string {
	var parts []string

	for _, t := range run.Text {
		parts = append(parts, t.Value)
	}

	// Handle tab characters
	for range run.Tabs {
		parts = append(parts, "\t")
	}

	// Handle breaks
	for _, br := range run.Breaks {
		if br.Type == "page" {
			parts = append(parts, "\n\n")
		} else {
			parts = append(parts, "\n")
		}
	}

	return strings.Join(parts, "")
}

// imageRefs returns the relationship IDs of the images in a paragraph's
// runs, in order.
func imageRefs(p paragraphXML) []string {
	var ids []string
	for _, run := range p.Runs {
		for _, d := range run.Drawing {
			for _, shape := range []*inlineXML{d.Inline, d.Anchor} {
				if shape != nil && shape.Blip != nil && shape.Blip.Embed != "" {
					ids = append(ids, shape.Blip.Embed)
				}
			}
		}
		for _, pict := range run.Picture {
			for _, data := range pict.ImageData {
				if data.ID != "" {
					ids = append(ids, data.ID)
				}
			}
		}
	}
	return ids
}

// image loads the part a relationship points to.
func (r *Reader) image(relID string) (*model.ImageAsset, *Unresolved) {
	rel, ok := r.rels[relID]
	if !ok {
		return nil, &Unresolved{RelID: relID, Reason: "no such relationship"}
	}
	if strings.EqualFold(rel.TargetMode, "External") {
		return nil, &Unresolved{RelID: relID, Reason: "external target " + rel.Target}
	}

	name := mediaPath(rel.Target)
	data, err := r.getFileContent(name)
	if err != nil {
		return nil, &Unresolved{RelID: relID, Reason: err.Error()}
	}

	imgFormat := format.ImageType(data)
	if imgFormat == "" {
		imgFormat = strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	}
	return &model.ImageAsset{Data: data, Format: imgFormat}, nil
}
