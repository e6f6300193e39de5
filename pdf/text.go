package pdf

import (
	"fmt"
	"strings"

	"github.com/tsawler/binder/model"
	"github.com/tsawler/binder/tables"
)

func linesText(d *tables.Detector, frags []model.Fragment) string {
	return strings.Join(d.Lines(frags), "\n")
}

// plainText reads the show-text operators of a page in stream order.
func (r *Reader) plainText(pageNum int) (text string, err error) {
	page, err := r.textPage(pageNum)
	if err != nil {
		return "", err
	}

	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("page %d: text panic: %v", pageNum, p)
		}
	}()

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", pageNum, err)
	}
	return text, nil
}

// PageFragments returns the positioned text runs of a 1-based page in
// drawing order.
func (r *Reader) PageFragments(pageNum int) (frags []model.Fragment, err error) {
	page, err := r.textPage(pageNum)
	if err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			frags, err = nil, fmt.Errorf("page %d: content panic: %v", pageNum, p)
		}
	}()

	content := page.Content()
	frags = make([]model.Fragment, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		frags = append(frags, model.Fragment{
			Text:     t.S,
			BBox:     model.NewBBox(t.X, t.Y, t.W, t.FontSize),
			FontSize: t.FontSize,
		})
	}
	return frags, nil
}

// hasText reports whether s contains anything other than whitespace.
func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
