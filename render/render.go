// Package render serializes a flow element sequence into a single output
// document.
package render

import (
	"encoding/base64"
	"io"
	"path/filepath"
	"strings"

	"github.com/tsawler/binder/model"
)

// Renderer writes a flow to w.
type Renderer interface {
	Render(w io.Writer, flow []model.FlowElement) error
}

// ForPath picks a renderer from the output file extension: Markdown for
// .md and .markdown, XML for .xml, HTML for anything else.
func ForPath(path string) Renderer {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return Markdown{}
	case ".xml":
		return XML{}
	default:
		return NewHTML()
	}
}

// dataURI embeds image bytes as a base64 data URI.
func dataURI(img *model.Image) string {
	mime := "image/jpeg"
	if strings.EqualFold(img.Format, "png") {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
