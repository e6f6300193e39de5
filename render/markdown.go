package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/binder/model"
)

// Markdown renders a flow as a Markdown document. Images are inlined as
// data URIs.
type Markdown struct{}

// Render writes the document to w.
func (Markdown) Render(w io.Writer, flow []model.FlowElement) error {
	bw := bufio.NewWriter(w)

	for _, e := range flow {
		var block string
		switch el := e.(type) {
		case *model.Title:
			block = "# " + oneLine(el.Text)
		case *model.MetadataBlock:
			lines := make([]string, len(el.Lines))
			for i, l := range el.Lines {
				lines[i] = fmt.Sprintf("*%s:* %s  ", l.Key, l.Value)
			}
			block = strings.Join(lines, "\n")
		case *model.Heading:
			level := el.Level + 1
			if level > 6 {
				level = 6
			}
			block = strings.Repeat("#", level) + " " + oneLine(el.Text)
		case *model.Paragraph:
			block = el.Text
		case *model.TableElement:
			block = strings.TrimRight(el.Table.ToMarkdown(), "\n")
		case *model.Image:
			block = fmt.Sprintf("![image](%s)", dataURI(el))
		case *model.Caption:
			block = "*" + oneLine(el.Text) + "*"
		case *model.Spacer:
			block = "---"
		default:
			continue
		}
		if block == "" {
			continue
		}
		if _, err := bw.WriteString(block + "\n\n"); err != nil {
			return fmt.Errorf("writing markdown: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
