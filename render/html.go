package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/binder/imageopt"
	"github.com/tsawler/binder/model"
)

// pageCSS lays the document out on A4 pages.
const pageCSS = `@page { size: A4; margin: 72pt; }
body { font-family: Helvetica, Arial, sans-serif; font-size: 11pt; line-height: 1.4; color: #222; }
h1 { font-size: 20pt; margin: 0 0 12pt; }
h1.page-break { page-break-before: always; break-before: page; }
h2 { font-size: 15pt; margin: 14pt 0 8pt; }
h3 { font-size: 12pt; margin: 12pt 0 6pt; }
.metadata p { margin: 0; font-size: 8pt; color: #666; }
table { border-collapse: collapse; width: 100%; margin: 8pt 0 4pt; font-size: 9pt; }
th, td { border: 0.5pt solid #999; padding: 3pt 5pt; text-align: left; vertical-align: top; }
thead th { background: #eee; }
figure { margin: 8pt 0 4pt; text-align: center; }
.caption { text-align: center; font-size: 9pt; font-style: italic; color: #444; margin: 0 0 12pt; }
`

// HTML renders a flow as one self-contained HTML document. Images are
// inlined as data URIs and scaled to fit the display box.
type HTML struct {
	Title string

	// Display box for images, in CSS pixels
	MaxImageWidth  int
	MaxImageHeight int
}

// NewHTML returns an HTML renderer with a 6in x 4in image box.
func NewHTML() *HTML {
	return &HTML{
		Title:          "Document Compilation",
		MaxImageWidth:  6 * 96,
		MaxImageHeight: 4 * 96,
	}
}

// Render writes the document to w.
func (h *HTML) Render(w io.Writer, flow []model.FlowElement) error {
	doc := h.Document(flow)

	bw := bufio.NewWriter(w)
	if err := html.Render(bw, doc); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing HTML: %w", err)
	}
	return nil
}

// Document builds the DOM for a flow.
func (h *HTML) Document(flow []model.FlowElement) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, "lang", "en")
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	head.AppendChild(withText(element(atom.Title), h.Title))
	head.AppendChild(withText(element(atom.Style), pageCSS))
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)

	titles := 0
	for _, e := range flow {
		if n := h.node(e, &titles); n != nil {
			body.AppendChild(n)
		}
	}
	return doc
}

func (h *HTML) node(e model.FlowElement, titles *int) *html.Node {
	switch el := e.(type) {
	case *model.Title:
		n := withText(element(atom.H1), el.Text)
		if *titles > 0 {
			n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: "page-break"})
		}
		*titles++
		return n

	case *model.MetadataBlock:
		div := element(atom.Div, "class", "metadata")
		for _, line := range el.Lines {
			div.AppendChild(withText(element(atom.P), line.String()))
		}
		return div

	case *model.Heading:
		return withText(element(headingAtom(el.Level)), el.Text)

	case *model.Paragraph:
		return withText(element(atom.P), el.Text)

	case *model.TableElement:
		return tableNode(el.Table)

	case *model.Image:
		img := element(atom.Img, "src", dataURI(el), "alt", "")
		if el.Width > 0 && el.Height > 0 {
			w, ht := imageopt.FitBox(el.Width, el.Height, h.MaxImageWidth, h.MaxImageHeight)
			img.Attr = append(img.Attr,
				html.Attribute{Key: "width", Val: strconv.Itoa(w)},
				html.Attribute{Key: "height", Val: strconv.Itoa(ht)})
		}
		fig := element(atom.Figure)
		fig.AppendChild(img)
		return fig

	case *model.Caption:
		return withText(element(atom.P, "class", "caption"), el.Text)

	case *model.Spacer:
		return element(atom.Div, "style", fmt.Sprintf("height: %gpt", el.Size))
	}
	return nil
}

// headingAtom maps heading levels 1-6, clamping the rest.
func headingAtom(level int) atom.Atom {
	switch {
	case level <= 1:
		return atom.H1
	case level == 2:
		return atom.H2
	case level == 3:
		return atom.H3
	case level == 4:
		return atom.H4
	case level == 5:
		return atom.H5
	default:
		return atom.H6
	}
}

func tableNode(t model.Table) *html.Node {
	table := element(atom.Table)
	if t.IsEmpty() {
		return table
	}

	thead := element(atom.Thead)
	tr := element(atom.Tr)
	for _, cell := range t.Header() {
		tr.AppendChild(withText(element(atom.Th), cell))
	}
	thead.AppendChild(tr)
	table.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, row := range t.Body() {
		tr := element(atom.Tr)
		for _, cell := range row {
			tr.AppendChild(withText(element(atom.Td), cell))
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)
	return table
}

// element creates an element node with key/value attribute pairs.
func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
