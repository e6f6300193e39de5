// Package pdf reads PDF files for the extraction pipeline.
//
// Page text and positioned text fragments come from github.com/ledongthuc/pdf.
// Embedded raster images come from pdfcpu. The two parsers are opened
// independently, so a file that one of them rejects can still yield the
// content the other understands.
//
// Both libraries can panic on malformed input. Every per-page and per-image
// call is guarded and reported as an error instead.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Reader provides access to the content of one PDF file.
type Reader struct {
	data []byte

	text    *lpdf.Reader // nil when the text layer could not be parsed
	textErr error

	images    *pdfmodel.Context // opened on first use
	imagesErr error
	imagesSet bool

	pageCount int
}

// Open reads a PDF file into memory and parses its text layer.
func Open(filename string) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	return NewReader(data)
}

// NewReader parses a PDF held in memory. It fails only when neither parser
// accepts the data.
func NewReader(data []byte) (*Reader, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF")) {
		return nil, errors.New("not a PDF file")
	}

	r := &Reader{data: data}

	r.text, r.textErr = openText(data)
	if r.text == nil && r.textErr == nil {
		r.textErr = errors.New("text layer unavailable")
	}
	if r.text != nil {
		r.pageCount = safeNumPage(r.text)
	}

	if r.text == nil || r.pageCount == 0 {
		ctx, err := r.imageContext()
		if err != nil {
			return nil, fmt.Errorf("parsing PDF: %w", errors.Join(r.textErr, err))
		}
		r.pageCount = ctx.PageCount
	}

	return r, nil
}

func openText(data []byte) (r *lpdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("text layer panic: %v", p)
		}
	}()
	return lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func safeNumPage(r *lpdf.Reader) (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	return r.NumPage()
}

// imageContext opens the pdfcpu context once. The cross-reference table is
// not optimized, since optimizing merges identical image streams.
func (r *Reader) imageContext() (*pdfmodel.Context, error) {
	if r.imagesSet {
		return r.images, r.imagesErr
	}
	r.imagesSet = true

	func() {
		defer func() {
			if p := recover(); p != nil {
				r.imagesErr = fmt.Errorf("pdfcpu panic: %v", p)
			}
		}()
		conf := pdfmodel.NewDefaultConfiguration()
		r.images, r.imagesErr = api.ReadAndValidate(bytes.NewReader(r.data), conf)
	}()
	if r.imagesErr != nil {
		r.images = nil
		r.imagesErr = fmt.Errorf("pdfcpu read: %w", r.imagesErr)
	}
	return r.images, r.imagesErr
}

// PageCount returns the number of pages.
func (r *Reader) PageCount() int {
	return r.pageCount
}

// Info holds document information dictionary entries.
type Info struct {
	Title   string
	Author  string
	Subject string
}

// Info returns the title, author and subject recorded in the document.
func (r *Reader) Info() (info Info) {
	if r.text == nil {
		return Info{}
	}
	defer func() {
		if recover() != nil {
			info = Info{}
		}
	}()
	dict := r.text.Trailer().Key("Info")
	return Info{
		Title:   strings.TrimSpace(dict.Key("Title").Text()),
		Author:  strings.TrimSpace(dict.Key("Author").Text()),
		Subject: strings.TrimSpace(dict.Key("Subject").Text()),
	}
}

// textPage returns the ledongthuc page for a 1-based page number.
func (r *Reader) textPage(pageNum int) (lpdf.Page, error) {
	if r.text == nil {
		if r.textErr != nil {
			return lpdf.Page{}, fmt.Errorf("text layer unavailable: %w", r.textErr)
		}
		return lpdf.Page{}, errors.New("text layer unavailable")
	}
	if pageNum < 1 || pageNum > r.pageCount {
		return lpdf.Page{}, fmt.Errorf("page %d out of range [1, %d]", pageNum, r.pageCount)
	}
	page := r.text.Page(pageNum)
	if page.V.IsNull() {
		return lpdf.Page{}, fmt.Errorf("page %d has no page object", pageNum)
	}
	return page, nil
}
