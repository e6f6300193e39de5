package pdf

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// acceptedImageTypes maps pdfcpu file types to the encodings kept for
// embedding. Other encodings (JPEG 2000, CCITT, raw TIFF) are skipped.
var acceptedImageTypes = map[string]string{
	"jpg":  "jpeg",
	"jpeg": "jpeg",
	"png":  "png",
}

// maxFormDepth bounds the descent into nested form XObjects.
const maxFormDepth = 8

// PageImage is one embedded image of a page.
type PageImage struct {
	Name   string
	ObjNr  int
	Format string // "jpeg" or "png"
	Data   []byte
}

// ImageError reports an embedded image that could not be extracted.
type ImageError struct {
	Page  int
	Name  string
	ObjNr int
	Err   error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("page %d: image %s (obj %d): %v", e.Page, e.Name, e.ObjNr, e.Err)
}

func (e *ImageError) Unwrap() error { return e.Err }

// imageRef is an image XObject found in a page's resources.
type imageRef struct {
	name  string
	objNr int
	sd    *types.StreamDict
	err   error
}

// PageImages returns the JPEG and PNG images placed on a 1-based page,
// ordered by resource name, including images drawn through form XObjects.
// Images in other encodings are left out silently. An image that fails to
// decode is returned in skipped and does not affect the others; err is
// reserved for a page whose resources cannot be read.
//
// Every placed XObject is extracted, so two identical images stored as
// separate objects both appear.
func (r *Reader) PageImages(pageNum int) (images []PageImage, skipped []*ImageError, err error) {
	ctx, err := r.imageContext()
	if err != nil {
		return nil, nil, err
	}
	if pageNum < 1 || pageNum > ctx.PageCount {
		return nil, nil, fmt.Errorf("page %d out of range [1, %d]", pageNum, ctx.PageCount)
	}

	refs, err := pageImageRefs(ctx, pageNum)
	if err != nil {
		return nil, nil, fmt.Errorf("page %d: %w", pageNum, err)
	}

	for _, ref := range refs {
		img, err := ref.extract(ctx)
		if err != nil {
			skipped = append(skipped, &ImageError{Page: pageNum, Name: ref.name, ObjNr: ref.objNr, Err: err})
			continue
		}
		if img != nil {
			images = append(images, *img)
		}
	}
	return images, skipped, nil
}

// pageImageRefs lists the image XObjects reachable from a page's resources.
func pageImageRefs(ctx *pdfmodel.Context, pageNum int) (refs []imageRef, err error) {
	defer func() {
		if p := recover(); p != nil {
			refs, err = nil, fmt.Errorf("resources panic: %v", p)
		}
	}()

	_, _, attrs, err := ctx.PageDict(pageNum, false)
	if err != nil {
		return nil, err
	}
	if attrs == nil || attrs.Resources == nil {
		return nil, nil
	}

	seen := make(map[int]bool)
	collectImages(ctx, attrs.Resources, seen, &refs, 0)
	return refs, nil
}

// collectImages appends the images of a resource dictionary to refs,
// descending into form XObjects. Each object is visited once.
func collectImages(ctx *pdfmodel.Context, resources types.Dict, seen map[int]bool, refs *[]imageRef, depth int) {
	obj, ok := resources.Find("XObject")
	if !ok {
		return
	}
	xobjects, err := ctx.DereferenceDict(obj)
	if err != nil || len(xobjects) == 0 {
		return
	}

	names := make([]string, 0, len(xobjects))
	for name := range xobjects {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ir, ok := xobjects[name].(types.IndirectRef)
		if !ok {
			continue
		}
		objNr := ir.ObjectNumber.Value()
		if seen[objNr] {
			continue
		}
		seen[objNr] = true

		sd, _, err := ctx.DereferenceStreamDict(ir)
		if err != nil {
			*refs = append(*refs, imageRef{name: name, objNr: objNr, err: err})
			continue
		}
		if sd == nil {
			continue
		}

		subtype := sd.Subtype()
		switch {
		case subtype == nil:
		case *subtype == "Image":
			*refs = append(*refs, imageRef{name: name, objNr: objNr, sd: sd})
		case *subtype == "Form" && depth < maxFormDepth:
			if res, found := sd.Find("Resources"); found {
				if d, err := ctx.DereferenceDict(res); err == nil && d != nil {
					collectImages(ctx, d, seen, refs, depth+1)
				}
			}
		}
	}
}

// extract decodes one image. It returns nil, nil for encodings that are
// not kept.
func (ref imageRef) extract(ctx *pdfmodel.Context) (img *PageImage, err error) {
	if ref.err != nil {
		return nil, ref.err
	}

	defer func() {
		if p := recover(); p != nil {
			img, err = nil, fmt.Errorf("image panic: %v", p)
		}
	}()

	found, err := pdfcpu.ExtractImage(ctx, ref.sd, false, ref.name, ref.objNr, false)
	if err != nil {
		return nil, err
	}
	if found == nil || found.Reader == nil {
		return nil, nil
	}
	format, ok := acceptedImageTypes[strings.ToLower(found.FileType)]
	if !ok {
		return nil, nil
	}

	data, err := io.ReadAll(found.Reader)
	if err != nil {
		return nil, err
	}
	return &PageImage{Name: ref.name, ObjNr: ref.objNr, Format: format, Data: data}, nil
}
