package pdf

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/binder/model"
)

// testImage is an image XObject placed on a test page.
type testImage struct {
	name string // resource name
	dict string // stream dictionary entries other than /Length
	data []byte
	ref  string // resource name of an earlier image whose object is reused
}

type testPage struct {
	content string
	images  []testImage
}

// buildPDF assembles a minimal PDF with one page per entry in pages. Each
// entry is a content stream drawn with Helvetica as /F1.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	tp := make([]testPage, len(pages))
	for i, content := range pages {
		tp[i] = testPage{content: content}
	}
	return buildPDFPages(t, tp...)
}

// buildPDFPages is buildPDF with image XObjects in each page's resources.
func buildPDFPages(t *testing.T, pages ...testPage) []byte {
	t.Helper()

	// 1 catalog, 2 page tree, 3 font, then per page: images, contents, page.
	objects := [][]byte{
		[]byte("<< /Type /Catalog /Pages 2 0 R >>"),
		nil,
		[]byte("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"),
	}
	add := func(body []byte) int {
		objects = append(objects, body)
		return len(objects)
	}
	stream := func(dict string, data []byte) []byte {
		var b bytes.Buffer
		fmt.Fprintf(&b, "<< %s /Length %d >>\nstream\n", dict, len(data))
		b.Write(data)
		b.WriteString("\nendstream")
		return b.Bytes()
	}

	var kids []string
	for _, page := range pages {
		objNrs := make(map[string]int)
		var xobjects []string
		for _, img := range page.images {
			nr, ok := objNrs[img.ref]
			if !ok {
				nr = add(stream(img.dict, img.data))
			}
			objNrs[img.name] = nr
			xobjects = append(xobjects, fmt.Sprintf("/%s %d 0 R", img.name, nr))
		}
		contents := add(stream("", []byte(page.content)))

		resources := "/Font << /F1 3 0 R >>"
		if len(xobjects) > 0 {
			resources += " /XObject << " + strings.Join(xobjects, " ") + " >>"
		}
		pageNr := add([]byte(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << %s >> /Contents %d 0 R >>",
			resources, contents)))
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNr))
	}
	objects[1] = []byte(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", i+1)
		buf.Write(obj)
		buf.WriteString("\nendobj\n")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func writePDF(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestOpen_Text(t *testing.T) {
	path := writePDF(t, buildPDF(t,
		"BT /F1 12 Tf 72 720 Td (Hello PDF) Tj ET",
		"BT /F1 12 Tf 72 720 Td (Second page) Tj ET",
	))

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if r.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", r.PageCount())
	}

	text, err := r.plainText(1)
	if err != nil {
		t.Fatalf("plainText(1) failed: %v", err)
	}
	if !strings.Contains(text, "Hello") {
		t.Errorf("plainText(1) = %q, want it to contain Hello", text)
	}

	frags, err := r.PageFragments(2)
	if err != nil {
		t.Fatalf("PageFragments(2) failed: %v", err)
	}
	if len(frags) == 0 {
		t.Error("PageFragments(2) returned no fragments")
	}
}

func TestPage_OutOfRange(t *testing.T) {
	r, err := NewReader(buildPDF(t, "BT /F1 12 Tf 72 720 Td (x) Tj ET"))
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}
	for _, page := range []int{0, 2, -1} {
		if _, err := r.plainText(page); err == nil {
			t.Errorf("plainText(%d) should fail", page)
		}
		if _, err := r.PageFragments(page); err == nil {
			t.Errorf("PageFragments(%d) should fail", page)
		}
		if _, _, err := r.PageImages(page); err == nil {
			t.Errorf("PageImages(%d) should fail", page)
		}
	}
}

func TestNewReader_Invalid(t *testing.T) {
	tests := map[string][]byte{
		"empty":       nil,
		"not pdf":     []byte("hello world"),
		"header only": []byte("%PDF-1.4\ngarbage without xref"),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewReader(data); err == nil {
				t.Error("NewReader() should fail")
			}
		})
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Error("Open() on a missing file should fail")
	}
}

func TestUnits_TextPages(t *testing.T) {
	r, err := NewReader(buildPDF(t,
		"BT /F1 12 Tf 72 720 Td (First) Tj ET",
		"",
		"BT /F1 12 Tf 72 720 Td (Third) Tj ET",
	))
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}

	units, _ := r.Units(nil)

	var pages []int
	for _, u := range units {
		if tb, ok := u.(*model.TextBlock); ok {
			pages = append(pages, tb.Page)
		}
	}
	if len(pages) != 2 || pages[0] != 1 || pages[1] != 3 {
		t.Errorf("text pages = %v, want [1 3]", pages)
	}
}

func TestUnits_Table(t *testing.T) {
	content := strings.Join([]string{
		"BT /F1 10 Tf 72 700 Td (Name) Tj ET",
		"BT /F1 10 Tf 200 700 Td (Qty) Tj ET",
		"BT /F1 10 Tf 72 685 Td (Apple) Tj ET",
		"BT /F1 10 Tf 200 685 Td (3) Tj ET",
	}, "\n")
	r, err := NewReader(buildPDF(t, content))
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}

	units, _ := r.Units(nil)

	var grids, texts int
	lastKind := model.UnitImage
	for _, u := range units {
		if u.Kind() > lastKind {
			t.Errorf("unit order violated: %v after %v", u.Kind(), lastKind)
		}
		lastKind = u.Kind()
		switch u.(type) {
		case *model.TableGrid:
			grids++
		case *model.TextBlock:
			texts++
		}
	}
	if grids != 1 {
		t.Errorf("found %d table grids, want 1", grids)
	}
	if texts != 1 {
		t.Errorf("found %d text blocks, want 1", texts)
	}
}

func TestHasText(t *testing.T) {
	if hasText(" \n\t") {
		t.Error("whitespace should not count as text")
	}
	if !hasText(" a ") {
		t.Error("expected text")
	}
}

const (
	dctImage   = "/Type /XObject /Subtype /Image /Width 8 /Height 8 /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /DCTDecode"
	flateImage = "/Type /XObject /Subtype /Image /Width 4 /Height 4 /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /FlateDecode"
	jpxImage   = "/Type /XObject /Subtype /Image /Width 4 /Height 4 /Filter /JPXDecode"
)

func jpegData(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

// flateRGB returns a zlib stream of 4x4 RGB samples.
func flateRGB(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(bytes.Repeat([]byte{200, 30, 30}, 16))
	if err := w.Close(); err != nil {
		t.Fatalf("zlib: %v", err)
	}
	return buf.Bytes()
}

func imageUnits(units []model.ContentUnit) []*model.ImageAsset {
	var out []*model.ImageAsset
	for _, u := range units {
		if img, ok := u.(*model.ImageAsset); ok {
			out = append(out, img)
		}
	}
	return out
}

func TestPageImages(t *testing.T) {
	photo := jpegData(t, color.RGBA{R: 10, G: 120, B: 200, A: 255})
	r, err := NewReader(buildPDFPages(t, testPage{
		content: "q 8 0 0 8 72 600 cm /Im1 Do Q q 4 0 0 4 72 500 cm /Im2 Do Q q 4 0 0 4 72 400 cm /Im3 Do Q",
		images: []testImage{
			{name: "Im1", dict: dctImage, data: photo},
			{name: "Im2", dict: flateImage, data: flateRGB(t)},
			{name: "Im3", dict: jpxImage, data: []byte("not really jpeg 2000")},
		},
	}))
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}

	images, skipped, err := r.PageImages(1)
	if err != nil {
		t.Fatalf("PageImages(1) failed: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2 (JPX left out)", len(images))
	}

	if images[0].Name != "Im1" || images[0].Format != "jpeg" || !bytes.Equal(images[0].Data, photo) {
		t.Errorf("images[0] = %s/%s (%d bytes), want the embedded JPEG unchanged",
			images[0].Name, images[0].Format, len(images[0].Data))
	}
	if images[1].Name != "Im2" || images[1].Format != "png" {
		t.Errorf("images[1] = %s/%s, want Im2/png", images[1].Name, images[1].Format)
	}
	decoded, err := png.Decode(bytes.NewReader(images[1].Data))
	if err != nil {
		t.Fatalf("flate image is not a PNG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("flate image is %dx%d, want 4x4", b.Dx(), b.Dy())
	}
}

func TestUnits_CorruptImageSkipsOnlyItself(t *testing.T) {
	photo := jpegData(t, color.RGBA{R: 240, G: 240, B: 10, A: 255})
	r, err := NewReader(buildPDFPages(t, testPage{
		content: "BT /F1 12 Tf 72 720 Td (Caption text) Tj ET",
		images: []testImage{
			{name: "Im1", dict: dctImage, data: photo},
			{name: "Im2", dict: flateImage, data: []byte("definitely not zlib")},
			{name: "Im3", dict: flateImage, data: flateRGB(t)},
		},
	}))
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}

	units, warnings := r.Units(nil)

	images := imageUnits(units)
	if len(images) != 2 {
		t.Fatalf("got %d images, want the 2 valid ones", len(images))
	}
	if images[0].Format != "jpeg" || images[1].Format != "png" {
		t.Errorf("image formats = %s, %s; want jpeg, png", images[0].Format, images[1].Format)
	}

	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one for the corrupt image", warnings)
	}
	if w := warnings[0]; w.Stage != "image" || w.Index != 1 || !strings.Contains(w.Message, "Im2") {
		t.Errorf("warning = %+v, want stage image, page 1, naming Im2", w)
	}

	var texts int
	for _, u := range units {
		if _, ok := u.(*model.TextBlock); ok {
			texts++
		}
	}
	if texts != 1 {
		t.Errorf("found %d text blocks, want 1", texts)
	}
}

func TestPageImages_Skipped(t *testing.T) {
	r, err := NewReader(buildPDFPages(t, testPage{
		images: []testImage{{name: "Im1", dict: flateImage, data: []byte("broken")}},
	}))
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}

	images, skipped, err := r.PageImages(1)
	if err != nil {
		t.Fatalf("PageImages(1) failed: %v", err)
	}
	if len(images) != 0 || len(skipped) != 1 {
		t.Fatalf("images=%d skipped=%d, want 0 and 1", len(images), len(skipped))
	}
	var imgErr *ImageError
	if !errors.As(skipped[0], &imgErr) || imgErr.Page != 1 || imgErr.Name != "Im1" || imgErr.Err == nil {
		t.Errorf("skipped[0] = %#v", skipped[0])
	}
}

func TestPageImages_IdenticalObjectsKept(t *testing.T) {
	photo := jpegData(t, color.Gray{Y: 128})
	r, err := NewReader(buildPDFPages(t,
		testPage{images: []testImage{
			{name: "Im1", dict: dctImage, data: photo},
			{name: "Im2", dict: dctImage, data: photo},
		}},
		testPage{images: []testImage{
			{name: "Im1", dict: dctImage, data: photo},
			{name: "Im2", ref: "Im1"},
		}},
	))
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}

	tests := []struct {
		page int
		want int
	}{
		{1, 2}, // two objects with the same bytes
		{2, 1}, // one object under two names
	}
	for _, tt := range tests {
		images, _, err := r.PageImages(tt.page)
		if err != nil {
			t.Fatalf("PageImages(%d) failed: %v", tt.page, err)
		}
		if len(images) != tt.want {
			t.Errorf("page %d: got %d images, want %d", tt.page, len(images), tt.want)
		}
	}
}

func TestPageImages_NoImages(t *testing.T) {
	r, err := NewReader(buildPDF(t, "BT /F1 12 Tf 72 720 Td (text only) Tj ET"))
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}
	images, skipped, err := r.PageImages(1)
	if err != nil || len(images) != 0 || len(skipped) != 0 {
		t.Errorf("PageImages(1) = %d, %d, %v; want nothing", len(images), len(skipped), err)
	}
}
