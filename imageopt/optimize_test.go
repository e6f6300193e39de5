package imageopt

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"strings"
	"testing"
)

// encodePNG builds a w x h NRGBA image with a half-transparent gradient.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 7 {
		for x := 0; x < w; x += 7 {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 128})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func encodeGIF(t *testing.T, w, h int) []byte {
	t.Helper()
	pal := color.Palette{color.White, color.Black, color.Transparent}
	img := image.NewPaletted(image.Rect(0, 0, w, h), pal)
	img.SetColorIndex(1, 1, 1)
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("gif.Encode: %v", err)
	}
	return buf.Bytes()
}

func decodeConfig(t *testing.T, data []byte) image.Config {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	return cfg
}

func TestOptimize_Landscape(t *testing.T) {
	res, ok := Optimize(encodePNG(t, 2000, 1000), DefaultOptions())
	if !ok {
		t.Fatal("Optimize() failed")
	}
	if res.Width != 800 || res.Height != 400 {
		t.Errorf("size = %dx%d, want 800x400", res.Width, res.Height)
	}
	if res.Format != "jpeg" {
		t.Errorf("Format = %q, want jpeg", res.Format)
	}

	cfg := decodeConfig(t, res.Data)
	if cfg.Width != 800 || cfg.Height != 400 {
		t.Errorf("encoded size = %dx%d, want 800x400", cfg.Width, cfg.Height)
	}
	if _, err := jpeg.Decode(bytes.NewReader(res.Data)); err != nil {
		t.Errorf("output is not a JPEG: %v", err)
	}
}

func TestOptimize_Portrait(t *testing.T) {
	res, ok := Optimize(encodePNG(t, 600, 1200), DefaultOptions())
	if !ok {
		t.Fatal("Optimize() failed")
	}
	if res.Width != 400 || res.Height != 800 {
		t.Errorf("size = %dx%d, want 400x800", res.Width, res.Height)
	}
}

func TestOptimize_NoUpscale(t *testing.T) {
	res, ok := Optimize(encodePNG(t, 120, 90), DefaultOptions())
	if !ok {
		t.Fatal("Optimize() failed")
	}
	if res.Width != 120 || res.Height != 90 {
		t.Errorf("size = %dx%d, want 120x90", res.Width, res.Height)
	}
}

func TestOptimize_Idempotent(t *testing.T) {
	opts := DefaultOptions()
	first, ok := Optimize(encodePNG(t, 1500, 1100), opts)
	if !ok {
		t.Fatal("first Optimize() failed")
	}
	second, ok := Optimize(first.Data, opts)
	if !ok {
		t.Fatal("second Optimize() failed")
	}
	if first.Width != second.Width || first.Height != second.Height {
		t.Errorf("re-optimizing changed size %dx%d -> %dx%d",
			first.Width, first.Height, second.Width, second.Height)
	}
}

func TestOptimize_PNGOutput(t *testing.T) {
	opts := DefaultOptions()
	opts.Format = "png"
	res, ok := Optimize(encodeGIF(t, 40, 30), opts)
	if !ok {
		t.Fatal("Optimize() failed")
	}
	if res.Format != "png" {
		t.Errorf("Format = %q, want png", res.Format)
	}
	img, err := png.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if _, paletted := img.(*image.Paletted); paletted {
		t.Error("palette should be flattened before encoding")
	}
}

func TestOptimize_InvalidData(t *testing.T) {
	inputs := [][]byte{nil, {}, []byte("not an image"), {0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}}
	for i, in := range inputs {
		if _, ok := Optimize(in, DefaultOptions()); ok {
			t.Errorf("input %d: Optimize() succeeded on invalid data", i)
		}
	}
	if _, err := Process([]byte("junk"), DefaultOptions()); err == nil {
		t.Error("Process() should report an error for invalid data")
	}
}

// forgeDimensions rewrites the IHDR of a PNG to claim w x h pixels while
// keeping the original tiny pixel data.
func forgeDimensions(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	out := bytes.Clone(data)
	if string(out[12:16]) != "IHDR" {
		t.Fatal("IHDR is not the first chunk")
	}
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestOptimize_PixelLimit(t *testing.T) {
	huge := forgeDimensions(t, encodePNG(t, 2, 2), 30000, 30000)

	cfg := decodeConfig(t, huge)
	if cfg.Width != 30000 || cfg.Height != 30000 {
		t.Fatalf("forged header reads %dx%d", cfg.Width, cfg.Height)
	}

	if _, ok := Optimize(huge, DefaultOptions()); ok {
		t.Error("Optimize() accepted an image over the pixel limit")
	}
	_, err := Process(huge, DefaultOptions())
	if err == nil || !strings.Contains(err.Error(), "pixel limit") {
		t.Errorf("Process() error = %v, want a pixel limit error", err)
	}

	// Within the limit the header is trusted and the short data fails to decode.
	if _, err := Process(forgeDimensions(t, encodePNG(t, 2, 2), 3, 3), DefaultOptions()); err == nil ||
		strings.Contains(err.Error(), "pixel limit") {
		t.Errorf("Process() error = %v, want a decode error", err)
	}
}

func TestOptimize_TransparentResizedOnWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 50))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	res, ok := Optimize(buf.Bytes(), Options{MaxWidth: 20, MaxHeight: 20, Format: "PNG"})
	if !ok {
		t.Fatal("Optimize() failed")
	}
	if res.Width != 20 || res.Height != 10 {
		t.Errorf("size = %dx%d, want 20x10", res.Width, res.Height)
	}
	out, err := png.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, a := out.At(10, 5).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Errorf("pixel = %x %x %x %x, want opaque white", r, g, b, a)
	}
}

func TestFitBox(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{2000, 1000, 800, 800, 800, 400},
		{1000, 2000, 800, 800, 400, 800},
		{1000, 1000, 800, 800, 800, 800},
		{500, 300, 800, 800, 500, 300},
		{2000, 1000, 800, 100, 200, 100},
		{1000, 3, 800, 800, 800, 2},
		{5000, 1, 800, 800, 800, 1},
	}

	for _, tt := range tests {
		gotW, gotH := FitBox(tt.w, tt.h, tt.maxW, tt.maxH)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("FitBox(%d,%d,%d,%d) = %dx%d, want %dx%d",
				tt.w, tt.h, tt.maxW, tt.maxH, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}

func TestFitBoxProperties(t *testing.T) {
	for w := 50; w <= 3000; w += 317 {
		for h := 50; h <= 3000; h += 291 {
			gw, gh := FitBox(w, h, 800, 600)
			if gw > 800 || gh > 600 {
				t.Fatalf("FitBox(%d,%d) = %dx%d exceeds box", w, h, gw, gh)
			}
			// Aspect ratio holds within one pixel of rounding on the
			// derived axis.
			dh := math.Abs(float64(gw)*float64(h)/float64(w) - float64(gh))
			dw := math.Abs(float64(gh)*float64(w)/float64(h) - float64(gw))
			if math.Min(dh, dw) > 1 {
				t.Errorf("FitBox(%d,%d) = %dx%d distorts aspect ratio", w, h, gw, gh)
			}
		}
	}
}

func TestNormalizeOptions(t *testing.T) {
	got := normalize(Options{Quality: 300, Format: " jpg "})
	if got.MaxWidth != 800 || got.MaxHeight != 800 {
		t.Errorf("box = %dx%d, want defaults", got.MaxWidth, got.MaxHeight)
	}
	if got.Quality != 100 {
		t.Errorf("Quality = %d, want 100", got.Quality)
	}
	if got.Format != "JPEG" {
		t.Errorf("Format = %q, want JPEG", got.Format)
	}
}
