// Package imageopt re-encodes raster images for embedding: it decodes any
// supported format, flattens alpha and palettes onto white, shrinks the image
// into a bounding box and encodes it as JPEG or PNG.
package imageopt

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// MaxPixels is the largest image, in pixels, that is decoded. Larger images
// are rejected from their header alone.
const MaxPixels = 89_478_485

// Options controls re-encoding.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   int    // JPEG quality, 1-100
	Format    string // "JPEG" or "PNG"
}

// DefaultOptions returns an 800x800 box at JPEG quality 85.
func DefaultOptions() Options {
	return Options{
		MaxWidth:  800,
		MaxHeight: 800,
		Quality:   85,
		Format:    "JPEG",
	}
}

// Result is a re-encoded image.
type Result struct {
	Data   []byte
	Width  int
	Height int
	Format string // "jpeg" or "png"
}

// Optimize decodes raw and re-encodes it according to opts. It returns false
// when the image cannot be decoded or encoded; callers skip the image.
func Optimize(raw []byte, opts Options) (Result, bool) {
	res, err := optimize(raw, opts)
	if err != nil {
		return Result{}, false
	}
	return res, true
}

// Process is like Optimize but reports why an image was rejected.
func Process(raw []byte, opts Options) (Result, error) {
	return optimize(raw, opts)
}

func optimize(raw []byte, opts Options) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("image codec panic: %v", r)
		}
	}()

	opts = normalize(opts)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Result{}, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Result{}, errors.New("image has no pixels")
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Result{}, fmt.Errorf("image is %dx%d, over the %d pixel limit", cfg.Width, cfg.Height, MaxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Result{}, fmt.Errorf("failed to decode image: %w", err)
	}

	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Result{}, errors.New("image has no pixels")
	}

	var img image.Image
	w, h := FitBox(b.Dx(), b.Dy(), opts.MaxWidth, opts.MaxHeight)
	switch {
	case w == b.Dx() && h == b.Dy():
		img = flatten(src)
	case needsFlatten(src):
		// composite while scaling so no full-size copy is made
		dst := whiteRGBA(w, h)
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
		img = dst
	default:
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
		img = dst
	}

	var buf bytes.Buffer
	format := "jpeg"
	if opts.Format == "PNG" {
		format = "png"
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.Quality})
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode %s: %w", format, err)
	}

	return Result{Data: buf.Bytes(), Width: w, Height: h, Format: format}, nil
}

// normalize fills unset options from DefaultOptions and clamps quality.
func normalize(opts Options) Options {
	def := DefaultOptions()
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = def.MaxWidth
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = def.MaxHeight
	}
	if opts.Quality <= 0 {
		opts.Quality = def.Quality
	}
	if opts.Quality > 100 {
		opts.Quality = 100
	}
	opts.Format = strings.ToUpper(strings.TrimSpace(opts.Format))
	if opts.Format == "JPG" {
		opts.Format = "JPEG"
	}
	if opts.Format != "PNG" {
		opts.Format = "JPEG"
	}
	return opts
}

// FitBox returns the dimensions of a w x h image shrunk to fit inside
// maxW x maxH, preserving aspect ratio. Images already inside the box are
// returned unchanged.
func FitBox(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}

	ratio := float64(w) / float64(h)
	var nw, nh int
	if ratio > 1 {
		nw = maxW
		nh = int(math.Round(float64(nw) / ratio))
	} else {
		nh = maxH
		nw = int(math.Round(float64(nh) * ratio))
	}

	// A landscape image in a tall box, or the reverse, may still overflow
	// the other axis.
	if nh > maxH {
		nh = maxH
		nw = int(math.Round(float64(nh) * ratio))
	}
	if nw > maxW {
		nw = maxW
		nh = int(math.Round(float64(nw) / ratio))
	}

	return clamp(nw, 1, maxW), clamp(nh, 1, maxH)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// flatten converts paletted or alpha-carrying images to an opaque RGBA image
// composited over white. Gray, YCbCr and CMYK images are returned as is.
func flatten(src image.Image) image.Image {
	if !needsFlatten(src) {
		return src
	}

	b := src.Bounds()
	dst := whiteRGBA(b.Dx(), b.Dy())
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

func whiteRGBA(w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return dst
}

func needsFlatten(src image.Image) bool {
	switch src.(type) {
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return false
	default:
		return true
	}
}
