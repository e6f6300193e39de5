package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/binder/format"
	"github.com/tsawler/binder/model"
)

// Text reads a plain text file as a single block.
type Text struct{}

// Extract returns the whole file as one TextBlock. Invalid UTF-8 sequences
// are replaced with U+FFFD.
func (Text) Extract(path string) ([]model.ContentUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading text: %w", err)
	}
	return []model.ContentUnit{
		&model.TextBlock{Text: strings.ToValidUTF8(string(data), "\uFFFD")},
	}, nil
}

// Metadata describes the file from the filesystem.
func (Text) Metadata(path string) (model.Metadata, error) {
	return BaseMetadata(path)
}

// Image reads a raster image file as a single asset.
type Image struct{}

// Extract returns the raw bytes as one ImageAsset. The declared format comes
// from the magic bytes, or the extension when they are not recognized.
func (Image) Extract(path string) ([]model.ContentUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image file")
	}

	kind := format.ImageType(data)
	if kind == "" {
		kind = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if kind == "jpg" {
			kind = "jpeg"
		}
	}
	return []model.ContentUnit{&model.ImageAsset{Data: data, Format: kind}}, nil
}

// Metadata describes the file from the filesystem.
func (Image) Metadata(path string) (model.Metadata, error) {
	return BaseMetadata(path)
}
