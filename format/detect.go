// Package format provides file format detection for the binder pipeline.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// Format represents a supported source format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// Word indicates a word-processor (.docx) document.
	Word
	// Spreadsheet indicates a spreadsheet (.xlsx) workbook.
	Spreadsheet
	// Text indicates a plain text file.
	Text
	// Image indicates a raster image file.
	Image
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "pdf"
	case Word:
		return "word"
	case Spreadsheet:
		return "spreadsheet"
	case Text:
		return "text"
	case Image:
		return "image"
	default:
		return "unknown"
	}
}

// Label returns the human label used in captions, e.g. "Table 1 from PDF".
func (f Format) Label() string {
	switch f {
	case PDF:
		return "PDF"
	case Word:
		return "document"
	case Spreadsheet:
		return "spreadsheet"
	case Text:
		return "text"
	case Image:
		return "image"
	default:
		return "file"
	}
}

// extensions maps every recognized extension to its format.
var extensions = map[string]Format{
	".pdf":  PDF,
	".docx": Word,
	".xlsx": Spreadsheet,
	".txt":  Text,
	".jpg":  Image,
	".jpeg": Image,
	".png":  Image,
	".gif":  Image,
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	if f, ok := extensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return f
	}
	return Unknown
}

// Supported reports whether filename has a recognized extension.
func Supported(filename string) bool {
	return Detect(filename) != Unknown
}

// Extensions returns the recognized extensions in sorted order.
func Extensions() []string {
	out := make([]string, 0, len(extensions))
	for ext := range extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

var (
	magicPDF  = []byte("%PDF")
	magicZIP  = []byte{0x50, 0x4B, 0x03, 0x04}
	magicPNG  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	magicJPEG = []byte{0xFF, 0xD8, 0xFF}
	magicGIF7 = []byte("GIF87a")
	magicGIF9 = []byte("GIF89a")
)

// ImageType returns the raster encoding named by the magic bytes of data:
// "jpeg", "png", "gif", or "" when unrecognized.
func ImageType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, magicJPEG):
		return "jpeg"
	case bytes.HasPrefix(data, magicPNG):
		return "png"
	case bytes.HasPrefix(data, magicGIF7), bytes.HasPrefix(data, magicGIF9):
		return "gif"
	default:
		return ""
	}
}

// DetectFromMagic checks file magic bytes to determine format.
// ZIP containers return Unknown; use DetectFromReader to tell DOCX from XLSX.
func DetectFromMagic(data []byte) Format {
	if bytes.HasPrefix(data, magicPDF) {
		return PDF
	}
	if ImageType(data) != "" {
		return Image
	}
	return Unknown
}

// DetectFromReader inspects the content to determine format. It can
// distinguish the ZIP-based Word and Spreadsheet formats.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 16)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if bytes.HasPrefix(magic, magicZIP) {
		return detectZIPFormat(r, size)
	}
	return DetectFromMagic(magic), nil
}

// detectZIPFormat inspects a ZIP archive for Office Open XML part prefixes.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return Word, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return Spreadsheet, nil
		}
	}

	return Unknown, nil
}
