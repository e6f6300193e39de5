package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tsawler/binder/format"
)

// SourceFile identifies one input file discovered under the corpus root.
type SourceFile struct {
	Path    string // Absolute or root-joined path
	RelPath string // Path relative to the corpus root, slash separated
	Ext     string // Lower-case extension including the dot
	Size    int64
	ModTime time.Time
	Format  format.Format
}

// Name returns the base file name.
func (s SourceFile) Name() string {
	if i := strings.LastIndexAny(s.Path, `/\`); i >= 0 {
		return s.Path[i+1:]
	}
	return s.Path
}

// Metadata contains file-level information shown before a file's content.
type Metadata struct {
	Filename     string
	Type         string // Upper-case extension, e.g. "PDF"
	RelativePath string
	ModifiedAt   time.Time
	Size         int64

	// Optional document properties
	Title   string
	Author  string
	Subject string
	Pages   int
}

// MetadataLine is one key/value line of a metadata block.
type MetadataLine struct {
	Key   string
	Value string
}

// String renders the line as "Key: Value".
func (l MetadataLine) String() string {
	return l.Key + ": " + l.Value
}

// Lines returns the metadata as ordered key/value lines. Empty optional
// properties are omitted.
func (m Metadata) Lines() []MetadataLine {
	lines := []MetadataLine{
		{Key: "File", Value: m.Filename},
		{Key: "Type", Value: m.Type},
		{Key: "Path", Value: m.RelativePath},
		{Key: "Last Modified", Value: m.ModifiedAt.Format("2006-01-02T15:04:05")},
	}
	if m.Size > 0 {
		lines = append(lines, MetadataLine{Key: "Size", Value: humanize.Bytes(uint64(m.Size))})
	}
	if m.Title != "" {
		lines = append(lines, MetadataLine{Key: "Title", Value: m.Title})
	}
	if m.Author != "" {
		lines = append(lines, MetadataLine{Key: "Author", Value: m.Author})
	}
	if m.Subject != "" {
		lines = append(lines, MetadataLine{Key: "Subject", Value: m.Subject})
	}
	if m.Pages > 0 {
		lines = append(lines, MetadataLine{Key: "Pages", Value: strconv.Itoa(m.Pages)})
	}
	return lines
}
