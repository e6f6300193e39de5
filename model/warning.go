package model

import (
	"fmt"
	"strings"
)

// Warning records a recoverable problem met while processing a file. A run
// that produces warnings still completes; the affected unit or file is
// simply missing from the output.
type Warning struct {
	Path    string // Relative path of the source file
	Stage   string // "extract", "page", "table", "image", ...
	Index   int    // 1-based unit index within the stage, 0 if not applicable
	Message string
}

func (w Warning) String() string {
	if w.Index > 0 {
		return fmt.Sprintf("%s: %s %d: %s", w.Path, w.Stage, w.Index, w.Message)
	}
	return fmt.Sprintf("%s: %s: %s", w.Path, w.Stage, w.Message)
}

// FormatWarnings joins warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
