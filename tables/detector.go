package tables

// Config holds detector configuration
type Config struct {
	// Minimum consecutive rows for a valid table
	MinRows int

	// Minimum columns for a valid table
	MinCols int

	// Maximum baseline difference for fragments on the same row (points)
	RowTolerance float64

	// Tolerance for clustering column left edges (points)
	ColumnTolerance float64

	// Minimum horizontal gap that separates two cells on a row (points)
	MinColumnGap float64

	// Maximum vertical distance between consecutive table rows (points)
	MaxRowGap float64
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinRows:         2,
		MinCols:         2,
		RowTolerance:    2.0,
		ColumnTolerance: 4.0,
		MinColumnGap:    8.0,
		MaxRowGap:       50.0,
	}
}
