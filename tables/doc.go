// Package tables normalizes raw table grids and recovers tables from
// positioned page text.
//
// # Normalization
//
// [Clean] turns a raw grid of optional cells into a rectangular
// [model.Table]. Absent cells (nil) usually mark the continuation of a
// vertically merged cell and are forward-filled from the nearest non-empty
// cell above them in the same column:
//
//	table, anomalies := tables.Clean(grid.Rows)
//	for _, a := range anomalies {
//		logger.Warn("ragged table row", "row", a.Row, "kind", a.Kind)
//	}
//
// Ragged rows are padded or truncated to the header width and reported as
// [Anomaly] values. They are never fatal.
//
// # Detection
//
// A [Detector] works on text fragments with page coordinates, such as those
// produced by a PDF text layer. It uses a multi-step algorithm:
//
//  1. Group fragments into rows by baseline
//  2. Join fragments within a row into cells, split at wide gaps
//  3. Find runs of consecutive rows with at least MinCols cells
//  4. Cluster cell left edges across the run into column anchors
//  5. Assign cells to columns, leaving unmatched positions absent
//
// Detection is controlled by [Config]:
//
//	d := tables.NewDetector()
//	cfg := tables.DefaultConfig()
//	cfg.MinRows = 3
//	d.Configure(cfg)
//	grids := d.Detect(fragments)
package tables
