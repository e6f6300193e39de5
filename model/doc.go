// Package model defines the data passed between the stages of the binder
// pipeline.
//
// # Sources and content units
//
// A [SourceFile] identifies one discovered input file. Extractors turn a
// source into an ordered list of [ContentUnit] values:
//
//   - [TextBlock] - raw text, optionally tagged with a 1-based PDF page
//   - [TableGrid] - a raw cell grid where a nil cell means "absent"
//   - [ImageAsset] - raw image bytes with a declared encoding
//   - [HeadingUnit] - a section heading such as a spreadsheet sheet name
//
// # Flow elements
//
// The assembler converts content units into [FlowElement] values, the
// renderer-facing representation of the final document:
//
//   - [Title], [MetadataBlock], [Heading], [Paragraph]
//   - [TableElement] wrapping a normalized [Table]
//   - [Image], [Caption], [Spacer]
//
// # Geometry
//
// [BBox] and [Fragment] describe positioned text used for table recovery on
// PDF pages.
package model
