// Package changelog implements the commit classification and rendering
// engine behind relog.
//
// This package implements:
//   - Conventional-commit parsing of raw commit messages
//   - Ordered, first-match-wins classification rules
//   - Aggregation of classified commits into ordered release groups
//   - Pull-request reference extraction and link resolution
//   - A small template AST evaluated against the release data model
//
// The engine is deliberately free of I/O: it consumes commit records
// produced by the git layer (or any other source) and returns the rendered
// Markdown document. Rendering the same input twice produces byte-identical
// output.
package changelog
