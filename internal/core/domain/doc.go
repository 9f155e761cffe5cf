// Package domain defines the core business entities for Pickles.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a dated journal entry (date, title, text)
//   - FetchWindow: the lookback window and its cutoff date
//   - RawRecord / FieldValue / RawBlock: source records before extraction
//   - AnalysisRequest / AnalysisResult: one analysis call and its output
//   - HistoryEntry: a remembered past analysis
//   - AnalysisRun / Delivery: record-keeping for pipeline runs
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
