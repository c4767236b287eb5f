// Package report emits sweep results to their output collaborators: a CSV
// file (the contractual record stream), an XLSX workbook (summary plus
// records, for spreadsheet users) and a PNG reflectance plot (visual
// inspection side channel).
//
// The CSV surface is intentionally minimal: one row per record, two
// columns (swept refractive index, resonance angle in degrees), file
// truncated once per run, no append semantics. CSVSink streams rows as the
// sweep produces them, so an interrupted run keeps every completed record.
//
// The workbook and plot writers are side channels only; nothing in the
// locator consumes them.
package report
