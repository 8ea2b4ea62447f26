// Package storage provides JSON-based persistence for scraped records.
//
// Each record is stored as one snapshot file named after its canonical
// relative URL, so rider/tadej-pogacar lives at <dataDir>/rider/tadej-pogacar.json.
// Snapshots keep the record's field order. Diff reports which fields changed
// between a stored snapshot and a freshly parsed record.
package storage
