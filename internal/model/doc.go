// Package model defines the core data structures used throughout finharvest.
//
// This package contains the following main types:
//   - DocumentRecord: A harvested document's catalog entry
//   - Domain: The fixed financial category taxonomy
//   - Date: A civil date that serializes as YYYY-MM-DD
//   - FileType: Accepted document file types derived from URL suffixes
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, storage, report) need these types,
// so centralizing them prevents import cycles.
//
// The models serialize to JSON for the append-only catalog file; field names
// are part of the catalog format and must not change.
package model
