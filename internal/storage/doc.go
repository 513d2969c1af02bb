// Package storage persists harvested documents and the append-only catalog.
//
// Documents land under a deterministic relative path derived from the
// record's metadata. The path layout is a compatibility contract: existing
// harvest directories were written with it, so the generation rules must
// not change. Every saved document also appends one JSON line to
// catalog.jsonl in the output directory root.
package storage
