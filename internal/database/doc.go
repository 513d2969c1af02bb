// Package database provides the durable SQLite store behind the
// conditional-GET HTTP cache.
//
// The store holds one row per URL: the validators the origin returned
// (ETag, Last-Modified), the last status code, and when the row was written.
// It persists across harvest runs so repeated crawls of unchanged registries
// turn into cheap 304 responses.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
//  1. No external dependencies - the cache is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. UPSERT-by-key is exactly the access pattern the fetcher needs
//  4. WAL mode gives safe concurrent reads while fetch workers write
package database
