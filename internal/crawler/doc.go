// Package crawler implements the crawl frontier and its orchestration.
//
// # Architecture
//
// The package is designed around the Spider type, which drains one source's
// frontier: a FIFO queue of (url, depth) pairs bounded by the source's depth
// and page budgets. HTML pages feed link discovery; documents matching the
// source's accepted file types become catalog records. The Harvester runs
// spiders for several sources concurrently.
//
// Design decision: We implement our own frontier rather than using a
// crawling framework because:
//  1. The frontier owns the depth/page budgets and visited-set semantics,
//     which are observable behavior a framework would bury
//  2. Fetching goes through the conditional-GET cache layer, which a
//     framework's own fetcher would bypass
//  3. The per-source allow/deny regex filters are part of the immutable
//     source descriptor design
//
// # Concurrency
//
// Within a source, a fixed pool of workers shares the frontier; the
// check-visited, mark-visited transition happens under one mutex so
// concurrent workers cannot fetch the same URL twice. A pool of one worker
// reproduces strict breadth-first order. Across sources, the Harvester uses
// errgroup with a concurrency limit; sources share nothing mutable except
// the cache store, which serializes its own writes.
package crawler
