// Package fetcher implements the caching HTTP layer of the harvester.
//
// Every fetch consults the durable cache store for previously seen
// validators and issues a conditional GET (If-None-Match/If-Modified-Since).
// A 304 answer is surfaced as a cached result with no body, which callers
// treat as "unchanged, skip re-processing". Transient failures (HTTP 429 and
// 5xx, plus transport errors) are retried with exponential backoff before
// the failure is surfaced.
//
// Design decision: retries live here, at the HTTP boundary, and nowhere
// else. The crawl frontier abandons a URL on fetch failure rather than
// retrying it a second time, so the retry ceiling is a hard bound on
// requests per URL.
package fetcher
