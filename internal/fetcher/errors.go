package fetcher

import "fmt"

// FetchError describes a failed fetch.
// Transient distinguishes conditions that were retried (HTTP 429/5xx,
// transport errors) from those surfaced immediately (malformed URLs,
// request construction failures).
type FetchError struct {
	// URL is the request URL.
	URL string

	// StatusCode is the last HTTP status observed, or 0 when the failure
	// happened below the HTTP layer.
	StatusCode int

	// Attempts is how many requests were issued before giving up.
	Attempts int

	// Transient reports whether the condition was considered retryable.
	Transient bool

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: status %d after %d attempts: %v", e.URL, e.StatusCode, e.Attempts, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %v (after %d attempts)", e.URL, e.Err, e.Attempts)
	default:
		return fmt.Sprintf("fetch %s: status %d after %d attempts", e.URL, e.StatusCode, e.Attempts)
	}
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error { return e.Err }
