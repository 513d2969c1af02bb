package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrUnknownSource is returned when a requested source name matches no
	// built-in or file-defined source.
	ErrUnknownSource = errors.New("unknown source name")

	// ErrInvalidSinceDate is returned when the --since value is not a date
	// in YYYY-MM-DD form.
	ErrInvalidSinceDate = errors.New("invalid since date: use YYYY-MM-DD")

	// ErrInvalidTimeout is returned when the HTTP timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the page budget is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidWorkers is returned when the per-source worker count is not
	// positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidConcurrency is returned when the source concurrency is not
	// positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrSourcesFileNotFound is returned when an explicitly given sources
	// file does not exist.
	ErrSourcesFileNotFound = errors.New("sources file not found")
)
