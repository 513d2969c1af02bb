package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/finharvest/finharvest/internal/database"
)

// Result is the outcome of one fetch. It is transient: nothing here is
// persisted except the validators, which go into the cache store.
type Result struct {
	// URL is the request URL.
	URL string

	// StatusCode is the HTTP status of the final response.
	StatusCode int

	// Body is the response body. Nil when Cached is true.
	Body []byte

	// Header is the response header map.
	Header http.Header

	// Cached reports that the origin answered 304 Not Modified; the
	// content is unchanged since the validators in the cache store were
	// recorded and Body is nil.
	Cached bool
}

// Fetcher issues conditional GETs backed by the durable cache store.
// It is safe for concurrent use; the cache store serializes its own writes.
type Fetcher struct {
	client      *http.Client
	cache       *database.CacheDB
	userAgent   string
	maxRetries  int
	maxBodySize int64
	backoffUnit time.Duration
	logger      *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithMaxRetries sets the retry ceiling for transient failures.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) { f.maxRetries = n }
}

// WithMaxBodySize limits how many response bytes are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) { f.maxBodySize = n }
}

// WithBackoffUnit sets the base backoff delay. The delay before retry n is
// unit * 2^(n-1). The default unit is one second; tests shrink it.
func WithBackoffUnit(d time.Duration) Option {
	return func(f *Fetcher) { f.backoffUnit = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// New creates a Fetcher over the given HTTP client and cache store.
// The client should carry the per-request timeout; the cache store may be
// shared with fetchers for other sources.
func New(client *http.Client, cache *database.CacheDB, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		cache:       cache,
		userAgent:   "finharvest/0.1",
		maxRetries:  3,
		maxBodySize: 20 * 1024 * 1024, // 20MB
		backoffUnit: time.Second,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// retryableStatus reports whether an HTTP status warrants a retry.
// 429 and the transient 5xx family; everything else surfaces immediately.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Fetch retrieves a URL, using stored validators for a conditional GET.
//
// On 304 the cache entry is left untouched and the result carries
// Cached=true with no body. Any other response upserts the entry with the
// new validators and returns the body. Transient failures are retried up to
// the retry ceiling with exponential backoff (no jitter; the reference
// behavior is delay = 2^attempt seconds and catalog tests depend on it);
// exhausting retries returns a *FetchError with Transient set.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	entry, err := f.cache.Get(ctx, url)
	if err != nil {
		// A cache read failure only costs conditional headers; fetch
		// proceeds unconditionally.
		f.logger.Warn("cache lookup failed", "url", url, "error", err)
		entry = nil
	}

	var lastErr error
	lastStatus := 0

	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			delay := f.backoffUnit << (attempt - 1)
			if err := sleepWithContext(ctx, delay); err != nil {
				return nil, &FetchError{URL: url, StatusCode: lastStatus, Attempts: attempt, Transient: true, Err: err}
			}
		}

		result, retry, err := f.fetchOnce(ctx, url, entry)
		if err == nil && !retry {
			return result, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
		if ferr, ok := err.(*FetchError); ok {
			lastStatus = ferr.StatusCode
		}
		f.logger.Debug("transient fetch failure",
			"url", url,
			"attempt", attempt+1,
			"error", err,
		)
	}

	return nil, &FetchError{URL: url, StatusCode: lastStatus, Attempts: f.maxRetries, Transient: true, Err: lastErr}
}

// fetchOnce performs a single conditional GET.
// The retry return value reports whether the failure is transient.
func (f *Fetcher) fetchOnce(ctx context.Context, url string, entry *database.Entry) (*Result, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, &FetchError{URL: url, Attempts: 1, Err: fmt.Errorf("build request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	if entry != nil && entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	}
	if entry != nil && entry.LastModified != "" {
		req.Header.Set("If-Modified-Since", entry.LastModified)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, &FetchError{URL: url, Attempts: 1, Transient: true, Err: ctx.Err()}
		}
		return nil, true, &FetchError{URL: url, Attempts: 1, Transient: true, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		// Unchanged content: the stored validators stay as they are.
		return &Result{
			URL:        url,
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Cached:     true,
		}, false, nil
	}

	if retryableStatus(resp.StatusCode) {
		return nil, true, &FetchError{URL: url, StatusCode: resp.StatusCode, Attempts: 1, Transient: true}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, true, &FetchError{URL: url, StatusCode: resp.StatusCode, Attempts: 1, Transient: true, Err: err}
	}

	// Every non-304 response refreshes the entry, including 4xx: a later
	// 200 will simply overwrite it.
	newEntry := &database.Entry{
		URL:          url,
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		Status:       resp.StatusCode,
	}
	if err := f.cache.Upsert(ctx, newEntry); err != nil {
		f.logger.Warn("cache upsert failed", "url", url, "error", err)
	}

	return &Result{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header,
	}, false, nil
}

// sleepWithContext waits for the delay or until the context finishes.
func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
