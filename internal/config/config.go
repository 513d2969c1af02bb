package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These match the behavior existing harvest
// directories were produced with, so changing them silently changes what a
// bare `finharvest harvest` does.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "finharvest"

	// DefaultUserAgent identifies the harvester in HTTP requests and
	// robots.txt evaluation. Registry operators can reach us through the
	// URL if the crawler misbehaves.
	DefaultUserAgent = "finharvest/0.1 (+https://github.com/finharvest/finharvest)"

	// DefaultTimeout is the per-request HTTP timeout. Government portals
	// can be slow to first byte, so this is generous.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries bounds retry attempts for transient HTTP failures.
	DefaultMaxRetries = 3

	// DefaultMaxPages is the global per-source page budget used when no
	// override is given.
	DefaultMaxPages = 400

	// DefaultOutputDir is where documents and the catalog land.
	DefaultOutputDir = "./data"

	// DefaultWorkers is the per-source fetch pool size. One worker keeps
	// the crawl strictly breadth-first and is politest to the origin.
	DefaultWorkers = 1

	// DefaultConcurrency is how many sources crawl at once.
	DefaultConcurrency = 1
)

// Config holds all runtime options for a harvest run.
// It is populated from CLI flags and passed through the application via
// dependency injection rather than global state.
type Config struct {
	// Sources selects which sources to crawl: a comma-separated name list
	// or "all".
	Sources string

	// OutputDir is the harvest output directory.
	OutputDir string

	// Since drops documents published before this date (YYYY-MM-DD).
	// Undated documents are always kept. Empty means no filter.
	Since string

	// MaxPages overrides every source's page budget when positive.
	MaxPages int

	// DryRun runs the full crawl and classification but writes nothing.
	DryRun bool

	// Workers is the per-source fetch pool size.
	Workers int

	// Concurrency is how many sources crawl at once.
	Concurrency int

	// CacheDir is the directory holding the conditional-GET cache
	// database. Empty means the XDG cache directory.
	CacheDir string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// SourcesFile is an optional YAML file defining extra sources.
	SourcesFile string

	// ReportFile, when set, receives a markdown harvest summary.
	ReportFile string

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// Verbose enables debug-level log output.
	Verbose bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Sources:     "all",
		OutputDir:   DefaultOutputDir,
		MaxPages:    DefaultMaxPages,
		Workers:     DefaultWorkers,
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
	}
}

// Validate checks the configuration for values that would break the run.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	return nil
}

// ResolvedCacheDir returns the cache directory, falling back to the XDG
// cache path when unset.
func (c *Config) ResolvedCacheDir() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	return XDGCacheDir()
}

// XDGCacheDir returns the XDG cache directory for finharvest.
// On Linux: ~/.cache/finharvest
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// XDGConfigDir returns the XDG config directory for finharvest.
// On Linux: ~/.config/finharvest
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
