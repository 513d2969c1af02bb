package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// cacheFileName is the file name of the cache database inside its directory.
const cacheFileName = "fetch-cache.db"

// CacheDB is the durable key-value store behind the conditional-GET fetcher.
// It is keyed by URL and safe for concurrent use; writers upsert whole rows,
// so last-writer-wins per URL. There is no transactional grouping across
// URLs: every fetch touches exactly one row.
type CacheDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Entry is one cached set of HTTP validators for a URL.
type Entry struct {
	// URL is the cache key (the exact request URL).
	URL string

	// ETag is the entity tag the origin returned, if any.
	ETag string

	// LastModified is the Last-Modified header value, verbatim.
	LastModified string

	// Status is the status code of the response that produced this entry.
	Status int

	// StoredAt is when the entry was written.
	StoredAt time.Time
}

// Options configures CacheDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default cache database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CacheDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
func Open(dbDir string, opts Options) (*CacheDB, error) {
	dbPath := filepath.Join(dbDir, cacheFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("cache database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check cache database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection avoids
	// SQLITE_BUSY churn from concurrent fetch workers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CacheDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CacheDB) Close() error {
	return cdb.db.Close()
}

// Path returns the path of the backing database file.
func (cdb *CacheDB) Path() string {
	return cdb.dbPath
}

// createTables creates the cache schema if it doesn't exist.
func (cdb *CacheDB) createTables() error {
	schema := `
	-- One row per URL: the validators needed for a conditional GET.
	CREATE TABLE IF NOT EXISTS cache (
		url TEXT PRIMARY KEY,
		etag TEXT,
		last_modified TEXT,
		status INTEGER,
		stored_at TEXT
	);
	`
	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// Get retrieves the cache entry for a URL.
// A miss returns (nil, nil); callers treat a miss as "fetch unconditionally".
func (cdb *CacheDB) Get(ctx context.Context, url string) (*Entry, error) {
	query := `
	SELECT url, etag, last_modified, status, stored_at
	FROM cache WHERE url = ?
	`

	var entry Entry
	var storedAt string

	err := cdb.db.QueryRowContext(ctx, query, url).Scan(
		&entry.URL,
		&entry.ETag,
		&entry.LastModified,
		&entry.Status,
		&storedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	entry.StoredAt = parseTimestamp(storedAt)
	return &entry, nil
}

// Upsert inserts or replaces the cache entry for entry.URL.
// Every non-304 fetch upserts; concurrent writers for the same URL all
// observed the same response, so last-writer-wins is acceptable.
func (cdb *CacheDB) Upsert(ctx context.Context, entry *Entry) error {
	storedAt := entry.StoredAt
	if storedAt.IsZero() {
		storedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO cache (url, etag, last_modified, status, stored_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		etag = excluded.etag,
		last_modified = excluded.last_modified,
		status = excluded.status,
		stored_at = excluded.stored_at
	`

	_, err := cdb.db.ExecContext(ctx, query,
		entry.URL,
		entry.ETag,
		entry.LastModified,
		entry.Status,
		storedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

// Len returns the number of cached URLs.
func (cdb *CacheDB) Len(ctx context.Context) (int, error) {
	var count int
	if err := cdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cache").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}

// PurgeOlderThan removes entries stored before the cutoff and reports how
// many rows were deleted. Stale validators only cost an extra full fetch,
// so purging is maintenance, not correctness.
func (cdb *CacheDB) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := cdb.db.ExecContext(ctx,
		"DELETE FROM cache WHERE stored_at < ?", cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache entries: %w", err)
	}
	return res.RowsAffected()
}

// parseTimestamp parses the stored_at column, tolerating the formats SQLite
// may hand back depending on how the value was written.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
