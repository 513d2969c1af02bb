package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/finharvest/finharvest/internal/model"
)

const catalogFileName = "catalog.jsonl"

// Store writes harvested documents and their catalog entries under one
// output directory. Safe for concurrent use.
type Store struct {
	outputDir string
	dryRun    bool
	logger    *slog.Logger

	// mu serializes catalog appends so concurrent saves cannot interleave
	// partial lines.
	mu sync.Mutex
}

// Option configures optional store behavior.
type Option func(*Store)

// WithDryRun makes SaveDocument assign storage paths and log what it would
// write without touching the filesystem.
func WithDryRun(dryRun bool) Option {
	return func(s *Store) { s.dryRun = dryRun }
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a store rooted at outputDir, creating the directory if
// needed.
func New(outputDir string, opts ...Option) (*Store, error) {
	s := &Store{
		outputDir: outputDir,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.dryRun {
		if err := os.MkdirAll(outputDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return s, nil
}

// CatalogPath returns the path of the catalog file.
func (s *Store) CatalogPath() string {
	return filepath.Join(s.outputDir, catalogFileName)
}

// SaveDocument stores the document bytes and appends a catalog entry,
// assigning rec.StoragePath as a side effect. When the target file already
// exists with the same size the bytes are not rewritten, but a catalog
// entry is still appended so the catalog reflects every harvest pass.
func (s *Store) SaveDocument(rec *model.DocumentRecord, content []byte) error {
	rec.StoragePath = StoragePath(rec, time.Now())

	if s.dryRun {
		s.logger.Info("dry run: would save document",
			"url", rec.SourceURL, "path", rec.StoragePath, "bytes", len(content))
		return nil
	}

	filePath := filepath.Join(s.outputDir, filepath.FromSlash(rec.StoragePath))
	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}

	if info, err := os.Stat(filePath); err == nil && info.Size() == int64(len(content)) {
		s.logger.Info("document already stored", "path", rec.StoragePath)
		return s.appendCatalog(rec)
	}

	if err := os.WriteFile(filePath, content, 0o600); err != nil {
		return fmt.Errorf("failed to write document %s: %w", rec.StoragePath, err)
	}
	s.logger.Info("saved document", "path", rec.StoragePath, "bytes", len(content))
	return s.appendCatalog(rec)
}

// appendCatalog writes one JSON line for the record.
func (s *Store) appendCatalog(rec *model.DocumentRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode catalog entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.CatalogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append catalog entry: %w", err)
	}
	return nil
}

// Stats summarizes the catalog contents.
type Stats struct {
	TotalDocuments int
	BySource       map[string]int
	ByDomain       map[string]int
}

// Stats re-reads the catalog and tallies documents by source organization
// and domain. A missing catalog yields empty stats, not an error.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{
		BySource: make(map[string]int),
		ByDomain: make(map[string]int),
	}

	f, err := os.Open(s.CatalogPath())
	if errors.Is(err, os.ErrNotExist) {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec model.DocumentRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			s.logger.Warn("skipping malformed catalog line", "error", err)
			continue
		}
		stats.TotalDocuments++
		stats.BySource[rec.SourceOrg]++
		stats.ByDomain[string(rec.Domain)]++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return stats, nil
}
