package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/finharvest/finharvest/internal/model"
)

func testRecord() *model.DocumentRecord {
	return &model.DocumentRecord{
		ID:            "abc123",
		Title:         "Master Circular",
		Domain:        model.DomainStockEquity,
		TopicTags:     []string{"regulatory"},
		Jurisdiction:  "IN",
		SourceTier:    1,
		SourceOrg:     "SEBI",
		SourceURL:     "https://www.sebi.gov.in/docs/master-circular.pdf",
		FileType:      model.FileTypePDF,
		PublishedDate: model.NewDate(2024, time.March, 15),
		Copyright:     model.CopyrightPublic,
		Language:      "en",
		Audience:      model.AudienceEducation,
		QualityFlags:  model.DefaultQualityFlags(),
	}
}

func TestStoragePath(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)

	t.Run("dated record", func(t *testing.T) {
		t.Parallel()
		got := StoragePath(testRecord(), now)
		want := "stock_equity/sebi/2024/pdf__master-circular__2024-03-15.pdf"
		if got != want {
			t.Errorf("StoragePath() = %q, want %q", got, want)
		}
	})

	t.Run("undated record uses current year", func(t *testing.T) {
		t.Parallel()
		rec := testRecord()
		rec.PublishedDate = model.Date{}
		got := StoragePath(rec, now)
		want := "stock_equity/sebi/2026/pdf__master-circular__undated.pdf"
		if got != want {
			t.Errorf("StoragePath() = %q, want %q", got, want)
		}
	})

	t.Run("org spaces become underscores", func(t *testing.T) {
		t.Parallel()
		rec := testRecord()
		rec.SourceOrg = "Income Tax Dept"
		got := StoragePath(rec, now)
		if !strings.HasPrefix(got, "stock_equity/income_tax_dept/") {
			t.Errorf("StoragePath() = %q, want income_tax_dept org segment", got)
		}
	})

	t.Run("long titles truncate to 30", func(t *testing.T) {
		t.Parallel()
		rec := testRecord()
		rec.SourceURL = "https://example.com/a-very-long-document-title-that-keeps-going-and-going.pdf"
		got := StoragePath(rec, now)
		name := filepath.Base(got)
		parts := strings.Split(name, "__")
		if len(parts) != 3 {
			t.Fatalf("filename %q does not have three __ separated parts", name)
		}
		if len(parts[1]) > 30 {
			t.Errorf("short title %q is %d chars, max 30", parts[1], len(parts[1]))
		}
	})
}

func TestShortTitleFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain filename", "https://example.com/annual-report.pdf", "annual-report"},
		{"strips query", "https://example.com/report.pdf?download=1", "report"},
		{"root path", "https://example.com/", "document"},
		{"no path", "https://example.com", "document"},
		{"percent encoding sanitized", "https://example.com/fee%20structure.pdf", "fee20structure"},
		{"diacritics folded", "https://example.com/résumé.pdf", "resume"},
		{"only punctuation", "https://example.com/!!!.pdf", "document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := shortTitleFromURL(tt.url); got != tt.want {
				t.Errorf("shortTitleFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestSaveDocument(t *testing.T) {
	t.Parallel()

	t.Run("writes file and catalog entry", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store, err := New(dir)
		if err != nil {
			t.Fatalf("New() = %v, want nil", err)
		}

		rec := testRecord()
		if err := store.SaveDocument(rec, []byte("content")); err != nil {
			t.Fatalf("SaveDocument() = %v, want nil", err)
		}
		if rec.StoragePath == "" {
			t.Fatal("SaveDocument did not assign a storage path")
		}

		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rec.StoragePath)))
		if err != nil {
			t.Fatalf("stored file not readable: %v", err)
		}
		if string(data) != "content" {
			t.Errorf("stored content = %q, want %q", data, "content")
		}

		var got model.DocumentRecord
		if err := json.Unmarshal(readCatalogLine(t, store, 0), &got); err != nil {
			t.Fatalf("catalog line not valid json: %v", err)
		}
		if got.ID != rec.ID || got.StoragePath != rec.StoragePath {
			t.Errorf("catalog entry = %+v, want id %s path %s", got, rec.ID, rec.StoragePath)
		}
	})

	t.Run("same path same size skips rewrite but appends catalog", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store, err := New(dir)
		if err != nil {
			t.Fatalf("New() = %v, want nil", err)
		}

		rec := testRecord()
		if err := store.SaveDocument(rec, []byte("content")); err != nil {
			t.Fatalf("first SaveDocument() = %v, want nil", err)
		}
		filePath := filepath.Join(dir, filepath.FromSlash(rec.StoragePath))
		before, err := os.Stat(filePath)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}

		time.Sleep(10 * time.Millisecond)
		if err := store.SaveDocument(testRecord(), []byte("CONTENT")); err != nil {
			t.Fatalf("second SaveDocument() = %v, want nil", err)
		}
		after, err := os.Stat(filePath)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if !after.ModTime().Equal(before.ModTime()) {
			t.Error("file was rewritten despite identical size")
		}
		if n := countCatalogLines(t, store); n != 2 {
			t.Errorf("catalog has %d lines, want 2", n)
		}
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store, err := New(filepath.Join(dir, "out"), WithDryRun(true))
		if err != nil {
			t.Fatalf("New() = %v, want nil", err)
		}

		rec := testRecord()
		if err := store.SaveDocument(rec, []byte("content")); err != nil {
			t.Fatalf("SaveDocument() = %v, want nil", err)
		}
		if rec.StoragePath == "" {
			t.Error("dry run should still assign the storage path")
		}
		if _, err := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(err) {
			t.Error("dry run created the output directory")
		}
	})
}

func TestStats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() = %v, want nil", err)
	}

	t.Run("empty catalog", func(t *testing.T) {
		stats, err := store.Stats()
		if err != nil {
			t.Fatalf("Stats() = %v, want nil", err)
		}
		if stats.TotalDocuments != 0 {
			t.Errorf("TotalDocuments = %d, want 0", stats.TotalDocuments)
		}
	})

	t.Run("tallies by source and domain", func(t *testing.T) {
		sebi := testRecord()
		if err := store.SaveDocument(sebi, []byte("a")); err != nil {
			t.Fatalf("SaveDocument() = %v, want nil", err)
		}
		rbi := testRecord()
		rbi.SourceOrg = "RBI"
		rbi.Domain = model.DomainGold
		rbi.SourceURL = "https://www.rbi.org.in/sgb-faq.pdf"
		if err := store.SaveDocument(rbi, []byte("bb")); err != nil {
			t.Fatalf("SaveDocument() = %v, want nil", err)
		}

		stats, err := store.Stats()
		if err != nil {
			t.Fatalf("Stats() = %v, want nil", err)
		}
		if stats.TotalDocuments != 2 {
			t.Errorf("TotalDocuments = %d, want 2", stats.TotalDocuments)
		}
		if stats.BySource["SEBI"] != 1 || stats.BySource["RBI"] != 1 {
			t.Errorf("BySource = %v, want SEBI:1 RBI:1", stats.BySource)
		}
		if stats.ByDomain["gold"] != 1 {
			t.Errorf("ByDomain = %v, want gold:1", stats.ByDomain)
		}
	})
}

func readCatalogLine(t *testing.T, store *Store, n int) []byte {
	t.Helper()
	f, err := os.Open(store.CatalogPath())
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for i := 0; scanner.Scan(); i++ {
		if i == n {
			return append([]byte(nil), scanner.Bytes()...)
		}
	}
	t.Fatalf("catalog has no line %d", n)
	return nil
}

func countCatalogLines(t *testing.T, store *Store) int {
	t.Helper()
	f, err := os.Open(store.CatalogPath())
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer f.Close() //nolint:errcheck

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
	}
	return n
}
