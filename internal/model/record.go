package model

import (
	"crypto/sha1" //nolint:gosec // content addressing, not authentication
	"encoding/hex"
	"errors"
	"fmt"
)

// QualityFlags describe coarse document quality signals.
//
// The flags are currently assigned statically by the record builder
// (official sources, downloadable files); WithinTwoYears stays nil until a
// published date is known. Computing them from content is a known
// simplification left for a richer classifier.
type QualityFlags struct {
	IsOfficial          bool  `json:"is_official"`
	HasMethodology      bool  `json:"has_methodology"`
	WithinTwoYears      *bool `json:"within_24_months"`
	HasDownloadableFile bool  `json:"has_downloadable_file"`
}

// DefaultQualityFlags returns the flags assigned to records built from the
// configured official sources.
func DefaultQualityFlags() QualityFlags {
	return QualityFlags{
		IsOfficial:          true,
		HasMethodology:      false,
		WithinTwoYears:      nil,
		HasDownloadableFile: true,
	}
}

// DocumentRecord is the catalog unit: one harvested document with its
// extracted metadata. A record is immutable once handed to the storage
// layer, except for StoragePath which storage assigns at save time.
//
// The ID is the deduplication key for catalog idempotence: it is a stable
// hash of (source URL, title), so re-harvesting an unchanged document
// produces the same record identity.
type DocumentRecord struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Summary       string       `json:"summary,omitempty"`
	Domain        Domain       `json:"domain"`
	TopicTags     []string     `json:"topic_tags"`
	Jurisdiction  string       `json:"jurisdiction"`
	SourceTier    int          `json:"source_tier"`
	SourceOrg     string       `json:"source_org"`
	SourceURL     string       `json:"source_url"`
	FileType      FileType     `json:"file_type"`
	PublishedDate Date         `json:"published_date"`
	LastChecked   Date         `json:"last_checked"`
	CircularNo    string       `json:"version_or_circular_no,omitempty"`
	Copyright     Copyright    `json:"copyright"`
	Language      string       `json:"language"`
	Audience      Audience     `json:"intended_audience"`
	QualityFlags  QualityFlags `json:"quality_flags"`
	StoragePath   string       `json:"storage_path,omitempty"`
}

// GenerateDocumentID derives the stable document ID from a source URL and
// title. Same inputs always yield the same ID; the SHA-1 of "url|title"
// matches the IDs already present in existing catalogs, so it must not be
// changed to another hash.
func GenerateDocumentID(url, title string) string {
	sum := sha1.Sum([]byte(url + "|" + title)) //nolint:gosec // stable ID, not a security boundary
	return hex.EncodeToString(sum[:])
}

// Validate checks the mandatory record fields.
// Title, ID and domain are required for every record; everything else is an
// optional enrichment.
func (r *DocumentRecord) Validate() error {
	if r.ID == "" {
		return errors.New("document record missing id")
	}
	if r.Title == "" {
		return errors.New("document record missing title")
	}
	if r.SourceURL == "" {
		return errors.New("document record missing source url")
	}
	if err := r.Domain.Validate(); err != nil {
		return fmt.Errorf("document record: %w", err)
	}
	if len(r.TopicTags) > 5 {
		return fmt.Errorf("document record has %d topic tags (max 5)", len(r.TopicTags))
	}
	return nil
}
