package model

import (
	"net/url"
	"strings"
)

// FileType is a document file type derived from a URL path suffix.
// The empty FileType means the URL does not name a recognized type.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
	FileTypeXLS  FileType = "xls"
	FileTypeHTML FileType = "html"
)

// DefaultFileTypes is the accepted document set when a source does not
// configure its own. HTML is deliberately absent: HTML pages feed link
// discovery, they are never cataloged as documents.
func DefaultFileTypes() map[FileType]bool {
	return map[FileType]bool{
		FileTypePDF:  true,
		FileTypeCSV:  true,
		FileTypeXLSX: true,
		FileTypeXLS:  true,
	}
}

// FileTypeFromURL maps a URL's path suffix to a FileType.
// Only the path is inspected; query strings and fragments are ignored.
// Unrecognized suffixes return the empty FileType.
func FileTypeFromURL(rawURL string) FileType {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.ToLower(u.Path)
	switch {
	case strings.HasSuffix(path, ".pdf"):
		return FileTypePDF
	case strings.HasSuffix(path, ".csv"):
		return FileTypeCSV
	case strings.HasSuffix(path, ".xlsx"):
		return FileTypeXLSX
	case strings.HasSuffix(path, ".xls"):
		return FileTypeXLS
	case strings.HasSuffix(path, ".html"), strings.HasSuffix(path, ".htm"):
		return FileTypeHTML
	}
	return ""
}

// ParseFileType validates a file type string from configuration.
func ParseFileType(s string) (FileType, bool) {
	switch FileType(strings.ToLower(strings.TrimSpace(s))) {
	case FileTypePDF:
		return FileTypePDF, true
	case FileTypeCSV:
		return FileTypeCSV, true
	case FileTypeXLSX:
		return FileTypeXLSX, true
	case FileTypeXLS:
		return FileTypeXLS, true
	case FileTypeHTML:
		return FileTypeHTML, true
	}
	return "", false
}
