package extract

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// Title heuristics for the first-page scan: a title-like line is neither a
// fragment nor a paragraph, mixes cases (rules out ALL-CAPS banners and
// page furniture), and appears in the first handful of lines.
const (
	titleMinLen   = 10
	titleMaxLen   = 99
	titleScanSpan = 10
)

// PDFMetadata extracts a title and a date string from PDF content.
//
// The title is taken from the document information dictionary when present,
// otherwise from a heuristic scan of the first page's text lines. The date
// string is whatever date-like text the first page contains, verbatim, for
// ParseDateString to interpret. Either result may be empty; corrupt input
// yields two empty strings.
func PDFMetadata(content []byte) (title, dateText string) {
	// The pdf library panics on some malformed files; this extractor is
	// total, so contain that here.
	defer func() {
		if r := recover(); r != nil {
			title, dateText = "", ""
		}
	}()

	if len(content) < 4 || !bytes.HasPrefix(content, []byte("%PDF")) {
		return "", ""
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", ""
	}

	title = infoTitle(reader)

	firstPage := pageText(reader, 1)
	if title == "" {
		title = titleFromText(firstPage)
	}
	dateText = dateTextFrom(firstPage)

	return title, dateText
}

// infoTitle reads the Title entry of the document information dictionary.
func infoTitle(reader *pdf.Reader) string {
	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return ""
	}
	v := info.Key("Title")
	if v.Kind() != pdf.String {
		return ""
	}
	return strings.TrimSpace(v.RawString())
}

// pageText returns the plain text of the given 1-based page, or "".
func pageText(reader *pdf.Reader, number int) string {
	if reader.NumPage() < number {
		return ""
	}
	page := reader.Page(number)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// titleFromText scans the first lines of page text for a title-like line.
func titleFromText(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > titleScanSpan {
		lines = lines[:titleScanSpan]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) <= titleMinLen || len(line) >= titleMaxLen+1 {
			continue
		}
		if looksLikeTitle(line) {
			return line
		}
	}
	return ""
}

// looksLikeTitle reports whether a line mixes upper and lower case.
func looksLikeTitle(line string) bool {
	hasUpper := false
	hasLower := false
	for _, r := range line {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
		if hasUpper && hasLower {
			return true
		}
	}
	return false
}
