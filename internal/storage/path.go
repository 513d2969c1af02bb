package storage

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/finharvest/finharvest/internal/model"
)

var (
	reExtension = regexp.MustCompile(`\.[^.]+$`)
	reSanitize  = regexp.MustCompile(`[^\w\s-]`)
	reSpaces    = regexp.MustCompile(`\s+`)

	// asciiFolder strips diacritics so accented titles sanitize to their
	// base letters instead of vanishing.
	asciiFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// StoragePath derives the relative path a document is stored under:
//
//	<domain>/<source_org>/<year>/<filetype>__<short_title>__<date>.<filetype>
//
// where source_org is lowercased with spaces as underscores, year comes
// from the published date (or now when undated), the short title is the
// sanitized trailing segment of the source URL capped at 30 characters,
// and date is YYYY-MM-DD or "undated".
func StoragePath(rec *model.DocumentRecord, now time.Time) string {
	org := strings.ReplaceAll(strings.ToLower(rec.SourceOrg), " ", "_")

	year := strconv.Itoa(now.Year())
	if !rec.PublishedDate.IsZero() {
		year = strconv.Itoa(rec.PublishedDate.Year)
	}

	short := shortTitleFromURL(rec.SourceURL)
	if len(short) > 30 {
		short = short[:30]
	}

	ft := string(rec.FileType)
	return fmt.Sprintf("%s/%s/%s/%s__%s__%s.%s",
		rec.Domain, org, year, ft, short, rec.PublishedDate, ft)
}

// shortTitleFromURL sanitizes the trailing path segment of a URL into a
// filename-safe title: extension stripped, diacritics folded, anything
// outside alnum/space/hyphen removed, whitespace collapsed to underscores,
// capped at 50 characters.
func shortTitleFromURL(rawURL string) string {
	name := "document"
	if u, err := url.Parse(rawURL); err == nil {
		// Escaped form: percent sequences sanitize as literal characters,
		// matching paths already on disk.
		if p := strings.Trim(u.EscapedPath(), "/"); p != "" {
			segments := strings.Split(p, "/")
			name = segments[len(segments)-1]
		}
	}

	name = reExtension.ReplaceAllString(name, "")
	name = foldASCII(name)
	name = reSanitize.ReplaceAllString(name, "")
	name = reSpaces.ReplaceAllString(name, "_")
	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" {
		return "document"
	}
	return name
}

func foldASCII(s string) string {
	folded, _, err := transform.String(asciiFolder, s)
	if err != nil {
		return s
	}
	return folded
}
