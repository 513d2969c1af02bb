package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/finharvest/finharvest/internal/model"
)

// Years outside this range are treated as noise (invoice numbers, IDs)
// rather than publication years.
const (
	minPlausibleYear = 1900
	maxPlausibleYear = 2030
)

// cleanDate strips characters that never occur in the supported date
// formats before pattern matching.
var cleanDate = regexp.MustCompile(`[^\w\s\-/]`)

// Ordered date patterns. The first match wins; the order is observable
// behavior (it decides how ambiguous strings classify) and is pinned by
// tests, so do not reorder.
//
// Known limitation, kept on purpose: a 3-group numeric match cannot tell
// DD/MM/YYYY from MM/DD/YYYY beyond which pattern matches first. Real
// documents from the configured sources use day-first, so that is what the
// second pattern assumes.
var (
	reYMD      = regexp.MustCompile(`\b(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`)
	reDMY      = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{4})\b`)
	reMonthYr  = regexp.MustCompile(`\b(\d{1,2})[-/](\d{4})\b`)
	reBareYear = regexp.MustCompile(`\b(\d{4})\b`)
)

// ParseDateString parses the date formats seen in registry URLs and
// document text: YYYY-MM-DD, DD-MM-YYYY, MM-YYYY (day defaults to the 1st),
// a bare year (January 1st), and finally a fuzzy general-purpose parse.
// Returns false when nothing date-like is found.
func ParseDateString(s string) (model.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Date{}, false
	}
	s = cleanDate.ReplaceAllString(s, "")

	if m := reYMD.FindStringSubmatch(s); m != nil {
		if d, ok := civilDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	if m := reDMY.FindStringSubmatch(s); m != nil {
		if d, ok := civilDate(m[3], m[2], m[1]); ok {
			return d, true
		}
	}
	if m := reMonthYr.FindStringSubmatch(s); m != nil {
		if d, ok := civilDate(m[2], m[1], "1"); ok {
			return d, true
		}
	}
	if m := reBareYear.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		if year >= minPlausibleYear && year <= maxPlausibleYear {
			return model.NewDate(year, time.January, 1), true
		}
		// A matched but implausible year is noise, not a date; falling
		// through to the fuzzy parser would resurrect it.
		return model.Date{}, false
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		d := model.DateOf(t)
		if d.Year >= minPlausibleYear && d.Year <= maxPlausibleYear {
			return d, true
		}
	}
	return model.Date{}, false
}

// civilDate validates and assembles a date from string components.
func civilDate(year, month, day string) (model.Date, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return model.Date{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return model.Date{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return model.Date{}, false
	}
	if y < minPlausibleYear || y > maxPlausibleYear || m < 1 || m > 12 || d < 1 || d > 31 {
		return model.Date{}, false
	}
	// Reject impossible combinations like Feb 30: time.Date normalizes
	// them into the next month.
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return model.Date{}, false
	}
	return model.NewDate(y, time.Month(m), d), true
}

// DateFromURL extracts a publication date from a URL: first from path
// segments, then from query parameters whose key contains "date" or
// "year". Returns false when the URL carries no recognizable date.
func DateFromURL(rawURL string) (model.Date, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return model.Date{}, false
	}

	for _, segment := range strings.Split(u.Path, "/") {
		if d, ok := ParseDateString(segment); ok {
			return d, true
		}
	}

	// Walk the raw query in document order; url.Values would randomize it.
	if u.RawQuery != "" {
		for _, part := range strings.Split(u.RawQuery, "&") {
			key, value, found := strings.Cut(part, "=")
			if !found {
				continue
			}
			lower := strings.ToLower(key)
			if !strings.Contains(lower, "date") && !strings.Contains(lower, "year") {
				continue
			}
			if d, ok := ParseDateString(value); ok {
				return d, true
			}
		}
	}

	return model.Date{}, false
}

// Month-name date patterns used when scanning PDF page text, where numeric
// forms are often absent ("15 Mar 2024", "March 15, 2024").
var (
	reTextDMY = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+(\d{4})\b`)
	reTextMDY = regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+(\d{1,2}),?\s+(\d{4})\b`)
	reTextNum = regexp.MustCompile(`\b\d{1,4}[-/]\d{1,2}[-/]\d{1,4}\b`)
)

// dateTextFrom finds the first date-like substring in free text.
// The match is returned verbatim for ParseDateString to interpret.
func dateTextFrom(text string) string {
	if text == "" {
		return ""
	}
	if m := reTextNum.FindString(text); m != "" {
		return m
	}
	if m := reTextDMY.FindString(text); m != "" {
		return m
	}
	if m := reTextMDY.FindString(text); m != "" {
		return m
	}
	return ""
}
