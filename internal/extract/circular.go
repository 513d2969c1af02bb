package extract

import (
	"regexp"
	"strings"
)

// Circular-number patterns, most specific first. The order matters: plain
// "No. X" would otherwise swallow "Circular No. X" prefixes.
var circularPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Circular\s+No\.?\s*([A-Z0-9/\-]+)`),
	regexp.MustCompile(`(?i)Notification\s+No\.?\s*([A-Z0-9/\-]+)`),
	regexp.MustCompile(`(?i)Circular\s+([A-Z0-9/\-]+)`),
	regexp.MustCompile(`(?i)No\.?\s*([A-Z0-9/\-]+)`),
}

// CircularNumber extracts an official circular or notification reference
// from text, typically a document title. Returns "" when none is found.
func CircularNumber(text string) string {
	if text == "" {
		return ""
	}
	for _, pattern := range circularPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
