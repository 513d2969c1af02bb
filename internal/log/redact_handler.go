// Package log provides the redacting slog setup used across the crawler.
//
// Crawl logs are full of URLs, and some registries hand out download links
// carrying session or API credentials in the query string. The handler here
// masks those before any record reaches the underlying handler, so log
// files stay safe to share in bug reports.
package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// sensitiveKeys are attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"password":      true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"access_token":  true,
	"session":       true,
	"session_id":    true,
	"credential":    true,
	"auth":          true,
}

// sensitiveParamWords mark query parameter names that carry credentials.
// Matched as substrings of the lowercased parameter name.
var sensitiveParamWords = []string{
	"token", "key", "secret", "password", "passwd", "auth", "session", "sid",
}

// RedactingHandler wraps an slog.Handler and masks sensitive information:
// whole values for credential-named attribute keys, and individual query
// parameters inside URL-valued attributes.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Every component takes a plain *slog.Logger and stays unaware of it
type RedactingHandler struct {
	handler slog.Handler
}

// NewRedactingHandler creates a RedactingHandler wrapping the given
// handler. If handler is nil, slog.Default().Handler() is used.
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactingHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added, masked.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(masked)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

func (h *RedactingHandler) redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		masked := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			masked[i] = h.redactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}

	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		if v := a.Value.String(); looksLikeURL(v) {
			return slog.String(a.Key, RedactURL(v))
		}
	}
	return a
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// RedactURL masks the values of credential-bearing query parameters while
// leaving the rest of the URL readable. Unparseable URLs come back
// unchanged.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return rawURL
	}

	changed := false
	params := strings.Split(u.RawQuery, "&")
	for i, param := range params {
		name, _, ok := strings.Cut(param, "=")
		if !ok {
			continue
		}
		if isSensitiveParam(name) {
			params[i] = name + "=" + MaskValue
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	u.RawQuery = strings.Join(params, "&")
	return u.String()
}

func isSensitiveParam(name string) bool {
	lower := strings.ToLower(name)
	for _, word := range sensitiveParamWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// New creates the crawler's logger: text output with credential
// redaction. Verbose lowers the level from Info to Debug.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewRedactingHandler(textHandler))
}
