package crawler

import (
	"fmt"
	"regexp"

	"github.com/finharvest/finharvest/internal/model"
)

// SourceConfig is the immutable descriptor of one crawl source: a single
// organization's web property with its own seeds, URL filters and budgets.
// It is constructed once at startup and read-only afterwards; the spider
// owns it for the duration of a run.
type SourceConfig struct {
	// Name is the stable identifier used for source selection on the CLI.
	Name string

	// Domain is the financial category every document from this source
	// inherits.
	Domain model.Domain

	// Org is the publishing organization (e.g. "SEBI").
	Org string

	// SeedURLs are the crawl entry points, enqueued at depth zero.
	SeedURLs []string

	// AllowPatterns are regular expressions a URL must match to be
	// processed. An empty list allows every URL.
	AllowPatterns []string

	// DenyPatterns are regular expressions that exclude a URL even when
	// an allow pattern matches.
	DenyPatterns []string

	// MaxDepth bounds link-following distance from the seeds.
	MaxDepth int

	// MaxPages bounds how many documents this source may produce.
	MaxPages int

	// FileTypes is the accepted document set. Nil means the default set.
	FileTypes map[model.FileType]bool

	allowRe []*regexp.Regexp
	denyRe  []*regexp.Regexp
}

// Compile validates the descriptor and precompiles its URL patterns.
// It must be called before the config is handed to a spider; a pattern
// that does not compile is a configuration error, fatal at startup.
func (c *SourceConfig) Compile() error {
	if c.Name == "" {
		return fmt.Errorf("source config missing name")
	}
	if err := c.Domain.Validate(); err != nil {
		return fmt.Errorf("source %s: %w", c.Name, err)
	}
	if len(c.SeedURLs) == 0 {
		return fmt.Errorf("source %s has no seed urls", c.Name)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("source %s: max depth must be non-negative", c.Name)
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("source %s: max pages must be positive", c.Name)
	}
	if c.FileTypes == nil {
		c.FileTypes = model.DefaultFileTypes()
	}

	c.allowRe = c.allowRe[:0]
	for _, p := range c.AllowPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("source %s: allow pattern %q: %w", c.Name, p, err)
		}
		c.allowRe = append(c.allowRe, re)
	}
	c.denyRe = c.denyRe[:0]
	for _, p := range c.DenyPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("source %s: deny pattern %q: %w", c.Name, p, err)
		}
		c.denyRe = append(c.denyRe, re)
	}
	return nil
}

// allowed reports whether the URL matches the allow patterns.
// An empty allow set allows everything.
func (c *SourceConfig) allowed(url string) bool {
	if len(c.allowRe) == 0 {
		return true
	}
	for _, re := range c.allowRe {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

// denied reports whether the URL matches any deny pattern.
func (c *SourceConfig) denied(url string) bool {
	for _, re := range c.denyRe {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

// ShouldProcessURL applies the source's URL filters: a URL is processed
// when it matches the allow set (or the allow set is empty) and matches no
// deny pattern. A deny match always wins.
func (c *SourceConfig) ShouldProcessURL(url string) bool {
	return c.allowed(url) && !c.denied(url)
}

// AcceptsFileType reports whether the source catalogs this document type.
func (c *SourceConfig) AcceptsFileType(ft model.FileType) bool {
	return ft != "" && c.FileTypes[ft]
}
