package extract

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// HTMLResult contains everything extracted from one HTML page.
//
// Design decision: one parsing pass fills a result struct rather than
// separate title/links/description walks; callers pick what they need.
type HTMLResult struct {
	// Title is the text of the <title> element, trimmed.
	Title string

	// MetaDescription is the content of <meta name="description">.
	MetaDescription string

	// Links are all anchor hrefs, resolved against the page URL.
	Links []string
}

// ParseHTML extracts links, title and meta description from HTML content.
// Relative hrefs are resolved against baseURL. Malformed input yields an
// empty result; this function never fails.
func ParseHTML(content []byte, baseURL string) *HTMLResult {
	result := &HTMLResult{}

	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return result
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if result.Title == "" {
					result.Title = strings.TrimSpace(nodeText(n))
				}
			case "a":
				if href, ok := attr(n, "href"); ok && href != "" {
					result.Links = append(result.Links, resolveLink(base, href))
				}
			case "meta":
				if name, _ := attr(n, "name"); strings.EqualFold(name, "description") {
					if content, ok := attr(n, "content"); ok && result.MetaDescription == "" {
						result.MetaDescription = strings.TrimSpace(content)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return result
}

// CanonicalURL resolves a possibly relative href against a base URL.
// Absolute URLs pass through unchanged; unresolvable input is returned
// as-is for the URL filters to reject downstream.
func CanonicalURL(href, baseURL string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	return resolveLink(base, href)
}

// resolveLink resolves href against base, tolerating a nil base.
func resolveLink(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// nodeText concatenates the text nodes under n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// attr returns the value of the named attribute on an element node.
func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}
