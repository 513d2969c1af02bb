// Package extract holds the pure metadata extractors of the harvester.
//
// Every function here is total: malformed HTML, corrupt PDFs, or
// unparseable text yield an absent result, never an error or panic. A
// corrupt document degrades catalog metadata quality; it must not abort a
// crawl.
//
// # Components
//
//   - ParseHTML: links, title and meta description from an HTML page
//   - PDFMetadata: title and date text from a PDF's first page
//   - ParseDateString / DateFromURL: ordered date-pattern matching
//   - CircularNumber: official circular/notification numbers from titles
//   - TopicTags: keyword-membership topic classification
//
// Design decision: We use golang.org/x/net/html for HTML rather than regex
// because it correctly handles the malformed markup common on government
// portals and gives a proper node tree to walk.
package extract
