package report

import (
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
)

// SourceSummary is the per-source outcome of one harvest run.
type SourceSummary struct {
	// Name is the source identifier (e.g. "SEBI").
	Name string

	// Harvested is the number of documents the crawl produced.
	Harvested int

	// Saved is the number of documents persisted to storage.
	Saved int

	// FilteredOut is the number of documents dropped by the since-date
	// filter.
	FilteredOut int
}

// Summary aggregates a harvest run for reporting.
type Summary struct {
	StartedAt time.Time
	Elapsed   time.Duration
	DryRun    bool
	Sources   []SourceSummary

	// ByDomain counts saved documents per financial domain.
	ByDomain map[string]int
}

// TotalSaved sums saved documents across sources.
func (s *Summary) TotalSaved() int {
	total := 0
	for _, src := range s.Sources {
		total += src.Saved
	}
	return total
}

// MarkdownWriter renders harvest summaries as Markdown.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write renders the summary and returns the rendered length.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeSources(md, summary)
	w.writeDomains(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	md.H1("Harvest Report")
	md.PlainText("")

	mode := "live"
	if summary.DryRun {
		mode = "dry run"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", summary.Elapsed.Round(time.Second).String()},
			{"Mode", mode},
			{"Documents Saved", strconv.Itoa(summary.TotalSaved())},
		},
	})
	md.PlainText("")

	if summary.DryRun {
		md.Note("Dry run: no files were written.")
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeSources(md *markdown.Markdown, summary *Summary) {
	md.H2("Sources")
	md.PlainText("")

	if len(summary.Sources) == 0 {
		md.PlainText("No sources were crawled.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Sources))
	for i, src := range summary.Sources {
		rows[i] = []string{
			src.Name,
			strconv.Itoa(src.Harvested),
			strconv.Itoa(src.FilteredOut),
			strconv.Itoa(src.Saved),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Source", "Harvested", "Filtered Out", "Saved"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeDomains(md *markdown.Markdown, summary *Summary) {
	if len(summary.ByDomain) == 0 {
		return
	}

	md.H2("Saved by Domain")
	md.PlainText("")

	domains := make([]string, 0, len(summary.ByDomain))
	for d := range summary.ByDomain {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	rows := make([][]string, len(domains))
	for i, d := range domains {
		rows[i] = []string{d, strconv.Itoa(summary.ByDomain[d])}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Domain", "Documents"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [finharvest](https://github.com/finharvest/finharvest)*")
}
