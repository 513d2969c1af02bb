package crawler

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/finharvest/finharvest/internal/model"
)

// SourceResult is the outcome of crawling one source.
type SourceResult struct {
	// Source is the config the crawl ran under.
	Source *SourceConfig

	// Documents are the harvested documents, in crawl order, after the
	// since-date filter.
	Documents []*Document

	// FilteredOut counts documents dropped by the since-date filter.
	FilteredOut int
}

// Harvester crawls a set of sources. Sources share nothing mutable except
// the fetch cache, so they run concurrently up to the configured limit.
type Harvester struct {
	fetcher     ContentFetcher
	robots      RobotsPolicy
	concurrency int
	workers     int
	maxPages    int
	since       model.Date
	logger      *slog.Logger
}

// HarvesterOption configures optional harvester behavior.
type HarvesterOption func(*Harvester)

// WithSourceConcurrency bounds how many sources crawl at once.
// The default of one crawls sources sequentially.
func WithSourceConcurrency(n int) HarvesterOption {
	return func(h *Harvester) {
		if n > 0 {
			h.concurrency = n
		}
	}
}

// WithSourceWorkers sets the per-source fetch pool size.
func WithSourceWorkers(n int) HarvesterOption {
	return func(h *Harvester) {
		if n > 0 {
			h.workers = n
		}
	}
}

// WithMaxPages overrides every source's page budget.
func WithMaxPages(n int) HarvesterOption {
	return func(h *Harvester) { h.maxPages = n }
}

// WithSince drops harvested documents published before the given date.
// Undated documents are always kept.
func WithSince(d model.Date) HarvesterOption {
	return func(h *Harvester) { h.since = d }
}

// WithHarvestLogger sets the harvester's logger.
func WithHarvestLogger(l *slog.Logger) HarvesterOption {
	return func(h *Harvester) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHarvester creates a harvester crawling through the given fetcher and
// robots gate.
func NewHarvester(f ContentFetcher, r RobotsPolicy, opts ...HarvesterOption) *Harvester {
	h := &Harvester{
		fetcher:     f,
		robots:      r,
		concurrency: 1,
		workers:     1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run crawls every config and returns one result per source, in input
// order. A cancelled context returns the results accumulated so far and the
// context error; per-source crawl failures do not abort the other sources.
func (h *Harvester) Run(ctx context.Context, configs []*SourceConfig) ([]*SourceResult, error) {
	results := make([]*SourceResult, len(configs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(h.concurrency)
	for i, cfg := range configs {
		eg.Go(func() error {
			h.logger.Info("crawling source", "source", cfg.Name, "seeds", len(cfg.SeedURLs))
			spider := NewSpider(cfg, h.fetcher, h.robots,
				WithWorkers(h.workers), WithLogger(h.logger))
			docs, err := spider.Crawl(ctx, h.maxPages)

			kept, dropped := h.filterSince(docs)
			results[i] = &SourceResult{
				Source:      cfg,
				Documents:   kept,
				FilteredOut: dropped,
			}
			h.logger.Info("source crawl finished",
				"source", cfg.Name, "documents", len(kept), "filtered_out", dropped)
			return err
		})
	}
	err := eg.Wait()

	compact := make([]*SourceResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			compact = append(compact, r)
		}
	}
	return compact, err
}

// filterSince applies the since-date cutoff. Documents without a published
// date pass through.
func (h *Harvester) filterSince(docs []*Document) (kept []*Document, dropped int) {
	if h.since.IsZero() {
		return docs, 0
	}
	for _, doc := range docs {
		published := doc.Record.PublishedDate
		if !published.IsZero() && published.Before(h.since) {
			dropped++
			continue
		}
		kept = append(kept, doc)
	}
	return kept, dropped
}
