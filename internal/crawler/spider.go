package crawler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/finharvest/finharvest/internal/extract"
	"github.com/finharvest/finharvest/internal/fetcher"
	"github.com/finharvest/finharvest/internal/model"
)

// Document pairs a catalog record with the bytes it was built from, so the
// storage layer can persist content without refetching it. A refetch after
// the crawl would hit the conditional-GET cache and come back empty.
type Document struct {
	Record  *model.DocumentRecord
	Content []byte
}

// ContentFetcher is the fetch seam the spider crawls through.
// *fetcher.Fetcher satisfies it.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Result, error)
}

// RobotsPolicy answers whether a URL may be crawled. *robots.Gate
// satisfies it.
type RobotsPolicy interface {
	IsAllowed(ctx context.Context, url string) bool
}

// Spider drains one source's frontier breadth-first, bounded by the
// source's depth and page budgets. HTML pages feed link discovery only;
// URLs matching the source's accepted file types become Documents.
type Spider struct {
	config  *SourceConfig
	fetcher ContentFetcher
	robots  RobotsPolicy
	workers int
	logger  *slog.Logger
}

// SpiderOption configures optional spider behavior.
type SpiderOption func(*Spider)

// WithWorkers sets the size of the in-source fetch pool. One worker, the
// default, reproduces strict breadth-first order.
func WithWorkers(n int) SpiderOption {
	return func(s *Spider) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the spider's logger.
func WithLogger(l *slog.Logger) SpiderOption {
	return func(s *Spider) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSpider creates a spider for one compiled source config.
func NewSpider(config *SourceConfig, f ContentFetcher, r RobotsPolicy, opts ...SpiderOption) *Spider {
	s := &Spider{
		config:  config,
		fetcher: f,
		robots:  r,
		workers: 1,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// frontierItem is one frontier entry: a URL and its link distance from the
// seeds.
type frontierItem struct {
	url   string
	depth int
}

// crawlState is the mutable state of one Crawl invocation, shared by the
// worker pool. All fields are guarded by mu; cond is signalled whenever the
// queue grows, an in-flight step completes, or the crawl stops.
type crawlState struct {
	mu        sync.Mutex
	cond      *sync.Cond
	queue     []frontierItem
	visited   map[string]bool
	inflight  int
	processed int
	maxPages  int
	documents []*Document
	stopped   bool
}

// Crawl walks the source from its seeds and returns the documents found.
// maxPages overrides the source's page budget when positive.
//
// Cancelling ctx lets in-flight steps finish, stops all further dequeuing,
// and returns the documents accumulated so far along with ctx.Err().
func (s *Spider) Crawl(ctx context.Context, maxPages int) ([]*Document, error) {
	if maxPages <= 0 {
		maxPages = s.config.MaxPages
	}
	st := &crawlState{
		visited:  make(map[string]bool),
		maxPages: maxPages,
	}
	st.cond = sync.NewCond(&st.mu)
	for _, seed := range s.config.SeedURLs {
		u := normalizeURL(seed)
		if u == "" {
			s.logger.Warn("skipping unparseable seed url", "source", s.config.Name, "url", seed)
			continue
		}
		st.queue = append(st.queue, frontierItem{url: u, depth: 0})
	}

	stop := context.AfterFunc(ctx, func() {
		st.mu.Lock()
		st.stopped = true
		st.cond.Broadcast()
		st.mu.Unlock()
	})
	defer stop()

	var wg sync.WaitGroup
	for range s.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.work(ctx, st)
		}()
	}
	wg.Wait()

	st.mu.Lock()
	docs := st.documents
	st.mu.Unlock()
	return docs, ctx.Err()
}

// work is one worker's loop: dequeue, process, repeat. It exits when the
// crawl is stopped or when the queue is empty with no step in flight.
//
// The check-visited, mark-visited transition happens under the single state
// lock so two workers can never claim the same URL.
func (s *Spider) work(ctx context.Context, st *crawlState) {
	for {
		st.mu.Lock()
		for len(st.queue) == 0 && st.inflight > 0 && !st.stopped {
			st.cond.Wait()
		}
		if st.stopped || len(st.queue) == 0 {
			st.mu.Unlock()
			return
		}
		item := st.queue[0]
		st.queue = st.queue[1:]
		if st.visited[item.url] || item.depth > s.config.MaxDepth {
			st.mu.Unlock()
			continue
		}
		st.visited[item.url] = true
		st.inflight++
		st.mu.Unlock()

		s.step(ctx, st, item)

		st.mu.Lock()
		st.inflight--
		st.cond.Broadcast()
		st.mu.Unlock()
	}
}

// step processes one claimed frontier entry: policy checks, fetch,
// classify. Every failure abandons the entry; nothing here is fatal to the
// crawl.
func (s *Spider) step(ctx context.Context, st *crawlState, item frontierItem) {
	if !s.robots.IsAllowed(ctx, item.url) {
		s.logger.Debug("robots.txt disallows url", "source", s.config.Name, "url", item.url)
		return
	}
	if !s.config.ShouldProcessURL(item.url) {
		return
	}

	res, err := s.fetcher.Fetch(ctx, item.url)
	if err != nil {
		s.logger.Warn("fetch failed", "source", s.config.Name, "url", item.url, "error", err)
		return
	}
	// A 304 carries no body; the document was cataloged on a prior run.
	if res.StatusCode != http.StatusOK || res.Cached || len(res.Body) == 0 {
		return
	}

	ft := model.FileTypeFromURL(item.url)
	switch {
	case ft == model.FileTypeHTML:
		parsed := extract.ParseHTML(res.Body, item.url)
		s.enqueueLinks(st, parsed.Links, item.depth+1)
	case s.config.AcceptsFileType(ft):
		doc := s.buildDocument(item.url, res.Body, ft)
		if doc == nil {
			return
		}
		st.mu.Lock()
		if !st.stopped && st.processed < st.maxPages {
			st.documents = append(st.documents, doc)
			st.processed++
			if st.processed >= st.maxPages {
				st.stopped = true
				st.cond.Broadcast()
			}
		}
		st.mu.Unlock()
	default:
		// Unknown suffix. Discard.
	}
}

// enqueueLinks adds not-yet-visited links at the given depth.
func (s *Spider) enqueueLinks(st *crawlState, links []string, depth int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.stopped {
		return
	}
	for _, link := range links {
		u := normalizeURL(link)
		if u == "" || st.visited[u] {
			continue
		}
		st.queue = append(st.queue, frontierItem{url: u, depth: depth})
	}
	st.cond.Broadcast()
}

// normalizeURL is the visited-set key: fragment dropped, scheme and host
// lowercased, empty path rewritten to "/". Non-HTTP links (mailto, tel,
// javascript) normalize to empty and are never enqueued.
func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}
	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}
