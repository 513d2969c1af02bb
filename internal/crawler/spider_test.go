package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/finharvest/finharvest/internal/database"
	"github.com/finharvest/finharvest/internal/fetcher"
	"github.com/finharvest/finharvest/internal/model"
)

// allowAllRobots permits every URL.
type allowAllRobots struct{}

func (allowAllRobots) IsAllowed(context.Context, string) bool { return true }

// denyPathRobots denies URLs containing the given substring.
type denyPathRobots struct{ fragment string }

func (r denyPathRobots) IsAllowed(_ context.Context, url string) bool {
	return !strings.Contains(url, r.fragment)
}

// countingHandler wraps a handler and records how often each path is hit.
type countingHandler struct {
	mu      sync.Mutex
	hits    map[string]int
	handler http.Handler
}

func newCountingHandler(h http.Handler) *countingHandler {
	return &countingHandler{hits: make(map[string]int), handler: h}
}

func (c *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	c.hits[r.URL.Path]++
	c.mu.Unlock()
	c.handler.ServeHTTP(w, r)
}

func (c *countingHandler) hitCount(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits[path]
}

func newTestFetcher(t *testing.T, server *httptest.Server) *fetcher.Fetcher {
	t.Helper()
	cache, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() }) //nolint:errcheck
	return fetcher.New(server.Client(), cache)
}

func testSourceConfig(t *testing.T, serverURL string, mutate func(*SourceConfig)) *SourceConfig {
	t.Helper()
	cfg := &SourceConfig{
		Name:     "TEST",
		Domain:   model.DomainStockEquity,
		Org:      "SEBI",
		SeedURLs: []string{serverURL + "/index.html"},
		MaxDepth: 2,
		MaxPages: 100,
	}
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Compile(); err != nil {
		t.Fatalf("failed to compile source config: %v", err)
	}
	return cfg
}

func TestSpiderCrawl(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/index.html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/docs/a.pdf">Circular A</a>
			<a href="/docs/b.pdf">Circular B</a>
			<a href="/login/secret.pdf">Members</a>
			<a href="/deep.html">More</a>
			<a href="mailto:info@example.com">Contact</a>
		</body></html>`)
	})
	mux.HandleFunc("/deep.html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/docs/c.pdf">Circular C</a></body></html>`)
	})
	mux.HandleFunc("/docs/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "pdf-bytes")
	})
	mux.HandleFunc("/login/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "pdf-bytes")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testSourceConfig(t, server.URL, func(c *SourceConfig) {
		c.DenyPatterns = []string{"login"}
	})
	spider := NewSpider(cfg, newTestFetcher(t, server), allowAllRobots{})

	docs, err := spider.Crawl(context.Background(), 0)
	if err != nil {
		t.Fatalf("Crawl() = %v, want nil", err)
	}

	got := make(map[string]bool)
	for _, doc := range docs {
		got[doc.Record.SourceURL] = true
		if len(doc.Content) == 0 {
			t.Errorf("document %s has no content", doc.Record.SourceURL)
		}
	}
	for _, path := range []string{"/docs/a.pdf", "/docs/b.pdf", "/docs/c.pdf"} {
		if !got[server.URL+path] {
			t.Errorf("expected document for %s, harvested: %v", path, got)
		}
	}
	if got[server.URL+"/login/secret.pdf"] {
		t.Error("deny pattern should have excluded /login/secret.pdf")
	}
	if len(docs) != 3 {
		t.Errorf("harvested %d documents, want 3", len(docs))
	}

	for _, doc := range docs {
		rec := doc.Record
		if rec.Domain != model.DomainStockEquity {
			t.Errorf("record domain = %q, want stock_equity", rec.Domain)
		}
		if rec.SourceOrg != "SEBI" {
			t.Errorf("record source org = %q, want SEBI", rec.SourceOrg)
		}
		if rec.Copyright != model.CopyrightPublic {
			t.Errorf("record copyright = %q, want public", rec.Copyright)
		}
		if rec.FileType != model.FileTypePDF {
			t.Errorf("record file type = %q, want pdf", rec.FileType)
		}
		if rec.ID != model.GenerateDocumentID(rec.SourceURL, rec.Title) {
			t.Error("record id does not match the url+title hash")
		}
	}
}

func TestSpiderNeverRevisits(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	// index and loop link to each other; the visited set must break the cycle.
	mux.HandleFunc("/index.html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/loop.html">Loop</a>
			<a href="/doc.pdf">Doc</a>
		</body></html>`)
	})
	mux.HandleFunc("/loop.html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/index.html">Back</a><a href="/doc.pdf">Doc</a></body></html>`)
	})
	mux.HandleFunc("/doc.pdf", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "pdf-bytes")
	})
	counter := newCountingHandler(mux)
	server := httptest.NewServer(counter)
	defer server.Close()

	cfg := testSourceConfig(t, server.URL, func(c *SourceConfig) { c.MaxDepth = 5 })
	spider := NewSpider(cfg, newTestFetcher(t, server), allowAllRobots{})

	docs, err := spider.Crawl(context.Background(), 0)
	if err != nil {
		t.Fatalf("Crawl() = %v, want nil", err)
	}
	if len(docs) != 1 {
		t.Fatalf("harvested %d documents, want 1", len(docs))
	}
	for _, path := range []string{"/index.html", "/loop.html", "/doc.pdf"} {
		if n := counter.hitCount(path); n != 1 {
			t.Errorf("%s fetched %d times, want 1", path, n)
		}
	}
}

func TestSpiderRespectsMaxDepth(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	// A chain: index -> level1 -> level2, each with its own document.
	mux.HandleFunc("/index.html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/level1.html">L1</a><a href="/d0.pdf">D0</a></body></html>`)
	})
	mux.HandleFunc("/level1.html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/level2.html">L2</a><a href="/d1.pdf">D1</a></body></html>`)
	})
	mux.HandleFunc("/level2.html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/d2.pdf">D2</a></body></html>`)
	})
	for _, p := range []string{"/d0.pdf", "/d1.pdf", "/d2.pdf"} {
		mux.HandleFunc(p, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "pdf-bytes")
		})
	}
	counter := newCountingHandler(mux)
	server := httptest.NewServer(counter)
	defer server.Close()

	cfg := testSourceConfig(t, server.URL, func(c *SourceConfig) { c.MaxDepth = 1 })
	spider := NewSpider(cfg, newTestFetcher(t, server), allowAllRobots{})

	docs, err := spider.Crawl(context.Background(), 0)
	if err != nil {
		t.Fatalf("Crawl() = %v, want nil", err)
	}
	// d0 sits at depth 1; d1 and level2.html sit at depth 2, beyond the cap.
	if len(docs) != 1 {
		t.Fatalf("harvested %d documents, want 1", len(docs))
	}
	if docs[0].Record.SourceURL != server.URL+"/d0.pdf" {
		t.Errorf("harvested %s, want /d0.pdf", docs[0].Record.SourceURL)
	}
	if n := counter.hitCount("/level2.html"); n != 0 {
		t.Errorf("/level2.html fetched %d times, want 0 (depth 2 > max 1)", n)
	}
}

func TestSpiderRespectsPageBudget(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/index.html", func(w http.ResponseWriter, _ *http.Request) {
		var b strings.Builder
		b.WriteString("<html><body>")
		for i := range 10 {
			fmt.Fprintf(&b, `<a href="/doc%d.pdf">Doc %d</a>`, i, i)
		}
		b.WriteString("</body></html>")
		fmt.Fprint(w, b.String())
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "pdf-bytes")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testSourceConfig(t, server.URL, nil)
	spider := NewSpider(cfg, newTestFetcher(t, server), allowAllRobots{})

	docs, err := spider.Crawl(context.Background(), 3)
	if err != nil {
		t.Fatalf("Crawl() = %v, want nil", err)
	}
	if len(docs) > 3 {
		t.Errorf("harvested %d documents, page budget is 3", len(docs))
	}
}

func TestSpiderRobotsDenied(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/index.html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/public/a.pdf">A</a>
			<a href="/private/b.pdf">B</a>
		</body></html>`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "pdf-bytes")
	})
	counter := newCountingHandler(mux)
	server := httptest.NewServer(counter)
	defer server.Close()

	cfg := testSourceConfig(t, server.URL, nil)
	spider := NewSpider(cfg, newTestFetcher(t, server), denyPathRobots{fragment: "/private/"})

	docs, err := spider.Crawl(context.Background(), 0)
	if err != nil {
		t.Fatalf("Crawl() = %v, want nil", err)
	}
	if len(docs) != 1 {
		t.Fatalf("harvested %d documents, want 1", len(docs))
	}
	if docs[0].Record.SourceURL != server.URL+"/public/a.pdf" {
		t.Errorf("harvested %s, want /public/a.pdf", docs[0].Record.SourceURL)
	}
	if n := counter.hitCount("/private/b.pdf"); n != 0 {
		t.Errorf("/private/b.pdf fetched %d times, want 0", n)
	}
}

func TestSpiderCancellation(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "pdf-bytes")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testSourceConfig(t, server.URL, nil)
	spider := NewSpider(cfg, newTestFetcher(t, server), allowAllRobots{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := spider.Crawl(ctx, 0); err != context.Canceled {
		t.Errorf("Crawl() error = %v, want context.Canceled", err)
	}
}

func TestSpiderConcurrentWorkers(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/index.html", func(w http.ResponseWriter, _ *http.Request) {
		var b strings.Builder
		b.WriteString("<html><body>")
		for i := range 20 {
			fmt.Fprintf(&b, `<a href="/doc%d.pdf">Doc %d</a>`, i, i)
		}
		b.WriteString("</body></html>")
		fmt.Fprint(w, b.String())
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "pdf-bytes")
	})
	counter := newCountingHandler(mux)
	server := httptest.NewServer(counter)
	defer server.Close()

	cfg := testSourceConfig(t, server.URL, nil)
	spider := NewSpider(cfg, newTestFetcher(t, server), allowAllRobots{}, WithWorkers(4))

	docs, err := spider.Crawl(context.Background(), 0)
	if err != nil {
		t.Fatalf("Crawl() = %v, want nil", err)
	}
	if len(docs) != 20 {
		t.Fatalf("harvested %d documents, want 20", len(docs))
	}
	// The visited set must hold under concurrent workers too.
	for i := range 20 {
		path := fmt.Sprintf("/doc%d.pdf", i)
		if n := counter.hitCount(path); n != 1 {
			t.Errorf("%s fetched %d times, want 1", path, n)
		}
	}
}
