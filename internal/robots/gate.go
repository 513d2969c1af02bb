package robots

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// maxRobotsSize bounds how much of a robots.txt file is read.
const maxRobotsSize = 512 * 1024

// Gate answers whether a URL may be crawled under its origin's robots.txt.
//
// A Gate is constructed per crawl session and passed by reference to all
// workers; there is no ambient global cache, so tests get fresh instances.
// It is safe for concurrent use.
type Gate struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger

	// mu guards rulesets. It is held across the robots.txt fetch so that
	// concurrent workers hitting the same origin trigger exactly one
	// request; origins are few and the fetch is one small file.
	mu sync.Mutex

	// rulesets caches parsed robots.txt per origin (scheme://host).
	// A nil value records a fail-open origin (fetch or parse failed).
	rulesets map[string]*robotstxt.RobotsData
}

// NewGate creates a Gate using the given HTTP client and user agent.
func NewGate(client *http.Client, userAgent string, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		client:    client,
		userAgent: userAgent,
		logger:    logger,
		rulesets:  make(map[string]*robotstxt.RobotsData),
	}
}

// IsAllowed reports whether the URL may be fetched by this crawler's user
// agent. Errors resolve to allow (see the package documentation).
func (g *Gate) IsAllowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		// An unparseable URL cannot be matched against any ruleset; the
		// fetch layer will reject it properly.
		return true
	}

	data := g.rulesetFor(ctx, u)
	if data == nil {
		return true
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return data.TestAgent(path, g.userAgent)
}

// rulesetFor returns the cached ruleset for the URL's origin, fetching
// robots.txt on first sight of the origin.
func (g *Gate) rulesetFor(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	origin := u.Scheme + "://" + u.Host

	g.mu.Lock()
	defer g.mu.Unlock()

	if data, ok := g.rulesets[origin]; ok {
		return data
	}

	data := g.fetchRuleset(ctx, origin)
	g.rulesets[origin] = data
	return data
}

// fetchRuleset retrieves and parses origin/robots.txt.
// Returns nil (fail-open) on any error or non-200 status.
func (g *Gate) fetchRuleset(ctx context.Context, origin string) *robotstxt.RobotsData {
	robotsURL := fmt.Sprintf("%s/robots.txt", origin)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		g.logger.Debug("robots request build failed, allowing", "origin", origin, "error", err)
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Debug("robots fetch failed, allowing", "origin", origin, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Debug("robots fetch non-200, allowing", "origin", origin, "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		g.logger.Debug("robots read failed, allowing", "origin", origin, "error", err)
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		g.logger.Debug("robots parse failed, allowing", "origin", origin, "error", err)
		return nil
	}
	return data
}
