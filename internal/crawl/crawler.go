// Package crawl discovers and fetches pages on a candidate company's site.
// It stays on the target host, respects a global request rate, and hands
// discovered URLs to the link ranker for crawl-budget ordering.
package crawl

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (compatible; LeadGenBot/1.0)"

// Page is one fetched page: parsed title plus raw HTML for extraction.
type Page struct {
	URL        string
	Title      string
	HTML       string
	StatusCode int
}

// Crawler fetches pages and discovers same-host links.
type Crawler struct {
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures the crawler.
type Option func(*Crawler)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Crawler) {
		c.http = hc
	}
}

// WithRequestsPerSecond sets the politeness rate limit across all requests.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Crawler) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewCrawler creates a Crawler with sane timeouts and a 2 req/s limit.
func NewCrawler(opts ...Option) *Crawler {
	c := &Crawler{
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPage fetches one page and parses its title. Bodies are capped at
// 512KB; non-200 responses return the status code with empty content.
func (c *Crawler) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	body, status, err := c.get(ctx, pageURL, 512*1024)
	if err != nil {
		return nil, eris.Wrapf(err, "crawl: fetch %s", pageURL)
	}

	page := &Page{URL: pageURL, StatusCode: status}
	if status != http.StatusOK {
		return page, nil
	}
	page.HTML = string(body)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		// Unparseable HTML still carries usable text for regex extraction.
		zap.L().Debug("crawl: parse failed", zap.String("url", pageURL), zap.Error(err))
		return page, nil
	}
	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	return page, nil
}

// DiscoverLinks crawls a site breadth-first up to maxPages and maxDepth,
// seeding from sitemap.xml when one exists. Returns deduplicated same-host
// URLs in discovery order.
func (c *Crawler) DiscoverLinks(ctx context.Context, rawURL string, maxPages, maxDepth int) ([]string, error) {
	start, err := NormalizeSite(rawURL)
	if err != nil {
		return nil, eris.Wrap(err, "crawl: parse url")
	}
	base, err := url.Parse(start)
	if err != nil {
		return nil, eris.Wrap(err, "crawl: parse base url")
	}

	seen := map[string]bool{start: true}
	var urls []string

	type crawlItem struct {
		url   string
		depth int
	}
	queue := []crawlItem{{url: start, depth: 0}}

	// Seed from the sitemap if one exists.
	seeded := 0
	for _, su := range c.fetchSitemapURLs(ctx, base.Scheme+"://"+base.Host+"/sitemap.xml", base) {
		if seen[su] || len(queue) >= maxPages {
			continue
		}
		seen[su] = true
		queue = append(queue, crawlItem{url: su, depth: 1})
		seeded++
	}
	if seeded > 0 {
		zap.L().Debug("crawl: seeded urls from sitemap",
			zap.Int("count", seeded),
			zap.String("host", base.Host),
		)
	}

	var mu sync.Mutex

	for {
		mu.Lock()
		if len(queue) == 0 || len(urls) >= maxPages {
			mu.Unlock()
			break
		}

		// Drain up to 5 items for parallel fetching.
		var batch []crawlItem
		for len(batch) < 5 && len(queue) > 0 && len(urls) < maxPages {
			item := queue[0]
			queue = queue[1:]
			urls = append(urls, item.url)
			if item.depth < maxDepth {
				batch = append(batch, item)
			}
		}
		mu.Unlock()

		if len(batch) == 0 {
			continue
		}

		// Fresh errgroup per batch so the derived context is not cancelled
		// between iterations.
		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(5)

		for _, item := range batch {
			g.Go(func() error {
				select {
				case <-gCtx.Done():
					return nil
				default:
				}

				links, err := c.extractLinks(gCtx, item.url, base)
				if err != nil {
					zap.L().Debug("crawl: error extracting links",
						zap.String("url", item.url),
						zap.Error(err),
					)
					return nil
				}

				mu.Lock()
				for _, link := range links {
					if seen[link] || len(urls)+len(queue) >= maxPages {
						continue
					}
					seen[link] = true
					queue = append(queue, crawlItem{url: link, depth: item.depth + 1})
				}
				mu.Unlock()
				return nil
			})
		}

		_ = g.Wait()
	}

	return urls, nil
}

// sitemapURLSet represents a basic sitemap.xml <urlset> document.
type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	URLs    []sitemapLoc `xml:"url"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// fetchSitemapURLs fetches and parses a sitemap.xml, returning same-host
// URLs. Sitemap index files (<sitemapindex>) are not followed.
func (c *Crawler) fetchSitemapURLs(ctx context.Context, sitemapURL string, base *url.URL) []string {
	body, status, err := c.get(ctx, sitemapURL, 2*1024*1024)
	if err != nil || status != http.StatusOK {
		return nil
	}

	var urlSet sitemapURLSet
	if err := xml.Unmarshal(body, &urlSet); err != nil {
		return nil
	}

	var urls []string
	for _, entry := range urlSet.URLs {
		loc := strings.TrimSpace(entry.Loc)
		if loc == "" {
			continue
		}
		u, err := url.Parse(loc)
		if err != nil || u.Host != base.Host {
			continue
		}
		urls = append(urls, loc)
	}
	return urls
}

func (c *Crawler) extractLinks(ctx context.Context, pageURL string, base *url.URL) ([]string, error) {
	body, status, err := c.get(ctx, pageURL, 512*1024)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "parse html")
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "tel:") {
			return
		}

		resolved, err := url.Parse(href)
		if err != nil {
			return
		}
		absolute := base.ResolveReference(resolved)
		if absolute.Host != base.Host {
			return
		}

		absolute.Fragment = ""
		normalized := absolute.String()
		if !seen[normalized] {
			seen[normalized] = true
			links = append(links, normalized)
		}
	})
	return links, nil
}

// get performs one rate-limited GET with the crawler's user agent.
func (c *Crawler) get(ctx context.Context, rawURL string, maxBytes int64) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, eris.Wrap(err, "rate wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, resp.StatusCode, eris.Wrap(err, "read body")
	}
	return body, resp.StatusCode, nil
}

// NormalizeSite ensures a scheme and a path on a site URL.
func NormalizeSite(raw string) (string, error) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// DomainOf extracts the bare host (without www.) from a URL or domain string.
func DomainOf(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimPrefix(s, "www.")
}
