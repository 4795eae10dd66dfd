package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCrawler(srv *httptest.Server) *Crawler {
	return NewCrawler(
		WithHTTPClient(srv.Client()),
		WithRequestsPerSecond(1000),
	)
}

func TestFetchPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "LeadGenBot")
		fmt.Fprint(w, `<html><head><title> Acme Roofing </title></head><body>hi</body></html>`)
	}))
	defer srv.Close()

	page, err := newTestCrawler(srv).FetchPage(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Equal(t, "Acme Roofing", page.Title)
	assert.Contains(t, page.HTML, "<body>hi</body>")
}

func TestFetchPage_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	page, err := newTestCrawler(srv).FetchPage(context.Background(), srv.URL+"/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, page.StatusCode)
	assert.Empty(t, page.HTML)
}

func TestDiscoverLinks_FollowsSameHostOnly(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			fmt.Fprintf(w, `<html><body>
				<a href="/about">About</a>
				<a href="/contact">Contact</a>
				<a href="https://external.example.com/page">External</a>
				<a href="#section">Anchor</a>
				<a href="mailto:hi@acme.com">Mail</a>
				<a href="javascript:void(0)">JS</a>
			</body></html>`)
		case "/about":
			fmt.Fprintf(w, `<a href="%s/team">Team</a>`, srv.URL)
		default:
			fmt.Fprint(w, `<html><body>leaf</body></html>`)
		}
	}))
	defer srv.Close()

	urls, err := newTestCrawler(srv).DiscoverLinks(context.Background(), srv.URL, 10, 3)
	require.NoError(t, err)

	assert.Contains(t, urls, srv.URL+"/")
	assert.Contains(t, urls, srv.URL+"/about")
	assert.Contains(t, urls, srv.URL+"/contact")
	assert.Contains(t, urls, srv.URL+"/team")
	for _, u := range urls {
		assert.NotContains(t, u, "external.example.com")
		assert.NotContains(t, u, "mailto")
	}
}

func TestDiscoverLinks_RespectsMaxPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Every page links to three new ones.
		for i := 0; i < 3; i++ {
			fmt.Fprintf(w, `<a href="%s-%d">next</a>`, r.URL.Path, i)
		}
	}))
	defer srv.Close()

	urls, err := newTestCrawler(srv).DiscoverLinks(context.Background(), srv.URL, 8, 5)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(urls), 8)
	assert.GreaterOrEqual(t, len(urls), 1)
}

func TestDiscoverLinks_SeedsFromSitemap(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			fmt.Fprintf(w, `<?xml version="1.0"?>
				<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
					<url><loc>%s/services</loc></url>
					<url><loc>%s/pricing</loc></url>
					<url><loc>https://other.example.com/ignored</loc></url>
				</urlset>`, srv.URL, srv.URL)
		default:
			fmt.Fprint(w, `<html><body>no links</body></html>`)
		}
	}))
	defer srv.Close()

	urls, err := newTestCrawler(srv).DiscoverLinks(context.Background(), srv.URL, 10, 2)
	require.NoError(t, err)
	assert.Contains(t, urls, srv.URL+"/services")
	assert.Contains(t, urls, srv.URL+"/pricing")
	assert.NotContains(t, urls, "https://other.example.com/ignored")
}

func TestNormalizeSite(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"acme.com", "https://acme.com/"},
		{"http://acme.com", "http://acme.com/"},
		{"https://acme.com/about", "https://acme.com/about"},
	}
	for _, tt := range tests {
		got, err := NormalizeSite(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "acme.com", DomainOf("https://www.acme.com/about?x=1"))
	assert.Equal(t, "acme.com", DomainOf("ACME.com"))
	assert.Equal(t, "acme.co.uk", DomainOf("www.acme.co.uk/path"))
}
