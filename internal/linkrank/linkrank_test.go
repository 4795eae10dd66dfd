package linkrank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HTTPS://Acme.COM/Contact-Us", "https://acme.com/Contact-Us"},
		{"https://acme.com/about?ref=nav", "https://acme.com/about?ref=nav"},
		{"  https://acme.com/team  ", "https://acme.com/team"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestNormalizeAll_Dedupes(t *testing.T) {
	urls := []string{
		"https://ACME.com/contact",
		"https://acme.com/contact",
		"https://acme.com/about",
	}
	out := NormalizeAll(urls)
	require.Len(t, out, 2)
	assert.Equal(t, "https://acme.com/contact", out[0])
	assert.Equal(t, "https://acme.com/about", out[1])
}

func TestBaseRanker_ContactBeatsProduct(t *testing.T) {
	r := NewBaseRanker(DefaultPolicy())
	ranked := r.Rank(Request{
		Domain: "acme.com",
		URLs: []string{
			"https://acme.com/products/widget",
			"https://acme.com/contact-us",
		},
	})
	require.Len(t, ranked, 2)
	assert.Equal(t, "https://acme.com/contact-us", ranked[0].URL)
	assert.Equal(t, "https://acme.com/products/widget", ranked[1].URL)
	assert.Greater(t, ranked[0].Score, 0)
	assert.Less(t, ranked[1].Score, 0)
}

func TestBaseRanker_CategoryScores(t *testing.T) {
	r := NewBaseRanker(DefaultPolicy())
	req := Request{Domain: "acme.com"}

	tests := []struct {
		url  string
		want int
	}{
		{"https://acme.com/contact-us", 18},
		{"https://acme.com/leadership", 15},
		{"https://acme.com/careers", 10},
		{"https://acme.com/blog", 5},
		{"https://acme.com/logo.png", -25},
		{"https://acme.com/login", -10},
		{"https://acme.com/privacy", -8},
		{"https://acme.com/faq", -6},
		{"https://acme.com/subscribe", -10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.ScoreURL(tt.url, req), tt.url)
	}
}

func TestBaseRanker_VisitedNearExclusion(t *testing.T) {
	r := NewBaseRanker(DefaultPolicy())
	req := Request{
		Domain:  "acme.com",
		Visited: map[string]bool{"https://acme.com/contact-us": true},
	}

	visited := r.ScoreURL("https://acme.com/contact-us", req)
	fresh := r.ScoreURL("https://acme.com/logo.png", req)

	// A visited contact page (18-50) still loses to an unvisited asset (-25).
	assert.Equal(t, -32, visited)
	assert.Greater(t, fresh, visited)
}

func TestBaseRanker_ICPTokenBoost(t *testing.T) {
	r := NewBaseRanker(DefaultPolicy())
	icp := model.ICPConfig{Geographies: []string{"Toronto"}, Industries: []string{"Roofing"}}

	plain := r.ScoreURL("https://acme.com/blog/post", Request{})
	boosted := r.ScoreURL("https://acme.com/blog/toronto-roofing-post", Request{ICP: icp})

	assert.Equal(t, plain+4, boosted)
}

func TestBaseRanker_Deterministic(t *testing.T) {
	r := NewBaseRanker(DefaultPolicy())
	req := Request{
		Domain: "acme.com",
		URLs: []string{
			"https://acme.com/about",
			"https://acme.com/team",
			"https://acme.com/contact",
			"https://acme.com/blog",
			"https://acme.com/shop",
		},
	}

	first := r.Rank(req)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Rank(req))
	}
}

func TestBaseRanker_ReturnsPermutation(t *testing.T) {
	r := NewBaseRanker(DefaultPolicy())
	urls := []string{
		"https://acme.com/a",
		"https://acme.com/b.png",
		"https://acme.com/contact",
	}
	ranked := r.Rank(Request{URLs: urls})
	require.Len(t, ranked, len(urls))

	got := make(map[string]bool)
	for _, l := range ranked {
		got[l.URL] = true
	}
	for _, u := range urls {
		assert.True(t, got[u], u)
	}
}
