// Package linkrank orders discovered URLs by expected contact yield so crawl
// budget is spent on the pages most likely to carry people and contact
// information. A deterministic heuristic provides the baseline order; an
// optional LLM pass can refine it.
package linkrank

import (
	"net/url"
	"sort"
	"strings"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// RankedLink pairs a normalized URL with its heuristic score.
type RankedLink struct {
	URL   string `json:"url"`
	Score int    `json:"score"`
}

// Request carries everything a ranking pass needs: the candidate URLs, the
// ICP context, and the set of URLs already visited during this job.
type Request struct {
	Domain  string
	URLs    []string
	ICP     model.ICPConfig
	Visited map[string]bool
}

// Policy holds the heuristic point values. Contact pages weigh highest
// because they are the most reliable source of emails and phone numbers;
// product and storefront pages rarely carry contact info.
type Policy struct {
	ContactPoints   int `yaml:"contact_points" mapstructure:"contact_points"`
	TeamPoints      int `yaml:"team_points" mapstructure:"team_points"`
	AboutPoints     int `yaml:"about_points" mapstructure:"about_points"`
	StaffPoints     int `yaml:"staff_points" mapstructure:"staff_points"`
	CareersPoints   int `yaml:"careers_points" mapstructure:"careers_points"`
	PressPoints     int `yaml:"press_points" mapstructure:"press_points"`
	BlogPoints      int `yaml:"blog_points" mapstructure:"blog_points"`
	GenericPoints   int `yaml:"generic_points" mapstructure:"generic_points"`
	AssetPenalty    int `yaml:"asset_penalty" mapstructure:"asset_penalty"`
	ProductPenalty  int `yaml:"product_penalty" mapstructure:"product_penalty"`
	LoginPenalty    int `yaml:"login_penalty" mapstructure:"login_penalty"`
	CTAPenalty      int `yaml:"cta_penalty" mapstructure:"cta_penalty"`
	LegalPenalty    int `yaml:"legal_penalty" mapstructure:"legal_penalty"`
	FAQPenalty      int `yaml:"faq_penalty" mapstructure:"faq_penalty"`
	VisitedPenalty  int `yaml:"visited_penalty" mapstructure:"visited_penalty"`
	ICPTokenPoints  int `yaml:"icp_token_points" mapstructure:"icp_token_points"`
	RefinementLimit int `yaml:"refinement_limit" mapstructure:"refinement_limit"`
}

// DefaultPolicy returns the production heuristic weights.
func DefaultPolicy() Policy {
	return Policy{
		ContactPoints:   18,
		TeamPoints:      15,
		AboutPoints:     12,
		StaffPoints:     12,
		CareersPoints:   10,
		PressPoints:     8,
		BlogPoints:      5,
		GenericPoints:   3,
		AssetPenalty:    25,
		ProductPenalty:  12,
		LoginPenalty:    10,
		CTAPenalty:      10,
		LegalPenalty:    8,
		FAQPenalty:      6,
		VisitedPenalty:  50,
		ICPTokenPoints:  2,
		RefinementLimit: 25,
	}
}

var (
	contactKeywords = []string{"contact-us", "contactus", "contact", "get-in-touch", "reach-us"}
	teamKeywords    = []string{"team", "leadership", "our-people", "our-team", "management", "founders", "executives"}
	aboutKeywords   = []string{"about-us", "aboutus", "about", "who-we-are", "company", "our-story", "mission"}
	staffKeywords   = []string{"staff", "directory", "people", "employees", "attorneys", "agents", "providers"}
	careersKeywords = []string{"careers", "jobs", "join-us", "join-our-team", "hiring", "work-with-us"}
	pressKeywords   = []string{"press", "news", "media", "newsroom", "announcements"}
	blogKeywords    = []string{"blog", "insights", "articles", "resources", "updates"}
	genericKeywords = []string{"phone", "email", "address", "location", "office"}

	assetExtensions = []string{
		".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico",
		".pdf", ".css", ".js", ".woff", ".woff2", ".ttf",
		".mp4", ".mp3", ".webm", ".avi", ".mov", ".zip",
	}
	productKeywords = []string{"product", "products", "shop", "store", "catalog", "collections", "pricing", "cart", "checkout", "sku"}
	loginKeywords   = []string{"login", "log-in", "signin", "sign-in", "signup", "sign-up", "register", "account", "portal", "password"}
	ctaKeywords     = []string{"newsletter", "subscribe", "unsubscribe", "age-verification", "free-trial", "demo-request", "webinar"}
	legalKeywords   = []string{"privacy", "terms", "legal", "cookie", "disclaimer", "accessibility", "gdpr"}
	faqKeywords     = []string{"faq", "faqs", "help-center", "support-center", "knowledge-base"}
)

// BaseRanker is the deterministic heuristic ranker. It never fails and
// always returns a permutation of the (normalized, deduplicated) input.
type BaseRanker struct {
	policy Policy
}

// NewBaseRanker creates a BaseRanker with the given policy.
func NewBaseRanker(policy Policy) *BaseRanker {
	return &BaseRanker{policy: policy}
}

// Rank normalizes and deduplicates the request's URLs, scores each one, and
// returns them sorted by score descending. Ties keep input order.
func (r *BaseRanker) Rank(req Request) []RankedLink {
	normalized := NormalizeAll(req.URLs)

	ranked := make([]RankedLink, 0, len(normalized))
	for _, u := range normalized {
		ranked = append(ranked, RankedLink{URL: u, Score: r.ScoreURL(u, req)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// ScoreURL computes the heuristic score for one normalized URL.
func (r *BaseRanker) ScoreURL(u string, req Request) int {
	lower := strings.ToLower(u)
	path := urlPath(lower)
	score := 0

	if containsAny(path, contactKeywords...) {
		score += r.policy.ContactPoints
	}
	if containsAny(path, teamKeywords...) {
		score += r.policy.TeamPoints
	}
	if containsAny(path, aboutKeywords...) {
		score += r.policy.AboutPoints
	}
	if containsAny(path, staffKeywords...) {
		score += r.policy.StaffPoints
	}
	if containsAny(path, careersKeywords...) {
		score += r.policy.CareersPoints
	}
	if containsAny(path, pressKeywords...) {
		score += r.policy.PressPoints
	}
	if containsAny(path, blogKeywords...) {
		score += r.policy.BlogPoints
	}
	if containsAny(path, genericKeywords...) {
		score += r.policy.GenericPoints
	}

	if hasAssetExtension(path) {
		score -= r.policy.AssetPenalty
	}
	if containsAny(path, productKeywords...) {
		score -= r.policy.ProductPenalty
	}
	if containsAny(path, loginKeywords...) {
		score -= r.policy.LoginPenalty
	}
	if containsAny(path, ctaKeywords...) {
		score -= r.policy.CTAPenalty
	}
	if containsAny(path, legalKeywords...) {
		score -= r.policy.LegalPenalty
	}
	if containsAny(path, faqKeywords...) {
		score -= r.policy.FAQPenalty
	}

	// Near-exclusion rather than a hard skip: a revisit via a different
	// query string should still lose to every unvisited page.
	if req.Visited[u] {
		score -= r.policy.VisitedPenalty
	}

	for _, token := range icpTokens(req.ICP) {
		if strings.Contains(path, token) {
			score += r.policy.ICPTokenPoints
		}
	}

	return score
}

// Normalize canonicalizes a URL to scheme://host(lowercased)/path?query.
// Invalid URLs come back unchanged so dedupe still sees them consistently.
func Normalize(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return strings.TrimSpace(raw)
	}
	out := strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host) + parsed.Path
	if parsed.RawQuery != "" {
		out += "?" + parsed.RawQuery
	}
	return out
}

// NormalizeAll normalizes every URL and drops duplicates, preserving first
// occurrence order.
func NormalizeAll(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, raw := range urls {
		u := Normalize(raw)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

func urlPath(u string) string {
	rest := u
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[i:]
	}
	return "/"
}

func hasAssetExtension(path string) bool {
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	for _, ext := range assetExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func icpTokens(icp model.ICPConfig) []string {
	var tokens []string
	for _, list := range [][]string{icp.Geographies, icp.Industries} {
		for _, item := range list {
			for _, f := range strings.Fields(strings.ToLower(item)) {
				if len(f) >= 3 {
					tokens = append(tokens, f)
				}
			}
		}
	}
	return tokens
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
