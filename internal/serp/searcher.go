// Package serp turns an ICP profile into web-search queries and harvests
// candidate company domains from the organic results.
package serp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/crawl"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

// Result summarizes one SERP stage run.
type Result struct {
	CreatedCandidates int
	SourceEvents      int
	UniqueDomains     int
}

// Searcher runs ICP-derived queries against a search API and persists the
// resulting candidate companies.
type Searcher struct {
	client  serper.Client
	store   store.Store
	limiter *rate.Limiter
	breaker *resilience.Breaker

	maxQueries      int
	resultsPerQuery int
	defaultMaxLeads int
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithRateLimit overrides the default 1 query/sec limit.
func WithRateLimit(perSecond float64) Option {
	return func(s *Searcher) {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithMaxQueries caps how many distinct queries one stage run issues.
func WithMaxQueries(n int) Option {
	return func(s *Searcher) {
		s.maxQueries = n
	}
}

// NewSearcher creates a Searcher over a search client and a store.
func NewSearcher(client serper.Client, st store.Store, opts ...Option) *Searcher {
	s := &Searcher{
		client:          client,
		store:           st,
		limiter:         rate.NewLimiter(rate.Limit(1), 1),
		breaker:         resilience.NewBreaker(5, 30*time.Second),
		maxQueries:      20,
		resultsPerQuery: 20,
		defaultMaxLeads: 50,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search issues queries built from the pool's ICP and upserts a candidate
// per unique result domain. Every issued query is recorded as a source
// event. Already-seen and excluded domains are skipped.
func (s *Searcher) Search(ctx context.Context, job *model.LeadGenJob) (*Result, error) {
	pool, err := s.store.GetPool(ctx, job.PoolID)
	if err != nil {
		return nil, eris.Wrap(err, "serp: load pool")
	}

	icp := model.ICPConfig{}
	if pool.ICP != nil {
		icp = *pool.ICP
	}

	maxLeads := icp.MaxCompanies
	if maxLeads <= 0 {
		maxLeads = s.defaultMaxLeads
	}

	queries := BuildQueries(icp, s.maxQueries)
	if len(queries) == 0 {
		zap.L().Warn("serp: no queries derivable from ICP", zap.String("pool_id", pool.ID))
		return &Result{}, nil
	}

	excluded := make(map[string]bool, len(icp.ExcludedDomains))
	for _, d := range icp.ExcludedDomains {
		excluded[strings.ToLower(strings.TrimSpace(d))] = true
	}

	seen := make(map[string]bool)
	res := &Result{}

	for _, q := range queries {
		if res.CreatedCandidates >= maxLeads {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return res, eris.Wrap(err, "serp: rate wait")
		}

		resp, err := resilience.Call(ctx, s.breaker, func(ctx context.Context) (*serper.SearchResponse, error) {
			return s.client.Search(ctx, q, serper.WithNum(s.resultsPerQuery))
		})
		if eris.Is(err, resilience.ErrBreakerOpen) {
			zap.L().Warn("serp: search provider circuit open, stopping early")
			break
		}
		if err != nil {
			// One failed query should not kill the stage.
			zap.L().Warn("serp: query failed", zap.String("query", q), zap.Error(err))
			continue
		}

		if err := s.store.RecordSourceEvent(ctx, &model.SourceEvent{
			JobID:  job.ID,
			Kind:   "serp_query",
			Target: q,
			Detail: fmt.Sprintf("%d organic results", len(resp.Organic)),
		}); err != nil {
			zap.L().Warn("serp: record source event failed", zap.Error(err))
		} else {
			res.SourceEvents++
		}

		for _, org := range resp.Organic {
			if res.CreatedCandidates >= maxLeads {
				break
			}
			domain := crawl.DomainOf(org.Link)
			if domain == "" || seen[domain] || isExcluded(domain, excluded) {
				continue
			}
			seen[domain] = true

			_, err := s.store.UpsertCandidate(ctx, &model.LeadCandidate{
				PoolID:      pool.ID,
				JobID:       job.ID,
				Domain:      domain,
				Name:        cleanTitle(org.Title),
				Description: org.Snippet,
			})
			if err != nil {
				zap.L().Warn("serp: upsert candidate failed",
					zap.String("domain", domain), zap.Error(err))
				continue
			}
			res.CreatedCandidates++
		}
	}

	res.UniqueDomains = len(seen)
	zap.L().Info("serp: stage complete",
		zap.Int("queries", len(queries)),
		zap.Int("candidates", res.CreatedCandidates),
		zap.Int("unique_domains", res.UniqueDomains),
	)
	return res, nil
}

// BuildQueries derives search queries from an ICP: industry x geography
// cross product first, then industry-only and tech-stack fallbacks.
func BuildQueries(icp model.ICPConfig, limit int) []string {
	var queries []string
	add := func(q string) {
		if limit > 0 && len(queries) >= limit {
			return
		}
		queries = append(queries, q)
	}

	for _, ind := range icp.Industries {
		if len(icp.Geographies) == 0 {
			add(fmt.Sprintf("%s companies", strings.ToLower(ind)))
			continue
		}
		for _, geo := range icp.Geographies {
			add(fmt.Sprintf("%s companies in %s", strings.ToLower(ind), geo))
		}
	}
	for _, tech := range icp.TechStack {
		add(fmt.Sprintf("companies using %s", tech))
	}
	return queries
}

// isExcluded matches the scoring engine's substring semantics so SERP never
// creates a candidate that scoring would immediately exclude.
func isExcluded(domain string, excluded map[string]bool) bool {
	if excluded[domain] {
		return true
	}
	for ex := range excluded {
		if ex != "" && strings.Contains(domain, ex) {
			return true
		}
	}
	return false
}

// cleanTitle strips common SERP title suffixes like " - Home" or " | Acme".
func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	for _, sep := range []string{" | ", " - ", " – "} {
		if i := strings.Index(title, sep); i > 0 {
			title = title[:i]
		}
	}
	return strings.TrimSpace(title)
}
