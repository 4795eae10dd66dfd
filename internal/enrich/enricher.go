// Package enrich visits each candidate company's website and fills in the
// fields ICP scoring needs: contacts, emails, tech stack, and language.
package enrich

import (
	"context"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/crawl"
	"github.com/sells-group/leadgen-cli/internal/linkrank"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/normalize"
	"github.com/sells-group/leadgen-cli/internal/persona"
	"github.com/sells-group/leadgen-cli/internal/store"
)

// Result summarizes one enrichment stage run.
type Result struct {
	Enriched        int
	Failed          int
	ContactsCreated int
	SourceEvents    int
}

// Crawler is the page-discovery surface the enricher needs.
type Crawler interface {
	DiscoverLinks(ctx context.Context, rawURL string, maxPages, maxDepth int) ([]string, error)
	FetchPage(ctx context.Context, pageURL string) (*crawl.Page, error)
}

// LinkRanker orders discovered URLs by expected contact-info yield.
type LinkRanker interface {
	Rank(ctx context.Context, req linkrank.Request) []linkrank.RankedLink
}

// Enricher crawls candidate sites with a fixed page budget, ordered by the
// link ranker, and persists what it finds.
type Enricher struct {
	crawler Crawler
	ranker  LinkRanker
	store   store.Store

	pagesPerSite  int
	discoverPages int
	maxDepth      int
	concurrency   int
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithPageBudget sets how many ranked pages get fetched per site.
func WithPageBudget(n int) Option {
	return func(e *Enricher) {
		e.pagesPerSite = n
	}
}

// WithConcurrency bounds how many candidates are enriched in parallel.
func WithConcurrency(n int) Option {
	return func(e *Enricher) {
		e.concurrency = n
	}
}

// WithDiscoveryLimits bounds link discovery per site. Non-positive values
// keep the defaults.
func WithDiscoveryLimits(pages, depth int) Option {
	return func(e *Enricher) {
		if pages > 0 {
			e.discoverPages = pages
		}
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// NewEnricher creates an Enricher with a 5-page budget per site and 3
// candidates in flight.
func NewEnricher(crawler Crawler, ranker LinkRanker, st store.Store, opts ...Option) *Enricher {
	e := &Enricher{
		crawler:       crawler,
		ranker:        ranker,
		store:         st,
		pagesPerSite:  5,
		discoverPages: 30,
		maxDepth:      2,
		concurrency:   3,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich processes up to limit of the job's candidates concurrently. A
// failed candidate is counted and skipped; the stage itself only fails on
// pool lookup or context cancellation.
func (e *Enricher) Enrich(ctx context.Context, job *model.LeadGenJob, limit int) (*Result, error) {
	pool, err := e.store.GetPool(ctx, job.PoolID)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: load pool")
	}
	icp := model.ICPConfig{}
	if pool.ICP != nil {
		icp = *pool.ICP
	}

	candidates, err := e.store.ListCandidates(ctx, store.CandidateFilter{
		PoolID: pool.ID,
		JobID:  job.ID,
		Limit:  limit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "enrich: list candidates")
	}

	// Seed the visited set with pages already fetched for this job so a
	// rerun spends its budget on fresh URLs.
	visited := newVisitedSet()
	if prior, err := e.store.ListSourceEvents(ctx, job.ID); err != nil {
		zap.L().Warn("enrich: load prior source events failed", zap.Error(err))
	} else {
		for _, ev := range prior {
			if ev.Kind == "page_crawl" {
				visited.add(linkrank.Normalize(ev.Target))
			}
		}
	}

	res := &Result{}
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range candidates {
		cand := candidates[i]
		g.Go(func() error {
			contacts, events, err := e.enrichOne(gCtx, job, &cand, icp, visited)
			mu.Lock()
			defer mu.Unlock()
			res.SourceEvents += events
			if err != nil {
				res.Failed++
				zap.L().Warn("enrich: candidate failed",
					zap.String("domain", cand.Domain), zap.Error(err))
				return nil
			}
			res.Enriched++
			res.ContactsCreated += contacts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, eris.Wrap(err, "enrich: wait")
	}

	zap.L().Info("enrich: stage complete",
		zap.Int("enriched", res.Enriched),
		zap.Int("failed", res.Failed),
		zap.Int("contacts", res.ContactsCreated),
	)
	return res, nil
}

// enrichOne crawls one candidate's site and persists the merged findings.
// Returns the number of contacts created and source events recorded.
func (e *Enricher) enrichOne(ctx context.Context, job *model.LeadGenJob, cand *model.LeadCandidate, icp model.ICPConfig, visited *visitedSet) (int, int, error) {
	links, err := e.crawler.DiscoverLinks(ctx, "https://"+cand.Domain, e.discoverPages, e.maxDepth)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "discover links for %s", cand.Domain)
	}

	ranked := e.ranker.Rank(ctx, linkrank.Request{
		Domain:  cand.Domain,
		URLs:    links,
		ICP:     icp,
		Visited: visited.snapshot(),
	})
	if len(ranked) > e.pagesPerSite {
		ranked = ranked[:e.pagesPerSite]
	}

	merged := PageFacts{}
	var pageEvents []model.SourceEvent
	fetched := 0
	for _, link := range ranked {
		page, err := e.crawler.FetchPage(ctx, link.URL)
		if err != nil {
			zap.L().Debug("enrich: fetch failed", zap.String("url", link.URL), zap.Error(err))
			continue
		}
		visited.add(link.URL)
		pageEvents = append(pageEvents, model.SourceEvent{
			JobID:  job.ID,
			Kind:   "page_crawl",
			Target: link.URL,
		})
		if page.StatusCode != 200 || page.HTML == "" {
			continue
		}
		fetched++
		mergeFacts(&merged, ExtractFacts(page.HTML))
	}

	events := len(pageEvents)
	if err := e.store.RecordSourceEvents(ctx, pageEvents); err != nil {
		zap.L().Warn("enrich: record source events failed",
			zap.String("domain", cand.Domain), zap.Error(err))
		events = 0
	}
	if fetched == 0 {
		return 0, events, eris.Errorf("no pages fetched for %s", cand.Domain)
	}

	update := &model.LeadCandidate{
		PoolID:    cand.PoolID,
		JobID:     job.ID,
		Domain:    cand.Domain,
		TechStack: merged.TechStack,
		Language:  merged.Language,
	}
	if len(merged.Emails) > 0 {
		update.Email = merged.Emails[0]
	}
	if _, err := e.store.UpsertCandidate(ctx, update); err != nil {
		return 0, events, eris.Wrapf(err, "upsert %s", cand.Domain)
	}

	created := e.saveContacts(ctx, cand, merged, icp)
	return created, events, nil
}

// visitedSet tracks URLs fetched for a job so the ranker can push pages
// seen on earlier passes to the bottom of the budget. Safe for concurrent
// use by the per-candidate goroutines.
type visitedSet struct {
	mu   sync.Mutex
	urls map[string]bool
}

func newVisitedSet() *visitedSet {
	return &visitedSet{urls: make(map[string]bool)}
}

func (v *visitedSet) add(u string) {
	v.mu.Lock()
	v.urls[u] = true
	v.mu.Unlock()
}

func (v *visitedSet) snapshot() map[string]bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]bool, len(v.urls))
	for u := range v.urls {
		out[u] = true
	}
	return out
}

// saveContacts sanitizes and persists extracted contacts up to the ICP's
// per-company cap. Rejected or failing contacts are skipped quietly.
func (e *Enricher) saveContacts(ctx context.Context, cand *model.LeadCandidate, facts PageFacts, icp model.ICPConfig) int {
	maxContacts := icp.MaxContactsPerCo
	if maxContacts <= 0 {
		maxContacts = 5
	}

	created := 0
	for _, raw := range facts.Contacts {
		if created >= maxContacts {
			break
		}
		contact := normalize.SanitizeContact(raw)
		if contact == nil {
			continue
		}

		title := contact.Title
		if nt := persona.Classify(title); nt != nil {
			title = nt.NormalizedTitle
		}

		_, err := e.store.CreateContact(ctx, &model.ContactCandidate{
			CandidateID: cand.ID,
			Name:        contact.Name,
			Email:       contact.Email,
			Phone:       contact.Phone,
			Title:       title,
			LinkedInURL: contact.LinkedIn,
		})
		if err != nil {
			zap.L().Warn("enrich: create contact failed",
				zap.String("domain", cand.Domain), zap.Error(err))
			continue
		}
		created++
	}
	return created
}

// mergeFacts folds one page's facts into the site-level accumulator,
// deduplicating case-insensitively and keeping first-seen order.
func mergeFacts(dst *PageFacts, src PageFacts) {
	dst.Emails = appendUnique(dst.Emails, src.Emails)
	dst.Phones = appendUnique(dst.Phones, src.Phones)
	dst.TechStack = appendUnique(dst.TechStack, src.TechStack)
	if dst.Language == "" {
		dst.Language = src.Language
	}
	for _, c := range src.Contacts {
		if !containsContact(dst.Contacts, c) {
			dst.Contacts = append(dst.Contacts, c)
		}
	}
}

func appendUnique(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[strings.ToLower(s)] = true
	}
	for _, s := range src {
		if !seen[strings.ToLower(s)] {
			seen[strings.ToLower(s)] = true
			dst = append(dst, s)
		}
	}
	return dst
}

func containsContact(list []normalize.RawContact, c normalize.RawContact) bool {
	for _, existing := range list {
		if strings.EqualFold(existing.Name, c.Name) && strings.EqualFold(existing.Email, c.Email) {
			return true
		}
	}
	return false
}
