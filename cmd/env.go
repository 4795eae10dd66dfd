package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/crawl"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/icp"
	"github.com/sells-group/leadgen-cli/internal/leadgen"
	"github.com/sells-group/leadgen-cli/internal/linkrank"
	"github.com/sells-group/leadgen-cli/internal/serp"
	"github.com/sells-group/leadgen-cli/internal/store"
	anthropicpkg "github.com/sells-group/leadgen-cli/pkg/anthropic"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

// pipelineEnv holds the initialized store and orchestrator shared by the
// run and serve commands.
type pipelineEnv struct {
	Store        store.Store
	Orchestrator *leadgen.Orchestrator
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.SQLitePath)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initPipeline wires the store, API clients, and orchestrator. Stages whose
// credentials are missing are skipped with a warning instead of failing the
// whole command. Callers should defer env.Close().
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	var gen *anthropicpkg.Generator
	if cfg.Anthropic.Key != "" {
		anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
		gen = anthropicpkg.NewGenerator(anthropicClient, cfg.Anthropic.HaikuModel, int64(cfg.Anthropic.MaxTokens), "leadgen")
	} else {
		zap.L().Warn("anthropic key not set, LLM link refinement and agent branch disabled")
	}

	crawler := crawl.NewCrawler(crawl.WithRequestsPerSecond(cfg.Crawl.RequestsPerSec))
	base := linkrank.NewBaseRanker(linkrank.DefaultPolicy())

	// A typed nil must not reach the interface field, or the ranker would
	// think a generator is present.
	ranker := linkrank.NewLLMRanker(base, nil)
	if gen != nil {
		ranker = linkrank.NewLLMRanker(base, gen)
	}

	enricher := enrich.NewEnricher(crawler, ranker, st,
		enrich.WithPageBudget(cfg.Enrich.PagesPerSite),
		enrich.WithConcurrency(cfg.Enrich.Concurrency),
		enrich.WithDiscoveryLimits(cfg.Crawl.MaxPages, cfg.Crawl.MaxDepth),
	)

	opts := []leadgen.Option{
		leadgen.WithEnricher(enricher),
		leadgen.WithEnrichLimit(cfg.Enrich.Limit),
	}

	if cfg.Serper.Key != "" {
		serperClient := serper.NewClient(cfg.Serper.Key, serper.WithBaseURL(cfg.Serper.BaseURL))
		opts = append(opts, leadgen.WithSearcher(serp.NewSearcher(serperClient, st,
			serp.WithRateLimit(cfg.SERP.QueriesPerSec),
			serp.WithMaxQueries(cfg.SERP.MaxQueries),
		)))
	} else {
		zap.L().Warn("serper key not set, SERP stage disabled")
	}

	if gen != nil && cfg.Agent.Enabled {
		opts = append(opts, leadgen.WithAgent(leadgen.NewLLMAgent(gen, st,
			leadgen.WithMaxIterations(cfg.Agent.MaxIterations))))
	}

	rescorer := leadgen.NewRescorer(st, icp.NewDefaultScorer())
	orchestrator := leadgen.NewOrchestrator(st, rescorer, opts...)

	return &pipelineEnv{Store: st, Orchestrator: orchestrator}, nil
}
