// Package leadgen orchestrates a lead-generation job: either the autonomous
// agent branch or the staged SERP, enrichment, and scoring pipeline.
package leadgen

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/metrics"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/serp"
	"github.com/sells-group/leadgen-cli/internal/store"
)

// Searcher is the SERP stage contract. Satisfied by serp.Searcher.
type Searcher interface {
	Search(ctx context.Context, job *model.LeadGenJob) (*serp.Result, error)
}

// Enricher is the enrichment stage contract. Satisfied by enrich.Enricher.
type Enricher interface {
	Enrich(ctx context.Context, job *model.LeadGenJob, limit int) (*enrich.Result, error)
}

// StageOutcome is what one pipeline stage produced. Err set means the stage
// failed; the pipeline continues regardless.
type StageOutcome struct {
	Name     string
	Counters model.JobCounters
	Err      error
}

// Orchestrator drives one job through its lifecycle. Collaborators are
// optional: a nil collaborator skips its stage or branch.
type Orchestrator struct {
	store    store.Store
	searcher Searcher
	enricher Enricher
	agent    Agent
	rescorer *Rescorer

	enrichLimit int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSearcher wires the SERP stage.
func WithSearcher(s Searcher) Option {
	return func(o *Orchestrator) { o.searcher = s }
}

// WithEnricher wires the enrichment stage.
func WithEnricher(e Enricher) Option {
	return func(o *Orchestrator) { o.enricher = e }
}

// WithAgent wires the autonomous branch.
func WithAgent(a Agent) Option {
	return func(o *Orchestrator) { o.agent = a }
}

// WithEnrichLimit caps candidates per enrichment run.
func WithEnrichLimit(n int) Option {
	return func(o *Orchestrator) { o.enrichLimit = n }
}

// NewOrchestrator creates an Orchestrator over a store and a rescorer.
func NewOrchestrator(st store.Store, rescorer *Rescorer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:       st,
		rescorer:    rescorer,
		enrichLimit: 25,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one job end to end. Only a missing job is a fatal error;
// every stage failure is recorded in the job log and the returned outcomes.
//
// The agent branch runs when an agent is wired and the job's toggles allow
// it; it is the only path that can finish a job as FAILED. The staged
// pipeline is best effort and always terminates SUCCESS.
func (o *Orchestrator) Run(ctx context.Context, jobID string) ([]StageOutcome, error) {
	job, err := o.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, eris.Wrapf(err, "leadgen: load job %s", jobID)
	}

	if err := o.store.StartJob(ctx, job.ID); err != nil {
		return nil, eris.Wrap(err, "leadgen: start job")
	}
	o.log(ctx, job.ID, model.JobLogEntry{Msg: "Job started"})
	metrics.JobsStarted.Inc()

	logger := zap.L().With(zap.String("job_id", job.ID), zap.String("pool_id", job.PoolID))

	if o.agent != nil && job.Providers.AgentEnabled() {
		return o.runAgentBranch(ctx, job, logger)
	}
	return o.runStagedBranch(ctx, job, logger)
}

func (o *Orchestrator) runAgentBranch(ctx context.Context, job *model.LeadGenJob, logger *zap.Logger) ([]StageOutcome, error) {
	logger.Info("leadgen: running agent branch")

	pool, err := o.store.GetPool(ctx, job.PoolID)
	if err != nil {
		return nil, eris.Wrap(err, "leadgen: load pool")
	}
	icpCfg := model.ICPConfig{}
	if pool.ICP != nil {
		icpCfg = *pool.ICP
	}

	res, err := o.agent.Run(ctx, AgentRequest{
		JobID:       job.ID,
		UserID:      job.UserID,
		PoolID:      job.PoolID,
		ICP:         icpCfg,
		TargetCount: icpCfg.MaxCompanies,
	})

	outcome := StageOutcome{Name: "agent", Err: err}
	if res != nil {
		outcome.Counters = model.JobCounters{
			CompaniesFound:    res.CompaniesSaved,
			CandidatesCreated: res.CompaniesSaved,
			ContactsCreated:   res.ContactsSaved,
			AgentIterations:   res.Iterations,
		}
	}
	o.persistOutcome(ctx, job.ID, outcome)

	if err != nil {
		logger.Error("leadgen: agent branch failed", zap.Error(err))
		o.finish(ctx, job.ID, model.JobStatusFailed)
		return []StageOutcome{outcome}, nil
	}

	o.rescoreAndSummarize(ctx, job, logger)
	o.finish(ctx, job.ID, model.JobStatusSuccess)
	return []StageOutcome{outcome}, nil
}

func (o *Orchestrator) runStagedBranch(ctx context.Context, job *model.LeadGenJob, logger *zap.Logger) ([]StageOutcome, error) {
	logger.Info("leadgen: running staged pipeline")
	var outcomes []StageOutcome

	serpRan := false
	serpCreated := 0
	serpFailed := false
	if o.searcher != nil && job.Providers.SERPEnabled() {
		outcome := StageOutcome{Name: "serp"}
		start := time.Now()
		res, err := o.searcher.Search(ctx, job)
		metrics.StageDuration.WithLabelValues("serp").Observe(time.Since(start).Seconds())
		outcome.Err = err
		if res != nil {
			outcome.Counters = model.JobCounters{
				CompaniesFound:    res.UniqueDomains,
				CandidatesCreated: res.CreatedCandidates,
				SourceEvents:      res.SourceEvents,
			}
		}
		o.persistOutcome(ctx, job.ID, outcome)
		outcomes = append(outcomes, outcome)
		serpRan = true
		serpCreated = outcome.Counters.CandidatesCreated
		serpFailed = err != nil
	}

	// A SERP stage that ran cleanly but found nothing leaves enrichment with
	// no candidates for this job. A failed SERP stage still falls through so
	// enrichment can work with whatever earlier runs created.
	skipEnrich := serpRan && !serpFailed && serpCreated == 0
	if o.enricher != nil && job.Providers.CrawlerEnabled() && !skipEnrich {
		outcome := StageOutcome{Name: "enrichment"}
		start := time.Now()
		res, err := o.enricher.Enrich(ctx, job, o.enrichLimit)
		metrics.StageDuration.WithLabelValues("enrichment").Observe(time.Since(start).Seconds())
		outcome.Err = err
		if res != nil {
			outcome.Counters = model.JobCounters{
				CompaniesEnriched: res.Enriched,
				EnrichmentFailed:  res.Failed,
				ContactsCreated:   res.ContactsCreated,
				SourceEvents:      res.SourceEvents,
			}
		}
		o.persistOutcome(ctx, job.ID, outcome)
		outcomes = append(outcomes, outcome)
	} else if o.enricher != nil && job.Providers.CrawlerEnabled() {
		o.log(ctx, job.ID, model.JobLogEntry{Msg: "Enrichment stage skipped: no candidates discovered"})
	}

	if o.poolHasICP(ctx, job.PoolID) {
		scoring := StageOutcome{Name: "scoring"}
		start := time.Now()
		companies, contacts, err := o.rescorer.RescorePool(ctx, job.PoolID)
		metrics.StageDuration.WithLabelValues("scoring").Observe(time.Since(start).Seconds())
		scoring.Err = err
		if err == nil {
			o.log(ctx, job.ID, model.JobLogEntry{
				Msg: fmt.Sprintf("Scoring stage complete: %d companies, %d contacts rescored", companies, contacts),
			})
		} else {
			o.logStageError(ctx, job.ID, scoring)
		}
		outcomes = append(outcomes, scoring)
	} else {
		o.log(ctx, job.ID, model.JobLogEntry{Msg: "Scoring stage skipped: pool has no ICP profile"})
	}

	o.summarize(ctx, job, logger)
	o.finish(ctx, job.ID, model.JobStatusSuccess)
	return outcomes, nil
}

// poolHasICP reports whether scoring has a profile to score against.
func (o *Orchestrator) poolHasICP(ctx context.Context, poolID string) bool {
	pool, err := o.store.GetPool(ctx, poolID)
	if err != nil {
		zap.L().Warn("leadgen: load pool for scoring check failed",
			zap.String("pool_id", poolID), zap.Error(err))
		return false
	}
	return pool.ICP != nil && !pool.ICP.IsZero()
}

// persistOutcome appends the stage's log line and merges its counters into
// the job. Persisting after every stage gives durable checkpoints.
func (o *Orchestrator) persistOutcome(ctx context.Context, jobID string, outcome StageOutcome) {
	if outcome.Err != nil {
		o.logStageError(ctx, jobID, outcome)
	} else {
		o.log(ctx, jobID, model.JobLogEntry{
			Msg: fmt.Sprintf("%s stage complete", outcome.Name),
		})
	}
	// SourceEvents means different things per stage: one per SERP query in
	// the serp stage, one per fetched page in enrichment.
	var serpQueries, pages int
	switch outcome.Name {
	case "serp":
		serpQueries = outcome.Counters.SourceEvents
	case "enrichment":
		pages = outcome.Counters.SourceEvents
	}
	metrics.RecordOutcomes(
		outcome.Counters.CandidatesCreated,
		outcome.Counters.ContactsCreated,
		serpQueries,
		pages,
	)
	if err := o.store.AddJobCounters(ctx, jobID, outcome.Counters); err != nil {
		zap.L().Warn("leadgen: persist counters failed",
			zap.String("job_id", jobID), zap.Error(err))
	}
}

func (o *Orchestrator) rescoreAndSummarize(ctx context.Context, job *model.LeadGenJob, logger *zap.Logger) {
	if o.poolHasICP(ctx, job.PoolID) {
		companies, contacts, err := o.rescorer.RescorePool(ctx, job.PoolID)
		if err != nil {
			logger.Warn("leadgen: post-agent scoring failed", zap.Error(err))
		} else {
			o.log(ctx, job.ID, model.JobLogEntry{
				Msg: fmt.Sprintf("Scoring stage complete: %d companies, %d contacts rescored", companies, contacts),
			})
		}
	}
	o.summarize(ctx, job, logger)
}

// summarize writes the final pipeline summary from the job's persisted
// counters.
func (o *Orchestrator) summarize(ctx context.Context, job *model.LeadGenJob, logger *zap.Logger) {
	fresh, err := o.store.GetJob(ctx, job.ID)
	if err != nil {
		logger.Warn("leadgen: reload job for summary failed", zap.Error(err))
		return
	}
	c := fresh.Counters
	msg := fmt.Sprintf("LeadGen pipeline complete: %d companies found, %d candidates, %d contacts, %d source events",
		c.CompaniesFound, c.CandidatesCreated, c.ContactsCreated, c.SourceEvents)
	logger.Info(msg)
	o.log(ctx, job.ID, model.JobLogEntry{Msg: msg})
}

func (o *Orchestrator) logStageError(ctx context.Context, jobID string, outcome StageOutcome) {
	zap.L().Error("leadgen: stage failed",
		zap.String("job_id", jobID),
		zap.String("stage", outcome.Name),
		zap.Error(outcome.Err),
	)
	o.log(ctx, jobID, model.JobLogEntry{
		Level: model.LogLevelError,
		Msg:   fmt.Sprintf("%s stage failed: %v", outcome.Name, outcome.Err),
	})
}

func (o *Orchestrator) log(ctx context.Context, jobID string, entry model.JobLogEntry) {
	if entry.TS.IsZero() {
		entry.TS = time.Now().UTC()
	}
	if err := o.store.AppendJobLog(ctx, jobID, entry); err != nil {
		zap.L().Warn("leadgen: append job log failed",
			zap.String("job_id", jobID), zap.Error(err))
	}
}

func (o *Orchestrator) finish(ctx context.Context, jobID string, status model.JobStatus) {
	metrics.JobsFinished.WithLabelValues(string(status)).Inc()
	if err := o.store.FinishJob(ctx, jobID, status); err != nil {
		zap.L().Warn("leadgen: finish job failed",
			zap.String("job_id", jobID), zap.Error(err))
	}
}
