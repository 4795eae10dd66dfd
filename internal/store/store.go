// Package store persists pools, jobs, candidates, contacts, and source
// events behind a single interface with Postgres and SQLite backends.
package store

import (
	"context"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// CandidateFilter specifies criteria for listing lead candidates.
type CandidateFilter struct {
	PoolID   string `json:"pool_id,omitempty"`
	JobID    string `json:"job_id,omitempty"`
	MinScore int    `json:"min_score,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the lead-gen pipeline.
type Store interface {
	// Pools
	CreatePool(ctx context.Context, userID, name string, icp *model.ICPConfig) (*model.LeadPool, error)
	GetPool(ctx context.Context, poolID string) (*model.LeadPool, error)
	ListPools(ctx context.Context, userID string) ([]model.LeadPool, error)
	// DeletePool removes a pool and all of its jobs, candidates, contacts,
	// and source events, children first.
	DeletePool(ctx context.Context, poolID string) error

	// Jobs
	CreateJob(ctx context.Context, poolID, userID string, providers model.ProviderToggles) (*model.LeadGenJob, error)
	GetJob(ctx context.Context, jobID string) (*model.LeadGenJob, error)
	// StartJob transitions a job to RUNNING and records the start timestamp.
	StartJob(ctx context.Context, jobID string) error
	// FinishJob transitions a job to a terminal status and records the
	// finish timestamp.
	FinishJob(ctx context.Context, jobID string, status model.JobStatus) error
	// AppendJobLog appends entries to the job's append-only log.
	AppendJobLog(ctx context.Context, jobID string, entries ...model.JobLogEntry) error
	// AddJobCounters merges a counter delta additively into the job's
	// persisted counters. Negative deltas are ignored.
	AddJobCounters(ctx context.Context, jobID string, delta model.JobCounters) error

	// Candidates
	// UpsertCandidate inserts a candidate or, when the (pool, domain) pair
	// already exists, refreshes its descriptive fields.
	UpsertCandidate(ctx context.Context, c *model.LeadCandidate) (*model.LeadCandidate, error)
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]model.LeadCandidate, error)
	UpdateCandidateScore(ctx context.Context, candidateID string, score int) error

	// Contacts
	CreateContact(ctx context.Context, c *model.ContactCandidate) (*model.ContactCandidate, error)
	ListContacts(ctx context.Context, candidateID string) ([]model.ContactCandidate, error)
	// ListPoolContacts returns every contact belonging to any candidate in
	// the pool.
	ListPoolContacts(ctx context.Context, poolID string) ([]model.ContactCandidate, error)
	UpdateContactScore(ctx context.Context, contactID string, score int) error

	// Source events
	RecordSourceEvent(ctx context.Context, e *model.SourceEvent) error
	// RecordSourceEvents appends a batch of events in one write. Used by the
	// enrichment stage, which produces one event per crawled page.
	RecordSourceEvents(ctx context.Context, events []model.SourceEvent) error
	ListSourceEvents(ctx context.Context, jobID string) ([]model.SourceEvent, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
