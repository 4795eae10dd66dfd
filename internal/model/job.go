package model

import "time"

// JobStatus represents the lifecycle state of a lead-gen job.
// Transitions are PENDING → RUNNING → SUCCESS|FAILED; terminal states do
// not transition further.
type JobStatus string

const (
	JobStatusPending JobStatus = "pending"
	JobStatusRunning JobStatus = "running"
	JobStatusSuccess JobStatus = "success"
	JobStatusFailed  JobStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSuccess || s == JobStatusFailed
}

// ProviderToggles selects which pipeline branches and stages run for a job.
// The zero value enables everything, matching the job-creation default.
type ProviderToggles struct {
	SERP      *bool `json:"serp,omitempty"`
	Crawler   *bool `json:"crawler,omitempty"`
	AgenticAI *bool `json:"agentic_ai,omitempty"`
}

// SERPEnabled reports whether the SERP stage should run (default true).
func (p ProviderToggles) SERPEnabled() bool { return p.SERP == nil || *p.SERP }

// CrawlerEnabled reports whether the enrichment stage should run (default true).
func (p ProviderToggles) CrawlerEnabled() bool { return p.Crawler == nil || *p.Crawler }

// AgentEnabled reports whether the autonomous agent branch should run
// (default true unless explicitly disabled).
func (p ProviderToggles) AgentEnabled() bool { return p.AgenticAI == nil || *p.AgenticAI }

// JobCounters tracks cumulative pipeline yield. All fields are monotonically
// non-decreasing across successive updates to the same job.
type JobCounters struct {
	CompaniesFound    int `json:"companies_found"`
	CandidatesCreated int `json:"candidates_created"`
	ContactsCreated   int `json:"contacts_created"`
	SourceEvents      int `json:"source_events"`
	CompaniesEnriched int `json:"companies_enriched"`
	EnrichmentFailed  int `json:"enrichment_failed"`
	AgentIterations   int `json:"agent_iterations"`
}

// Add merges another counter set additively. Negative deltas are ignored so
// a buggy stage can never decrease a persisted counter.
func (c *JobCounters) Add(d JobCounters) {
	c.CompaniesFound += nonNegative(d.CompaniesFound)
	c.CandidatesCreated += nonNegative(d.CandidatesCreated)
	c.ContactsCreated += nonNegative(d.ContactsCreated)
	c.SourceEvents += nonNegative(d.SourceEvents)
	c.CompaniesEnriched += nonNegative(d.CompaniesEnriched)
	c.EnrichmentFailed += nonNegative(d.EnrichmentFailed)
	c.AgentIterations += nonNegative(d.AgentIterations)
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// LogLevel marks the severity of a job log entry. Only ERROR is ever set
// explicitly; informational entries omit the level.
type LogLevel string

// LogLevelError marks stage failures recorded in the job log.
const LogLevelError LogLevel = "ERROR"

// JobLogEntry is one line of a job's append-only log.
type JobLogEntry struct {
	TS    time.Time `json:"ts"`
	Level LogLevel  `json:"level,omitempty"`
	Msg   string    `json:"msg"`
}

// LeadGenJob is one pipeline execution. Mutated only by the orchestrator.
type LeadGenJob struct {
	ID         string          `json:"id" db:"id"`
	PoolID     string          `json:"pool_id" db:"pool_id"`
	UserID     string          `json:"user_id" db:"user_id"`
	Status     JobStatus       `json:"status" db:"status"`
	Providers  ProviderToggles `json:"providers" db:"providers"`
	Counters   JobCounters     `json:"counters" db:"counters"`
	Log        []JobLogEntry   `json:"log" db:"log"`
	StartedAt  *time.Time      `json:"started_at,omitempty" db:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty" db:"finished_at"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
