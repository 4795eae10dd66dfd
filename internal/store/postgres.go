package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/db"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hottest store operations.
var preparedStatements = map[string]string{
	"get_job":          `SELECT id, pool_id, user_id, status, providers, counters, log, started_at, finished_at, created_at FROM leadgen_jobs WHERE id = $1`,
	"append_job_log":   `UPDATE leadgen_jobs SET log = log || $1::jsonb WHERE id = $2`,
	"update_score":     `UPDATE lead_candidates SET score = $1, updated_at = $2 WHERE id = $3`,
	"insert_event":     `INSERT INTO source_events (id, job_id, kind, target, detail, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
	"list_candidates":  `SELECT id, pool_id, job_id, domain, name, description, industry, tech_stack, language, email, score, created_at, updated_at FROM lead_candidates WHERE pool_id = $1 ORDER BY score DESC, created_at`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool, used by tests and by
// subsystems that share a pool.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying database pool for subsystems that need
// direct query access (e.g., bulk candidate inserts).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS lead_pools (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	user_id    TEXT NOT NULL,
	name       TEXT NOT NULL,
	icp        JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leadgen_jobs (
	id                 TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	pool_id            TEXT NOT NULL REFERENCES lead_pools(id),
	user_id            TEXT NOT NULL,
	status             TEXT NOT NULL DEFAULT 'pending',
	providers          JSONB NOT NULL DEFAULT '{}'::jsonb,
	companies_found    INTEGER NOT NULL DEFAULT 0,
	candidates_created INTEGER NOT NULL DEFAULT 0,
	contacts_created   INTEGER NOT NULL DEFAULT 0,
	source_events      INTEGER NOT NULL DEFAULT 0,
	companies_enriched INTEGER NOT NULL DEFAULT 0,
	enrichment_failed  INTEGER NOT NULL DEFAULT 0,
	agent_iterations   INTEGER NOT NULL DEFAULT 0,
	log                JSONB NOT NULL DEFAULT '[]'::jsonb,
	started_at         TIMESTAMPTZ,
	finished_at        TIMESTAMPTZ,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS lead_candidates (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	pool_id     TEXT NOT NULL REFERENCES lead_pools(id),
	job_id      TEXT,
	domain      TEXT NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	industry    TEXT NOT NULL DEFAULT '',
	tech_stack  JSONB NOT NULL DEFAULT '[]'::jsonb,
	language    TEXT NOT NULL DEFAULT '',
	email       TEXT NOT NULL DEFAULT '',
	score       INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (pool_id, domain)
);

CREATE TABLE IF NOT EXISTS contact_candidates (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	candidate_id TEXT NOT NULL REFERENCES lead_candidates(id),
	name         TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	phone        TEXT NOT NULL DEFAULT '',
	title        TEXT NOT NULL DEFAULT '',
	linkedin_url TEXT NOT NULL DEFAULT '',
	score        INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS source_events (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	job_id     TEXT NOT NULL REFERENCES leadgen_jobs(id),
	kind       TEXT NOT NULL,
	target     TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_pools_user ON lead_pools(user_id);
CREATE INDEX IF NOT EXISTS idx_jobs_pool ON leadgen_jobs(pool_id);
CREATE INDEX IF NOT EXISTS idx_jobs_status ON leadgen_jobs(status);
CREATE INDEX IF NOT EXISTS idx_candidates_pool ON lead_candidates(pool_id);
CREATE INDEX IF NOT EXISTS idx_candidates_score ON lead_candidates(pool_id, score DESC);
CREATE INDEX IF NOT EXISTS idx_contacts_candidate ON contact_candidates(candidate_id);
CREATE INDEX IF NOT EXISTS idx_events_job ON source_events(job_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreatePool(ctx context.Context, userID, name string, icp *model.ICPConfig) (*model.LeadPool, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	var icpJSON []byte
	if icp != nil {
		var err error
		icpJSON, err = json.Marshal(icp)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: marshal icp")
		}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO lead_pools (id, user_id, name, icp, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, userID, name, icpJSON, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert pool")
	}

	return &model.LeadPool{ID: id, UserID: userID, Name: name, ICP: icp, CreatedAt: now}, nil
}

func (s *PostgresStore) GetPool(ctx context.Context, poolID string) (*model.LeadPool, error) {
	var p model.LeadPool
	var icpJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, name, icp, created_at FROM lead_pools WHERE id = $1`,
		poolID,
	).Scan(&p.ID, &p.UserID, &p.Name, &icpJSON, &p.CreatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get pool %s", poolID)
	}

	if len(icpJSON) > 0 {
		p.ICP = &model.ICPConfig{}
		if err := json.Unmarshal(icpJSON, p.ICP); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal icp")
		}
	}
	return &p, nil
}

func (s *PostgresStore) ListPools(ctx context.Context, userID string) ([]model.LeadPool, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, name, icp, created_at FROM lead_pools WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list pools")
	}
	defer rows.Close()

	var pools []model.LeadPool
	for rows.Next() {
		var p model.LeadPool
		var icpJSON []byte
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &icpJSON, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan pool")
		}
		if len(icpJSON) > 0 {
			p.ICP = &model.ICPConfig{}
			if err := json.Unmarshal(icpJSON, p.ICP); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal icp")
			}
		}
		pools = append(pools, p)
	}
	return pools, eris.Wrap(rows.Err(), "postgres: list pools iterate")
}

func (s *PostgresStore) DeletePool(ctx context.Context, poolID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: delete pool begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Children first: contacts, candidates, events, jobs, then the pool.
	steps := []struct {
		name string
		sql  string
	}{
		{"contacts", `DELETE FROM contact_candidates WHERE candidate_id IN (SELECT id FROM lead_candidates WHERE pool_id = $1)`},
		{"candidates", `DELETE FROM lead_candidates WHERE pool_id = $1`},
		{"events", `DELETE FROM source_events WHERE job_id IN (SELECT id FROM leadgen_jobs WHERE pool_id = $1)`},
		{"jobs", `DELETE FROM leadgen_jobs WHERE pool_id = $1`},
		{"pool", `DELETE FROM lead_pools WHERE id = $1`},
	}
	for _, step := range steps {
		if _, err := tx.Exec(ctx, step.sql, poolID); err != nil {
			return eris.Wrapf(err, "postgres: delete pool %s", step.name)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: delete pool commit")
}

func (s *PostgresStore) CreateJob(ctx context.Context, poolID, userID string, providers model.ProviderToggles) (*model.LeadGenJob, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	providersJSON, err := json.Marshal(providers)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal providers")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO leadgen_jobs (id, pool_id, user_id, status, providers, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, poolID, userID, string(model.JobStatusPending), providersJSON, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert job")
	}

	return &model.LeadGenJob{
		ID:        id,
		PoolID:    poolID,
		UserID:    userID,
		Status:    model.JobStatusPending,
		Providers: providers,
		CreatedAt: now,
	}, nil
}

func (s *PostgresStore) GetJob(ctx context.Context, jobID string) (*model.LeadGenJob, error) {
	var j model.LeadGenJob
	var providersJSON, logJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, pool_id, user_id, status, providers,
		        companies_found, candidates_created, contacts_created, source_events,
		        companies_enriched, enrichment_failed, agent_iterations,
		        log, started_at, finished_at, created_at
		 FROM leadgen_jobs WHERE id = $1`,
		jobID,
	).Scan(&j.ID, &j.PoolID, &j.UserID, &j.Status, &providersJSON,
		&j.Counters.CompaniesFound, &j.Counters.CandidatesCreated, &j.Counters.ContactsCreated,
		&j.Counters.SourceEvents, &j.Counters.CompaniesEnriched, &j.Counters.EnrichmentFailed,
		&j.Counters.AgentIterations,
		&logJSON, &j.StartedAt, &j.FinishedAt, &j.CreatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get job %s", jobID)
	}

	if len(providersJSON) > 0 {
		if err := json.Unmarshal(providersJSON, &j.Providers); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal providers")
		}
	}
	if len(logJSON) > 0 {
		if err := json.Unmarshal(logJSON, &j.Log); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal job log")
		}
	}
	return &j, nil
}

func (s *PostgresStore) StartJob(ctx context.Context, jobID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leadgen_jobs SET status = $1, started_at = $2 WHERE id = $3`,
		string(model.JobStatusRunning), time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: start job %s", jobID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", jobID)
	}
	return nil
}

func (s *PostgresStore) FinishJob(ctx context.Context, jobID string, status model.JobStatus) error {
	if !status.Terminal() {
		return eris.Errorf("postgres: finish job with non-terminal status %s", status)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE leadgen_jobs SET status = $1, finished_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: finish job %s", jobID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", jobID)
	}
	return nil
}

func (s *PostgresStore) AppendJobLog(ctx context.Context, jobID string, entries ...model.JobLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	entriesJSON, err := json.Marshal(entries)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal log entries")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE leadgen_jobs SET log = log || $1::jsonb WHERE id = $2`,
		entriesJSON, jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: append job log %s", jobID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", jobID)
	}
	return nil
}

func (s *PostgresStore) AddJobCounters(ctx context.Context, jobID string, delta model.JobCounters) error {
	// Clamp client-side so a buggy stage can never decrement.
	var clamped model.JobCounters
	clamped.Add(delta)

	tag, err := s.pool.Exec(ctx,
		`UPDATE leadgen_jobs SET
			companies_found    = companies_found + $1,
			candidates_created = candidates_created + $2,
			contacts_created   = contacts_created + $3,
			source_events      = source_events + $4,
			companies_enriched = companies_enriched + $5,
			enrichment_failed  = enrichment_failed + $6,
			agent_iterations   = agent_iterations + $7
		 WHERE id = $8`,
		clamped.CompaniesFound, clamped.CandidatesCreated, clamped.ContactsCreated,
		clamped.SourceEvents, clamped.CompaniesEnriched, clamped.EnrichmentFailed,
		clamped.AgentIterations, jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: add job counters %s", jobID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", jobID)
	}
	return nil
}

func (s *PostgresStore) UpsertCandidate(ctx context.Context, c *model.LeadCandidate) (*model.LeadCandidate, error) {
	now := time.Now().UTC()
	out := *c
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	out.CreatedAt = now
	out.UpdatedAt = now

	// A nil slice marshals to "null", which the empty-stack guard below
	// would mistake for a real value and clobber previous fingerprints.
	tech := out.TechStack
	if tech == nil {
		tech = []string{}
	}
	techJSON, err := json.Marshal(tech)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal tech stack")
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO lead_candidates (id, pool_id, job_id, domain, name, description, industry, tech_stack, language, email, score, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (pool_id, domain) DO UPDATE SET
			name        = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE lead_candidates.name END,
			description = CASE WHEN EXCLUDED.description <> '' THEN EXCLUDED.description ELSE lead_candidates.description END,
			industry    = CASE WHEN EXCLUDED.industry <> '' THEN EXCLUDED.industry ELSE lead_candidates.industry END,
			tech_stack  = CASE WHEN EXCLUDED.tech_stack <> '[]'::jsonb THEN EXCLUDED.tech_stack ELSE lead_candidates.tech_stack END,
			language    = CASE WHEN EXCLUDED.language <> '' THEN EXCLUDED.language ELSE lead_candidates.language END,
			email       = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE lead_candidates.email END,
			updated_at  = EXCLUDED.updated_at
		 RETURNING id, created_at`,
		out.ID, out.PoolID, out.JobID, out.Domain, out.Name, out.Description, out.Industry,
		techJSON, out.Language, out.Email, out.Score, now, now,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: upsert candidate %s", c.Domain)
	}
	return &out, nil
}

func (s *PostgresStore) ListCandidates(ctx context.Context, filter CandidateFilter) ([]model.LeadCandidate, error) {
	query := `SELECT id, pool_id, job_id, domain, name, description, industry, tech_stack, language, email, score, created_at, updated_at FROM lead_candidates WHERE true`
	args := []any{}
	argIdx := 1

	if filter.PoolID != "" {
		query += fmt.Sprintf(` AND pool_id = $%d`, argIdx)
		args = append(args, filter.PoolID)
		argIdx++
	}
	if filter.JobID != "" {
		query += fmt.Sprintf(` AND job_id = $%d`, argIdx)
		args = append(args, filter.JobID)
		argIdx++
	}
	if filter.MinScore > 0 {
		query += fmt.Sprintf(` AND score >= $%d`, argIdx)
		args = append(args, filter.MinScore)
		argIdx++
	}
	query += ` ORDER BY score DESC, created_at`

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list candidates")
	}
	defer rows.Close()

	var out []model.LeadCandidate
	for rows.Next() {
		var c model.LeadCandidate
		var techJSON []byte
		if err := rows.Scan(&c.ID, &c.PoolID, &c.JobID, &c.Domain, &c.Name, &c.Description,
			&c.Industry, &techJSON, &c.Language, &c.Email, &c.Score, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan candidate")
		}
		if len(techJSON) > 0 {
			if err := json.Unmarshal(techJSON, &c.TechStack); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal tech stack")
			}
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list candidates iterate")
}

func (s *PostgresStore) UpdateCandidateScore(ctx context.Context, candidateID string, score int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE lead_candidates SET score = $1, updated_at = $2 WHERE id = $3`,
		model.ClampScore(score), time.Now().UTC(), candidateID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update candidate score %s", candidateID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("candidate not found: %s", candidateID)
	}
	return nil
}

func (s *PostgresStore) CreateContact(ctx context.Context, c *model.ContactCandidate) (*model.ContactCandidate, error) {
	out := *c
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	out.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO contact_candidates (id, candidate_id, name, email, phone, title, linkedin_url, score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		out.ID, out.CandidateID, out.Name, out.Email, out.Phone, out.Title, out.LinkedInURL, out.Score, out.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert contact for candidate %s", c.CandidateID)
	}
	return &out, nil
}

func (s *PostgresStore) ListContacts(ctx context.Context, candidateID string) ([]model.ContactCandidate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, candidate_id, name, email, phone, title, linkedin_url, score, created_at
		 FROM contact_candidates WHERE candidate_id = $1 ORDER BY score DESC, created_at`,
		candidateID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list contacts")
	}
	defer rows.Close()
	return scanContacts(rows)
}

func (s *PostgresStore) ListPoolContacts(ctx context.Context, poolID string) ([]model.ContactCandidate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT cc.id, cc.candidate_id, cc.name, cc.email, cc.phone, cc.title, cc.linkedin_url, cc.score, cc.created_at
		 FROM contact_candidates cc
		 JOIN lead_candidates lc ON lc.id = cc.candidate_id
		 WHERE lc.pool_id = $1 ORDER BY cc.score DESC, cc.created_at`,
		poolID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list pool contacts")
	}
	defer rows.Close()
	return scanContacts(rows)
}

func (s *PostgresStore) UpdateContactScore(ctx context.Context, contactID string, score int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE contact_candidates SET score = $1 WHERE id = $2`,
		model.ClampScore(score), contactID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update contact score %s", contactID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("contact not found: %s", contactID)
	}
	return nil
}

func (s *PostgresStore) RecordSourceEvent(ctx context.Context, e *model.SourceEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO source_events (id, job_id, kind, target, detail, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.JobID, e.Kind, e.Target, e.Detail, e.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: record source event %s", e.Kind)
}

func (s *PostgresStore) RecordSourceEvents(ctx context.Context, events []model.SourceEvent) error {
	if len(events) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([][]any, 0, len(events))
	for i := range events {
		e := &events[i]
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		rows = append(rows, []any{e.ID, e.JobID, e.Kind, e.Target, e.Detail, e.CreatedAt})
	}
	_, err := db.CopyFrom(ctx, s.pool, "source_events",
		[]string{"id", "job_id", "kind", "target", "detail", "created_at"}, rows)
	return eris.Wrap(err, "postgres: record source events")
}

func (s *PostgresStore) ListSourceEvents(ctx context.Context, jobID string) ([]model.SourceEvent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, job_id, kind, target, detail, created_at FROM source_events WHERE job_id = $1 ORDER BY created_at`,
		jobID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list source events")
	}
	defer rows.Close()

	var out []model.SourceEvent
	for rows.Next() {
		var e model.SourceEvent
		if err := rows.Scan(&e.ID, &e.JobID, &e.Kind, &e.Target, &e.Detail, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan source event")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list source events iterate")
}

func scanContacts(rows pgx.Rows) ([]model.ContactCandidate, error) {
	var out []model.ContactCandidate
	for rows.Next() {
		var c model.ContactCandidate
		if err := rows.Scan(&c.ID, &c.CandidateID, &c.Name, &c.Email, &c.Phone, &c.Title,
			&c.LinkedInURL, &c.Score, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan contact")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: scan contacts iterate")
}
