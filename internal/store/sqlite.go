package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It is the default
// backend for local single-user runs.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS lead_pools (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	name       TEXT NOT NULL,
	icp        TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS leadgen_jobs (
	id                 TEXT PRIMARY KEY,
	pool_id            TEXT NOT NULL REFERENCES lead_pools(id),
	user_id            TEXT NOT NULL,
	status             TEXT NOT NULL DEFAULT 'pending',
	providers          TEXT NOT NULL DEFAULT '{}',
	companies_found    INTEGER NOT NULL DEFAULT 0,
	candidates_created INTEGER NOT NULL DEFAULT 0,
	contacts_created   INTEGER NOT NULL DEFAULT 0,
	source_events      INTEGER NOT NULL DEFAULT 0,
	companies_enriched INTEGER NOT NULL DEFAULT 0,
	enrichment_failed  INTEGER NOT NULL DEFAULT 0,
	agent_iterations   INTEGER NOT NULL DEFAULT 0,
	log                TEXT NOT NULL DEFAULT '[]',
	started_at         DATETIME,
	finished_at        DATETIME,
	created_at         DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS lead_candidates (
	id          TEXT PRIMARY KEY,
	pool_id     TEXT NOT NULL REFERENCES lead_pools(id),
	job_id      TEXT,
	domain      TEXT NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	industry    TEXT NOT NULL DEFAULT '',
	tech_stack  TEXT NOT NULL DEFAULT '[]',
	language    TEXT NOT NULL DEFAULT '',
	email       TEXT NOT NULL DEFAULT '',
	score       INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (pool_id, domain)
);

CREATE TABLE IF NOT EXISTS contact_candidates (
	id           TEXT PRIMARY KEY,
	candidate_id TEXT NOT NULL REFERENCES lead_candidates(id),
	name         TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	phone        TEXT NOT NULL DEFAULT '',
	title        TEXT NOT NULL DEFAULT '',
	linkedin_url TEXT NOT NULL DEFAULT '',
	score        INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS source_events (
	id         TEXT PRIMARY KEY,
	job_id     TEXT NOT NULL REFERENCES leadgen_jobs(id),
	kind       TEXT NOT NULL,
	target     TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_pools_user ON lead_pools(user_id);
CREATE INDEX IF NOT EXISTS idx_jobs_pool ON leadgen_jobs(pool_id);
CREATE INDEX IF NOT EXISTS idx_jobs_status ON leadgen_jobs(status);
CREATE INDEX IF NOT EXISTS idx_candidates_pool ON lead_candidates(pool_id);
CREATE INDEX IF NOT EXISTS idx_contacts_candidate ON contact_candidates(candidate_id);
CREATE INDEX IF NOT EXISTS idx_events_job ON source_events(job_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreatePool(ctx context.Context, userID, name string, icp *model.ICPConfig) (*model.LeadPool, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	var icpJSON sql.NullString
	if icp != nil {
		raw, err := json.Marshal(icp)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: marshal icp")
		}
		icpJSON = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lead_pools (id, user_id, name, icp, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, userID, name, icpJSON, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert pool")
	}

	return &model.LeadPool{ID: id, UserID: userID, Name: name, ICP: icp, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetPool(ctx context.Context, poolID string) (*model.LeadPool, error) {
	var p model.LeadPool
	var icpJSON sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, icp, created_at FROM lead_pools WHERE id = ?`,
		poolID,
	).Scan(&p.ID, &p.UserID, &p.Name, &icpJSON, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Errorf("pool not found: %s", poolID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get pool %s", poolID)
	}

	if icpJSON.Valid && icpJSON.String != "" {
		p.ICP = &model.ICPConfig{}
		if err := json.Unmarshal([]byte(icpJSON.String), p.ICP); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal icp")
		}
	}
	return &p, nil
}

func (s *SQLiteStore) ListPools(ctx context.Context, userID string) ([]model.LeadPool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, icp, created_at FROM lead_pools WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list pools")
	}
	defer rows.Close()

	var pools []model.LeadPool
	for rows.Next() {
		var p model.LeadPool
		var icpJSON sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &icpJSON, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan pool")
		}
		if icpJSON.Valid && icpJSON.String != "" {
			p.ICP = &model.ICPConfig{}
			if err := json.Unmarshal([]byte(icpJSON.String), p.ICP); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal icp")
			}
		}
		pools = append(pools, p)
	}
	return pools, eris.Wrap(rows.Err(), "sqlite: list pools iterate")
}

func (s *SQLiteStore) DeletePool(ctx context.Context, poolID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: delete pool begin")
	}
	defer tx.Rollback() //nolint:errcheck

	steps := []struct {
		name string
		sql  string
	}{
		{"contacts", `DELETE FROM contact_candidates WHERE candidate_id IN (SELECT id FROM lead_candidates WHERE pool_id = ?)`},
		{"candidates", `DELETE FROM lead_candidates WHERE pool_id = ?`},
		{"events", `DELETE FROM source_events WHERE job_id IN (SELECT id FROM leadgen_jobs WHERE pool_id = ?)`},
		{"jobs", `DELETE FROM leadgen_jobs WHERE pool_id = ?`},
		{"pool", `DELETE FROM lead_pools WHERE id = ?`},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.sql, poolID); err != nil {
			return eris.Wrapf(err, "sqlite: delete pool %s", step.name)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: delete pool commit")
}

func (s *SQLiteStore) CreateJob(ctx context.Context, poolID, userID string, providers model.ProviderToggles) (*model.LeadGenJob, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	providersJSON, err := json.Marshal(providers)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal providers")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leadgen_jobs (id, pool_id, user_id, status, providers, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, poolID, userID, string(model.JobStatusPending), string(providersJSON), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert job")
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

func (s *SQLiteStore) GetJob(ctx context.Context, jobID string) (*model.LeadGenJob, error) {
	var j model.LeadGenJob
	var providersJSON, logJSON string
	var startedAt, finishedAt sql.NullTime

	err := s.db.QueryRowContext(ctx,
		`SELECT id, pool_id, user_id, status, providers,
		        companies_found, candidates_created, contacts_created, source_events,
		        companies_enriched, enrichment_failed, agent_iterations,
		        log, started_at, finished_at, created_at
		 FROM leadgen_jobs WHERE id = ?`,
		jobID,
	).Scan(&j.ID, &j.PoolID, &j.UserID, &j.Status, &providersJSON,
		&j.Counters.CompaniesFound, &j.Counters.CandidatesCreated, &j.Counters.ContactsCreated,
		&j.Counters.SourceEvents, &j.Counters.CompaniesEnriched, &j.Counters.EnrichmentFailed,
		&j.Counters.AgentIterations,
		&logJSON, &startedAt, &finishedAt, &j.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Errorf("job not found: %s", jobID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get job %s", jobID)
	}

	if providersJSON != "" {
		if err := json.Unmarshal([]byte(providersJSON), &j.Providers); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal providers")
		}
	}
	if logJSON != "" {
		if err := json.Unmarshal([]byte(logJSON), &j.Log); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal job log")
		}
	}
	if startedAt.Valid {
		j.StartedAt = &startedAt.Time
	}
	if finishedAt.Valid {
		j.FinishedAt = &finishedAt.Time
	}
	return &j, nil
}

func (s *SQLiteStore) StartJob(ctx context.Context, jobID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leadgen_jobs SET status = ?, started_at = ? WHERE id = ?`,
		string(model.JobStatusRunning), time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: start job %s", jobID)
	}
	return checkRowsAffected(res, "job", jobID)
}

func (s *SQLiteStore) FinishJob(ctx context.Context, jobID string, status model.JobStatus) error {
	if !status.Terminal() {
		return eris.Errorf("sqlite: finish job with non-terminal status %s", status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE leadgen_jobs SET status = ?, finished_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish job %s", jobID)
	}
	return checkRowsAffected(res, "job", jobID)
}

func (s *SQLiteStore) AppendJobLog(ctx context.Context, jobID string, entries ...model.JobLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	// Read-modify-write inside a transaction; SQLite has no jsonb concat.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: append log begin")
	}
	defer tx.Rollback() //nolint:errcheck

	var logJSON string
	err = tx.QueryRowContext(ctx, `SELECT log FROM leadgen_jobs WHERE id = ?`, jobID).Scan(&logJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return eris.Errorf("job not found: %s", jobID)
	}
	if err != nil {
		return eris.Wrapf(err, "sqlite: read job log %s", jobID)
	}

	var log []model.JobLogEntry
	if logJSON != "" {
		if err := json.Unmarshal([]byte(logJSON), &log); err != nil {
			return eris.Wrap(err, "sqlite: unmarshal job log")
		}
	}
	log = append(log, entries...)

	updated, err := json.Marshal(log)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal job log")
	}
	if _, err := tx.ExecContext(ctx, `UPDATE leadgen_jobs SET log = ? WHERE id = ?`, string(updated), jobID); err != nil {
		return eris.Wrapf(err, "sqlite: write job log %s", jobID)
	}

	return eris.Wrap(tx.Commit(), "sqlite: append log commit")
}

func (s *SQLiteStore) AddJobCounters(ctx context.Context, jobID string, delta model.JobCounters) error {
	var clamped model.JobCounters
	clamped.Add(delta)

	res, err := s.db.ExecContext(ctx,
		`UPDATE leadgen_jobs SET
			companies_found    = companies_found + ?,
			candidates_created = candidates_created + ?,
			contacts_created   = contacts_created + ?,
			source_events      = source_events + ?,
			companies_enriched = companies_enriched + ?,
			enrichment_failed  = enrichment_failed + ?,
			agent_iterations   = agent_iterations + ?
		 WHERE id = ?`,
		clamped.CompaniesFound, clamped.CandidatesCreated, clamped.ContactsCreated,
		clamped.SourceEvents, clamped.CompaniesEnriched, clamped.EnrichmentFailed,
		clamped.AgentIterations, jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: add job counters %s", jobID)
	}
	return checkRowsAffected(res, "job", jobID)
}

func (s *SQLiteStore) UpsertCandidate(ctx context.Context, c *model.LeadCandidate) (*model.LeadCandidate, error) {
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
		return nil, eris.Wrap(err, "sqlite: marshal tech stack")
	}

	err = s.db.QueryRowContext(ctx,
		`INSERT INTO lead_candidates (id, pool_id, job_id, domain, name, description, industry, tech_stack, language, email, score, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (pool_id, domain) DO UPDATE SET
			name        = CASE WHEN excluded.name <> '' THEN excluded.name ELSE lead_candidates.name END,
			description = CASE WHEN excluded.description <> '' THEN excluded.description ELSE lead_candidates.description END,
			industry    = CASE WHEN excluded.industry <> '' THEN excluded.industry ELSE lead_candidates.industry END,
			tech_stack  = CASE WHEN excluded.tech_stack <> '[]' THEN excluded.tech_stack ELSE lead_candidates.tech_stack END,
			language    = CASE WHEN excluded.language <> '' THEN excluded.language ELSE lead_candidates.language END,
			email       = CASE WHEN excluded.email <> '' THEN excluded.email ELSE lead_candidates.email END,
			updated_at  = excluded.updated_at
		 RETURNING id, created_at`,
		out.ID, out.PoolID, out.JobID, out.Domain, out.Name, out.Description, out.Industry,
		string(techJSON), out.Language, out.Email, out.Score, now, now,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: upsert candidate %s", c.Domain)
	}
	return &out, nil
}

func (s *SQLiteStore) ListCandidates(ctx context.Context, filter CandidateFilter) ([]model.LeadCandidate, error) {
	query := `SELECT id, pool_id, job_id, domain, name, description, industry, tech_stack, language, email, score, created_at, updated_at FROM lead_candidates WHERE 1=1`
	var args []any

	if filter.PoolID != "" {
		query += ` AND pool_id = ?`
		args = append(args, filter.PoolID)
	}
	if filter.JobID != "" {
		query += ` AND job_id = ?`
		args = append(args, filter.JobID)
	}
	if filter.MinScore > 0 {
		query += ` AND score >= ?`
		args = append(args, filter.MinScore)
	}
	query += ` ORDER BY score DESC, created_at`

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list candidates")
	}
	defer rows.Close()

	var out []model.LeadCandidate
	for rows.Next() {
		var c model.LeadCandidate
		var jobID sql.NullString
		var techJSON string
		if err := rows.Scan(&c.ID, &c.PoolID, &jobID, &c.Domain, &c.Name, &c.Description,
			&c.Industry, &techJSON, &c.Language, &c.Email, &c.Score, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan candidate")
		}
		c.JobID = jobID.String
		if techJSON != "" {
			if err := json.Unmarshal([]byte(techJSON), &c.TechStack); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal tech stack")
			}
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list candidates iterate")
}

func (s *SQLiteStore) UpdateCandidateScore(ctx context.Context, candidateID string, score int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE lead_candidates SET score = ?, updated_at = ? WHERE id = ?`,
		model.ClampScore(score), time.Now().UTC(), candidateID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update candidate score %s", candidateID)
	}
	return checkRowsAffected(res, "candidate", candidateID)
}

func (s *SQLiteStore) CreateContact(ctx context.Context, c *model.ContactCandidate) (*model.ContactCandidate, error) {
	out := *c
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	out.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_candidates (id, candidate_id, name, email, phone, title, linkedin_url, score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.CandidateID, out.Name, out.Email, out.Phone, out.Title, out.LinkedInURL, out.Score, out.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert contact for candidate %s", c.CandidateID)
	}
	return &out, nil
}

func (s *SQLiteStore) ListContacts(ctx context.Context, candidateID string) ([]model.ContactCandidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, candidate_id, name, email, phone, title, linkedin_url, score, created_at
		 FROM contact_candidates WHERE candidate_id = ? ORDER BY score DESC, created_at`,
		candidateID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list contacts")
	}
	defer rows.Close()
	return scanSQLiteContacts(rows)
}

func (s *SQLiteStore) ListPoolContacts(ctx context.Context, poolID string) ([]model.ContactCandidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cc.id, cc.candidate_id, cc.name, cc.email, cc.phone, cc.title, cc.linkedin_url, cc.score, cc.created_at
		 FROM contact_candidates cc
		 JOIN lead_candidates lc ON lc.id = cc.candidate_id
		 WHERE lc.pool_id = ? ORDER BY cc.score DESC, cc.created_at`,
		poolID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list pool contacts")
	}
	defer rows.Close()
	return scanSQLiteContacts(rows)
}

func (s *SQLiteStore) UpdateContactScore(ctx context.Context, contactID string, score int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contact_candidates SET score = ? WHERE id = ?`,
		model.ClampScore(score), contactID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update contact score %s", contactID)
	}
	return checkRowsAffected(res, "contact", contactID)
}

func (s *SQLiteStore) RecordSourceEvent(ctx context.Context, e *model.SourceEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO source_events (id, job_id, kind, target, detail, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.JobID, e.Kind, e.Target, e.Detail, e.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: record source event %s", e.Kind)
}

func (s *SQLiteStore) RecordSourceEvents(ctx context.Context, events []model.SourceEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin source event batch")
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i := range events {
		e := &events[i]
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO source_events (id, job_id, kind, target, detail, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.JobID, e.Kind, e.Target, e.Detail, e.CreatedAt,
		); err != nil {
			return eris.Wrapf(err, "sqlite: record source event %s", e.Kind)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit source event batch")
}

func (s *SQLiteStore) ListSourceEvents(ctx context.Context, jobID string) ([]model.SourceEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_id, kind, target, detail, created_at FROM source_events WHERE job_id = ? ORDER BY created_at`,
		jobID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list source events")
	}
	defer rows.Close()

	var out []model.SourceEvent
	for rows.Next() {
		var e model.SourceEvent
		if err := rows.Scan(&e.ID, &e.JobID, &e.Kind, &e.Target, &e.Detail, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan source event")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list source events iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

func scanSQLiteContacts(rows *sql.Rows) ([]model.ContactCandidate, error) {
	var out []model.ContactCandidate
	for rows.Next() {
		var c model.ContactCandidate
		if err := rows.Scan(&c.ID, &c.CandidateID, &c.Name, &c.Email, &c.Phone, &c.Title,
			&c.LinkedInURL, &c.Score, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan contact")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: scan contacts iterate")
}
