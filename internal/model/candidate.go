package model

import "time"

// LeadCandidate is one discovered company awaiting scoring/qualification.
// Score is recomputed on every scoring pass; last write wins.
type LeadCandidate struct {
	ID          string    `json:"id" db:"id"`
	PoolID      string    `json:"pool_id" db:"pool_id"`
	JobID       string    `json:"job_id,omitempty" db:"job_id"`
	Domain      string    `json:"domain" db:"domain"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Industry    string    `json:"industry,omitempty" db:"industry"`
	TechStack   []string  `json:"tech_stack,omitempty" db:"tech_stack"`
	Language    string    `json:"language,omitempty" db:"language"`
	Email       string    `json:"email,omitempty" db:"email"`
	Score       int       `json:"score" db:"score"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ContactCandidate is one discovered person at a candidate company.
// Immutable once scored except for score recomputation.
type ContactCandidate struct {
	ID          string    `json:"id" db:"id"`
	CandidateID string    `json:"candidate_id" db:"candidate_id"`
	Name        string    `json:"name,omitempty" db:"name"`
	Email       string    `json:"email,omitempty" db:"email"`
	Phone       string    `json:"phone,omitempty" db:"phone"`
	Title       string    `json:"title,omitempty" db:"title"`
	LinkedInURL string    `json:"linkedin_url,omitempty" db:"linkedin_url"`
	Score       int       `json:"score" db:"score"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// SourceEvent is a write-once audit record of one crawl or search action.
type SourceEvent struct {
	ID        string    `json:"id" db:"id"`
	JobID     string    `json:"job_id" db:"job_id"`
	Kind      string    `json:"kind" db:"kind"` // "serp_query", "page_crawl"
	Target    string    `json:"target" db:"target"`
	Detail    string    `json:"detail,omitempty" db:"detail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ClampScore bounds a computed score to the [0, 100] range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
