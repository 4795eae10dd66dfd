// Package model defines the core data types shared across the lead-gen
// pipeline: pools, jobs, candidates, contacts, and source events.
package model

import "time"

// ICPConfig is a user-authored targeting profile. It is immutable for the
// duration of a job run.
type ICPConfig struct {
	Industries       []string `json:"industries,omitempty" yaml:"industries"`
	CompanySizes     []string `json:"company_sizes,omitempty" yaml:"company_sizes"`
	Geographies      []string `json:"geographies,omitempty" yaml:"geographies"`
	TechStack        []string `json:"tech_stack,omitempty" yaml:"tech_stack"`
	JobTitles        []string `json:"job_titles,omitempty" yaml:"job_titles"`
	Languages        []string `json:"languages,omitempty" yaml:"languages"`
	ExcludedDomains  []string `json:"excluded_domains,omitempty" yaml:"excluded_domains"`
	MaxCompanies     int      `json:"max_companies,omitempty" yaml:"max_companies"`
	MaxContactsPerCo int      `json:"max_contacts_per_company,omitempty" yaml:"max_contacts_per_company"`
}

// IsZero reports whether no targeting dimension is configured.
func (c ICPConfig) IsZero() bool {
	return len(c.Industries) == 0 &&
		len(c.CompanySizes) == 0 &&
		len(c.Geographies) == 0 &&
		len(c.TechStack) == 0 &&
		len(c.JobTitles) == 0 &&
		len(c.Languages) == 0 &&
		len(c.ExcludedDomains) == 0
}

// LeadPool groups jobs, candidates, and an ICP configuration under a name.
type LeadPool struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Name      string     `json:"name" db:"name"`
	ICP       *ICPConfig `json:"icp,omitempty" db:"icp"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
