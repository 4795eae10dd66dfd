// Package icp quantifies how well discovered companies and contacts match a
// configured ideal-customer profile, on a 0-100 scale, and provides the
// filtering and ranking utilities built on that score.
package icp

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// ScorePolicy consolidates every weight and threshold used by the scoring
// engine so tuning never requires touching algorithm code and tests can
// inject alternate weight sets.
type ScorePolicy struct {
	// Company category weights.
	IndustryWeight     int `yaml:"industry_weight" mapstructure:"industry_weight"`
	TechStackWeight    int `yaml:"tech_stack_weight" mapstructure:"tech_stack_weight"`
	GeographyWeight    int `yaml:"geography_weight" mapstructure:"geography_weight"`
	CompletenessWeight int `yaml:"completeness_weight" mapstructure:"completeness_weight"`
	CompanySizeWeight  int `yaml:"company_size_weight" mapstructure:"company_size_weight"`

	// Completeness sub-weights (sum to CompletenessWeight).
	NameCompletePoints        int `yaml:"name_complete_points" mapstructure:"name_complete_points"`
	DescriptionCompletePoints int `yaml:"description_complete_points" mapstructure:"description_complete_points"`
	IndustryCompletePoints    int `yaml:"industry_complete_points" mapstructure:"industry_complete_points"`
	TechStackCompletePoints   int `yaml:"tech_stack_complete_points" mapstructure:"tech_stack_complete_points"`
	EmailCompletePoints       int `yaml:"email_complete_points" mapstructure:"email_complete_points"`

	// Contact category weights.
	TitleWeight          int `yaml:"title_weight" mapstructure:"title_weight"`
	TitleNonSeniorPoints int `yaml:"title_non_senior_points" mapstructure:"title_non_senior_points"`
	LinkedInWeight       int `yaml:"linkedin_weight" mapstructure:"linkedin_weight"`
	EmailWeight          int `yaml:"email_weight" mapstructure:"email_weight"`
	GenericEmailPoints   int `yaml:"generic_email_points" mapstructure:"generic_email_points"`
	NameWeight           int `yaml:"name_weight" mapstructure:"name_weight"`
	PartialNamePoints    int `yaml:"partial_name_points" mapstructure:"partial_name_points"`
	CompanyDomainWeight  int `yaml:"company_domain_weight" mapstructure:"company_domain_weight"`

	// Exclusion thresholds. Fixed policy, not per-pool configuration.
	CompanyExclusionThreshold int `yaml:"company_exclusion_threshold" mapstructure:"company_exclusion_threshold"`
	ContactExclusionThreshold int `yaml:"contact_exclusion_threshold" mapstructure:"contact_exclusion_threshold"`
}

// DefaultScorePolicy returns the production scoring weights. Company weights
// sum to 100; contact weights sum to 100.
func DefaultScorePolicy() ScorePolicy {
	return ScorePolicy{
		IndustryWeight:     30,
		TechStackWeight:    25,
		GeographyWeight:    20,
		CompletenessWeight: 15,
		CompanySizeWeight:  10,

		NameCompletePoints:        3,
		DescriptionCompletePoints: 4,
		IndustryCompletePoints:    3,
		TechStackCompletePoints:   3,
		EmailCompletePoints:       2,

		TitleWeight:          40,
		TitleNonSeniorPoints: 30,
		LinkedInWeight:       20,
		EmailWeight:          20,
		GenericEmailPoints:   10,
		NameWeight:           10,
		PartialNamePoints:    5,
		CompanyDomainWeight:  10,

		CompanyExclusionThreshold: 30,
		ContactExclusionThreshold: 40,
	}
}

// Validate checks that a ScorePolicy is internally consistent.
func (p ScorePolicy) Validate() error {
	var errs []string

	weights := map[string]int{
		"industry_weight":       p.IndustryWeight,
		"tech_stack_weight":     p.TechStackWeight,
		"geography_weight":      p.GeographyWeight,
		"completeness_weight":   p.CompletenessWeight,
		"company_size_weight":   p.CompanySizeWeight,
		"title_weight":          p.TitleWeight,
		"linkedin_weight":       p.LinkedInWeight,
		"email_weight":          p.EmailWeight,
		"name_weight":           p.NameWeight,
		"company_domain_weight": p.CompanyDomainWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	subSum := p.NameCompletePoints + p.DescriptionCompletePoints +
		p.IndustryCompletePoints + p.TechStackCompletePoints + p.EmailCompletePoints
	if subSum != p.CompletenessWeight {
		errs = append(errs, fmt.Sprintf("completeness sub-weights sum to %d, want %d", subSum, p.CompletenessWeight))
	}

	if p.TitleNonSeniorPoints > p.TitleWeight {
		errs = append(errs, "title_non_senior_points must not exceed title_weight")
	}
	if p.GenericEmailPoints > p.EmailWeight {
		errs = append(errs, "generic_email_points must not exceed email_weight")
	}
	if p.PartialNamePoints > p.NameWeight {
		errs = append(errs, "partial_name_points must not exceed name_weight")
	}

	if p.CompanyExclusionThreshold < 0 || p.CompanyExclusionThreshold > 100 {
		errs = append(errs, "company_exclusion_threshold must be between 0 and 100")
	}
	if p.ContactExclusionThreshold < 0 || p.ContactExclusionThreshold > 100 {
		errs = append(errs, "contact_exclusion_threshold must be between 0 and 100")
	}

	if len(errs) > 0 {
		return eris.Errorf("icp: policy validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
