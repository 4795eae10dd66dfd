package icp

import (
	"math"
	"strings"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Scorer computes ICP fit scores under a fixed policy.
type Scorer struct {
	policy ScorePolicy
}

// NewScorer creates a Scorer with the given policy.
func NewScorer(policy ScorePolicy) *Scorer {
	return &Scorer{policy: policy}
}

// NewDefaultScorer creates a Scorer with the production policy.
func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultScorePolicy())
}

// CompanyScore computes the 0-100 ICP fit score for a company candidate.
// Categories the ICP does not configure are excluded from both numerator and
// denominator; an ICP that configures nothing scores every company 0.
func (s *Scorer) CompanyScore(c model.LeadCandidate, icp model.ICPConfig) int {
	var achieved, maxScore float64

	if len(icp.Industries) > 0 {
		maxScore += float64(s.policy.IndustryWeight)
		if matchesAny(c.Industry, icp.Industries) {
			achieved += float64(s.policy.IndustryWeight)
		}
	}

	if len(icp.TechStack) > 0 {
		maxScore += float64(s.policy.TechStackWeight)
		matches := 0
		for _, required := range icp.TechStack {
			if containsFold(c.TechStack, required) {
				matches++
			}
		}
		achieved += float64(matches) / float64(len(icp.TechStack)) * float64(s.policy.TechStackWeight)
	}

	if len(icp.Geographies) > 0 {
		maxScore += float64(s.policy.GeographyWeight)
		haystack := strings.ToLower(c.Domain + " " + c.Description + " " + c.Name)
		for _, geo := range icp.Geographies {
			if geo != "" && strings.Contains(haystack, strings.ToLower(geo)) {
				achieved += float64(s.policy.GeographyWeight)
				break
			}
		}
	}

	// Data completeness only counts toward fit when the profile targets
	// something; an empty ICP scores every company 0.
	if !icp.IsZero() {
		maxScore += float64(s.policy.CompletenessWeight)
		if c.Name != "" {
			achieved += float64(s.policy.NameCompletePoints)
		}
		if c.Description != "" {
			achieved += float64(s.policy.DescriptionCompletePoints)
		}
		if c.Industry != "" {
			achieved += float64(s.policy.IndustryCompletePoints)
		}
		if len(c.TechStack) > 0 {
			achieved += float64(s.policy.TechStackCompletePoints)
		}
		if c.Email != "" {
			achieved += float64(s.policy.EmailCompletePoints)
		}
	}

	if len(icp.CompanySizes) > 0 {
		maxScore += float64(s.policy.CompanySizeWeight)
		haystack := strings.ToLower(c.Description + " " + c.Name)
		for _, size := range icp.CompanySizes {
			if size != "" && strings.Contains(haystack, strings.ToLower(size)) {
				achieved += float64(s.policy.CompanySizeWeight)
				break
			}
		}
	}

	if maxScore == 0 {
		return 0
	}
	return model.ClampScore(int(math.Round(achieved / maxScore * 100)))
}

// ShouldExcludeCompany reports whether a company candidate must be dropped
// from ranked output: its domain matches an excluded-domain substring, or
// its score falls below the exclusion threshold.
func (s *Scorer) ShouldExcludeCompany(c model.LeadCandidate, icp model.ICPConfig) bool {
	domain := strings.ToLower(c.Domain)
	for _, excluded := range icp.ExcludedDomains {
		if excluded != "" && strings.Contains(domain, strings.ToLower(excluded)) {
			return true
		}
	}
	return s.CompanyScore(c, icp) < s.policy.CompanyExclusionThreshold
}

// matchesAny reports a case-insensitive substring match in either direction
// between value and any entry of the list.
func matchesAny(value string, list []string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	for _, item := range list {
		it := strings.ToLower(strings.TrimSpace(item))
		if it == "" {
			continue
		}
		if strings.Contains(v, it) || strings.Contains(it, v) {
			return true
		}
	}
	return false
}

// containsFold reports whether list contains target, comparing by
// case-insensitive substring in either direction.
func containsFold(list []string, target string) bool {
	t := strings.ToLower(strings.TrimSpace(target))
	if t == "" {
		return false
	}
	for _, item := range list {
		it := strings.ToLower(strings.TrimSpace(item))
		if it == "" {
			continue
		}
		if strings.Contains(it, t) || strings.Contains(t, it) {
			return true
		}
	}
	return false
}
