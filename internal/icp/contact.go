package icp

import (
	"math"
	"strings"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// seniorTitleKeywords gate the full title award; a matched but non-senior
// title earns the reduced amount instead.
var seniorTitleKeywords = []string{
	"chief", "ceo", "cto", "cfo", "coo", "president", "founder", "owner",
	"vp", "vice president", "head", "director",
}

// genericEmailDomains are consumer mail providers; a corporate address is a
// stronger reachability signal than a personal one.
var genericEmailDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "aol.com",
	"icloud.com", "protonmail.com", "mail.com",
}

// ContactScore computes the 0-100 ICP fit score for a contact candidate.
// companyDomain is the domain of the contact's company, if known. The title
// category only applies when the ICP lists target titles; the remaining
// categories are presence signals and always apply.
func (s *Scorer) ContactScore(c model.ContactCandidate, companyDomain string, icp model.ICPConfig) int {
	var achieved, maxScore float64

	if len(icp.JobTitles) > 0 {
		maxScore += float64(s.policy.TitleWeight)
		if matchesAny(c.Title, icp.JobTitles) {
			// Matching is binary-gated; the amount awarded depends on
			// seniority rather than stacking additively.
			if hasSeniorKeyword(c.Title) {
				achieved += float64(s.policy.TitleWeight)
			} else {
				achieved += float64(s.policy.TitleNonSeniorPoints)
			}
		}
	}

	maxScore += float64(s.policy.LinkedInWeight)
	if c.LinkedInURL != "" {
		achieved += float64(s.policy.LinkedInWeight)
	}

	maxScore += float64(s.policy.EmailWeight)
	if c.Email != "" {
		if isGenericEmailDomain(c.Email) {
			achieved += float64(s.policy.GenericEmailPoints)
		} else {
			achieved += float64(s.policy.EmailWeight)
		}
	}

	maxScore += float64(s.policy.NameWeight)
	if c.Name != "" {
		if len(strings.Fields(c.Name)) >= 2 {
			achieved += float64(s.policy.NameWeight)
		} else {
			achieved += float64(s.policy.PartialNamePoints)
		}
	}

	maxScore += float64(s.policy.CompanyDomainWeight)
	if companyDomain != "" {
		achieved += float64(s.policy.CompanyDomainWeight)
	}

	if maxScore == 0 {
		return 0
	}
	return model.ClampScore(int(math.Round(achieved / maxScore * 100)))
}

// ShouldExcludeContact reports whether a contact must be dropped: no title
// and no email means the fit cannot be evaluated meaningfully, and a score
// below the threshold means a poor fit.
func (s *Scorer) ShouldExcludeContact(c model.ContactCandidate, companyDomain string, icp model.ICPConfig) bool {
	if c.Title == "" && c.Email == "" {
		return true
	}
	return s.ContactScore(c, companyDomain, icp) < s.policy.ContactExclusionThreshold
}

func hasSeniorKeyword(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range seniorTitleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isGenericEmailDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, d := range genericEmailDomains {
		if domain == d {
			return true
		}
	}
	return false
}
