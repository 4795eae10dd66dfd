package icp

import (
	"sort"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// RankedCompany pairs a candidate with its computed score.
type RankedCompany struct {
	Candidate model.LeadCandidate `json:"candidate"`
	Score     int                 `json:"score"`
}

// RankedContact pairs a contact with its computed score.
type RankedContact struct {
	Contact model.ContactCandidate `json:"contact"`
	Score   int                    `json:"score"`
}

// RankCompanies scores every candidate, drops excluded ones, and returns the
// remainder sorted by score descending. Ties keep input order (stable sort).
func (s *Scorer) RankCompanies(candidates []model.LeadCandidate, icp model.ICPConfig) []RankedCompany {
	ranked := make([]RankedCompany, 0, len(candidates))
	for _, c := range candidates {
		if s.ShouldExcludeCompany(c, icp) {
			continue
		}
		ranked = append(ranked, RankedCompany{Candidate: c, Score: s.CompanyScore(c, icp)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// RankContacts scores every contact, drops excluded ones, and returns the
// remainder sorted by score descending. domains maps candidate IDs to their
// company domains.
func (s *Scorer) RankContacts(contacts []model.ContactCandidate, domains map[string]string, icp model.ICPConfig) []RankedContact {
	ranked := make([]RankedContact, 0, len(contacts))
	for _, c := range contacts {
		domain := domains[c.CandidateID]
		if s.ShouldExcludeContact(c, domain, icp) {
			continue
		}
		ranked = append(ranked, RankedContact{Contact: c, Score: s.ContactScore(c, domain, icp)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
