package icp

import (
	"fmt"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Insights is an advisory summary of an ICP configuration's quality. It
// inspects the profile itself, never scored data, and plays no part in
// scoring.
type Insights struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// AnalyzeICP inspects an ICP configuration and reports qualitative
// strengths, weaknesses, and recommendations.
func AnalyzeICP(icp model.ICPConfig) Insights {
	var ins Insights

	if n := len(icp.Industries); n > 0 {
		ins.Strengths = append(ins.Strengths, fmt.Sprintf("%d target industries narrow discovery to relevant verticals", n))
	} else {
		ins.Weaknesses = append(ins.Weaknesses, "no target industries: every vertical scores the same")
		ins.Recommendations = append(ins.Recommendations, "add 2-5 target industries to sharpen company scoring")
	}

	if n := len(icp.JobTitles); n > 0 {
		ins.Strengths = append(ins.Strengths, fmt.Sprintf("%d target titles enable contact-level fit scoring", n))
	} else {
		ins.Weaknesses = append(ins.Weaknesses, "no target titles: contact scoring falls back to presence signals only")
		ins.Recommendations = append(ins.Recommendations, "list the job titles of your typical buyer")
	}

	if len(icp.TechStack) > 8 {
		ins.Weaknesses = append(ins.Weaknesses, fmt.Sprintf("%d required technologies: proportional matching will dilute most scores", len(icp.TechStack)))
		ins.Recommendations = append(ins.Recommendations, "trim the tech-stack list to the technologies that actually disqualify a lead")
	} else if len(icp.TechStack) > 0 {
		ins.Strengths = append(ins.Strengths, "tech-stack requirements add a strong product-fit signal")
	}

	if len(icp.Geographies) == 0 {
		ins.Recommendations = append(ins.Recommendations, "add target geographies if your sales motion is regional")
	}

	if len(icp.ExcludedDomains) > 0 {
		ins.Strengths = append(ins.Strengths, fmt.Sprintf("%d excluded domains keep known non-fits out of ranked lists", len(icp.ExcludedDomains)))
	}

	if icp.MaxCompanies == 0 {
		ins.Recommendations = append(ins.Recommendations, "set max_companies to bound per-run crawl spend")
	}

	if icp.IsZero() {
		ins.Weaknesses = append(ins.Weaknesses, "profile is empty: every company scores 0 and is excluded")
	}

	return ins
}
