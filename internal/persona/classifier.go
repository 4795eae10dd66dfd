// Package persona classifies free-text job titles into a standardized
// seniority/department/persona triple used for display and ICP title
// matching. Classification is pure: same input, same output.
package persona

import (
	"regexp"
	"strings"
)

// Ladder is the seniority rung of a job title.
type Ladder string

const (
	LadderCSuite   Ladder = "C-SUITE"
	LadderVP       Ladder = "VP"
	LadderDirector Ladder = "DIRECTOR"
	LadderManager  Ladder = "MANAGER"
	LadderIC       Ladder = "IC"
	LadderOther    Ladder = "OTHER"
)

// Department is the functional area of a job title.
type Department string

const (
	DeptEngineering     Department = "ENGINEERING"
	DeptProduct         Department = "PRODUCT"
	DeptMarketing       Department = "MARKETING"
	DeptSales           Department = "SALES"
	DeptHR              Department = "HR"
	DeptFinance         Department = "FINANCE"
	DeptOperations      Department = "OPERATIONS"
	DeptIT              Department = "IT"
	DeptData            Department = "DATA"
	DeptCustomerSuccess Department = "CUSTOMER_SUCCESS"
	DeptOther           Department = "OTHER"
)

// Persona is a coarse buying-role tag derived from title and department.
type Persona string

const (
	PersonaRecruiter             Persona = "RECRUITER"
	PersonaFinanceOps            Persona = "FINANCE_OPS"
	PersonaPeopleOps             Persona = "PEOPLE_OPS"
	PersonaTechDecisionMaker     Persona = "TECH_DECISION_MAKER"
	PersonaBusinessDecisionMaker Persona = "BUSINESS_DECISION_MAKER"
	PersonaIndividualContributor Persona = "INDIVIDUAL_CONTRIBUTOR"
)

// NormalizedTitle is the derived classification of a raw job title. It is a
// value object, never persisted.
type NormalizedTitle struct {
	NormalizedTitle string     `json:"normalized_title"`
	Ladder          Ladder     `json:"ladder"`
	Department      Department `json:"department"`
	Persona         Persona    `json:"persona"`
}

type deptRule struct {
	re   *regexp.Regexp
	dept Department
}

// departmentRules is a flat ordered rule list; the first matching entry
// wins. A department may appear more than once: the trailing security entry
// re-routes security/compliance titles to ENGINEERING even though it sits
// after every other department's rules, so the whole list must be walked.
var departmentRules = []deptRule{
	{regexp.MustCompile(`engineer|software|developer|devops|technology|technical|architect`), DeptEngineering},
	{regexp.MustCompile(`product`), DeptProduct},
	{regexp.MustCompile(`marketing|growth|content|brand|seo|demand gen`), DeptMarketing},
	{regexp.MustCompile(`sales|account executive|business development|revenue`), DeptSales},
	{regexp.MustCompile(`human resources|\bhr\b|people|talent|recruit`), DeptHR},
	{regexp.MustCompile(`finance|financial|accounting|accountant|controller|treasury|payroll`), DeptFinance},
	{regexp.MustCompile(`operations|logistics|supply chain|procurement`), DeptOperations},
	{regexp.MustCompile(`\bit\b|information technology|sysadmin|system administrator|helpdesk|infrastructure`), DeptIT},
	{regexp.MustCompile(`\bdata\b|analytics|machine learning|\bai\b|business intelligence`), DeptData},
	{regexp.MustCompile(`customer success|customer support|customer experience|account manager|onboarding`), DeptCustomerSuccess},
	{regexp.MustCompile(`security|compliance|infosec|\bgrc\b`), DeptEngineering},
}

type ladderRule struct {
	re     *regexp.Regexp
	ladder Ladder
}

var ladderRules = []ladderRule{
	{regexp.MustCompile(`\bchief\b|\bceo\b|\bcto\b|\bcfo\b|\bcoo\b|\bcmo\b|\bcio\b|\bciso\b|\bcpo\b|\bcro\b|\bchro\b|\bcdo\b|founder|co-founder|\bowner\b`), LadderCSuite},
	{regexp.MustCompile(`vice president|\bvp\b|\bsvp\b|\bevp\b`), LadderVP},
	{regexp.MustCompile(`director|head of`), LadderDirector},
	{regexp.MustCompile(`manager|\blead\b|supervisor`), LadderManager},
	{regexp.MustCompile(`engineer|developer|designer|analyst|specialist|consultant|representative|coordinator|recruiter|accountant|scientist|administrator|associate`), LadderIC},
}

// A bare "president" is C-suite, but RE2 has no lookbehind, so the rule
// table cannot say "president not preceded by vice". Handled as a guarded
// check ahead of the table instead.
var (
	presidentRe     = regexp.MustCompile(`\bpresident\b`)
	vicePresidentRe = regexp.MustCompile(`\b(?:vice|deputy|assistant) president\b`)
)

type chiefVariant struct {
	re    *regexp.Regexp
	title string
}

// chiefVariants disambiguates C-suite titles. CISO must precede CIO so
// "chief information security" is not swallowed by "chief information".
var chiefVariants = []chiefVariant{
	{regexp.MustCompile(`\bciso\b|chief information security`), "Chief Information Security Officer"},
	{regexp.MustCompile(`\bcto\b|chief technology|chief technical`), "Chief Technology Officer"},
	{regexp.MustCompile(`\bcfo\b|chief financial`), "Chief Financial Officer"},
	{regexp.MustCompile(`\bcoo\b|chief operating`), "Chief Operating Officer"},
	{regexp.MustCompile(`\bcmo\b|chief marketing`), "Chief Marketing Officer"},
	{regexp.MustCompile(`\bcio\b|chief information`), "Chief Information Officer"},
	{regexp.MustCompile(`\bcpo\b|chief product`), "Chief Product Officer"},
	{regexp.MustCompile(`\bcro\b|chief revenue`), "Chief Revenue Officer"},
	{regexp.MustCompile(`\bchro\b|chief human resources|chief people`), "Chief Human Resources Officer"},
	{regexp.MustCompile(`\bcdo\b|chief data`), "Chief Data Officer"},
	{regexp.MustCompile(`\bceo\b|chief executive`), "Chief Executive Officer"},
}

var recruitingKeywords = regexp.MustCompile(`recruit|talent acquisition|sourcer|headhunter`)

var securityKeywords = regexp.MustCompile(`security|compliance|infosec|\bgrc\b`)

var techKeywords = regexp.MustCompile(`tech|engineering|software|information|digital`)

// displayNames maps departments to their canonical-title form.
var displayNames = map[Department]string{
	DeptEngineering:     "Engineering",
	DeptProduct:         "Product",
	DeptMarketing:       "Marketing",
	DeptSales:           "Sales",
	DeptHR:              "HR",
	DeptFinance:         "Finance",
	DeptOperations:      "Operations",
	DeptIT:              "IT",
	DeptData:            "Data",
	DeptCustomerSuccess: "Customer Success",
	DeptOther:           "Operations",
}

// Classify maps a raw job title to its normalized form, ladder, department,
// and persona. Returns nil for empty input.
func Classify(rawTitle string) *NormalizedTitle {
	title := strings.TrimSpace(rawTitle)
	if title == "" {
		return nil
	}
	lower := strings.ToLower(title)

	dept := classifyDepartment(lower)
	ladder := classifyLadder(lower)

	return &NormalizedTitle{
		NormalizedTitle: toCanonical(title, lower, ladder, dept),
		Ladder:          ladder,
		Department:      dept,
		Persona:         derivePersona(lower, ladder, dept),
	}
}

func classifyDepartment(lower string) Department {
	for _, rule := range departmentRules {
		if rule.re.MatchString(lower) {
			return rule.dept
		}
	}
	return DeptOther
}

func classifyLadder(lower string) Ladder {
	if presidentRe.MatchString(lower) && !vicePresidentRe.MatchString(lower) {
		return LadderCSuite
	}
	for _, rule := range ladderRules {
		if rule.re.MatchString(lower) {
			return rule.ladder
		}
	}
	return LadderOther
}

// toCanonical synthesizes the display title. C-suite titles resolve to a
// known chief-officer variant; VP/Director/Manager become "<Rung> of
// <Department>"; everything else passes through unchanged.
func toCanonical(original, lower string, ladder Ladder, dept Department) string {
	switch ladder {
	case LadderCSuite:
		for _, v := range chiefVariants {
			if v.re.MatchString(lower) {
				return v.title
			}
		}
		return "Chief Executive Officer"
	case LadderVP:
		return "VP of " + displayNames[dept]
	case LadderDirector:
		return "Director of " + displayNames[dept]
	case LadderManager:
		return "Manager of " + displayNames[dept]
	default:
		return original
	}
}

func derivePersona(lower string, ladder Ladder, dept Department) Persona {
	if recruitingKeywords.MatchString(lower) {
		return PersonaRecruiter
	}
	if dept == DeptFinance {
		return PersonaFinanceOps
	}
	if dept == DeptHR {
		return PersonaPeopleOps
	}
	// Security/compliance owners hold technical budget regardless of rung.
	if securityKeywords.MatchString(lower) {
		return PersonaTechDecisionMaker
	}

	technicalDept := dept == DeptEngineering || dept == DeptIT || dept == DeptData

	switch ladder {
	case LadderCSuite, LadderVP, LadderDirector:
		if technicalDept || techKeywords.MatchString(lower) {
			return PersonaTechDecisionMaker
		}
		return PersonaBusinessDecisionMaker
	case LadderManager:
		if technicalDept {
			return PersonaTechDecisionMaker
		}
	}
	return PersonaIndividualContributor
}
