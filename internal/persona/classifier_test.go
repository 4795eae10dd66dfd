package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_EmptyInput(t *testing.T) {
	assert.Nil(t, Classify(""))
	assert.Nil(t, Classify("   "))
}

func TestClassify_Triples(t *testing.T) {
	tests := []struct {
		title   string
		ladder  Ladder
		dept    Department
		persona Persona
		normal  string
	}{
		{
			title:   "Chief Technology Officer",
			ladder:  LadderCSuite,
			dept:    DeptEngineering,
			persona: PersonaTechDecisionMaker,
			normal:  "Chief Technology Officer",
		},
		{
			title:   "VP of Sales",
			ladder:  LadderVP,
			dept:    DeptSales,
			persona: PersonaBusinessDecisionMaker,
			normal:  "VP of Sales",
		},
		{
			title:   "Vice President of Sales",
			ladder:  LadderVP,
			dept:    DeptSales,
			persona: PersonaBusinessDecisionMaker,
			normal:  "VP of Sales",
		},
		{
			title:   "President",
			ladder:  LadderCSuite,
			dept:    DeptOther,
			persona: PersonaBusinessDecisionMaker,
			normal:  "Chief Executive Officer",
		},
		{
			title:   "Senior Vice President, Engineering",
			ladder:  LadderVP,
			dept:    DeptEngineering,
			persona: PersonaTechDecisionMaker,
			normal:  "VP of Engineering",
		},
		{
			title:   "CEO",
			ladder:  LadderCSuite,
			dept:    DeptOther,
			persona: PersonaBusinessDecisionMaker,
			normal:  "Chief Executive Officer",
		},
		{
			title:   "Director of Marketing",
			ladder:  LadderDirector,
			dept:    DeptMarketing,
			persona: PersonaBusinessDecisionMaker,
			normal:  "Director of Marketing",
		},
		{
			title:   "Engineering Manager",
			ladder:  LadderManager,
			dept:    DeptEngineering,
			persona: PersonaTechDecisionMaker,
			normal:  "Manager of Engineering",
		},
		{
			title:   "Software Engineer",
			ladder:  LadderIC,
			dept:    DeptEngineering,
			persona: PersonaIndividualContributor,
			normal:  "Software Engineer",
		},
		{
			title:   "Senior Talent Acquisition Specialist",
			ladder:  LadderIC,
			dept:    DeptHR,
			persona: PersonaRecruiter,
			normal:  "Senior Talent Acquisition Specialist",
		},
		{
			title:   "Payroll Accountant",
			ladder:  LadderIC,
			dept:    DeptFinance,
			persona: PersonaFinanceOps,
			normal:  "Payroll Accountant",
		},
		{
			title:   "Head of Security Compliance",
			ladder:  LadderDirector,
			dept:    DeptEngineering, // security re-routes past customer success
			persona: PersonaTechDecisionMaker,
			normal:  "Director of Engineering",
		},
		{
			title:   "Chief Information Security Officer",
			ladder:  LadderCSuite,
			dept:    DeptEngineering,
			persona: PersonaTechDecisionMaker,
			normal:  "Chief Information Security Officer",
		},
		{
			title:   "Customer Success Manager",
			ladder:  LadderManager,
			dept:    DeptCustomerSuccess,
			persona: PersonaIndividualContributor,
			normal:  "Manager of Customer Success",
		},
		{
			title:   "VP of Data Analytics",
			ladder:  LadderVP,
			dept:    DeptData,
			persona: PersonaTechDecisionMaker,
			normal:  "VP of Data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := Classify(tt.title)
			require.NotNil(t, got)
			assert.Equal(t, tt.ladder, got.Ladder, "ladder")
			assert.Equal(t, tt.dept, got.Department, "department")
			assert.Equal(t, tt.persona, got.Persona, "persona")
			assert.Equal(t, tt.normal, got.NormalizedTitle, "normalized title")
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	a := Classify("Senior Director of Product Engineering")
	b := Classify("Senior Director of Product Engineering")
	assert.Equal(t, a, b)
}

func TestClassify_UnknownTitlePassesThrough(t *testing.T) {
	got := Classify("Wizard of Light Bulb Moments")
	require.NotNil(t, got)
	assert.Equal(t, LadderOther, got.Ladder)
	assert.Equal(t, DeptOther, got.Department)
	assert.Equal(t, PersonaIndividualContributor, got.Persona)
	assert.Equal(t, "Wizard of Light Bulb Moments", got.NormalizedTitle)
}
