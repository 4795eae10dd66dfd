package leadgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

func TestLLMAgent_SavesLeadsAndContacts(t *testing.T) {
	st, job := newFixture(t, nil)

	gen := &stubGenerator{responses: []string{`Here are the companies:
[
  {"name": "Acme Roofing", "domain": "https://www.acme.com", "description": "Roofs", "industry": "Roofing",
   "contact_name": "Jane Smith", "contact_title": "CEO"},
  {"name": "North Co", "domain": "north.ca", "industry": "Roofing"}
]`}}

	res, err := NewLLMAgent(gen, st).Run(context.Background(), AgentRequest{
		JobID:       job.ID,
		PoolID:      job.PoolID,
		TargetCount: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.CompaniesSaved)
	assert.Equal(t, 1, res.ContactsSaved)
	assert.Equal(t, 1, res.Iterations)

	cands, err := st.ListCandidates(context.Background(), store.CandidateFilter{PoolID: job.PoolID})
	require.NoError(t, err)
	require.Len(t, cands, 2)

	byDomain := map[string]model.LeadCandidate{}
	for _, c := range cands {
		byDomain[c.Domain] = c
	}
	require.Contains(t, byDomain, "acme.com") // URL reduced to bare domain
	assert.Equal(t, "Acme Roofing", byDomain["acme.com"].Name)

	contacts, err := st.ListContacts(context.Background(), byDomain["acme.com"].ID)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Jane Smith", contacts[0].Name)
}

func TestLLMAgent_SkipsExcludedAndDuplicateDomains(t *testing.T) {
	st, job := newFixture(t, nil)

	gen := &stubGenerator{responses: []string{`[
		{"name": "Banned", "domain": "competitor.com"},
		{"name": "Twice", "domain": "twice.com"},
		{"name": "Twice again", "domain": "www.twice.com"}
	]`}}

	res, err := NewLLMAgent(gen, st).Run(context.Background(), AgentRequest{
		JobID:       job.ID,
		PoolID:      job.PoolID,
		ICP:         model.ICPConfig{ExcludedDomains: []string{"competitor.com"}},
		TargetCount: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.CompaniesSaved)
}

func TestLLMAgent_UnparseableOutputRetries(t *testing.T) {
	st, job := newFixture(t, nil)

	gen := &stubGenerator{responses: []string{
		"I could not find anything.",
		"still nothing",
		"sorry",
	}}

	res, err := NewLLMAgent(gen, st).Run(context.Background(), AgentRequest{
		JobID: job.ID, PoolID: job.PoolID, TargetCount: 5,
	})
	require.NoError(t, err)
	assert.Zero(t, res.CompaniesSaved)
	assert.Equal(t, 3, res.Iterations) // exhausted all attempts
}

func TestLLMAgent_MaxIterationsOption(t *testing.T) {
	st, job := newFixture(t, nil)

	gen := &stubGenerator{responses: []string{
		"nothing usable", "still nothing", "sorry", "give up",
	}}

	res, err := NewLLMAgent(gen, st, WithMaxIterations(2)).Run(context.Background(), AgentRequest{
		JobID: job.ID, PoolID: job.PoolID, TargetCount: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Iterations)

	// Non-positive overrides keep the default cap.
	gen2 := &stubGenerator{responses: []string{"a", "b", "c", "d"}}
	res, err = NewLLMAgent(gen2, st, WithMaxIterations(0)).Run(context.Background(), AgentRequest{
		JobID: job.ID, PoolID: job.PoolID, TargetCount: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Iterations)
}

func TestLLMAgent_GenerateErrorPropagates(t *testing.T) {
	st, job := newFixture(t, nil)

	gen := &stubGenerator{errs: []error{assert.AnError}}
	res, err := NewLLMAgent(gen, st).Run(context.Background(), AgentRequest{
		JobID: job.ID, PoolID: job.PoolID,
	})
	require.Error(t, err)
	assert.Equal(t, 1, res.Iterations)
}

func TestLLMAgent_PromptCarriesICPAndExclusions(t *testing.T) {
	st, job := newFixture(t, nil)

	gen := &stubGenerator{responses: []string{
		`[{"name": "One", "domain": "one.com"}]`,
		`[]`,
		`[]`,
	}}

	_, err := NewLLMAgent(gen, st).Run(context.Background(), AgentRequest{
		JobID:  job.ID,
		PoolID: job.PoolID,
		ICP: model.ICPConfig{
			Industries:  []string{"Roofing"},
			Geographies: []string{"Toronto"},
		},
		TargetCount: 5,
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(gen.prompts), 2)
	assert.Contains(t, gen.prompts[0], "Roofing")
	assert.Contains(t, gen.prompts[0], "Toronto")
	assert.Contains(t, gen.prompts[0], "JSON array")
	// Later iterations must tell the model what it already produced.
	assert.Contains(t, gen.prompts[1], "one.com")
}

func TestLLMAgent_NilGeneratorIsAnError(t *testing.T) {
	st, _ := newFixture(t, nil)
	_, err := NewLLMAgent(nil, st).Run(context.Background(), AgentRequest{})
	require.Error(t, err)
}
