package leadgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/serp"
	"github.com/sells-group/leadgen-cli/internal/store"
)

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, job *model.LeadGenJob) (*serp.Result, error) {
	args := m.Called(ctx, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*serp.Result), args.Error(1)
}

type mockEnricher struct {
	mock.Mock
}

func (m *mockEnricher) Enrich(ctx context.Context, job *model.LeadGenJob, limit int) (*enrich.Result, error) {
	args := m.Called(ctx, job, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrich.Result), args.Error(1)
}

type mockAgent struct {
	mock.Mock
}

func (m *mockAgent) Run(ctx context.Context, req AgentRequest) (*AgentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AgentResult), args.Error(1)
}

// stubGenerator returns canned responses in order, recording prompts.
type stubGenerator struct {
	responses []string
	errs      []error
	prompts   []string
	calls     int
}

func (s *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	i := s.calls
	s.calls++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	var resp string
	if i < len(s.responses) {
		resp = s.responses[i]
	}
	return resp, err
}

func newFixture(t *testing.T, icp *model.ICPConfig) (store.Store, *model.LeadGenJob) {
	t.Helper()
	st, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	pool, err := st.CreatePool(context.Background(), "user-1", "fixture", icp)
	require.NoError(t, err)
	job, err := st.CreateJob(context.Background(), pool.ID, "user-1", model.ProviderToggles{})
	require.NoError(t, err)
	return st, job
}
