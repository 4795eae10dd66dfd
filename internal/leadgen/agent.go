package leadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/crawl"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

// AgentRequest carries everything the autonomous branch needs for one run.
type AgentRequest struct {
	JobID       string
	UserID      string
	PoolID      string
	ICP         model.ICPConfig
	TargetCount int
}

// AgentResult summarizes one agent run.
type AgentResult struct {
	CompaniesSaved int
	ContactsSaved  int
	Iterations     int
}

// Agent is the autonomous lead-finding branch.
type Agent interface {
	Run(ctx context.Context, req AgentRequest) (*AgentResult, error)
}

// TextGenerator produces free-form text from a prompt. Satisfied by
// pkg/anthropic.Generator.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// agentLead is the shape the model is asked to emit per company.
type agentLead struct {
	Name         string `json:"name"`
	Domain       string `json:"domain"`
	Description  string `json:"description"`
	Industry     string `json:"industry"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactTitle string `json:"contact_title,omitempty"`
}

// LLMAgent asks the model for lead candidates iteratively until the target
// count is reached or iterations run out.
type LLMAgent struct {
	gen           TextGenerator
	store         store.Store
	maxIterations int
}

// AgentOption configures an LLMAgent.
type AgentOption func(*LLMAgent)

// WithMaxIterations caps the prompt-parse-save rounds per run.
func WithMaxIterations(n int) AgentOption {
	return func(a *LLMAgent) {
		if n > 0 {
			a.maxIterations = n
		}
	}
}

// NewLLMAgent creates an agent capped at 3 iterations unless overridden.
func NewLLMAgent(gen TextGenerator, st store.Store, opts ...AgentOption) *LLMAgent {
	a := &LLMAgent{gen: gen, store: st, maxIterations: 3}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run iterates prompt-parse-save rounds. Domains already saved are fed back
// into the next prompt as exclusions so the model does not repeat itself.
func (a *LLMAgent) Run(ctx context.Context, req AgentRequest) (*AgentResult, error) {
	if a.gen == nil {
		return nil, eris.New("leadgen: agent has no text generator")
	}

	target := req.TargetCount
	if target <= 0 {
		target = 25
	}

	res := &AgentResult{}
	saved := make(map[string]bool)
	excluded := make(map[string]bool, len(req.ICP.ExcludedDomains))
	for _, d := range req.ICP.ExcludedDomains {
		excluded[strings.ToLower(strings.TrimSpace(d))] = true
	}

	for res.Iterations < a.maxIterations && res.CompaniesSaved < target {
		res.Iterations++

		text, err := a.gen.GenerateText(ctx, buildAgentPrompt(req.ICP, target-res.CompaniesSaved, saved))
		if err != nil {
			return res, eris.Wrap(err, "leadgen: agent generate")
		}

		leads, ok := parseAgentLeads(text)
		if !ok {
			zap.L().Warn("leadgen: agent returned unparseable output",
				zap.Int("iteration", res.Iterations))
			continue
		}

		for _, lead := range leads {
			if res.CompaniesSaved >= target {
				break
			}
			domain := crawl.DomainOf(lead.Domain)
			if domain == "" || saved[domain] || excluded[domain] {
				continue
			}

			cand, err := a.store.UpsertCandidate(ctx, &model.LeadCandidate{
				PoolID:      req.PoolID,
				JobID:       req.JobID,
				Domain:      domain,
				Name:        strings.TrimSpace(lead.Name),
				Description: strings.TrimSpace(lead.Description),
				Industry:    strings.TrimSpace(lead.Industry),
			})
			if err != nil {
				zap.L().Warn("leadgen: agent upsert failed",
					zap.String("domain", domain), zap.Error(err))
				continue
			}
			saved[domain] = true
			res.CompaniesSaved++

			if name := strings.TrimSpace(lead.ContactName); name != "" {
				_, err := a.store.CreateContact(ctx, &model.ContactCandidate{
					CandidateID: cand.ID,
					Name:        name,
					Title:       strings.TrimSpace(lead.ContactTitle),
				})
				if err != nil {
					zap.L().Warn("leadgen: agent contact failed",
						zap.String("domain", domain), zap.Error(err))
					continue
				}
				res.ContactsSaved++
			}
		}
	}

	return res, nil
}

func buildAgentPrompt(icp model.ICPConfig, want int, saved map[string]bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Find %d real companies matching this customer profile.\n\n", want)

	if len(icp.Industries) > 0 {
		fmt.Fprintf(&b, "Industries: %s\n", strings.Join(icp.Industries, ", "))
	}
	if len(icp.Geographies) > 0 {
		fmt.Fprintf(&b, "Locations: %s\n", strings.Join(icp.Geographies, ", "))
	}
	if len(icp.CompanySizes) > 0 {
		fmt.Fprintf(&b, "Company sizes: %s\n", strings.Join(icp.CompanySizes, ", "))
	}
	if len(icp.TechStack) > 0 {
		fmt.Fprintf(&b, "Using technologies: %s\n", strings.Join(icp.TechStack, ", "))
	}
	if len(saved) > 0 {
		var domains []string
		for d := range saved {
			domains = append(domains, d)
		}
		fmt.Fprintf(&b, "\nAlready found, do not repeat: %s\n", strings.Join(domains, ", "))
	}

	b.WriteString("\nRespond with ONLY a JSON array. Each element: " +
		`{"name", "domain", "description", "industry", "contact_name", "contact_title"}. ` +
		"Use real companies with real domains. Omit contact fields when unknown.")
	return b.String()
}

// parseAgentLeads extracts the first JSON array from model output, tolerating
// surrounding prose.
func parseAgentLeads(text string) ([]agentLead, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, false
	}
	var leads []agentLead
	if err := json.Unmarshal([]byte(text[start:end+1]), &leads); err != nil {
		return nil, false
	}
	return leads, true
}
