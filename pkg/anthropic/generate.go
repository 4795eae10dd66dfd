package anthropic

import (
	"context"

	"github.com/rotisserie/eris"
)

// Generator adapts a Client to the prompt-in, text-out contract that
// ranking and enrichment code consumes.
type Generator struct {
	client    Client
	model     string
	maxTokens int64
	phase     string
}

// NewGenerator creates a Generator. phase tags cost-attribution log lines.
func NewGenerator(client Client, model string, maxTokens int64, phase string) *Generator {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Generator{client: client, model: model, maxTokens: maxTokens, phase: phase}
}

// GenerateText sends a single-turn prompt and returns the response text.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateMessage(ctx, MessageRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages:  []Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", eris.Wrap(err, "anthropic: generate text")
	}
	resp.Usage.LogCost(g.model, g.phase)
	return resp.Text(), nil
}
