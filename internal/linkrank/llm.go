package linkrank

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// TextGenerator is the language-model contract the refinement pass needs:
// prompt in, generated text out.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// LLMRanker wraps a BaseRanker with a best-effort LLM re-ranking pass over
// the top heuristic results. Every failure mode, including a nil generator,
// falls back to the heuristic order; refinement is never a dependency for
// correctness.
type LLMRanker struct {
	base *BaseRanker
	gen  TextGenerator
}

// NewLLMRanker creates an LLMRanker. gen may be nil, in which case ranking
// is purely heuristic.
func NewLLMRanker(base *BaseRanker, gen TextGenerator) *LLMRanker {
	return &LLMRanker{base: base, gen: gen}
}

// Rank returns the heuristic order, refined by the language model when one
// is configured and it produces a usable response.
func (r *LLMRanker) Rank(ctx context.Context, req Request) []RankedLink {
	ranked := r.base.Rank(req)
	if r.gen == nil || len(ranked) < 2 {
		return ranked
	}

	limit := r.base.policy.RefinementLimit
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	head, tail := ranked[:limit], ranked[limit:]

	resp, err := r.gen.GenerateText(ctx, buildRefinementPrompt(req, head))
	if err != nil {
		// Expected, normal operation. The heuristic order stands.
		zap.L().Debug("linkrank: refinement unavailable", zap.Error(err))
		return ranked
	}

	order, ok := parseRankedURLs(resp)
	if !ok {
		zap.L().Debug("linkrank: unparseable refinement response")
		return ranked
	}

	refined := applyRefinedOrder(head, order)
	return append(refined, tail...)
}

func buildRefinementPrompt(req Request, head []RankedLink) string {
	var b strings.Builder
	b.WriteString("You are prioritizing pages to crawl on " + req.Domain + " to find company and contact information.\n")

	var icpParts []string
	if len(req.ICP.Industries) > 0 {
		icpParts = append(icpParts, "industries: "+strings.Join(req.ICP.Industries, ", "))
	}
	if len(req.ICP.Geographies) > 0 {
		icpParts = append(icpParts, "geographies: "+strings.Join(req.ICP.Geographies, ", "))
	}
	if len(req.ICP.JobTitles) > 0 {
		icpParts = append(icpParts, "target titles: "+strings.Join(req.ICP.JobTitles, ", "))
	}
	if len(icpParts) > 0 {
		b.WriteString("Ideal customer profile: " + strings.Join(icpParts, "; ") + "\n")
	}

	b.WriteString("\nCandidate URLs with heuristic scores:\n")
	for _, l := range head {
		fmt.Fprintf(&b, "%d %s\n", l.Score, l.URL)
	}
	b.WriteString("\nReturn ONLY a JSON array of the URLs, reordered from highest to lowest expected contact yield. Do not add URLs that are not in the list.")
	return b.String()
}

// parseRankedURLs extracts a JSON string array from model output that may
// carry surrounding prose.
func parseRankedURLs(text string) ([]string, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, false
	}
	var urls []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &urls); err != nil {
		return nil, false
	}
	if len(urls) == 0 {
		return nil, false
	}
	return urls, true
}

// applyRefinedOrder reorders head by the model's URL sequence, discarding
// hallucinated URLs and appending anything the model omitted in heuristic
// order.
func applyRefinedOrder(head []RankedLink, order []string) []RankedLink {
	byURL := make(map[string]RankedLink, len(head))
	for _, l := range head {
		byURL[l.URL] = l
	}

	used := make(map[string]bool, len(order))
	refined := make([]RankedLink, 0, len(head))
	for _, raw := range order {
		u := Normalize(raw)
		l, ok := byURL[u]
		if !ok || used[u] {
			continue
		}
		used[u] = true
		refined = append(refined, l)
	}
	for _, l := range head {
		if !used[l.URL] {
			refined = append(refined, l)
		}
	}
	return refined
}
