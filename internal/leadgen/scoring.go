package leadgen

import (
	"context"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/icp"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

// Rescorer recomputes blended ICP scores for every candidate and contact in
// a pool. Used by the scoring stage and the ad-hoc score command.
type Rescorer struct {
	store  store.Store
	engine *icp.Scorer
}

// NewRescorer creates a Rescorer over a store and a scoring engine.
func NewRescorer(st store.Store, engine *icp.Scorer) *Rescorer {
	return &Rescorer{store: st, engine: engine}
}

// RescorePool re-scores the whole pool. The persisted score blends the
// fresh ICP score with the prior at 60/40 so repeated runs converge instead
// of oscillating. Per-row failures are logged and skipped.
func (r *Rescorer) RescorePool(ctx context.Context, poolID string) (companies, contacts int, err error) {
	pool, err := r.store.GetPool(ctx, poolID)
	if err != nil {
		return 0, 0, eris.Wrap(err, "leadgen: load pool for scoring")
	}
	// An empty profile scores everything 0, and blending would only decay
	// prior scores. Leave existing scores untouched.
	if pool.ICP == nil || pool.ICP.IsZero() {
		return 0, 0, nil
	}
	icpCfg := *pool.ICP

	candidates, err := r.store.ListCandidates(ctx, store.CandidateFilter{PoolID: poolID})
	if err != nil {
		return 0, 0, eris.Wrap(err, "leadgen: list candidates for scoring")
	}

	for _, cand := range candidates {
		fresh := r.engine.CompanyScore(cand, icpCfg)
		blended := BlendScores(fresh, cand.Score)
		if err := r.store.UpdateCandidateScore(ctx, cand.ID, blended); err != nil {
			zap.L().Warn("leadgen: update candidate score failed",
				zap.String("domain", cand.Domain), zap.Error(err))
			continue
		}
		companies++

		list, err := r.store.ListContacts(ctx, cand.ID)
		if err != nil {
			zap.L().Warn("leadgen: list contacts failed",
				zap.String("domain", cand.Domain), zap.Error(err))
			continue
		}
		for _, contact := range list {
			freshContact := r.engine.ContactScore(contact, cand.Domain, icpCfg)
			blendedContact := BlendScores(freshContact, contact.Score)
			if err := r.store.UpdateContactScore(ctx, contact.ID, blendedContact); err != nil {
				zap.L().Warn("leadgen: update contact score failed",
					zap.String("contact_id", contact.ID), zap.Error(err))
				continue
			}
			contacts++
		}
	}

	return companies, contacts, nil
}

// BlendScores mixes a fresh ICP score with the previously persisted score
// at 60/40, rounded half away from zero, clamped to [0,100].
func BlendScores(fresh, prior int) int {
	return model.ClampScore(int(math.Round(float64(fresh)*0.6 + float64(prior)*0.4)))
}
