package intel

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/adjuster-intel/internal/classify"
	"github.com/sells-group/adjuster-intel/internal/model"
)

// Adjuster computes the intelligence record for one adjuster. It returns
// ErrNotFound when the ID does not resolve.
func (e *Engine) Adjuster(ctx context.Context, id string) (*model.AdjusterIntelligence, error) {
	adj, err := e.reader.GetAdjuster(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "intel: get adjuster %s", id)
	}
	if adj == nil {
		return nil, ErrNotFound
	}

	interactions, err := e.reader.GetInteractionsByAdjuster(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "intel: interactions for adjuster %s", id)
	}
	claims, err := e.reader.GetClaimsByAdjuster(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "intel: claims for adjuster %s", id)
	}

	var supplements []model.Supplement
	if len(claims) > 0 {
		supplements, err = e.reader.GetSupplementsByClaimIDs(ctx, model.ClaimIDs(claims))
		if err != nil {
			return nil, eris.Wrapf(err, "intel: supplements for adjuster %s", id)
		}
	}

	out := ComputeAdjuster(*adj, claims, interactions, supplements)
	zap.L().Debug("intel: adjuster computed",
		zap.String("adjuster_id", id),
		zap.Int("claims", out.TotalClaims),
		zap.Int("interactions", out.TotalInteractions),
		zap.Strings("tags", out.PatternTags),
	)
	return out, nil
}

// ComputeAdjuster derives an AdjusterIntelligence from one adjuster's
// records. It never fails: missing data yields nil fields.
func ComputeAdjuster(adj model.Adjuster, claims []model.Claim, interactions []model.Interaction, supplements []model.Supplement) *model.AdjusterIntelligence {
	var t tally
	countInteractions(&t, interactions)
	countClaims(&t, claims)
	res := resolution(claims, byClaim(interactions))

	return &model.AdjusterIntelligence{
		AdjusterID:              adj.ID,
		TotalInteractions:       t.totalInteractions,
		TotalClaims:             t.totalClaims,
		EscalationCount:         t.escalations,
		ReinspectionCount:       t.reinspections,
		AvgDaysToResolution:     res.avgDays,
		OutcomesResolved:        t.resolved,
		OutcomesStalled:         t.stalled,
		OutcomesOpen:            t.open,
		PatternTags:             patternTags(t, res),
		RiskScore:               classify.ScoreRiskNote(adj.RiskImpression),
		ResponsivenessScore:     responsiveness(res.avgDays),
		CooperationLevel:        cooperation(t),
		SupplementApprovalRate:  supplementRate(supplements),
		AvgInteractionsPerClaim: perClaim(t.totalInteractions, t.totalClaims),
	}
}

// responsiveness steps average days to resolution down to a 30-90 score.
func responsiveness(avgDays *int) *int {
	if avgDays == nil {
		return nil
	}
	switch d := *avgDays; {
	case d <= 14:
		return ptr(90)
	case d <= 30:
		return ptr(75)
	case d <= 45:
		return ptr(60)
	case d <= 60:
		return ptr(45)
	default:
		return ptr(30)
	}
}

// cooperation needs at least two claims. Open claims count as not-yet-failed
// alongside resolved ones.
func cooperation(t tally) *model.CooperationLevel {
	if t.totalClaims < 2 {
		return nil
	}
	resolvedRatio := ratio(t.resolved+t.open, t.totalClaims)
	escalationRatio := ratio(t.escalations, t.totalInteractions)

	switch {
	case resolvedRatio > 0.7 && escalationRatio < 0.15:
		return ptr(model.CooperationHigh)
	case resolvedRatio > 0.4 && escalationRatio < 0.3:
		return ptr(model.CooperationModerate)
	default:
		return ptr(model.CooperationLow)
	}
}
