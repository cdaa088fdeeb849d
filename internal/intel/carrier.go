package intel

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/adjuster-intel/internal/classify"
	"github.com/sells-group/adjuster-intel/internal/model"
)

// Carrier computes the intelligence record for every adjuster and claim whose
// carrier field equals name exactly. It returns ErrNotFound when neither
// table has a match.
func (e *Engine) Carrier(ctx context.Context, name string) (*model.CarrierIntelligence, error) {
	var allAdjusters []model.Adjuster
	var allClaims []model.Claim

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		allAdjusters, err = e.reader.GetAllAdjusters(gctx)
		return eris.Wrap(err, "intel: list adjusters")
	})
	g.Go(func() error {
		var err error
		allClaims, err = e.reader.GetAllClaims(gctx)
		return eris.Wrap(err, "intel: list claims")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	adjusters := filterAdjusters(allAdjusters, name)
	claims := filterClaims(allClaims, name)
	if len(adjusters) == 0 && len(claims) == 0 {
		return nil, ErrNotFound
	}

	interactions, err := e.carrierInteractions(ctx, adjusters, claims)
	if err != nil {
		return nil, err
	}

	var supplements []model.Supplement
	if len(claims) > 0 {
		supplements, err = e.reader.GetSupplementsByClaimIDs(ctx, model.ClaimIDs(claims))
		if err != nil {
			return nil, eris.Wrapf(err, "intel: supplements for carrier %s", name)
		}
	}

	out := ComputeCarrier(name, adjusters, claims, interactions, supplements)
	zap.L().Debug("intel: carrier computed",
		zap.String("carrier", name),
		zap.Int("adjusters", out.TotalAdjusters),
		zap.Int("claims", out.TotalClaims),
		zap.Int("interactions", out.TotalInteractions),
	)
	return out, nil
}

// carrierInteractions returns the claim-linked interactions followed by any
// adjuster-linked interactions not already seen.
func (e *Engine) carrierInteractions(ctx context.Context, adjusters []model.Adjuster, claims []model.Claim) ([]model.Interaction, error) {
	claimLinked, err := e.claimInteractions(ctx, model.ClaimIDs(claims))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(claimLinked))
	out := make([]model.Interaction, 0, len(claimLinked))
	add := func(in model.Interaction) {
		if _, dup := seen[in.ID]; dup {
			return
		}
		seen[in.ID] = struct{}{}
		out = append(out, in)
	}

	for _, in := range claimLinked {
		add(in)
	}
	for _, a := range adjusters {
		list, err := e.reader.GetInteractionsByAdjuster(ctx, a.ID)
		if err != nil {
			return nil, eris.Wrapf(err, "intel: interactions for adjuster %s", a.ID)
		}
		for _, in := range list {
			add(in)
		}
	}
	return out, nil
}

func (e *Engine) claimInteractions(ctx context.Context, claimIDs []string) ([]model.Interaction, error) {
	if len(claimIDs) == 0 {
		return nil, nil
	}
	if br, ok := e.reader.(BatchInteractionReader); ok {
		list, err := br.GetInteractionsByClaimIDs(ctx, claimIDs)
		return list, eris.Wrap(err, "intel: interactions for claims")
	}

	var out []model.Interaction
	for _, id := range claimIDs {
		list, err := e.reader.GetInteractionsByClaimID(ctx, id)
		if err != nil {
			return nil, eris.Wrapf(err, "intel: interactions for claim %s", id)
		}
		out = append(out, list...)
	}
	return out, nil
}

func filterAdjusters(all []model.Adjuster, carrier string) []model.Adjuster {
	var out []model.Adjuster
	for _, a := range all {
		if a.Carrier == carrier {
			out = append(out, a)
		}
	}
	return out
}

func filterClaims(all []model.Claim, carrier string) []model.Claim {
	var out []model.Claim
	for _, c := range all {
		if c.Carrier == carrier {
			out = append(out, c)
		}
	}
	return out
}

// ComputeCarrier derives a CarrierIntelligence from the carrier's adjusters,
// claims, the union of their interactions, and the claims' supplements.
func ComputeCarrier(name string, adjusters []model.Adjuster, claims []model.Claim, interactions []model.Interaction, supplements []model.Supplement) *model.CarrierIntelligence {
	var t tally
	countInteractions(&t, interactions)
	countClaims(&t, claims)
	idx := byClaim(interactions)
	res := resolution(claims, idx)

	return &model.CarrierIntelligence{
		Carrier:                 name,
		TotalAdjusters:          len(adjusters),
		TotalInteractions:       t.totalInteractions,
		TotalClaims:             t.totalClaims,
		EscalationCount:         t.escalations,
		ReinspectionCount:       t.reinspections,
		AvgDaysToResolution:     res.avgDays,
		OutcomesResolved:        t.resolved,
		OutcomesStalled:         t.stalled,
		OutcomesOpen:            t.open,
		PatternTags:             patternTags(t, res),
		RiskScore:               carrierRisk(adjusters),
		EscalationEffectiveness: escalationEffectiveness(claims, idx),
		FrictionLevel:           friction(t),
		ResolutionTendency:      tendency(res.avgDays),
		SupplementSuccessRate:   supplementSuccess(claims, supplements, t),
		ReinspectionWinRate:     reinspectionWinRate(interactions),
		AvgInteractionsPerClaim: perClaim(t.totalInteractions, t.totalClaims),
	}
}

func carrierRisk(adjusters []model.Adjuster) *int {
	scores := make([]int, 0, len(adjusters))
	for _, a := range adjusters {
		scores = append(scores, classify.ScoreRiskNote(a.RiskImpression))
	}
	return meanRounded(scores)
}

// escalationEffectiveness is the resolved share of claims that saw at least
// one escalation.
func escalationEffectiveness(claims []model.Claim, idx map[string][]model.Interaction) *int {
	escalated, resolved := 0, 0
	for _, c := range claims {
		if !hasEscalation(idx[c.ID]) {
			continue
		}
		escalated++
		if classify.ClaimStatus(c.Status) == classify.BucketResolved {
			resolved++
		}
	}
	return percent(resolved, escalated)
}

func hasEscalation(interactions []model.Interaction) bool {
	for _, in := range interactions {
		if classify.InteractionType(in.Type).IsEscalation {
			return true
		}
	}
	return false
}

func friction(t tally) *model.FrictionLevel {
	if t.totalClaims < 3 {
		return nil
	}
	stalledRatio := ratio(t.stalled, t.totalClaims)
	switch {
	case stalledRatio > 0.4:
		return ptr(model.FrictionHigh)
	case stalledRatio > 0.2:
		return ptr(model.FrictionNormal)
	default:
		return ptr(model.FrictionLow)
	}
}

func tendency(avgDays *int) *model.ResolutionTendency {
	if avgDays == nil {
		return nil
	}
	switch d := *avgDays; {
	case d <= 30:
		return ptr(model.ResolutionFast)
	case d <= 60:
		return ptr(model.ResolutionNormal)
	default:
		return ptr(model.ResolutionSlow)
	}
}

// supplementSuccess falls through three sources in a fixed order, moving on
// only when the previous one has an empty denominator:
//  1. decided supplements on the carrier's claims
//  2. overturned versus stalled claims
//  3. resolved share of all claims
//
// Each tier answers a different question, so they must not be merged.
func supplementSuccess(claims []model.Claim, supplements []model.Supplement, t tally) *int {
	if rate := supplementRate(supplements); rate != nil {
		return rate
	}

	overturned := 0
	for _, c := range claims {
		if classify.IsOverturned(c.Status) {
			overturned++
		}
	}
	if overturned+t.stalled > 0 {
		return percent(overturned, overturned+t.stalled)
	}

	if t.resolved > 0 {
		return percent(t.resolved, t.totalClaims)
	}
	return nil
}
