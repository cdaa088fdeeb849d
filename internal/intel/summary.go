package intel

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/adjuster-intel/internal/classify"
	"github.com/sells-group/adjuster-intel/internal/model"
)

// Summary computes portfolio-wide performance. It always returns a record;
// an empty store yields nil rates and zero totals.
func (e *Engine) Summary(ctx context.Context) (*model.PerformanceSummary, error) {
	var interactions []model.Interaction
	var claims []model.Claim
	var supplements []model.Supplement

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		interactions, err = e.reader.GetAllInteractions(gctx)
		return eris.Wrap(err, "intel: list interactions")
	})
	g.Go(func() error {
		var err error
		claims, err = e.reader.GetAllClaims(gctx)
		return eris.Wrap(err, "intel: list claims")
	})
	g.Go(func() error {
		var err error
		supplements, err = e.reader.GetAllSupplements(gctx)
		return eris.Wrap(err, "intel: list supplements")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := ComputeSummary(interactions, claims, supplements, e.now())
	zap.L().Debug("intel: summary computed",
		zap.Int("claims", out.TotalClaims),
		zap.Int("interactions", out.TotalInteractions),
		zap.Int("supplements", out.TotalSupplements),
	)
	return out, nil
}

// ComputeSummary derives the portfolio PerformanceSummary. now stands in for
// the resolution date of claims with no creation time.
func ComputeSummary(interactions []model.Interaction, claims []model.Claim, supplements []model.Supplement, now time.Time) *model.PerformanceSummary {
	var t tally
	countInteractions(&t, interactions)

	return &model.PerformanceSummary{
		SupplementSuccessRate: supplementRate(supplements),
		ReinspectionWinRate:   reinspectionWinRate(interactions),
		EscalationSuccessRate: escalationSuccessRate(interactions),
		AvgDaysToApproval:     avgDaysToApproval(claims, now),
		TotalClaims:           len(claims),
		TotalInteractions:     t.totalInteractions,
		TotalSupplements:      len(supplements),
		TotalEscalations:      t.escalations,
		TotalReinspections:    t.reinspections,
	}
}

func escalationSuccessRate(interactions []model.Interaction) *int {
	wins, total := 0, 0
	for _, in := range interactions {
		if !classify.InteractionType(in.Type).IsEscalation {
			continue
		}
		total++
		if classify.IsEscalationWin(in.Outcome) {
			wins++
		}
	}
	return percent(wins, total)
}

// avgDaysToApproval only counts claims whose status is literally "resolved"
// or "closed", which is narrower than the resolved bucket. Creation time
// stands in for the approval date since the store does not record one.
func avgDaysToApproval(claims []model.Claim, now time.Time) *int {
	var days []int
	for _, c := range claims {
		if c.Status != "resolved" && c.Status != "closed" {
			continue
		}
		loss, ok := parseDate(c.DateOfLoss)
		if !ok {
			continue
		}
		end := now
		if c.CreatedAt != nil {
			end = *c.CreatedAt
		}
		d := daysBetween(loss, end)
		if d < 0 {
			continue
		}
		days = append(days, d)
	}
	return meanRounded(days)
}
