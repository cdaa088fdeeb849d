package intel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/adjuster-intel/internal/model"
)

func carrierSnapshot() model.Snapshot {
	return model.Snapshot{
		Adjusters: []model.Adjuster{
			{ID: "a1", Carrier: "Acme Mutual", RiskImpression: ptrString("difficult")},
			{ID: "a2", Carrier: "Acme Mutual"},
			{ID: "a3", Carrier: "acme mutual", RiskImpression: ptrString("fair")},
		},
		Claims: []model.Claim{
			{ID: "c1", Carrier: "Acme Mutual", Status: "resolved", DateOfLoss: "2024-01-01"},
			{ID: "c2", Carrier: "Acme Mutual", Status: "denied"},
			{ID: "c3", Carrier: "Acme Mutual", Status: "open"},
			{ID: "c4", Carrier: "Acme Mutual", Status: "closed", DateOfLoss: "2024-01-01"},
			{ID: "c9", Carrier: "Other", Status: "resolved"},
		},
		Interactions: []model.Interaction{
			interaction("i1", "a1", "c1", "Escalation", "2024-01-20"),
			interaction("i2", "a1", "c1", "Call", "2024-02-01"),
			interaction("i3", "a9", "c2", "Dispute", "2024-01-05"),
			interaction("i4", "a2", "", "Call", "2024-01-07"),
			withOutcome(interaction("i5", "a2", "c4", "Inspection", "2024-01-21"), "Approved additional scope"),
			withOutcome(interaction("i6", "a1", "", "Re-inspection", "2024-01-09"), "denied"),
			interaction("i7", "a9", "c9", "Escalation", "2024-01-09"),
		},
		Supplements: []model.Supplement{
			{ID: "s1", ClaimID: "c1", Status: model.SupplementApproved},
			{ID: "s2", ClaimID: "c1", Status: model.SupplementApproved},
			{ID: "s3", ClaimID: "c2", Status: model.SupplementDenied},
			{ID: "s4", ClaimID: "c3", Status: model.SupplementPending},
			{ID: "s9", ClaimID: "c9", Status: model.SupplementDenied},
		},
	}
}

func TestEngine_Carrier(t *testing.T) {
	r := newMemReader(carrierSnapshot())
	e := NewEngine(batchReader{r})

	got, err := e.Carrier(context.Background(), "Acme Mutual")
	require.NoError(t, err)

	assert.Equal(t, "Acme Mutual", got.Carrier)
	assert.Equal(t, 2, got.TotalAdjusters)
	assert.Equal(t, 4, got.TotalClaims)
	// i1,i2,i3,i5 via claims; i4,i6 via adjusters; i7 belongs elsewhere.
	assert.Equal(t, 6, got.TotalInteractions)
	assert.Equal(t, 2, got.EscalationCount)
	assert.Equal(t, 2, got.ReinspectionCount)
	assert.Equal(t, 2, got.OutcomesResolved)
	assert.Equal(t, 1, got.OutcomesStalled)
	assert.Equal(t, 1, got.OutcomesOpen)

	// c1: Jan 1 -> Feb 1 = 31, c4: Jan 1 -> Jan 21 = 20.
	require.NotNil(t, got.AvgDaysToResolution)
	assert.Equal(t, 26, *got.AvgDaysToResolution)
	require.NotNil(t, got.ResolutionTendency)
	assert.Equal(t, model.ResolutionFast, *got.ResolutionTendency)

	// Mean of 65 and 50.
	require.NotNil(t, got.RiskScore)
	assert.Equal(t, 58, *got.RiskScore)

	// c1 escalated and resolved, c2 disputed and denied.
	require.NotNil(t, got.EscalationEffectiveness)
	assert.Equal(t, 50, *got.EscalationEffectiveness)

	require.NotNil(t, got.FrictionLevel)
	assert.Equal(t, model.FrictionNormal, *got.FrictionLevel)

	require.NotNil(t, got.SupplementSuccessRate)
	assert.Equal(t, 67, *got.SupplementSuccessRate)

	require.NotNil(t, got.ReinspectionWinRate)
	assert.Equal(t, 50, *got.ReinspectionWinRate)

	require.NotNil(t, got.AvgInteractionsPerClaim)
	assert.InDelta(t, 1.5, *got.AvgInteractionsPerClaim, 0.001)

	assert.Equal(t, 1, r.callCount("GetInteractionsByClaimIDs"))
	assert.Equal(t, 0, r.callCount("GetInteractionsByClaimID"))
}

func TestEngine_Carrier_PerClaimFallback(t *testing.T) {
	r := newMemReader(carrierSnapshot())
	batched, err := NewEngine(batchReader{newMemReader(carrierSnapshot())}).Carrier(context.Background(), "Acme Mutual")
	require.NoError(t, err)

	got, err := NewEngine(r).Carrier(context.Background(), "Acme Mutual")
	require.NoError(t, err)

	assert.Equal(t, batched, got)
	assert.Equal(t, 4, r.callCount("GetInteractionsByClaimID"))
}

func TestEngine_Carrier_ExactMatch(t *testing.T) {
	e := NewEngine(newMemReader(carrierSnapshot()))

	got, err := e.Carrier(context.Background(), "acme mutual")
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalAdjusters)
	assert.Equal(t, 0, got.TotalClaims)
	require.NotNil(t, got.RiskScore)
	assert.Equal(t, 35, *got.RiskScore)
	assert.Nil(t, got.SupplementSuccessRate)
	assert.Nil(t, got.FrictionLevel)
	assert.Nil(t, got.AvgInteractionsPerClaim)
}

func TestEngine_Carrier_NotFound(t *testing.T) {
	e := NewEngine(newMemReader(carrierSnapshot()))

	got, err := e.Carrier(context.Background(), "Nobody Insurance")
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEngine_Carrier_ReaderError(t *testing.T) {
	r := newMemReader(carrierSnapshot())
	r.err = errors.New("boom")

	_, err := NewEngine(r).Carrier(context.Background(), "Acme Mutual")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list adjusters")
}

func TestComputeCarrier_ClaimsOnly(t *testing.T) {
	claims := []model.Claim{{ID: "c1", Carrier: "X", Status: "open"}}
	got := ComputeCarrier("X", nil, claims, nil, nil)

	assert.Nil(t, got.RiskScore, "no adjusters")
	assert.Nil(t, got.EscalationEffectiveness)
	assert.Nil(t, got.ReinspectionWinRate)
	assert.Nil(t, got.ResolutionTendency)
	assert.Nil(t, got.SupplementSuccessRate)
	assert.Empty(t, got.PatternTags)
}

func TestFriction(t *testing.T) {
	tests := []struct {
		name string
		t    tally
		want *model.FrictionLevel
	}{
		{"below sample floor even if all stalled", tally{totalClaims: 2, stalled: 2}, nil},
		{"high", tally{totalClaims: 5, stalled: 3}, ptr(model.FrictionHigh)},
		{"normal", tally{totalClaims: 10, stalled: 3}, ptr(model.FrictionNormal)},
		{"boundary 0.2 is low", tally{totalClaims: 5, stalled: 1}, ptr(model.FrictionLow)},
		{"low", tally{totalClaims: 3}, ptr(model.FrictionLow)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, friction(tt.t))
		})
	}
}

func TestTendency(t *testing.T) {
	assert.Nil(t, tendency(nil))
	assert.Equal(t, model.ResolutionFast, *tendency(ptr(30)))
	assert.Equal(t, model.ResolutionNormal, *tendency(ptr(31)))
	assert.Equal(t, model.ResolutionNormal, *tendency(ptr(60)))
	assert.Equal(t, model.ResolutionSlow, *tendency(ptr(61)))
}

func TestSupplementSuccess_Tiers(t *testing.T) {
	count := func(claims []model.Claim) tally {
		var t tally
		countClaims(&t, claims)
		return t
	}

	t.Run("tier 1 supplements win even with claim data", func(t *testing.T) {
		claims := []model.Claim{{ID: "c1", Status: "overturned"}, {ID: "c2", Status: "stalled"}}
		supplements := []model.Supplement{
			{ClaimID: "c1", Status: model.SupplementDenied},
			{ClaimID: "c1", Status: model.SupplementPending},
		}
		got := supplementSuccess(claims, supplements, count(claims))
		require.NotNil(t, got)
		assert.Equal(t, 0, *got)
	})

	t.Run("tier 2 overturned versus stalled", func(t *testing.T) {
		claims := []model.Claim{
			{ID: "c1", Status: "overturned"},
			{ID: "c2", Status: "stalled"},
			{ID: "c3", Status: "denied"},
			{ID: "c4", Status: "resolved"},
		}
		supplements := []model.Supplement{{ClaimID: "c1", Status: model.SupplementPending}}
		got := supplementSuccess(claims, supplements, count(claims))
		require.NotNil(t, got)
		assert.Equal(t, 33, *got)
	})

	t.Run("tier 3 resolved share", func(t *testing.T) {
		claims := []model.Claim{
			{ID: "c1", Status: "resolved"},
			{ID: "c2", Status: "open"},
			{ID: "c3", Status: "weird"},
		}
		got := supplementSuccess(claims, nil, count(claims))
		require.NotNil(t, got)
		assert.Equal(t, 33, *got)
	})

	t.Run("nothing to go on", func(t *testing.T) {
		claims := []model.Claim{{ID: "c1", Status: "open"}}
		assert.Nil(t, supplementSuccess(claims, nil, count(claims)))
	})
}
