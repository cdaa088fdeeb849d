package intel

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/adjuster-intel/internal/model"
)

var fixedNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestEngine_Summary_EmptyCorpus(t *testing.T) {
	e := NewEngine(newMemReader(model.Snapshot{}), WithClock(func() time.Time { return fixedNow }))

	got, err := e.Summary(context.Background())
	require.NoError(t, err)

	assert.Nil(t, got.SupplementSuccessRate)
	assert.Nil(t, got.ReinspectionWinRate)
	assert.Nil(t, got.EscalationSuccessRate)
	assert.Nil(t, got.AvgDaysToApproval)
	assert.Zero(t, got.TotalClaims)
	assert.Zero(t, got.TotalInteractions)
	assert.Zero(t, got.TotalSupplements)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"supplementSuccessRate": null,
		"reinspectionWinRate": null,
		"escalationSuccessRate": null,
		"avgDaysToApproval": null,
		"totalClaims": 0,
		"totalInteractions": 0,
		"totalSupplements": 0,
		"totalEscalations": 0,
		"totalReinspections": 0
	}`, string(raw))
}

func TestComputeSummary(t *testing.T) {
	created := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	claims := []model.Claim{
		{ID: "c1", Status: "resolved", DateOfLoss: "2024-01-01", CreatedAt: &created},
		{ID: "c2", Status: "closed", DateOfLoss: "2024-05-01"},
		{ID: "c3", Status: "approved", DateOfLoss: "2024-01-01", CreatedAt: &created},
		{ID: "c4", Status: "Resolved", DateOfLoss: "2024-01-01", CreatedAt: &created},
		{ID: "c5", Status: "resolved"},
		{ID: "c6", Status: "closed", DateOfLoss: "2024-07-01"},
	}
	interactions := []model.Interaction{
		withOutcome(interaction("i1", "a1", "", "Escalation", ""), "Resolved in our favor"),
		withOutcome(interaction("i2", "a1", "", "Appeal", ""), "denied"),
		interaction("i3", "a1", "", "Escalation", ""),
		withOutcome(interaction("i4", "a1", "", "Inspection", ""), "successful"),
		withOutcome(interaction("i5", "a1", "", "Call", ""), "approved"),
	}
	supplements := []model.Supplement{
		{ID: "s1", Status: model.SupplementApproved},
		{ID: "s2", Status: model.SupplementDenied},
		{ID: "s3", Status: model.SupplementDenied},
		{ID: "s4", Status: model.SupplementNegotiating},
	}

	got := ComputeSummary(interactions, claims, supplements, fixedNow)

	require.NotNil(t, got.SupplementSuccessRate)
	assert.Equal(t, 33, *got.SupplementSuccessRate)
	require.NotNil(t, got.ReinspectionWinRate)
	assert.Equal(t, 100, *got.ReinspectionWinRate)
	require.NotNil(t, got.EscalationSuccessRate)
	assert.Equal(t, 33, *got.EscalationSuccessRate)

	// c1: 30 days to creation, c2: 31 days to now. c3 and c4 fail the literal
	// status match, c5 has no date of loss, c6 is in the future.
	require.NotNil(t, got.AvgDaysToApproval)
	assert.Equal(t, 31, *got.AvgDaysToApproval)

	assert.Equal(t, 6, got.TotalClaims)
	assert.Equal(t, 5, got.TotalInteractions)
	assert.Equal(t, 4, got.TotalSupplements)
	assert.Equal(t, 3, got.TotalEscalations)
	assert.Equal(t, 1, got.TotalReinspections)
}

func TestEngine_Summary_UsesClock(t *testing.T) {
	snap := model.Snapshot{Claims: []model.Claim{{ID: "c1", Status: "closed", DateOfLoss: "2024-05-22"}}}

	e := NewEngine(newMemReader(snap), WithClock(func() time.Time { return fixedNow }))
	got, err := e.Summary(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got.AvgDaysToApproval)
	assert.Equal(t, 10, *got.AvgDaysToApproval)

	later := NewEngine(newMemReader(snap), WithClock(func() time.Time { return fixedNow.Add(5 * day) }))
	got, err = later.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 15, *got.AvgDaysToApproval)
}

func TestEngine_Summary_ReaderError(t *testing.T) {
	r := newMemReader(model.Snapshot{})
	r.err = errors.New("timeout")

	_, err := NewEngine(r).Summary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list interactions")
}
