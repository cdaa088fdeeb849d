package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/adjuster-intel/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func strPtr(s string) *string { return &s }

func testSnapshot() model.Snapshot {
	created := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	amount := 1250.5
	return model.Snapshot{
		Adjusters: []model.Adjuster{
			{ID: "a1", Name: "Dana Reyes", Carrier: "Acme Mutual", Email: "dana@acme.test", RiskImpression: strPtr("slow but fair"), CreatedAt: created},
			{ID: "a2", Name: "Sam Ortiz", Carrier: "Beacon", CreatedAt: created},
		},
		Claims: []model.Claim{
			{ID: "c1", ClaimNumber: "CLM-1", Carrier: "Acme Mutual", DateOfLoss: "2024-01-01", Status: "resolved", CreatedAt: &created},
			{ID: "c2", ClaimNumber: "CLM-2", Carrier: "Acme Mutual", Status: "open"},
			{ID: "c3", ClaimNumber: "CLM-3", Carrier: "Beacon", Status: "denied"},
		},
		ClaimAdjusters: []model.ClaimAdjuster{
			{ClaimID: "c1", AdjusterID: "a1"},
			{ClaimID: "c2", AdjusterID: "a1"},
			{ClaimID: "c3", AdjusterID: "a2"},
		},
		Interactions: []model.Interaction{
			{ID: "i1", AdjusterID: "a1", ClaimID: strPtr("c1"), Type: "Call", Date: "2024-01-05", Notes: "first call"},
			{ID: "i2", AdjusterID: "a1", ClaimID: strPtr("c1"), Type: "Escalation", Date: "2024-01-20", Outcome: strPtr("resolved")},
			{ID: "i3", AdjusterID: "a1", Type: "Email", Date: "2024-01-02"},
			{ID: "i4", AdjusterID: "a2", ClaimID: strPtr("c3"), Type: "Re-inspection", Date: "2024-01-03"},
			{ID: "i5", AdjusterID: "a2", ClaimID: strPtr("gone"), Type: "Call", Date: "2024-01-04"},
		},
		Supplements: []model.Supplement{
			{ID: "s1", ClaimID: "c1", Status: model.SupplementApproved, Description: "roof decking", Amount: &amount},
			{ID: "s2", ClaimID: "c3", Status: model.SupplementDenied},
		},
	}
}

func seededSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st := newTestSQLiteStore(t)
	require.NoError(t, st.SaveSnapshot(context.Background(), testSnapshot()))
	return st
}

func TestSQLite_GetAdjuster(t *testing.T) {
	st := seededSQLiteStore(t)
	ctx := context.Background()

	a, err := st.GetAdjuster(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "Dana Reyes", a.Name)
	assert.Equal(t, "Acme Mutual", a.Carrier)
	assert.Equal(t, "dana@acme.test", a.Email)
	require.NotNil(t, a.RiskImpression)
	assert.Equal(t, "slow but fair", *a.RiskImpression)
	assert.True(t, a.CreatedAt.Equal(time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)))

	b, err := st.GetAdjuster(ctx, "a2")
	require.NoError(t, err)
	assert.Nil(t, b.RiskImpression)
}

func TestSQLite_GetAdjuster_NotFound(t *testing.T) {
	st := seededSQLiteStore(t)

	a, err := st.GetAdjuster(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, a)
}

func TestSQLite_GetClaimsByAdjuster(t *testing.T) {
	st := seededSQLiteStore(t)

	claims, err := st.GetClaimsByAdjuster(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.Equal(t, "c1", claims[0].ID)
	assert.Equal(t, "2024-01-01", claims[0].DateOfLoss)
	require.NotNil(t, claims[0].CreatedAt)
	assert.Equal(t, "c2", claims[1].ID)
	assert.Empty(t, claims[1].DateOfLoss)
	assert.Nil(t, claims[1].CreatedAt)
}

func TestSQLite_Interactions(t *testing.T) {
	st := seededSQLiteStore(t)
	ctx := context.Background()

	byAdjuster, err := st.GetInteractionsByAdjuster(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, byAdjuster, 3)
	assert.Equal(t, []string{"i3", "i1", "i2"}, interactionIDs(byAdjuster))
	assert.Nil(t, byAdjuster[0].ClaimID)
	require.NotNil(t, byAdjuster[2].Outcome)
	assert.Equal(t, "resolved", *byAdjuster[2].Outcome)

	byClaim, err := st.GetInteractionsByClaimID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"i1", "i2"}, interactionIDs(byClaim))

	batch, err := st.GetInteractionsByClaimIDs(ctx, []string{"c1", "c3", "gone"})
	require.NoError(t, err)
	assert.Equal(t, []string{"i4", "i5", "i1", "i2"}, interactionIDs(batch))

	none, err := st.GetInteractionsByClaimIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := st.GetAllInteractions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestSQLite_Supplements(t *testing.T) {
	st := seededSQLiteStore(t)
	ctx := context.Background()

	sups, err := st.GetSupplementsByClaimIDs(ctx, []string{"c1"})
	require.NoError(t, err)
	require.Len(t, sups, 1)
	assert.Equal(t, model.SupplementApproved, sups[0].Status)
	assert.Equal(t, "roof decking", sups[0].Description)
	require.NotNil(t, sups[0].Amount)
	assert.InDelta(t, 1250.5, *sups[0].Amount, 0.001)

	all, err := st.GetAllSupplements(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Nil(t, all[1].Amount)
}

func TestSQLite_SaveSnapshot_Replaces(t *testing.T) {
	st := seededSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveSnapshot(ctx, model.Snapshot{
		Adjusters: []model.Adjuster{{ID: "z1", Carrier: "Zenith", CreatedAt: time.Now().UTC()}},
	}))

	adjusters, err := st.GetAllAdjusters(ctx)
	require.NoError(t, err)
	require.Len(t, adjusters, 1)
	assert.Equal(t, "z1", adjusters[0].ID)

	claims, err := st.GetAllClaims(ctx)
	require.NoError(t, err)
	assert.Empty(t, claims)

	interactions, err := st.GetAllInteractions(ctx)
	require.NoError(t, err)
	assert.Empty(t, interactions)
}

func TestSQLite_SaveSnapshot_RollsBackOnError(t *testing.T) {
	st := seededSQLiteStore(t)
	ctx := context.Background()

	dup := model.Snapshot{
		Claims: []model.Claim{{ID: "x"}, {ID: "x"}},
	}
	require.Error(t, st.SaveSnapshot(ctx, dup))

	claims, err := st.GetAllClaims(ctx)
	require.NoError(t, err)
	assert.Len(t, claims, 3)
}

func TestSQLite_Ping(t *testing.T) {
	st := newTestSQLiteStore(t)
	assert.NoError(t, st.Ping(context.Background()))
}

func interactionIDs(in []model.Interaction) []string {
	ids := make([]string, len(in))
	for i, v := range in {
		ids[i] = v.ID
	}
	return ids
}
