package intel

import (
	"context"
	"slices"
	"sync"

	"github.com/sells-group/adjuster-intel/internal/model"
)

// memReader is an in-memory Reader over a Snapshot. It does not implement
// BatchInteractionReader; wrap it in batchReader for that.
type memReader struct {
	snap model.Snapshot
	err  error

	mu    sync.Mutex
	calls map[string]int
}

func (m *memReader) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[name]++
}

func (m *memReader) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func newMemReader(snap model.Snapshot) *memReader {
	return &memReader{snap: snap, calls: map[string]int{}}
}

func (m *memReader) GetAdjuster(_ context.Context, id string) (*model.Adjuster, error) {
	m.record("GetAdjuster")
	if m.err != nil {
		return nil, m.err
	}
	for _, a := range m.snap.Adjusters {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memReader) GetClaimsByAdjuster(_ context.Context, adjusterID string) ([]model.Claim, error) {
	m.record("GetClaimsByAdjuster")
	var ids []string
	for _, link := range m.snap.ClaimAdjusters {
		if link.AdjusterID == adjusterID {
			ids = append(ids, link.ClaimID)
		}
	}
	var out []model.Claim
	for _, c := range m.snap.Claims {
		if slices.Contains(ids, c.ID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memReader) GetInteractionsByAdjuster(_ context.Context, adjusterID string) ([]model.Interaction, error) {
	m.record("GetInteractionsByAdjuster")
	var out []model.Interaction
	for _, in := range m.snap.Interactions {
		if in.AdjusterID == adjusterID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (m *memReader) GetInteractionsByClaimID(_ context.Context, claimID string) ([]model.Interaction, error) {
	m.record("GetInteractionsByClaimID")
	var out []model.Interaction
	for _, in := range m.snap.Interactions {
		if in.ClaimID != nil && *in.ClaimID == claimID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (m *memReader) GetAllAdjusters(_ context.Context) ([]model.Adjuster, error) {
	m.record("GetAllAdjusters")
	if m.err != nil {
		return nil, m.err
	}
	return m.snap.Adjusters, nil
}

func (m *memReader) GetAllClaims(_ context.Context) ([]model.Claim, error) {
	m.record("GetAllClaims")
	return m.snap.Claims, nil
}

func (m *memReader) GetSupplementsByClaimIDs(_ context.Context, claimIDs []string) ([]model.Supplement, error) {
	m.record("GetSupplementsByClaimIDs")
	var out []model.Supplement
	for _, s := range m.snap.Supplements {
		if slices.Contains(claimIDs, s.ClaimID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memReader) GetAllInteractions(_ context.Context) ([]model.Interaction, error) {
	m.record("GetAllInteractions")
	if m.err != nil {
		return nil, m.err
	}
	return m.snap.Interactions, nil
}

func (m *memReader) GetAllSupplements(_ context.Context) ([]model.Supplement, error) {
	m.record("GetAllSupplements")
	return m.snap.Supplements, nil
}

type batchReader struct {
	*memReader
}

func (b batchReader) GetInteractionsByClaimIDs(_ context.Context, claimIDs []string) ([]model.Interaction, error) {
	b.record("GetInteractionsByClaimIDs")
	var out []model.Interaction
	for _, in := range b.snap.Interactions {
		if in.ClaimID != nil && slices.Contains(claimIDs, *in.ClaimID) {
			out = append(out, in)
		}
	}
	return out, nil
}

func ptrString(v string) *string { return &v }

func interaction(id, adjusterID, claimID, typ, date string) model.Interaction {
	in := model.Interaction{ID: id, AdjusterID: adjusterID, Type: typ, Date: date}
	if claimID != "" {
		in.ClaimID = ptrString(claimID)
	}
	return in
}

func withOutcome(in model.Interaction, outcome string) model.Interaction {
	in.Outcome = ptrString(outcome)
	return in
}
