// Package store persists adjusters, claims, interactions and supplements and
// serves the read queries the intelligence engine needs.
package store

import (
	"context"

	"github.com/sells-group/adjuster-intel/internal/intel"
	"github.com/sells-group/adjuster-intel/internal/model"
)

// Store is the persistence interface for the intelligence engine.
type Store interface {
	intel.Reader
	intel.BatchInteractionReader

	// SaveSnapshot replaces the stored entities with snap in one transaction.
	SaveSnapshot(ctx context.Context, snap model.Snapshot) error

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// Tables in parent-first order.
var tables = []string{"adjusters", "claims", "claim_adjusters", "interactions", "supplements"}

var (
	adjusterColumns      = []string{"id", "name", "carrier", "email", "phone", "region", "risk_impression", "created_at"}
	claimColumns         = []string{"id", "claim_number", "carrier", "date_of_loss", "status", "created_at"}
	claimAdjusterColumns = []string{"claim_id", "adjuster_id"}
	interactionColumns   = []string{"id", "adjuster_id", "claim_id", "type", "date", "outcome", "notes"}
	supplementColumns    = []string{"id", "claim_id", "status", "description", "amount"}
)

// snapshotRows flattens snap into per-table rows matching the column lists.
func snapshotRows(snap model.Snapshot) map[string][][]any {
	rows := make(map[string][][]any, len(tables))
	for _, a := range snap.Adjusters {
		rows["adjusters"] = append(rows["adjusters"], []any{a.ID, a.Name, a.Carrier, a.Email, a.Phone, a.Region, deref(a.RiskImpression), a.CreatedAt})
	}
	for _, c := range snap.Claims {
		rows["claims"] = append(rows["claims"], []any{c.ID, c.ClaimNumber, c.Carrier, c.DateOfLoss, c.Status, deref(c.CreatedAt)})
	}
	for _, l := range snap.ClaimAdjusters {
		rows["claim_adjusters"] = append(rows["claim_adjusters"], []any{l.ClaimID, l.AdjusterID})
	}
	for _, in := range snap.Interactions {
		rows["interactions"] = append(rows["interactions"], []any{in.ID, in.AdjusterID, deref(in.ClaimID), in.Type, in.Date, deref(in.Outcome), in.Notes})
	}
	for _, s := range snap.Supplements {
		rows["supplements"] = append(rows["supplements"], []any{s.ID, s.ClaimID, string(s.Status), s.Description, deref(s.Amount)})
	}
	return rows
}

func columnsFor(table string) []string {
	switch table {
	case "adjusters":
		return adjusterColumns
	case "claims":
		return claimColumns
	case "claim_adjusters":
		return claimAdjusterColumns
	case "interactions":
		return interactionColumns
	default:
		return supplementColumns
	}
}

// deref turns an optional field into a driver value, nil meaning NULL.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
