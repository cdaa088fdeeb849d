// Package fixture loads entity snapshots from YAML or XLSX files for seeding
// a store.
package fixture

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/adjuster-intel/internal/model"
)

// Load reads a snapshot from path, choosing the decoder by file extension,
// then normalizes and validates it.
func Load(path string) (model.Snapshot, error) {
	var (
		snap model.Snapshot
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		snap, err = LoadYAML(path)
	case ".xlsx":
		snap, err = LoadXLSX(path)
	default:
		return model.Snapshot{}, eris.Errorf("fixture: unsupported file type %q", ext)
	}
	if err != nil {
		return model.Snapshot{}, err
	}

	Normalize(&snap, time.Now().UTC())
	if err := Validate(snap); err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// Normalize fills in IDs for rows that omit them and stamps adjusters that
// carry no creation time with now.
func Normalize(snap *model.Snapshot, now time.Time) {
	for i := range snap.Adjusters {
		if snap.Adjusters[i].ID == "" {
			snap.Adjusters[i].ID = uuid.NewString()
		}
		if snap.Adjusters[i].CreatedAt.IsZero() {
			snap.Adjusters[i].CreatedAt = now
		}
	}
	for i := range snap.Claims {
		if snap.Claims[i].ID == "" {
			snap.Claims[i].ID = uuid.NewString()
		}
	}
	for i := range snap.Interactions {
		if snap.Interactions[i].ID == "" {
			snap.Interactions[i].ID = uuid.NewString()
		}
	}
	for i := range snap.Supplements {
		if snap.Supplements[i].ID == "" {
			snap.Supplements[i].ID = uuid.NewString()
		}
		if snap.Supplements[i].Status == "" {
			snap.Supplements[i].Status = model.SupplementPending
		}
	}
}

// Validate checks the references the store enforces. Interactions may point
// at claims that do not exist and are not checked.
func Validate(snap model.Snapshot) error {
	adjusters := make(map[string]bool, len(snap.Adjusters))
	for _, a := range snap.Adjusters {
		if adjusters[a.ID] {
			return eris.Errorf("fixture: duplicate adjuster %s", a.ID)
		}
		adjusters[a.ID] = true
	}
	claims := make(map[string]bool, len(snap.Claims))
	for _, c := range snap.Claims {
		if claims[c.ID] {
			return eris.Errorf("fixture: duplicate claim %s", c.ID)
		}
		claims[c.ID] = true
	}

	for _, l := range snap.ClaimAdjusters {
		if !claims[l.ClaimID] {
			return eris.Errorf("fixture: claim_adjusters references unknown claim %s", l.ClaimID)
		}
		if !adjusters[l.AdjusterID] {
			return eris.Errorf("fixture: claim_adjusters references unknown adjuster %s", l.AdjusterID)
		}
	}
	for _, s := range snap.Supplements {
		if !claims[s.ClaimID] {
			return eris.Errorf("fixture: supplement %s references unknown claim %s", s.ID, s.ClaimID)
		}
	}
	for _, in := range snap.Interactions {
		if in.AdjusterID == "" {
			return eris.Errorf("fixture: interaction %s has no adjuster", in.ID)
		}
	}
	return nil
}
