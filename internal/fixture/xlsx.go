package fixture

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/adjuster-intel/internal/model"
)

// Sheet names read by LoadXLSX. Missing sheets are treated as empty.
const (
	SheetAdjusters      = "adjusters"
	SheetClaims         = "claims"
	SheetClaimAdjusters = "claim_adjusters"
	SheetInteractions   = "interactions"
	SheetSupplements    = "supplements"
)

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// record is one data row keyed by lower-cased header.
type record map[string]string

func (r record) str(col string) string { return strings.TrimSpace(r[col]) }

func (r record) optStr(col string) *string {
	v := r.str(col)
	if v == "" {
		return nil
	}
	return &v
}

func (r record) optTime(col string) (*time.Time, error) {
	v := r.str(col)
	if v == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, eris.Errorf("fixture: %s: unrecognized time %q", col, v)
}

func (r record) optFloat(col string) (*float64, error) {
	v := r.str(col)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return nil, eris.Wrapf(err, "fixture: %s: parse %q", col, v)
	}
	return &f, nil
}

// LoadXLSX reads a snapshot from a workbook with one sheet per entity. The
// first row of each sheet holds column names matching the YAML keys.
func LoadXLSX(path string) (model.Snapshot, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return model.Snapshot{}, eris.Wrap(err, "xlsx: open file")
	}

	var snap model.Snapshot

	for i, r := range sheetRecords(f, SheetAdjusters) {
		a := model.Adjuster{
			ID:             r.str("id"),
			Name:           r.str("name"),
			Carrier:        r.str("carrier"),
			Email:          r.str("email"),
			Phone:          r.str("phone"),
			Region:         r.str("region"),
			RiskImpression: r.optStr("risk_impression"),
		}
		created, err := r.optTime("created_at")
		if err != nil {
			return model.Snapshot{}, eris.Wrapf(err, "xlsx: adjusters row %d", i+2)
		}
		if created != nil {
			a.CreatedAt = *created
		}
		snap.Adjusters = append(snap.Adjusters, a)
	}

	for i, r := range sheetRecords(f, SheetClaims) {
		created, err := r.optTime("created_at")
		if err != nil {
			return model.Snapshot{}, eris.Wrapf(err, "xlsx: claims row %d", i+2)
		}
		snap.Claims = append(snap.Claims, model.Claim{
			ID:          r.str("id"),
			ClaimNumber: r.str("claim_number"),
			Carrier:     r.str("carrier"),
			DateOfLoss:  r.str("date_of_loss"),
			Status:      r.str("status"),
			CreatedAt:   created,
		})
	}

	for _, r := range sheetRecords(f, SheetClaimAdjusters) {
		snap.ClaimAdjusters = append(snap.ClaimAdjusters, model.ClaimAdjuster{
			ClaimID:    r.str("claim_id"),
			AdjusterID: r.str("adjuster_id"),
		})
	}

	for _, r := range sheetRecords(f, SheetInteractions) {
		snap.Interactions = append(snap.Interactions, model.Interaction{
			ID:         r.str("id"),
			AdjusterID: r.str("adjuster_id"),
			ClaimID:    r.optStr("claim_id"),
			Type:       r.str("type"),
			Date:       r.str("date"),
			Outcome:    r.optStr("outcome"),
			Notes:      r.str("notes"),
		})
	}

	for i, r := range sheetRecords(f, SheetSupplements) {
		amount, err := r.optFloat("amount")
		if err != nil {
			return model.Snapshot{}, eris.Wrapf(err, "xlsx: supplements row %d", i+2)
		}
		snap.Supplements = append(snap.Supplements, model.Supplement{
			ID:          r.str("id"),
			ClaimID:     r.str("claim_id"),
			Status:      model.SupplementStatus(strings.ToLower(r.str("status"))),
			Description: r.str("description"),
			Amount:      amount,
		})
	}

	return snap, nil
}

// sheetRecords maps each data row of the named sheet to its header. Blank
// rows are skipped.
func sheetRecords(f *xlsx.File, name string) []record {
	sheet, ok := f.Sheet[name]
	if !ok || len(sheet.Rows) == 0 {
		return nil
	}

	header := rowToStrings(sheet.Rows[0])
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var out []record
	for _, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		rec := make(record, len(header))
		blank := true
		for j, col := range header {
			if j < len(cells) {
				rec[col] = cells[j]
				if strings.TrimSpace(cells[j]) != "" {
					blank = false
				}
			}
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
