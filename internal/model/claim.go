// Package model holds the entities read by the intelligence engine and the
// records it derives from them.
package model

import "time"

// Adjuster is an insurance carrier's claim adjuster.
type Adjuster struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	Carrier        string    `json:"carrier" yaml:"carrier"`
	Email          string    `json:"email,omitempty" yaml:"email"`
	Phone          string    `json:"phone,omitempty" yaml:"phone"`
	Region         string    `json:"region,omitempty" yaml:"region"`
	RiskImpression *string   `json:"riskImpression,omitempty" yaml:"risk_impression"`
	CreatedAt      time.Time `json:"createdAt" yaml:"created_at"`
}

// Claim is an insurance claim. Carrier and Status are free text supplied by
// upstream systems and are never validated against a fixed set.
type Claim struct {
	ID          string     `json:"id" yaml:"id"`
	ClaimNumber string     `json:"claimNumber" yaml:"claim_number"`
	Carrier     string     `json:"carrier" yaml:"carrier"`
	DateOfLoss  string     `json:"dateOfLoss,omitempty" yaml:"date_of_loss"`
	Status      string     `json:"status" yaml:"status"`
	CreatedAt   *time.Time `json:"createdAt,omitempty" yaml:"created_at"`
}

// Interaction is a single touchpoint with an adjuster. ClaimID is optional and
// may reference a claim that no longer exists.
type Interaction struct {
	ID         string  `json:"id" yaml:"id"`
	AdjusterID string  `json:"adjusterId" yaml:"adjuster_id"`
	ClaimID    *string `json:"claimId,omitempty" yaml:"claim_id"`
	Type       string  `json:"type" yaml:"type"`
	Date       string  `json:"date" yaml:"date"`
	Outcome    *string `json:"outcome,omitempty" yaml:"outcome"`
	Notes      string  `json:"notes,omitempty" yaml:"notes"`
}

// SupplementStatus is the lifecycle state of a supplement request.
type SupplementStatus string

const (
	SupplementPending     SupplementStatus = "pending"
	SupplementSubmitted   SupplementStatus = "submitted"
	SupplementApproved    SupplementStatus = "approved"
	SupplementDenied      SupplementStatus = "denied"
	SupplementNegotiating SupplementStatus = "negotiating"
)

// Supplement is a request for additional payment on a claim.
type Supplement struct {
	ID          string           `json:"id" yaml:"id"`
	ClaimID     string           `json:"claimId" yaml:"claim_id"`
	Status      SupplementStatus `json:"status" yaml:"status"`
	Description string           `json:"description,omitempty" yaml:"description"`
	Amount      *float64         `json:"amount,omitempty" yaml:"amount"`
}

// ClaimAdjuster links a claim to an adjuster.
type ClaimAdjuster struct {
	ClaimID    string `json:"claimId" yaml:"claim_id"`
	AdjusterID string `json:"adjusterId" yaml:"adjuster_id"`
}

// Snapshot is a full set of entities, used to seed a store.
type Snapshot struct {
	Adjusters      []Adjuster      `json:"adjusters" yaml:"adjusters"`
	Claims         []Claim         `json:"claims" yaml:"claims"`
	ClaimAdjusters []ClaimAdjuster `json:"claimAdjusters" yaml:"claim_adjusters"`
	Interactions   []Interaction   `json:"interactions" yaml:"interactions"`
	Supplements    []Supplement    `json:"supplements" yaml:"supplements"`
}

// ClaimIDs returns the IDs of claims in order.
func ClaimIDs(claims []Claim) []string {
	ids := make([]string, 0, len(claims))
	for _, c := range claims {
		ids = append(ids, c.ID)
	}
	return ids
}
