// Package intel derives behavioral intelligence for adjusters, carriers and
// the whole portfolio from a read-only snapshot of claims, interactions and
// supplements.
//
// Every calculation is recomputed from scratch on each call. Ratios and
// averages whose denominator is empty come back as nil so callers can tell
// "insufficient data" apart from a computed zero.
package intel

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/adjuster-intel/internal/model"
)

// ErrNotFound is returned when an adjuster ID or carrier name matches no
// records.
var ErrNotFound = eris.New("intel: not found")

// Reader is the read side of the entity store.
type Reader interface {
	GetAdjuster(ctx context.Context, id string) (*model.Adjuster, error)
	GetClaimsByAdjuster(ctx context.Context, adjusterID string) ([]model.Claim, error)
	GetInteractionsByAdjuster(ctx context.Context, adjusterID string) ([]model.Interaction, error)
	GetInteractionsByClaimID(ctx context.Context, claimID string) ([]model.Interaction, error)
	GetAllAdjusters(ctx context.Context) ([]model.Adjuster, error)
	GetAllClaims(ctx context.Context) ([]model.Claim, error)
	GetSupplementsByClaimIDs(ctx context.Context, claimIDs []string) ([]model.Supplement, error)
	GetAllInteractions(ctx context.Context) ([]model.Interaction, error)
	GetAllSupplements(ctx context.Context) ([]model.Supplement, error)
}

// BatchInteractionReader is implemented by readers that can fetch the
// interactions of many claims in one query. The carrier calculator uses it
// when available and otherwise reads claim by claim.
type BatchInteractionReader interface {
	GetInteractionsByClaimIDs(ctx context.Context, claimIDs []string) ([]model.Interaction, error)
}

// Engine runs the calculators against a Reader.
type Engine struct {
	reader Reader
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used where a claim has no creation time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an Engine reading from r.
func NewEngine(r Reader, opts ...Option) *Engine {
	e := &Engine{reader: r, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}
