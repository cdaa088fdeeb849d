// Package classify maps free-text interaction types, claim statuses and
// adjuster notes onto the categories the intelligence engine counts.
//
// Upstream systems do not constrain these strings, so every function accepts
// arbitrary input and falls back to a neutral category.
package classify

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold trims and case-folds s for comparison.
func Fold(s string) string {
	// A cases.Caser keeps state between calls, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(s))
}

var (
	escalationMarkers   = []string{"escalat", "dispute", "appeal"}
	reinspectionMarkers = []string{"reinspect", "re-inspect", "inspection"}
	supplementMarkers   = []string{"supplement"}
)

// InteractionClass is the category set an interaction type belongs to. The
// flags are independent: "Supplement dispute" is both an escalation and a
// supplement.
type InteractionClass struct {
	IsEscalation   bool
	IsReinspection bool
	IsSupplement   bool
}

// InteractionType classifies a raw interaction type by case-insensitive
// substring match.
func InteractionType(raw string) InteractionClass {
	t := Fold(raw)
	return InteractionClass{
		IsEscalation:   containsAny(t, escalationMarkers),
		IsReinspection: containsAny(t, reinspectionMarkers),
		IsSupplement:   containsAny(t, supplementMarkers),
	}
}

// IsReinspectionType reports whether an interaction counts toward
// reinspection win rates. Raw "Inspection" is listed explicitly so the rule
// survives any change to the substring markers.
func IsReinspectionType(raw string) bool {
	return raw == "Inspection" || InteractionType(raw).IsReinspection
}

// Bucket is the resolution bucket of a claim status.
type Bucket string

const (
	BucketResolved Bucket = "resolved"
	BucketStalled  Bucket = "stalled"
	BucketOpen     Bucket = "open"
	BucketOther    Bucket = "other"
)

var (
	resolvedStatuses = map[string]struct{}{"resolved": {}, "closed": {}, "overturned": {}, "approved": {}}
	stalledStatuses  = map[string]struct{}{"stalled": {}, "denied": {}, "litigation": {}}
	openStatuses     = map[string]struct{}{"open": {}, "in_progress": {}, "active": {}, "negotiating": {}}
)

// ClaimStatus maps a free-text claim status to its resolution bucket.
// Spaces and hyphens are treated as underscores so "In Progress" and
// "in-progress" both land in open. Any status mentioning litigation is
// stalled. Unrecognized values return BucketOther.
func ClaimStatus(raw string) Bucket {
	s := normalizeStatus(raw)
	if _, ok := resolvedStatuses[s]; ok {
		return BucketResolved
	}
	if _, ok := stalledStatuses[s]; ok || strings.Contains(s, "litigation") {
		return BucketStalled
	}
	if _, ok := openStatuses[s]; ok {
		return BucketOpen
	}
	return BucketOther
}

// IsOverturned reports whether a claim status is literally "overturned".
func IsOverturned(raw string) bool {
	return normalizeStatus(raw) == "overturned"
}

func normalizeStatus(raw string) string {
	return strings.NewReplacer(" ", "_", "-", "_").Replace(Fold(raw))
}

var (
	reinspectionWinMarkers = []string{"approved", "successful", "favorable"}
	escalationWinMarkers   = []string{"approved", "successful", "favorable", "resolved"}
)

// IsReinspectionWin reports whether an interaction outcome records a
// favorable reinspection result.
func IsReinspectionWin(outcome *string) bool {
	return outcome != nil && containsAny(Fold(*outcome), reinspectionWinMarkers)
}

// IsEscalationWin reports whether an interaction outcome records a
// favorable escalation result.
func IsEscalationWin(outcome *string) bool {
	return outcome != nil && containsAny(Fold(*outcome), escalationWinMarkers)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
