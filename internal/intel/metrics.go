package intel

import (
	"math"
	"time"

	"github.com/sells-group/adjuster-intel/internal/classify"
	"github.com/sells-group/adjuster-intel/internal/model"
)

const day = 24 * time.Hour

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// parseDate parses the date formats seen in claim and interaction records.
// Date-only values are midnight UTC.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// daysBetween returns the whole-day distance from start to end, rounding
// half days up.
func daysBetween(start, end time.Time) int {
	return int(roundHalfUp(float64(end.Sub(start)) / float64(day)))
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func ptr[T any](v T) *T { return &v }

// percent returns num/den as a rounded 0-100 percentage, or nil when den is
// zero.
func percent(num, den int) *int {
	if den == 0 {
		return nil
	}
	v := int(roundHalfUp(float64(num) / float64(den) * 100))
	return ptr(classify.Clamp(v, 0, 100))
}

// meanRounded returns the rounded mean of vals, or nil when empty.
func meanRounded(vals []int) *int {
	if len(vals) == 0 {
		return nil
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return ptr(int(roundHalfUp(float64(sum) / float64(len(vals)))))
}

// perClaim returns total/claims rounded to one decimal, or nil without claims.
func perClaim(total, claims int) *float64 {
	if claims == 0 {
		return nil
	}
	return ptr(roundHalfUp(float64(total)/float64(claims)*10) / 10)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// tally holds the counts every calculator starts from.
type tally struct {
	totalInteractions int
	totalClaims       int
	escalations       int
	reinspections     int
	supplements       int
	resolved          int
	stalled           int
	open              int
}

func countInteractions(t *tally, interactions []model.Interaction) {
	t.totalInteractions = len(interactions)
	for _, in := range interactions {
		c := classify.InteractionType(in.Type)
		if c.IsEscalation {
			t.escalations++
		}
		if c.IsReinspection {
			t.reinspections++
		}
		if c.IsSupplement {
			t.supplements++
		}
	}
}

func countClaims(t *tally, claims []model.Claim) {
	t.totalClaims = len(claims)
	for _, c := range claims {
		switch classify.ClaimStatus(c.Status) {
		case classify.BucketResolved:
			t.resolved++
		case classify.BucketStalled:
			t.stalled++
		case classify.BucketOpen:
			t.open++
		}
	}
}

// byClaim indexes interactions by the claim they are tagged with. Untagged
// interactions are dropped.
func byClaim(interactions []model.Interaction) map[string][]model.Interaction {
	idx := make(map[string][]model.Interaction)
	for _, in := range interactions {
		if in.ClaimID == nil || *in.ClaimID == "" {
			continue
		}
		idx[*in.ClaimID] = append(idx[*in.ClaimID], in)
	}
	return idx
}

// resolutionStats summarizes how long resolved claims took and how much
// contact they needed.
type resolutionStats struct {
	avgDays *int
	// interactionsPerResolved is the mean tagged-interaction count across all
	// resolved claims, including claims with none. Nil without resolved claims.
	interactionsPerResolved *float64
}

// resolution computes days-to-resolution over resolved claims. A claim
// contributes only if it has dated interactions. Its clock starts at the date
// of loss, or the first interaction when that is missing, and stops at the
// last interaction. Negative spans are bad data and are dropped.
func resolution(claims []model.Claim, idx map[string][]model.Interaction) resolutionStats {
	var days []int
	resolvedClaims, resolvedInteractions := 0, 0

	for _, c := range claims {
		if classify.ClaimStatus(c.Status) != classify.BucketResolved {
			continue
		}
		resolvedClaims++
		related := idx[c.ID]
		resolvedInteractions += len(related)

		first, last, ok := dateRange(related)
		if !ok {
			continue
		}
		start := first
		if loss, ok := parseDate(c.DateOfLoss); ok {
			start = loss
		}
		d := daysBetween(start, last)
		if d < 0 {
			continue
		}
		days = append(days, d)
	}

	stats := resolutionStats{avgDays: meanRounded(days)}
	if resolvedClaims > 0 {
		stats.interactionsPerResolved = ptr(float64(resolvedInteractions) / float64(resolvedClaims))
	}
	return stats
}

func dateRange(interactions []model.Interaction) (first, last time.Time, ok bool) {
	for _, in := range interactions {
		t, parsed := parseDate(in.Date)
		if !parsed {
			continue
		}
		if !ok || t.Before(first) {
			first = t
		}
		if !ok || t.After(last) {
			last = t
		}
		ok = true
	}
	return first, last, ok
}

// patternTags evaluates each tag rule independently. The result is never nil
// so it serializes as an empty list.
func patternTags(t tally, res resolutionStats) []string {
	escalationRate := ratio(t.escalations, t.totalInteractions)
	reinspectionRate := ratio(t.reinspections, t.totalInteractions)

	tags := []string{}
	if reinspectionRate > 0.15 {
		tags = append(tags, model.TagReinspectionHeavy)
	}
	if escalationRate > 0.1 && t.resolved > t.stalled {
		tags = append(tags, model.TagEscalationResponsive)
	}
	if res.avgDays != nil && *res.avgDays > 60 {
		tags = append(tags, model.TagSlowResolution)
	}
	if res.avgDays != nil && *res.avgDays <= 30 {
		tags = append(tags, model.TagFastResolution)
	}
	if t.stalled > t.resolved && t.totalClaims > 2 {
		tags = append(tags, model.TagHighFriction)
	}
	if t.resolved > 2*t.stalled && t.totalClaims > 2 {
		tags = append(tags, model.TagLowFriction)
	}
	if res.interactionsPerResolved != nil && *res.interactionsPerResolved > 5 {
		tags = append(tags, model.TagDocumentationSensitive)
	}
	return tags
}

// supplementRate returns the approved share of decided supplements, or nil
// when none are approved or denied.
func supplementRate(supplements []model.Supplement) *int {
	approved, decided := 0, 0
	for _, s := range supplements {
		switch model.SupplementStatus(classify.Fold(string(s.Status))) {
		case model.SupplementApproved:
			approved++
			decided++
		case model.SupplementDenied:
			decided++
		}
	}
	return percent(approved, decided)
}

// reinspectionWinRate returns the favorable share of reinspection
// interactions, or nil when there are none.
func reinspectionWinRate(interactions []model.Interaction) *int {
	wins, total := 0, 0
	for _, in := range interactions {
		if !classify.IsReinspectionType(in.Type) {
			continue
		}
		total++
		if classify.IsReinspectionWin(in.Outcome) {
			wins++
		}
	}
	return percent(wins, total)
}
