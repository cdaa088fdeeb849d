package classify

// BaseRiskScore is the score of an adjuster with no notes.
const BaseRiskScore = 50

// RiskRule adds Weight to a risk score when any of Keywords appears in the
// folded note text. Each rule counts at most once per text.
type RiskRule struct {
	Keywords []string
	Weight   int
}

// RiskRules is the shared keyword table for adjuster and carrier risk
// scoring. Keywords match as substrings, so "unfair" also hits "fair".
var RiskRules = []RiskRule{
	{[]string{"difficult", "aggressive"}, 15},
	{[]string{"slow", "delay"}, 10},
	{[]string{"fair", "reasonable"}, -15},
	{[]string{"responsive", "cooperative"}, -10},
}

// ScoreRiskText scores free-text notes about an adjuster on a 0-100 scale,
// higher meaning harder to work with. Weights accumulate before the final
// clamp.
func ScoreRiskText(text string) int {
	return scoreWith(RiskRules, text)
}

// ScoreRiskNote is ScoreRiskText for an optional note.
func ScoreRiskNote(note *string) int {
	if note == nil {
		return BaseRiskScore
	}
	return ScoreRiskText(*note)
}

func scoreWith(rules []RiskRule, text string) int {
	t := Fold(text)
	score := BaseRiskScore
	if t == "" {
		return score
	}
	for _, r := range rules {
		if containsAny(t, r.Keywords) {
			score += r.Weight
		}
	}
	return Clamp(score, 0, 100)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
