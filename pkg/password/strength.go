package password

import "strings"

// Strength labels, one per score bucket.
const (
	LabelVeryWeak = "Very Weak"
	LabelWeak     = "Weak"
	LabelFair     = "Fair"
	LabelGood     = "Good"
	LabelStrong   = "Strong"
)

// Strength scores a candidate in [0,4] for live UI feedback. The score
// counts satisfied requirement classes (length, symbols, digits, mixed
// case) so it is monotonic as classes are added. It is independent of
// Validate and must never gate acceptance on its own.
func (pc *DefaultPolicyChecker) Strength(candidate string) int {
	if candidate == "" {
		return 0
	}

	score := 0
	if len(candidate) >= pc.policy.MinLength {
		score++
	}
	if countSymbols(candidate) >= pc.policy.MinSymbols {
		score++
	}
	if countDigits(candidate) >= pc.policy.MinDigits {
		score++
	}
	if hasMixedCase(candidate) {
		score++
	}
	return score
}

// StrengthLabel maps a score to its display bucket.
func StrengthLabel(score int) string {
	switch {
	case score <= 0:
		return LabelVeryWeak
	case score == 1:
		return LabelWeak
	case score == 2:
		return LabelFair
	case score == 3:
		return LabelGood
	default:
		return LabelStrong
	}
}

func hasMixedCase(s string) bool {
	return strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") &&
		strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
}
