// Package rules implements the percentile resolution core: success
// classification, d100 rolling modes, damage-expression resolution and
// skill-improvement arithmetic.
package rules

// SuccessLevel is the discrete outcome of a percentile check.
//
// Levels are not ordered by declaration: fumble and failure are both
// non-successes and must be compared explicitly.
type SuccessLevel string

const (
	Fumble   SuccessLevel = "fumble"
	Failure  SuccessLevel = "failure"
	Regular  SuccessLevel = "regular"
	Hard     SuccessLevel = "hard"
	Extreme  SuccessLevel = "extreme"
	Critical SuccessLevel = "critical"
)

// IsSuccess reports whether l is neither a failure nor a fumble.
func (l SuccessLevel) IsSuccess() bool {
	return l != Failure && l != Fumble
}

// String returns the level name.
func (l SuccessLevel) String() string { return string(l) }

// Thresholds holds a percentage value and its hard and extreme thresholds.
//
// Thresholds are always derived on demand from the current value and never stored.
type Thresholds struct {
	Value int // regular success threshold
	Half  int // hard success threshold, Value/2
	Fifth int // extreme success threshold, Value/5
}

// NewThresholds derives the regular, hard and extreme thresholds for value.
//
// Postcondition: Half == value/2 and Fifth == value/5 (integer division).
func NewThresholds(value int) Thresholds {
	return Thresholds{Value: value, Half: value / 2, Fifth: value / 5}
}

// Classify maps a percentile roll against a skill or attribute value to a
// SuccessLevel.
//
// A roll of 1 is always critical, even against a value of 0. A roll of 100,
// or 96-100 against a value below 50, is a fumble. Everything else compares
// against the value's thresholds.
//
// Precondition: roll is in [1, 100].
func Classify(roll, value int) SuccessLevel {
	if roll == 1 {
		return Critical
	}
	if roll == 100 || (roll >= 96 && value < 50) {
		return Fumble
	}
	t := NewThresholds(value)
	switch {
	case roll <= t.Fifth:
		return Extreme
	case roll <= t.Half:
		return Hard
	case roll <= t.Value:
		return Regular
	default:
		return Failure
	}
}

// TestResult is the die roll and classified outcome of a single check.
type TestResult struct {
	Roll    int          `json:"roll"`
	Success SuccessLevel `json:"success"`
}
