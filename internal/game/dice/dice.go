// Package dice provides the randomness abstraction, the dice-expression
// evaluator, and roll-result types used by the percentile rules engine.
package dice

import (
	"errors"
	"fmt"
)

// ErrEmptyExpression is returned when an empty or blank expression is parsed.
var ErrEmptyExpression = errors.New("dice: empty expression")

// ErrDivideByZero is returned when an expression divides by zero at roll time.
var ErrDivideByZero = errors.New("dice: division by zero")

// RollResult holds the full audit trail for a single dice expression evaluation.
//
// Postcondition: Total is the integer value of Expression given the rolled Dice.
type RollResult struct {
	Expression string // original expression string, e.g. "(2d10kh1)*10+1d10"
	Dice       []int  // every kept die, in evaluation order
	Total      int    // final integer value of the expression
}

// Sum returns the sum of all kept dice, ignoring literals and operators.
func (r RollResult) Sum() int {
	total := 0
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] = 12"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v = %d", r.Expression, r.Dice, r.Total)
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
