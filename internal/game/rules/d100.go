package rules

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/keeper/internal/game/dice"
)

// Evaluator is the dice-expression service consumed by the rules engine.
// *dice.Roller satisfies it.
type Evaluator interface {
	RollExpr(expr string) (dice.RollResult, error)
	Intn(n int) int
}

// D100Mode selects how a percentile roll is made.
type D100Mode int

const (
	Normal D100Mode = iota
	Advantage
	Disadvantage
)

// String returns the mode name.
func (m D100Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Advantage:
		return "advantage"
	case Disadvantage:
		return "disadvantage"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name ("normal", "advantage", "disadvantage").
func ParseMode(s string) (D100Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return Normal, nil
	case "advantage", "bonus":
		return Advantage, nil
	case "disadvantage", "penalty":
		return Disadvantage, nil
	default:
		return Normal, fmt.Errorf("rules: unknown d100 mode %q", s)
	}
}

// Built-in percentile expressions per mode.
const (
	NormalExpr       = "d%"
	AdvantageExpr    = "(2d10kh1)*10+1d10"
	DisadvantageExpr = "(2d10dh1)*10+1d10"
)

// Expression returns the dice expression used for m.
func (m D100Mode) Expression() string {
	switch m {
	case Advantage:
		return AdvantageExpr
	case Disadvantage:
		return DisadvantageExpr
	default:
		return NormalExpr
	}
}

// OverflowPolicy decides how a composite advantage/disadvantage roll above
// 100 (possible range 11-110) is mapped back onto the 1-100 table.
type OverflowPolicy string

const (
	// OverflowClamp maps 101-110 to 100, which classifies as a fumble.
	OverflowClamp OverflowPolicy = "clamp"
	// OverflowWrap maps 101-110 to 1-10, reading a tens die of 10 as "00".
	OverflowWrap OverflowPolicy = "wrap"
)

// ParseOverflowPolicy validates a policy name.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch OverflowPolicy(strings.ToLower(s)) {
	case "", OverflowClamp:
		return OverflowClamp, nil
	case OverflowWrap:
		return OverflowWrap, nil
	default:
		return "", fmt.Errorf("rules: unknown d100 overflow policy %q", s)
	}
}

// Apply maps a raw composite roll onto [1, 100].
//
// Postcondition: 1 <= result <= 100 for any raw value in [1, 110].
func (p OverflowPolicy) Apply(raw int) int {
	if raw <= 100 {
		if raw < 1 {
			return 1
		}
		return raw
	}
	if p == OverflowWrap {
		return (raw-1)%100 + 1
	}
	return 100
}

// D100Roller produces percentile rolls for the three rolling modes.
type D100Roller struct {
	eval   Evaluator
	policy OverflowPolicy
	logger *zap.Logger
}

// NewD100Roller creates a D100Roller.
//
// Precondition: eval and logger must be non-nil.
func NewD100Roller(eval Evaluator, policy OverflowPolicy, logger *zap.Logger) *D100Roller {
	if policy == "" {
		policy = OverflowClamp
	}
	return &D100Roller{eval: eval, policy: policy, logger: logger}
}

// Roll returns one percentile value for mode.
//
// If the expression service fails, a uniform value over the mode's nominal
// range is drawn instead (1-100 for normal, 11-110 for the composite modes)
// before the overflow policy applies.
//
// Postcondition: 1 <= result <= 100.
func (r *D100Roller) Roll(mode D100Mode) int {
	expr := mode.Expression()
	raw := 0
	res, err := r.eval.RollExpr(expr)
	if err != nil {
		r.logger.Warn("d100 expression failed, using fallback",
			zap.String("mode", mode.String()),
			zap.String("expression", expr),
			zap.Error(err),
		)
		if mode == Normal {
			raw = r.eval.Intn(100) + 1
		} else {
			raw = r.eval.Intn(100) + 11
		}
	} else {
		raw = res.Total
	}
	return r.policy.Apply(raw)
}

// Test rolls in mode and classifies the result against value.
func (r *D100Roller) Test(value int, mode D100Mode) TestResult {
	roll := r.Roll(mode)
	return TestResult{Roll: roll, Success: Classify(roll, value)}
}
