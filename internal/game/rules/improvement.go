package rules

import (
	"sort"

	"go.uber.org/zap"
)

// DefaultImprovementCap is the ceiling applied to improved skills when no
// other cap is configured.
const DefaultImprovementCap = 99

// ImprovementDelta returns the points a skill gains on an improvement check.
//
// The check succeeds when checkRoll exceeds current (always, for a skill at 0),
// in which case the skill gains gainRoll points.
//
// Precondition: checkRoll in [1, 100]; gainRoll in [1, 10].
func ImprovementDelta(current, checkRoll, gainRoll int) int {
	if current == 0 || checkRoll > current {
		return gainRoll
	}
	return 0
}

// PendingImprovement is a skill flagged for an improvement check.
type PendingImprovement struct {
	Key   string // table key on the owning sheet
	Name  string // skill display name
	Value int    // value before the check
}

// ImprovementResult is the audit record of one improvement check.
//
// CheckRoll is 0 for skills exempt from improvement; no dice are rolled for them.
type ImprovementResult struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Before    int    `json:"before"`
	CheckRoll int    `json:"check_roll"`
	Gained    int    `json:"gained"`
	After     int    `json:"after"`
	Improved  bool   `json:"improved"`
}

// ImprovementEngine rolls improvement checks for pending skills.
type ImprovementEngine struct {
	eval   Evaluator
	exempt func(name string) bool
	logger *zap.Logger
}

// NewImprovementEngine creates an ImprovementEngine. exempt reports whether a
// skill name never improves through checks; nil exempts nothing.
//
// Precondition: eval and logger must be non-nil.
func NewImprovementEngine(eval Evaluator, exempt func(name string) bool, logger *zap.Logger) *ImprovementEngine {
	if exempt == nil {
		exempt = func(string) bool { return false }
	}
	return &ImprovementEngine{eval: eval, exempt: exempt, logger: logger}
}

// Check rolls one improvement check for p, capping the result at ceiling.
//
// A skill already at or above ceiling still rolls, but After never exceeds ceiling.
func (e *ImprovementEngine) Check(p PendingImprovement, ceiling int) ImprovementResult {
	if e.exempt(p.Name) {
		return ImprovementResult{
			Key:    p.Key,
			Name:   p.Name,
			Before: p.Value,
			After:  p.Value,
		}
	}
	check := e.rollOr("d%", 100)
	gain := e.rollOr("1d10", 10)
	delta := ImprovementDelta(p.Value, check, gain)
	after := p.Value + delta
	if after > ceiling {
		after = ceiling
	}
	improved := after > p.Value
	gained := 0
	if improved {
		gained = after - p.Value
	}
	e.logger.Debug("improvement check",
		zap.String("skill", p.Name),
		zap.Int("before", p.Value),
		zap.Int("check_roll", check),
		zap.Int("gain_roll", gain),
		zap.Int("after", after),
	)
	return ImprovementResult{
		Key:       p.Key,
		Name:      p.Name,
		Before:    p.Value,
		CheckRoll: check,
		Gained:    gained,
		After:     after,
		Improved:  improved,
	}
}

// Run checks every pending skill exactly once, in ascending key order.
// It does not mutate anything; callers apply the results.
func (e *ImprovementEngine) Run(pending []PendingImprovement, ceiling int) []ImprovementResult {
	sorted := make([]PendingImprovement, len(pending))
	copy(sorted, pending)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	results := make([]ImprovementResult, 0, len(sorted))
	for _, p := range sorted {
		results = append(results, e.Check(p, ceiling))
	}
	return results
}

// rollOr evaluates expr, falling back to a uniform draw in [1, sides].
func (e *ImprovementEngine) rollOr(expr string, sides int) int {
	res, err := e.eval.RollExpr(expr)
	if err != nil {
		e.logger.Warn("improvement roll failed, using fallback",
			zap.String("expression", expr),
			zap.Error(err),
		)
		return e.eval.Intn(sides) + 1
	}
	return res.Total
}
