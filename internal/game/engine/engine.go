// Package engine drives percentile checks, attacks and improvement batches
// against a character sheet.
//
// A Keeper assumes exclusive access to a sheet for the duration of a call;
// callers serving several actors must serialize mutations per sheet.
package engine

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/keeper/internal/game/character"
	"github.com/cory-johannsen/keeper/internal/game/combat"
	"github.com/cory-johannsen/keeper/internal/game/dice"
	"github.com/cory-johannsen/keeper/internal/game/inventory"
	"github.com/cory-johannsen/keeper/internal/game/rules"
	"github.com/cory-johannsen/keeper/internal/game/ruleset"
)

// ErrSkillNotFound is returned by callers that surface an absent skill as an error.
var ErrSkillNotFound = errors.New("engine: skill not found")

// Hooks observes resolved outcomes. Implementations must not mutate results.
type Hooks interface {
	OnSkillCheck(skill string, value int, res rules.TestResult)
	OnAttack(skill string, res combat.AttackResult)
	OnImprovement(res rules.ImprovementResult)
}

type noHooks struct{}

func (noHooks) OnSkillCheck(string, int, rules.TestResult) {}
func (noHooks) OnAttack(string, combat.AttackResult) {}
func (noHooks) OnImprovement(rules.ImprovementResult) {}

// Settings are the rule options a Keeper runs with.
type Settings struct {
	// ImprovementCap is the ceiling for improved skills when a batch is run
	// without an explicit cap. 0 uses rules.DefaultImprovementCap.
	ImprovementCap int
	// MarkOnSuccess marks a skill for improvement whenever a check with it succeeds.
	MarkOnSuccess bool
	// Overflow maps composite d100 rolls above 100 into range.
	Overflow rules.OverflowPolicy
}

// DefaultSettings returns the standard rule options.
func DefaultSettings() Settings {
	return Settings{
		ImprovementCap: rules.DefaultImprovementCap,
		MarkOnSuccess:  true,
		Overflow:       rules.OverflowClamp,
	}
}

// SkillTestResult is the outcome of a check against a sheet skill or attribute.
type SkillTestResult struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Mode  string `json:"mode"`
	rules.TestResult
	// Marked reports that this check flagged the skill for improvement.
	Marked bool `json:"marked,omitempty"`
}

// Keeper resolves checks, attacks and improvements.
type Keeper struct {
	roller   *dice.Roller
	d100     *rules.D100Roller
	exprs    *rules.ExpressionResolver
	improve  *rules.ImprovementEngine
	attacks  *combat.Resolver
	settings Settings
	hooks    Hooks
	logger   *zap.Logger
}

// NewKeeper wires a Keeper around roller.
//
// Precondition: roller and logger must be non-nil; hooks may be nil.
// Postcondition: Returns a non-nil Keeper.
func NewKeeper(roller *dice.Roller, settings Settings, hooks Hooks, logger *zap.Logger) *Keeper {
	if settings.ImprovementCap <= 0 {
		settings.ImprovementCap = rules.DefaultImprovementCap
	}
	if hooks == nil {
		hooks = noHooks{}
	}
	d100 := rules.NewD100Roller(roller, settings.Overflow, logger)
	exprs := rules.NewExpressionResolver(roller, logger)
	return &Keeper{
		roller:   roller,
		d100:     d100,
		exprs:    exprs,
		improve:  rules.NewImprovementEngine(roller, ruleset.ImprovementExempt, logger),
		attacks:  combat.NewResolver(d100, exprs, logger),
		settings: settings,
		hooks:    hooks,
		logger:   logger,
	}
}

// Settings returns the rule options in effect.
func (k *Keeper) Settings() Settings { return k.settings }

// Roll evaluates a dice expression.
func (k *Keeper) Roll(expr string) (dice.RollResult, error) {
	return k.roller.RollExpr(expr)
}

// Check rolls a d100 in mode against a bare value.
func (k *Keeper) Check(value int, mode rules.D100Mode) rules.TestResult {
	return k.d100.Test(value, mode)
}

// TestSkill rolls a check against the named skill on s.
//
// A success marks the skill for improvement when markOnSuccess is set.
// Postcondition: ok is false, and s is unchanged, if s has no such skill.
func (k *Keeper) TestSkill(s *character.Sheet, name string, mode rules.D100Mode, markOnSuccess bool) (SkillTestResult, bool) {
	sk, ok := s.SkillNamed(name)
	if !ok {
		k.logger.Debug("skill check on unknown skill", zap.String("sheet", s.Name), zap.String("skill", name))
		return SkillTestResult{}, false
	}
	test := k.d100.Test(sk.Value, mode)
	res := SkillTestResult{Name: name, Value: sk.Value, Mode: mode.String(), TestResult: test}
	if markOnSuccess && test.Success.IsSuccess() {
		res.Marked = s.MarkForImprovement(name)
	}
	k.logger.Debug("skill check",
		zap.String("skill", name),
		zap.Int("value", sk.Value),
		zap.String("mode", mode.String()),
		zap.Int("roll", test.Roll),
		zap.String("level", string(test.Success)),
	)
	k.hooks.OnSkillCheck(name, sk.Value, test)
	return res, true
}

// TestSkillType is TestSkill for a catalog skill.
func (k *Keeper) TestSkillType(s *character.Sheet, t ruleset.SkillType, mode rules.D100Mode, markOnSuccess bool) (SkillTestResult, bool) {
	return k.TestSkill(s, t.DisplayName(), mode, markOnSuccess)
}

// TestAttribute rolls a check against attribute a of s. Unset attributes test at 0.
func (k *Keeper) TestAttribute(s *character.Sheet, a character.Attribute, mode rules.D100Mode) SkillTestResult {
	value := s.Attribute(a)
	test := k.d100.Test(value, mode)
	k.logger.Debug("attribute check",
		zap.String("attribute", a.Code()),
		zap.Int("value", value),
		zap.String("mode", mode.String()),
		zap.Int("roll", test.Roll),
		zap.String("level", string(test.Success)),
	)
	k.hooks.OnSkillCheck(a.Code(), value, test)
	return SkillTestResult{Name: a.Code(), Value: value, Mode: mode.String(), TestResult: test}
}

// Attack resolves an attack with w at a bare skill value.
//
// Precondition: w must be non-nil.
func (k *Keeper) Attack(w *inventory.WeaponDef, value int, opts combat.AttackOptions, ctx combat.DamageContext) combat.AttackResult {
	res := k.attacks.Resolve(w, value, opts, ctx)
	k.hooks.OnAttack("", res)
	return res
}

// PerformAttack attacks with w using the named skill on s and the sheet's
// damage bonus. A hit marks the skill for improvement when the Keeper's
// settings ask for it.
//
// Precondition: w must be non-nil.
// Postcondition: ok is false, and s is unchanged, if s has no such skill.
func (k *Keeper) PerformAttack(s *character.Sheet, w *inventory.WeaponDef, skillName string, opts combat.AttackOptions) (combat.AttackResult, bool) {
	sk, ok := s.SkillNamed(skillName)
	if !ok {
		k.logger.Debug("attack with unknown skill", zap.String("sheet", s.Name), zap.String("skill", skillName))
		return combat.AttackResult{}, false
	}
	res := k.attacks.Resolve(w, sk.Value, opts, s.DamageContext())
	if k.settings.MarkOnSuccess && res.Hit() {
		s.MarkForImprovement(skillName)
	}
	k.hooks.OnAttack(skillName, res)
	return res, true
}

// PerformImprovementChecks runs one improvement check per marked skill on s,
// applies the results and clears every flag.
//
// The ceiling is limit when non-nil, else the configured improvement cap.
// Postcondition: results are sorted by skill key; no skill on s remains marked.
func (k *Keeper) PerformImprovementChecks(s *character.Sheet, limit *int) []rules.ImprovementResult {
	ceiling := k.settings.ImprovementCap
	if limit != nil {
		ceiling = *limit
	}
	results := k.improve.Run(s.PendingImprovements(), ceiling)
	s.ApplyImprovements(results)
	for _, r := range results {
		k.hooks.OnImprovement(r)
	}
	k.logger.Debug("improvement batch",
		zap.String("sheet", s.Name),
		zap.Int("checked", len(results)),
		zap.Int("ceiling", ceiling),
	)
	return results
}
