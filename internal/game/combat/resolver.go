package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/keeper/internal/game/inventory"
	"github.com/cory-johannsen/keeper/internal/game/rules"
)

// AttackResult holds the outcome of a single attack.
type AttackResult struct {
	Weapon *inventory.WeaponDef `json:"weapon"`
	// Mode is the d100 mode derived from the attack options.
	Mode rules.D100Mode `json:"-"`
	// Required is the minimum tier set by range and cover.
	Required DifficultyRequirement `json:"-"`
	// Classified is the success level before the requirement was enforced.
	Classified rules.SuccessLevel `json:"classified"`
	// Test holds the original die roll and the final success level.
	Test rules.TestResult `json:"test"`
	// Damage is nil when the attack dealt no damage.
	Damage  *rules.DamageRollResult `json:"damage,omitempty"`
	Impaled bool                    `json:"impaled"`
	// Malfunctioned reports that the roll met the weapon's malfunction number.
	// It does not change the hit or the damage.
	Malfunctioned bool `json:"malfunctioned,omitempty"`
}

// Hit reports whether the final success level is neither failure nor fumble.
func (r AttackResult) Hit() bool {
	return r.Test.Success.IsSuccess()
}

// DamageValue returns the damage dealt, 0 when there is none.
func (r AttackResult) DamageValue() int {
	if r.Damage == nil {
		return 0
	}
	return r.Damage.Value
}

// Resolver runs the attack pipeline: mode, roll and classify, enforce the
// requirement, then roll damage.
type Resolver struct {
	roller *rules.D100Roller
	exprs  *rules.ExpressionResolver
	logger *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: roller, exprs and logger must be non-nil.
func NewResolver(roller *rules.D100Roller, exprs *rules.ExpressionResolver, logger *zap.Logger) *Resolver {
	return &Resolver{roller: roller, exprs: exprs, logger: logger}
}

// Damage computes damage for a final success level.
//
// Failures and fumbles deal no damage. An extreme success with an impaling
// weapon rolls the impale expression and reports impaled. Behind hard cover
// only impaling hits deal damage.
//
// Precondition: w must be non-nil.
func (r *Resolver) Damage(w *inventory.WeaponDef, level rules.SuccessLevel, ctx DamageContext, cover Cover) (*rules.DamageRollResult, bool) {
	if !level.IsSuccess() {
		return nil, false
	}
	impaled := level == rules.Extreme && w.Impaling
	dmg := r.exprs.Roll(w.DamageExpr(impaled), ctx.Vars())
	if cover == CoverHard && !impaled {
		return nil, false
	}
	return &dmg, impaled
}

// Resolve performs one attack with w by an attacker whose skill value is value.
//
// Precondition: w must be non-nil.
// Postcondition: result.Test.Roll is the unmodified die roll.
func (r *Resolver) Resolve(w *inventory.WeaponDef, value int, opts AttackOptions, ctx DamageContext) AttackResult {
	mode := Mode(opts)
	required := RequiredDifficulty(opts, w)
	test := r.roller.Test(value, mode)
	classified := test.Success
	test.Success = EnforceRequirement(classified, required)

	dmg, impaled := r.Damage(w, test.Success, ctx, opts.Cover)
	res := AttackResult{
		Weapon:        w,
		Mode:          mode,
		Required:      required,
		Classified:    classified,
		Test:          test,
		Damage:        dmg,
		Impaled:       impaled,
		Malfunctioned: w.Malfunctions(test.Roll),
	}
	r.logger.Debug("attack resolved",
		zap.String("weapon", w.ID),
		zap.Int("value", value),
		zap.String("mode", mode.String()),
		zap.String("required", required.String()),
		zap.Int("roll", test.Roll),
		zap.String("classified", string(classified)),
		zap.String("level", string(test.Success)),
		zap.Bool("impaled", impaled),
		zap.Int("damage", res.DamageValue()),
	)
	return res
}
