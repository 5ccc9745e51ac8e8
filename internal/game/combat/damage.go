package combat

import (
	"strconv"
	"strings"

	"github.com/cory-johannsen/keeper/internal/game/rules"
)

// DamageContext carries the attacker's damage bonus for {DB} placeholders.
//
// The bonus is kept as an expression ("1d4", "-1"); an empty bonus resolves to 0.
type DamageContext struct {
	DamageBonus string `json:"damage_bonus,omitempty"`
}

// NewDamageContext returns a context with a fixed integer damage bonus.
func NewDamageContext(bonus int) DamageContext {
	return DamageContext{DamageBonus: strconv.Itoa(bonus)}
}

// DamageBonusExpr returns a context with a dice-expression damage bonus.
func DamageBonusExpr(expr string) DamageContext {
	return DamageContext{DamageBonus: strings.TrimSpace(expr)}
}

// Vars returns the placeholder bindings for damage templates.
func (c DamageContext) Vars() map[string]string {
	if c.DamageBonus == "" {
		return map[string]string{}
	}
	return map[string]string{rules.DamageBonusVar: c.DamageBonus}
}
