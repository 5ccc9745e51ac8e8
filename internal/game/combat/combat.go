// Package combat resolves single attacks: situational modifiers collapse into
// a d100 mode, range and cover set a minimum success tier, and weapon damage
// is rolled for hits.
package combat

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/keeper/internal/game/inventory"
	"github.com/cory-johannsen/keeper/internal/game/rules"
)

// Cover is the protection the target benefits from.
type Cover string

const (
	CoverNone   Cover = "none"
	CoverLight  Cover = "light"
	CoverMedium Cover = "medium"
	CoverHard   Cover = "hard"
)

// ParseCover parses a cover level. The empty string is CoverNone.
func ParseCover(s string) (Cover, error) {
	switch c := Cover(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CoverNone, nil
	case CoverNone, CoverLight, CoverMedium, CoverHard:
		return c, nil
	default:
		return "", fmt.Errorf("combat: unknown cover %q", s)
	}
}

// TargetSize is the size category of the target.
type TargetSize string

const (
	SizeSmall  TargetSize = "small"
	SizeNormal TargetSize = "normal"
	SizeLarge  TargetSize = "large"
)

// ParseTargetSize parses a target size. The empty string is SizeNormal.
func ParseTargetSize(s string) (TargetSize, error) {
	switch z := TargetSize(strings.ToLower(strings.TrimSpace(s))); z {
	case "":
		return SizeNormal, nil
	case SizeSmall, SizeNormal, SizeLarge:
		return z, nil
	default:
		return "", fmt.Errorf("combat: unknown target size %q", s)
	}
}

// AttackOptions is the situational snapshot for one attack.
//
// The zero value is an unaimed attack at a normal-sized target in the open
// with no range given.
type AttackOptions struct {
	RangeYards *int       `json:"range_yards,omitempty"`
	Cover      Cover      `json:"cover,omitempty"`
	TargetSize TargetSize `json:"target_size,omitempty"`
	Aimed      bool       `json:"aimed,omitempty"`
	Braced     bool       `json:"braced,omitempty"`
	Moving     bool       `json:"moving,omitempty"`
}

// AtRange returns a copy of o with the range set to yards.
func (o AttackOptions) AtRange(yards int) AttackOptions {
	o.RangeYards = &yards
	return o
}

// Mode collapses the situational factors of o into a single d100 mode.
//
// Aim, brace and a large target each add a bonus point. A moving attacker,
// any cover and a small target each add a penalty point. Only the sign of
// bonus minus penalty matters.
func Mode(o AttackOptions) rules.D100Mode {
	bonus, penalty := 0, 0
	if o.Aimed {
		bonus++
	}
	if o.Braced {
		bonus++
	}
	if o.Moving {
		penalty++
	}
	switch o.Cover {
	case CoverLight, CoverMedium, CoverHard:
		penalty++
	}
	switch o.TargetSize {
	case SizeSmall:
		penalty++
	case SizeLarge:
		bonus++
	}
	switch net := bonus - penalty; {
	case net > 0:
		return rules.Advantage
	case net < 0:
		return rules.Disadvantage
	default:
		return rules.Normal
	}
}

// DifficultyRequirement is the minimum success tier an attack must reach.
// Requirements are totally ordered: RequireRegular < RequireHard < RequireExtreme.
type DifficultyRequirement int

const (
	RequireRegular DifficultyRequirement = iota
	RequireHard
	RequireExtreme
)

// String returns the requirement name.
func (d DifficultyRequirement) String() string {
	switch d {
	case RequireRegular:
		return "regular"
	case RequireHard:
		return "hard"
	case RequireExtreme:
		return "extreme"
	default:
		return "unknown"
	}
}

// RequiredDifficulty derives the minimum success tier for an attack with w.
//
// With a range and a ranged weapon, the first band containing the range sets
// the tier (short: regular, medium: hard, long or beyond: extreme). Medium
// cover raises the tier to at least hard; hard cover always demands extreme.
//
// Precondition: w must be non-nil.
func RequiredDifficulty(o AttackOptions, w *inventory.WeaponDef) DifficultyRequirement {
	req := RequireRegular
	if o.RangeYards != nil && w.Range != nil {
		r, b := *o.RangeYards, w.Range
		switch {
		case b.Short > 0 && r <= b.Short:
			req = RequireRegular
		case b.Medium > 0 && r <= b.Medium:
			req = RequireHard
		default:
			req = RequireExtreme
		}
	}
	if o.Cover == CoverMedium && req < RequireHard {
		req = RequireHard
	}
	if o.Cover == CoverHard {
		req = RequireExtreme
	}
	return req
}

// EnforceRequirement demotes a success below required to a failure.
//
// Critical successes and tiers at or above the requirement are unchanged.
// Failures and fumbles are returned as they are.
func EnforceRequirement(level rules.SuccessLevel, required DifficultyRequirement) rules.SuccessLevel {
	var tier DifficultyRequirement
	switch level {
	case rules.Critical, rules.Failure, rules.Fumble:
		return level
	case rules.Regular:
		tier = RequireRegular
	case rules.Hard:
		tier = RequireHard
	case rules.Extreme:
		tier = RequireExtreme
	}
	if tier < required {
		return rules.Failure
	}
	return level
}
