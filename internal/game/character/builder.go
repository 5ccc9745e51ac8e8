package character

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/cory-johannsen/keeper/internal/game/combat"
	"github.com/cory-johannsen/keeper/internal/game/rules"
	"github.com/cory-johannsen/keeper/internal/game/ruleset"
)

// NewSheet constructs a new Sheet with a fresh ID and the given attributes.
//
// Precondition: name must be non-empty; attribute values must be >= 0.
// Postcondition: Returns a Sheet ready for persistence, or a non-nil error.
func NewSheet(name string, attrs map[Attribute]int) (*Sheet, error) {
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	s := &Sheet{
		ID:         uuid.New(),
		Name:       name,
		Attributes: make(map[Attribute]int, len(attrs)),
		Skills:     make(map[string]Skill),
	}
	for a, v := range attrs {
		if v < 0 {
			return nil, fmt.Errorf("attribute %s must be >= 0; got %d", a, v)
		}
		s.Attributes[a] = v
	}
	return s, nil
}

// AttributeName returns the full name for an attribute code.
func AttributeName(code string) string {
	names := map[string]string{
		"STR": "Strength",
		"CON": "Constitution",
		"DEX": "Dexterity",
		"APP": "Appearance",
		"POW": "Power",
		"SIZ": "Size",
		"INT": "Intelligence",
		"EDU": "Education",
	}
	if n, ok := names[code]; ok {
		return n
	}
	return fmt.Sprintf("<%s>", code)
}

// ParseAttribute parses an attribute code such as "dex" or "DEX".
func ParseAttribute(code string) (Attribute, error) {
	for _, a := range Attributes() {
		if strings.EqualFold(strings.TrimSpace(code), a.Code()) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown attribute %q", code)
}

// attrLookup adapts the sheet's attributes for catalog base derivation.
func (s *Sheet) attrLookup(code string) int {
	return s.Attributes[Attribute(code)]
}

// SetSkillType adds or replaces the catalog skill t. A nil value uses the
// skill's default base for this sheet.
func (s *Sheet) SetSkillType(t ruleset.SkillType, value *int) {
	base := t.DefaultBase(s.attrLookup)
	v := base
	if value != nil {
		v = *value
	}
	s.SetSkill(Skill{Name: t.DisplayName(), Value: v, Base: base})
}

// Skill returns the catalog skill t if the sheet has it.
func (s *Sheet) Skill(t ruleset.SkillType) (Skill, bool) {
	return s.SkillNamed(t.DisplayName())
}

// SetCreationSkillCap sets or clears (nil) the creation-time skill cap.
func (s *Sheet) SetCreationSkillCap(limit *int) {
	s.CreationSkillCap = limit
}

// capFor resolves the cap for a point addition: the per-call value, then the
// sheet's creation cap, then unbounded.
func (s *Sheet) capFor(limit *int) int {
	if limit != nil {
		return *limit
	}
	if s.CreationSkillCap != nil {
		return *s.CreationSkillCap
	}
	return math.MaxInt
}

// AddToSkill adds amount points to the named skill, creating it at 0 if
// missing, and caps the result.
//
// A zero amount is a no-op; a negative amount adds nothing but still applies the cap.
func (s *Sheet) AddToSkill(name string, amount int, limit *int) {
	if amount == 0 {
		return
	}
	sk, ok := s.SkillNamed(name)
	if !ok {
		sk = Skill{Name: name}
	}
	sk.Value = addCapped(sk.Value, amount, s.capFor(limit))
	s.SetSkill(sk)
}

// AddToSkillType adds amount points to the catalog skill t, creating it at
// its default base if missing, and caps the result.
//
// A zero amount is a no-op; a negative amount adds nothing but still applies the cap.
func (s *Sheet) AddToSkillType(t ruleset.SkillType, amount int, limit *int) {
	if amount == 0 {
		return
	}
	sk, ok := s.Skill(t)
	if !ok {
		base := t.DefaultBase(s.attrLookup)
		sk = Skill{Name: t.DisplayName(), Value: base, Base: base}
	}
	sk.Value = addCapped(sk.Value, amount, s.capFor(limit))
	s.SetSkill(sk)
}

func addCapped(value, amount, limit int) int {
	v := value + max(0, amount)
	return min(v, limit)
}

// buildBand maps a STR+SIZ total to the damage bonus expression and build.
type buildBand struct {
	upTo  int // inclusive upper bound of STR+SIZ
	bonus string
	build int
}

var buildTable = []buildBand{
	{64, "-2", -2},
	{84, "-1", -1},
	{124, "0", 0},
	{164, "1d4", 1},
	{204, "1d6", 2},
	{284, "2d6", 3},
	{364, "3d6", 4},
}

func (s *Sheet) band() buildBand {
	sum := s.Attribute(STR) + s.Attribute(SIZ)
	for _, b := range buildTable {
		if sum <= b.upTo {
			return b
		}
	}
	return buildBand{upTo: math.MaxInt, bonus: "4d6", build: 5}
}

// DamageBonusExpression returns the damage bonus derived from STR+SIZ, e.g.
// "-1", "0" or "1d4".
func (s *Sheet) DamageBonusExpression() string {
	return s.band().bonus
}

// Build returns the build value derived from STR+SIZ.
func (s *Sheet) Build() int {
	return s.band().build
}

// DamageContext returns the context for {DB} damage templates.
func (s *Sheet) DamageContext() combat.DamageContext {
	return combat.DamageBonusExpr(s.DamageBonusExpression())
}

// PendingImprovements collects every skill marked for improvement, sorted by key.
func (s *Sheet) PendingImprovements() []rules.PendingImprovement {
	var out []rules.PendingImprovement
	for key, sk := range s.Skills {
		if sk.MarkedForImprovement {
			out = append(out, rules.PendingImprovement{Key: key, Name: sk.Name, Value: sk.Value})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ApplyImprovements writes each result's value back to its skill and clears
// the improvement flag. Results for skills no longer on the sheet are skipped.
func (s *Sheet) ApplyImprovements(results []rules.ImprovementResult) {
	for _, r := range results {
		sk, ok := s.Skills[r.Key]
		if !ok {
			continue
		}
		sk.Value = r.After
		sk.MarkedForImprovement = false
		s.Skills[r.Key] = sk
	}
}
