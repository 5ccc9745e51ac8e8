// Package ruleset holds the static skill catalog: display names, default
// base values and the improvement policy.
package ruleset

import (
	"fmt"
	"sort"
)

// skillDef is one row of the skill catalog.
type skillDef struct {
	name        string
	base        int
	attr        string         // base derives from this attribute code when set
	divisor     int            // attribute divisor, 1 when zero
	specialized bool           // takes a specialization suffix
	specBases   map[string]int // per-specialization base overrides
}

var catalog = map[string]skillDef{
	"accounting":              {name: "Accounting", base: 5},
	"anthropology":            {name: "Anthropology", base: 1},
	"appraise":                {name: "Appraise", base: 5},
	"archaeology":             {name: "Archaeology", base: 1},
	"art_craft":               {name: "Art/Craft", base: 5, specialized: true},
	"charm":                   {name: "Charm", base: 15},
	"climb":                   {name: "Climb", base: 20},
	"credit_rating":           {name: "Credit Rating", base: 0},
	"cthulhu_mythos":          {name: "Cthulhu Mythos", base: 0},
	"disguise":                {name: "Disguise", base: 5},
	"dodge":                   {name: "Dodge", attr: "DEX", divisor: 2},
	"drive_auto":              {name: "Drive Auto", base: 20},
	"electrical_repair":       {name: "Electrical Repair", base: 10},
	"fast_talk":               {name: "Fast Talk", base: 5},
	"fighting":                {name: "Fighting", base: 25, specialized: true},
	"firearms":                {name: "Firearms", base: 20, specialized: true, specBases: map[string]int{"Rifle/Shotgun": 25}},
	"first_aid":               {name: "First Aid", base: 30},
	"history":                 {name: "History", base: 5},
	"intimidate":              {name: "Intimidate", base: 15},
	"jump":                    {name: "Jump", base: 20},
	"language":                {name: "Language", base: 1, specialized: true},
	"language_own":            {name: "Language (Own)", attr: "EDU"},
	"law":                     {name: "Law", base: 5},
	"library_use":             {name: "Library Use", base: 20},
	"listen":                  {name: "Listen", base: 20},
	"locksmith":               {name: "Locksmith", base: 1},
	"mechanical_repair":       {name: "Mechanical Repair", base: 10},
	"medicine":                {name: "Medicine", base: 1},
	"natural_world":           {name: "Natural World", base: 10},
	"navigate":                {name: "Navigate", base: 10},
	"occult":                  {name: "Occult", base: 5},
	"operate_heavy_machinery": {name: "Operate Heavy Machinery", base: 1},
	"persuade":                {name: "Persuade", base: 10},
	"pilot":                   {name: "Pilot", base: 1, specialized: true},
	"psychoanalysis":          {name: "Psychoanalysis", base: 1},
	"psychology":              {name: "Psychology", base: 10},
	"ride":                    {name: "Ride", base: 5},
	"science":                 {name: "Science", base: 1, specialized: true},
	"sleight_of_hand":         {name: "Sleight of Hand", base: 10},
	"spot_hidden":             {name: "Spot Hidden", base: 25},
	"stealth":                 {name: "Stealth", base: 20},
	"survival":                {name: "Survival", base: 10, specialized: true},
	"swim":                    {name: "Swim", base: 20},
	"throw":                   {name: "Throw", base: 20},
	"track":                   {name: "Track", base: 10},
}

// customID marks a skill that is not in the catalog.
const customID = "custom"

// SkillType identifies a catalog skill, optionally specialized, or a custom skill.
type SkillType struct {
	ID             string
	Specialization string
	name           string // custom skills only
	base           int
	hasBase        bool
}

// Frequently used skill types.
var (
	CreditRating         = Skill("credit_rating")
	CthulhuMythos        = Skill("cthulhu_mythos")
	Dodge                = Skill("dodge")
	LanguageOwn          = Skill("language_own")
	SpotHidden           = Skill("spot_hidden")
	FightingBrawl        = Specialized("fighting", "Brawl")
	FirearmsHandgun      = Specialized("firearms", "Handgun")
	FirearmsRifleShotgun = Specialized("firearms", "Rifle/Shotgun")
)

// Skill returns the catalog skill with the given id.
func Skill(id string) SkillType {
	return SkillType{ID: id}
}

// Specialized returns a specialized catalog skill, e.g. Specialized("science", "Biology").
func Specialized(id, specialization string) SkillType {
	return SkillType{ID: id, Specialization: specialization}
}

// Custom returns a skill outside the catalog with an explicit base.
func Custom(name string, base int) SkillType {
	return SkillType{ID: customID, name: name, base: base, hasBase: true}
}

// WithBase returns a copy of s whose default base is base.
func (s SkillType) WithBase(base int) SkillType {
	s.base = base
	s.hasBase = true
	return s
}

// Known reports whether s refers to a catalog entry or is a custom skill.
func (s SkillType) Known() bool {
	if s.ID == customID {
		return s.name != ""
	}
	_, ok := catalog[s.ID]
	return ok
}

// DisplayName returns the name a skill is recorded under on a sheet,
// e.g. "Spot Hidden" or "Firearms (Handgun)".
func (s SkillType) DisplayName() string {
	if s.ID == customID {
		return s.name
	}
	def, ok := catalog[s.ID]
	if !ok {
		return fmt.Sprintf("<%s>", s.ID)
	}
	if def.specialized && s.Specialization != "" {
		return fmt.Sprintf("%s (%s)", def.name, s.Specialization)
	}
	return def.name
}

// DefaultBase returns the rulebook base value. attr looks up an attribute
// value by its code ("DEX", "EDU"); nil treats every attribute as 0.
func (s SkillType) DefaultBase(attr func(code string) int) int {
	if s.hasBase {
		return s.base
	}
	def, ok := catalog[s.ID]
	if !ok {
		return 0
	}
	if def.attr != "" {
		v := 0
		if attr != nil {
			v = attr(def.attr)
		}
		if def.divisor > 1 {
			v /= def.divisor
		}
		return v
	}
	if b, ok := def.specBases[s.Specialization]; ok {
		return b
	}
	return def.base
}

// SkillIDs returns every catalog identifier in sorted order.
func SkillIDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ImprovementExempt reports whether the named skill never improves through
// improvement checks.
func ImprovementExempt(name string) bool {
	return name == CthulhuMythos.DisplayName() || name == CreditRating.DisplayName()
}
