// Package character defines the investigator sheet and its pure creation logic.
package character

import (
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/keeper/internal/game/inventory"
	"github.com/cory-johannsen/keeper/internal/game/rules"
)

// Attribute is one of the eight percentile characteristics, identified by its code.
type Attribute string

const (
	STR Attribute = "STR"
	CON Attribute = "CON"
	DEX Attribute = "DEX"
	APP Attribute = "APP"
	POW Attribute = "POW"
	SIZ Attribute = "SIZ"
	INT Attribute = "INT"
	EDU Attribute = "EDU"
)

// Attributes returns every characteristic in sheet order.
func Attributes() []Attribute {
	return []Attribute{STR, CON, DEX, APP, POW, SIZ, INT, EDU}
}

// Code returns the three-letter abbreviation.
func (a Attribute) Code() string { return string(a) }

// FullName returns the characteristic's full name.
func (a Attribute) FullName() string {
	return AttributeName(string(a))
}

// Skill is a percentile skill on a sheet.
type Skill struct {
	Name                 string `json:"name"`
	Value                int    `json:"value"`
	Base                 int    `json:"base"`
	MarkedForImprovement bool   `json:"marked_for_improvement,omitempty"`
}

// Thresholds derives the skill's regular, hard and extreme thresholds.
func (s Skill) Thresholds() rules.Thresholds {
	return rules.NewThresholds(s.Value)
}

// Sheet is an investigator's persistent state.
//
// ID is assigned on creation; CreatedAt and UpdatedAt are set by the
// persistence layer. Skills are keyed by display name.
type Sheet struct {
	ID         uuid.UUID           `json:"id"`
	Name       string              `json:"name"`
	Occupation string              `json:"occupation,omitempty"`
	Age        int                 `json:"age,omitempty"` // 0 = unspecified
	Attributes map[Attribute]int   `json:"attributes"`
	Skills     map[string]Skill    `json:"skills"`
	Inventory  inventory.Inventory `json:"inventory"`
	// CreationSkillCap bounds point allocation during creation; nil = unbounded.
	CreationSkillCap *int `json:"creation_skill_cap,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Attribute returns the value of a, or 0 when unset.
func (s *Sheet) Attribute(a Attribute) int {
	return s.Attributes[a]
}

// SetAttribute sets a to value.
func (s *Sheet) SetAttribute(a Attribute, value int) {
	if s.Attributes == nil {
		s.Attributes = make(map[Attribute]int)
	}
	s.Attributes[a] = value
}

// AttributeThresholds derives the thresholds for a from its current value.
func (s *Sheet) AttributeThresholds(a Attribute) rules.Thresholds {
	return rules.NewThresholds(s.Attribute(a))
}

// SetSkill adds or replaces sk under its name.
func (s *Sheet) SetSkill(sk Skill) {
	if s.Skills == nil {
		s.Skills = make(map[string]Skill)
	}
	s.Skills[sk.Name] = sk
}

// SkillNamed returns the skill stored under name.
func (s *Sheet) SkillNamed(name string) (Skill, bool) {
	sk, ok := s.Skills[name]
	return sk, ok
}

// MarkForImprovement flags the named skill for the next improvement batch.
//
// Postcondition: returns false and changes nothing if the skill is unknown.
func (s *Sheet) MarkForImprovement(name string) bool {
	sk, ok := s.Skills[name]
	if !ok {
		return false
	}
	sk.MarkedForImprovement = true
	s.Skills[name] = sk
	return true
}
