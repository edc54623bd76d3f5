package rules

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/sheetkeeper/internal/platform/errors"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"
)

// ErrInvalidModifier indicates a modifier with no valid target.
var ErrInvalidModifier = apperrors.New(apperrors.CodeModifierInvalid, "modifier must target one characteristic or one skill")

// Source identifies where a modifier came from.
type Source string

const (
	SourceNationality Source = "nationality"
	SourceClass       Source = "class"
	SourceLedger      Source = "ledger"
)

// Target names what a modifier applies to: exactly one of a characteristic or
// a skill.
type Target struct {
	Characteristic *character.Key
	Skill          *character.SkillKey
}

// CharacteristicTarget returns a target for key.
func CharacteristicTarget(key character.Key) Target {
	return Target{Characteristic: &key}
}

// SkillTarget returns a target for the (category, name) skill.
func SkillTarget(category, name string) Target {
	return Target{Skill: &character.SkillKey{Category: category, Name: name}}
}

// Modifier is a signed delta applied to one target. Exclusive modifiers
// override stacking for their target.
type Modifier struct {
	Source    Source
	Origin    string // record id or adjustment source label
	Target    Target
	Delta     int
	Exclusive bool
}

// AppliesToCharacteristic reports whether m targets key.
func (m Modifier) AppliesToCharacteristic(key character.Key) bool {
	return m.Target.Characteristic != nil && *m.Target.Characteristic == key
}

// AppliesToSkill reports whether m targets the skill key.
func (m Modifier) AppliesToSkill(key character.SkillKey) bool {
	return m.Target.Skill != nil && *m.Target.Skill == key
}

// Validate checks the modifier has exactly one well-formed target.
func (m Modifier) Validate() error {
	hasCharacteristic := m.Target.Characteristic != nil
	hasSkill := m.Target.Skill != nil
	switch {
	case hasCharacteristic && hasSkill, !hasCharacteristic && !hasSkill:
		return invalidModifier(m, "modifier must target exactly one characteristic or skill")
	case hasCharacteristic:
		if !m.Target.Characteristic.Valid() {
			return invalidModifier(m, fmt.Sprintf("unknown characteristic %d", int(*m.Target.Characteristic)))
		}
	case hasSkill:
		if strings.TrimSpace(m.Target.Skill.Category) == "" || strings.TrimSpace(m.Target.Skill.Name) == "" {
			return invalidModifier(m, "skill target requires category and name")
		}
	}
	return nil
}

func invalidModifier(m Modifier, message string) error {
	source := string(m.Source)
	if m.Origin != "" {
		source += ":" + m.Origin
	}
	return apperrors.WithMetadata(apperrors.CodeModifierInvalid, message, map[string]string{"Source": source})
}

// CharacteristicModifier is the record form of a characteristic modifier.
type CharacteristicModifier struct {
	Characteristic character.Key `json:"characteristic"`
	Delta          int           `json:"delta"`
	Exclusive      bool          `json:"exclusive,omitempty"`
}

// SkillBonus is the record form of a skill modifier.
type SkillBonus struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	Delta     int    `json:"delta"`
	Exclusive bool   `json:"exclusive,omitempty"`
}

// Nationality is a character-origin record.
type Nationality struct {
	ID                      string                   `json:"id"`
	Name                    string                   `json:"name,omitempty"`
	CharacteristicModifiers []CharacteristicModifier `json:"characteristic_modifiers,omitempty"`
	SkillBonuses            []SkillBonus             `json:"skill_bonuses,omitempty"`
}

// Class is a profession record.
type Class struct {
	ID                      string                   `json:"id"`
	Name                    string                   `json:"name,omitempty"`
	CharacteristicModifiers []CharacteristicModifier `json:"characteristic_modifiers,omitempty"`
	SkillBonuses            []SkillBonus             `json:"skill_bonuses,omitempty"`
}

// Modifiers flattens the nationality record, characteristic modifiers first.
func (n Nationality) Modifiers() []Modifier {
	return flatten(SourceNationality, n.ID, n.CharacteristicModifiers, n.SkillBonuses)
}

// Modifiers flattens the class record, characteristic modifiers first.
func (c Class) Modifiers() []Modifier {
	return flatten(SourceClass, c.ID, c.CharacteristicModifiers, c.SkillBonuses)
}

// ValidateModifiers checks every modifier in list.
func ValidateModifiers(list []Modifier) error {
	for _, m := range list {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func flatten(source Source, origin string, characteristics []CharacteristicModifier, skills []SkillBonus) []Modifier {
	out := make([]Modifier, 0, len(characteristics)+len(skills))
	for _, cm := range characteristics {
		out = append(out, Modifier{
			Source:    source,
			Origin:    origin,
			Target:    CharacteristicTarget(cm.Characteristic),
			Delta:     cm.Delta,
			Exclusive: cm.Exclusive,
		})
	}
	for _, sb := range skills {
		out = append(out, Modifier{
			Source:    source,
			Origin:    origin,
			Target:    SkillTarget(strings.TrimSpace(sb.Category), strings.TrimSpace(sb.Name)),
			Delta:     sb.Delta,
			Exclusive: sb.Exclusive,
		})
	}
	return out
}

// LedgerModifiers converts the custom adjustments of one ledger entry.
func LedgerModifiers(key character.SkillKey, adjustments []character.Adjustment) []Modifier {
	out := make([]Modifier, 0, len(adjustments))
	for _, adjustment := range adjustments {
		out = append(out, Modifier{
			Source:    SourceLedger,
			Origin:    adjustment.Source,
			Target:    SkillTarget(key.Category, key.Name),
			Delta:     adjustment.Delta,
			Exclusive: adjustment.Exclusive,
		})
	}
	return out
}
