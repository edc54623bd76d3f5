package rules

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"
)

// DerivedAttributes are the computed secondary statistics of a character.
// They are always recomputed from inputs and never cached.
type DerivedAttributes struct {
	HitPoints       int
	Protection      int
	SkillTotals     map[character.SkillKey]int
	SecondaryTotals map[character.SkillKey]int
	Characteristics map[character.Key]int
}

// SkillTotal is one row of the skill section of a derived sheet.
type SkillTotal struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Secondary *int   `json:"secondary,omitempty"`
}

// Skills returns the skill totals sorted by category then name.
func (d DerivedAttributes) Skills() []SkillTotal {
	out := make([]SkillTotal, 0, len(d.SkillTotals))
	for key, total := range d.SkillTotals {
		row := SkillTotal{Category: key.Category, Name: key.Name, Total: total}
		if secondary, ok := d.SecondaryTotals[key]; ok {
			row.Secondary = &secondary
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MarshalJSON encodes skill totals as a sorted list.
func (d DerivedAttributes) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		HitPoints       int                   `json:"hit_points"`
		Protection      int                   `json:"protection"`
		Characteristics map[character.Key]int `json:"characteristics,omitempty"`
		Skills          []SkillTotal          `json:"skills"`
	}{
		HitPoints:       d.HitPoints,
		Protection:      d.Protection,
		Characteristics: d.Characteristics,
		Skills:          d.Skills(),
	})
}

// Evaluate computes derived attributes from a snapshot and its resolved
// modifiers. It is pure: identical inputs give identical outputs. snap is
// expected to be valid; Compute checks it first.
func Evaluate(snap character.Snapshot, resolution Resolution) DerivedAttributes {
	constitution, size := HitPointInputs(snap.Characteristics, resolution)
	skills := ComputeSkillTotals(snap.Skills, resolution)
	return DerivedAttributes{
		HitPoints:       ComputeHitPoints(constitution, size),
		Protection:      ComputeProtection(snap.Armor.Rating, snap.Armor.Bonuses),
		SkillTotals:     skills.Base,
		SecondaryTotals: skills.Secondary,
		Characteristics: EffectiveCharacteristics(snap.Characteristics, resolution),
	}
}

// Compute validates snap with base values bounded by max, resolves its
// nationality and class through repo and evaluates it. A non-positive max
// selects character.MaxCharacteristic.
func Compute(ctx context.Context, repo GameDataRepository, snap character.Snapshot, max int) (DerivedAttributes, error) {
	c, err := character.FromSnapshot(snap, max)
	if err != nil {
		return DerivedAttributes{}, err
	}
	valid := c.Snapshot()
	resolution, err := NewResolver(repo).Resolve(ctx, valid.NationalityID, valid.ClassID)
	if err != nil {
		return DerivedAttributes{}, err
	}
	return Evaluate(valid, resolution), nil
}
