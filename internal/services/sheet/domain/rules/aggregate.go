package rules

import "github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"

// Aggregate applies bonuses to a base value under the stacking policy.
//
// All bonuses sum by default. When any bonus is exclusive, only the single
// exclusive bonus with the largest magnitude applies and every other bonus is
// discarded. Ties keep the first one in nationality, class, ledger order.
// The result is never clamped.
func Aggregate(base int, nationality, class, ledger []Modifier) int {
	var (
		sum       int
		exclusive *Modifier
	)
	for _, group := range [3][]Modifier{nationality, class, ledger} {
		for i := range group {
			m := group[i]
			sum += m.Delta
			if m.Exclusive && (exclusive == nil || abs(m.Delta) > abs(exclusive.Delta)) {
				exclusive = &m
			}
		}
	}
	if exclusive != nil {
		return base + exclusive.Delta
	}
	return base + sum
}

// Clamp bounds value to [min, max]. The engine never calls it; presentation
// code may.
func Clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// SkillTotals holds the per-skill results of ComputeSkillTotals.
type SkillTotals struct {
	// Base holds a total for every ledger entry, nil base counting as 0.
	Base map[character.SkillKey]int
	// Secondary holds a total for entries whose secondary value is set.
	Secondary map[character.SkillKey]int
}

// ComputeSkillTotals aggregates every ledger entry against the resolved
// modifiers targeting the same (category, name). Modifiers for skills absent
// from the ledger are ignored.
func ComputeSkillTotals(skills []character.LedgerItem, resolution Resolution) SkillTotals {
	totals := SkillTotals{
		Base:      make(map[character.SkillKey]int, len(skills)),
		Secondary: map[character.SkillKey]int{},
	}
	for _, item := range skills {
		key := item.Key()
		nationality := filterSkill(resolution.Nationality, key)
		class := filterSkill(resolution.Class, key)
		ledger := LedgerModifiers(key, item.Adjustments)

		totals.Base[key] = Aggregate(item.BaseValue(), nationality, class, ledger)
		if item.Secondary != nil {
			totals.Secondary[key] = Aggregate(*item.Secondary, nationality, class, ledger)
		}
	}
	return totals
}

func filterSkill(list []Modifier, key character.SkillKey) []Modifier {
	var out []Modifier
	for _, m := range list {
		if m.AppliesToSkill(key) {
			out = append(out, m)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
