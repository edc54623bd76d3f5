package rules

import "github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"

// Size thresholds for the hit point formula.
const (
	// SizeLargeThreshold is the Size above which each point adds a hit point.
	SizeLargeThreshold = 12
	// SizeSmallThreshold is the Size below which each point removes a hit point.
	SizeSmallThreshold = 9
)

// ComputeHitPoints derives hit points from Constitution and Size totals.
// sizeTotal must already include nationality Size modifiers. The result is
// signed and never clamped.
func ComputeHitPoints(constitutionTotal, sizeTotal int) int {
	hp := constitutionTotal
	if sizeTotal > SizeLargeThreshold {
		hp += sizeTotal - SizeLargeThreshold
	}
	if sizeTotal < SizeSmallThreshold {
		hp -= SizeSmallThreshold - sizeTotal
	}
	return hp
}

// ComputeProtection sums the armor rating and additive protection bonuses.
func ComputeProtection(armorRating int, protectionBonuses []int) int {
	total := armorRating
	for _, bonus := range protectionBonuses {
		total += bonus
	}
	return total
}

// HitPointInputs returns the Constitution and Size totals used for hit
// points: base plus bonus plus nationality modifiers. Class modifiers never
// affect hit points.
func HitPointInputs(values character.Values, resolution Resolution) (constitution, size int) {
	constitution = characteristicTotal(values, character.Constitution, resolution.Nationality, nil)
	size = characteristicTotal(values, character.Size, resolution.Nationality, nil)
	return constitution, size
}

// EffectiveCharacteristics returns each characteristic total after every
// nationality and class modifier, for display.
func EffectiveCharacteristics(values character.Values, resolution Resolution) map[character.Key]int {
	out := make(map[character.Key]int, len(character.Keys))
	for _, key := range character.Keys {
		out[key] = characteristicTotal(values, key, resolution.Nationality, resolution.Class)
	}
	return out
}

func characteristicTotal(values character.Values, key character.Key, nationality, class []Modifier) int {
	return Aggregate(
		values.Total(key),
		filterCharacteristic(nationality, key),
		filterCharacteristic(class, key),
		nil,
	)
}

func filterCharacteristic(list []Modifier, key character.Key) []Modifier {
	var out []Modifier
	for _, m := range list {
		if m.AppliesToCharacteristic(key) {
			out = append(out, m)
		}
	}
	return out
}
