package rules

import (
	"reflect"
	"testing"

	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"
)

func bonus(source Source, delta int, exclusive bool) Modifier {
	return Modifier{Source: source, Target: SkillTarget("Perception", "Spot"), Delta: delta, Exclusive: exclusive}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name        string
		base        int
		nationality []Modifier
		class       []Modifier
		ledger      []Modifier
		want        int
	}{
		{"no bonuses", 20, nil, nil, nil, 20},
		{"additive stacking", 20, []Modifier{bonus(SourceNationality, 10, false)}, []Modifier{bonus(SourceClass, 5, false)}, nil, 35},
		{"ledger stacks too", 20, nil, nil, []Modifier{bonus(SourceLedger, 3, false), bonus(SourceLedger, -1, false)}, 22},
		{"not clamped above 100", 95, []Modifier{bonus(SourceNationality, 10, false)}, nil, nil, 105},
		{"not clamped below zero", 5, nil, []Modifier{bonus(SourceClass, -10, false)}, nil, -5},
		{"exclusive overrides non exclusive", 20, []Modifier{bonus(SourceNationality, 15, true)}, []Modifier{bonus(SourceClass, 5, false)}, nil, 35},
		{"highest magnitude exclusive wins", 20, []Modifier{bonus(SourceNationality, 10, true)}, []Modifier{bonus(SourceClass, 15, true)}, []Modifier{bonus(SourceLedger, 5, false)}, 35},
		{"negative exclusive can win on magnitude", 20, []Modifier{bonus(SourceNationality, 5, true)}, nil, []Modifier{bonus(SourceLedger, -8, true)}, 12},
		{"magnitude tie keeps first", 20, []Modifier{bonus(SourceNationality, -7, true)}, []Modifier{bonus(SourceClass, 7, true)}, nil, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.base, tt.nationality, tt.class, tt.ledger); got != tt.want {
				t.Fatalf("aggregate = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	nationality := []Modifier{bonus(SourceNationality, 10, false)}
	class := []Modifier{bonus(SourceClass, 5, true)}
	first := Aggregate(20, nationality, class, nil)
	second := Aggregate(20, nationality, class, nil)
	if first != second {
		t.Fatalf("aggregate not deterministic: %d vs %d", first, second)
	}
	if first != 25 {
		t.Fatalf("aggregate = %d, want 25", first)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(105, 0, 100) != 100 || Clamp(-3, 0, 100) != 0 || Clamp(40, 0, 100) != 40 {
		t.Fatal("clamp bounds mismatch")
	}
}

func TestComputeSkillTotals(t *testing.T) {
	base := 40
	secondary := 20
	skills := []character.LedgerItem{
		{SkillEntry: character.SkillEntry{Category: "Perception", Name: "Spot", Base: &base}},
		{
			SkillEntry:  character.SkillEntry{Category: "Combat", Name: "Bow", Base: &base, Secondary: &secondary},
			Adjustments: []character.Adjustment{{Source: "elven bow", Delta: 5}},
		},
		{SkillEntry: character.SkillEntry{Category: "Lore", Name: "Herbs"}},
	}
	resolution := Resolution{
		Nationality: []Modifier{
			{Source: SourceNationality, Target: SkillTarget("Perception", "Spot"), Delta: 10},
			{Source: SourceNationality, Target: SkillTarget("Lore", "Stars"), Delta: 50},
		},
		Class: []Modifier{
			{Source: SourceClass, Target: SkillTarget("Combat", "Bow"), Delta: 10},
			{Source: SourceClass, Target: SkillTarget("Lore", "Herbs"), Delta: 15, Exclusive: true},
			// Same name, different category.
			{Source: SourceClass, Target: SkillTarget("Lore", "Spot"), Delta: 99},
		},
	}

	got := ComputeSkillTotals(skills, resolution)
	wantBase := map[character.SkillKey]int{
		{Category: "Perception", Name: "Spot"}: 50,
		{Category: "Combat", Name: "Bow"}:      55,
		{Category: "Lore", Name: "Herbs"}:      15,
	}
	if !reflect.DeepEqual(got.Base, wantBase) {
		t.Fatalf("base totals = %v, want %v", got.Base, wantBase)
	}
	wantSecondary := map[character.SkillKey]int{
		{Category: "Combat", Name: "Bow"}: 35,
	}
	if !reflect.DeepEqual(got.Secondary, wantSecondary) {
		t.Fatalf("secondary totals = %v, want %v", got.Secondary, wantSecondary)
	}
}

func TestComputeSkillTotalsLedgerExclusive(t *testing.T) {
	base := 20
	skills := []character.LedgerItem{{
		SkillEntry:  character.SkillEntry{Category: "Perception", Name: "Spot", Base: &base},
		Adjustments: []character.Adjustment{{Source: "eagle eye", Delta: 15, Exclusive: true}},
	}}
	resolution := Resolution{
		Nationality: []Modifier{bonus(SourceNationality, 5, false)},
	}
	got := ComputeSkillTotals(skills, resolution)
	if total := got.Base[character.SkillKey{Category: "Perception", Name: "Spot"}]; total != 35 {
		t.Fatalf("total = %d, want 35", total)
	}
}
