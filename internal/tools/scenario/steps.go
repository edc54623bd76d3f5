package scenario

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/louisbranch/sheetkeeper/internal/platform/errors"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/rules"
)

var errNoCharacter = errors.New("scene:character must come before character steps")

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case "nationality":
		return r.runNationalityStep(ctx, state, step)
	case "class":
		return r.runClassStep(ctx, state, step)
	case "character":
		return r.runCharacterStep(state, step)
	case "characteristic":
		return r.runCharacteristicStep(state, step)
	case "skill":
		return r.runSkillStep(state, step)
	case "update_skill":
		return r.runUpdateSkillStep(state, step)
	case "remove_skill":
		return r.runRemoveSkillStep(state, step)
	case "adjust":
		return r.runAdjustStep(state, step)
	case "armor":
		return r.runArmorStep(state, step)
	case "expect":
		return r.runExpectStep(ctx, state, step)
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) runNationalityStep(ctx context.Context, state *scenarioState, step Step) error {
	characteristics, err := characteristicModifiers(step.Args)
	if err != nil {
		return err
	}
	skills, err := skillBonuses(step.Args)
	if err != nil {
		return err
	}
	return state.content.PutNationality(ctx, rules.Nationality{
		ID:                      requiredString(step.Args, "id"),
		Name:                    optionalString(step.Args, "label", ""),
		CharacteristicModifiers: characteristics,
		SkillBonuses:            skills,
	})
}

func (r *Runner) runClassStep(ctx context.Context, state *scenarioState, step Step) error {
	characteristics, err := characteristicModifiers(step.Args)
	if err != nil {
		return err
	}
	skills, err := skillBonuses(step.Args)
	if err != nil {
		return err
	}
	return state.content.PutClass(ctx, rules.Class{
		ID:                      requiredString(step.Args, "id"),
		Name:                    optionalString(step.Args, "label", ""),
		CharacteristicModifiers: characteristics,
		SkillBonuses:            skills,
	})
}

func (r *Runner) runCharacterStep(state *scenarioState, step Step) error {
	c := character.New(
		optionalString(step.Args, "id", requiredString(step.Args, "name")),
		requiredString(step.Args, "name"),
		optionalInt(step.Args, "max", r.max),
	)
	c.NationalityID = requiredString(step.Args, "nationality")
	c.ClassID = requiredString(step.Args, "class")
	state.character = c
	return nil
}

func (r *Runner) runCharacteristicStep(state *scenarioState, step Step) error {
	if state.character == nil {
		return errNoCharacter
	}
	key, err := character.ParseKey(requiredString(step.Args, "key"))
	if err != nil {
		return err
	}
	base, _ := readInt(step.Args, "base")
	if err := state.character.Characteristics.SetBase(key, base); err != nil {
		return err
	}
	if bonus, ok := readInt(step.Args, "bonus"); ok {
		return state.character.Characteristics.SetBonus(key, bonus)
	}
	return nil
}

func (r *Runner) runSkillStep(state *scenarioState, step Step) error {
	if state.character == nil {
		return errNoCharacter
	}
	category := requiredString(step.Args, "category")
	name := requiredString(step.Args, "name")
	ledger := state.character.Ledger
	if err := ledger.AddEntry(category, name); err != nil {
		return err
	}
	for _, field := range []character.Field{character.FieldBase, character.FieldSecondary} {
		value, ok := readInt(step.Args, string(field))
		if !ok {
			continue
		}
		if err := ledger.UpdateEntry(category, name, field, &value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runUpdateSkillStep(state *scenarioState, step Step) error {
	if state.character == nil {
		return errNoCharacter
	}
	var value *int
	if v, ok := readInt(step.Args, "value"); ok {
		value = &v
	}
	return state.character.Ledger.UpdateEntry(
		requiredString(step.Args, "category"),
		requiredString(step.Args, "name"),
		character.Field(requiredString(step.Args, "field")),
		value,
	)
}

func (r *Runner) runRemoveSkillStep(state *scenarioState, step Step) error {
	if state.character == nil {
		return errNoCharacter
	}
	return state.character.Ledger.RemoveEntry(requiredString(step.Args, "category"), requiredString(step.Args, "name"))
}

func (r *Runner) runAdjustStep(state *scenarioState, step Step) error {
	if state.character == nil {
		return errNoCharacter
	}
	return state.character.Ledger.AddAdjustment(
		requiredString(step.Args, "category"),
		requiredString(step.Args, "name"),
		character.Adjustment{
			Source:    optionalString(step.Args, "source", "scenario"),
			Delta:     optionalInt(step.Args, "delta", 0),
			Exclusive: optionalBool(step.Args, "exclusive", false),
		},
	)
}

func (r *Runner) runArmorStep(state *scenarioState, step Step) error {
	if state.character == nil {
		return errNoCharacter
	}
	bonuses, err := readIntList(step.Args, "bonuses")
	if err != nil {
		return err
	}
	state.character.Armor = character.Armor{Rating: optionalInt(step.Args, "rating", 0), Bonuses: bonuses}
	return nil
}

// runExpectStep recomputes the sheet and compares every value the script
// names: hit_points, protection, characteristics, skills and secondary.
func (r *Runner) runExpectStep(ctx context.Context, state *scenarioState, step Step) error {
	if state.character == nil {
		return errNoCharacter
	}
	derived, err := state.sheet.Recompute(ctx, state.character.Snapshot())
	if err != nil {
		return err
	}

	if want, ok := readInt(step.Args, "hit_points"); ok && derived.HitPoints != want {
		if err := r.assertions.Failf("hit_points = %d, want %d", derived.HitPoints, want); err != nil {
			return err
		}
	}
	if want, ok := readInt(step.Args, "protection"); ok && derived.Protection != want {
		if err := r.assertions.Failf("protection = %d, want %d", derived.Protection, want); err != nil {
			return err
		}
	}

	characteristics := readMap(step.Args, "characteristics")
	for _, name := range sortedKeys(characteristics) {
		key, err := character.ParseKey(name)
		if err != nil {
			return err
		}
		want, ok := toInt(characteristics[name])
		if !ok {
			return fmt.Errorf("expected characteristic %q must be a number", name)
		}
		if got := derived.Characteristics[key]; got != want {
			if err := r.assertions.Failf("characteristic %s = %d, want %d", key, got, want); err != nil {
				return err
			}
		}
	}

	if err := r.expectSkills(readMap(step.Args, "skills"), derived.SkillTotals, "skill"); err != nil {
		return err
	}
	return r.expectSkills(readMap(step.Args, "secondary"), derived.SecondaryTotals, "secondary")
}

func (r *Runner) expectSkills(expected map[string]any, totals map[character.SkillKey]int, label string) error {
	for _, raw := range sortedKeys(expected) {
		key, err := parseSkillKey(raw)
		if err != nil {
			return err
		}
		want, ok := toInt(expected[raw])
		if !ok {
			return fmt.Errorf("expected %s %q must be a number", label, raw)
		}
		got, present := totals[key]
		if !present {
			if err := r.assertions.Failf("%s %s missing, want %d", label, key, want); err != nil {
				return err
			}
			continue
		}
		if got != want {
			if err := r.assertions.Failf("%s %s = %d, want %d", label, key, got, want); err != nil {
				return err
			}
		}
	}
	return nil
}

func errorCode(err error) string {
	return string(apperrors.CodeOf(err))
}
