package domain

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/sheetkeeper/internal/platform/errors"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/rules"
)

type fakeSheetService struct {
	snap          character.Snapshot
	derived       rules.DerivedAttributes
	recomputeErr  error
	nationalities []rules.Nationality
	classes       []rules.Class
	listErr       error
	calls         int
}

func (f *fakeSheetService) Recompute(_ context.Context, snap character.Snapshot) (rules.DerivedAttributes, error) {
	f.snap = snap
	f.calls++
	return f.derived, f.recomputeErr
}

func (f *fakeSheetService) Nationalities(context.Context) ([]rules.Nationality, error) {
	return f.nationalities, f.listErr
}

func (f *fakeSheetService) Classes(context.Context) ([]rules.Class, error) {
	return f.classes, f.listErr
}

func TestComputeDerivedHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		secondary := 22
		service := &fakeSheetService{derived: rules.DerivedAttributes{
			HitPoints:  12,
			Protection: 4,
			SkillTotals: map[character.SkillKey]int{
				{Category: "Perception", Name: "Spot"}: 35,
			},
			SecondaryTotals: map[character.SkillKey]int{
				{Category: "Perception", Name: "Spot"}: secondary,
			},
			Characteristics: map[character.Key]int{character.Size: 14},
		}}
		base := 20
		handler := ComputeDerivedHandler(service, "en-US")
		toolResult, result, err := handler(context.Background(), nil, ComputeDerivedInput{
			ID:            " char-1 ",
			NationalityID: "highlander",
			ClassID:       "ranger",
			Characteristics: map[string]CharacteristicInput{
				"CON":  {Base: 10},
				"size": {Base: 12, Bonus: 2},
			},
			Skills: []SkillInput{{
				Category:    "Perception",
				Name:        "Spot",
				Base:        &base,
				Adjustments: []AdjustmentInput{{Source: "lens", Delta: 3}},
			}},
			Armor: ArmorInput{Rating: 3, Bonuses: []int{1}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if toolResult == nil {
			t.Fatal("expected non-nil tool result")
		}
		if result.HitPoints != 12 || result.Protection != 4 {
			t.Errorf("result = %+v", result)
		}
		if len(result.Skills) != 1 || result.Skills[0].Total != 35 || *result.Skills[0].Secondary != 22 {
			t.Errorf("skills = %+v", result.Skills)
		}
		if result.Characteristics["size"] != 14 {
			t.Errorf("characteristics = %v", result.Characteristics)
		}

		snap := service.snap
		if snap.ID != "char-1" {
			t.Errorf("id = %q, want trimmed", snap.ID)
		}
		if snap.Characteristics[character.Constitution].Base != 10 {
			t.Errorf("constitution = %+v", snap.Characteristics[character.Constitution])
		}
		if snap.Characteristics[character.Size].Total() != 14 {
			t.Errorf("size total = %d, want 14", snap.Characteristics[character.Size].Total())
		}
		if len(snap.Skills) != 1 || len(snap.Skills[0].Adjustments) != 1 {
			t.Errorf("skills = %+v", snap.Skills)
		}
	})

	t.Run("unknown characteristic", func(t *testing.T) {
		handler := ComputeDerivedHandler(&fakeSheetService{}, "en-US")
		_, _, err := handler(context.Background(), nil, ComputeDerivedInput{
			Characteristics: map[string]CharacteristicInput{"luck": {Base: 3}},
		})
		if !errors.Is(err, character.ErrUnknownCharacteristic) {
			t.Fatalf("error = %v, want %v", err, character.ErrUnknownCharacteristic)
		}
	})

	t.Run("characteristic named twice", func(t *testing.T) {
		service := &fakeSheetService{}
		handler := ComputeDerivedHandler(service, "en-US")
		for i := 0; i < 20; i++ {
			_, _, err := handler(context.Background(), nil, ComputeDerivedInput{
				Characteristics: map[string]CharacteristicInput{
					"size": {Base: 14},
					"SIZ":  {Base: 6},
				},
			})
			if !errors.Is(err, character.ErrRepeatedCharacteristic) {
				t.Fatalf("error = %v, want %v", err, character.ErrRepeatedCharacteristic)
			}
			if !strings.HasPrefix(err.Error(), "size is given more than once (SIZ, size). [CHARACTERISTIC_REPEATED InvalidArgument]") {
				t.Fatalf("unexpected message %q", err.Error())
			}
		}
		if service.calls != 0 {
			t.Fatalf("recompute called %d times, want 0", service.calls)
		}
	})

	t.Run("localized domain error", func(t *testing.T) {
		missing := apperrors.WithMetadata(apperrors.CodeClassNotFound, "class missing", map[string]string{"ID": "x"})
		service := &fakeSheetService{recomputeErr: missing}
		handler := ComputeDerivedHandler(service, "en-US")
		_, _, err := handler(context.Background(), nil, ComputeDerivedInput{ClassID: "x", Locale: "pt-BR"})
		if !errors.Is(err, rules.ErrClassNotFound) {
			t.Fatalf("error = %v, want %v", err, rules.ErrClassNotFound)
		}
		if !strings.HasPrefix(err.Error(), "Classe x não encontrada. [CLASS_NOT_FOUND NotFound]") {
			t.Fatalf("expected localized message, reason and status code, got %q", err.Error())
		}
	})

	t.Run("plain error passes through", func(t *testing.T) {
		boom := errors.New("disk on fire")
		handler := ComputeDerivedHandler(&fakeSheetService{recomputeErr: boom}, "en-US")
		_, _, err := handler(context.Background(), nil, ComputeDerivedInput{})
		if !errors.Is(err, boom) {
			t.Fatalf("error = %v, want %v", err, boom)
		}
	})
}

func TestListHandlers(t *testing.T) {
	service := &fakeSheetService{
		nationalities: []rules.Nationality{{
			ID:                      "highlander",
			Name:                    "Highlander",
			CharacteristicModifiers: []rules.CharacteristicModifier{{Characteristic: character.Size, Delta: 2}},
			SkillBonuses:            []rules.SkillBonus{{Category: "Perception", Name: "Spot", Delta: 10, Exclusive: true}},
		}},
		classes: []rules.Class{{ID: "clerk"}},
	}

	_, nationalities, err := ListNationalitiesHandler(service)(context.Background(), nil, CatalogListInput{})
	if err != nil {
		t.Fatalf("list nationalities: %v", err)
	}
	if len(nationalities.Records) != 1 {
		t.Fatalf("records = %+v", nationalities.Records)
	}
	mods := nationalities.Records[0].Modifiers
	if len(mods) != 2 || mods[0].Characteristic != "size" || mods[1].Name != "Spot" || !mods[1].Exclusive {
		t.Fatalf("modifiers = %+v", mods)
	}

	_, classes, err := ListClassesHandler(service)(context.Background(), nil, CatalogListInput{})
	if err != nil {
		t.Fatalf("list classes: %v", err)
	}
	if len(classes.Records) != 1 || classes.Records[0].ID != "clerk" || classes.Records[0].Modifiers == nil {
		t.Fatalf("classes = %+v", classes.Records)
	}

	service.listErr = errors.New("closed")
	if _, _, err := ListClassesHandler(service)(context.Background(), nil, CatalogListInput{}); err == nil {
		t.Fatal("expected list error")
	}
}
