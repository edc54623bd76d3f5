package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/louisbranch/sheetkeeper/internal/platform/errors"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/rules"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SheetService is the engine surface the tools call.
type SheetService interface {
	Recompute(ctx context.Context, snap character.Snapshot) (rules.DerivedAttributes, error)
	Nationalities(ctx context.Context) ([]rules.Nationality, error)
	Classes(ctx context.Context) ([]rules.Class, error)
}

// CharacteristicInput is one characteristic of a character.
type CharacteristicInput struct {
	Base  int `json:"base" jsonschema:"base value within the configured range"`
	Bonus int `json:"bonus,omitempty" jsonschema:"flat signed bonus"`
}

// AdjustmentInput is a custom bonus recorded on a skill entry.
type AdjustmentInput struct {
	Source    string `json:"source,omitempty" jsonschema:"label for where the bonus comes from"`
	Delta     int    `json:"delta" jsonschema:"signed bonus"`
	Exclusive bool   `json:"exclusive,omitempty" jsonschema:"whether this bonus overrides stacking"`
}

// SkillInput is one skill ledger entry.
type SkillInput struct {
	Category    string            `json:"category" jsonschema:"skill category"`
	Name        string            `json:"name" jsonschema:"skill name, unique within the category"`
	Base        *int              `json:"base,omitempty" jsonschema:"base value; omitted counts as zero"`
	Secondary   *int              `json:"secondary,omitempty" jsonschema:"optional secondary value"`
	Adjustments []AdjustmentInput `json:"adjustments,omitempty" jsonschema:"custom bonuses for this skill"`
}

// ArmorInput describes worn armor.
type ArmorInput struct {
	Rating  int   `json:"rating" jsonschema:"armor rating"`
	Bonuses []int `json:"bonuses,omitempty" jsonschema:"additional protection bonuses"`
}

// ComputeDerivedInput is the MCP tool input for computing derived attributes.
type ComputeDerivedInput struct {
	ID              string                         `json:"id,omitempty" jsonschema:"optional character identifier"`
	Name            string                         `json:"name,omitempty" jsonschema:"optional character name"`
	NationalityID   string                         `json:"nationality_id" jsonschema:"nationality id from list_nationalities"`
	ClassID         string                         `json:"class_id" jsonschema:"class id from list_classes"`
	Characteristics map[string]CharacteristicInput `json:"characteristics" jsonschema:"characteristics keyed by name (strength, constitution, size, intelligence, power) or abbreviation"`
	Skills          []SkillInput                   `json:"skills,omitempty" jsonschema:"skill ledger entries"`
	Armor           ArmorInput                     `json:"armor" jsonschema:"worn armor"`
	Locale          string                         `json:"locale,omitempty" jsonschema:"optional locale for error messages"`
}

// SkillTotalResult is one computed skill row.
type SkillTotalResult struct {
	Category  string `json:"category" jsonschema:"skill category"`
	Name      string `json:"name" jsonschema:"skill name"`
	Total     int    `json:"total" jsonschema:"base value plus applicable modifiers"`
	Secondary *int   `json:"secondary,omitempty" jsonschema:"secondary value plus applicable modifiers"`
}

// ComputeDerivedResult is the MCP tool output for derived attributes.
type ComputeDerivedResult struct {
	HitPoints       int                `json:"hit_points" jsonschema:"computed hit points"`
	Protection      int                `json:"protection" jsonschema:"armor rating plus protection bonuses"`
	Characteristics map[string]int     `json:"characteristics" jsonschema:"characteristic totals after nationality and class modifiers"`
	Skills          []SkillTotalResult `json:"skills" jsonschema:"skill totals sorted by category and name"`
}

// ComputeDerivedTool defines the MCP tool schema for computing derived
// attributes.
func ComputeDerivedTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "compute_derived_attributes",
		Description: "Computes hit points, protection and skill totals for a character record",
	}
}

// ComputeDerivedHandler runs the engine for one character record. Domain
// errors are rendered in the input locale, or defaultLocale when unset.
func ComputeDerivedHandler(service SheetService, defaultLocale string) mcp.ToolHandlerFor[ComputeDerivedInput, ComputeDerivedResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ComputeDerivedInput) (*mcp.CallToolResult, ComputeDerivedResult, error) {
		locale := strings.TrimSpace(input.Locale)
		if locale == "" {
			locale = defaultLocale
		}

		snap, err := SnapshotFromInput(input)
		if err != nil {
			return nil, ComputeDerivedResult{}, toolError(err, locale)
		}
		derived, err := service.Recompute(ctx, snap)
		if err != nil {
			return nil, ComputeDerivedResult{}, toolError(err, locale)
		}
		return &mcp.CallToolResult{}, derivedResult(derived), nil
	}
}

// SnapshotFromInput converts tool input into an engine snapshot.
func SnapshotFromInput(input ComputeDerivedInput) (character.Snapshot, error) {
	snap := character.Snapshot{
		ID:            strings.TrimSpace(input.ID),
		Name:          strings.TrimSpace(input.Name),
		NationalityID: strings.TrimSpace(input.NationalityID),
		ClassID:       strings.TrimSpace(input.ClassID),
		Armor: character.Armor{
			Rating:  input.Armor.Rating,
			Bonuses: append([]int(nil), input.Armor.Bonuses...),
		},
	}
	seen := make(map[character.Key]string, len(input.Characteristics))
	for _, name := range sortedNames(input.Characteristics) {
		key, err := character.ParseKey(name)
		if err != nil {
			return character.Snapshot{}, err
		}
		if previous, ok := seen[key]; ok {
			return character.Snapshot{}, apperrors.WithMetadata(
				apperrors.CodeCharacteristicRepeated,
				fmt.Sprintf("characteristic %s given as %q and %q", key, previous, name),
				map[string]string{"Characteristic": key.String(), "Names": previous + ", " + name},
			)
		}
		seen[key] = name
		value := input.Characteristics[name]
		snap.Characteristics[key] = character.Characteristic{Base: value.Base, Bonus: value.Bonus}
	}
	for _, skill := range input.Skills {
		item := character.LedgerItem{
			SkillEntry: character.SkillEntry{
				Category:  skill.Category,
				Name:      skill.Name,
				Base:      skill.Base,
				Secondary: skill.Secondary,
			},
		}
		for _, adjustment := range skill.Adjustments {
			item.Adjustments = append(item.Adjustments, character.Adjustment{
				Source:    adjustment.Source,
				Delta:     adjustment.Delta,
				Exclusive: adjustment.Exclusive,
			})
		}
		snap.Skills = append(snap.Skills, item)
	}
	return snap, nil
}

func derivedResult(derived rules.DerivedAttributes) ComputeDerivedResult {
	result := ComputeDerivedResult{
		HitPoints:       derived.HitPoints,
		Protection:      derived.Protection,
		Characteristics: make(map[string]int, len(derived.Characteristics)),
		Skills:          []SkillTotalResult{},
	}
	for key, total := range derived.Characteristics {
		result.Characteristics[key.String()] = total
	}
	for _, row := range derived.Skills() {
		result.Skills = append(result.Skills, SkillTotalResult{
			Category:  row.Category,
			Name:      row.Name,
			Total:     row.Total,
			Secondary: row.Secondary,
		})
	}
	return result
}

// toolError keeps the error chain while leading with the localized message,
// the ErrorInfo reason and the gRPC code of the error's status.
func toolError(err error, locale string) error {
	st := apperrors.Status(err, locale)
	info, localized := apperrors.StatusDetails(st)
	if info == nil {
		return err
	}
	return fmt.Errorf("%s [%s %s]: %w", localized.GetMessage(), info.GetReason(), st.Code(), err)
}

func sortedNames(values map[string]CharacteristicInput) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
