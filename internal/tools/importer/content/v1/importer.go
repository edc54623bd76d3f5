package catalogimporter

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/rules"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/storage"
)

// Catalog is the validated content of one import directory.
type Catalog struct {
	Nationalities []rules.Nationality
	Classes       []rules.Class
}

func validateHeader(name, systemID, systemVersion, source string) error {
	if systemID != defaultSystemID {
		return fmt.Errorf("%s: unsupported system id %q", name, systemID)
	}
	if systemVersion != defaultSystemVer {
		return fmt.Errorf("%s: unsupported system version %q", name, systemVersion)
	}
	if strings.TrimSpace(source) == "" {
		return fmt.Errorf("%s: source is required", name)
	}
	return nil
}

// buildCatalog validates payloads and converts them to engine records.
// Either payload may be nil when its file is absent.
func buildCatalog(payloads filePayloads) (Catalog, error) {
	var out Catalog
	if payloads.Nationalities != nil {
		p := payloads.Nationalities
		if err := validateHeader(nationalitiesFile, p.SystemID, p.SystemVersion, p.Source); err != nil {
			return Catalog{}, err
		}
		records, err := convertRecords("nationality", p.Items)
		if err != nil {
			return Catalog{}, err
		}
		for _, rec := range records {
			out.Nationalities = append(out.Nationalities, rules.Nationality(rec))
		}
	}
	if payloads.Classes != nil {
		p := payloads.Classes
		if err := validateHeader(classesFile, p.SystemID, p.SystemVersion, p.Source); err != nil {
			return Catalog{}, err
		}
		records, err := convertRecords("class", p.Items)
		if err != nil {
			return Catalog{}, err
		}
		for _, rec := range records {
			out.Classes = append(out.Classes, rules.Class(rec))
		}
	}
	return out, nil
}

// convertRecords rejects empty and duplicate ids and malformed modifiers.
// Nationality and Class share a layout, so one intermediate form serves both.
func convertRecords(kind string, items []recordPayload) ([]rules.Nationality, error) {
	seen := make(map[string]struct{}, len(items))
	out := make([]rules.Nationality, 0, len(items))
	for i, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, fmt.Errorf("%s %d: id is required", kind, i+1)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%s %s: duplicate id", kind, id)
		}
		seen[id] = struct{}{}

		rec := rules.Nationality{ID: id, Name: strings.TrimSpace(item.Name)}
		for _, cm := range item.Characteristics {
			key, err := character.ParseKey(cm.Characteristic)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", kind, id, err)
			}
			rec.CharacteristicModifiers = append(rec.CharacteristicModifiers, rules.CharacteristicModifier{
				Characteristic: key,
				Delta:          cm.Delta,
				Exclusive:      cm.Exclusive,
			})
		}
		for _, sb := range item.Skills {
			rec.SkillBonuses = append(rec.SkillBonuses, rules.SkillBonus{
				Category:  strings.TrimSpace(sb.Category),
				Name:      strings.TrimSpace(sb.Name),
				Delta:     sb.Delta,
				Exclusive: sb.Exclusive,
			})
		}
		if err := rules.ValidateModifiers(rec.Modifiers()); err != nil {
			return nil, fmt.Errorf("%s %s: %w", kind, id, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// upsertCatalog writes the whole catalog in one store call so a rejected
// record leaves the store untouched.
func upsertCatalog(ctx context.Context, store storage.ContentStore, c Catalog) error {
	if store == nil {
		return fmt.Errorf("content store is required")
	}
	if err := store.PutCatalog(ctx, c.Nationalities, c.Classes); err != nil {
		return fmt.Errorf("put catalog: %w", err)
	}
	return nil
}
