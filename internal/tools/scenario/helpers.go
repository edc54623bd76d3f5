package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/rules"
)

const expectErrorKey = "expect_error"

func requiredString(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok {
		return ""
	}
	text, ok := value.(string)
	if ok {
		return strings.TrimSpace(text)
	}
	return ""
}

func optionalString(args map[string]any, key, fallback string) string {
	if text := requiredString(args, key); text != "" {
		return text
	}
	return fallback
}

func readInt(args map[string]any, key string) (int, bool) {
	value, ok := args[key]
	if !ok {
		return 0, false
	}
	return toInt(value)
}

func optionalInt(args map[string]any, key string, fallback int) int {
	if value, ok := readInt(args, key); ok {
		return value
	}
	return fallback
}

func optionalBool(args map[string]any, key string, fallback bool) bool {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
	}
	return fallback
}

func toInt(value any) (int, bool) {
	switch typed := value.(type) {
	case int:
		return typed, true
	case float64:
		return int(typed), true
	default:
		return 0, false
	}
}

func readMap(args map[string]any, key string) map[string]any {
	value, ok := args[key].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return value
}

// readList accepts a Lua sequence; an empty Lua table arrives as a map.
func readList(args map[string]any, key string) []any {
	value, ok := args[key].([]any)
	if !ok {
		return nil
	}
	return value
}

func readIntList(args map[string]any, key string) ([]int, error) {
	items := readList(args, key)
	out := make([]int, 0, len(items))
	for i, item := range items {
		value, ok := toInt(item)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a number", key, i+1)
		}
		out = append(out, value)
	}
	return out, nil
}

// characteristicModifiers reads {size = 2} or {size = {delta = 2, exclusive = true}}.
func characteristicModifiers(args map[string]any) ([]rules.CharacteristicModifier, error) {
	raw := readMap(args, "characteristics")
	names := sortedKeys(raw)
	out := make([]rules.CharacteristicModifier, 0, len(names))
	for _, name := range names {
		key, err := character.ParseKey(name)
		if err != nil {
			return nil, err
		}
		modifier := rules.CharacteristicModifier{Characteristic: key}
		switch typed := raw[name].(type) {
		case map[string]any:
			modifier.Delta = optionalInt(typed, "delta", 0)
			modifier.Exclusive = optionalBool(typed, "exclusive", false)
		default:
			delta, ok := toInt(typed)
			if !ok {
				return nil, fmt.Errorf("characteristic modifier %q must be a number or table", name)
			}
			modifier.Delta = delta
		}
		out = append(out, modifier)
	}
	return out, nil
}

func skillBonuses(args map[string]any) ([]rules.SkillBonus, error) {
	items := readList(args, "skills")
	out := make([]rules.SkillBonus, 0, len(items))
	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("skills[%d] must be a table", i+1)
		}
		out = append(out, rules.SkillBonus{
			Category:  requiredString(entry, "category"),
			Name:      requiredString(entry, "name"),
			Delta:     optionalInt(entry, "delta", 0),
			Exclusive: optionalBool(entry, "exclusive", false),
		})
	}
	return out, nil
}

// parseSkillKey splits "Category/Name".
func parseSkillKey(value string) (character.SkillKey, error) {
	category, name, ok := strings.Cut(value, "/")
	if !ok || strings.TrimSpace(category) == "" || strings.TrimSpace(name) == "" {
		return character.SkillKey{}, fmt.Errorf("skill %q must be written as Category/Name", value)
	}
	return character.SkillKey{Category: strings.TrimSpace(category), Name: strings.TrimSpace(name)}, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
