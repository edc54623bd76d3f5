package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeCharacteristicOutOfRange = "CHARACTERISTIC_OUT_OF_RANGE"
	CodeCharacteristicUnknown    = "CHARACTERISTIC_UNKNOWN"
	CodeCharacteristicRepeated   = "CHARACTERISTIC_REPEATED"
	CodeSkillEntryDuplicate      = "SKILL_ENTRY_DUPLICATE"
	CodeSkillEntryNotFound       = "SKILL_ENTRY_NOT_FOUND"
	CodeSkillEntryInvalidField   = "SKILL_ENTRY_INVALID_FIELD"
	CodeSkillEntryEmptyName      = "SKILL_ENTRY_EMPTY_NAME"
	CodeNationalityNotFound      = "NATIONALITY_NOT_FOUND"
	CodeClassNotFound            = "CLASS_NOT_FOUND"
	CodeModifierInvalid          = "MODIFIER_INVALID"
	CodeNotFound                 = "NOT_FOUND"
)

var enUSMessages = map[Code]string{
	CodeCharacteristicOutOfRange: "{{.Characteristic}} must be between {{.Min}} and {{.Max}}, got {{.Value}}.",
	CodeCharacteristicUnknown:    "Unknown characteristic {{.Characteristic}}.",
	CodeCharacteristicRepeated:   "{{.Characteristic}} is given more than once ({{.Names}}).",
	CodeSkillEntryDuplicate:      "The skill {{.Name}} already exists in {{.Category}}.",
	CodeSkillEntryNotFound:       "The skill {{.Name}} does not exist in {{.Category}}.",
	CodeSkillEntryInvalidField:   "Unknown skill field {{.Field}}.",
	CodeSkillEntryEmptyName:      "Skill category and name are required.",
	CodeNationalityNotFound:      "Nationality {{.ID}} was not found.",
	CodeClassNotFound:            "Class {{.ID}} was not found.",
	CodeModifierInvalid:          "Modifier from {{.Source}} is invalid.",
	CodeNotFound:                 "The requested resource was not found.",
}
