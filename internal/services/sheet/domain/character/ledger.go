package character

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/louisbranch/sheetkeeper/internal/platform/errors"
)

var (
	// ErrDuplicateEntry indicates the (category, name) pair already exists.
	ErrDuplicateEntry = apperrors.New(apperrors.CodeSkillEntryDuplicate, "skill entry already exists")
	// ErrEntryNotFound indicates the (category, name) pair does not exist.
	ErrEntryNotFound = apperrors.New(apperrors.CodeSkillEntryNotFound, "skill entry not found")
	// ErrInvalidField indicates an update targeted an unknown entry field.
	ErrInvalidField = apperrors.New(apperrors.CodeSkillEntryInvalidField, "invalid skill entry field")
	// ErrEmptyEntryName indicates a blank category or skill name.
	ErrEmptyEntryName = apperrors.New(apperrors.CodeSkillEntryEmptyName, "skill category and name are required")
)

// Field names one of the two value columns of a skill entry.
type Field string

const (
	FieldBase      Field = "base"
	FieldSecondary Field = "secondary"
)

// SkillKey identifies a skill by category and name.
type SkillKey struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

// String returns "category/name".
func (k SkillKey) String() string {
	return k.Category + "/" + k.Name
}

func (k SkillKey) metadata() map[string]string {
	return map[string]string{"Category": k.Category, "Name": k.Name}
}

// SkillEntry is one skill in the ledger. Secondary models a skill trained
// separately for a second mode of use. Both values are optional.
type SkillEntry struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	Base      *int   `json:"base,omitempty"`
	Secondary *int   `json:"secondary,omitempty"`
}

// Key returns the entry's (category, name) pair.
func (e SkillEntry) Key() SkillKey {
	return SkillKey{Category: e.Category, Name: e.Name}
}

// BaseValue returns the base value, treating nil as 0.
func (e SkillEntry) BaseValue() int {
	if e.Base == nil {
		return 0
	}
	return *e.Base
}

func (e SkillEntry) clone() SkillEntry {
	out := SkillEntry{Category: e.Category, Name: e.Name}
	if e.Base != nil {
		v := *e.Base
		out.Base = &v
	}
	if e.Secondary != nil {
		v := *e.Secondary
		out.Secondary = &v
	}
	return out
}

// Adjustment is a custom bonus recorded on a ledger entry by the editor,
// such as a gear or training bonus.
type Adjustment struct {
	Source    string `json:"source"`
	Delta     int    `json:"delta"`
	Exclusive bool   `json:"exclusive,omitempty"`
}

// Ledger maps category -> skill name -> entry for one character.
// The zero value is an empty ledger ready for use.
type Ledger struct {
	categories  map[string]map[string]SkillEntry
	adjustments map[SkillKey][]Adjustment
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) init() {
	if l.categories == nil {
		l.categories = map[string]map[string]SkillEntry{}
	}
	if l.adjustments == nil {
		l.adjustments = map[SkillKey][]Adjustment{}
	}
}

// AddEntry inserts an empty entry, creating the category on first use.
func (l *Ledger) AddEntry(category, name string) error {
	key, err := normalizeKey(category, name)
	if err != nil {
		return err
	}
	if _, ok := l.lookup(key); ok {
		return apperrors.WithMetadata(
			apperrors.CodeSkillEntryDuplicate,
			fmt.Sprintf("skill %s already exists", key),
			key.metadata(),
		)
	}
	l.init()
	skills, ok := l.categories[key.Category]
	if !ok {
		skills = map[string]SkillEntry{}
		l.categories[key.Category] = skills
	}
	skills[key.Name] = SkillEntry{Category: key.Category, Name: key.Name}
	return nil
}

// UpdateEntry sets field of an existing entry. A nil value clears the field.
func (l *Ledger) UpdateEntry(category, name string, field Field, value *int) error {
	key, err := normalizeKey(category, name)
	if err != nil {
		return err
	}
	entry, ok := l.lookup(key)
	if !ok {
		return notFound(key)
	}
	var copied *int
	if value != nil {
		v := *value
		copied = &v
	}
	switch field {
	case FieldBase:
		entry.Base = copied
	case FieldSecondary:
		entry.Secondary = copied
	default:
		return apperrors.WithMetadata(
			apperrors.CodeSkillEntryInvalidField,
			fmt.Sprintf("unknown skill field %q", field),
			map[string]string{"Field": string(field)},
		)
	}
	l.categories[key.Category][key.Name] = entry
	return nil
}

// RemoveEntry deletes an entry and its adjustments. Empty categories are
// dropped.
func (l *Ledger) RemoveEntry(category, name string) error {
	key, err := normalizeKey(category, name)
	if err != nil {
		return err
	}
	if _, ok := l.lookup(key); !ok {
		return notFound(key)
	}
	skills := l.categories[key.Category]
	delete(skills, key.Name)
	if len(skills) == 0 {
		delete(l.categories, key.Category)
	}
	delete(l.adjustments, key)
	return nil
}

// AddAdjustment attaches a custom bonus to an existing entry.
func (l *Ledger) AddAdjustment(category, name string, adjustment Adjustment) error {
	key, err := normalizeKey(category, name)
	if err != nil {
		return err
	}
	if _, ok := l.lookup(key); !ok {
		return notFound(key)
	}
	l.init()
	l.adjustments[key] = append(l.adjustments[key], adjustment)
	return nil
}

// Adjustments returns a copy of the custom bonuses recorded for key.
func (l *Ledger) Adjustments(key SkillKey) []Adjustment {
	adjustments := l.adjustments[key]
	if len(adjustments) == 0 {
		return nil
	}
	out := make([]Adjustment, len(adjustments))
	copy(out, adjustments)
	return out
}

// Entry returns a copy of the entry for (category, name).
func (l *Ledger) Entry(category, name string) (SkillEntry, error) {
	key, err := normalizeKey(category, name)
	if err != nil {
		return SkillEntry{}, err
	}
	entry, ok := l.lookup(key)
	if !ok {
		return SkillEntry{}, notFound(key)
	}
	return entry.clone(), nil
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	n := 0
	for _, skills := range l.categories {
		n += len(skills)
	}
	return n
}

// Categories returns category names in sorted order.
func (l *Ledger) Categories() []string {
	out := make([]string, 0, len(l.categories))
	for category := range l.categories {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

// Entries returns copies of every entry sorted by category then name.
func (l *Ledger) Entries() []SkillEntry {
	out := make([]SkillEntry, 0, l.Len())
	for _, skills := range l.categories {
		for _, entry := range skills {
			out = append(out, entry.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	out := NewLedger()
	for _, entry := range l.Entries() {
		out.init()
		skills, ok := out.categories[entry.Category]
		if !ok {
			skills = map[string]SkillEntry{}
			out.categories[entry.Category] = skills
		}
		skills[entry.Name] = entry
	}
	for key, adjustments := range l.adjustments {
		out.init()
		out.adjustments[key] = append([]Adjustment(nil), adjustments...)
	}
	return out
}

func (l *Ledger) lookup(key SkillKey) (SkillEntry, bool) {
	skills, ok := l.categories[key.Category]
	if !ok {
		return SkillEntry{}, false
	}
	entry, ok := skills[key.Name]
	return entry, ok
}

func normalizeKey(category, name string) (SkillKey, error) {
	key := SkillKey{Category: strings.TrimSpace(category), Name: strings.TrimSpace(name)}
	if key.Category == "" || key.Name == "" {
		return SkillKey{}, ErrEmptyEntryName
	}
	return key, nil
}

func notFound(key SkillKey) error {
	return apperrors.WithMetadata(
		apperrors.CodeSkillEntryNotFound,
		fmt.Sprintf("skill %s not found", key),
		key.metadata(),
	)
}
