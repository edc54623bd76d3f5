package character

import "strings"

// Armor holds the worn armor rating and additive protection bonuses.
type Armor struct {
	Rating  int   `json:"rating"`
	Bonuses []int `json:"bonuses,omitempty"`
}

// Character is the editable sheet of one character.
type Character struct {
	ID              string
	Name            string
	NationalityID   string
	ClassID         string
	Characteristics *Characteristics
	Ledger          *Ledger
	Armor           Armor
}

// New creates a character with zeroed characteristics bounded by max and an
// empty ledger.
func New(id, name string, max int) *Character {
	return &Character{
		ID:              strings.TrimSpace(id),
		Name:            strings.TrimSpace(name),
		Characteristics: NewCharacteristics(max),
		Ledger:          NewLedger(),
	}
}

// LedgerItem is a ledger entry together with its custom adjustments.
type LedgerItem struct {
	SkillEntry
	Adjustments []Adjustment `json:"adjustments,omitempty"`
}

// Snapshot is a plain, self-contained copy of a character, used as engine
// input and as the JSON record exchanged with outer layers.
type Snapshot struct {
	ID              string       `json:"id,omitempty"`
	Name            string       `json:"name,omitempty"`
	NationalityID   string       `json:"nationality_id"`
	ClassID         string       `json:"class_id"`
	Characteristics Values       `json:"characteristics"`
	Skills          []LedgerItem `json:"skills,omitempty"`
	Armor           Armor        `json:"armor"`
}

// Snapshot returns the ledger contents sorted by category then name.
func (l *Ledger) Snapshot() []LedgerItem {
	entries := l.Entries()
	out := make([]LedgerItem, 0, len(entries))
	for _, entry := range entries {
		out = append(out, LedgerItem{
			SkillEntry:  entry,
			Adjustments: l.Adjustments(entry.Key()),
		})
	}
	return out
}

// Snapshot copies the character into a Snapshot.
func (c *Character) Snapshot() Snapshot {
	snap := Snapshot{
		ID:            c.ID,
		Name:          c.Name,
		NationalityID: c.NationalityID,
		ClassID:       c.ClassID,
		Armor: Armor{
			Rating:  c.Armor.Rating,
			Bonuses: append([]int(nil), c.Armor.Bonuses...),
		},
	}
	if c.Characteristics != nil {
		snap.Characteristics = c.Characteristics.Snapshot()
	}
	if c.Ledger != nil {
		snap.Skills = c.Ledger.Snapshot()
	}
	return snap
}

// FromSnapshot rebuilds a character from snap, validating characteristics
// against max and rejecting duplicate skills.
func FromSnapshot(snap Snapshot, max int) (*Character, error) {
	c := New(snap.ID, snap.Name, max)
	c.NationalityID = strings.TrimSpace(snap.NationalityID)
	c.ClassID = strings.TrimSpace(snap.ClassID)
	c.Armor = Armor{Rating: snap.Armor.Rating, Bonuses: append([]int(nil), snap.Armor.Bonuses...)}
	if err := c.Characteristics.Restore(snap.Characteristics); err != nil {
		return nil, err
	}
	for _, item := range snap.Skills {
		if err := c.Ledger.AddEntry(item.Category, item.Name); err != nil {
			return nil, err
		}
		if err := c.Ledger.UpdateEntry(item.Category, item.Name, FieldBase, item.Base); err != nil {
			return nil, err
		}
		if err := c.Ledger.UpdateEntry(item.Category, item.Name, FieldSecondary, item.Secondary); err != nil {
			return nil, err
		}
		for _, adjustment := range item.Adjustments {
			if err := c.Ledger.AddAdjustment(item.Category, item.Name, adjustment); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}
