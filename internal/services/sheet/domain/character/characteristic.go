package character

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/sheetkeeper/internal/platform/errors"
)

// Characteristic defaults.
const (
	// MaxCharacteristic is the default upper bound for a base value.
	MaxCharacteristic = 30
	// MinCharacteristic is the lower bound for a base value.
	MinCharacteristic = 0
)

var (
	// ErrCharacteristicOutOfRange indicates a base value outside the allowed range.
	ErrCharacteristicOutOfRange = apperrors.New(apperrors.CodeCharacteristicOutOfRange, "characteristic base value out of range")
	// ErrUnknownCharacteristic indicates a key outside the fixed characteristic set.
	ErrUnknownCharacteristic = apperrors.New(apperrors.CodeCharacteristicUnknown, "unknown characteristic")
	// ErrRepeatedCharacteristic indicates two names that resolve to the same key.
	ErrRepeatedCharacteristic = apperrors.New(apperrors.CodeCharacteristicRepeated, "characteristic given more than once")
)

// Key identifies one of the five characteristics.
type Key int

const (
	Strength Key = iota
	Constitution
	Size
	Intelligence
	Power

	keyCount
)

// Keys lists the characteristics in sheet order.
var Keys = [keyCount]Key{Strength, Constitution, Size, Intelligence, Power}

var keyNames = [keyCount]string{"strength", "constitution", "size", "intelligence", "power"}

// String returns the lowercase characteristic name.
func (k Key) String() string {
	if !k.Valid() {
		return "characteristic(" + strconv.Itoa(int(k)) + ")"
	}
	return keyNames[k]
}

// Valid reports whether k is one of the five characteristics.
func (k Key) Valid() bool {
	return k >= 0 && k < keyCount
}

// ParseKey resolves a characteristic name, case-insensitively. Three letter
// abbreviations (STR, CON, SIZ, INT, POW) are accepted.
func ParseKey(name string) (Key, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, keyName := range keyNames {
		if normalized == keyName || normalized == keyName[:3] {
			return Key(i), nil
		}
	}
	return 0, apperrors.WithMetadata(
		apperrors.CodeCharacteristicUnknown,
		fmt.Sprintf("unknown characteristic %q", name),
		map[string]string{"Characteristic": name},
	)
}

// MarshalText implements encoding.TextMarshaler so keys work as JSON map keys.
func (k Key) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("marshal characteristic: invalid key %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Characteristic is a base value plus a flat bonus.
type Characteristic struct {
	Base  int `json:"base"`
	Bonus int `json:"bonus"`
}

// Total returns base plus bonus.
func (c Characteristic) Total() int {
	return c.Base + c.Bonus
}

// Characteristics stores the five characteristics of one character.
// The zero value is usable and bounds base values by MaxCharacteristic.
type Characteristics struct {
	values [keyCount]Characteristic
	max    int
}

// NewCharacteristics returns a zeroed store bounding base values by max.
// A non-positive max selects MaxCharacteristic.
func NewCharacteristics(max int) *Characteristics {
	return &Characteristics{max: max}
}

// Max returns the upper bound enforced on base values.
func (c *Characteristics) Max() int {
	if c.max <= 0 {
		return MaxCharacteristic
	}
	return c.max
}

// SetBase replaces the base value of key.
func (c *Characteristics) SetBase(key Key, value int) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ValidateBase(key, value, c.Max()); err != nil {
		return err
	}
	c.values[key].Base = value
	return nil
}

// SetBonus replaces the flat bonus of key. Bonuses may be negative.
func (c *Characteristics) SetBonus(key Key, value int) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	c.values[key].Bonus = value
	return nil
}

// Get returns the characteristic stored under key.
func (c *Characteristics) Get(key Key) (Characteristic, error) {
	if err := ValidateKey(key); err != nil {
		return Characteristic{}, err
	}
	return c.values[key], nil
}

// Total returns base plus bonus for key, or 0 for an unknown key.
func (c *Characteristics) Total(key Key) int {
	if !key.Valid() {
		return 0
	}
	return c.values[key].Total()
}

// Snapshot returns a copy of all five characteristics.
func (c *Characteristics) Snapshot() Values {
	return Values(c.values)
}

// Values is an immutable copy of the five characteristics, indexed by Key.
type Values [keyCount]Characteristic

// Total returns base plus bonus for key, or 0 for an unknown key.
func (v Values) Total(key Key) int {
	if !key.Valid() {
		return 0
	}
	return v[key].Total()
}

// MarshalJSON encodes the values as an object keyed by characteristic name.
func (v Values) MarshalJSON() ([]byte, error) {
	out := make(map[Key]Characteristic, keyCount)
	for _, key := range Keys {
		out[key] = v[key]
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an object keyed by characteristic name. Missing
// characteristics stay zero.
func (v *Values) UnmarshalJSON(data []byte) error {
	var in map[Key]Characteristic
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	var out Values
	for key, value := range in {
		out[key] = value
	}
	*v = out
	return nil
}

// Restore replaces every characteristic with values after validating all of
// them against the store bound.
func (c *Characteristics) Restore(values Values) error {
	for _, key := range Keys {
		if err := ValidateBase(key, values[key].Base, c.Max()); err != nil {
			return err
		}
	}
	c.values = values
	return nil
}

// ValidateKey rejects keys outside the fixed characteristic set.
func ValidateKey(key Key) error {
	if key.Valid() {
		return nil
	}
	return apperrors.WithMetadata(
		apperrors.CodeCharacteristicUnknown,
		fmt.Sprintf("unknown characteristic %d", int(key)),
		map[string]string{"Characteristic": key.String()},
	)
}

// ValidateBase checks a base value lies within [MinCharacteristic, max].
func ValidateBase(key Key, value, max int) error {
	if value < MinCharacteristic || value > max {
		return apperrors.WithMetadata(
			apperrors.CodeCharacteristicOutOfRange,
			fmt.Sprintf("characteristic %s has value %d, must be in range %d..%d", key, value, MinCharacteristic, max),
			map[string]string{
				"Characteristic": key.String(),
				"Value":          strconv.Itoa(value),
				"Min":            strconv.Itoa(MinCharacteristic),
				"Max":            strconv.Itoa(max),
			},
		)
	}
	return nil
}
