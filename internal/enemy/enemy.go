// Package enemy defines the enemy archetypes, their spawn dispatch and the
// pressure (damage) model shared with the paddle.
package enemy

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnknownEnemyType is returned for enemy variants outside the known set.
var ErrUnknownEnemyType = errors.New("unknown enemy type")

// Type is an enemy archetype. The names are part of the rooms data contract.
type Type int

const (
	Sloth Type = iota
	BossA
	Envy
	Gluttony
	Greed
	Pride
	Wrath
	Lust

	typeCount
)

var typeNames = [typeCount]string{
	Sloth:    "Sloth",
	BossA:    "BossA",
	Envy:     "Envy",
	Gluttony: "Gluttony",
	Greed:    "Greed",
	Pride:    "Pride",
	Wrath:    "Wrath",
	Lust:     "Lust",
}

// Types returns every archetype in declaration order.
func Types() []Type {
	out := make([]Type, typeCount)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

// String returns the variant name.
func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known archetype.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}

// ParseType converts a variant name.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEnemyType, s)
}

// UnmarshalYAML decodes a variant name and rejects unknown ones.
func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := ParseType(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*t = v
	return nil
}

// MarshalYAML encodes the variant name.
func (t Type) MarshalYAML() (any, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEnemyType, int(t))
	}
	return t.String(), nil
}
