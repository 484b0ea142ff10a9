// Package item implements pickups: the item enum, the weighted item pool
// and the stat effect each item applies when the paddle collects it.
package item

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnknownItem is returned for item variants outside the known set.
var ErrUnknownItem = errors.New("unknown item")

// Item is a pickup kind. The names are part of the items data contract.
type Item int

const (
	Glue Item = iota
	Placebo
	Schoolbag
	Wheel

	itemCount
)

var itemNames = [itemCount]string{
	Glue:      "Glue",
	Placebo:   "Placebo",
	Schoolbag: "Schoolbag",
	Wheel:     "Wheel",
}

func (i Item) String() string {
	if i.Valid() {
		return itemNames[i]
	}
	return fmt.Sprintf("Item(%d)", int(i))
}

// Valid reports whether i is a known item.
func (i Item) Valid() bool {
	return i >= 0 && i < itemCount
}

// Parse converts a variant name.
func Parse(s string) (Item, error) {
	for i, name := range itemNames {
		if name == s {
			return Item(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownItem, s)
}

// UnmarshalYAML decodes a variant name and rejects unknown ones.
func (i *Item) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := Parse(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*i = v
	return nil
}

// MarshalYAML encodes the variant name.
func (i Item) MarshalYAML() (any, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownItem, int(i))
	}
	return i.String(), nil
}

// Effect is the stat change an item applies to the player.
type Effect struct {
	Friction    float64 // added to the paddle's friction
	Pressure    float64 // added to the paddle's pressure
	PressureMax float64 // added to the paddle's pressure max
	Speed       float64 // added to the paddle's speed
	Capacity    int     // inventory slots added
	TennisBalls int     // tennis balls pushed into the inventory
}

// Effect returns what collecting i does.
func (i Item) Effect() Effect {
	switch i {
	case Glue:
		return Effect{Friction: 20}
	case Placebo:
		return Effect{Pressure: -20, PressureMax: 20}
	case Schoolbag:
		return Effect{Capacity: 2, TennisBalls: 2}
	case Wheel:
		return Effect{Speed: 20}
	default:
		return Effect{}
	}
}
