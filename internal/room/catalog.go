// Package room holds the dungeon's room catalog, the weighted depth-gated
// room selector, the choose gate and the fade/load transition machine.
package room

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/brickdungeon/internal/config"
	"github.com/vovakirdan/brickdungeon/internal/enemy"
)

// ErrUnknownRoomType is returned for room variants outside the known set.
var ErrUnknownRoomType = errors.New("unknown room type")

// Type is a room type. The names are part of the rooms data contract.
type Type int

const (
	Combat Type = iota
	Treasure
	Boss
	PreBoss
	PostBoss
	Start
	Store

	typeCount
)

var typeNames = [typeCount]string{
	Combat:   "Combat",
	Treasure: "Treasure",
	Boss:     "Boss",
	PreBoss:  "PreBoss",
	PostBoss: "PostBoss",
	Start:    "Start",
	Store:    "Store",
}

// Types returns every room type in declaration order.
func Types() []Type {
	out := make([]Type, typeCount)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known room type.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}

// Icon returns the room type whose icon marks t on a door.
func (t Type) Icon() Type {
	switch t {
	case Treasure, Boss, Store:
		return t
	default:
		return Combat
	}
}

// ParseType converts a variant name.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRoomType, s)
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
		return nil, fmt.Errorf("%w: %d", ErrUnknownRoomType, int(t))
	}
	return t.String(), nil
}

// Position is a point in room coordinates.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vec converts p to a vector.
func (p Position) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// EnemyEntity places one enemy.
type EnemyEntity struct {
	EnemyType enemy.Type `yaml:"enemy_type"`
	Position  Position   `yaml:"position"`
}

// Encounter is one weighted enemy layout of a room.
type Encounter struct {
	Weight   int           `yaml:"weight"`
	IsSelect bool          `yaml:"is_select"`
	Enemys   []EnemyEntity `yaml:"enemys"`
}

func (e Encounter) clone() Encounter {
	e.Enemys = append([]EnemyEntity(nil), e.Enemys...)
	return e
}

// Room is one catalog definition. Weight and IsSelect are mutated by the
// selector over the course of a run.
type Room struct {
	RoomType            Type        `yaml:"room_type"`
	NumExits            int         `yaml:"num_exits"`
	Arena               int         `yaml:"arena"`
	Encounters          []Encounter `yaml:"encounters,omitempty"`
	Weight              int         `yaml:"weight"`
	IsSelect            bool        `yaml:"is_select"`
	ForceSelectDepthMin *int        `yaml:"force_select_depth_min,omitempty"`
	ForceSelectDepthMax *int        `yaml:"force_select_depth_max,omitempty"`
}

// Gated reports whether the room carries a depth window.
func (r *Room) Gated() bool {
	return r.ForceSelectDepthMin != nil && r.ForceSelectDepthMax != nil
}

// gate classifies the room at depth: eligible inside [min, max), forced at
// max. Ungated rooms are always eligible and never forced.
func (r *Room) gate(depth int) (eligible, forced bool) {
	if !r.Gated() {
		return true, false
	}
	lo, hi := *r.ForceSelectDepthMin, *r.ForceSelectDepthMax
	if depth == hi {
		return true, true
	}
	return depth >= lo && depth < hi, false
}

// Catalog owns every room definition of a run.
type Catalog struct {
	Rooms []Room `yaml:"rooms"`
}

// Clone returns a deep copy, so previews don't consume the original.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{Rooms: make([]Room, len(c.Rooms))}
	for i, r := range c.Rooms {
		if r.ForceSelectDepthMin != nil {
			v := *r.ForceSelectDepthMin
			r.ForceSelectDepthMin = &v
		}
		if r.ForceSelectDepthMax != nil {
			v := *r.ForceSelectDepthMax
			r.ForceSelectDepthMax = &v
		}
		if r.Encounters != nil {
			encs := make([]Encounter, len(r.Encounters))
			for j, e := range r.Encounters {
				encs[j] = e.clone()
			}
			r.Encounters = encs
		}
		out.Rooms[i] = r
	}
	return out
}

// Remaining counts rooms not yet selected.
func (c *Catalog) Remaining() int {
	n := 0
	for i := range c.Rooms {
		if !c.Rooms[i].IsSelect {
			n++
		}
	}
	return n
}

// ValidationError describes a malformed catalog.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// MaxExits is the number of door sensors every room has.
const MaxExits = 2

// Validate checks the structural rules of the catalog.
func (c *Catalog) Validate() error {
	if len(c.Rooms) == 0 {
		return ValidationError{Code: "EMPTY_CATALOG", Message: "catalog has no rooms"}
	}
	for i := range c.Rooms {
		if err := validateRoom(i, &c.Rooms[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateRoom(i int, r *Room) error {
	if !r.RoomType.Valid() {
		return ValidationError{
			Code:    "INVALID_ROOM_TYPE",
			Message: fmt.Sprintf("room %d: %v", i, r.RoomType),
		}
	}
	if r.NumExits < 1 || r.NumExits > MaxExits {
		return ValidationError{
			Code:    "INVALID_EXITS",
			Message: fmt.Sprintf("room %d (%s): num_exits %d outside [1, %d]", i, r.RoomType, r.NumExits, MaxExits),
		}
	}
	if r.Weight < 0 {
		return ValidationError{
			Code:    "INVALID_WEIGHT",
			Message: fmt.Sprintf("room %d (%s): negative weight %d", i, r.RoomType, r.Weight),
		}
	}
	if (r.ForceSelectDepthMin == nil) != (r.ForceSelectDepthMax == nil) {
		return ValidationError{
			Code:    "INVALID_DEPTH_WINDOW",
			Message: fmt.Sprintf("room %d (%s): force_select_depth_min and _max must be set together", i, r.RoomType),
		}
	}
	if r.Gated() && *r.ForceSelectDepthMin > *r.ForceSelectDepthMax {
		return ValidationError{
			Code: "INVALID_DEPTH_WINDOW",
			Message: fmt.Sprintf("room %d (%s): depth window [%d, %d] is reversed",
				i, r.RoomType, *r.ForceSelectDepthMin, *r.ForceSelectDepthMax),
		}
	}
	total := 0
	for j, e := range r.Encounters {
		if e.Weight < 0 {
			return ValidationError{
				Code:    "INVALID_ENCOUNTER",
				Message: fmt.Sprintf("room %d (%s) encounter %d: negative weight %d", i, r.RoomType, j, e.Weight),
			}
		}
		for k, en := range e.Enemys {
			if !en.EnemyType.Valid() {
				return ValidationError{
					Code:    "INVALID_ENCOUNTER",
					Message: fmt.Sprintf("room %d (%s) encounter %d enemy %d: %v", i, r.RoomType, j, k, en.EnemyType),
				}
			}
		}
		total += e.Weight
	}
	if len(r.Encounters) > 0 && total == 0 {
		return ValidationError{
			Code:    "INVALID_ENCOUNTER",
			Message: fmt.Sprintf("room %d (%s): every encounter weight is zero", i, r.RoomType),
		}
	}
	return nil
}

// ParseCatalog decodes and validates a rooms document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCatalog reads rooms.yaml from the layered search path.
func LoadCatalog(customPath string) (*Catalog, string, error) {
	data, source, err := config.ReadLayered(customPath, "rooms.yaml", config.DefaultRoomsYAML())
	if err != nil {
		return nil, source, err
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, source, fmt.Errorf("failed to parse rooms %s: %w", source, err)
	}
	return c, source, nil
}
