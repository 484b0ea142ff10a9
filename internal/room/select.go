package room

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"
)

var (
	// ErrForcedConflict means more than one room is forced at the same depth.
	ErrForcedConflict = errors.New("more than one room forced at this depth")
	// ErrCatalogExhausted means fewer eligible rooms remain than exits to fill.
	ErrCatalogExhausted = errors.New("room catalog exhausted")
	// ErrZeroWeights means a weighted draw had no positive weight to pick from.
	ErrZeroWeights = errors.New("all candidate weights are zero")
	// ErrNoSelectedRooms means a choice was requested before selection ran.
	ErrNoSelectedRooms = errors.New("no selected rooms")
	// ErrDoorIndex means a door index is outside the selected rooms.
	ErrDoorIndex = errors.New("door index out of range")
)

// GatedBoost is added to every remaining gated room after each draw.
const GatedBoost = 100

// SelectedRoom is an immutable snapshot of a drawn room.
type SelectedRoom struct {
	RoomType  Type
	NumExits  int
	Arena     int
	Encounter *Encounter
}

// Selector draws the next rooms from a catalog.
type Selector struct {
	Catalog *Catalog
	Boost   int
	src     rand.Source
}

// NewSelector creates a selector drawing from src.
func NewSelector(c *Catalog, boost int, src rand.Source) *Selector {
	return &Selector{Catalog: c, Boost: boost, src: src}
}

// Select draws up to exits rooms for depth. When a room is forced at depth
// it is the only candidate and exactly one room is drawn, whatever exits asks
// for. The catalog is only changed when every draw succeeds.
func (s *Selector) Select(depth, exits int) ([]SelectedRoom, error) {
	cands, forced, err := s.candidates(depth)
	if err != nil {
		return nil, err
	}
	if forced {
		exits = 1
	}
	if len(cands) < exits {
		return nil, fmt.Errorf("%w: depth %d wants %d rooms, %d eligible", ErrCatalogExhausted, depth, exits, len(cands))
	}

	weights := make([]float64, len(cands))
	for i, r := range cands {
		weights[i] = float64(r.Weight)
	}
	draw := sampleuv.NewWeighted(weights, s.src)
	taken := make([]bool, len(cands))
	boosts := make([]int, len(cands))
	type pick struct{ room, encounter int }
	picks := make([]pick, 0, exits)

	for range exits {
		idx, ok := draw.Take()
		if !ok {
			return nil, fmt.Errorf("%w: depth %d, %d of %d rooms drawn", ErrZeroWeights, depth, len(picks), exits)
		}
		taken[idx] = true
		enc := -1
		if r := cands[idx]; len(r.Encounters) > 0 {
			if enc, err = s.drawEncounter(r); err != nil {
				return nil, fmt.Errorf("%s room at depth %d: %w", r.RoomType, depth, err)
			}
		}
		picks = append(picks, pick{room: idx, encounter: enc})

		for i, r := range cands {
			if taken[i] || !r.Gated() {
				continue
			}
			boosts[i]++
			draw.Reweight(i, float64(r.Weight+boosts[i]*s.Boost))
		}
	}

	for i, r := range cands {
		r.Weight += boosts[i] * s.Boost
	}
	out := make([]SelectedRoom, 0, exits)
	for _, p := range picks {
		r := cands[p.room]
		r.IsSelect = true
		sel := SelectedRoom{RoomType: r.RoomType, NumExits: r.NumExits, Arena: r.Arena}
		if p.encounter >= 0 {
			r.Encounters[p.encounter].IsSelect = true
			enc := r.Encounters[p.encounter].clone()
			sel.Encounter = &enc
		}
		out = append(out, sel)
	}
	return out, nil
}

func (s *Selector) candidates(depth int) ([]*Room, bool, error) {
	var open, forced []*Room
	for i := range s.Catalog.Rooms {
		r := &s.Catalog.Rooms[i]
		if r.IsSelect {
			continue
		}
		eligible, force := r.gate(depth)
		switch {
		case force:
			forced = append(forced, r)
		case eligible:
			open = append(open, r)
		}
	}
	switch len(forced) {
	case 0:
		return open, false, nil
	case 1:
		return forced, true, nil
	default:
		return nil, true, fmt.Errorf("%w: depth %d has %d forced rooms (first %s)", ErrForcedConflict, depth, len(forced), forced[0].RoomType)
	}
}

// drawEncounter picks an encounter index of r without marking it.
func (s *Selector) drawEncounter(r *Room) (int, error) {
	weights := make([]float64, len(r.Encounters))
	for i, e := range r.Encounters {
		weights[i] = float64(e.Weight)
	}
	idx, ok := sampleuv.NewWeighted(weights, s.src).Take()
	if !ok {
		return -1, fmt.Errorf("encounter: %w", ErrZeroWeights)
	}
	return idx, nil
}

// SelectedRooms is the candidate list of the current choice cycle and the
// player's navigation index into it.
type SelectedRooms struct {
	Rooms []SelectedRoom
	Index int
}

// Len returns the number of candidates.
func (s *SelectedRooms) Len() int {
	return len(s.Rooms)
}

// Next moves the index forward with wraparound.
func (s *SelectedRooms) Next() {
	if len(s.Rooms) == 0 {
		s.Index = 0
		return
	}
	s.Index = (s.Index + 1) % len(s.Rooms)
}

// Prev moves the index back with wraparound.
func (s *SelectedRooms) Prev() {
	if len(s.Rooms) == 0 {
		s.Index = 0
		return
	}
	s.Index = (s.Index - 1 + len(s.Rooms)) % len(s.Rooms)
}

// Choose sets the index from a door sensor.
func (s *SelectedRooms) Choose(door int) error {
	if door < 0 || door >= len(s.Rooms) {
		return fmt.Errorf("%w: door %d, %d rooms", ErrDoorIndex, door, len(s.Rooms))
	}
	s.Index = door
	return nil
}

// Current returns the room at the index.
func (s *SelectedRooms) Current() (SelectedRoom, error) {
	if s.Index < 0 || s.Index >= len(s.Rooms) {
		return SelectedRoom{}, ErrNoSelectedRooms
	}
	return s.Rooms[s.Index], nil
}

// Clear drops the candidates.
func (s *SelectedRooms) Clear() {
	s.Rooms = nil
	s.Index = 0
}
