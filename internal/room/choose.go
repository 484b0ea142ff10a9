package room

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/config"
)

// ChooseState gates room choice on the current room being cleared.
type ChooseState int

const (
	PreChoosing ChooseState = iota // enemies remain
	Choosing                       // candidates shown at the doors
	Chosen                         // a door was entered
)

func (s ChooseState) String() string {
	switch s {
	case PreChoosing:
		return "PreChoosing"
	case Choosing:
		return "Choosing"
	case Chosen:
		return "Ready"
	default:
		return "Unknown"
	}
}

// Gate is the choose-state machine.
type Gate struct {
	State ChooseState
}

// Update moves PreChoosing to Choosing once no enemies remain. onEnter runs
// before the state changes so the candidates exist when icons are placed.
// It reports whether Choosing was entered.
func (g *Gate) Update(enemies int, onEnter func() error) (bool, error) {
	if g.State != PreChoosing || enemies > 0 {
		return false, nil
	}
	if err := onEnter(); err != nil {
		return false, err
	}
	g.State = Choosing
	return true, nil
}

// Choose records a door entered by the paddle. Doors are ignored outside
// Choosing; an index without a candidate returns ErrDoorIndex.
func (g *Gate) Choose(sel *SelectedRooms, door int) (bool, error) {
	if g.State != Choosing {
		return false, nil
	}
	if err := sel.Choose(door); err != nil {
		return false, err
	}
	g.State = Chosen
	return true, nil
}

// Reset starts a new cycle.
func (g *Gate) Reset() {
	g.State = PreChoosing
}

// Icon marks a candidate room above its door.
type Icon struct {
	Index int
	Kind  Type
	Pos   r2.Vec
}

// Icons places one icon per candidate at the door anchors, in candidate
// order. Candidates beyond the anchors get no icon.
func Icons(sel *SelectedRooms, anchors []config.Point) []Icon {
	n := min(len(sel.Rooms), len(anchors))
	icons := make([]Icon, n)
	for i := range n {
		icons[i] = Icon{
			Index: i,
			Kind:  sel.Rooms[i].RoomType.Icon(),
			Pos:   r2.Vec{X: anchors[i].X, Y: anchors[i].Y},
		}
	}
	return icons
}
