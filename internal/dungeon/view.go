package dungeon

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/ball"
	"github.com/vovakirdan/brickdungeon/internal/config"
	"github.com/vovakirdan/brickdungeon/internal/enemy"
	"github.com/vovakirdan/brickdungeon/internal/item"
	"github.com/vovakirdan/brickdungeon/internal/physics"
	"github.com/vovakirdan/brickdungeon/internal/room"
)

// BallView is a read-only snapshot of a ball.
type BallView struct {
	ID        int
	Kind      ball.Kind
	Pos       r2.Vec
	Vel       r2.Vec
	Angular   float64
	InContact bool
}

// EnemyView is a read-only snapshot of an enemy.
type EnemyView struct {
	Type     enemy.Type
	Pos      r2.Vec
	Shape    physics.Shape
	Pressure enemy.Pressure
}

// PickupView is a read-only snapshot of an item on the floor.
type PickupView struct {
	Item item.Item
	Pos  r2.Vec
}

// PaddleView is a read-only snapshot of the paddle.
type PaddleView struct {
	Pos      r2.Vec
	Vel      r2.Vec
	Width    float64
	Height   float64
	Aim      float64
	Aiming   bool
	InHand   bool
	Speed    float64
	Friction float64
	Pressure enemy.Pressure
}

// Tick returns the number of ticks stepped.
func (r *Run) Tick() int { return r.tick }

// Depth returns the number of rooms entered after the start room.
func (r *Run) Depth() int { return r.depth }

// Cleared returns the number of rooms whose enemies were cleared.
func (r *Run) Cleared() int { return r.cleared }

// Outcome returns how the run stands.
func (r *Run) Outcome() Outcome { return r.outcome }

// Room returns the current room.
func (r *Run) Room() room.SelectedRoom { return r.current }

// Config returns the tuning config of the run.
func (r *Run) Config() config.DungeonConfig { return r.cfg }

// LoadingState returns the transition machine state.
func (r *Run) LoadingState() room.LoadingState { return r.loader.State() }

// ChooseState returns the choose gate state.
func (r *Run) ChooseState() room.ChooseState { return r.gate.State }

// Overlay returns the fade overlay opacity.
func (r *Run) Overlay() float64 { return r.loader.Overlay() }

// Selected returns the current candidates and navigation index.
func (r *Run) Selected() ([]room.SelectedRoom, int) {
	return r.selected.Rooms, r.selected.Index
}

// Icons returns the candidate icons above the doors.
func (r *Run) Icons() []room.Icon { return r.icons }

// Inventory returns the number of held balls and slots.
func (r *Run) Inventory() (held, capacity int) {
	return r.inventory.Len(), r.inventory.Cap()
}

// Paddle returns a snapshot of the paddle.
func (r *Run) Paddle() PaddleView {
	body := r.world.Body(r.paddle.Body)
	v := PaddleView{
		Pos:      body.Position,
		Vel:      body.Velocity.Linear,
		Width:    r.cfg.Paddle.Width,
		Height:   r.cfg.Paddle.Height,
		Aim:      r.paddle.Aim,
		Aiming:   r.paddle.Aiming,
		InHand:   r.paddle.Hand != nil,
		Speed:    r.paddle.Speed,
		Pressure: r.paddle.Pressure,
	}
	if c := r.world.Collider(r.paddle.Collider); c != nil && c.Material != nil {
		v.Friction = c.Material.Friction
	}
	return v
}

// Balls returns snapshots of the balls in flight.
func (r *Run) Balls() []BallView {
	out := make([]BallView, 0, len(r.balls))
	for _, b := range r.balls {
		body := r.world.Body(b.Body)
		if body == nil {
			continue
		}
		out = append(out, BallView{
			ID:        int(b.Body),
			Kind:      b.Kind,
			Pos:       body.Position,
			Vel:       body.Velocity.Linear,
			Angular:   body.Velocity.Angular,
			InContact: r.touching[b.Body],
		})
	}
	return out
}

// Enemies returns snapshots of the living enemies.
func (r *Run) Enemies() []EnemyView {
	out := make([]EnemyView, 0, len(r.enemies))
	for _, e := range r.enemies {
		body := r.world.Body(e.Body)
		if body == nil {
			continue
		}
		out = append(out, EnemyView{
			Type:     e.Type,
			Pos:      body.Position,
			Shape:    r.world.Collider(e.Collider).Shape,
			Pressure: e.Pressure,
		})
	}
	return out
}

// Pickups returns snapshots of the items on the floor.
func (r *Run) Pickups() []PickupView {
	out := make([]PickupView, 0, len(r.pickups))
	for _, p := range r.pickups {
		if body := r.world.Body(p.Body); body != nil {
			out = append(out, PickupView{Item: p.Item, Pos: body.Position})
		}
	}
	return out
}
