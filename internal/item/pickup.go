package item

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/physics"
)

// Pickup is an item lying in the room, collected by touching the paddle.
type Pickup struct {
	Item     Item
	Body     physics.BodyID
	Collider physics.ColliderID
}

// Spawn places a pickup sensor of the given radius at pos.
func Spawn(w *physics.World, it Item, pos r2.Vec, radius float64) (*Pickup, error) {
	body := w.SpawnBody(physics.BodyDesc{
		Kind:     physics.KindFixed,
		Position: pos,
		Tags:     physics.TagItem | physics.TagRoom,
	})
	cid, err := w.AttachCollider(body, physics.ColliderDesc{
		Shape:  physics.Circle(radius),
		Filter: physics.NewFilter(physics.GroupItem, physics.GroupPaddle),
		Sensor: true,
		Events: true,
	})
	if err != nil {
		w.Despawn(body)
		return nil, fmt.Errorf("spawn %s: %w", it, err)
	}
	return &Pickup{Item: it, Body: body, Collider: cid}, nil
}
