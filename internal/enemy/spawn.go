package enemy

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/physics"
)

// Archetype holds an enemy's body stats.
type Archetype struct {
	Shape       physics.Shape
	PressureMax float64
	Damage      float64
}

const (
	enemyMass        = 80 // same as the paddle
	enemyFriction    = 0.5
	enemyRestitution = 1.0
)

func box(w, h float64) Archetype {
	return Archetype{Shape: physics.Box(w/2, h/2), PressureMax: 50, Damage: 10}
}

var (
	slothStats    = box(150, 45)
	envyStats     = box(70, 50)
	gluttonyStats = box(170, 160)
	greedStats    = Archetype{Shape: physics.Circle(40), PressureMax: 50, Damage: 10}
	prideStats    = box(90, 70)
	wrathStats    = box(130, 60)
	lustStats     = box(70, 70)
)

// Enemy is a spawned enemy.
type Enemy struct {
	Type     Type
	Body     physics.BodyID
	Collider physics.ColliderID
	Pressure Pressure
	Damage   float64
}

// Spawner creates one archetype at a position.
type Spawner func(w *physics.World, pos r2.Vec) (*Enemy, error)

// SpawnTable maps every archetype to its spawner. It is built with an
// unkeyed literal so adding an archetype without a spawner fails to compile.
type SpawnTable struct {
	Sloth    Spawner
	BossA    Spawner
	Envy     Spawner
	Gluttony Spawner
	Greed    Spawner
	Pride    Spawner
	Wrath    Spawner
	Lust     Spawner
}

// DefaultSpawns is the production dispatch. BossA uses the Sloth body.
var DefaultSpawns = SpawnTable{
	spawnWith(Sloth, slothStats),
	spawnWith(BossA, slothStats),
	spawnWith(Envy, envyStats),
	spawnWith(Gluttony, gluttonyStats),
	spawnWith(Greed, greedStats),
	spawnWith(Pride, prideStats),
	spawnWith(Wrath, wrathStats),
	spawnWith(Lust, lustStats),
}

// For returns the spawner of t.
func (s SpawnTable) For(t Type) (Spawner, error) {
	switch t {
	case Sloth:
		return s.Sloth, nil
	case BossA:
		return s.BossA, nil
	case Envy:
		return s.Envy, nil
	case Gluttony:
		return s.Gluttony, nil
	case Greed:
		return s.Greed, nil
	case Pride:
		return s.Pride, nil
	case Wrath:
		return s.Wrath, nil
	case Lust:
		return s.Lust, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownEnemyType, int(t))
	}
}

// Spawn dispatches to the spawner of t.
func (s SpawnTable) Spawn(w *physics.World, t Type, pos r2.Vec) (*Enemy, error) {
	fn, err := s.For(t)
	if err != nil {
		return nil, err
	}
	return fn(w, pos)
}

// Stats returns the archetype stats of t.
func Stats(t Type) (Archetype, error) {
	switch t {
	case Sloth, BossA:
		return slothStats, nil
	case Envy:
		return envyStats, nil
	case Gluttony:
		return gluttonyStats, nil
	case Greed:
		return greedStats, nil
	case Pride:
		return prideStats, nil
	case Wrath:
		return wrathStats, nil
	case Lust:
		return lustStats, nil
	default:
		return Archetype{}, fmt.Errorf("%w: %d", ErrUnknownEnemyType, int(t))
	}
}

func spawnWith(t Type, a Archetype) Spawner {
	return func(w *physics.World, pos r2.Vec) (*Enemy, error) {
		body := w.SpawnBody(physics.BodyDesc{
			Kind:     physics.KindKinematicPosition,
			Position: pos,
			Velocity: &physics.Velocity{},
			Tags:     physics.TagEnemy | physics.TagRoom,
		})
		cid, err := w.AttachCollider(body, physics.ColliderDesc{
			Shape:    a.Shape,
			Filter:   physics.NewFilter(physics.GroupEnemy, physics.GroupAll^physics.GroupDeadZone),
			Events:   true,
			Material: &physics.Material{Friction: enemyFriction, Restitution: enemyRestitution},
			Mass:     &physics.MassProperties{Mass: enemyMass},
		})
		if err != nil {
			w.Despawn(body)
			return nil, fmt.Errorf("spawn %s: %w", t, err)
		}
		return &Enemy{
			Type:     t,
			Body:     body,
			Collider: cid,
			Pressure: NewPressure(a.PressureMax),
			Damage:   a.Damage,
		}, nil
	}
}
