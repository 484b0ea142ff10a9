package dungeon

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/brickdungeon/internal/ball"
	"github.com/vovakirdan/brickdungeon/internal/enemy"
	"github.com/vovakirdan/brickdungeon/internal/item"
	"github.com/vovakirdan/brickdungeon/internal/physics"
)

// EventKind classifies something that happened during a tick.
type EventKind int

const (
	EventShot EventKind = iota
	EventEnemyHit
	EventEnemyCleared
	EventPaddleHit
	EventBallLost
	EventItem
	EventChoosing
	EventDoor
	EventRoomEntered
	EventFinished
)

func (k EventKind) String() string {
	switch k {
	case EventShot:
		return "shot"
	case EventEnemyHit:
		return "enemy-hit"
	case EventEnemyCleared:
		return "enemy-cleared"
	case EventPaddleHit:
		return "paddle-hit"
	case EventBallLost:
		return "ball-lost"
	case EventItem:
		return "item"
	case EventChoosing:
		return "choosing"
	case EventDoor:
		return "door"
	case EventRoomEntered:
		return "room"
	case EventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Event is a tick event for logs and the console.
type Event struct {
	Tick   int
	Kind   EventKind
	Detail string
}

func (r *Run) emit(kind EventKind, format string, args ...any) {
	r.events = append(r.events, Event{Tick: r.tick, Kind: kind, Detail: fmt.Sprintf(format, args...)})
}

// party is one side of a collision event.
type party struct {
	collider physics.ColliderID
	body     physics.BodyID
	tags     physics.Tag
}

func (r *Run) party(id physics.ColliderID) (party, bool) {
	body, ok := r.world.Parent(id)
	if !ok {
		return party{}, false
	}
	return party{collider: id, body: body, tags: r.world.Body(body).Tags}, true
}

// handleCollisions applies the gameplay effect of every pair that started
// touching this tick.
func (r *Run) handleCollisions() error {
	for _, ev := range r.world.CollisionEvents() {
		a, okA := r.party(ev.A)
		b, okB := r.party(ev.B)
		if !okA || !okB {
			continue
		}
		if a.tags.Has(physics.TagPaddle) || a.tags.Has(physics.TagBall) {
			a, b = b, a
		}
		// b is now the paddle or a ball when either side is one.
		var err error
		switch {
		case b.tags.Has(physics.TagBall) && a.tags.Has(physics.TagEnemy):
			r.ballHitsEnemy(b.body, a.body)
		case b.tags.Has(physics.TagBall) && a.tags.Has(physics.TagDeadZone):
			r.ballInDeadZone(b.body)
		case b.tags.Has(physics.TagPaddle) && a.tags.Has(physics.TagEnemy):
			r.paddle.Pressure.Add(r.cfg.Paddle.ContactHit)
			r.emit(EventPaddleHit, "enemy contact, pressure %.0f/%.0f", r.paddle.Pressure.Current, r.paddle.Pressure.Max)
		case b.tags.Has(physics.TagPaddle) && a.tags.Has(physics.TagItem):
			r.collect(a.body)
		case b.tags.Has(physics.TagPaddle) && a.tags.Has(physics.TagDoor):
			err = r.chooseDoor(r.world.Collider(a.collider).Index)
		}
		if err != nil {
			return err
		}
		if r.loader.Busy() {
			// The door started a transition; the room is about to go away.
			return nil
		}
	}
	return nil
}

func (r *Run) findBall(body physics.BodyID) *ball.Ball {
	i := slices.IndexFunc(r.balls, func(b *ball.Ball) bool { return b.Body == body })
	if i < 0 {
		return nil
	}
	return r.balls[i]
}

func (r *Run) findEnemy(body physics.BodyID) *enemy.Enemy {
	i := slices.IndexFunc(r.enemies, func(e *enemy.Enemy) bool { return e.Body == body })
	if i < 0 {
		return nil
	}
	return r.enemies[i]
}

func (r *Run) ballHitsEnemy(ballBody, enemyBody physics.BodyID) {
	b, e := r.findBall(ballBody), r.findEnemy(enemyBody)
	if b == nil || e == nil {
		return
	}
	e.Pressure.Add(b.Damage * b.DamageCoefficient)
	r.emit(EventEnemyHit, "%s pressure %.0f/%.0f", e.Type, e.Pressure.Current, e.Pressure.Max)
}

func (r *Run) ballInDeadZone(ballBody physics.BodyID) {
	b := r.findBall(ballBody)
	if b == nil {
		return
	}
	r.paddle.Pressure.Add(b.Damage)
	r.emit(EventPaddleHit, "ball fell, pressure %.0f/%.0f", r.paddle.Pressure.Current, r.paddle.Pressure.Max)
	r.balls = slices.DeleteFunc(r.balls, func(x *ball.Ball) bool { return x == b })
	r.loseBall(b)
}

func (r *Run) collect(body physics.BodyID) {
	i := slices.IndexFunc(r.pickups, func(p *item.Pickup) bool { return p.Body == body })
	if i < 0 {
		return
	}
	pk := r.pickups[i]
	r.pickups = slices.Delete(r.pickups, i, i+1)
	r.world.Despawn(pk.Body)
	r.paddle.apply(r.world, r.inventory, pk.Item.Effect())
	r.log.Debug("item collected", "item", pk.Item)
	r.emit(EventItem, "%s", pk.Item)
}
