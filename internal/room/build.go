package room

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/config"
	"github.com/vovakirdan/brickdungeon/internal/physics"
)

// BuildContext is what a room builder works with.
type BuildContext struct {
	World   *physics.World
	Arena   config.ArenaConfig
	Room    SelectedRoom
	Assets  AssetServer
	Loading *LoadingData
	// PlaceItem drops a drawn item pickup. Nil disables pickups.
	PlaceItem func(pos r2.Vec) error
}

// Require requests assets and tracks them until loaded.
func (ctx *BuildContext) Require(ids ...AssetID) {
	for _, id := range ids {
		ctx.Assets.Load(id)
	}
	ctx.Loading.Track(ids...)
}

func (ctx *BuildContext) placeItem(pos r2.Vec) error {
	if ctx.PlaceItem == nil {
		return nil
	}
	return ctx.PlaceItem(pos)
}

// Builder builds the geometry of one room type.
type Builder func(ctx *BuildContext) error

// BuilderSet maps every room type to its builder. It is built with an
// unkeyed literal so adding a room type without a builder fails to compile.
type BuilderSet struct {
	Combat   Builder
	Treasure Builder
	Boss     Builder
	PreBoss  Builder
	PostBoss Builder
	Start    Builder
	Store    Builder
}

// DefaultBuilders is the production dispatch.
var DefaultBuilders = BuilderSet{
	buildCombat,
	buildTreasure,
	buildBoss,
	buildPreBoss,
	buildPostBoss,
	buildStart,
	buildStore,
}

// For returns the builder of t.
func (b BuilderSet) For(t Type) (Builder, error) {
	switch t {
	case Combat:
		return b.Combat, nil
	case Treasure:
		return b.Treasure, nil
	case Boss:
		return b.Boss, nil
	case PreBoss:
		return b.PreBoss, nil
	case PostBoss:
		return b.PostBoss, nil
	case Start:
		return b.Start, nil
	case Store:
		return b.Store, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownRoomType, int(t))
	}
}

func buildCombat(ctx *BuildContext) error {
	return buildArena(ctx, ctx.Arena.WallFriction)
}

func buildBoss(ctx *BuildContext) error {
	return buildArena(ctx, ctx.Arena.WallFriction)
}

func buildPreBoss(ctx *BuildContext) error {
	return buildArena(ctx, ctx.Arena.WallFriction)
}

func buildPostBoss(ctx *BuildContext) error {
	return buildArena(ctx, ctx.Arena.WallFriction)
}

func buildStart(ctx *BuildContext) error {
	if err := buildArena(ctx, ctx.Arena.StartFriction); err != nil {
		return err
	}
	p := ctx.Arena.StartItem
	return ctx.placeItem(r2.Vec{X: p.X, Y: p.Y})
}

func buildTreasure(ctx *BuildContext) error {
	if err := buildArena(ctx, ctx.Arena.WallFriction); err != nil {
		return err
	}
	return ctx.placeItem(r2.Vec{X: 0, Y: 0})
}

func buildStore(ctx *BuildContext) error {
	if err := buildArena(ctx, ctx.Arena.WallFriction); err != nil {
		return err
	}
	for _, x := range []float64{-150, 150} {
		if err := ctx.placeItem(r2.Vec{X: x, Y: 0}); err != nil {
			return err
		}
	}
	return nil
}

// ArenaAssets returns the assets a room's arena needs.
func ArenaAssets(sel SelectedRoom) []AssetID {
	return []AssetID{
		AssetID(fmt.Sprintf("arena%02d_texture", sel.Arena+1)),
		AssetID(fmt.Sprintf("arena_%s_%02d_layout", sel.RoomType.Icon(), sel.Arena+1)),
	}
}

type fixedBox struct {
	pos    r2.Vec
	shape  physics.Shape
	filter physics.Filter
	tags   physics.Tag
	sensor bool
	index  int
}

// buildArena spawns the shared room geometry: side and top walls, the
// transparent floor that only stops the paddle, the dead zone under it and
// the two door sensors.
func buildArena(ctx *BuildContext, friction float64) error {
	a := ctx.Arena
	hw, hh, t := a.Width/2, a.Height/2, a.WallThickness
	wall := physics.NewFilter(physics.GroupWall, physics.GroupAll)

	boxes := []fixedBox{
		{pos: r2.Vec{X: -hw + t/2 - 2, Y: 0}, shape: physics.Box(t/2, hh), filter: wall, tags: physics.TagWall},
		{pos: r2.Vec{X: hw - t/2, Y: 0}, shape: physics.Box(t/2, hh), filter: wall, tags: physics.TagWall},
		{pos: r2.Vec{X: 0, Y: hh - t/2}, shape: physics.Box((a.Width-2*t+5)/2, t/2), filter: wall, tags: physics.TagWall},
		{
			pos:    r2.Vec{X: 0, Y: -hh - 30},
			shape:  physics.Box(hw, 30),
			filter: physics.NewFilter(physics.GroupTransparentWall, physics.GroupPaddle),
			tags:   physics.TagWall,
		},
		{
			pos:    r2.Vec{X: 0, Y: -hh - 60},
			shape:  physics.Box(hw, 30),
			filter: physics.NewFilter(physics.GroupDeadZone, physics.GroupBall),
			tags:   physics.TagDeadZone,
			sensor: true,
		},
	}
	for i, d := range a.Doors {
		boxes = append(boxes, fixedBox{
			pos:    r2.Vec{X: d.X, Y: d.Y},
			shape:  physics.Box(a.DoorHalfW, a.DoorHalfH),
			filter: physics.NewFilter(physics.GroupDoor, physics.GroupPaddle),
			tags:   physics.TagDoor,
			sensor: true,
			index:  i,
		})
	}

	for _, b := range boxes {
		body := ctx.World.SpawnBody(physics.BodyDesc{
			Kind:     physics.KindFixed,
			Position: b.pos,
			Velocity: &physics.Velocity{},
			Tags:     b.tags | physics.TagRoom,
		})
		desc := physics.ColliderDesc{
			Shape:  b.shape,
			Filter: b.filter,
			Sensor: b.sensor,
			Events: b.sensor,
			Index:  b.index,
		}
		if !b.sensor {
			desc.Material = &physics.Material{Friction: friction, Restitution: a.WallRestitution}
			desc.Mass = &physics.MassProperties{Mass: wallMass}
		}
		if _, err := ctx.World.AttachCollider(body, desc); err != nil {
			return fmt.Errorf("build %s arena: %w", ctx.Room.RoomType, err)
		}
	}

	ctx.Require(ArenaAssets(ctx.Room)...)
	return nil
}

// wallMass stands in for an immovable body in the resolver's mass terms.
const wallMass = 3.4028234663852886e38
