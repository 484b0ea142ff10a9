// Package dungeon drives a run: one fixed-step tick advances the paddle,
// the ball contact pipeline, collision events, the choose gate and the
// room transition machine, in that order.
package dungeon

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/ball"
	"github.com/vovakirdan/brickdungeon/internal/config"
	"github.com/vovakirdan/brickdungeon/internal/core"
	"github.com/vovakirdan/brickdungeon/internal/enemy"
	"github.com/vovakirdan/brickdungeon/internal/item"
	"github.com/vovakirdan/brickdungeon/internal/physics"
	"github.com/vovakirdan/brickdungeon/internal/room"
)

// Outcome is how a run stands.
type Outcome int

const (
	Running Outcome = iota
	Victory
	Defeat
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// Options configure a new run.
type Options struct {
	Config   config.DungeonConfig
	Runtime  core.RuntimeConfig
	Catalog  *room.Catalog
	Items    item.Pool
	Logger   *log.Logger
	Builders *room.BuilderSet  // nil means room.DefaultBuilders
	Spawns   *enemy.SpawnTable // nil means enemy.DefaultSpawns
}

// Run owns all mutable state of one dungeon run.
type Run struct {
	ID   uuid.UUID
	Seed int64

	cfg    config.DungeonConfig
	dt     float64
	log    *log.Logger
	src    *rand.PCG
	world  *physics.World
	solver *ball.Resolver
	bounds ball.Bounds

	catalog  *room.Catalog
	selector *room.Selector
	items    item.Pool
	builders room.BuilderSet
	spawns   enemy.SpawnTable
	assets   *room.SimulatedAssets
	loader   *room.Loader
	gate     room.Gate
	selected room.SelectedRooms
	icons    []room.Icon

	paddle    *Paddle
	inventory *ball.Inventory
	balls     []*ball.Ball
	enemies   []*enemy.Enemy
	pickups   []*item.Pickup
	touching  map[physics.BodyID]bool

	current room.SelectedRoom
	depth   int
	exits   int
	cleared int
	tick    int
	outcome Outcome
	events  []Event
}

// New creates a run and builds its start room.
func New(opts Options) (*Run, error) {
	if opts.Catalog == nil {
		panic("dungeon: nil catalog")
	}
	rt := opts.Runtime.ResolveSeed()
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	builders := room.DefaultBuilders
	if opts.Builders != nil {
		builders = *opts.Builders
	}
	spawns := enemy.DefaultSpawns
	if opts.Spawns != nil {
		spawns = *opts.Spawns
	}

	cfg := opts.Config
	a := cfg.Arena
	src := rand.NewPCG(uint64(rt.Seed), uint64(rt.Seed)^0x9e3779b97f4a7c15)
	assets := room.NewSimulatedAssets(cfg.Loading.AssetLatencyTicks)
	margin := a.DespawnMargin + 2*a.WallThickness

	r := &Run{
		ID:        uuid.New(),
		Seed:      rt.Seed,
		cfg:       cfg,
		dt:        rt.Delta(),
		src:       src,
		world:     physics.NewWorld(core.RectAround(0, 0, a.Width/2+margin, a.Height/2+margin), physics.DefaultCellSize),
		solver:    ball.NewResolver(ball.ParamsFrom(cfg)),
		bounds:    ball.BoundsFor(a),
		catalog:   opts.Catalog,
		selector:  room.NewSelector(opts.Catalog, cfg.Selection.GatedBoost, src),
		items:     opts.Items.Clone(),
		builders:  builders,
		spawns:    spawns,
		assets:    assets,
		loader:    room.NewLoader(cfg.Loading.FadeTicks, cfg.Loading.ConfirmationFrames, assets),
		inventory: ball.NewInventory(cfg.Ball.InventorySize, startingBalls(cfg.Ball.StartingBalls)...),
		touching:  make(map[physics.BodyID]bool),
		exits:     a.StartExits,
	}
	r.log = logger.With("run", r.ID.String()[:8])

	p, err := spawnPaddle(r.world, cfg.Paddle)
	if err != nil {
		return nil, err
	}
	r.paddle = p

	start := room.SelectedRoom{
		RoomType: room.Start,
		NumExits: a.StartExits,
		Encounter: &room.Encounter{Enemys: []room.EnemyEntity{{
			EnemyType: enemy.Gluttony,
			Position:  room.Position{X: a.StartEnemy.X, Y: a.StartEnemy.Y},
		}}},
	}
	plan, err := room.NewPlan(start, r.builders, r.spawns)
	if err != nil {
		return nil, err
	}
	if err := r.load(plan, &room.LoadingData{}); err != nil {
		return nil, fmt.Errorf("build start room: %w", err)
	}
	r.log.Info("run started", "seed", r.Seed, "rooms", len(r.catalog.Rooms))
	return r, nil
}

func startingBalls(n int) []ball.Kind {
	out := make([]ball.Kind, n)
	for i := range out {
		out[i] = ball.Tennis
	}
	return out
}

// StepResult summarises one tick.
type StepResult struct {
	Tick     int
	Depth    int
	Loading  room.LoadingState
	Choose   room.ChooseState
	Outcome  Outcome
	Contacts int
	Events   []Event
}

// Step advances the run by one tick. A returned error is fatal for the run.
func (r *Run) Step(in core.InputFrame) (StepResult, error) {
	if r.outcome != Running {
		return r.result(0), nil
	}
	r.tick++
	r.events = nil
	r.assets.Advance()

	if r.loader.State() != room.LoadingReady {
		if err := r.loader.Tick(r); err != nil {
			return r.result(0), err
		}
		return r.result(0), nil
	}

	r.paddle.steer(r.world, in, r.dt)
	r.handleHand(in)

	contacts, err := r.solver.Step(r.world, r.balls, r.dt)
	if err != nil {
		return r.result(0), fmt.Errorf("tick %d: resolve contacts: %w", r.tick, err)
	}
	clear(r.touching)
	for _, c := range contacts {
		r.touching[c.Ball.Body] = true
	}
	r.world.Integrate(r.dt)
	if err := r.handleCollisions(); err != nil {
		return r.result(len(contacts)), err
	}
	r.paddle.pushOut(r.world)
	r.despawnLostBalls()
	r.clearDefeated()

	if r.paddle.Pressure.Full() {
		r.finish(Defeat)
		return r.result(len(contacts)), nil
	}

	if _, err := r.gate.Update(len(r.enemies), r.enterChoosing); err != nil {
		return r.result(len(contacts)), err
	}
	if in.Has(core.ActionPrevRoom) {
		r.selected.Prev()
	}
	if in.Has(core.ActionNextRoom) {
		r.selected.Next()
	}
	if in.Has(core.ActionConfirm) {
		if err := r.chooseDoor(r.selected.Index); err != nil {
			return r.result(len(contacts)), err
		}
	}
	return r.result(len(contacts)), nil
}

func (r *Run) result(contacts int) StepResult {
	return StepResult{
		Tick:     r.tick,
		Depth:    r.depth,
		Loading:  r.loader.State(),
		Choose:   r.gate.State,
		Outcome:  r.outcome,
		Contacts: contacts,
		Events:   r.events,
	}
}

// handleHand takes a ball in hand, puts it back or shoots it.
func (r *Run) handleHand(in core.InputFrame) {
	p := r.paddle
	if in.Has(core.ActionToggleAim) {
		p.Aiming = !p.Aiming
		if p.Hand == nil {
			if k, ok := r.inventory.Pop(); ok {
				p.Hand = &k
			}
		} else if r.inventory.Push(*p.Hand) == nil {
			p.Hand = nil
		}
	}
	if !in.Has(core.ActionShoot) {
		return
	}
	if p.Hand == nil {
		k, ok := r.inventory.Pop()
		if !ok {
			return
		}
		p.Hand = &k
	}
	bc := r.cfg.Ball
	vel := r2.Scale(bc.LaunchSpeed, physics.FromAngle(p.Aim))
	b, err := ball.Spawn(r.world, bc, *p.Hand, p.handPosition(r.world, bc), vel)
	if err != nil {
		r.log.Error("shoot failed", "err", err)
		return
	}
	r.balls = append(r.balls, b)
	p.Hand = nil
	p.Aiming = false
	r.emit(EventShot, "%s ball at %.0f°", b.Kind, p.Aim*180/math.Pi)
}

// enterChoosing runs selection for the cleared room and places the icons.
func (r *Run) enterChoosing() error {
	r.cleared++
	rooms, err := r.selector.Select(r.depth, r.exits)
	if err != nil {
		r.log.Error("room selection failed", "depth", r.depth, "exits", r.exits, "err", err)
		return fmt.Errorf("select rooms at depth %d: %w", r.depth, err)
	}
	r.selected.Rooms = rooms
	r.selected.Index = 0
	r.icons = room.Icons(&r.selected, r.cfg.Arena.Doors)
	types := make([]string, len(rooms))
	for i, s := range rooms {
		types[i] = s.RoomType.String()
	}
	r.log.Info("room cleared", "depth", r.depth, "candidates", types)
	r.emit(EventChoosing, "%v", types)
	return nil
}

// chooseDoor starts the transition into candidate i. Doors without a
// candidate are ignored.
func (r *Run) chooseDoor(i int) error {
	chosen, err := r.gate.Choose(&r.selected, i)
	if errors.Is(err, room.ErrDoorIndex) {
		r.log.Debug("door without a room", "door", i, "candidates", r.selected.Len())
		return nil
	}
	if err != nil || !chosen {
		return err
	}
	sel, err := r.selected.Current()
	if err != nil {
		return err
	}
	plan, err := room.NewPlan(sel, r.builders, r.spawns)
	if err != nil {
		return fmt.Errorf("dispatch %s room: %w", sel.RoomType, err)
	}
	r.log.Info("door entered", "door", i, "room", sel.RoomType, "depth", r.depth)
	r.emit(EventDoor, "%s", sel.RoomType)
	return r.loader.Begin(plan)
}

// UnloadRoom despawns the current room, returning balls in flight to the
// inventory when recycling is on.
func (r *Run) UnloadRoom() {
	for _, b := range r.balls {
		r.recycle(b)
	}
	removed := r.world.DespawnTagged(physics.TagRoom)
	r.balls, r.enemies, r.pickups, r.icons = nil, nil, nil, nil
	r.paddle.reset(r.world)
	r.log.Debug("room unloaded", "entities", len(removed))
}

// LoadRoom builds the planned room.
func (r *Run) LoadRoom(p room.Plan) error {
	return r.load(p, &r.loader.Data)
}

func (r *Run) load(p room.Plan, data *room.LoadingData) error {
	ctx := &room.BuildContext{
		World:     r.world,
		Arena:     r.cfg.Arena,
		Room:      p.Room,
		Assets:    r.assets,
		Loading:   data,
		PlaceItem: r.placeItem,
	}
	if err := p.Build(ctx); err != nil {
		return err
	}
	for _, s := range p.Enemies {
		e, err := s.Spawn(r.world, s.Pos)
		if err != nil {
			return err
		}
		r.enemies = append(r.enemies, e)
	}
	r.current = p.Room
	r.log.Debug("room built", "room", p.Room.RoomType, "enemies", len(p.Enemies))
	return nil
}

func (r *Run) placeItem(pos r2.Vec) error {
	it := r.items.Draw(r.src)
	pk, err := item.Spawn(r.world, it, pos, r.cfg.Arena.ItemRadius)
	if err != nil {
		return err
	}
	r.pickups = append(r.pickups, pk)
	return nil
}

// FinishTransition enters the new room.
func (r *Run) FinishTransition() {
	r.depth++
	r.exits = r.current.NumExits
	r.selected.Clear()
	r.gate.Reset()
	r.log.Info("entered room", "room", r.current.RoomType, "depth", r.depth)
	r.emit(EventRoomEntered, "%s at depth %d", r.current.RoomType, r.depth)

	victoryAt := r.cfg.Selection.VictoryAt
	if r.current.RoomType == room.PostBoss || (victoryAt > 0 && r.depth >= victoryAt) {
		r.finish(Victory)
	}
}

func (r *Run) finish(o Outcome) {
	r.outcome = o
	r.log.Info("run finished", "outcome", o, "depth", r.depth, "cleared", r.cleared, "ticks", r.tick)
	r.emit(EventFinished, "%s", o)
}

func (r *Run) recycle(b *ball.Ball) {
	if !r.cfg.Ball.Recycle {
		return
	}
	if err := r.inventory.Push(b.Kind); err != nil {
		r.log.Debug("ball not recycled", "err", err)
	}
}

func (r *Run) despawnLostBalls() {
	kept := r.balls[:0]
	for _, b := range r.balls {
		body := r.world.Body(b.Body)
		if body != nil && !r.bounds.Outside(body.Position) {
			kept = append(kept, b)
			continue
		}
		r.loseBall(b)
	}
	clear(r.balls[len(kept):])
	r.balls = kept
}

// loseBall despawns a ball already removed from r.balls.
func (r *Run) loseBall(b *ball.Ball) {
	r.world.Despawn(b.Body)
	r.recycle(b)
	r.emit(EventBallLost, "%s ball", b.Kind)
}

func (r *Run) clearDefeated() {
	kept := r.enemies[:0]
	for _, e := range r.enemies {
		if !e.Pressure.Full() {
			kept = append(kept, e)
			continue
		}
		r.world.Despawn(e.Body)
		r.log.Debug("enemy cleared", "enemy", e.Type, "body", e.Body)
		r.emit(EventEnemyCleared, "%s", e.Type)
	}
	clear(r.enemies[len(kept):])
	r.enemies = kept
}
