package dungeon

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/config"
	"github.com/vovakirdan/brickdungeon/internal/core"
	"github.com/vovakirdan/brickdungeon/internal/item"
	"github.com/vovakirdan/brickdungeon/internal/physics"
	"github.com/vovakirdan/brickdungeon/internal/room"
)

func testConfig() config.DungeonConfig {
	cfg := config.DefaultDungeonConfig()
	cfg.Loading.FadeTicks = 1
	cfg.Loading.ConfirmationFrames = 0
	cfg.Loading.AssetLatencyTicks = 0
	return cfg
}

func newTestRun(t *testing.T, cfg config.DungeonConfig) *Run {
	t.Helper()
	catalog, _, err := room.LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog() failed: %v", err)
	}
	pool, _, err := item.LoadPool("")
	if err != nil {
		t.Fatalf("LoadPool() failed: %v", err)
	}
	rt := core.DefaultConfig()
	rt.Seed = 7
	r, err := New(Options{Config: cfg, Runtime: rt, Catalog: catalog, Items: pool})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return r
}

func step(t *testing.T, r *Run, actions ...core.Action) StepResult {
	t.Helper()
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	res, err := r.Step(in)
	if err != nil {
		t.Fatalf("Step() at tick %d failed: %v", r.Tick(), err)
	}
	return res
}

func clearEnemies(r *Run) {
	for _, e := range r.enemies {
		e.Pressure.Current = e.Pressure.Max
	}
}

func TestStartRoom(t *testing.T) {
	r := newTestRun(t, testConfig())

	if r.Room().RoomType != room.Start {
		t.Errorf("room = %s, expected Start", r.Room().RoomType)
	}
	if r.Depth() != 0 || r.ChooseState() != room.PreChoosing || r.LoadingState() != room.LoadingReady {
		t.Errorf("depth %d, choose %s, loading %s", r.Depth(), r.ChooseState(), r.LoadingState())
	}
	if es := r.Enemies(); len(es) != 1 || es[0].Pos != (r2.Vec{}) {
		t.Errorf("start enemies = %+v, expected one Gluttony at the origin", es)
	}
	if ps := r.Pickups(); len(ps) != 1 || ps[0].Pos != (r2.Vec{X: 60, Y: 60}) {
		t.Errorf("start pickups = %+v, expected one at (60, 60)", ps)
	}
	if held, capacity := r.Inventory(); held != 3 || capacity != 6 {
		t.Errorf("inventory = %d/%d, expected 3/6", held, capacity)
	}
	p := r.Paddle()
	if p.Pos != (r2.Vec{X: 0, Y: -250}) || p.Aim != math.Pi/2 {
		t.Errorf("paddle at %v aiming %v", p.Pos, p.Aim)
	}
}

func TestClearedRoomEntersChoosing(t *testing.T) {
	r := newTestRun(t, testConfig())
	clearEnemies(r)

	res := step(t, r)
	if res.Choose != room.Choosing {
		t.Fatalf("choose state = %s, expected Choosing", res.Choose)
	}
	rooms, _ := r.Selected()
	if len(rooms) != 2 {
		t.Errorf("%d candidates, expected 2", len(rooms))
	}
	if len(r.Icons()) != 2 {
		t.Errorf("%d icons, expected 2", len(r.Icons()))
	}
	if r.Cleared() != 1 {
		t.Errorf("Cleared() = %d, expected 1", r.Cleared())
	}
	if len(r.Enemies()) != 0 {
		t.Error("cleared enemy still alive")
	}
}

func TestDoorTransition(t *testing.T) {
	r := newTestRun(t, testConfig())
	clearEnemies(r)
	step(t, r)

	step(t, r, core.ActionNextRoom)
	rooms, idx := r.Selected()
	want := rooms[idx]

	res := step(t, r, core.ActionConfirm)
	if res.Loading != room.LoadingFadeOut {
		t.Fatalf("loading state = %s after confirm, expected FadeOut", res.Loading)
	}

	for i := 0; r.LoadingState() != room.LoadingReady; i++ {
		if i > 20 {
			t.Fatal("transition did not finish")
		}
		step(t, r)
	}

	if r.Depth() != 1 {
		t.Errorf("depth = %d, expected 1", r.Depth())
	}
	if r.Room().RoomType != want.RoomType {
		t.Errorf("entered %s, expected %s", r.Room().RoomType, want.RoomType)
	}
	if r.ChooseState() != room.PreChoosing {
		t.Errorf("choose state = %s, expected PreChoosing", r.ChooseState())
	}
	if rooms, _ := r.Selected(); len(rooms) != 0 {
		t.Errorf("%d candidates left after the transition", len(rooms))
	}
	if r.Paddle().Pos != (r2.Vec{X: 0, Y: -250}) {
		t.Errorf("paddle at %v, expected home", r.Paddle().Pos)
	}
	wantEnemies := 0
	if want.Encounter != nil {
		wantEnemies = len(want.Encounter.Enemys)
	}
	if got := len(r.Enemies()); got != wantEnemies {
		t.Errorf("%d enemies spawned, expected %d", got, wantEnemies)
	}
}

func TestShootAndRecycle(t *testing.T) {
	r := newTestRun(t, testConfig())

	step(t, r, core.ActionShoot)
	balls := r.Balls()
	if len(balls) != 1 {
		t.Fatalf("%d balls after shooting, expected 1", len(balls))
	}
	if held, _ := r.Inventory(); held != 2 {
		t.Errorf("inventory holds %d, expected 2", held)
	}
	if math.Abs(balls[0].Vel.X) > 1e-9 || math.Abs(balls[0].Vel.Y-500) > 1e-9 {
		t.Errorf("launch velocity = %v, expected (0, 500)", balls[0].Vel)
	}

	r.world.SetPosition(r.balls[0].Body, r2.Vec{X: 0, Y: -470})
	step(t, r)
	if len(r.Balls()) != 0 {
		t.Error("ball outside the arena not despawned")
	}
	if held, _ := r.Inventory(); held != 3 {
		t.Errorf("inventory holds %d after recycling, expected 3", held)
	}
}

func TestToggleAimHoldsBall(t *testing.T) {
	r := newTestRun(t, testConfig())

	step(t, r, core.ActionToggleAim)
	if p := r.Paddle(); !p.InHand || !p.Aiming {
		t.Fatalf("paddle in hand %v aiming %v", p.InHand, p.Aiming)
	}
	before := r.Paddle().Aim
	step(t, r, core.ActionLeft)
	if p := r.Paddle(); p.Aim <= before || p.Vel.X != 0 {
		t.Errorf("aiming Left: aim %v -> %v, velocity %v", before, p.Aim, p.Vel)
	}

	step(t, r, core.ActionToggleAim)
	if held, _ := r.Inventory(); held != 3 || r.Paddle().InHand {
		t.Errorf("ball not returned: inventory %d, in hand %v", held, r.Paddle().InHand)
	}
}

func TestAimClamped(t *testing.T) {
	r := newTestRun(t, testConfig())
	for range 200 {
		step(t, r, core.ActionAimRight)
	}
	if got, want := r.Paddle().Aim, 15*math.Pi/180; math.Abs(got-want) > 1e-9 {
		t.Errorf("aim = %v, expected clamp at %v", got, want)
	}
}

func TestPaddleMovesAndStopsAtWall(t *testing.T) {
	r := newTestRun(t, testConfig())

	step(t, r, core.ActionRight)
	if v := r.Paddle().Vel.X; v != 250 {
		t.Errorf("velocity after one tick = %v, expected 250", v)
	}
	for range 300 {
		step(t, r, core.ActionRight)
	}
	cfg := r.Config()
	maxX := cfg.Arena.Width/2 - cfg.Arena.WallThickness - cfg.Paddle.Width/2
	if x := r.Paddle().Pos.X; x > maxX+1 {
		t.Errorf("paddle at x=%v went through the wall (limit %v)", x, maxX)
	}
}

func TestItemPickup(t *testing.T) {
	cfg := testConfig()
	cfg.Arena.StartEnemy = config.Point{X: -400, Y: 200}
	r := newTestRun(t, cfg)

	it := r.pickups[0].Item
	want := it.Effect()
	before := r.Paddle()
	heldBefore, capBefore := r.Inventory()

	r.world.SetPosition(r.paddle.Body, r2.Vec{X: 60, Y: 60})
	step(t, r)

	if len(r.Pickups()) != 0 {
		t.Fatal("pickup not collected")
	}
	after := r.Paddle()
	if after.Speed != before.Speed+want.Speed {
		t.Errorf("%s: speed %v -> %v", it, before.Speed, after.Speed)
	}
	if after.Friction != before.Friction+want.Friction {
		t.Errorf("%s: friction %v -> %v", it, before.Friction, after.Friction)
	}
	if after.Pressure.Max != before.Pressure.Max+want.PressureMax {
		t.Errorf("%s: pressure max %v -> %v", it, before.Pressure.Max, after.Pressure.Max)
	}
	held, capacity := r.Inventory()
	if capacity != capBefore+want.Capacity || held != heldBefore+want.TennisBalls {
		t.Errorf("%s: inventory %d/%d -> %d/%d", it, heldBefore, capBefore, held, capacity)
	}
}

func TestDeadZoneDefeat(t *testing.T) {
	r := newTestRun(t, testConfig())
	r.paddle.Pressure.Current = 95

	step(t, r, core.ActionShoot)
	a := r.Config().Arena
	r.world.SetPosition(r.balls[0].Body, r2.Vec{X: 0, Y: -a.Height/2 - 60})

	res := step(t, r)
	if res.Outcome != Defeat {
		t.Fatalf("outcome = %s, expected defeat (pressure %v)", res.Outcome, r.Paddle().Pressure)
	}
	res = step(t, r)
	if res.Tick != r.Tick() || r.Tick() != 2 {
		t.Errorf("finished run kept ticking: tick %d", r.Tick())
	}
}

func TestBallFallingIntoDeadZone(t *testing.T) {
	r := newTestRun(t, testConfig())
	step(t, r, core.ActionShoot)
	hh := r.Config().Arena.Height / 2
	body := r.balls[0].Body
	r.world.SetPosition(body, r2.Vec{X: 400, Y: -hh - 5})
	r.world.Body(body).Velocity.Linear = r2.Vec{X: 0, Y: -500}

	hits, lost := 0, 0
	for i := 0; i < 20; i++ {
		res := step(t, r)
		for _, ev := range res.Events {
			switch ev.Kind {
			case EventPaddleHit:
				hits++
			case EventBallLost:
				lost++
			}
		}
		if i == 0 && len(r.Balls()) != 0 {
			t.Fatal("ball still in flight on the tick it entered the dead zone")
		}
	}
	if hits != 1 || lost != 1 {
		t.Errorf("dead zone hits = %d, balls lost = %d; expected 1 each", hits, lost)
	}
	if got := r.Paddle().Pressure.Current; got != 10 {
		t.Errorf("paddle pressure = %v, expected 10", got)
	}
	if held, _ := r.Inventory(); held != 3 {
		t.Errorf("inventory holds %d, expected the ball recycled", held)
	}
}

func TestEnemyContactHurtsPaddle(t *testing.T) {
	r := newTestRun(t, testConfig())
	r.world.SetPosition(r.paddle.Body, r2.Vec{X: 0, Y: -90})

	step(t, r)
	if got := r.Paddle().Pressure.Current; got != 20 {
		t.Errorf("paddle pressure = %v, expected 20", got)
	}
	if p := r.Paddle().Pos; p.Y > -80-19+1e-6 {
		t.Errorf("paddle not pushed out of the enemy: %v", p)
	}
}

func TestBallDamagesEnemy(t *testing.T) {
	r := newTestRun(t, testConfig())

	step(t, r, core.ActionShoot)
	for i := 0; i < 60 && r.enemies[0].Pressure.Current == 0; i++ {
		step(t, r)
	}
	if got := r.enemies[0].Pressure.Current; got != 10 {
		t.Errorf("enemy pressure = %v after the first hit, expected 10", got)
	}
}

func TestVictoryAtDepth(t *testing.T) {
	cfg := testConfig()
	cfg.Selection.VictoryAt = 1
	r := newTestRun(t, cfg)
	clearEnemies(r)
	step(t, r)
	step(t, r, core.ActionConfirm)

	for i := 0; r.Outcome() == Running; i++ {
		if i > 20 {
			t.Fatal("run did not finish")
		}
		step(t, r)
	}
	if r.Outcome() != Victory || r.Depth() != 1 {
		t.Errorf("outcome %s at depth %d, expected victory at 1", r.Outcome(), r.Depth())
	}
}

func TestDoorSensorChoosesRoom(t *testing.T) {
	r := newTestRun(t, testConfig())
	clearEnemies(r)
	step(t, r)

	d := r.Config().Arena.Doors[1]
	r.world.SetPosition(r.paddle.Body, r2.Vec{X: d.X, Y: d.Y - 20})
	res := step(t, r)
	if res.Choose != room.Chosen || res.Loading != room.LoadingFadeOut {
		t.Errorf("after door: choose %s, loading %s", res.Choose, res.Loading)
	}
	if _, idx := r.Selected(); idx != 1 {
		t.Errorf("selected index = %d, expected 1", idx)
	}
}

// flattenBall shoots a ball and leaves it flying level above the start enemy.
func flattenBall(t *testing.T, r *Run) {
	t.Helper()
	step(t, r, core.ActionShoot)
	body := r.balls[0].Body
	r.world.SetPosition(body, r2.Vec{X: 0, Y: 200})
	v := r.world.Body(body).Velocity
	v.Linear = r2.Vec{X: 500, Y: 0}
	v.Angular = 0
}

func TestAutopilotShootsPastFlatBall(t *testing.T) {
	r := newTestRun(t, testConfig())
	flattenBall(t, r)

	pilot := NewAutopilot()
	in := pilot.Next(r)
	if !in.Has(core.ActionShoot) {
		t.Fatal("autopilot kept waiting on a ball flying flat")
	}
	step(t, r, core.ActionShoot)
	if got := len(r.Balls()); got != 2 {
		t.Errorf("%d balls in flight, expected 2", got)
	}
}

func TestAutopilotSweepsWithEmptyInventory(t *testing.T) {
	r := newTestRun(t, testConfig())
	flattenBall(t, r)
	for {
		if _, ok := r.inventory.Pop(); !ok {
			break
		}
	}

	pilot := NewAutopilot()
	startY := r.Config().Paddle.StartY
	highest := startY
	for range 600 {
		in := pilot.Next(r)
		if in.Has(core.ActionShoot) {
			t.Fatal("autopilot shot with an empty inventory")
		}
		if _, err := r.Step(in); err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
		highest = math.Max(highest, r.Paddle().Pos.Y)
	}
	if highest < startY+100 {
		t.Errorf("paddle peaked at y=%.0f, expected a sweep toward the flat ball", highest)
	}
	if got := r.Paddle().Pressure.Current; got != 0 {
		t.Errorf("sweep ran into the enemy: paddle pressure %v", got)
	}
}

func TestAutopilotRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("long autopilot run")
	}
	r := newTestRun(t, config.DefaultDungeonConfig())
	pilot := NewAutopilot()
	for range 120000 {
		if r.Outcome() != Running || r.Depth() >= 3 {
			break
		}
		if _, err := r.Step(pilot.Next(r)); err != nil {
			t.Fatalf("Step() at tick %d failed: %v", r.Tick(), err)
		}
	}
	if r.Depth() < 3 && r.Outcome() != Victory {
		t.Errorf("autopilot reached depth %d (%s) in %d ticks, expected at least 3", r.Depth(), r.Outcome(), r.Tick())
	}
	if len(r.world.Tagged(physics.TagPaddle)) != 1 {
		t.Error("paddle lost")
	}
}
