package dungeon

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/config"
	"github.com/vovakirdan/brickdungeon/internal/core"
	"github.com/vovakirdan/brickdungeon/internal/room"
)

// Autopilot plays a run headless: it keeps the paddle under falling balls,
// aims at the nearest enemy and shoots when nothing useful is in flight, then
// collects items and walks into the highlighted door.
//
// Spin only pushes a ball sideways, so a ball can end up flying flat between
// the walls forever. The autopilot shoots again when every ball in flight is
// flat or no enemy took damage for StallTicks. With nothing left to shoot it
// sweeps the paddle vertically through the flat ball's row, away from
// enemies, so paddle friction gives the ball vertical speed again.
type Autopilot struct {
	Deadband   float64 // distance treated as arrived
	StallTicks int     // ticks without enemy damage before shooting again
	FlatRatio  float64 // |vy|/speed below which a ball counts as flying flat

	idle     int
	progress float64
	rising   bool
}

// NewAutopilot creates an autopilot with default tuning.
func NewAutopilot() *Autopilot {
	return &Autopilot{Deadband: 6, StallTicks: 600, FlatRatio: 0.05}
}

// Next returns the input for the coming tick.
func (a *Autopilot) Next(r *Run) core.InputFrame {
	in := core.NewInputFrame()
	if r.Outcome() != Running || r.LoadingState() != room.LoadingReady {
		return in
	}
	p := r.Paddle()

	switch r.ChooseState() {
	case room.Choosing:
		a.idle = 0
		a.walk(&in, p.Pos, a.exitTarget(r, p.Pos))
		return in
	case room.Chosen:
		return in
	}

	cfg := r.Config()
	enemies := r.Enemies()
	balls := r.Balls()
	a.track(enemies)
	if len(enemies) == 0 {
		return in
	}

	held, _ := r.Inventory()
	canShoot := held > 0 || p.InHand
	flat, allFlat := a.flatBalls(balls)
	stalled := a.idle >= a.StallTicks

	if len(flat) > 0 && (stalled || allFlat) && !canShoot {
		if a.sweep(&in, r, p, enemies, flat[0]) {
			return in
		}
	}

	var targetX float64
	if b, ok := lowestFalling(balls, p.Pos.Y, a.FlatRatio); ok {
		targetX = b.Pos.X
	} else {
		targetX = nearest(p.Pos, enemyPositions(enemies)).X
	}
	limit := a.limitX(cfg, p)
	targetX = core.ClampF(targetX, -limit, limit)
	a.walk(&in, p.Pos, r2.Vec{X: targetX, Y: cfg.Paddle.StartY})

	target := nearest(p.Pos, enemyPositions(enemies))
	lo, hi := cfg.Paddle.AimMinDeg*math.Pi/180, cfg.Paddle.AimMaxDeg*math.Pi/180
	want := core.ClampF(math.Atan2(target.Y-p.Pos.Y, target.X-p.Pos.X), lo, hi)
	step := cfg.Paddle.AimSpeed * r.dt
	diff := want - p.Aim
	switch {
	case diff > step/2:
		in.Set(core.ActionAimLeft)
	case diff < -step/2:
		in.Set(core.ActionAimRight)
	}
	needBall := len(balls) == 0 || allFlat || stalled
	if needBall && canShoot && math.Abs(diff) <= step {
		in.Set(core.ActionShoot)
		a.idle = 0
	}
	return in
}

// track counts ticks since an enemy last took damage or was cleared.
func (a *Autopilot) track(enemies []EnemyView) {
	total := 0.0
	for _, e := range enemies {
		total += e.Pressure.Current
	}
	if total != a.progress || len(enemies) == 0 {
		a.progress = total
		a.idle = 0
		return
	}
	a.idle++
}

// flatBalls returns the balls flying flat and whether every ball in flight does.
func (a *Autopilot) flatBalls(balls []BallView) ([]BallView, bool) {
	var flat []BallView
	for _, b := range balls {
		if a.isFlat(b) {
			flat = append(flat, b)
		}
	}
	return flat, len(balls) > 0 && len(flat) == len(balls)
}

func (a *Autopilot) isFlat(b BallView) bool {
	speed := r2.Norm(b.Vel)
	return speed > 0 && math.Abs(b.Vel.Y) < a.FlatRatio*speed
}

// sweep moves the paddle up through the row of b and back down, in a
// column clear of enemies. It reports false when no such column exists.
func (a *Autopilot) sweep(in *core.InputFrame, r *Run, p PaddleView, enemies []EnemyView, b BallView) bool {
	cfg := r.Config()
	x, ok := a.clearColumn(cfg, p, enemies)
	if !ok {
		return false
	}
	if math.Abs(p.Pos.X-x) > a.Deadband {
		a.rising = true
		a.walk(in, p.Pos, r2.Vec{X: x, Y: p.Pos.Y})
		return true
	}
	hh := cfg.Arena.Height / 2
	high := math.Min(b.Pos.Y+p.Height, hh-cfg.Arena.WallThickness-p.Height)
	low := math.Max(math.Min(cfg.Paddle.StartY, b.Pos.Y-p.Height), -hh+p.Height/2)
	switch {
	case a.rising && p.Pos.Y >= high-a.Deadband:
		a.rising = false
	case !a.rising && p.Pos.Y <= low+a.Deadband:
		a.rising = true
	}
	if a.rising {
		in.Set(core.ActionUp)
	} else {
		in.Set(core.ActionDown)
	}
	return true
}

// clearColumn finds the x nearest the paddle where the paddle can move
// vertically without touching an enemy.
func (a *Autopilot) clearColumn(cfg config.DungeonConfig, p PaddleView, enemies []EnemyView) (float64, bool) {
	limit := a.limitX(cfg, p)
	free := func(x float64) bool {
		lo, hi := x-p.Width/2-cfg.Ball.Size, x+p.Width/2+cfg.Ball.Size
		for _, e := range enemies {
			b := e.Shape.Bounds(e.Pos.X, e.Pos.Y)
			if hi > b.X && lo < b.Right() {
				return false
			}
		}
		return true
	}
	const step = 10.0
	for d := 0.0; d <= 2*limit; d += step {
		for _, x := range [...]float64{p.Pos.X - d, p.Pos.X + d} {
			if x >= -limit && x <= limit && free(x) {
				return x, true
			}
		}
	}
	return 0, false
}

func (a *Autopilot) limitX(cfg config.DungeonConfig, p PaddleView) float64 {
	return cfg.Arena.Width/2 - cfg.Arena.WallThickness - p.Width/2
}

// exitTarget is the nearest item if any is left, else the highlighted door.
func (a *Autopilot) exitTarget(r *Run, from r2.Vec) r2.Vec {
	if items := r.Pickups(); len(items) > 0 {
		pos := make([]r2.Vec, len(items))
		for i, it := range items {
			pos[i] = it.Pos
		}
		return nearest(from, pos)
	}
	_, idx := r.Selected()
	doors := r.Config().Arena.Doors
	if idx >= len(doors) {
		idx = 0
	}
	d := doors[idx]
	return r2.Vec{X: d.X, Y: d.Y}
}

func (a *Autopilot) walk(in *core.InputFrame, from, to r2.Vec) {
	dx, dy := to.X-from.X, to.Y-from.Y
	switch {
	case dx > a.Deadband:
		in.Set(core.ActionRight)
	case dx < -a.Deadband:
		in.Set(core.ActionLeft)
	}
	switch {
	case dy > a.Deadband:
		in.Set(core.ActionUp)
	case dy < -a.Deadband:
		in.Set(core.ActionDown)
	}
}

func lowestFalling(balls []BallView, above, flatRatio float64) (BallView, bool) {
	var (
		best  BallView
		found bool
	)
	for _, b := range balls {
		if b.Vel.Y >= 0 || b.Pos.Y < above {
			continue
		}
		if math.Abs(b.Vel.Y) < flatRatio*r2.Norm(b.Vel) {
			continue
		}
		if !found || b.Pos.Y < best.Pos.Y {
			best, found = b, true
		}
	}
	return best, found
}

func enemyPositions(es []EnemyView) []r2.Vec {
	out := make([]r2.Vec, len(es))
	for i, e := range es {
		out[i] = e.Pos
	}
	return out
}

func nearest(from r2.Vec, pts []r2.Vec) r2.Vec {
	best := pts[0]
	bestD := r2.Norm(r2.Sub(best, from))
	for _, p := range pts[1:] {
		if d := r2.Norm(r2.Sub(p, from)); d < bestD {
			best, bestD = p, d
		}
	}
	return best
}
