package room

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/enemy"
)

// ErrTransitionBusy is returned when a transition starts while another runs.
var ErrTransitionBusy = errors.New("room transition already running")

// LoadingState is the room transition state.
type LoadingState int

const (
	LoadingReady LoadingState = iota
	LoadingLoading
	LoadingFadeOut
	LoadingFadeIn
)

func (s LoadingState) String() string {
	switch s {
	case LoadingReady:
		return "Ready"
	case LoadingLoading:
		return "Loading"
	case LoadingFadeOut:
		return "FadeOut"
	case LoadingFadeIn:
		return "FadeIn"
	default:
		return "Unknown"
	}
}

// AssetID names an asset a room needs before it is shown.
type AssetID string

// AssetServer reports asset readiness. Loading is never waited on; the
// machine polls it once per tick.
type AssetServer interface {
	Load(id AssetID)
	Loaded(id AssetID) bool
	PipelinesReady() bool
}

// LoadingData tracks pending assets and the confirmation-frame debounce.
type LoadingData struct {
	Pending            []AssetID
	ConfirmationTarget int
	ConfirmationCount  int
}

// Track adds assets to wait for.
func (d *LoadingData) Track(ids ...AssetID) {
	d.Pending = append(d.Pending, ids...)
}

// Fade is a fixed-length overlay timer counted in ticks.
type Fade struct {
	Ticks   int
	Elapsed int
}

// Advance moves the timer one tick and reports whether it finished.
func (f *Fade) Advance() bool {
	if f.Elapsed < f.Ticks {
		f.Elapsed++
	}
	return f.Elapsed >= f.Ticks
}

// Fraction returns the elapsed share in [0, 1].
func (f *Fade) Fraction() float64 {
	if f.Ticks <= 0 {
		return 1
	}
	return float64(f.Elapsed) / float64(f.Ticks)
}

// Reset rewinds the timer.
func (f *Fade) Reset() {
	f.Elapsed = 0
}

// EnemySpawn is one resolved enemy of a plan.
type EnemySpawn struct {
	Type  enemy.Type
	Pos   r2.Vec
	Spawn enemy.Spawner
}

// Plan is the dispatch snapshot taken when a transition starts: the room
// builder and one spawner per encounter enemy.
type Plan struct {
	Room    SelectedRoom
	Build   Builder
	Enemies []EnemySpawn
}

// NewPlan resolves the builder and spawners of sel.
func NewPlan(sel SelectedRoom, builders BuilderSet, spawns enemy.SpawnTable) (Plan, error) {
	build, err := builders.For(sel.RoomType)
	if err != nil {
		return Plan{}, err
	}
	p := Plan{Room: sel, Build: build}
	if sel.Encounter == nil {
		return p, nil
	}
	for _, e := range sel.Encounter.Enemys {
		fn, err := spawns.For(e.EnemyType)
		if err != nil {
			return Plan{}, fmt.Errorf("%s room: %w", sel.RoomType, err)
		}
		p.Enemies = append(p.Enemies, EnemySpawn{Type: e.EnemyType, Pos: e.Position.Vec(), Spawn: fn})
	}
	return p, nil
}

// Hooks are the run-side effects of a transition.
type Hooks interface {
	// UnloadRoom despawns every room-tagged entity and resets the paddle.
	UnloadRoom()
	// LoadRoom builds the planned room and spawns its enemies.
	LoadRoom(p Plan) error
	// FinishTransition advances depth, clears the candidates and resets the
	// choose gate.
	FinishTransition()
}

// Loader is the room transition machine:
// Ready -> FadeOut -> Loading -> FadeIn -> Ready.
type Loader struct {
	Data LoadingData

	state  LoadingState
	fade   Fade
	plan   Plan
	assets AssetServer
}

// NewLoader creates an idle loader.
func NewLoader(fadeTicks, confirmationTarget int, assets AssetServer) *Loader {
	return &Loader{
		Data:   LoadingData{ConfirmationTarget: confirmationTarget},
		fade:   Fade{Ticks: fadeTicks},
		assets: assets,
	}
}

// State returns the current state.
func (l *Loader) State() LoadingState {
	return l.state
}

// Busy reports whether a transition is running.
func (l *Loader) Busy() bool {
	return l.state != LoadingReady
}

// Plan returns the active plan.
func (l *Loader) Plan() Plan {
	return l.plan
}

// Begin starts a transition into p.
func (l *Loader) Begin(p Plan) error {
	if l.state != LoadingReady {
		return fmt.Errorf("%w: state %s", ErrTransitionBusy, l.state)
	}
	l.plan = p
	l.fade.Reset()
	l.state = LoadingFadeOut
	return nil
}

// Overlay returns the fade overlay opacity.
func (l *Loader) Overlay() float64 {
	switch l.state {
	case LoadingFadeOut:
		return l.fade.Fraction()
	case LoadingFadeIn:
		return 1 - l.fade.Fraction()
	case LoadingLoading:
		return 1
	default:
		return 0
	}
}

// Tick advances the machine by one tick.
func (l *Loader) Tick(h Hooks) error {
	switch l.state {
	case LoadingFadeOut:
		return l.tickFadeOut(h)
	case LoadingLoading:
		l.tickLoading()
	case LoadingFadeIn:
		l.tickFadeIn(h)
	}
	return nil
}

func (l *Loader) tickFadeOut(h Hooks) error {
	if !l.fade.Advance() {
		return nil
	}
	l.fade.Reset()
	h.UnloadRoom()
	l.Data.ConfirmationCount = 0
	l.state = LoadingLoading
	if err := h.LoadRoom(l.plan); err != nil {
		return fmt.Errorf("load %s room: %w", l.plan.Room.RoomType, err)
	}
	return nil
}

func (l *Loader) tickLoading() {
	d := &l.Data
	if len(d.Pending) > 0 || !l.assets.PipelinesReady() {
		d.ConfirmationCount = 0
		d.Pending = slices.DeleteFunc(d.Pending, l.assets.Loaded)
		return
	}
	d.ConfirmationCount++
	if d.ConfirmationCount >= d.ConfirmationTarget {
		l.state = LoadingFadeIn
	}
}

func (l *Loader) tickFadeIn(h Hooks) {
	if !l.fade.Advance() {
		return
	}
	l.fade.Reset()
	h.FinishTransition()
	l.state = LoadingReady
}
