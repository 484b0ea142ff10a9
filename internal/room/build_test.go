package room

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/config"
	"github.com/vovakirdan/brickdungeon/internal/core"
	"github.com/vovakirdan/brickdungeon/internal/enemy"
	"github.com/vovakirdan/brickdungeon/internal/physics"
)

func newTestSource() rand.Source {
	return rand.NewPCG(11, 13)
}

func newBuildContext(t Type) (*BuildContext, *[]r2.Vec) {
	arena := config.DefaultDungeonConfig().Arena
	var items []r2.Vec
	ctx := &BuildContext{
		World:   physics.NewWorld(core.RectAround(0, 0, arena.Width/2+200, arena.Height/2+200), physics.DefaultCellSize),
		Arena:   arena,
		Room:    SelectedRoom{RoomType: t},
		Assets:  NewSimulatedAssets(0),
		Loading: &LoadingData{},
		PlaceItem: func(pos r2.Vec) error {
			items = append(items, pos)
			return nil
		},
	}
	return ctx, &items
}

func TestEveryRoomTypeHasABuilder(t *testing.T) {
	for _, typ := range Types() {
		b, err := DefaultBuilders.For(typ)
		if err != nil || b == nil {
			t.Fatalf("For(%s) = %v, %v", typ, b, err)
		}
		ctx, _ := newBuildContext(typ)
		if err := b(ctx); err != nil {
			t.Fatalf("%s builder failed: %v", typ, err)
		}
		if len(ctx.Loading.Pending) == 0 {
			t.Errorf("%s builder registered no assets", typ)
		}
	}

	if _, err := DefaultBuilders.For(Type(42)); err == nil {
		t.Error("expected error for unknown room type")
	}
}

func TestArenaGeometry(t *testing.T) {
	ctx, _ := newBuildContext(Combat)
	if err := buildCombat(ctx); err != nil {
		t.Fatal(err)
	}
	w := ctx.World

	if n := len(w.Tagged(physics.TagWall)); n != 4 {
		t.Errorf("%d wall bodies, expected 4 (three walls and the floor)", n)
	}
	if n := len(w.Tagged(physics.TagDeadZone)); n != 1 {
		t.Errorf("%d dead zones, expected 1", n)
	}
	doors := w.Tagged(physics.TagDoor)
	if len(doors) != 2 {
		t.Fatalf("%d doors, expected 2", len(doors))
	}
	for i, id := range doors {
		body := w.Body(id)
		c := w.Collider(body.Colliders[0])
		if !c.Sensor || c.Index != i {
			t.Errorf("door %d: sensor %v index %d", i, c.Sensor, c.Index)
		}
	}
	if got := len(w.Tagged(physics.TagRoom)); got != w.Count() {
		t.Errorf("%d of %d bodies tagged as room", got, w.Count())
	}
}

func TestStartRoomFriction(t *testing.T) {
	ctx, items := newBuildContext(Start)
	if err := buildStart(ctx); err != nil {
		t.Fatal(err)
	}
	wall := ctx.World.Body(ctx.World.Tagged(physics.TagWall)[0])
	m := ctx.World.Collider(wall.Colliders[0]).Material
	if m.Friction != ctx.Arena.StartFriction {
		t.Errorf("start wall friction = %v, expected %v", m.Friction, ctx.Arena.StartFriction)
	}
	if len(*items) != 1 || (*items)[0] != (r2.Vec{X: 60, Y: 60}) {
		t.Errorf("start items = %v, expected one at (60, 60)", *items)
	}
}

func TestStoreAndTreasureItems(t *testing.T) {
	tests := []struct {
		typ  Type
		want int
	}{
		{Treasure, 1},
		{Store, 2},
		{Combat, 0},
	}
	for _, tc := range tests {
		t.Run(tc.typ.String(), func(t *testing.T) {
			ctx, items := newBuildContext(tc.typ)
			b, _ := DefaultBuilders.For(tc.typ)
			if err := b(ctx); err != nil {
				t.Fatal(err)
			}
			if len(*items) != tc.want {
				t.Errorf("%d items placed, expected %d", len(*items), tc.want)
			}
		})
	}
}

func TestNewPlanDispatchesEnemies(t *testing.T) {
	sel := SelectedRoom{
		RoomType: Boss,
		Encounter: &Encounter{Enemys: []EnemyEntity{
			{EnemyType: enemy.BossA, Position: Position{Y: 160}},
			{EnemyType: enemy.Greed, Position: Position{X: 5}},
		}},
	}
	p, err := NewPlan(sel, DefaultBuilders, enemy.DefaultSpawns)
	if err != nil {
		t.Fatalf("NewPlan() failed: %v", err)
	}
	if len(p.Enemies) != 2 || p.Enemies[0].Type != enemy.BossA || p.Enemies[0].Pos.Y != 160 {
		t.Errorf("unexpected plan enemies %+v", p.Enemies)
	}

	sel.Encounter.Enemys[0].EnemyType = enemy.Type(77)
	if _, err := NewPlan(sel, DefaultBuilders, enemy.DefaultSpawns); err == nil {
		t.Error("expected error for unknown enemy")
	}
}

func TestIconsFollowAnchors(t *testing.T) {
	sel := &SelectedRooms{Rooms: []SelectedRoom{{RoomType: PreBoss}, {RoomType: Store}}}
	anchors := config.DefaultDungeonConfig().Arena.Doors
	icons := Icons(sel, anchors)
	if len(icons) != 2 {
		t.Fatalf("%d icons", len(icons))
	}
	if icons[0].Kind != Combat || icons[1].Kind != Store {
		t.Errorf("icon kinds = %s, %s", icons[0].Kind, icons[1].Kind)
	}
	if icons[1].Pos != (r2.Vec{X: anchors[1].X, Y: anchors[1].Y}) {
		t.Errorf("icon 1 at %v, expected anchor %v", icons[1].Pos, anchors[1])
	}
}
