package enemy

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/brickdungeon/internal/core"
	"github.com/vovakirdan/brickdungeon/internal/physics"
)

func TestTypeYAML(t *testing.T) {
	var got struct {
		Enemy Type `yaml:"enemy_type"`
	}
	if err := yaml.Unmarshal([]byte("enemy_type: Gluttony\n"), &got); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if got.Enemy != Gluttony {
		t.Errorf("decoded %v, expected Gluttony", got.Enemy)
	}

	err := yaml.Unmarshal([]byte("enemy_type: Vanity\n"), &got)
	if !errors.Is(err, ErrUnknownEnemyType) {
		t.Errorf("unknown variant error = %v, expected ErrUnknownEnemyType", err)
	}
}

func TestSpawnTableCoversEveryType(t *testing.T) {
	w := physics.NewWorld(core.RectAround(0, 0, 1000, 1000), physics.DefaultCellSize)
	for _, typ := range Types() {
		e, err := DefaultSpawns.Spawn(w, typ, r2.Vec{X: 10, Y: 20})
		if err != nil {
			t.Fatalf("Spawn(%s) failed: %v", typ, err)
		}
		if e.Type != typ {
			t.Errorf("Spawn(%s) produced %s", typ, e.Type)
		}
		body := w.Body(e.Body)
		if body == nil || !body.Tags.Has(physics.TagEnemy|physics.TagRoom) {
			t.Errorf("Spawn(%s) body missing or untagged", typ)
		}
		c := w.Collider(e.Collider)
		if c.Material == nil || c.Material.Friction != 0.5 || c.Material.Restitution != 1 {
			t.Errorf("Spawn(%s) material = %+v", typ, c.Material)
		}
		if c.Mass == nil || c.Mass.Mass != 80 {
			t.Errorf("Spawn(%s) mass = %+v", typ, c.Mass)
		}
		if e.Pressure.Max != 50 {
			t.Errorf("Spawn(%s) pressure max = %v", typ, e.Pressure.Max)
		}
	}
}

func TestBossAUsesSlothBody(t *testing.T) {
	boss, err := Stats(BossA)
	if err != nil {
		t.Fatal(err)
	}
	sloth, _ := Stats(Sloth)
	if boss != sloth {
		t.Errorf("BossA stats %+v differ from Sloth %+v", boss, sloth)
	}
}

func TestSpawnUnknownType(t *testing.T) {
	w := physics.NewWorld(core.RectAround(0, 0, 100, 100), physics.DefaultCellSize)
	_, err := DefaultSpawns.Spawn(w, Type(99), r2.Vec{})
	if !errors.Is(err, ErrUnknownEnemyType) {
		t.Errorf("error = %v, expected ErrUnknownEnemyType", err)
	}
}

func TestPressureClamp(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		dmg   float64
		want  float64
		full  bool
	}{
		{"normal hit", 0, 10, 10, false},
		{"reaches max", 45, 10, 50, true},
		{"relief floors at zero", 5, -20, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Pressure{Current: tc.start, Max: 50}
			p.Add(tc.dmg)
			if p.Current != tc.want {
				t.Errorf("Current = %v, expected %v", p.Current, tc.want)
			}
			if p.Full() != tc.full {
				t.Errorf("Full() = %v, expected %v", p.Full(), tc.full)
			}
		})
	}
}
