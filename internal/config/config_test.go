package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDungeonMatchesDefaults(t *testing.T) {
	var cfg DungeonConfig
	if err := yaml.Unmarshal(defaultDungeonYAML, &cfg); err != nil {
		t.Fatalf("embedded dungeon.yaml does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultDungeonConfig()) {
		t.Errorf("embedded dungeon.yaml drifted from DefaultDungeonConfig()\nyaml: %+v\ncode: %+v", cfg, DefaultDungeonConfig())
	}
}

func TestLoadDungeonCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dungeon.yaml")
	content := "physics:\n  stiffness: 250\nloading:\n  fade_ticks: 1\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadDungeon(path)
	if err != nil {
		t.Fatalf("LoadDungeon() failed: %v", err)
	}
	if cfg.Physics.Stiffness != 250 {
		t.Errorf("Stiffness = %v, expected 250", cfg.Physics.Stiffness)
	}
	if cfg.Loading.FadeTicks != 1 {
		t.Errorf("FadeTicks = %v, expected 1", cfg.Loading.FadeTicks)
	}
	// Unset keys keep defaults
	if cfg.Ball.LaunchSpeed != 500 {
		t.Errorf("LaunchSpeed = %v, expected default 500", cfg.Ball.LaunchSpeed)
	}
}

func TestLoadDungeonErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		missing bool
		want    string
	}{
		{name: "missing file", missing: true, want: "failed to read"},
		{name: "bad yaml", content: "physics: [", want: "failed to parse"},
		{name: "invalid value", content: "ball:\n  mass: 0\n", want: "ball.mass"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tc.name, " ", "_")+".yaml")
			if !tc.missing {
				if err := os.WriteFile(path, []byte(tc.content), 0o600); err != nil {
					t.Fatal(err)
				}
			}
			_, err := LoadDungeon(path)
			if err == nil {
				t.Fatal("LoadDungeon() succeeded, expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestReadLayeredFallsBackToEmbedded(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	data, source, err := ReadLayered("", "rooms.yaml", DefaultRoomsYAML())
	if err != nil {
		t.Fatalf("ReadLayered() failed: %v", err)
	}
	if source != EmbeddedSource {
		t.Errorf("source = %q, expected %q", source, EmbeddedSource)
	}
	if len(data) == 0 {
		t.Error("embedded rooms catalog is empty")
	}
}

func TestReadLayeredPrefersLocalDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", "items.yaml"), []byte("pool: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	data, source, err := ReadLayered("", "items.yaml", DefaultItemsYAML())
	if err != nil {
		t.Fatalf("ReadLayered() failed: %v", err)
	}
	if source != filepath.Join("configs", "items.yaml") {
		t.Errorf("source = %q, expected local configs file", source)
	}
	if string(data) != "pool: []\n" {
		t.Errorf("data = %q", data)
	}
}
