package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickdungeon/internal/config"
	"github.com/vovakirdan/brickdungeon/internal/core"
	"github.com/vovakirdan/brickdungeon/internal/room"
	"github.com/vovakirdan/brickdungeon/internal/storage"
	"github.com/vovakirdan/brickdungeon/internal/telemetry"
)

func testSetup(t *testing.T) *setup {
	t.Helper()
	var buf bytes.Buffer
	logger, err := newLogger(&buf)
	if err != nil {
		t.Fatalf("newLogger() failed: %v", err)
	}
	s, err := loadSetup(logger)
	if err != nil {
		t.Fatalf("loadSetup() failed: %v", err)
	}
	return s
}

func TestNewLoggerRejectsLevel(t *testing.T) {
	old := flagLogLevel
	t.Cleanup(func() { flagLogLevel = old })

	flagLogLevel = "loud"
	if _, err := newLogger(&bytes.Buffer{}); err == nil {
		t.Error("expected an error for an unknown level")
	}
	flagLogLevel = "warn"
	logger, err := newLogger(&bytes.Buffer{})
	if err != nil {
		t.Fatalf("newLogger() failed: %v", err)
	}
	if logger.GetLevel() != log.WarnLevel {
		t.Errorf("level = %v, expected warn", logger.GetLevel())
	}
}

func TestSimulateStopsAtTickLimit(t *testing.T) {
	s := testSetup(t)
	rt := core.DefaultConfig()
	rt.Seed = 21
	run, err := s.newRun(rt, log.New(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("newRun() failed: %v", err)
	}

	var balls bytes.Buffer
	res, err := simulate(run, telemetry.NewTrace(&balls, nil), 600, 0)
	if err != nil {
		t.Fatalf("simulate() failed: %v", err)
	}
	if run.Tick() > 600 {
		t.Errorf("ran %d ticks, limit 600", run.Tick())
	}
	if res.Reason != "tick limit" && res.Reason != "victory" && res.Reason != "defeat" {
		t.Errorf("reason = %q", res.Reason)
	}
	if !strings.HasPrefix(balls.String(), "tick,ball") {
		t.Error("expected the autopilot to shoot within 600 ticks")
	}
}

func TestSimulateSavesHistory(t *testing.T) {
	old := flagDBPath
	t.Cleanup(func() { flagDBPath = old })
	flagDBPath = filepath.Join(t.TempDir(), "history.db")

	s := testSetup(t)
	rt := core.DefaultConfig()
	rt.Seed = 4
	run, err := s.newRun(rt, log.New(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("newRun() failed: %v", err)
	}
	if _, err := simulate(run, nil, 120, 0); err != nil {
		t.Fatalf("simulate() failed: %v", err)
	}
	if err := saveRun(run); err != nil {
		t.Fatalf("saveRun() failed: %v", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	got, err := store.RunByID(run.ID)
	if err != nil || got == nil {
		t.Fatalf("RunByID() = %v, %v", got, err)
	}
	if got.Ticks != run.Tick() || got.Seed != 4 {
		t.Errorf("stored %+v, run at tick %d", got, run.Tick())
	}
}

func TestPrintCatalog(t *testing.T) {
	catalog, _, err := room.LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog() failed: %v", err)
	}
	var out bytes.Buffer
	printCatalog(&out, catalog)
	for _, want := range []string{"Combat", "Boss", "Depth gate"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("catalog output is missing %q", want)
		}
	}
}

func TestPreviewSelectionIsSeeded(t *testing.T) {
	catalog, _, err := room.LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog() failed: %v", err)
	}
	cfg := config.DefaultDungeonConfig()

	var a, b bytes.Buffer
	if err := previewSelection(&a, catalog, cfg, 99, 4); err != nil {
		t.Fatalf("previewSelection() failed: %v", err)
	}
	if err := previewSelection(&b, catalog, cfg, 99, 4); err != nil {
		t.Fatalf("previewSelection() failed: %v", err)
	}
	if a.String() != b.String() {
		t.Error("same seed produced different previews")
	}
	remaining := catalog.Remaining()
	if remaining != len(catalog.Rooms) {
		t.Errorf("preview consumed the catalog: %d of %d rooms left", remaining, len(catalog.Rooms))
	}
}
