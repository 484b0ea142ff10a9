package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickdungeon/internal/config"
	"github.com/vovakirdan/brickdungeon/internal/core"
	"github.com/vovakirdan/brickdungeon/internal/dungeon"
	"github.com/vovakirdan/brickdungeon/internal/item"
	"github.com/vovakirdan/brickdungeon/internal/room"
)

// newLogger creates the command logger at the --log-level level.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "brickdungeon",
		Level:           level,
	})
	return logger, nil
}

// setup is everything a run needs that comes from disk.
type setup struct {
	config  config.DungeonConfig
	catalog *room.Catalog
	items   item.Pool
	runtime core.RuntimeConfig
}

// loadSetup reads the tuning config and both data files.
// Data errors are fatal: an invalid catalog never starts a run.
func loadSetup(logger *log.Logger) (*setup, error) {
	cfg, err := config.LoadDungeon(flagConfig)
	if err != nil {
		return nil, err
	}

	catalog, source, err := room.LoadCatalog(flagRooms)
	if err != nil {
		return nil, err
	}
	logger.Debug("rooms loaded", "source", source, "rooms", len(catalog.Rooms))

	pool, source, err := item.LoadPool(flagItems)
	if err != nil {
		return nil, err
	}
	logger.Debug("items loaded", "source", source, "items", pool.Len())

	rt := core.DefaultConfig()
	rt.TickRate = flagFPS
	rt.Seed = flagSeed

	return &setup{config: cfg, catalog: catalog, items: pool, runtime: rt}, nil
}

// newRun starts a run on a fresh copy of the catalog.
func (s *setup) newRun(rt core.RuntimeConfig, logger *log.Logger) (*dungeon.Run, error) {
	return dungeon.New(dungeon.Options{
		Config:  s.config,
		Runtime: rt,
		Catalog: s.catalog.Clone(),
		Items:   s.items,
		Logger:  logger,
	})
}

// openLogFile opens path for appending, or returns io.Discard when path is empty.
func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
