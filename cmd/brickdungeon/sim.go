package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickdungeon/internal/dungeon"
	"github.com/vovakirdan/brickdungeon/internal/storage"
	"github.com/vovakirdan/brickdungeon/internal/telemetry"
)

var (
	flagTrace    string
	flagEvents   string
	flagMaxTicks int
	flagDepth    int
	flagNoSave   bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the autopilot headless and record the run",
	Long: `Drive a run with the built-in autopilot, without a terminal UI.

The autopilot aims at the nearest enemy, shoots when nothing useful is in
flight (no balls, or only balls flying flat), keeps the paddle under falling balls and walks into the highlighted door
once a room is cleared. The run stops on victory, defeat, --depth, or
--max-ticks, and is stored in the run history.

Examples:
  brickdungeon sim --seed 42
  brickdungeon sim --depth 5 --trace out/trace.csv --events out/events.csv
  brickdungeon sim --rooms ./my-rooms.yaml --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagTrace, "trace", "", "Write per-tick ball trajectories to this CSV file")
	simCmd.Flags().StringVar(&flagEvents, "events", "", "Write run events to this CSV file (requires --trace)")
	simCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 60*60*10, "Stop after this many ticks")
	simCmd.Flags().IntVar(&flagDepth, "depth", 0, "Stop once this depth is reached (0 = no limit)")
	simCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store the run in history")
}

// simResult summarizes why a headless run stopped.
type simResult struct {
	Run    *dungeon.Run
	Reason string
}

// simulate steps a run with the autopilot until a stop condition holds.
func simulate(run *dungeon.Run, trace *telemetry.Trace, maxTicks, depth int) (simResult, error) {
	pilot := dungeon.NewAutopilot()
	for {
		switch {
		case run.Outcome() != dungeon.Running:
			return simResult{run, run.Outcome().String()}, nil
		case depth > 0 && run.Depth() >= depth:
			return simResult{run, fmt.Sprintf("reached depth %d", depth)}, nil
		case maxTicks > 0 && run.Tick() >= maxTicks:
			return simResult{run, "tick limit"}, nil
		}

		res, err := run.Step(pilot.Next(run))
		if err != nil {
			return simResult{run, "error"}, err
		}
		if err := trace.Record(run, res); err != nil {
			return simResult{run, "error"}, err
		}
	}
}

func runSim(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	s, err := loadSetup(logger)
	if err != nil {
		return err
	}
	if flagEvents != "" && flagTrace == "" {
		return fmt.Errorf("--events requires --trace")
	}

	trace, err := telemetry.Create(flagTrace, flagEvents)
	if err != nil {
		return err
	}
	defer trace.Close()

	run, err := s.newRun(s.runtime, logger)
	if err != nil {
		return err
	}

	result, simErr := simulate(run, trace, flagMaxTicks, flagDepth)
	if simErr != nil {
		logger.Error("run failed", "run", run.ID, "tick", run.Tick(), "depth", run.Depth(), "room", run.Room().RoomType, "err", simErr)
	}

	if !flagNoSave {
		if err := saveRun(run); err != nil {
			logger.Warn("could not save run", "err", err)
		}
	}

	fmt.Printf("Run %s (seed %d)\n", run.ID, run.Seed)
	fmt.Printf("  Stopped:  %s\n", result.Reason)
	fmt.Printf("  Depth:    %d\n", run.Depth())
	fmt.Printf("  Cleared:  %d rooms\n", run.Cleared())
	fmt.Printf("  Ticks:    %d\n", run.Tick())
	fmt.Printf("  Room:     %s\n", run.Room().RoomType)
	if flagTrace != "" {
		fmt.Printf("  Trace:    %s (%d rows)\n", flagTrace, trace.Rows())
	}

	return simErr
}

// saveRun stores a run in the history database.
func saveRun(run *dungeon.Run) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	_, err = store.SaveDungeonRun(run)
	return err
}
