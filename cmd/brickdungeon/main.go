// brickdungeon is a physics-driven dungeon crawler: a paddle-brick shoots
// balls at enemies and walks through doors into weighted random rooms.
//
// Usage:
//
//	brickdungeon play            - Play a run in the terminal
//	brickdungeon sim             - Run the autopilot headless and record the run
//	brickdungeon rooms           - Validate and print the rooms catalog
//	brickdungeon runs            - Show run history
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible runs
//	--db <path>         - Set database path (default: ~/.brickdungeon/history.db)
//	--config <path>     - Tuning config YAML
//	--rooms <path>      - Rooms catalog YAML
//	--items <path>      - Item pool YAML
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickdungeon/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagRooms    string
	flagItems    string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brickdungeon",
	Short: "Brick Dungeon - shoot your way through a dungeon of rooms",
	Long: `Brick Dungeon is a room-by-room dungeon crawler driven by a small
elastic collision engine. Clear a room's enemies, then walk through one of
its doors into the next, weighted-random room.

Available commands:
  play     - Play a run in the terminal
  sim      - Run the autopilot headless
  rooms    - Validate and print the rooms catalog
  runs     - Show run history

Examples:
  brickdungeon play
  brickdungeon sim --seed 42 --trace out/trace.csv
  brickdungeon rooms --preview 10
  brickdungeon runs`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (ticks per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to run history database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom tuning config YAML")
	pf.StringVar(&flagRooms, "rooms", "", "Path to custom rooms catalog YAML")
	pf.StringVar(&flagItems, "items", "", "Path to custom item pool YAML")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(roomsCmd)
	rootCmd.AddCommand(runsCmd)
}
