package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/brickdungeon/internal/core"
	"github.com/vovakirdan/brickdungeon/internal/dungeon"
	"github.com/vovakirdan/brickdungeon/internal/platform/tui"
	"github.com/vovakirdan/brickdungeon/internal/storage"
)

var flagLogFile string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run in the terminal",
	Long: `Start a run in the terminal console.

Controls:
  A/D, ←/→   - Move left/right
  W/S, ↑/↓   - Move up/down
  Tab        - Take a ball in hand (or put it back)
  Q/E        - Rotate aim
  Space      - Shoot
  [ / ]      - Highlight previous/next room while choosing
  Enter      - Enter the highlighted room
  P/Esc      - Pause
  R          - Restart (after the run ends)
  ?          - Toggle help
  Ctrl+C     - Quit

Examples:
  brickdungeon play
  brickdungeon play --seed 42 --fps 30
  brickdungeon play --log-file play.log --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the console owns the terminal)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	w, closeLog, err := openLogFile(flagLogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	logger, err := newLogger(w)
	if err != nil {
		return err
	}

	s, err := loadSetup(logger)
	if err != nil {
		return err
	}

	rt := s.runtime
	if width, height, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rt.ScreenW = width
		rt.ScreenH = height
	}

	// Open run history
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run history", "err", err)
		// Continue without storage - the run still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	return tui.Run(tui.Options{
		NewRun: func(rt core.RuntimeConfig) (*dungeon.Run, error) {
			return s.newRun(rt, logger)
		},
		Store:   store,
		Runtime: rt,
		Logger:  logger,
	})
}
