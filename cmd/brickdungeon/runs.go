package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/brickdungeon/internal/platform/tui"
	"github.com/vovakirdan/brickdungeon/internal/storage"
)

var (
	flagLimit       int
	flagDeepest     bool
	flagInteractive bool
	flagClear       bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show run history",
	Long: `Display stored runs, most recent first.

Examples:
  brickdungeon runs
  brickdungeon runs --deepest --limit 5
  brickdungeon runs -i`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagDeepest, "deepest", false, "Order by depth reached instead of date")
	runsCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse the history in the terminal UI")
	runsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the whole history")
}

func runRuns(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearRuns(); err != nil {
			return err
		}
		fmt.Println("Run history cleared.")
		return nil
	}

	if flagInteractive {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunHistory(store, width, height)
	}

	var runs []storage.RunRecord
	if flagDeepest {
		runs, err = store.DeepestRuns(flagLimit)
	} else {
		runs, err = store.RecentRuns(flagLimit)
	}
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'brickdungeon sim' or 'brickdungeon play' to record one.")
		return nil
	}

	tbl := newTable("#", "Run", "Outcome", "Depth", "Cleared", "Ticks", "Seed", "Date")
	for _, row := range tui.HistoryRows(runs) {
		tbl.Row(row...)
	}
	fmt.Println(tbl.Render())

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("\n%d runs, %d victories, %d defeats, deepest %d\n",
		stats.Runs, stats.Victories, stats.Defeats, stats.MaxDepth)
	return nil
}
