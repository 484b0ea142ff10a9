package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickdungeon/internal/config"
	"github.com/vovakirdan/brickdungeon/internal/room"
)

var flagPreview int

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Validate and print the rooms catalog",
	Long: `Load the rooms catalog, validate it and print every room.

With --preview N, walk N depths with a seeded selector: at each depth the
candidates are drawn and the first one is entered, as a player taking the
left door every time would.

Examples:
  brickdungeon rooms
  brickdungeon rooms --rooms ./my-rooms.yaml
  brickdungeon rooms --preview 10 --seed 7`,
	Args: cobra.NoArgs,
	RunE: runRooms,
}

func init() {
	roomsCmd.Flags().IntVar(&flagPreview, "preview", 0, "Preview this many depths of seeded selection")
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// newTable creates a table in the CLI style.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func runRooms(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	catalog, source, err := room.LoadCatalog(flagRooms)
	if err != nil {
		return err
	}
	cfg, err := config.LoadDungeon(flagConfig)
	if err != nil {
		return err
	}
	logger.Debug("rooms loaded", "source", source)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rooms catalog: %s (%d rooms, valid)\n\n", source, len(catalog.Rooms))
	printCatalog(out, catalog)

	if flagPreview <= 0 {
		return nil
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	fmt.Fprintf(out, "\nSelection preview (seed %d)\n\n", seed)
	return previewSelection(out, catalog, cfg, seed, flagPreview)
}

// gateLabel describes a room's depth window.
func gateLabel(r *room.Room) string {
	if !r.Gated() {
		return "-"
	}
	return fmt.Sprintf("[%d, %d) forced at %d", *r.ForceSelectDepthMin, *r.ForceSelectDepthMax, *r.ForceSelectDepthMax)
}

// encounterLabel lists each encounter as weight:enemies.
func encounterLabel(r *room.Room) string {
	if len(r.Encounters) == 0 {
		return "-"
	}
	parts := make([]string, len(r.Encounters))
	for i, e := range r.Encounters {
		names := make([]string, len(e.Enemys))
		for j, en := range e.Enemys {
			names[j] = en.EnemyType.String()
		}
		parts[i] = fmt.Sprintf("%d:%s", e.Weight, strings.Join(names, "+"))
	}
	return strings.Join(parts, " ")
}

// printCatalog prints one table per room type, in catalog type order.
func printCatalog(w io.Writer, c *room.Catalog) {
	for _, t := range room.Types() {
		tbl := newTable("#", "Exits", "Arena", "Weight", "Depth gate", "Encounters")
		n := 0
		for i := range c.Rooms {
			r := &c.Rooms[i]
			if r.RoomType != t {
				continue
			}
			tbl.Row(
				fmt.Sprintf("%d", i),
				fmt.Sprintf("%d", r.NumExits),
				fmt.Sprintf("%d", r.Arena),
				fmt.Sprintf("%d", r.Weight),
				gateLabel(r),
				encounterLabel(r),
			)
			n++
		}
		if n == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d)\n%s\n", t, n, tbl.Render())
	}
}

// previewSelection walks depths on a clone of the catalog, entering the
// first candidate each time. Selection errors end the preview.
func previewSelection(w io.Writer, c *room.Catalog, cfg config.DungeonConfig, seed int64, depths int) error {
	src := rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)
	sel := room.NewSelector(c.Clone(), cfg.Selection.GatedBoost, src)

	tbl := newTable("Depth", "Candidates", "Entered")
	exits := cfg.Arena.StartExits
	var failure error
	for depth := range depths {
		rooms, err := sel.Select(depth, exits)
		if err != nil {
			failure = fmt.Errorf("depth %d: %w", depth, err)
			break
		}
		if len(rooms) == 0 {
			break
		}
		names := make([]string, len(rooms))
		for i, r := range rooms {
			names[i] = r.RoomType.String()
		}
		tbl.Row(fmt.Sprintf("%d", depth), strings.Join(names, ", "), rooms[0].RoomType.String())
		exits = rooms[0].NumExits
	}
	fmt.Fprintln(w, tbl.Render())
	return failure
}
