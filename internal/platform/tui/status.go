package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/brickdungeon/internal/dungeon"
	"github.com/vovakirdan/brickdungeon/internal/enemy"
	"github.com/vovakirdan/brickdungeon/internal/room"
)

// Status panel layout constants
const (
	panelWidth = 36
	barWidth   = 12
	maxEvents  = 6
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(panelWidth).
			Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	bannerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	winStyle    = bannerStyle.Foreground(lipgloss.Color("10"))
	loseStyle   = bannerStyle.Foreground(lipgloss.Color("9"))
	pauseStyle  = bannerStyle.Foreground(lipgloss.Color("11"))
)

// pressureBar renders a pressure gauge like [#####-----] 50/100.
func pressureBar(p enemy.Pressure) string {
	filled := int(math.Round(p.Fraction() * barWidth))
	filled = max(0, min(barWidth, filled))
	return fmt.Sprintf("[%s%s] %.0f/%.0f",
		strings.Repeat("#", filled), strings.Repeat("-", barWidth-filled), p.Current, p.Max)
}

// RenderStatus renders the side panel for a run.
func RenderStatus(r *dungeon.Run, events []dungeon.Event, paused bool) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("BRICK DUNGEON"))
	b.WriteString("\n\n")

	line := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-9s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}

	line("Room", r.Room().RoomType.String())
	line("Depth", fmt.Sprintf("%d  cleared %d", r.Depth(), r.Cleared()))
	line("Tick", fmt.Sprintf("%d", r.Tick()))

	p := r.Paddle()
	held, capacity := r.Inventory()
	hand := ""
	if p.InHand {
		hand = " +1 in hand"
	}
	line("Pressure", pressureBar(p.Pressure))
	line("Balls", fmt.Sprintf("%d/%d%s", held, capacity, hand))
	line("Aim", fmt.Sprintf("%.0f°", p.Aim*180/math.Pi))
	line("Speed", fmt.Sprintf("%.0f  friction %.1f", p.Speed, p.Friction))

	if ls := r.LoadingState(); ls != room.LoadingReady {
		line("Loading", fmt.Sprintf("%s %.0f%%", ls, r.Overlay()*100))
	} else {
		line("State", r.ChooseState().String())
	}

	if r.ChooseState() == room.Choosing {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Next room"))
		b.WriteString("\n")
		rooms, idx := r.Selected()
		for i, sr := range rooms {
			entry := fmt.Sprintf("%d %s", i+1, sr.RoomType)
			if i == idx {
				b.WriteString(cursorStyle.Render("> " + entry))
			} else {
				b.WriteString("  " + entry)
			}
			b.WriteString("\n")
		}
	}

	if len(events) > 0 {
		b.WriteString("\n")
		start := max(0, len(events)-maxEvents)
		for _, e := range events[start:] {
			b.WriteString(eventStyle.Render(fmt.Sprintf("%5d %s", e.Tick, e.Detail)))
			b.WriteString("\n")
		}
	}

	switch {
	case r.Outcome() == dungeon.Victory:
		b.WriteString("\n" + winStyle.Render("VICTORY - r to restart"))
	case r.Outcome() == dungeon.Defeat:
		b.WriteString("\n" + loseStyle.Render("DEFEAT - r to restart"))
	case paused:
		b.WriteString("\n" + pauseStyle.Render("PAUSED"))
	}

	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}
