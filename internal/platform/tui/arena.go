package tui

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/brickdungeon/internal/core"
	"github.com/vovakirdan/brickdungeon/internal/dungeon"
	"github.com/vovakirdan/brickdungeon/internal/enemy"
	"github.com/vovakirdan/brickdungeon/internal/physics"
	"github.com/vovakirdan/brickdungeon/internal/room"
)

// Glyphs used on the arena map.
const (
	glyphWall   = '█'
	glyphDoor   = '░'
	glyphEnemy  = '▒'
	glyphPaddle = '='
	glyphBall   = 'o'
	glyphItem   = '+'
	glyphAim    = '·'
	glyphHand   = '•'
)

// aimLength is how far the aim marker sits from the paddle, in world units.
const aimLength = 60

// ArenaRect returns the world rectangle the map covers: the room plus its walls.
func ArenaRect(r *dungeon.Run) core.Rect {
	a := r.Config().Arena
	return core.RectAround(0, 0, a.Width/2, a.Height/2)
}

// DrawArena draws the current room of a run onto the canvas.
func DrawArena(c *core.Canvas, r *dungeon.Run) {
	c.Clear()
	cfg := r.Config()
	a := cfg.Arena
	half := r2.Vec{X: a.Width / 2, Y: a.Height / 2}
	t := a.WallThickness

	// Left, right and top walls.
	c.FillWorld(core.NewRect(-half.X, -half.Y, t, a.Height), glyphWall, core.ColorGray)
	c.FillWorld(core.NewRect(half.X-t, -half.Y, t, a.Height), glyphWall, core.ColorGray)
	c.FillWorld(core.NewRect(-half.X, half.Y-t, a.Width, t), glyphWall, core.ColorGray)

	if r.ChooseState() == room.Choosing {
		_, idx := r.Selected()
		for i, d := range a.Doors {
			color := core.ColorBlue
			if i == idx {
				color = core.ColorBrightCyan
			}
			c.FillWorld(core.RectAround(d.X, d.Y, a.DoorHalfW, a.DoorHalfH), glyphDoor, color)
		}
		for _, icon := range r.Icons() {
			color := core.ColorMagenta
			if icon.Index == idx {
				color = core.ColorBrightMagenta
			}
			c.Plot(icon.Pos.X, icon.Pos.Y, iconRune(icon.Kind), color)
		}
	}

	for _, e := range r.Enemies() {
		drawEnemy(c, e)
	}
	for _, p := range r.Pickups() {
		c.Plot(p.Pos.X, p.Pos.Y, glyphItem, core.ColorBrightGreen)
	}

	p := r.Paddle()
	c.FillWorld(core.RectAround(p.Pos.X, p.Pos.Y, p.Width/2, p.Height/2), glyphPaddle, core.ColorBrightCyan)
	aim := r2.Add(p.Pos, r2.Scale(aimLength, physics.FromAngle(p.Aim)))
	mark, color := glyphAim, core.ColorWhite
	if p.InHand {
		mark, color = glyphHand, core.ColorBrightYellow
	}
	c.Plot(aim.X, aim.Y, mark, color)

	for _, b := range r.Balls() {
		c.Plot(b.Pos.X, b.Pos.Y, glyphBall, core.ColorBrightYellow)
	}

	if o := r.Overlay(); o >= 1 {
		c.Clear()
		c.DrawTextCentered(c.Height()/2, "loading "+r.Room().RoomType.String()+"...", core.ColorGray)
	} else if o >= 0.5 {
		fade(c)
	}
}

// drawEnemy fills the enemy's bounds and marks it with its type initial.
// Hurt enemies turn orange, nearly cleared ones bright red.
func drawEnemy(c *core.Canvas, e dungeon.EnemyView) {
	color := core.ColorRed
	switch f := e.Pressure.Fraction(); {
	case f >= 0.75:
		color = core.ColorBrightRed
	case f >= 0.25:
		color = core.ColorOrange
	}
	c.FillWorld(e.Shape.Bounds(e.Pos.X, e.Pos.Y), glyphEnemy, color)
	c.Plot(e.Pos.X, e.Pos.Y, enemyRune(e.Type), core.ColorBrightWhite)
}

// fade grays out the whole map.
func fade(c *core.Canvas) {
	for y := range c.Height() {
		for x := range c.Width() {
			cell := c.Cell(x, y)
			if cell.Rune != ' ' {
				c.SetColor(x, y, cell.Rune, core.ColorGray)
			}
		}
	}
}

func enemyRune(t enemy.Type) rune {
	return []rune(t.String())[0]
}

func iconRune(t room.Type) rune {
	return []rune(strings.ToUpper(t.String()))[0]
}
