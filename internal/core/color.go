package core

// Color is the foreground of a canvas cell. The console maps each one to an
// ANSI 256-color code.
type Color uint8

// Colors used by the arena map.
const (
	ColorDefault       Color = iota
	ColorGray                // walls, fade overlay
	ColorWhite               // aim marker
	ColorRed                 // unhurt enemy
	ColorOrange              // hurt enemy
	ColorBrightRed           // nearly cleared enemy
	ColorBrightWhite         // enemy type initial
	ColorBlue                // door
	ColorBrightCyan          // highlighted door, paddle
	ColorMagenta             // room icon
	ColorBrightMagenta       // highlighted room icon
	ColorBrightGreen         // item pickup
	ColorBrightYellow        // ball, ball in hand
)
