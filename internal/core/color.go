package core

// Color identifies a foreground color for a screen cell. The platform layer
// maps each value to an ANSI 256 code at render time, so games stay free of
// escape sequences.
type Color uint8

// The palette is the classic 16 ANSI colors plus a mid gray the games use
// for walls and floors.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorGray
)
