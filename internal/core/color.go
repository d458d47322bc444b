package core

// Color represents a foreground color for a screen cell.
// The platform layer maps it to terminal styles.
type Color uint8

// Palette used by the renderers.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightWhite
	ColorOrange
	ColorGray
)
