package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flapper/internal/core"
	"github.com/vovakirdan/flapper/internal/games/flappy"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightWhite:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// Glyphs used by DrawSnapshot.
const (
	obstacleRune = '█'
	obstacleCap  = '▓'
	playerRune   = '█'
	hudRows      = 1
	minWidth     = 20
	minHeight    = 8
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// DrawSnapshot draws a snapshot scaled from world units to the screen.
// Row 0 is the HUD; the playfield is stretched over the remaining rows.
func DrawSnapshot(s *core.Screen, snap flappy.Snapshot) {
	s.Clear()
	if s.Width() < minWidth || s.Height() < minHeight || snap.PlayfieldW <= 0 || snap.PlayfieldH <= 0 {
		s.DrawTextCentered(s.Height()/2, "terminal too small")
		return
	}

	rows := s.Height() - hudRows
	sx := float64(s.Width()) / snap.PlayfieldW
	sy := float64(rows) / snap.PlayfieldH

	for _, o := range snap.Obstacles {
		x, w := span(o.X, o.X+snap.ObstacleWidth, sx, s.Width())
		if w == 0 {
			continue
		}
		// Top segment ends at the gap, bottom segment starts after it
		_, topH := span(0, o.GapTop, sy, rows)
		bottomY, bottomH := span(o.GapTop+o.GapHeight, snap.PlayfieldH, sy, rows)

		s.DrawRect(x, hudRows, w, topH, obstacleRune, core.ColorGreen)
		s.DrawRect(x, hudRows+bottomY, w, bottomH, obstacleRune, core.ColorGreen)
		if topH > 0 {
			s.DrawHLine(x, hudRows+topH-1, w, obstacleCap, core.ColorBrightGreen)
		}
		if bottomH > 0 {
			s.DrawHLine(x, hudRows+bottomY, w, obstacleCap, core.ColorBrightGreen)
		}
	}

	p := snap.Player
	px, pw := span(p.X, p.X+p.Width, sx, s.Width())
	py, ph := span(p.Y, p.Y+p.Height, sy, rows)
	s.DrawRect(px, hudRows+py, pw, ph, playerRune, core.ColorBrightYellow)
	if pw > 0 && ph > 0 {
		s.SetColored(px+pw-1, hudRows+py, noseRune(p.RotationHint), core.ColorOrange)
	}

	drawHUD(s, snap)

	switch snap.Lifecycle {
	case flappy.Idle:
		drawOverlay(s, core.ColorBrightWhite, "FLAPPER", "", "press enter to start")
	case flappy.Ended:
		drawOverlay(s, core.ColorRed,
			"GAME OVER",
			fmt.Sprintf("score %d", snap.Score),
			causeText(snap.Cause),
			"r to restart  q to quit",
		)
	}
}

// span maps the world interval [lo, hi) to a clamped cell range.
func span(lo, hi, scale float64, limit int) (start, length int) {
	a := core.Clamp(int(math.Floor(lo*scale)), 0, limit)
	b := core.Clamp(int(math.Ceil(hi*scale)), 0, limit)
	if b < a {
		return a, 0
	}
	return a, b - a
}

// noseRune picks a glyph for the player's leading edge from the rotation hint in degrees.
func noseRune(rotation float64) rune {
	switch {
	case rotation < -10:
		return '▀'
	case rotation > 30:
		return '▄'
	default:
		return '■'
	}
}

func causeText(c flappy.EndCause) string {
	switch c {
	case flappy.CauseBounds:
		return "flew out of bounds"
	case flappy.CauseCollision:
		return "hit an obstacle"
	default:
		return ""
	}
}

func drawHUD(s *core.Screen, snap flappy.Snapshot) {
	s.DrawHLine(0, 0, s.Width(), ' ', core.ColorGray)
	s.DrawTextColored(1, 0, fmt.Sprintf("SCORE %d", snap.Score), core.ColorBrightWhite)
	state := snap.Lifecycle.String()
	s.DrawTextColored(s.Width()-len(state)-1, 0, state, core.ColorGray)
}

// drawOverlay draws a centered box with one line of text per entry.
func drawOverlay(s *core.Screen, c core.Color, lines ...string) {
	w := 0
	for _, l := range lines {
		w = core.Max(w, len([]rune(l)))
	}
	w += 4
	h := len(lines) + 2

	x0 := (s.Width() - w) / 2
	y0 := (s.Height() - h) / 2
	s.DrawRect(x0, y0, w, h, ' ', core.ColorDefault)
	s.DrawBox(x0, y0, w, h)

	for i, l := range lines {
		col := core.ColorDefault
		if i == 0 {
			col = c
		}
		x := (s.Width() - len([]rune(l))) / 2
		s.DrawTextColored(x, y0+1+i, l, col)
	}
}
