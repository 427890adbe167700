package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHeader  = tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
	styleHot     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleSelect  = tcell.StyleDefault.Reverse(true)
	styleWarn    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleOK      = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	stylePrompt  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// drawText writes s at (x, y) clipped to w columns and returns the columns used
func drawText(s tcell.Screen, x, y, w int, style tcell.Style, text string) int {
	if w <= 0 {
		return 0
	}
	if runewidth.StringWidth(text) > w {
		text = runewidth.Truncate(text, w, "…")
	}
	col := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > w {
			break
		}
		s.SetContent(x+col, y, r, nil, style)
		col += rw
	}
	return col
}

// drawRight right-aligns text so that it ends at column right
func drawRight(s tcell.Screen, right, y int, style tcell.Style, text string) int {
	w := runewidth.StringWidth(text)
	return drawText(s, right-w, y, w, style, text)
}

// fill paints w blank cells
func fill(s tcell.Screen, x, y, w int, style tcell.Style) {
	for i := 0; i < w; i++ {
		s.SetContent(x+i, y, ' ', nil, style)
	}
}

// pad truncates or right-pads text to exactly w columns
func pad(text string, w int) string {
	if runewidth.StringWidth(text) > w {
		return runewidth.Truncate(text, w, "…")
	}
	return runewidth.FillRight(text, w)
}
