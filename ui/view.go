package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/clipdeck/core"
	"github.com/lixenwraith/clipdeck/input"
	"github.com/lixenwraith/clipdeck/status"
	"github.com/lixenwraith/clipdeck/trigger"
)

// Layout
const (
	labelCol  = 10 // "Button 1" column width
	minCellW  = 12
	gridTop   = 2
	minHeight = 12
	minWidth  = 40
)

// Draw renders the full frame
func (a *App) Draw() {
	s := a.screen
	s.Clear()
	w, h := s.Size()
	if w < minWidth || h < minHeight {
		drawText(s, 0, 0, w, styleWarn, "Terminal too small")
		s.Show()
		return
	}

	a.drawHeader(w)
	y := a.drawGrid(w)
	a.drawCatalog(y+1, w, h-4)
	a.drawStatus(w, h)
	s.Show()
}

func (a *App) drawHeader(w int) {
	drawText(a.screen, 0, 0, w, styleTitle, "clipdeck")

	right := w
	if a.snap.Unsaved {
		right -= drawRight(a.screen, right, 0, styleWarn, "[UNSAVED]") + 1
	}
	if a.silent {
		right -= drawRight(a.screen, right, 0, styleDim, "[SILENT]") + 1
	}
	if a.sim != nil && a.sim.Enabled() {
		drawRight(a.screen, right, 0, styleOK, "[SIM]")
	}
}

// drawGrid renders buttons as rows and gestures as columns; returns the next free row
func (a *App) drawGrid(w int) int {
	cellW := (w - labelCol) / len(trigger.Gestures)
	if cellW < minCellW {
		cellW = minCellW
	}

	for i, g := range trigger.Gestures {
		drawText(a.screen, labelCol+i*cellW, gridTop, cellW, styleHeader, pad(gestureTitle(g), cellW))
	}

	hot := a.now().Before(a.hotUntil)
	for row, btn := range trigger.Buttons {
		y := gridTop + 1 + row
		drawText(a.screen, 0, y, labelCol, styleHeader, fmt.Sprintf("Button %d", row+1))
		for col, g := range trigger.Gestures {
			key := trigger.Trigger{Button: btn, Gesture: g}.Key()
			text, style := a.cellText(key)
			if hot && key == a.snap.LastFired {
				style = styleHot
			}
			drawText(a.screen, labelCol+col*cellW, y, cellW-1, style, pad(text, cellW-1))
		}
	}
	return gridTop + 1 + len(trigger.Buttons)
}

func (a *App) cellText(key trigger.Key) (string, tcell.Style) {
	hint := ""
	if r, ok := a.machine.KeyTable().RuneFor(input.KeyEntry{Intent: input.IntentFire, Trigger: key}); ok {
		hint = fmt.Sprintf("[%c] ", r)
	}
	id, mapped := a.snap.Mapping[key]
	if !mapped {
		return hint + "—", styleDim
	}
	snd, ok := a.snap.Sound(id)
	if !ok {
		return hint + "missing", styleWarn
	}
	return hint + snd.Name, styleDefault
}

func (a *App) drawCatalog(y, w, bottom int) {
	drawText(a.screen, 0, y, w, styleHeader, fmt.Sprintf("Sounds (%d)", len(a.snap.Sounds)))
	y++
	if len(a.snap.Sounds) == 0 {
		drawText(a.screen, 2, y, w-2, styleDim, "No sounds yet. Press i to import a file.")
		return
	}

	rows := bottom - y
	if rows < 1 {
		return
	}
	// Keep the selection visible
	first := 0
	if a.selected >= rows {
		first = a.selected - rows + 1
	}

	for i := first; i < len(a.snap.Sounds) && y < bottom; i++ {
		snd := a.snap.Sounds[i]
		style := styleDefault
		if i == a.selected {
			style = styleSelect
			fill(a.screen, 0, y, w, style)
		}
		mark := "  "
		if pb := a.snap.Playback; pb != nil && pb.SoundID == snd.ID {
			mark = "▶ "
			if pb.Status == core.StatusPaused {
				mark = "‖ "
			}
		}
		name := snd.Name
		if name == "" {
			name = "(unnamed)"
		}
		drawText(a.screen, 0, y, w, style, mark+name)
		y++
	}
}

func (a *App) drawStatus(w, h int) {
	// Status line from the board
	drawText(a.screen, 0, h-3, w, styleDefault, a.snap.Status)

	// Prompt or notice
	prompt, style := a.prompt()
	drawText(a.screen, 0, h-2, w, style, prompt)

	// Counters and help
	footer := fmt.Sprintf("fired %d  unmapped %d  missing %d  failed %d",
		a.metrics.Value(status.TriggerFired),
		a.metrics.Value(status.TriggerUnmapped),
		a.metrics.Value(status.TriggerMissing),
		a.metrics.Value(status.PlaybackFailed),
	)
	used := drawText(a.screen, 0, h-1, w, styleDim, footer)
	if room := w - used - 2; room > 10 {
		drawRight(a.screen, w, h-1, styleDim, pad("m map  c clear  r rename  D delete  i import  S sim", room))
	}
}

func (a *App) prompt() (string, tcell.Style) {
	switch a.pending {
	case pendingMap:
		return fmt.Sprintf("Map %q: press a trigger key (Esc cancels)", a.target.Name), stylePrompt
	case pendingClear:
		return "Clear: press a trigger key (Esc cancels)", stylePrompt
	case pendingRename:
		return "Rename: " + string(a.buf) + "_", stylePrompt
	case pendingImport:
		return "Import file: " + string(a.buf) + "_", stylePrompt
	case pendingDelete:
		return fmt.Sprintf("Delete %q? (y/n)", a.target.Name), styleWarn
	}
	if a.noticeBad {
		return a.notice, styleWarn
	}
	return a.notice, styleOK
}

func gestureTitle(g trigger.Gesture) string {
	switch g {
	case trigger.Short:
		return "Short"
	case trigger.Long:
		return "Long"
	case trigger.Double:
		return "Double"
	}
	return string(g)
}
