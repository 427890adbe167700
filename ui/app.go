// Package ui is the terminal front end: trigger grid, catalog, status and keyboard intents
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/clipdeck/board"
	"github.com/lixenwraith/clipdeck/core"
	"github.com/lixenwraith/clipdeck/input"
	"github.com/lixenwraith/clipdeck/status"
	"github.com/lixenwraith/clipdeck/trigger"
)

const (
	frameInterval = 100 * time.Millisecond
	highlightFor  = time.Second
)

// Board is the subset of *board.Board the UI drives
type Board interface {
	Snapshot() board.Snapshot
	Subscribe(fn func(board.Snapshot)) (cancel func())
	FireTrigger(key trigger.Key, origin core.Origin) board.Outcome
	Play(snd core.Sound, msg string) error
	TogglePause()
	Stop()
	SetMapping(key trigger.Key, id string) error
	RenameSound(id, name string)
	DeleteSound(id string)
	ImportFile(path string) (core.Sound, error)
}

// Simulator is the simulation flag
type Simulator interface {
	Toggle() bool
	Enabled() bool
}

// Options configure an App; zero values are usable
type Options struct {
	Keys    *input.KeyTable
	Sim     Simulator
	Metrics *status.Registry
	Silent  bool
	Now     func() time.Time
}

type pendingKind uint8

const (
	pendingNone pendingKind = iota
	pendingMap
	pendingClear
	pendingRename
	pendingImport
	pendingDelete
)

// App owns the screen; all fields are touched only from the event loop
type App struct {
	screen  tcell.Screen
	board   Board
	sim     Simulator
	metrics *status.Registry
	machine *input.Machine
	silent  bool
	now     func() time.Time

	snap      board.Snapshot
	fired     int64
	hotUntil  time.Time
	selected  int
	pending   pendingKind
	target    core.Sound // clip the pending action applies to
	buf       []rune
	notice    string
	noticeBad bool
}

// New creates an App over an initialized screen
func New(screen tcell.Screen, b Board, opts Options) *App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	a := &App{
		screen:  screen,
		board:   b,
		sim:     opts.Sim,
		metrics: opts.Metrics,
		machine: input.NewMachine(opts.Keys),
		silent:  opts.Silent,
		now:     now,
	}
	a.apply(b.Snapshot())
	return a
}

// Run drives the event loop until quit or ctx ends
func (a *App) Run(ctx context.Context) error {
	cancel := a.board.Subscribe(func(s board.Snapshot) {
		// PostEvent never blocks; a dropped frame is repaired by the next one
		if err := a.screen.PostEvent(tcell.NewEventInterrupt(s)); err != nil {
			slog.Debug("ui event queue full", "version", s.Version)
		}
	})
	defer cancel()

	eventChan := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go a.screen.ChannelEvents(eventChan, quit)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	a.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-eventChan:
			if !ok {
				return nil
			}
			if !a.HandleEvent(ev) {
				return nil
			}
			a.Draw()
		case <-ticker.C:
			a.Draw()
		}
	}
}

// HandleEvent applies one event; returns false when the user quits
func (a *App) HandleEvent(ev tcell.Event) bool {
	if intr, ok := ev.(*tcell.EventInterrupt); ok {
		if s, ok := intr.Data().(board.Snapshot); ok && s.Version >= a.snap.Version {
			a.apply(s)
		}
		return true
	}

	intent := a.machine.Process(ev)
	if intent == nil {
		return true
	}
	if intent.Type == input.IntentResize {
		a.screen.Sync()
		return true
	}
	if intent.Type == input.IntentQuit {
		return false
	}

	a.notice = ""
	a.handleIntent(intent)
	a.apply(a.board.Snapshot())
	return true
}

func (a *App) handleIntent(in *input.Intent) {
	switch a.pending {
	case pendingRename, pendingImport:
		a.handleText(in)
		return
	case pendingDelete:
		if in.Type == input.IntentConfirmYes {
			a.board.DeleteSound(a.target.ID)
		}
		a.reset()
		return
	}

	switch in.Type {
	case input.IntentEscape:
		a.reset()

	case input.IntentFire:
		a.fire(in.Trigger)

	case input.IntentSelectUp:
		a.move(-1)
	case input.IntentSelectDown:
		a.move(1)

	case input.IntentPreview:
		if snd, ok := a.selection(); ok {
			_ = a.board.Play(snd, "Preview: "+snd.Name)
		}
	case input.IntentTogglePause:
		a.board.TogglePause()
	case input.IntentStop:
		a.board.Stop()

	case input.IntentMapMode:
		if snd, ok := a.requireSelection(); ok {
			a.begin(pendingMap, snd)
		}
	case input.IntentClearMode:
		a.begin(pendingClear, core.Sound{})
	case input.IntentRename:
		if snd, ok := a.requireSelection(); ok {
			a.begin(pendingRename, snd)
			a.buf = []rune(snd.Name)
		}
	case input.IntentDelete:
		if snd, ok := a.requireSelection(); ok {
			a.begin(pendingDelete, snd)
		}
	case input.IntentImport:
		a.begin(pendingImport, core.Sound{})

	case input.IntentToggleSim:
		if a.sim == nil {
			a.say("Simulation unavailable.", true)
			return
		}
		if a.sim.Toggle() {
			a.say("Simulation on.", false)
		} else {
			a.say("Simulation off.", false)
		}
	}
}

func (a *App) fire(key trigger.Key) {
	label := key.Label()
	switch a.pending {
	case pendingMap:
		if err := a.board.SetMapping(key, a.target.ID); err != nil {
			a.say(err.Error(), true)
		} else {
			a.say(fmt.Sprintf("Mapped %s → %s", label, a.target.Name), false)
		}
		a.reset()
	case pendingClear:
		if err := a.board.SetMapping(key, ""); err != nil {
			a.say(err.Error(), true)
		} else {
			a.say("Cleared "+label, false)
		}
		a.reset()
	default:
		a.board.FireTrigger(key, core.OriginUser)
	}
}

func (a *App) handleText(in *input.Intent) {
	switch in.Type {
	case input.IntentEscape:
		a.reset()
	case input.IntentTextChar:
		a.buf = append(a.buf, in.Char)
	case input.IntentTextBack:
		if len(a.buf) > 0 {
			a.buf = a.buf[:len(a.buf)-1]
		}
	case input.IntentTextConfirm:
		text := string(a.buf)
		kind, target := a.pending, a.target
		a.reset()
		if kind == pendingRename {
			a.board.RenameSound(target.ID, text)
			return
		}
		path := expandPath(strings.TrimSpace(text))
		if path == "" {
			return
		}
		if snd, err := a.board.ImportFile(path); err == nil {
			a.selectID(snd.ID)
		}
	}
}

func (a *App) begin(kind pendingKind, target core.Sound) {
	a.pending = kind
	a.target = target
	a.buf = a.buf[:0]
	switch kind {
	case pendingRename, pendingImport:
		a.machine.SetMode(input.ModeText)
	case pendingDelete:
		a.machine.SetMode(input.ModeConfirm)
	default:
		a.machine.SetMode(input.ModeNormal)
	}
}

func (a *App) reset() {
	a.pending = pendingNone
	a.target = core.Sound{}
	a.buf = a.buf[:0]
	a.machine.SetMode(input.ModeNormal)
}

func (a *App) say(msg string, bad bool) {
	a.notice, a.noticeBad = msg, bad
}

// apply adopts a newer snapshot and derives view state from it
func (a *App) apply(s board.Snapshot) {
	prev := a.snap.LastFired
	a.snap = s
	if a.selected >= len(s.Sounds) {
		a.selected = len(s.Sounds) - 1
	}
	if a.selected < 0 {
		a.selected = 0
	}

	// Highlight on every fire, including repeats of the same trigger
	if a.metrics != nil {
		if n := a.metrics.Value(status.TriggerFired); n != a.fired {
			a.fired = n
			a.hotUntil = a.now().Add(highlightFor)
		}
	} else if s.LastFired != "" && s.LastFired != prev {
		a.hotUntil = a.now().Add(highlightFor)
	}

	// Target vanished underneath a pending action
	if a.target.ID != "" {
		if _, ok := s.Sound(a.target.ID); !ok {
			a.reset()
		}
	}
}

func (a *App) move(delta int) {
	n := len(a.snap.Sounds)
	if n == 0 {
		return
	}
	a.selected = (a.selected + delta + n) % n
}

func (a *App) selectID(id string) {
	for i, s := range a.board.Snapshot().Sounds {
		if s.ID == id {
			a.selected = i
			return
		}
	}
}

func (a *App) selection() (core.Sound, bool) {
	if a.selected < 0 || a.selected >= len(a.snap.Sounds) {
		return core.Sound{}, false
	}
	return a.snap.Sounds[a.selected], true
}

func (a *App) requireSelection() (core.Sound, bool) {
	snd, ok := a.selection()
	if !ok {
		a.say("Import a sound first.", true)
	}
	return snd, ok
}

func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
