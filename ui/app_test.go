package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/clipdeck/board"
	"github.com/lixenwraith/clipdeck/core"
	"github.com/lixenwraith/clipdeck/media"
	"github.com/lixenwraith/clipdeck/status"
	"github.com/lixenwraith/clipdeck/store"
	"github.com/lixenwraith/clipdeck/trigger"
)

// stubFiles accepts any path and URI
type stubFiles struct{ n int }

func (f *stubFiles) Copy(src string) (media.FileRef, error) {
	f.n++
	return media.FileRef{Name: src, URI: fmt.Sprintf("file:///vault/audio-%d.wav", f.n)}, nil
}
func (f *stubFiles) Exists(string) (bool, error) { return true, nil }
func (f *stubFiles) Remove(string) error         { return nil }

// stubPlayer always succeeds
type stubPlayer struct{ seq uint64 }

func (p *stubPlayer) Load(string) (uint64, error) { p.seq++; return p.seq, nil }
func (p *stubPlayer) Play() error                 { return nil }
func (p *stubPlayer) Pause() error                { return nil }
func (p *stubPlayer) Resume() error               { return nil }
func (p *stubPlayer) Stop() error                 { return nil }
func (p *stubPlayer) OnFinished(func(uint64))     {}

type stubSim struct{ on bool }

func (s *stubSim) Toggle() bool  { s.on = !s.on; return s.on }
func (s *stubSim) Enabled() bool { return s.on }

type fixture struct {
	app     *App
	board   *board.Board
	screen  tcell.SimulationScreen
	sim     *stubSim
	metrics *status.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(100, 24)
	t.Cleanup(screen.Fini)

	metrics := status.NewRegistry()
	b := board.New(board.Config{
		Files:   &stubFiles{},
		Player:  &stubPlayer{},
		Repo:    store.NewDocuments(store.NewMemStore()),
		Metrics: metrics,
	})
	t.Cleanup(func() { b.Close() })

	sim := &stubSim{}
	now := time.Unix(1700000000, 0)
	app := New(screen, b, Options{Sim: sim, Metrics: metrics, Now: func() time.Time { return now }})
	return &fixture{app: app, board: b, screen: screen, sim: sim, metrics: metrics}
}

func (f *fixture) key(r rune) bool {
	return f.app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
}

func (f *fixture) special(k tcell.Key) bool {
	return f.app.HandleEvent(tcell.NewEventKey(k, 0, tcell.ModNone))
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.key(r)
	}
}

// screenText returns the rendered rows
func (f *fixture) screenText() []string {
	f.app.Draw()
	cells, w, h := f.screen.GetContents()
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) == 0 {
				sb.WriteRune(' ')
				continue
			}
			sb.WriteRune(c.Runes[0])
		}
		rows[y] = sb.String()
	}
	return rows
}

func (f *fixture) screenContains(t *testing.T, want string) {
	t.Helper()
	assert.Contains(t, strings.Join(f.screenText(), "\n"), want)
}

func (f *fixture) importSound(t *testing.T, path string) core.Sound {
	t.Helper()
	snd, err := f.board.ImportFile(path)
	require.NoError(t, err)
	f.app.apply(f.board.Snapshot())
	return snd
}

func TestEmptyBoard(t *testing.T) {
	f := newFixture(t)
	f.screenContains(t, "No sounds yet")
	f.screenContains(t, "Button 1")
	f.screenContains(t, "[1] —")
}

func TestFireUnmappedShowsStatus(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.key('1'))
	f.screenContains(t, board.StatusNoMapping)
	assert.Equal(t, trigger.Key("b1-short"), f.board.Snapshot().LastFired)
	assert.Equal(t, int64(1), f.metrics.Value(status.TriggerFired))
}

func TestMapThenFire(t *testing.T) {
	f := newFixture(t)
	snd := f.importSound(t, "/music/clap.wav")

	f.key('m')
	f.screenContains(t, `Map "clap"`)
	f.key('w') // b2-long
	assert.Equal(t, core.Mapping{"b2-long": snd.ID}, f.board.Snapshot().Mapping)
	f.screenContains(t, "Mapped Button 2 · Long press → clap")
	f.screenContains(t, "[w] clap")

	f.key('w')
	snap := f.board.Snapshot()
	assert.Equal(t, "Playing: clap", snap.Status)
	require.NotNil(t, snap.Playback)
	assert.Equal(t, snd.ID, snap.Playback.SoundID)
	f.screenContains(t, "▶ clap")
}

func TestMapRequiresSelection(t *testing.T) {
	f := newFixture(t)
	f.key('m')
	f.screenContains(t, "Import a sound first.")
	assert.Equal(t, pendingNone, f.app.pending)
}

func TestClearMapping(t *testing.T) {
	f := newFixture(t)
	snd := f.importSound(t, "/music/kick.wav")
	require.NoError(t, f.board.SetMapping("b3-double", snd.ID))

	f.key('c')
	f.key('d')
	assert.Empty(t, f.board.Snapshot().Mapping)
}

func TestEscapeCancelsMap(t *testing.T) {
	f := newFixture(t)
	f.importSound(t, "/music/kick.wav")

	f.key('m')
	f.special(tcell.KeyEscape)
	f.key('1')
	assert.Empty(t, f.board.Snapshot().Mapping)
	assert.Equal(t, board.StatusNoMapping, f.board.Snapshot().Status)
}

func TestRenameFlow(t *testing.T) {
	f := newFixture(t)
	snd := f.importSound(t, "/music/snare.wav")

	f.key('r')
	f.screenContains(t, "Rename: snare_")
	for range len("snare") {
		f.special(tcell.KeyBackspace2)
	}
	f.typeText("Snare 2")
	f.special(tcell.KeyEnter)

	got, ok := f.board.Snapshot().Sound(snd.ID)
	require.True(t, ok)
	assert.Equal(t, "Snare 2", got.Name)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	f.importSound(t, "/music/a.wav")

	f.key('D')
	f.screenContains(t, `Delete "a"? (y/n)`)
	f.key('n')
	assert.Len(t, f.board.Snapshot().Sounds, 1)

	f.key('D')
	f.key('y')
	assert.Empty(t, f.board.Snapshot().Sounds)
	f.screenContains(t, "Deleted: a")
}

func TestImportFlow(t *testing.T) {
	f := newFixture(t)
	f.key('i')
	f.typeText("/tmp/horn.mp3")
	f.special(tcell.KeyEnter)

	sounds := f.board.Snapshot().Sounds
	require.Len(t, sounds, 1)
	assert.Equal(t, "horn", sounds[0].Name)
	f.screenContains(t, "Imported: horn")
}

func TestSelectionAndPreview(t *testing.T) {
	f := newFixture(t)
	f.importSound(t, "/a.wav")
	b := f.importSound(t, "/b.wav")

	f.special(tcell.KeyDown)
	f.special(tcell.KeyEnter)
	snap := f.board.Snapshot()
	assert.Equal(t, "Preview: b", snap.Status)
	assert.Equal(t, b.ID, snap.Playback.SoundID)

	f.key(' ')
	assert.Equal(t, core.StatusPaused, f.board.Snapshot().Playback.Status)
	f.screenContains(t, "‖ b")

	f.key('x')
	assert.Nil(t, f.board.Snapshot().Playback)
}

func TestToggleSimIndicator(t *testing.T) {
	f := newFixture(t)
	f.key('S')
	assert.True(t, f.sim.on)
	f.screenContains(t, "[SIM]")
	f.key('S')
	assert.False(t, f.sim.on)
}

func TestSnapshotInterrupt(t *testing.T) {
	f := newFixture(t)
	f.board.FireTrigger("b2-short", core.OriginSimulated)

	assert.True(t, f.app.HandleEvent(tcell.NewEventInterrupt(f.board.Snapshot())))
	f.screenContains(t, board.StatusNoMapping)
	assert.True(t, f.app.now().Before(f.app.hotUntil), "fire highlights the cell")
}

func TestQuit(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.app.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)))
}

func TestTooSmall(t *testing.T) {
	f := newFixture(t)
	f.screen.SetSize(20, 5)
	f.screenContains(t, "Terminal too small")
}
