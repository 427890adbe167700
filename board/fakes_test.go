package board

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/clipdeck/core"
	"github.com/lixenwraith/clipdeck/media"
	"github.com/lixenwraith/clipdeck/status"
	"github.com/lixenwraith/clipdeck/store"
)

// fakeFiles treats every URI in exists as present
type fakeFiles struct {
	mu      sync.Mutex
	exists  map[string]bool
	removed []string
	copyErr error
	copies  int
}

func newFakeFiles(uris ...string) *fakeFiles {
	f := &fakeFiles{exists: make(map[string]bool)}
	for _, u := range uris {
		f.exists[u] = true
	}
	return f
}

func (f *fakeFiles) Copy(src string) (media.FileRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.copyErr != nil {
		return media.FileRef{}, f.copyErr
	}
	f.copies++
	uri := fmt.Sprintf("file:///vault/audio-%d%s", f.copies, filepath.Ext(src))
	f.exists[uri] = true
	return media.FileRef{Name: filepath.Base(src), URI: uri}, nil
}

func (f *fakeFiles) Exists(uri string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists[uri], nil
}

func (f *fakeFiles) Remove(uri string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.exists, uri)
	f.removed = append(f.removed, uri)
	return nil
}

// fakePlayer mirrors the audio.Player contract without an engine
type fakePlayer struct {
	mu         sync.Mutex
	loaded     string
	seq        uint64
	open       int
	maxOpen    int
	paused     bool
	loadErr    error
	playErr    error
	onFinished func(uint64)
}

func (p *fakePlayer) Load(uri string) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
	if p.loadErr != nil {
		return 0, p.loadErr
	}
	p.open++
	if p.open > p.maxOpen {
		p.maxOpen = p.open
	}
	p.seq++
	p.loaded = uri
	return p.seq, nil
}

func (p *fakePlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open == 0 {
		return errors.New("nothing loaded")
	}
	if p.playErr != nil {
		p.releaseLocked()
		return p.playErr
	}
	return nil
}

func (p *fakePlayer) Pause() error  { p.mu.Lock(); p.paused = true; p.mu.Unlock(); return nil }
func (p *fakePlayer) Resume() error { p.mu.Lock(); p.paused = false; p.mu.Unlock(); return nil }

func (p *fakePlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
	return nil
}

func (p *fakePlayer) OnFinished(fn func(uint64)) {
	p.mu.Lock()
	p.onFinished = fn
	p.mu.Unlock()
}

func (p *fakePlayer) releaseLocked() {
	if p.open > 0 {
		p.open--
	}
	p.loaded = ""
}

// finish simulates end-of-stream of the current clip
func (p *fakePlayer) finish() {
	p.mu.Lock()
	seq := p.seq
	p.releaseLocked()
	fn := p.onFinished
	p.mu.Unlock()
	fn(seq)
}

func (p *fakePlayer) current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// flakyRepo fails the first n saves
type flakyRepo struct {
	*store.Documents
	mu    sync.Mutex
	fails int
	saves int
}

func (r *flakyRepo) Save(sounds []core.Sound, mapping core.Mapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.fails > 0 {
		r.fails--
		return errors.New("disk full")
	}
	return r.Documents.Save(sounds, mapping)
}

type harness struct {
	board   *Board
	files   *fakeFiles
	player  *fakePlayer
	kv      *store.MemStore
	metrics *status.Registry
}

func newHarness(t *testing.T, uris ...string) *harness {
	t.Helper()
	h := &harness{
		files:   newFakeFiles(uris...),
		player:  &fakePlayer{},
		kv:      store.NewMemStore(),
		metrics: status.NewRegistry(),
	}
	n := 0
	h.board = New(Config{
		Files:   h.files,
		Player:  h.player,
		Repo:    store.NewDocuments(h.kv),
		Metrics: h.metrics,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
		RetryMin: time.Millisecond,
		RetryMax: 5 * time.Millisecond,
	})
	t.Cleanup(func() { h.board.Close() })
	return h
}
