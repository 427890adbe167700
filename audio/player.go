package audio

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// slot is one loaded clip
type slot struct {
	handle  Handle
	uri     string
	seq     uint64
	started bool
	ended   sync.Once
}

// Player wraps exactly one Handle at a time
// Load replaces the current handle under the lock, releasing the old one before opening the new
type Player struct {
	engine Engine

	mu         sync.Mutex
	cur        *slot
	seq        uint64
	onFinished func(seq uint64)

	open atomic.Int32
}

// NewPlayer creates an empty player over engine
func NewPlayer(engine Engine) *Player {
	return &Player{engine: engine}
}

// OnFinished registers the natural end-of-stream callback
// fn receives the load sequence number returned by Load
func (p *Player) OnFinished(fn func(seq uint64)) {
	p.mu.Lock()
	p.onFinished = fn
	p.mu.Unlock()
}

// Load releases any current handle and opens uri, returning its sequence number
// On failure nothing is loaded
func (p *Player) Load(uri string) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.replace(uri)
}

// replace is the release-before-acquire step; caller holds p.mu
func (p *Player) replace(uri string) (uint64, error) {
	p.releaseLocked()

	h, err := p.engine.Open(uri)
	if err != nil {
		return 0, &PlaybackError{Op: "load", URI: uri, Err: err}
	}
	p.open.Add(1)
	p.seq++
	p.cur = &slot{handle: h, uri: uri, seq: p.seq}
	return p.seq, nil
}

// Play starts the loaded handle, or resumes it if already started
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.cur
	if s == nil {
		return &PlaybackError{Op: "play", Err: ErrNothingLoaded}
	}
	if s.started {
		if err := s.handle.Resume(); err != nil {
			return &PlaybackError{Op: "play", URI: s.uri, Err: err}
		}
		return nil
	}
	if err := s.handle.Start(func() { p.finished(s) }); err != nil {
		p.releaseLocked()
		return &PlaybackError{Op: "play", URI: s.uri, Err: err}
	}
	s.started = true
	return nil
}

// Pause is a no-op with nothing loaded
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur == nil || !p.cur.started {
		return nil
	}
	if err := p.cur.handle.Pause(); err != nil {
		return &PlaybackError{Op: "pause", URI: p.cur.uri, Err: err}
	}
	return nil
}

// Resume is a no-op with nothing loaded
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur == nil || !p.cur.started {
		return nil
	}
	if err := p.cur.handle.Resume(); err != nil {
		return &PlaybackError{Op: "resume", URI: p.cur.uri, Err: err}
	}
	return nil
}

// Stop releases the current handle; idempotent
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.releaseLocked()
}

// current returns the loaded uri and its sequence number
func (p *Player) current() (uri string, seq uint64, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur == nil {
		return "", 0, false
	}
	return p.cur.uri, p.cur.seq, true
}

// openHandles returns how many engine handles are open; never more than one
func (p *Player) openHandles() int {
	return int(p.open.Load())
}

func (p *Player) releaseLocked() error {
	s := p.cur
	if s == nil {
		return nil
	}
	p.cur = nil
	p.open.Add(-1)
	if err := s.handle.Close(); err != nil {
		slog.Warn("audio handle close failed", "uri", s.uri, "error", err)
		return &PlaybackError{Op: "stop", URI: s.uri, Err: err}
	}
	return nil
}

// finished runs on the engine goroutine at end-of-stream
func (p *Player) finished(s *slot) {
	s.ended.Do(func() {
		p.mu.Lock()
		if p.cur != s {
			p.mu.Unlock()
			return
		}
		p.releaseLocked()
		fn := p.onFinished
		p.mu.Unlock()

		slog.Debug("playback finished", "uri", s.uri, "seq", s.seq)
		if fn != nil {
			fn(s.seq)
		}
	})
}
