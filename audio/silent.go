package audio

import (
	"sync"
	"time"
)

// SilentEngine decodes clips and times their playback without an output device
// Used when no device is available and by headless commands
type SilentEngine struct{}

// Open implements Engine
func (SilentEngine) Open(uri string) (Handle, error) {
	stream, format, err := decodeFile(uri)
	if err != nil {
		return nil, err
	}
	length := format.SampleRate.D(stream.Len())
	if err := stream.Close(); err != nil {
		return nil, err
	}
	return newTimedHandle(length), nil
}

// timedHandle completes after its duration, honoring pause and resume
type timedHandle struct {
	mu        sync.Mutex
	remaining time.Duration
	startedAt time.Time
	timer     *time.Timer
	onEnd     func()
	fired     bool
	closed    bool
}

func newTimedHandle(d time.Duration) *timedHandle {
	return &timedHandle{remaining: d}
}

func (h *timedHandle) Start(onEnd func()) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHandleClosed
	}
	h.onEnd = onEnd
	h.arm()
	return nil
}

// arm schedules the end; caller holds h.mu
func (h *timedHandle) arm() {
	h.startedAt = time.Now()
	h.timer = time.AfterFunc(h.remaining, func() {
		h.mu.Lock()
		h.fired = true
		closed := h.closed
		fn := h.onEnd
		h.mu.Unlock()
		if !closed && fn != nil {
			fn()
		}
	})
}

func (h *timedHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHandleClosed
	}
	if h.timer == nil {
		return nil
	}
	if h.timer.Stop() {
		h.remaining -= time.Since(h.startedAt)
		if h.remaining < 0 {
			h.remaining = 0
		}
	}
	h.timer = nil
	return nil
}

func (h *timedHandle) Resume() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHandleClosed
	}
	if h.timer != nil || h.onEnd == nil || h.fired {
		return nil
	}
	h.arm()
	return nil
}

func (h *timedHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	if h.timer != nil {
		h.timer.Stop()
	}
	return nil
}
