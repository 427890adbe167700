package audio

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/clipdeck/core"
)

const (
	sampleRate       = beep.SampleRate(48000)
	speakerBufferDur = 100 * time.Millisecond
	resampleQuality  = 4
)

// SpeakerEngine plays through the system output via beep's speaker
type SpeakerEngine struct {
	volume float64

	mu          sync.Mutex
	initialized bool
}

// NewSpeakerEngine creates an engine; volume is linear 0..1
func NewSpeakerEngine(volume float64) *SpeakerEngine {
	return &SpeakerEngine{volume: clampVolume(volume)}
}

// Initialize opens the output device; safe to call twice
func (e *SpeakerEngine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(speakerBufferDur)); err != nil {
		return err
	}
	e.initialized = true
	return nil
}

// Cleanup drops every queued streamer
func (e *SpeakerEngine) Cleanup() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return
	}
	speaker.Clear()
	e.initialized = false
}

// Open implements Engine
func (e *SpeakerEngine) Open(uri string) (Handle, error) {
	e.mu.Lock()
	ready := e.initialized
	e.mu.Unlock()
	if !ready {
		return nil, ErrNoDevice
	}

	stream, format, err := decodeFile(uri)
	if err != nil {
		return nil, err
	}

	var s beep.Streamer = stream
	if format.SampleRate != sampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, sampleRate, s)
	}
	s = volumeStreamer(s, e.volume)

	return &speakerHandle{
		stream: stream,
		ctrl:   &beep.Ctrl{Streamer: s},
	}, nil
}

// speakerHandle is one clip queued on the speaker mixer
type speakerHandle struct {
	stream beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	closed atomic.Bool
}

func (h *speakerHandle) Start(onEnd func()) error {
	if h.closed.Load() {
		return ErrHandleClosed
	}
	// Callback runs under the speaker lock; onEnd must not block it
	speaker.Play(beep.Seq(h.ctrl, beep.Callback(func() {
		if !h.closed.Load() {
			core.Go(onEnd)
		}
	})))
	return nil
}

func (h *speakerHandle) Pause() error {
	return h.setPaused(true)
}

func (h *speakerHandle) Resume() error {
	return h.setPaused(false)
}

func (h *speakerHandle) setPaused(paused bool) error {
	if h.closed.Load() {
		return ErrHandleClosed
	}
	speaker.Lock()
	h.ctrl.Paused = paused
	speaker.Unlock()
	return nil
}

func (h *speakerHandle) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	// Detaching the streamer drains the Seq to its callback, which sees closed
	speaker.Lock()
	h.ctrl.Streamer = nil
	speaker.Unlock()
	return h.stream.Close()
}

func volumeStreamer(s beep.Streamer, volume float64) beep.Streamer {
	if volume >= 1 {
		return s
	}
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(math.Max(volume, 1e-6)),
		Silent:   volume <= 0,
	}
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
