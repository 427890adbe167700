package audio

import (
	"log/slog"
	"sync/atomic"
)

// Service wraps the Player as a lifecycle service
// Falls back to SilentEngine when no output device is available
type Service struct {
	volume   float64
	headless bool

	speaker *SpeakerEngine
	player  *Player
	silent  atomic.Bool
}

// NewService creates an audio service; headless skips the output device entirely
func NewService(volume float64, headless bool) *Service {
	return &Service{volume: volume, headless: headless}
}

// Name implements service.Service
func (s *Service) Name() string { return "audio" }

// Dependencies implements service.Service
func (s *Service) Dependencies() []string { return nil }

// Init implements service.Service
// Device failure is not an error: the player is built on SilentEngine instead
func (s *Service) Init(...any) error {
	if s.player != nil {
		return nil
	}
	if s.headless {
		s.silent.Store(true)
		s.player = NewPlayer(SilentEngine{})
		return nil
	}

	eng := NewSpeakerEngine(s.volume)
	if err := eng.Initialize(); err != nil {
		slog.Warn("audio device unavailable, continuing silent", "error", err)
		s.silent.Store(true)
		s.player = NewPlayer(SilentEngine{})
		return nil
	}
	s.speaker = eng
	s.player = NewPlayer(eng)
	return nil
}

// Start implements service.Service
func (s *Service) Start() error { return nil }

// Stop implements service.Service; releases the handle and the device
func (s *Service) Stop() error {
	if s.player != nil {
		if err := s.player.Stop(); err != nil {
			slog.Warn("release playback on stop failed", "error", err)
		}
	}
	if s.speaker != nil {
		s.speaker.Cleanup()
	}
	return nil
}

// Player returns the single-slot player; nil before Init
func (s *Service) Player() *Player {
	return s.player
}

// IsSilent reports whether output is simulated
func (s *Service) IsSilent() bool {
	return s.silent.Load()
}
