package board

import (
	"context"
	"errors"

	"github.com/lixenwraith/clipdeck/status"
)

// Sources resolves collaborators once their services have initialized
type Sources struct {
	Files   func() Files
	Player  func() Player
	Repo    func() Repository
	Metrics *status.Registry
}

// Service owns the Board lifecycle; depends on the store and audio services
type Service struct {
	src   Sources
	board *Board
}

// NewService creates a board service
func NewService(src Sources) *Service {
	return &Service{src: src}
}

// Name implements service.Service
func (s *Service) Name() string { return "board" }

// Dependencies implements service.Service
func (s *Service) Dependencies() []string { return []string{"store", "audio"} }

// Init implements service.Service; loads the persisted documents
func (s *Service) Init(...any) error {
	if s.board != nil {
		return nil
	}
	files, player, repo := s.src.Files(), s.src.Player(), s.src.Repo()
	if files == nil || player == nil || repo == nil {
		return errors.New("board collaborators not initialized")
	}
	s.board = New(Config{
		Files:   files,
		Player:  player,
		Repo:    repo,
		Metrics: s.src.Metrics,
	})
	return nil
}

// Start implements service.Service
func (s *Service) Start() error { return nil }

// Stop implements service.Service; writes outstanding documents
func (s *Service) Stop() error {
	if s.board == nil {
		return nil
	}
	return s.board.Close()
}

// Flush implements service.Flusher
func (s *Service) Flush(ctx context.Context) error {
	if s.board == nil {
		return nil
	}
	return s.board.Flush(ctx)
}

// Board returns the state machine; nil before Init
func (s *Service) Board() *Board {
	return s.board
}
