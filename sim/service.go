package sim

import (
	"errors"
	"time"

	"github.com/lixenwraith/clipdeck/trigger"
)

// Service owns the Driver lifecycle; depends on the board service
type Service struct {
	interval time.Duration
	target   func() func(trigger.Key)
	driver   *Driver
}

// NewService creates a simulation service; target resolves the fire func after the board is up
func NewService(interval time.Duration, target func() func(trigger.Key)) *Service {
	return &Service{interval: interval, target: target}
}

// Name implements service.Service
func (s *Service) Name() string { return "sim" }

// Dependencies implements service.Service
func (s *Service) Dependencies() []string { return []string{"board"} }

// Init implements service.Service
func (s *Service) Init(...any) error {
	if s.driver != nil {
		return nil
	}
	fire := s.target()
	if fire == nil {
		return errors.New("simulation target not initialized")
	}
	s.driver = NewDriver(s.interval, nil, fire)
	return nil
}

// Start implements service.Service; the driver starts disabled
func (s *Service) Start() error { return nil }

// Stop implements service.Service; cancels any pending tick
func (s *Service) Stop() error {
	if s.driver != nil {
		s.driver.Stop()
	}
	return nil
}

// Driver returns the driver; nil before Init
func (s *Service) Driver() *Driver {
	return s.driver
}
