package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lixenwraith/clipdeck/audio"
	"github.com/lixenwraith/clipdeck/board"
	"github.com/lixenwraith/clipdeck/config"
	"github.com/lixenwraith/clipdeck/core"
	"github.com/lixenwraith/clipdeck/media"
	"github.com/lixenwraith/clipdeck/service"
	"github.com/lixenwraith/clipdeck/sim"
	"github.com/lixenwraith/clipdeck/status"
	"github.com/lixenwraith/clipdeck/store"
	"github.com/lixenwraith/clipdeck/trigger"
)

const flushTimeout = 5 * time.Second

// stack is the running service set
type stack struct {
	hub     *service.Hub
	metrics *status.Registry
	vault   *media.Vault
	store   *store.Service
	audio   *audio.Service
	board   *board.Service
	sim     *sim.Service
}

// openStack registers and initializes every service
// withAudio=false skips the output device; playback then completes on a timer
func openStack(cfg *config.Config, withAudio bool) (*stack, error) {
	vault, err := media.NewVault(cfg.MediaDir())
	if err != nil {
		return nil, fmt.Errorf("open media dir: %w", err)
	}

	st := &stack{
		hub:     service.NewHub(),
		metrics: status.NewRegistry(),
		vault:   vault,
		store:   store.NewService(cfg.Backend, cfg.DataDir),
		audio:   audio.NewService(cfg.Volume, cfg.Headless || !withAudio),
	}
	st.board = board.NewService(board.Sources{
		Files: func() board.Files { return vault },
		Player: func() board.Player {
			// Avoid a typed nil inside the interface
			if p := st.audio.Player(); p != nil {
				return p
			}
			return nil
		},
		Repo: func() board.Repository {
			if d := st.store.Documents(); d != nil {
				return d
			}
			return nil
		},
		Metrics: st.metrics,
	})
	st.sim = sim.NewService(cfg.SimInterval, func() func(trigger.Key) {
		b := st.board.Board()
		if b == nil {
			return nil
		}
		return func(k trigger.Key) { b.FireTrigger(k, core.OriginSimulated) }
	})

	for _, svc := range []service.Service{st.store, st.audio, st.board, st.sim} {
		if err := st.hub.Register(svc); err != nil {
			return nil, err
		}
	}
	if err := st.hub.InitAll(cfg); err != nil {
		return nil, err
	}
	if err := st.hub.StartAll(); err != nil {
		return nil, err
	}
	return st, nil
}

// Board is valid between openStack and close
func (s *stack) Board() *board.Board {
	return s.board.Board()
}

// close flushes pending documents and stops every service
func (s *stack) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	flushErr := s.hub.FlushAll(ctx)
	stopErr := s.hub.StopAll()
	if flushErr != nil {
		return fmt.Errorf("save documents: %w", flushErr)
	}
	return stopErr
}
