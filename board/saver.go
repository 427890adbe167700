package board

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lixenwraith/clipdeck/core"
	"github.com/lixenwraith/clipdeck/status"
)

const (
	defaultRetryMin = 100 * time.Millisecond
	defaultRetryMax = 5 * time.Second
)

type documents struct {
	sounds  []core.Sound
	mapping core.Mapping
}

// saver is the single writer of the persisted documents
// Scheduling never blocks; only the latest documents are written
type saver struct {
	repo     Repository
	metrics  *status.Registry
	retryMin time.Duration
	retryMax time.Duration
	changed  func()

	mu       sync.Mutex
	pending  *documents
	gen      uint64 // last scheduled
	savedGen uint64 // last written
	settled  chan struct{}

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newSaver(repo Repository, metrics *status.Registry, retryMin, retryMax time.Duration, changed func()) *saver {
	if retryMin <= 0 {
		retryMin = defaultRetryMin
	}
	if retryMax < retryMin {
		retryMax = defaultRetryMax
		if retryMax < retryMin {
			retryMax = retryMin
		}
	}
	s := &saver{
		repo:     repo,
		metrics:  metrics,
		retryMin: retryMin,
		retryMax: retryMax,
		changed:  changed,
		settled:  make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *saver) schedule(sounds []core.Sound, mapping core.Mapping) {
	s.mu.Lock()
	s.pending = &documents{sounds: sounds, mapping: mapping}
	s.gen++
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *saver) unsaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedGen < s.gen
}

func (s *saver) run() {
	defer close(s.done)
	delay := s.retryMin
	for {
		select {
		case <-s.stop:
			return
		case <-s.wake:
		}

		for {
			ok, more := s.attempt()
			if ok {
				delay = s.retryMin
				if !more {
					break
				}
				continue
			}

			timer := time.NewTimer(delay)
			select {
			case <-s.stop:
				timer.Stop()
				return
			case <-s.wake:
				timer.Stop()
			case <-timer.C:
			}
			delay *= 2
			if delay > s.retryMax {
				delay = s.retryMax
			}
		}
	}
}

// attempt writes the pending documents once
// Returns whether the write succeeded and whether newer documents are waiting
func (s *saver) attempt() (ok, more bool) {
	s.mu.Lock()
	docs, gen := s.pending, s.gen
	s.mu.Unlock()
	if docs == nil {
		return true, false
	}

	err := s.repo.Save(docs.sounds, docs.mapping)

	s.mu.Lock()
	wasUnsaved := s.savedGen < s.gen
	if err == nil {
		s.savedGen = gen
		if s.pending == docs {
			s.pending = nil
		}
	}
	more = s.gen > gen
	nowUnsaved := s.savedGen < s.gen
	close(s.settled)
	s.settled = make(chan struct{})
	s.mu.Unlock()

	if err != nil {
		s.metrics.Inc(status.PersistFailed)
		slog.Error("persist documents failed, will retry", "error", err)
	} else {
		s.metrics.Inc(status.PersistSaved)
	}
	if wasUnsaved != nowUnsaved && s.changed != nil {
		s.changed()
	}
	return err == nil, more
}

// flush waits until everything scheduled so far is written
func (s *saver) flush(ctx context.Context) error {
	s.mu.Lock()
	target := s.gen
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if s.savedGen >= target {
			s.mu.Unlock()
			return nil
		}
		ch := s.settled
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		case <-s.done:
			s.mu.Lock()
			saved := s.savedGen >= target
			s.mu.Unlock()
			if saved {
				return nil
			}
			return ErrClosed
		}
	}
}

// close stops the loop and makes one final synchronous attempt
func (s *saver) close() error {
	var err error
	s.once.Do(func() {
		close(s.stop)
		<-s.done

		s.mu.Lock()
		docs, gen := s.pending, s.gen
		dirty := s.savedGen < s.gen
		s.mu.Unlock()
		if !dirty || docs == nil {
			return
		}
		if err = s.repo.Save(docs.sounds, docs.mapping); err == nil {
			s.mu.Lock()
			s.savedGen = gen
			s.mu.Unlock()
		}
	})
	return err
}
