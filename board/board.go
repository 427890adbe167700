// Package board is the trigger/mapping/playback state machine
//
// A Board owns the catalog, the mapping table and the playback pointer. Every mutation of
// catalog or mapping schedules a full rewrite of both persisted documents; every state change
// is published to subscribers as a Snapshot.
package board

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/clipdeck/core"
	"github.com/lixenwraith/clipdeck/media"
	"github.com/lixenwraith/clipdeck/status"
	"github.com/lixenwraith/clipdeck/trigger"
)

// Files is the clip storage collaborator
type Files interface {
	Copy(src string) (media.FileRef, error)
	Exists(uri string) (bool, error)
	Remove(uri string) error
}

// Player is the single-slot audio collaborator
type Player interface {
	Load(uri string) (uint64, error)
	Play() error
	Pause() error
	Resume() error
	Stop() error
	OnFinished(fn func(seq uint64))
}

// Repository loads and saves the persisted documents
type Repository interface {
	LoadSounds() []core.Sound
	LoadMappings() core.Mapping
	Save(sounds []core.Sound, mapping core.Mapping) error
}

// Config wires a Board to its collaborators
type Config struct {
	Files   Files
	Player  Player
	Repo    Repository
	Metrics *status.Registry

	// NewID defaults to random UUIDs
	NewID func() string
	// RetryMin and RetryMax bound the persistence retry backoff
	RetryMin time.Duration
	RetryMax time.Duration
}

// Snapshot is an immutable copy of board state
type Snapshot struct {
	Sounds    []core.Sound
	Mapping   core.Mapping
	Playback  *core.Playback
	LastFired trigger.Key
	Status    string
	Unsaved   bool
	Version   uint64
}

// Sound returns the catalog entry with id
func (s Snapshot) Sound(id string) (core.Sound, bool) {
	for _, snd := range s.Sounds {
		if snd.ID == id {
			return snd, true
		}
	}
	return core.Sound{}, false
}

// Board is safe for concurrent use; subscribers are called outside the lock
type Board struct {
	files   Files
	player  Player
	metrics *status.Registry
	newID   func() string
	saver   *saver

	mu        sync.Mutex
	sounds    []core.Sound
	mapping   core.Mapping
	playback  *core.Playback
	playSeq   uint64
	lastFired trigger.Key
	status    string
	version   uint64
	closed    bool

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

// New loads persisted state and starts the persistence saver
func New(cfg Config) *Board {
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	b := &Board{
		files:   cfg.Files,
		player:  cfg.Player,
		metrics: cfg.Metrics,
		newID:   newID,
		sounds:  cfg.Repo.LoadSounds(),
		mapping: cfg.Repo.LoadMappings(),
		subs:    make(map[int]func(Snapshot)),
	}
	b.saver = newSaver(cfg.Repo, cfg.Metrics, cfg.RetryMin, cfg.RetryMax, b.saverChanged)
	b.player.OnFinished(b.finished)

	slog.Info("board loaded", "sounds", len(b.sounds), "mappings", len(b.mapping))
	return b
}

// Close stops the saver after one last write attempt
func (b *Board) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()
	return b.saver.close()
}

// refuseLocked reports whether the board is closed to catalog and mapping changes
// Caller holds b.mu
func (b *Board) refuseLocked(op string) bool {
	if !b.closed {
		return false
	}
	slog.Warn("change after close dropped", "op", op)
	return true
}

// Snapshot returns a copy of the current state
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Board) snapshotLocked() Snapshot {
	var pb *core.Playback
	if b.playback != nil {
		cp := *b.playback
		pb = &cp
	}
	return Snapshot{
		Sounds:    core.CloneSounds(b.sounds),
		Mapping:   b.mapping.Clone(),
		Playback:  pb,
		LastFired: b.lastFired,
		Status:    b.status,
		Unsaved:   b.saver.unsaved(),
		Version:   b.version,
	}
}

// Subscribe registers fn for every state change; the returned func unregisters it
func (b *Board) Subscribe(fn func(Snapshot)) (cancel func()) {
	b.subMu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.subMu.Unlock()

	return func() {
		b.subMu.Lock()
		delete(b.subs, id)
		b.subMu.Unlock()
	}
}

// changedLocked bumps the version and returns the snapshot to publish; caller holds b.mu
func (b *Board) changedLocked() Snapshot {
	b.version++
	return b.snapshotLocked()
}

// publish delivers snap to subscribers in id order
func (b *Board) publish(snap Snapshot) {
	b.subMu.Lock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.subs[id])
	}
	b.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// persistLocked hands the current documents to the saver; caller holds b.mu
func (b *Board) persistLocked() {
	b.saver.schedule(core.CloneSounds(b.sounds), b.mapping.Clone())
}

// saverChanged republishes when the unsaved indicator flips
func (b *Board) saverChanged() {
	b.mu.Lock()
	snap := b.changedLocked()
	b.mu.Unlock()
	b.publish(snap)
}

// Flush blocks until every scheduled write has landed or ctx ends
func (b *Board) Flush(ctx context.Context) error {
	return b.saver.flush(ctx)
}

func (b *Board) findLocked(id string) (int, bool) {
	for i, s := range b.sounds {
		if s.ID == id {
			return i, true
		}
	}
	return -1, false
}
