package board

import (
	"log/slog"

	"github.com/lixenwraith/clipdeck/core"
	"github.com/lixenwraith/clipdeck/status"
	"github.com/lixenwraith/clipdeck/trigger"
)

// Outcome classifies what a fired trigger did
type Outcome uint8

const (
	OutcomePlayed Outcome = iota
	OutcomeUnmapped
	OutcomeMissing
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlayed:
		return "played"
	case OutcomeUnmapped:
		return "unmapped"
	case OutcomeMissing:
		return "missing"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// FireTrigger resolves key to a playback action
// An unmapped trigger silences current playback; a dangling mapping leaves it alone
func (b *Board) FireTrigger(key trigger.Key, origin core.Origin) Outcome {
	b.metrics.Inc(status.TriggerFired)

	b.mu.Lock()
	b.lastFired = key

	id, mapped := b.mapping[key]
	if !mapped {
		b.metrics.Inc(status.TriggerUnmapped)
		b.status = StatusNoMapping
		b.stopLocked()
		snap := b.changedLocked()
		b.mu.Unlock()

		slog.Debug("trigger unmapped", "key", key, "origin", origin)
		b.publish(snap)
		return OutcomeUnmapped
	}

	i, found := b.findLocked(id)
	if !found {
		b.metrics.Inc(status.TriggerMissing)
		b.status = StatusMissing
		snap := b.changedLocked()
		b.mu.Unlock()

		slog.Warn("trigger mapped to missing sound", "key", key, "id", id)
		b.publish(snap)
		return OutcomeMissing
	}

	snd := b.sounds[i]
	msg := "Playing: " + snd.Name
	if origin == core.OriginSimulated {
		msg = "Simulated: " + snd.Name
	}
	err := b.playLocked(snd, msg)
	snap := b.changedLocked()
	b.mu.Unlock()

	b.publish(snap)
	if err != nil {
		return OutcomeFailed
	}
	return OutcomePlayed
}

// Play loads and starts snd directly, replacing current playback
// Failure is reflected in the status line and returned for callers that care
func (b *Board) Play(snd core.Sound, msg string) error {
	b.mu.Lock()
	err := b.playLocked(snd, msg)
	snap := b.changedLocked()
	b.mu.Unlock()

	b.publish(snap)
	return err
}

// playLocked is the replace-current-handle step; caller holds b.mu
func (b *Board) playLocked(snd core.Sound, msg string) error {
	b.status = msg

	seq, err := b.player.Load(snd.URI)
	if err == nil {
		err = b.player.Play()
	}
	if err != nil {
		b.metrics.Inc(status.PlaybackFailed)
		b.status = StatusPlayFailed
		// Player released the handle on failure
		b.playback = nil
		slog.Error("playback failed", "id", snd.ID, "uri", snd.URI, "error", err)
		return err
	}

	b.metrics.Inc(status.PlaybackStarted)
	b.playSeq = seq
	b.playback = &core.Playback{SoundID: snd.ID, Status: core.StatusPlaying}
	return nil
}

// Pause is a no-op unless something is playing
func (b *Board) Pause() {
	b.mu.Lock()
	changed := b.pauseLocked()
	b.settle(changed)
}

// Resume is a no-op unless something is paused
func (b *Board) Resume() {
	b.mu.Lock()
	changed := b.resumeLocked()
	b.settle(changed)
}

// TogglePause pauses when playing and resumes when paused
func (b *Board) TogglePause() {
	b.mu.Lock()
	changed := b.pauseLocked() || b.resumeLocked()
	b.settle(changed)
}

// settle releases b.mu and publishes when the locked step changed anything
func (b *Board) settle(changed bool) {
	if !changed {
		b.mu.Unlock()
		return
	}
	snap := b.changedLocked()
	b.mu.Unlock()
	b.publish(snap)
}

func (b *Board) pauseLocked() bool {
	if b.playback == nil || b.playback.Status != core.StatusPlaying {
		return false
	}
	if err := b.player.Pause(); err != nil {
		slog.Error("pause failed", "error", err)
		b.status = StatusPauseFailed
	} else {
		b.playback.Status = core.StatusPaused
		b.status = StatusPaused
	}
	return true
}

func (b *Board) resumeLocked() bool {
	if b.playback == nil || b.playback.Status != core.StatusPaused {
		return false
	}
	if err := b.player.Resume(); err != nil {
		slog.Error("resume failed", "error", err)
		b.status = StatusResumeFail
	} else {
		b.playback.Status = core.StatusPlaying
		if snd, ok := b.soundLocked(b.playback.SoundID); ok {
			b.status = "Playing: " + snd.Name
		}
	}
	return true
}

// Stop releases the current handle; idempotent
func (b *Board) Stop() {
	b.mu.Lock()
	wasLoaded := b.playback != nil
	b.stopLocked()
	if wasLoaded {
		b.status = StatusStopped
	}
	snap := b.changedLocked()
	b.mu.Unlock()

	b.publish(snap)
}

func (b *Board) stopLocked() {
	if err := b.player.Stop(); err != nil {
		slog.Warn("stop failed", "error", err)
	}
	b.playback = nil
}

// finished clears the pointer when the current playback reaches its end
func (b *Board) finished(seq uint64) {
	b.mu.Lock()
	if b.playback == nil || b.playSeq != seq {
		b.mu.Unlock()
		return
	}
	b.playback = nil
	snap := b.changedLocked()
	b.mu.Unlock()

	b.publish(snap)
}

func (b *Board) soundLocked(id string) (core.Sound, bool) {
	if i, ok := b.findLocked(id); ok {
		return b.sounds[i], true
	}
	return core.Sound{}, false
}
