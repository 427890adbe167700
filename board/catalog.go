package board

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lixenwraith/clipdeck/core"
	"github.com/lixenwraith/clipdeck/media"
	"github.com/lixenwraith/clipdeck/trigger"
)

// ImportFile copies a picked file into clip storage and imports it
func (b *Board) ImportFile(path string) (core.Sound, error) {
	ref, err := b.files.Copy(path)
	if err != nil {
		return core.Sound{}, b.importFailed(&ImportError{Ref: media.FileRef{Name: path}, Err: err})
	}
	snd, err := b.ImportSound(ref)
	if err != nil {
		if rmErr := b.files.Remove(ref.URI); rmErr != nil {
			slog.Warn("discard copied file failed", "uri", ref.URI, "error", rmErr)
		}
		return core.Sound{}, err
	}
	return snd, nil
}

// ImportSound appends a catalog entry for a file already in durable storage
// The catalog is unchanged on failure
func (b *Board) ImportSound(ref media.FileRef) (core.Sound, error) {
	if strings.TrimSpace(ref.URI) == "" {
		return core.Sound{}, b.importFailed(&ImportError{Ref: ref, Err: media.ErrNoFile})
	}
	ok, err := b.files.Exists(ref.URI)
	if err != nil {
		return core.Sound{}, b.importFailed(&ImportError{Ref: ref, Err: err})
	}
	if !ok {
		return core.Sound{}, b.importFailed(&ImportError{Ref: ref, Err: ErrFileMissing})
	}

	name := media.DisplayName(ref.Name)
	if name == "" {
		name = core.DefaultSoundName
	}
	snd := core.Sound{ID: b.newID(), Name: name, URI: ref.URI}

	b.mu.Lock()
	if b.refuseLocked("import") {
		b.mu.Unlock()
		return core.Sound{}, fmt.Errorf("import %s: %w", ref.Name, ErrClosed)
	}
	b.sounds = append(b.sounds, snd)
	b.status = fmt.Sprintf("Imported: %s", snd.Name)
	b.persistLocked()
	snap := b.changedLocked()
	b.mu.Unlock()

	slog.Info("sound imported", "id", snd.ID, "name", snd.Name, "uri", snd.URI)
	b.publish(snap)
	return snd, nil
}

func (b *Board) importFailed(err *ImportError) error {
	slog.Warn("import failed", "error", err)
	b.mu.Lock()
	b.status = StatusImportFail
	snap := b.changedLocked()
	b.mu.Unlock()
	b.publish(snap)
	return err
}

// RenameSound replaces the display name; unknown ids are ignored
func (b *Board) RenameSound(id, name string) {
	b.mu.Lock()
	i, ok := b.findLocked(id)
	if !ok || b.refuseLocked("rename") {
		b.mu.Unlock()
		return
	}
	b.sounds[i].Name = name
	b.persistLocked()
	snap := b.changedLocked()
	b.mu.Unlock()

	b.publish(snap)
}

// DeleteSound removes the entry, every mapping that points at it and its backing file
// Mappings to id are cleared even when id is no longer in the catalog
// Playback of the deleted sound is stopped
func (b *Board) DeleteSound(id string) {
	b.mu.Lock()
	if b.refuseLocked("delete") {
		b.mu.Unlock()
		return
	}
	unmapped := 0
	for k, v := range b.mapping {
		if v == id {
			delete(b.mapping, k)
			unmapped++
		}
	}
	i, found := b.findLocked(id)
	if !found {
		if unmapped == 0 {
			b.mu.Unlock()
			return
		}
		b.persistLocked()
		snap := b.changedLocked()
		b.mu.Unlock()

		slog.Info("dangling mappings cleared", "id", id, "count", unmapped)
		b.publish(snap)
		return
	}

	snd := b.sounds[i]
	b.sounds = append(b.sounds[:i:i], b.sounds[i+1:]...)
	if b.playback != nil && b.playback.SoundID == id {
		if err := b.player.Stop(); err != nil {
			slog.Warn("stop on delete failed", "id", id, "error", err)
		}
		b.playback = nil
	}
	b.status = fmt.Sprintf("Deleted: %s", snd.Name)
	b.persistLocked()
	snap := b.changedLocked()
	b.mu.Unlock()

	if err := b.files.Remove(snd.URI); err != nil {
		slog.Warn("remove sound file failed", "uri", snd.URI, "error", err)
	}
	slog.Info("sound deleted", "id", id, "name", snd.Name)
	b.publish(snap)
}

// SetMapping binds key to id, or clears it when id is empty
// id is not checked against the catalog
func (b *Board) SetMapping(key trigger.Key, id string) error {
	if _, ok := trigger.Lookup(key); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTrigger, key)
	}

	b.mu.Lock()
	if b.refuseLocked("map") {
		b.mu.Unlock()
		return ErrClosed
	}
	if id == "" {
		delete(b.mapping, key)
	} else {
		b.mapping[key] = id
	}
	b.persistLocked()
	snap := b.changedLocked()
	b.mu.Unlock()

	b.publish(snap)
	return nil
}
