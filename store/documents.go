package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lixenwraith/clipdeck/core"
	"github.com/lixenwraith/clipdeck/trigger"
)

// Documents reads and writes the two persisted documents
// Loads never fail: missing or corrupt documents come back empty
type Documents struct {
	kv KV
}

// NewDocuments wraps a KV backend
func NewDocuments(kv KV) *Documents {
	return &Documents{kv: kv}
}

// LoadSounds returns the catalog in stored order
func (d *Documents) LoadSounds() []core.Sound {
	sounds := []core.Sound{}
	if err := d.load(KeySounds, &sounds); err != nil {
		logLoadFailure(KeySounds, err)
		return []core.Sound{}
	}
	if sounds == nil {
		return []core.Sound{}
	}
	return sounds
}

// LoadMappings returns the mapping table; empty values are dropped as unmapped
func (d *Documents) LoadMappings() core.Mapping {
	raw := map[string]string{}
	if err := d.load(KeyMappings, &raw); err != nil {
		logLoadFailure(KeyMappings, err)
		return core.Mapping{}
	}
	m := make(core.Mapping, len(raw))
	for k, v := range raw {
		if v == "" {
			continue
		}
		m[trigger.Key(k)] = v
	}
	return m
}

// Save rewrites both documents in full
func (d *Documents) Save(sounds []core.Sound, mapping core.Mapping) error {
	if sounds == nil {
		sounds = []core.Sound{}
	}
	if mapping == nil {
		mapping = core.Mapping{}
	}
	sb, err := json.Marshal(sounds)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeySounds, err)
	}
	mb, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyMappings, err)
	}
	if err := d.kv.Set(KeySounds, sb); err != nil {
		return err
	}
	return d.kv.Set(KeyMappings, mb)
}

func (d *Documents) load(key string, v any) error {
	data, err := d.kv.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, key, err)
	}
	return nil
}

func logLoadFailure(key string, err error) {
	if errors.Is(err, ErrNotFound) {
		return
	}
	slog.Warn("persisted document unreadable, starting empty", "key", key, "error", err)
}
