package core

import "github.com/lixenwraith/clipdeck/trigger"

// DefaultSoundName is used when an imported file has no usable base name
const DefaultSoundName = "New sound"

// Sound is one imported clip in the catalog
type Sound struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Mapping binds trigger keys to sound ids; absent key means unmapped
type Mapping map[trigger.Key]string

// Clone returns an independent copy, never nil
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// CloneSounds copies a catalog slice, never nil
func CloneSounds(s []Sound) []Sound {
	out := make([]Sound, len(s))
	copy(out, s)
	return out
}

// PlaybackStatus is the state of the loaded clip
type PlaybackStatus string

const (
	StatusPlaying PlaybackStatus = "playing"
	StatusPaused  PlaybackStatus = "paused"
)

// Playback is the pointer to the currently loaded clip
type Playback struct {
	SoundID string
	Status  PlaybackStatus
}

// Origin tells whether a trigger came from the user or the simulator
type Origin uint8

const (
	OriginUser Origin = iota
	OriginSimulated
)

func (o Origin) String() string {
	if o == OriginSimulated {
		return "simulated"
	}
	return "user"
}
