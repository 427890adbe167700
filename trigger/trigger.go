// Package trigger enumerates the fixed button x gesture input space
package trigger

import (
	"fmt"
	"strings"
)

// Gesture is how a button was pressed
type Gesture string

const (
	Short  Gesture = "short"
	Long   Gesture = "long"
	Double Gesture = "double"
)

// Gestures in display order
var Gestures = [...]Gesture{Short, Long, Double}

// Buttons in display order
var Buttons = [...]string{"b1", "b2", "b3"}

// Count is the size of the trigger space
const Count = len(Buttons) * len(Gestures)

// Key identifies a trigger in the mapping table, formatted "<button>-<gesture>"
type Key string

// Trigger is one (button, gesture) pair
type Trigger struct {
	Button  string
	Gesture Gesture
}

// Key returns the mapping-table key
func (t Trigger) Key() Key {
	return Key(t.Button + "-" + string(t.Gesture))
}

// Label returns the human-readable name, e.g. "Button 1 · Long press"
func (t Trigger) Label() string {
	return buttonLabel(t.Button) + " · " + gestureLabel(t.Gesture)
}

var all = func() [Count]Trigger {
	var out [Count]Trigger
	i := 0
	for _, b := range Buttons {
		for _, g := range Gestures {
			out[i] = Trigger{Button: b, Gesture: g}
			i++
		}
	}
	return out
}()

// All returns the nine triggers, button-major
func All() []Trigger {
	out := make([]Trigger, Count)
	copy(out, all[:])
	return out
}

// At returns the i-th trigger of All
func At(i int) Trigger {
	return all[i]
}

// Lookup returns the trigger for a key
func Lookup(k Key) (Trigger, bool) {
	for _, t := range all {
		if t.Key() == k {
			return t, true
		}
	}
	return Trigger{}, false
}

// Parse validates a user-supplied key string
func Parse(s string) (Trigger, error) {
	t, ok := Lookup(Key(strings.ToLower(strings.TrimSpace(s))))
	if !ok {
		return Trigger{}, fmt.Errorf("unknown trigger %q (expected e.g. b1-short)", s)
	}
	return t, nil
}

// Label returns the label for a key, or the raw key when unknown
func (k Key) Label() string {
	if t, ok := Lookup(k); ok {
		return t.Label()
	}
	return string(k)
}

func buttonLabel(b string) string {
	if len(b) == 2 && b[0] == 'b' {
		return "Button " + b[1:]
	}
	return b
}

func gestureLabel(g Gesture) string {
	switch g {
	case Short:
		return "Short press"
	case Long:
		return "Long press"
	case Double:
		return "Double tap"
	}
	return string(g)
}
