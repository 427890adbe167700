package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/clipdeck/trigger"
)

// KeyEntry describes what a key does without function pointers
type KeyEntry struct {
	Intent  IntentType
	Trigger trigger.Key
}

// KeyTable maps keys to behaviors for normal mode
// Text and confirm modes have fixed bindings
type KeyTable struct {
	// Special keys (Ctrl+*, arrows, Enter)
	SpecialKeys map[tcell.Key]KeyEntry

	// Normal mode rune bindings
	NormalRunes map[rune]KeyEntry
}

func fire(k trigger.Key) KeyEntry {
	return KeyEntry{Intent: IntentFire, Trigger: k}
}

// DefaultKeyTable returns the default key bindings
// Rows of the keyboard are gestures, columns are buttons
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]KeyEntry{
			tcell.KeyCtrlQ:  {Intent: IntentQuit},
			tcell.KeyCtrlC:  {Intent: IntentQuit},
			tcell.KeyEscape: {Intent: IntentEscape},
			tcell.KeyUp:     {Intent: IntentSelectUp},
			tcell.KeyDown:   {Intent: IntentSelectDown},
			tcell.KeyEnter:  {Intent: IntentPreview},
		},

		NormalRunes: map[rune]KeyEntry{
			'1': fire("b1-short"),
			'2': fire("b2-short"),
			'3': fire("b3-short"),
			'q': fire("b1-long"),
			'w': fire("b2-long"),
			'e': fire("b3-long"),
			'a': fire("b1-double"),
			's': fire("b2-double"),
			'd': fire("b3-double"),

			'k': {Intent: IntentSelectUp},
			'j': {Intent: IntentSelectDown},
			' ': {Intent: IntentTogglePause},
			'x': {Intent: IntentStop},
			'm': {Intent: IntentMapMode},
			'c': {Intent: IntentClearMode},
			'r': {Intent: IntentRename},
			'D': {Intent: IntentDelete},
			'i': {Intent: IntentImport},
			'S': {Intent: IntentToggleSim},
		},
	}
}

// Clone returns a deep copy of the KeyTable with independent maps
func (kt *KeyTable) Clone() *KeyTable {
	return &KeyTable{
		SpecialKeys: cloneMap(kt.SpecialKeys),
		NormalRunes: cloneMap(kt.NormalRunes),
	}
}

// RuneFor returns a rune bound to entry, preferring the lowest for stable help text
func (kt *KeyTable) RuneFor(entry KeyEntry) (rune, bool) {
	var best rune
	found := false
	for r, e := range kt.NormalRunes {
		if e == entry && (!found || r < best) {
			best, found = r, true
		}
	}
	return best, found
}

func cloneMap[K comparable](m map[K]KeyEntry) map[K]KeyEntry {
	c := make(map[K]KeyEntry, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
