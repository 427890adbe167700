package input

import "github.com/lixenwraith/clipdeck/trigger"

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit   // Ctrl+Q, Ctrl+C
	IntentEscape // ESC, cancels pending map/text/confirm
	IntentResize // Terminal resize event

	// Triggers
	IntentFire // 1/2/3, q/w/e, a/s/d

	// Catalog navigation
	IntentSelectUp   // k, Up
	IntentSelectDown // j, Down

	// Playback
	IntentPreview     // Enter, plays the selected clip
	IntentTogglePause // Space
	IntentStop        // x

	// Editing
	IntentMapMode     // m, next trigger binds the selected clip
	IntentClearMode   // c, next trigger is cleared
	IntentRename      // r
	IntentDelete      // D
	IntentImport      // i
	IntentToggleSim   // S
	IntentConfirmYes  // y in confirm mode
	IntentTextChar    // printable character in text mode
	IntentTextBack    // Backspace in text mode
	IntentTextConfirm // Enter in text mode
)

var intentNames = map[IntentType]string{
	IntentNone:        "none",
	IntentQuit:        "quit",
	IntentEscape:      "escape",
	IntentResize:      "resize",
	IntentFire:        "fire",
	IntentSelectUp:    "select_up",
	IntentSelectDown:  "select_down",
	IntentPreview:     "preview",
	IntentTogglePause: "toggle_pause",
	IntentStop:        "stop",
	IntentMapMode:     "map",
	IntentClearMode:   "clear",
	IntentRename:      "rename",
	IntentDelete:      "delete",
	IntentImport:      "import",
	IntentToggleSim:   "toggle_sim",
	IntentConfirmYes:  "confirm_yes",
	IntentTextChar:    "text_char",
	IntentTextBack:    "text_backspace",
	IntentTextConfirm: "text_confirm",
}

func (t IntentType) String() string {
	if s, ok := intentNames[t]; ok {
		return s
	}
	return "unknown"
}

// Intent is the parsed result of one key event
type Intent struct {
	Type    IntentType
	Trigger trigger.Key // IntentFire
	Char    rune        // IntentTextChar
}
