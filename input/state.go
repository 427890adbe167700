package input

// InputMode mirrors the UI interaction mode for parser context
// Kept in sync by ui.App via SetMode()
type InputMode uint8

const (
	ModeNormal  InputMode = iota // triggers, catalog navigation, commands
	ModeText                     // inline rename or import path entry
	ModeConfirm                  // awaiting y/n for a destructive action
)

func (m InputMode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeText:
		return "TEXT"
	case ModeConfirm:
		return "CONFIRM"
	}
	return "UNKNOWN"
}
