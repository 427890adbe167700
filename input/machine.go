package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Machine is the input state machine
// Parses tcell events into semantic Intent
type Machine struct {
	mode     InputMode
	keyTable *KeyTable
}

// NewMachine creates a machine over kt; nil uses the defaults
func NewMachine(kt *KeyTable) *Machine {
	if kt == nil {
		kt = DefaultKeyTable()
	}
	return &Machine{mode: ModeNormal, keyTable: kt}
}

// SetMode updates the parser's mode context
func (m *Machine) SetMode(mode InputMode) {
	m.mode = mode
}

// Mode returns the current parser mode
func (m *Machine) Mode() InputMode {
	return m.mode
}

// KeyTable returns the active bindings
func (m *Machine) KeyTable() *KeyTable {
	return m.keyTable
}

// Process parses a tcell event and returns an Intent
// Returns nil for unbound keys and ignored events
func (m *Machine) Process(ev tcell.Event) *Intent {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		return &Intent{Type: IntentResize}
	case *tcell.EventKey:
		return m.processKey(ev)
	}
	return nil
}

func (m *Machine) processKey(ev *tcell.EventKey) *Intent {
	// Quit is reachable from every mode
	if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyCtrlQ {
		return &Intent{Type: IntentQuit}
	}

	switch m.mode {
	case ModeText:
		return m.processText(ev)
	case ModeConfirm:
		return m.processConfirm(ev)
	}
	return m.processNormal(ev)
}

func (m *Machine) processNormal(ev *tcell.EventKey) *Intent {
	var (
		entry KeyEntry
		ok    bool
	)
	if ev.Key() == tcell.KeyRune {
		entry, ok = m.keyTable.NormalRunes[ev.Rune()]
	} else {
		entry, ok = m.keyTable.SpecialKeys[ev.Key()]
	}
	if !ok || entry.Intent == IntentNone {
		return nil
	}
	return &Intent{Type: entry.Intent, Trigger: entry.Trigger}
}

func (m *Machine) processText(ev *tcell.EventKey) *Intent {
	switch ev.Key() {
	case tcell.KeyEscape:
		return &Intent{Type: IntentEscape}
	case tcell.KeyEnter:
		return &Intent{Type: IntentTextConfirm}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return &Intent{Type: IntentTextBack}
	case tcell.KeyRune:
		if unicode.IsPrint(ev.Rune()) {
			return &Intent{Type: IntentTextChar, Char: ev.Rune()}
		}
	}
	return nil
}

// processConfirm accepts y/Y; any other key cancels
func (m *Machine) processConfirm(ev *tcell.EventKey) *Intent {
	if ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y') {
		return &Intent{Type: IntentConfirmYes}
	}
	return &Intent{Type: IntentEscape}
}
