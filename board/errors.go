package board

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/clipdeck/media"
)

// Status lines shown to the user
const (
	StatusNoMapping   = "No sound mapped yet."
	StatusMissing     = "Mapped sound is missing."
	StatusPlayFailed  = "Could not play audio."
	StatusImportFail  = "Could not import sound."
	StatusStopped     = "Stopped."
	StatusPaused      = "Paused."
	StatusPauseFailed = "Could not pause audio."
	StatusResumeFail  = "Could not resume audio."
)

// Sentinel errors
var (
	ErrUnknownTrigger = errors.New("unknown trigger")
	ErrFileMissing    = errors.New("copied file not found")
	ErrClosed         = errors.New("board closed")
)

// ImportError reports why a picked file did not enter the catalog
type ImportError struct {
	Ref media.FileRef
	Err error
}

func (e *ImportError) Error() string {
	name := e.Ref.Name
	if name == "" {
		name = e.Ref.URI
	}
	if name == "" {
		return fmt.Sprintf("import: %v", e.Err)
	}
	return fmt.Sprintf("import %s: %v", name, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }
