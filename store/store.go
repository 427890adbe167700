// Package store persists the catalog and mapping documents in a key-value backend
package store

import (
	"errors"
	"fmt"
	"regexp"
)

// Document keys
const (
	KeySounds   = "sounds"
	KeyMappings = "mappings"
)

// Sentinel errors
var (
	ErrNotFound   = errors.New("key not found")
	ErrDecode     = errors.New("persisted document is corrupt")
	ErrInvalidKey = errors.New("invalid key")
	ErrClosed     = errors.New("store closed")
)

// KV is a flat string-keyed byte store
// Implementations must be safe for concurrent use
type KV interface {
	// Get returns ErrNotFound when the key has never been set
	Get(key string) ([]byte, error)
	// Set replaces the whole value for key
	Set(key string, value []byte) error
	Close() error
}

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
