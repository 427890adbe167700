// Package service runs the long-lived subsystems of the soundboard
package service

import "context"

// Service is one subsystem owned by the Hub: document store, audio output, board, simulator
//
// The Hub drives each service through construction, Init with the resolved
// config, Start once every dependency is initialized, and Stop in reverse order
type Service interface {
	// Name is the registry key other services list as a dependency
	Name() string

	// Dependencies must be initialized first; nil when there are none
	Dependencies() []string

	Init(args ...any) error

	// Start runs after every service has initialized
	Start() error

	// Stop releases resources; a second call is a no-op
	Stop() error
}

// Flusher is implemented by services holding writes that must land before shutdown
// Services without pending state are skipped by Hub.FlushAll
type Flusher interface {
	Flush(ctx context.Context) error
}
