// Package status holds the process-wide counters shown in the UI footer
package status

import "sync/atomic"

// Counter names incremented by the board
const (
	TriggerFired    = "trigger.fired"
	TriggerUnmapped = "trigger.unmapped"
	TriggerMissing  = "trigger.missing"
	PlaybackStarted = "playback.started"
	PlaybackFailed  = "playback.failed"
	PersistSaved    = "persist.saved"
	PersistFailed   = "persist.failed"
)

// Registry is the counter facade; a nil *Registry discards updates
type Registry struct {
	counters *MetricMap[atomic.Int64]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{counters: NewMetricMap[atomic.Int64]()}
}

// Inc adds one to the named counter
func (r *Registry) Inc(name string) {
	if r == nil {
		return
	}
	r.counters.Get(name).Add(1)
}

// Value returns the current value of the named counter
func (r *Registry) Value(name string) int64 {
	if r == nil {
		return 0
	}
	return r.counters.Get(name).Load()
}

// Snapshot copies all counters
func (r *Registry) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	if r == nil {
		return out
	}
	r.counters.Range(func(key string, ptr *atomic.Int64) {
		out[key] = ptr.Load()
	})
	return out
}
