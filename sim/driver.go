// Package sim fires random triggers on a timer in place of hardware input
package sim

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/clipdeck/trigger"
)

// DefaultInterval between simulated fires
const DefaultInterval = 1500 * time.Millisecond

// Rand draws trigger indices; *rand.Rand from math/rand/v2 satisfies it
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Driver owns at most one pending tick
// Disabling waits for an in-flight fire, so nothing fires after SetEnabled(false) returns
type Driver struct {
	interval time.Duration
	rng      Rand
	fire     func(trigger.Key)
	onChange func(bool)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64 // invalidates ticks armed before the last disable
	enabled atomic.Bool
}

// NewDriver creates a disabled driver; rng may be nil
func NewDriver(interval time.Duration, rng Rand, fire func(trigger.Key)) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if rng == nil {
		rng = globalRand{}
	}
	return &Driver{interval: interval, rng: rng, fire: fire}
}

// OnChange registers fn to be called with the new flag after every transition
func (d *Driver) OnChange(fn func(enabled bool)) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

// Enabled reports the flag without blocking on an in-flight fire
func (d *Driver) Enabled() bool {
	return d.enabled.Load()
}

// Toggle flips the flag and returns the new value
func (d *Driver) Toggle() bool {
	d.mu.Lock()
	on := !d.enabled.Load()
	fn := d.setLocked(on)
	d.mu.Unlock()
	if fn != nil {
		fn(on)
	}
	return on
}

// SetEnabled starts or cancels the timer; repeated calls with the same value are no-ops
func (d *Driver) SetEnabled(on bool) {
	d.mu.Lock()
	fn := d.setLocked(on)
	d.mu.Unlock()
	if fn != nil {
		fn(on)
	}
}

// setLocked returns the change callback when the flag actually flipped
func (d *Driver) setLocked(on bool) func(bool) {
	if d.enabled.Load() == on {
		return nil
	}
	d.enabled.Store(on)
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if on {
		d.armLocked()
	}
	slog.Info("simulation toggled", "enabled", on, "interval", d.interval)
	return d.onChange
}

func (d *Driver) armLocked() {
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.interval, func() { d.tick(gen) })
}

// tick fires one random trigger and re-arms; stale generations are dropped
func (d *Driver) tick(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.enabled.Load() || gen != d.gen {
		return
	}
	key := trigger.At(d.rng.IntN(trigger.Count)).Key()
	slog.Debug("simulated trigger", "key", key)
	d.fire(key)
	d.armLocked()
}

// Stop disables the driver; idempotent
func (d *Driver) Stop() {
	d.SetEnabled(false)
}
