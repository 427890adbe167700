package sim

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/lixenwraith/clipdeck/trigger"
)

type recorder struct {
	mu   sync.Mutex
	keys []trigger.Key
}

func (r *recorder) fire(k trigger.Key) {
	r.mu.Lock()
	r.keys = append(r.keys, k)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

// seqRand returns the queued values in order
type seqRand struct{ vals []int }

func (s *seqRand) IntN(n int) int {
	v := s.vals[0] % n
	s.vals = s.vals[1:]
	return v
}

func TestDriverFiresWhileEnabled(t *testing.T) {
	rec := &recorder{}
	d := NewDriver(5*time.Millisecond, nil, rec.fire)
	assert.False(t, d.Enabled())

	d.SetEnabled(true)
	require.Eventually(t, func() bool { return rec.count() >= 3 }, 2*time.Second, time.Millisecond)

	d.SetEnabled(false)
	n := rec.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, rec.count(), "no fire after disable")

	rec.mu.Lock()
	for _, k := range rec.keys {
		_, ok := trigger.Lookup(k)
		assert.True(t, ok, "fired unknown trigger %q", k)
	}
	rec.mu.Unlock()
}

func TestDriverSingleTimer(t *testing.T) {
	rec := &recorder{}
	d := NewDriver(time.Hour, nil, rec.fire)
	defer d.Stop()

	d.SetEnabled(true)
	d.mu.Lock()
	first := d.timer
	d.mu.Unlock()

	d.SetEnabled(true)
	d.mu.Lock()
	assert.Same(t, first, d.timer, "re-enabling must not arm a second timer")
	d.mu.Unlock()
}

func TestDriverStaleTickDropped(t *testing.T) {
	rec := &recorder{}
	d := NewDriver(time.Hour, &seqRand{vals: []int{0, 1}}, rec.fire)
	defer d.Stop()

	d.SetEnabled(true)
	d.mu.Lock()
	old := d.gen
	d.mu.Unlock()
	d.SetEnabled(false)
	d.SetEnabled(true)

	d.tick(old)
	assert.Zero(t, rec.count())

	d.mu.Lock()
	cur := d.gen
	d.mu.Unlock()
	d.tick(cur)
	assert.Equal(t, []trigger.Key{trigger.At(0).Key()}, rec.keys)
}

func TestDriverToggleAndOnChange(t *testing.T) {
	d := NewDriver(time.Hour, nil, func(trigger.Key) {})
	var seen []bool
	d.OnChange(func(on bool) { seen = append(seen, on) })

	assert.True(t, d.Toggle())
	assert.False(t, d.Toggle())
	d.SetEnabled(false)
	d.Stop()
	assert.Equal(t, []bool{true, false}, seen)
}

func TestDriverUniform(t *testing.T) {
	rec := &recorder{}
	d := NewDriver(time.Hour, rand.New(rand.NewPCG(1, 2)), rec.fire)
	defer d.Stop()
	d.SetEnabled(true)

	const draws = 9000
	for range draws {
		d.mu.Lock()
		gen := d.gen
		d.mu.Unlock()
		d.tick(gen)
	}

	counts := make(map[trigger.Key]int)
	for _, k := range rec.keys {
		counts[k]++
	}
	require.Len(t, counts, trigger.Count)
	for k, c := range counts {
		assert.InDelta(t, draws/trigger.Count, c, 150, "trigger %s", k)
	}
}

// TestDriverDrawMapsToTrigger checks every draw index selects the matching trigger
func TestDriverDrawMapsToTrigger(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		i := rapid.IntRange(0, trigger.Count-1).Draw(rt, "i")
		rec := &recorder{}
		d := NewDriver(time.Hour, &seqRand{vals: []int{i}}, rec.fire)
		defer d.Stop()
		d.SetEnabled(true)
		d.mu.Lock()
		gen := d.gen
		d.mu.Unlock()
		d.tick(gen)
		if len(rec.keys) != 1 || rec.keys[0] != trigger.At(i).Key() {
			rt.Fatalf("draw %d fired %v", i, rec.keys)
		}
	})
}

func TestService(t *testing.T) {
	rec := &recorder{}
	svc := NewService(time.Hour, func() func(trigger.Key) { return rec.fire })
	assert.Equal(t, "sim", svc.Name())
	assert.Equal(t, []string{"board"}, svc.Dependencies())

	require.NoError(t, svc.Init())
	require.NoError(t, svc.Start())
	assert.False(t, svc.Driver().Enabled())
	svc.Driver().SetEnabled(true)
	require.NoError(t, svc.Stop())
	assert.False(t, svc.Driver().Enabled())

	empty := NewService(0, func() func(trigger.Key) { return nil })
	assert.Error(t, empty.Init())
}
