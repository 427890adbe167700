package store

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/lixenwraith/clipdeck/core"
	"github.com/lixenwraith/clipdeck/trigger"
)

func TestDocumentsEmptyWhenMissing(t *testing.T) {
	d := NewDocuments(NewMemStore())
	assert.Equal(t, []core.Sound{}, d.LoadSounds())
	assert.Equal(t, core.Mapping{}, d.LoadMappings())
}

func TestDocumentsEmptyWhenCorrupt(t *testing.T) {
	kv := NewMemStore()
	require.NoError(t, kv.Set(KeySounds, []byte(`{"not":"a list"`)))
	require.NoError(t, kv.Set(KeyMappings, []byte(`[1,2,3]`)))

	d := NewDocuments(kv)
	assert.Equal(t, []core.Sound{}, d.LoadSounds())
	assert.Equal(t, core.Mapping{}, d.LoadMappings())

	var target []core.Sound
	assert.ErrorIs(t, d.load(KeySounds, &target), ErrDecode)
}

func TestDocumentsNullDocument(t *testing.T) {
	kv := NewMemStore()
	require.NoError(t, kv.Set(KeySounds, []byte(`null`)))
	require.NoError(t, kv.Set(KeyMappings, []byte(`{"b1-short":""}`)))

	d := NewDocuments(kv)
	assert.Equal(t, []core.Sound{}, d.LoadSounds())
	assert.Equal(t, core.Mapping{}, d.LoadMappings())
}

func TestDocumentsWireFormat(t *testing.T) {
	kv := NewMemStore()
	d := NewDocuments(kv)
	require.NoError(t, d.Save(
		[]core.Sound{{ID: "x", Name: "clap", URI: "file://a"}},
		core.Mapping{"b1-short": "x"},
	))

	raw, err := kv.Get(KeySounds)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"x","name":"clap","uri":"file://a"}]`, string(raw))

	raw, err = kv.Get(KeyMappings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b1-short":"x"}`, string(raw))
}

func TestDocumentsRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "n")
		sounds := make([]core.Sound, n)
		for i := range sounds {
			sounds[i] = core.Sound{
				ID:   fmt.Sprintf("id-%d", i),
				Name: rapid.String().Draw(rt, "name"),
				URI:  "file:///clips/" + rapid.StringMatching(`[a-z0-9]{1,12}`).Draw(rt, "uri"),
			}
		}

		mapping := core.Mapping{}
		if n > 0 {
			for _, tr := range trigger.All() {
				if rapid.Bool().Draw(rt, "mapped") {
					mapping[tr.Key()] = sounds[rapid.IntRange(0, n-1).Draw(rt, "idx")].ID
				}
			}
		}

		d := NewDocuments(NewMemStore())
		if err := d.Save(sounds, mapping); err != nil {
			rt.Fatalf("save: %v", err)
		}
		if diff := cmp.Diff(sounds, d.LoadSounds()); diff != "" {
			rt.Fatalf("sounds mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(mapping, d.LoadMappings()); diff != "" {
			rt.Fatalf("mappings mismatch (-want +got):\n%s", diff)
		}
	})
}
