package audio

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Speaker initialization fails without an audio device; that is expected in CI
func TestSpeakerEngineInitialization(t *testing.T) {
	e := NewSpeakerEngine(1)
	if err := e.Initialize(); err != nil {
		t.Logf("speaker initialization failed (expected in test environment): %v", err)
		return
	}
	assert.NoError(t, e.Initialize(), "second initialization is a no-op")
	e.Cleanup()
}

func TestSpeakerEngineOpenBeforeInit(t *testing.T) {
	e := NewSpeakerEngine(1)
	_, err := e.Open("file:///nowhere.wav")
	assert.ErrorIs(t, err, ErrNoDevice)
	e.Cleanup()
}

func TestClampVolume(t *testing.T) {
	assert.Equal(t, 0.0, clampVolume(-1))
	assert.Equal(t, 1.0, clampVolume(3))
	assert.Equal(t, 0.25, clampVolume(0.25))
}

func TestHeadlessServiceIsSilent(t *testing.T) {
	s := NewService(1, true)
	assert.NoError(t, s.Init())
	assert.True(t, s.IsSilent())
	assert.NotNil(t, s.Player())
	assert.NoError(t, s.Stop())
}

func TestServiceStopLogsReleaseFailure(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	eng := &fakeEngine{closeErr: errors.New("device gone")}
	s := NewService(1, true)
	s.player = NewPlayer(eng)
	_, err := s.player.Load("file:///a.wav")
	require.NoError(t, err)

	assert.NoError(t, s.Stop())
	assert.Contains(t, buf.String(), "release playback on stop failed")
	assert.Contains(t, buf.String(), "device gone")
	assert.Zero(t, s.player.openHandles())
	assert.NoError(t, s.Stop())
}
