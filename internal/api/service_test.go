package api

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/char5742/swipe-detector/internal/config"
	"github.com/char5742/swipe-detector/internal/recognizer"
	"github.com/char5742/swipe-detector/internal/replay"
)

func startRecording(t *testing.T) (*GestureService, *fakeScreen, string) {
	t.Helper()
	s := NewGestureService(config.DefaultConfig())
	screen := newFakeScreen()
	withFakeDevice(s, screen)
	path := filepath.Join(t.TempDir(), "session.json")
	s.RecordTo(path)
	require.NoError(t, s.Start())

	screen.tap(5000, 250, 400)
	require.Eventually(t, func() bool {
		return len(s.RecentGestures()) == 1
	}, time.Second, 10*time.Millisecond)
	return s, screen, path
}

func assertRecordedTap(t *testing.T, path string) {
	t.Helper()
	rec, err := replay.Load(path)
	require.NoError(t, err)
	require.Len(t, rec.Inputs, 2)
	assert.Equal(t, recognizer.ActionDown, rec.Inputs[0].Action)
	assert.Equal(t, recognizer.ActionUp, rec.Inputs[1].Action)
	assert.Equal(t, int64(5040), rec.Inputs[1].Time)
}

func TestStopSavesRecording(t *testing.T) {
	s, _, path := startRecording(t)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assertRecordedTap(t, path)
	assert.ErrorIs(t, s.Stop(), ErrNotRunning)
}

func TestDeviceLossSavesRecording(t *testing.T) {
	s, screen, path := startRecording(t)

	// デバイスが消えた場合も同じように終了する
	screen.Close()
	s.Wait()
	assert.False(t, s.IsRunning())
	assertRecordedTap(t, path)
}
