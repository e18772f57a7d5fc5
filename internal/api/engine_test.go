package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/char5742/swipe-detector/internal/config"
	"github.com/char5742/swipe-detector/internal/event"
	"github.com/char5742/swipe-detector/internal/recognizer"
	"github.com/char5742/swipe-detector/internal/replay"
	"github.com/char5742/swipe-detector/internal/scheduler"
)

func newTestEngine(t *testing.T, cfg *config.Config) (*engine, *LogListener) {
	t.Helper()
	l := NewLogListener(10)
	e, err := newEngine(cfg, event.Axis{Min: 0, Max: 1000}, event.Axis{Min: 0, Max: 800}, scheduler.NewManual(), l)
	require.NoError(t, err)
	return e, l
}

func feedAll(e *engine, events ...event.Event) {
	for _, ev := range events {
		e.feed(ev)
	}
}

func down(ms int64, x, y int32) []event.Event {
	return []event.Event{
		{Type: event.Abs, Code: event.AbsMtSlot, Value: 0},
		{Type: event.Abs, Code: event.AbsMtTrackingId, Value: 1},
		{Type: event.Abs, Code: event.AbsMtPositionX, Value: x},
		{Type: event.Abs, Code: event.AbsMtPositionY, Value: y},
		syncAt(ms),
	}
}

func up(ms int64) []event.Event {
	return []event.Event{
		{Type: event.Abs, Code: event.AbsMtTrackingId, Value: -1},
		syncAt(ms),
	}
}

func TestEngineRecognizesTap(t *testing.T) {
	e, l := newTestEngine(t, config.DefaultConfig())
	e.recorder = replay.NewRecorder(e.decoder.Size())

	feedAll(e, down(1000, 500, 400)...)
	assert.Equal(t, 1, e.orchestrator.TouchCount())
	feedAll(e, up(1040)...)

	recent := l.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, "tap", recent[0].Kind)
	assert.Equal(t, float32(500), recent[0].X)

	rec := e.recorder.Recording()
	require.Len(t, rec.Inputs, 2)
	assert.Equal(t, recognizer.ActionDown, rec.Inputs[0].Action)
	assert.Equal(t, recognizer.ActionUp, rec.Inputs[1].Action)
	assert.Equal(t, 1000.0, rec.Width)
}

func TestEngineAppliesConfigBetweenSessions(t *testing.T) {
	e, _ := newTestEngine(t, config.DefaultConfig())

	feedAll(e, down(1000, 500, 400)...)
	next := config.DefaultConfig()
	next.MultiTouch.Fingers = 3
	e.update(next)
	assert.Equal(t, 2, e.orchestrator.Options().MultiTouchFingers, "セッション中は反映しない")

	feedAll(e, up(1040)...)
	assert.Equal(t, 3, e.orchestrator.Options().MultiTouchFingers)
	assert.Nil(t, e.pending)
}

func TestEngineKeepsOldConfigOnError(t *testing.T) {
	e, _ := newTestEngine(t, config.DefaultConfig())
	before := e.orchestrator

	bad := config.DefaultConfig()
	bad.MultiTouch.Directions = []string{"sideways"}
	e.update(bad)

	assert.Same(t, before, e.orchestrator)
	assert.Nil(t, e.pending)
}

func TestEngineSurfaceSize(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Surface.Width = 500
	cfg.Surface.Height = 400
	e, l := newTestEngine(t, cfg)

	feedAll(e, down(1000, 1000, 800)...)
	feedAll(e, up(1040)...)
	recent := l.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, float32(500), recent[0].X)
	assert.Equal(t, float32(400), recent[0].Y)
}
