package api

import (
	"os"
	"sync"

	"github.com/char5742/swipe-detector/internal/event"
	"github.com/char5742/swipe-detector/internal/features"
)

// fakeScreen はチャネルからイベントを返す TouchScreen
type fakeScreen struct {
	events  chan event.Event
	closed  chan struct{}
	once    sync.Once
	grabbed bool
}

func newFakeScreen() *fakeScreen {
	return &fakeScreen{
		events: make(chan event.Event, 64),
		closed: make(chan struct{}),
	}
}

func (f *fakeScreen) ReadEvent() (event.Event, error) {
	select {
	case ev := <-f.events:
		return ev, nil
	case <-f.closed:
		return event.Event{}, os.ErrClosed
	}
}

func (f *fakeScreen) Axes() (event.Axis, event.Axis) {
	return event.Axis{Min: 0, Max: 1000}, event.Axis{Min: 0, Max: 800}
}

func (f *fakeScreen) Grab() error {
	f.grabbed = true
	return nil
}

func (f *fakeScreen) Release() error {
	f.grabbed = false
	return nil
}

func (f *fakeScreen) Name() string { return "Fake Touchscreen" }

func (f *fakeScreen) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

// tap はスロット0で (x, y) をタップするイベント列を送る
func (f *fakeScreen) tap(ms int64, x, y int32) {
	f.events <- event.Event{Type: event.Abs, Code: event.AbsMtSlot, Value: 0}
	f.events <- event.Event{Type: event.Abs, Code: event.AbsMtTrackingId, Value: 1}
	f.events <- event.Event{Type: event.Abs, Code: event.AbsMtPositionX, Value: x}
	f.events <- event.Event{Type: event.Abs, Code: event.AbsMtPositionY, Value: y}
	f.events <- syncAt(ms)
	f.events <- event.Event{Type: event.Abs, Code: event.AbsMtTrackingId, Value: -1}
	f.events <- syncAt(ms + 40)
}

func syncAt(ms int64) event.Event {
	return event.Event{Sec: ms / 1000, Usec: (ms % 1000) * 1000, Type: event.Syn, Code: event.SynReport}
}

var fakeDevice = features.Device{Name: "Fake Touchscreen", Path: "/dev/input/event9", Direct: true}

func withFakeDevice(s *GestureService, screen *fakeScreen) {
	s.scan = func() ([]features.Device, error) {
		return []features.Device{fakeDevice}, nil
	}
	s.open = func(path string) (features.TouchScreen, error) {
		return screen, nil
	}
}
