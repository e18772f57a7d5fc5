package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	l := NewLoop(16)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)
	return l, cancel
}

func TestLoopCall(t *testing.T) {
	l, _ := startLoop(t)

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		require.True(t, l.Post(func() { order = append(order, i) }))
	}
	var snapshot []int
	require.True(t, l.Call(func() { snapshot = append(snapshot, order...) }))
	assert.Equal(t, []int{0, 1, 2}, snapshot)
}

func TestLoopAfterRunsOnLoop(t *testing.T) {
	l, _ := startLoop(t)

	fired := make(chan struct{})
	l.After(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestLoopStoppedTimerNeverRuns(t *testing.T) {
	l, _ := startLoop(t)

	fired := make(chan struct{}, 1)
	var timer Timer
	require.True(t, l.Call(func() {
		timer = l.After(20*time.Millisecond, func() { fired <- struct{}{} })
	}))
	var stopped bool
	require.True(t, l.Call(func() { stopped = timer.Stop() }))
	assert.True(t, stopped)

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestLoopPostAfterShutdown(t *testing.T) {
	l, cancel := startLoop(t)
	cancel()
	<-l.Done()
	assert.False(t, l.Post(func() {}))
	assert.False(t, l.Call(func() {}))
}
