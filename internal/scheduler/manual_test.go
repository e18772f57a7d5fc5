package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualRunsTimersInOrder(t *testing.T) {
	m := NewManual()
	var got []string
	m.After(30*time.Millisecond, func() { got = append(got, "c") })
	m.After(10*time.Millisecond, func() { got = append(got, "a") })
	m.After(10*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 20*time.Millisecond, m.Now())
	assert.Equal(t, 1, m.Pending())

	m.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, m.Pending())
}

func TestManualStop(t *testing.T) {
	m := NewManual()
	fired := false
	timer := m.After(10*time.Millisecond, func() { fired = true })

	require.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	m.Advance(time.Second)
	assert.False(t, fired)
}

func TestManualStopAfterFire(t *testing.T) {
	m := NewManual()
	timer := m.After(time.Millisecond, func() {})
	m.Advance(time.Millisecond)
	assert.False(t, timer.Stop())
}

func TestManualChainedTimers(t *testing.T) {
	m := NewManual()
	var at []time.Duration
	var tick func()
	tick = func() {
		at = append(at, m.Now())
		if len(at) < 3 {
			m.After(5*time.Millisecond, tick)
		}
	}
	m.After(5*time.Millisecond, tick)

	m.Advance(100 * time.Millisecond)
	assert.Equal(t, []time.Duration{5 * time.Millisecond, 10 * time.Millisecond, 15 * time.Millisecond}, at)
	assert.Equal(t, 100*time.Millisecond, m.Now())
}

func TestManualAdvanceToPast(t *testing.T) {
	m := NewManual()
	m.Advance(50 * time.Millisecond)
	m.AdvanceTo(10 * time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, m.Now())
}
