package gesture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGesture(t *testing.T) {
	g := New("tag", 3, 100, 200, 10, nil)
	require.Len(t, g.Points(), 1)
	assert.Equal(t, Head, g.FirstPoint().Role)
	assert.Equal(t, 3, g.ID())
	assert.Equal(t, "tag", g.Tag())
	assert.Equal(t, Undefined, g.Direction())
	assert.True(t, g.Orphaned())
	assert.False(t, g.Freed())

	g.AddPoint(NewPoint(Body, 150, 180, 20))
	g.AddPoint(NewPoint(Tail, 200, 150, 40))
	assert.Equal(t, int64(10), g.PressTime())
	assert.Equal(t, int64(40), g.ReleaseTime())
	assert.Equal(t, int64(30), g.Duration())
	assert.Equal(t, float32(-100), g.DeltaX())
	assert.Equal(t, float32(50), g.DeltaY())
	assert.InDelta(t, math.Hypot(100, 50), g.Length(), 1e-9)

	g.SetRole(1, Head)
	assert.Equal(t, Head, g.Points()[1].Role)
	g.SetRole(10, Head)
}

func TestFlags(t *testing.T) {
	g := New(nil, 0, 0, 0, 0, nil)
	g.SetHeld(true)
	g.SetIgnored(true)
	g.SetPhantom(true)
	g.MarkProcessed()
	g.SetDirection(Left)
	assert.True(t, g.Held())
	assert.True(t, g.Ignored())
	assert.True(t, g.Phantom())
	assert.True(t, g.Processed())
	assert.Equal(t, Left, g.Direction())

	assert.False(t, g.Freed())
	g.Refine()
	assert.True(t, g.Freed())
}

func TestRadian(t *testing.T) {
	up := New(nil, 0, 100, 400, 0, nil)
	up.AddPoint(NewPoint(Tail, 100, 300, 10))
	assert.InDelta(t, 4.709, up.Radian(), 1e-3)

	down := New(nil, 0, 100, 300, 0, nil)
	down.AddPoint(NewPoint(Tail, 100, 400, 10))
	assert.InDelta(t, math.Pi/2, down.Radian(), 1e-9)

	assert.Equal(t, 0.0, TraceRadian(nil))
}

func TestTree(t *testing.T) {
	root := New(nil, 0, 0, 0, 0, nil)
	a := New(nil, 1, 0, 0, 0, root)
	b := New(nil, 2, 0, 0, 0, root)
	c := New(nil, 3, 0, 0, 0, a)

	assert.Same(t, root, c.Root())
	assert.Same(t, a, c.Parent())
	assert.Equal(t, 2, root.ChildCount())
	assert.True(t, root.CanLiberate(2))
	assert.False(t, root.CanLiberate(3))
	assert.Same(t, b, root.Liberator())
	assert.Same(t, c, c.Liberator())

	// 子のコピーを変更しても元には影響しない
	children := root.Children()
	children[0] = nil
	assert.Same(t, a, root.Children()[0])

	parent := a.LeaveParent()
	assert.Same(t, root, parent)
	assert.Nil(t, a.Parent())
	assert.Equal(t, []*Gesture{b}, root.Children())

	root.AdoptChildrenFrom(a)
	assert.Same(t, root, c.Parent())
	assert.Equal(t, []*Gesture{b, c}, root.Children())
	assert.False(t, a.HasChildren())

	c.SetParent(nil)
	assert.True(t, c.Orphaned())
	assert.Equal(t, []*Gesture{b}, root.Children())

	abandoned := root.AbandonChildren()
	assert.Equal(t, []*Gesture{b}, abandoned)
	assert.False(t, b.HasParent())
	assert.Nil(t, root.AbandonChildren())
}

func TestDirectionText(t *testing.T) {
	for _, d := range []Direction{Undefined, Tap, Up, Down, Left, Right} {
		text, err := d.MarshalText()
		require.NoError(t, err)
		var got Direction
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, d, got)
	}

	d, err := ParseDirection(" Left ")
	require.NoError(t, err)
	assert.Equal(t, Left, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
	assert.Equal(t, "Direction(42)", Direction(42).String())

	assert.True(t, Up.IsSwipe())
	assert.False(t, Tap.IsSwipe())
}
