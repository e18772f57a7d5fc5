package phantom

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/char5742/swipe-detector/internal/gesture"
)

// trace は最初の点を Head、最後の点を Tail として軌跡を作る
func trace(y float32, xs ...float32) gesture.Trace {
	points := make(gesture.Trace, len(xs))
	for i, x := range xs {
		role := gesture.Body
		switch i {
		case 0:
			role = gesture.Head
		case len(xs) - 1:
			role = gesture.Tail
		}
		points[i] = gesture.NewPoint(role, x, y, int64(i)*16)
	}
	return points
}

func verticalTrace(x float32, ys ...float32) gesture.Trace {
	points := make(gesture.Trace, len(ys))
	for i, y := range ys {
		role := gesture.Body
		switch i {
		case 0:
			role = gesture.Head
		case len(ys) - 1:
			role = gesture.Tail
		}
		points[i] = gesture.NewPoint(role, x, y, int64(i)*16)
	}
	return points
}

func newClassifier() *Classifier {
	return New(DefaultThresholds(1))
}

func TestDegenerateTraces(t *testing.T) {
	c := newClassifier()
	for _, points := range []gesture.Trace{nil, trace(400, 100), trace(400, 100, 300)} {
		report := c.Classify(points, 1000, 800)
		assert.True(t, report.Phantom, "%d points", len(points))
		assert.Equal(t, 0, report.Segments)
	}
}

func TestSteadySwipe(t *testing.T) {
	c := newClassifier()
	points := trace(400, 100, 150, 200, 250, 300)

	report := c.Classify(points, 1000, 800)
	assert.False(t, report.Phantom)
	assert.Equal(t, 0.0, report.Weight)
	assert.Equal(t, 4, report.Segments)
	assert.Equal(t, 200.0, report.TotalLength)
	assert.Equal(t, 50.0, report.AverageLength)
	assert.Equal(t, 200.0, report.PhantomLength)
	assert.InDelta(t, 15.0, report.DeltaVelocity, 1e-9)
	assert.False(t, report.BadDirections)

	// 静止中とみなされた区間の点は Head に書き換えられる
	for i, p := range points {
		assert.Equal(t, gesture.Head, p.Role, "point %d", i)
	}
}

func TestBackAndForthIsPhantom(t *testing.T) {
	c := newClassifier()
	points := trace(400, 100, 200, 300, 400, 300, 200, 100)

	report := c.Classify(points, 600, 800)
	assert.True(t, report.Phantom)
	assert.True(t, report.BadDirections)
	assert.Equal(t, 7.0, report.Weight)
	assert.Equal(t, 6, report.Segments)
}

func TestShortZigZag(t *testing.T) {
	c := newClassifier()

	// 3区間では方向が確定しないので、方向の乱れによる重みは付かない
	report := c.Classify(trace(400, 100, 110, 100, 110), 1000, 800)
	assert.True(t, report.Phantom)
	assert.False(t, report.BadDirections)
	assert.Equal(t, 12.0, report.Weight)

	sloped := gesture.Trace{
		gesture.NewPoint(gesture.Head, 100, 400, 0),
		gesture.NewPoint(gesture.Body, 110, 405, 16),
		gesture.NewPoint(gesture.Body, 100, 410, 32),
		gesture.NewPoint(gesture.Tail, 110, 415, 48),
	}
	report = c.Classify(sloped, 1000, 800)
	assert.False(t, report.Phantom)
	assert.False(t, report.BadDirections)
	assert.Equal(t, 0.0, report.Weight)
}

func TestTinyEnding(t *testing.T) {
	c := newClassifier()
	report := c.Classify(trace(400, 300, 200, 190), 1000, 800)
	assert.True(t, report.Phantom)
	assert.Equal(t, 2, report.Segments)
	assert.False(t, report.VerticalSave)
}

func TestTinyVerticalSwipeIsSaved(t *testing.T) {
	c := newClassifier()
	report := c.Classify(verticalTrace(500, 400, 300, 290), 1000, 800)
	assert.False(t, report.Phantom)
	assert.True(t, report.VerticalSave)
}

func TestPerfectRun(t *testing.T) {
	var buf bytes.Buffer
	c := newClassifier().WithLogger(log.New(&buf, "", 0))

	report := c.Classify(trace(400, 500, 400, 300, 200, 100), 1000, 800)
	assert.False(t, report.Phantom)
	assert.InDelta(t, 0.125, report.Weight, 1e-9)

	require.NotEmpty(t, report.Lines)
	assert.Contains(t, strings.Join(report.Lines, "\n"), "PERFECT COMBO")
	assert.Contains(t, buf.String(), "GOOD SWIPE")
}

func TestNoLinesWithoutLogger(t *testing.T) {
	report := newClassifier().Classify(trace(400, 500, 400, 300, 200, 100), 1000, 800)
	assert.Empty(t, report.Lines)
}

func TestClassifyHasNoMemory(t *testing.T) {
	c := newClassifier()
	first := c.Classify(trace(400, 100, 150, 200, 250, 300), 1000, 800)
	c.Classify(trace(400, 100, 200, 300, 400, 300, 200, 100), 600, 800)
	again := c.Classify(trace(400, 100, 150, 200, 250, 300), 1000, 800)
	assert.Equal(t, first, again)
}

func TestThresholds(t *testing.T) {
	th := DefaultThresholds(2)
	assert.Equal(t, 2.0, th.Pixel)
	assert.Equal(t, 125.0, th.jumpLength(1000))
	assert.Equal(t, 100.0, th.niceLength(800))
	assert.Equal(t, 20.0, th.averageLength(800))
	assert.True(t, th.vertical(1.57))
	assert.True(t, th.vertical(4.71))
	assert.False(t, th.vertical(3.14))
	assert.False(t, th.vertical(0.8))

	assert.Equal(t, th, New(th).Thresholds())
}
