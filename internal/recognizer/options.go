package recognizer

import (
	"time"

	"github.com/char5742/swipe-detector/internal/geometry"
	"github.com/char5742/swipe-detector/internal/gesture"
	"github.com/char5742/swipe-detector/internal/phantom"
)

// Options はオーケストレーターの設定
type Options struct {
	InvertHorizontal bool
	HeldDrag         bool // セッション開始時にホールド中のドラッグを有効にする

	SwipeFactor      float64 // 最小スワイプ長に掛ける係数
	MinSwipeRatio    float64 // 高さに対する最小スワイプ長
	DirectionFactors map[gesture.Direction]float64

	TapTimeLimit   time.Duration // 前回のリリースからこの時間内の Down は無視候補
	PreHoldDelay   time.Duration
	HoldDelay      time.Duration
	PostHoldDelay  time.Duration
	DoubleTapDelay time.Duration
	SpecialDelay   time.Duration

	SpecialAreas []geometry.Rect
	Areas        []geometry.Rect

	MultiTouchFingers    int
	MultiTouchDirections []gesture.Direction

	XOffset float32
	YOffset float32

	Phantom phantom.Thresholds
}

// DefaultOptions はデフォルトの設定を返す
func DefaultOptions() Options {
	return Options{
		SwipeFactor:    1.0,
		MinSwipeRatio:  1.0 / 12,
		TapTimeLimit:   150 * time.Millisecond,
		PreHoldDelay:   150 * time.Millisecond,
		HoldDelay:      350 * time.Millisecond,
		PostHoldDelay:  80 * time.Millisecond,
		DoubleTapDelay: 250 * time.Millisecond,
		SpecialDelay:   400 * time.Millisecond,

		MultiTouchFingers: 2,
		MultiTouchDirections: []gesture.Direction{
			gesture.Tap, gesture.Up, gesture.Down, gesture.Left, gesture.Right,
		},

		Phantom: phantom.DefaultThresholds(1),
	}
}

// minimumLength は方向ごとのスワイプとみなす最小の長さ
func (o Options) minimumLength(dir gesture.Direction, height float64) float64 {
	length := height * o.MinSwipeRatio
	if f, ok := o.DirectionFactors[dir]; ok {
		length *= f
	}
	return length
}

func (o Options) multiTouchEnabled(dir gesture.Direction) bool {
	for _, d := range o.MultiTouchDirections {
		if d == dir {
			return true
		}
	}
	return false
}
