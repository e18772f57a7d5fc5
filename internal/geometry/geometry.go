package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/char5742/swipe-detector/internal/gesture"
)

// Delta は a - b を返す
func Delta(a, b float32) float32 {
	return a - b
}

// Length はベクトル (dx, dy) の長さを返す
func Length(dx, dy float32) float64 {
	return math.Hypot(float64(dx), float64(dy))
}

// PointLength は2点間の距離を返す
func PointLength(a, b gesture.Point) float64 {
	return Length(Delta(b.X, a.X), Delta(b.Y, a.Y))
}

// Angle はベクトル (dx, dy) の角度をラジアンで返す
func Angle(dx, dy float32) float64 {
	return math.Atan2(float64(dy), float64(dx))
}

// AngleDelta は前回の角度からの変化量を [0, π] の範囲で返す
func AngleDelta(cur, prev float64) float64 {
	d := cur - prev
	return math.Abs(math.Atan2(math.Sin(d), math.Cos(d)))
}

// Sum は合計を返す
func Sum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values)
}

// Mean は平均を返す。空の場合は0
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StandardDeviation は母標準偏差を返す
// 平均と分母は正の値だけで数える。0 は偏差には含め、負の値は無視する
func StandardDeviation(values []float64) float64 {
	positive := make([]float64, 0, len(values))
	zeros := 0
	for _, v := range values {
		switch {
		case v > 0:
			positive = append(positive, v)
		case v == 0:
			zeros++
		}
	}
	if len(positive) == 0 {
		return 0
	}
	mean, variance := stat.PopMeanVariance(positive, nil)
	variance += float64(zeros) * mean * mean / float64(len(positive))
	return math.Sqrt(variance)
}

// ClassifyDirection は移動量から方向を判定する
// dx, dy は「始点 - 現在点」で与える。縦横が同じ大きさなら縦方向を優先する
func ClassifyDirection(dx, dy float32, invertHorizontal bool) gesture.Direction {
	ax := math.Abs(float64(dx))
	ay := math.Abs(float64(dy))
	if ax+ay == 0 {
		return gesture.Tap
	}

	if ax > ay {
		right := dx < 0
		if invertHorizontal {
			right = !right
		}
		if right {
			return gesture.Right
		}
		return gesture.Left
	}
	if dy < 0 {
		return gesture.Down
	}
	return gesture.Up
}

// FurthestPoint は origin から最も遠い点を返す
// origin より離れた点が無い場合は fallback を返す
func FurthestPoint(origin, fallback gesture.Point, points []gesture.Point) gesture.Point {
	furthest := fallback
	max := 0.0
	for _, p := range points {
		if ln := PointLength(origin, p); ln > max {
			max = ln
			furthest = p
		}
	}
	return furthest
}
