package recognizer

import (
	"github.com/char5742/swipe-detector/internal/geometry"
	"github.com/char5742/swipe-detector/internal/gesture"
)

// evaluateMultiTouch はセッション中に1度だけ複数指ジェスチャーを判定する
func (o *Orchestrator) evaluateMultiTouch() {
	if o.session.multiTouch || o.session.touchCount != o.opts.MultiTouchFingers {
		return
	}
	dir := o.MultiTouchDirection()
	if dir == gesture.Undefined {
		return
	}
	o.session.multiTouch = o.listener.OnMultiTouch(o.ledger.Active(), dir)
}

// MultiTouchDirection は進行中のすべてのタッチが同じ方向に動いていればその方向を返す
// 指の数が足りない場合や方向が無効な場合は Undefined
func (o *Orchestrator) MultiTouchDirection() gesture.Direction {
	active := o.ledger.Active()
	if o.session.multiTouch || len(active) != o.opts.MultiTouchFingers {
		return gesture.Undefined
	}
	counts := make(map[gesture.Direction]int)
	for _, g := range active {
		dir := geometry.ClassifyDirection(g.DeltaX(), g.DeltaY(), o.opts.InvertHorizontal)
		if o.tapCheck(g, dir, g.Length(), 1.0) {
			dir = gesture.Tap
		}
		counts[dir]++
		if counts[dir] == o.opts.MultiTouchFingers && o.opts.multiTouchEnabled(dir) {
			return dir
		}
	}
	return gesture.Undefined
}
