package recognizer

import (
	"github.com/char5742/swipe-detector/internal/geometry"
	"github.com/char5742/swipe-detector/internal/gesture"
)

// specialDrag は特殊領域から始まったタッチの移動を処理する
// 領域内にいる間は OnSpecialArea、外に出たら領域の辺からの距離で OnSpecialDrag を呼ぶ
func (o *Orchestrator) specialDrag(g *gesture.Gesture, area geometry.Rect) {
	x, y := g.UpX(), g.UpY()
	o.session.isSpecial = !area.Contains(x, y)
	if !o.session.isSpecial {
		o.listener.OnSpecialArea(g, area)
		return
	}

	if o.session.specialDir == gesture.Undefined {
		o.session.specialDir = geometry.ClassifyDirection(g.DeltaX(), g.DeltaY(), false)
	}
	o.doubleTapKey = nil
	o.timers.disarm(roleHold)

	dir := o.session.specialDir
	var delta float32
	switch dir {
	case gesture.Left:
		delta = area.Left - x
	case gesture.Up:
		delta = area.Top - y
	case gesture.Right:
		delta = x - area.Right
	case gesture.Down:
		delta = y - area.Bottom
	default:
		return
	}

	if o.listener.InSpecialHold(g, area, dir) {
		if !o.session.ranSpecial {
			o.session.ranSpecial = true
			o.timers.arm(roleSpecial, o.opts.SpecialDelay, func() {
				if o.ledger.Get(o.session.specialID) != nil && o.session.touchCount > 0 {
					o.session.heldSpecial = o.listener.OnSpecialHold(area)
				}
			})
		}
		return
	}
	o.listener.OnSpecialDrag(g, area, delta, dir)
	o.session.ranSpecial = false
	o.timers.disarm(roleSpecial)
}
