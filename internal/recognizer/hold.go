package recognizer

import (
	"reflect"

	"github.com/char5742/swipe-detector/internal/gesture"
)

// canDoubleTap は保留中のキーと g のキーが一致するかを返す
func (o *Orchestrator) canDoubleTap(g *gesture.Gesture) bool {
	if o.doubleTapKey == nil {
		return false
	}
	return reflect.DeepEqual(o.doubleTapKey, o.listener.DoubleTapKey(g))
}

// doubleTapping は保留中のキーがあればダブルタップの受付時間を開始する
func (o *Orchestrator) doubleTapping() {
	o.timers.disarm(roleDoubleTap)
	o.timers.disarm(roleSpecial)
	if o.doubleTapKey == nil {
		return
	}
	o.timers.arm(roleDoubleTap, o.opts.DoubleTapDelay, func() {
		o.doubleTapKey = nil
	})
}

func (o *Orchestrator) preHolding(g *gesture.Gesture) {
	if !o.listener.CanHold(g) {
		return
	}
	o.session.heldID = g.ID()
	o.timers.arm(roleHold, o.opts.PreHoldDelay, o.preHold)
}

func (o *Orchestrator) preHold() {
	o.session.heldCount = 0
	held := o.ledger.Get(o.session.heldID)
	if held == nil {
		return
	}
	o.listener.OnPreHold(held)
	o.timers.arm(roleHold, o.opts.HoldDelay, o.hold)
}

// hold はホールドを確定し、保留中のダブルタップを無効にする
func (o *Orchestrator) hold() {
	o.session.holding = true
	o.doubleTapKey = nil
	o.timers.disarm(roleDoubleTap)

	held := o.ledger.Get(o.session.heldID)
	if held == nil {
		return
	}
	o.session.heldCount++
	held.SetHeld(true)
	o.listener.OnHold(held)
	if o.listener.RepeatHold(held) {
		o.timers.arm(roleHold, o.opts.PostHoldDelay, o.hold)
	}
}
