// Package recognizer はタッチのライフサイクルを追跡し、ジェスチャーを分類する状態機械
//
// すべての入力イベントとタイマーのコールバックは1つのスレッドで実行される前提で、
// 内部でロックは取らない。
package recognizer

import (
	"github.com/char5742/swipe-detector/internal/geometry"
	"github.com/char5742/swipe-detector/internal/gesture"
	"github.com/char5742/swipe-detector/internal/ledger"
	"github.com/char5742/swipe-detector/internal/phantom"
)

// Orchestrator は Down/Move/Up/Cancel を処理してジェスチャーを分類する
type Orchestrator struct {
	opts       Options
	listener   Listener
	dims       Dimensions
	ledger     *ledger.Ledger
	classifier *phantom.Classifier
	timers     timers
	session    session

	// ダブルタップとタップ連打の判定はセッションをまたぐ
	doubleTapKey any
	prevRelease  int64
	tapping      bool
}

// New は新しいオーケストレーターを作成する
func New(opts Options, l Listener, s Scheduler, d Dimensions) *Orchestrator {
	if l == nil {
		l = NopListener{}
	}
	return &Orchestrator{
		opts:       opts,
		listener:   l,
		dims:       d,
		ledger:     ledger.New(),
		classifier: phantom.New(opts.Phantom),
		timers:     timers{scheduler: s},
		session:    newSession(opts.HeldDrag),
	}
}

// Classifier はファントムスワイプ判定器を返す
func (o *Orchestrator) Classifier() *phantom.Classifier {
	return o.classifier
}

// Options は現在の設定を返す
func (o *Orchestrator) Options() Options {
	return o.opts
}

// Handle は入力イベントを処理する。イベントは常に消費される
func (o *Orchestrator) Handle(in Input) bool {
	switch in.Action {
	case ActionDown:
		return o.down(in)
	case ActionMove:
		return o.move(in)
	case ActionUp:
		return o.up(in)
	case ActionCancel:
		return o.Cancel()
	}
	return true
}

func (o *Orchestrator) down(in Input) bool {
	id := in.ID
	if id < 0 || id >= ledger.MaxFingers {
		return true
	}
	// 保留中のホールドは新しい Down で取り消す
	o.timers.disarm(roleHold)

	// Up が届かずにスロットが再利用された場合は古いジェスチャーを捨てる
	if o.ledger.Get(id) != nil {
		o.removeTouch(o.ledger.Get(id))
	}

	parent := o.ledger.Get(id - 1)
	if o.session.useLatest || (id == 0 && id != o.session.touchCount) {
		parent = o.ledger.Latest()
		if o.session.useLatest && parent != nil && parent.Refined() {
			parent = nil
		}
	}
	o.session.recentID = id

	x, y := o.refineX(in.X), o.refineY(in.Y)
	g := gesture.New(o.listener.CreateTag(in.X, in.Y, x, y), id, x, y, in.Time, parent)

	o.preDown(g)
	o.doubleTapping()
	o.addTouch(g)
	o.preHolding(g)

	if parent != nil && parent.CanLiberate(o.opts.MultiTouchFingers) {
		g.SetParent(nil)
		o.liberate(parent.Liberator())
		o.session.useLatest = true
	}
	return true
}

func (o *Orchestrator) preDown(g *gesture.Gesture) {
	o.determineSpecial(g)
	o.determineArea(g)
	if o.canDoubleTap(g) {
		o.doubleTapKey = nil
		o.session.doubleTap = true
		o.listener.OnDoubleTap(g)
		o.listener.OnTap(g)
		return
	}
	o.doubleTapKey = o.listener.DoubleTapKey(g)
	o.listener.OnTap(g)
}

func (o *Orchestrator) determineSpecial(g *gesture.Gesture) {
	if !o.listener.CanSpecialize(g) {
		return
	}
	o.session.specialArea = nil
	for _, area := range o.opts.SpecialAreas {
		if area.Contains(g.DownX(), g.DownY()) {
			a := area
			o.session.specialArea = &a
			o.session.specialID = g.ID()
			break
		}
	}
}

func (o *Orchestrator) determineArea(g *gesture.Gesture) {
	if !o.listener.CanBeInArea(g) {
		return
	}
	o.session.areas = o.session.areas[:0]
	for _, area := range o.opts.Areas {
		if area.Contains(g.DownX(), g.DownY()) {
			o.session.areas = append(o.session.areas, area)
			o.session.areaID = g.ID()
		}
	}
}

func (o *Orchestrator) move(in Input) bool {
	history := 0
	for _, p := range in.Pointers {
		if len(p.History) > history {
			history = len(p.History)
		}
	}
	for h := 0; h < history; h++ {
		for _, p := range in.Pointers {
			if h >= len(p.History) {
				continue
			}
			if g := o.ledger.Get(p.ID); g != nil {
				s := p.History[h]
				g.AddPoint(gesture.NewPoint(gesture.Body, o.refineX(s.X), o.refineY(s.Y), s.Time))
			}
		}
	}
	for _, p := range in.Pointers {
		if g := o.ledger.Get(p.ID); g != nil {
			g.AddPoint(gesture.NewPoint(gesture.Body, o.refineX(p.X), o.refineY(p.Y), in.Time))
		}
	}

	special := o.ledger.Get(o.session.specialID)
	held := o.ledger.Get(o.session.heldID)
	switch {
	case !o.session.holding && o.session.specialArea != nil && special != nil:
		o.specialDrag(special, *o.session.specialArea)
	case o.session.heldDrag && o.session.holding && held != nil:
		if replaced := o.listener.OnHeldDrag(held, o.rawX(held.UpX()), o.rawY(held.UpY())); replaced != nil {
			o.ledger.Set(o.session.heldID, replaced)
		}
	}
	return true
}

func (o *Orchestrator) up(in Input) bool {
	g := o.ledger.Get(in.ID)
	if g == nil {
		return true
	}
	g.AddPoint(gesture.NewPoint(gesture.Tail, o.refineX(in.X), o.refineY(in.Y), in.Time))
	o.timers.disarm(roleHold)

	if g.ID() == o.session.heldID {
		if o.listener.OnProcessHold(g) {
			g.Refine()
		}
	}
	if g.ID() == o.session.specialID {
		o.session.wasSpecial = o.listener.OnProcessSpecial(g, o.session.specialArea, o.session.specialDir, o.session.heldSpecial)
	}
	if !o.session.holding && !o.session.wasSpecial {
		if o.listener.CanMultiTouch(g) {
			o.evaluateMultiTouch()
		}
		if !o.session.multiTouch && !g.Refined() {
			o.process(o.refinery(g), false)
		}
	}

	o.removeTouch(g)
	if o.session.touchCount == 0 {
		o.timers.disarm(roleSpecial)
		o.listener.OnRelease(g)
		o.resetSession()
	}
	return true
}

// Cancel はすべてのタイマーと台帳を消去し、セッションを初期化する
func (o *Orchestrator) Cancel() bool {
	o.timers.disarmAll()
	o.doubleTapKey = nil
	o.ledger.Clear()
	o.listener.HardReset()
	o.resetSession()
	return true
}

func (o *Orchestrator) resetSession() {
	o.listener.OnReset()
	o.session = newSession(o.opts.HeldDrag)
}

func (o *Orchestrator) addTouch(g *gesture.Gesture) {
	o.ledger.Set(g.ID(), g)
	o.session.touchCount++
}

func (o *Orchestrator) removeTouch(g *gesture.Gesture) {
	o.ledger.Set(g.ID(), nil)
	o.session.touchCount--
}

func (o *Orchestrator) refineX(x float32) float32 { return x + o.opts.XOffset }
func (o *Orchestrator) refineY(y float32) float32 { return y + o.opts.YOffset }
func (o *Orchestrator) rawX(x float32) float32    { return x - o.opts.XOffset }
func (o *Orchestrator) rawY(y float32) float32    { return y - o.opts.YOffset }

// Touch はスロットにある進行中のジェスチャーを返す
func (o *Orchestrator) Touch(slot int) *gesture.Gesture {
	return o.ledger.Get(slot)
}

// Touches は進行中のジェスチャーをスロット順に返す
func (o *Orchestrator) Touches() []*gesture.Gesture {
	return o.ledger.Active()
}

func (o *Orchestrator) RecentID() int      { return o.session.recentID }
func (o *Orchestrator) TouchCount() int    { return o.session.touchCount }
func (o *Orchestrator) HeldCount() int     { return o.session.heldCount }
func (o *Orchestrator) IsHolding() bool    { return o.session.holding }
func (o *Orchestrator) IsDoubleTap() bool  { return o.session.doubleTap }
func (o *Orchestrator) CanHoldDrag() bool  { return o.session.heldDrag }
func (o *Orchestrator) IsMultiTouch() bool { return o.session.multiTouch }

// EnableHeldDrag はこのセッションでホールド中のドラッグを有効にする
func (o *Orchestrator) EnableHeldDrag() {
	o.session.heldDrag = true
}

// IsSpecialDragging は特殊領域の外までドラッグ中かを返す
func (o *Orchestrator) IsSpecialDragging() bool {
	return o.session.isSpecial
}

// SpecialArea は Down 時に決まった特殊領域を返す
func (o *Orchestrator) SpecialArea() (geometry.Rect, bool) {
	if o.session.specialArea == nil {
		return geometry.Rect{}, false
	}
	return *o.session.specialArea, true
}

// SpecialDirection は特殊ドラッグで確定した方向を返す
func (o *Orchestrator) SpecialDirection() gesture.Direction {
	return o.session.specialDir
}

// IsSpecialArea は area が現在の特殊領域かを返す
func (o *Orchestrator) IsSpecialArea(area geometry.Rect) bool {
	return o.session.specialArea != nil && *o.session.specialArea == area
}

// InAnArea は Down がいずれかの通常領域内だったかを返す
func (o *Orchestrator) InAnArea() bool {
	return len(o.session.areas) > 0
}

// IsInArea は area が Down 時に一致した領域に含まれるかを返す
func (o *Orchestrator) IsInArea(area geometry.Rect) bool {
	for _, a := range o.session.areas {
		if a == area {
			return true
		}
	}
	return false
}

// IsGestureInArea は g が領域判定されたジェスチャーかを返す
func (o *Orchestrator) IsGestureInArea(g *gesture.Gesture) bool {
	return g != nil && g.ID() == o.session.areaID
}
