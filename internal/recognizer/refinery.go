package recognizer

import (
	"github.com/char5742/swipe-detector/internal/geometry"
	"github.com/char5742/swipe-detector/internal/gesture"
)

// refinery は離されたジェスチャーをタップかスワイプに分類する
// タップとファントムスワイプは新しいタップに置き換えられ、元のジェスチャーの子は引き継がれる
func (o *Orchestrator) refinery(g *gesture.Gesture) []*gesture.Gesture {
	if g.Refined() {
		return []*gesture.Gesture{g}
	}
	dir := geometry.ClassifyDirection(g.DeltaX(), g.DeltaY(), o.opts.InvertHorizontal)
	g.SetIgnored(o.timeCheck(g))
	length := g.Length()

	if o.tapCheck(g, dir, length, o.opts.SwipeFactor) {
		g.SetDirection(gesture.Tap)
		o.tapping = true
		return o.refineTap(g, o.listener.OnCheckedTap(g))
	}

	width, height := o.dims.Size()
	report := o.classifier.Classify(g.Points(), width, height)
	g.SetPhantom(report.Phantom)
	if report.Phantom {
		return o.refineTap(g, o.listener.OnPhantomSwipe(g) && !o.isTap(length, dir, 1.0))
	}

	g.SetDirection(dir)
	o.tapping = o.listener.OnDetectedSwipe(g)
	g.Refine()
	return []*gesture.Gesture{g}
}

// timeCheck は前回のリリースから間もない連打中のタッチかを返す
func (o *Orchestrator) timeCheck(g *gesture.Gesture) bool {
	quick := g.PressTime()-o.prevRelease < o.opts.TapTimeLimit.Milliseconds()
	o.prevRelease = g.ReleaseTime()
	return quick && o.tapping
}

func (o *Orchestrator) tapCheck(g *gesture.Gesture, dir gesture.Direction, length, factor float64) bool {
	return o.isTap(length, dir, factor) || dir == gesture.Undefined || o.listener.IgnoreSwipe(g, dir)
}

func (o *Orchestrator) isTap(length float64, dir gesture.Direction, factor float64) bool {
	if dir == gesture.Undefined {
		return true
	}
	_, height := o.dims.Size()
	return length <= o.opts.minimumLength(dir, height)*factor
}

// refineTap は old を始点のタップに置き換える
// split なら始点から最も遠い点にもう1つのタップを作る
func (o *Orchestrator) refineTap(old *gesture.Gesture, split bool) []*gesture.Gesture {
	parent := old.LeaveParent()
	start := old.FirstPoint()
	freed := []*gesture.Gesture{o.makeTap(start, old, parent, split)}
	if split {
		end := geometry.FurthestPoint(start, old.LastPoint(), old.Points())
		freed = append(freed, o.makeTap(end, old, parent, true))
	}
	if parent != nil {
		parent.AdoptChildrenFrom(old)
	} else {
		freed = append(freed, old.AbandonChildren()...)
	}
	return freed
}

func (o *Orchestrator) makeTap(p gesture.Point, old, parent *gesture.Gesture, phantom bool) *gesture.Gesture {
	tap := gesture.New(old.Tag(), old.ID(), p.X, p.Y, p.T, parent)
	tap.SetDirection(gesture.Tap)
	tap.Refine()
	tap.SetPhantom(phantom)
	tap.SetHeld(old.Held())
	tap.SetIgnored(old.Ignored())
	return tap
}

// process は解放されたジェスチャーを順に報告し、その子も続けて処理する
// force なら未解放のジェスチャーも強制的に分類して報告する
func (o *Orchestrator) process(touches []*gesture.Gesture, force bool) {
	o.listener.Preprocess()
	for _, t := range touches {
		switch {
		case t.Freed():
			if !t.Held() {
				o.listener.OnProcessTouch(t)
			}
			o.process(t.AbandonChildren(), force)
		case force:
			o.listener.OnFreedom(t)
			if t.Refined() {
				t.LeaveParent()
				o.process([]*gesture.Gesture{t}, true)
			} else {
				o.process(o.refinery(t), true)
			}
		}
		t.MarkProcessed()
	}
}

// liberate は子が増えすぎた親の木を強制的に処理する
func (o *Orchestrator) liberate(liberator *gesture.Gesture) {
	if liberator == nil {
		return
	}
	o.listener.OnLiberate(liberator)
	o.free(liberator)

	root := liberator.Root()
	if root == liberator {
		return
	}
	if root.Refined() {
		o.process(root.AbandonChildren(), true)
		return
	}
	root.Refine()
	o.process(o.refineTap(root, false), true)
}

func (o *Orchestrator) free(g *gesture.Gesture) {
	o.listener.OnFreedom(g)
	for _, child := range g.AbandonChildren() {
		o.free(child)
	}
}
