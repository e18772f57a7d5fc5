package recognizer

import (
	"github.com/char5742/swipe-detector/internal/geometry"
	"github.com/char5742/swipe-detector/internal/gesture"
)

// Listener はオーケストレーターが呼び出すコールバックの集合
// 判定を返すメソッドと通知のみのメソッドがある
type Listener interface {
	// CreateTag は Down 時にジェスチャーに付けるタグを作成する
	CreateTag(rawX, rawY, x, y float32) any
	// DoubleTapKey はダブルタップ判定に使うキーを返す。nil なら判定しない
	DoubleTapKey(g *gesture.Gesture) any
	CanHold(g *gesture.Gesture) bool
	RepeatHold(g *gesture.Gesture) bool
	CanSpecialize(g *gesture.Gesture) bool
	CanBeInArea(g *gesture.Gesture) bool
	CanMultiTouch(g *gesture.Gesture) bool
	// IgnoreSwipe が true を返したスワイプはタップとして扱われる
	IgnoreSwipe(g *gesture.Gesture, dir gesture.Direction) bool
	InSpecialHold(g *gesture.Gesture, area geometry.Rect, dir gesture.Direction) bool

	OnTap(g *gesture.Gesture)
	OnDoubleTap(g *gesture.Gesture)
	OnPreHold(g *gesture.Gesture)
	OnHold(g *gesture.Gesture)
	// OnProcessHold が true を返すと、そのジェスチャーは処理済みとして分類されない
	OnProcessHold(g *gesture.Gesture) bool

	OnSpecialArea(g *gesture.Gesture, area geometry.Rect)
	OnSpecialDrag(g *gesture.Gesture, area geometry.Rect, delta float32, dir gesture.Direction) bool
	OnSpecialHold(area geometry.Rect) bool
	OnProcessSpecial(g *gesture.Gesture, area *geometry.Rect, dir gesture.Direction, wasHeld bool) bool
	// OnHeldDrag は差し替えたジェスチャーを返せる。返り値は台帳に保存される
	OnHeldDrag(g *gesture.Gesture, rawX, rawY float32) *gesture.Gesture

	OnMultiTouch(touches []*gesture.Gesture, dir gesture.Direction) bool

	// OnCheckedTap が true を返したタップは始点と最遠点の2つのタップに分割される
	OnCheckedTap(g *gesture.Gesture) bool
	// OnPhantomSwipe が true を返すとファントムスワイプを2つのタップに分割する
	OnPhantomSwipe(g *gesture.Gesture) bool
	// OnDetectedSwipe はタップ連打中とみなし続けるかを返す
	OnDetectedSwipe(g *gesture.Gesture) bool

	Preprocess()
	OnProcessTouch(g *gesture.Gesture)
	OnFreedom(g *gesture.Gesture)
	OnLiberate(g *gesture.Gesture)
	OnRelease(g *gesture.Gesture)
	OnReset()
	HardReset()
}

// NopListener はすべてのコールバックのデフォルト実装
// 必要なメソッドだけを上書きするために埋め込んで使う
type NopListener struct{}

var _ Listener = NopListener{}

func (NopListener) CreateTag(rawX, rawY, x, y float32) any               { return nil }
func (NopListener) DoubleTapKey(g *gesture.Gesture) any                  { return nil }
func (NopListener) CanHold(g *gesture.Gesture) bool                      { return true }
func (NopListener) RepeatHold(g *gesture.Gesture) bool                   { return false }
func (NopListener) CanSpecialize(g *gesture.Gesture) bool                { return true }
func (NopListener) CanBeInArea(g *gesture.Gesture) bool                  { return true }
func (NopListener) CanMultiTouch(g *gesture.Gesture) bool                { return true }
func (NopListener) IgnoreSwipe(*gesture.Gesture, gesture.Direction) bool { return false }
func (NopListener) InSpecialHold(*gesture.Gesture, geometry.Rect, gesture.Direction) bool {
	return false
}

func (NopListener) OnTap(*gesture.Gesture)              {}
func (NopListener) OnDoubleTap(*gesture.Gesture)        {}
func (NopListener) OnPreHold(*gesture.Gesture)          {}
func (NopListener) OnHold(*gesture.Gesture)             {}
func (NopListener) OnProcessHold(*gesture.Gesture) bool { return false }

func (NopListener) OnSpecialArea(*gesture.Gesture, geometry.Rect) {}
func (NopListener) OnSpecialDrag(*gesture.Gesture, geometry.Rect, float32, gesture.Direction) bool {
	return false
}
func (NopListener) OnSpecialHold(geometry.Rect) bool { return false }
func (NopListener) OnProcessSpecial(*gesture.Gesture, *geometry.Rect, gesture.Direction, bool) bool {
	return false
}
func (NopListener) OnHeldDrag(g *gesture.Gesture, rawX, rawY float32) *gesture.Gesture { return g }

func (NopListener) OnMultiTouch([]*gesture.Gesture, gesture.Direction) bool { return false }

func (NopListener) OnCheckedTap(*gesture.Gesture) bool    { return false }
func (NopListener) OnPhantomSwipe(*gesture.Gesture) bool  { return true }
func (NopListener) OnDetectedSwipe(*gesture.Gesture) bool { return false }

func (NopListener) Preprocess()                     {}
func (NopListener) OnProcessTouch(*gesture.Gesture) {}
func (NopListener) OnFreedom(*gesture.Gesture)      {}
func (NopListener) OnLiberate(*gesture.Gesture)     {}
func (NopListener) OnRelease(*gesture.Gesture)      {}
func (NopListener) OnReset()                        {}
func (NopListener) HardReset()                      {}
