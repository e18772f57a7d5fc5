// Package ledger はポインタのスロットと進行中のジェスチャーの対応を保持する
package ledger

import "github.com/char5742/swipe-detector/internal/gesture"

// MaxFingers は同時に追跡できる指の数
const MaxFingers = 10

// Ledger は固定長のタッチ台帳
// スロットの再利用はプラットフォーム側の責任で、台帳は保存と消去のみを行う
type Ledger struct {
	touches [MaxFingers]*gesture.Gesture
}

// New は空の台帳を作成する
func New() *Ledger {
	return &Ledger{}
}

func outOfBounds(slot int) bool {
	return slot < 0 || slot >= MaxFingers
}

// Get はスロットのジェスチャーを返す。範囲外や空の場合は nil
func (l *Ledger) Get(slot int) *gesture.Gesture {
	if outOfBounds(slot) {
		return nil
	}
	return l.touches[slot]
}

// Set はスロットにジェスチャーを設定する。範囲外は無視する
func (l *Ledger) Set(slot int, g *gesture.Gesture) {
	if outOfBounds(slot) {
		return
	}
	l.touches[slot] = g
}

// Ignore はスロットが範囲外か空であるかを返す
func (l *Ledger) Ignore(slot int) bool {
	return l.Get(slot) == nil
}

// Latest は最も大きいスロットにあるジェスチャーを返す
func (l *Ledger) Latest() *gesture.Gesture {
	for i := MaxFingers - 1; i >= 0; i-- {
		if l.touches[i] != nil {
			return l.touches[i]
		}
	}
	return nil
}

// Active は使用中のジェスチャーをスロット順に返す
func (l *Ledger) Active() []*gesture.Gesture {
	var active []*gesture.Gesture
	for _, g := range l.touches {
		if g != nil {
			active = append(active, g)
		}
	}
	return active
}

// Len は使用中のスロット数を返す
func (l *Ledger) Len() int {
	n := 0
	for _, g := range l.touches {
		if g != nil {
			n++
		}
	}
	return n
}

// Clear はすべてのスロットを空にする
func (l *Ledger) Clear() {
	for i := range l.touches {
		l.touches[i] = nil
	}
}
