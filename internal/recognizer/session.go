package recognizer

import (
	"github.com/char5742/swipe-detector/internal/geometry"
	"github.com/char5742/swipe-detector/internal/gesture"
)

// session は1回の入力セッション（最初の Down から全ての指が離れるまで）の状態
type session struct {
	touchCount int
	recentID   int
	useLatest  bool

	doubleTap bool

	heldID    int
	heldCount int
	heldDrag  bool
	holding   bool

	specialID   int
	specialArea *geometry.Rect
	isSpecial   bool
	wasSpecial  bool
	ranSpecial  bool
	heldSpecial bool
	specialDir  gesture.Direction

	areaID int
	areas  []geometry.Rect

	multiTouch bool
}

// newSession は初期状態のセッションを返す
func newSession(heldDrag bool) session {
	return session{
		recentID:   -1,
		heldID:     -1,
		heldDrag:   heldDrag,
		specialID:  -1,
		specialDir: gesture.Undefined,
		areaID:     -1,
	}
}
