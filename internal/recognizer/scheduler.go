package recognizer

import (
	"time"

	"github.com/char5742/swipe-detector/internal/scheduler"
)

// Scheduler は一定時間後にコールバックを1回実行する
// コールバックは入力イベントと同じスレッドで実行されなければならない
type Scheduler = scheduler.Scheduler

// Timer は取り消し可能な遅延実行
type Timer = scheduler.Timer

// Dimensions は入力面の現在の大きさを提供する
type Dimensions interface {
	Size() (width, height float64)
}

// FixedSize は固定の大きさを返す Dimensions
type FixedSize struct {
	Width  float64
	Height float64
}

func (f FixedSize) Size() (float64, float64) {
	return f.Width, f.Height
}

type timerRole int

const (
	roleHold timerRole = iota
	roleDoubleTap
	roleSpecial
	roleCount
)

// timers は役割ごとに最大1つのタイマーを保持する
type timers struct {
	scheduler Scheduler
	armed     [roleCount]Timer
}

// arm は同じ役割の既存タイマーを取り消してから新しいタイマーを設定する
func (t *timers) arm(role timerRole, d time.Duration, fn func()) {
	t.disarm(role)
	var timer Timer
	timer = t.scheduler.After(d, func() {
		if t.armed[role] == timer {
			t.armed[role] = nil
		}
		fn()
	})
	t.armed[role] = timer
}

func (t *timers) disarm(role timerRole) {
	if t.armed[role] != nil {
		t.armed[role].Stop()
		t.armed[role] = nil
	}
}

func (t *timers) disarmAll() {
	for role := timerRole(0); role < roleCount; role++ {
		t.disarm(role)
	}
}
