package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop は投入された関数を1つのゴルーチンで順に実行するイベントループ
// 入力イベントとタイマーのコールバックを同じループに流すことで直列化する
type Loop struct {
	events chan func()
	done   chan struct{}
	once   sync.Once
}

// NewLoop は新しいイベントループを作成する
func NewLoop(buffer int) *Loop {
	return &Loop{
		events: make(chan func(), buffer),
		done:   make(chan struct{}),
	}
}

// Run は ctx が終了するまでループを実行する
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			fn()
		}
	}
}

// Post は関数をループに投入する。ループが終了していれば false を返す
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call は関数をループで実行し、完了するまで待つ
func (l *Loop) Call(fn func()) bool {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// Done はループが終了すると閉じられるチャネルを返す
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// After は d 経過後に fn をループ上で実行する
func (l *Loop) After(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			// 投入後に取り消された場合は実行しない
			if t.stopped.Load() {
				return
			}
			t.fired.Store(true)
			fn()
		})
	})
	return t
}

type loopTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
	fired   atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if t.fired.Load() || t.stopped.Swap(true) {
		return false
	}
	t.timer.Stop()
	return true
}
