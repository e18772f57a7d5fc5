// Package scheduler はオーケストレーターのタイマーを入力と同じスレッドで実行する仕組みを提供する
package scheduler

import "time"

// Timer は取り消し可能な遅延実行
type Timer interface {
	// Stop は実行前であれば取り消して true を返す
	Stop() bool
}

// Scheduler は一定時間後にコールバックを1回実行する
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
}
