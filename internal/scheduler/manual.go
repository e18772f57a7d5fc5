package scheduler

import (
	"sort"
	"time"
)

// Manual は手動で時刻を進めるスケジューラ
// リプレイとテストで使い、Advance を呼んだゴルーチンでコールバックを実行する
type Manual struct {
	now   time.Duration
	seq   int
	tasks []*manualTimer
}

// NewManual は時刻0から始まるスケジューラを作成する
func NewManual() *Manual {
	return &Manual{}
}

type manualTimer struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Now は現在の仮想時刻を返す
func (m *Manual) Now() time.Duration {
	return m.now
}

// After は現在の仮想時刻から d 後に fn を実行する
func (m *Manual) After(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{at: m.now + d, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance は仮想時刻を d だけ進め、期限を迎えたタイマーを順に実行する
func (m *Manual) Advance(d time.Duration) {
	m.AdvanceTo(m.now + d)
}

// AdvanceTo は仮想時刻を at まで進める。過去の時刻は無視する
// コールバック内で設定されたタイマーも期限内であれば同じ呼び出しで実行される
func (m *Manual) AdvanceTo(at time.Duration) {
	for {
		next := m.next(at)
		if next == nil {
			break
		}
		m.now = next.at
		next.fired = true
		next.fn()
	}
	if at > m.now {
		m.now = at
	}
}

// Pending は未実行のタイマーの数を返す
func (m *Manual) Pending() int {
	m.compact()
	return len(m.tasks)
}

// next は at までに期限を迎える最も早いタイマーを返す
func (m *Manual) next(at time.Duration) *manualTimer {
	m.compact()
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].at != m.tasks[j].at {
			return m.tasks[i].at < m.tasks[j].at
		}
		return m.tasks[i].seq < m.tasks[j].seq
	})
	if len(m.tasks) == 0 || m.tasks[0].at > at {
		return nil
	}
	return m.tasks[0]
}

func (m *Manual) compact() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	m.tasks = live
}
