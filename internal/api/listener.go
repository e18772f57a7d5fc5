package api

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/char5742/swipe-detector/internal/geometry"
	"github.com/char5742/swipe-detector/internal/gesture"
	"github.com/char5742/swipe-detector/internal/recognizer"
)

// GestureRecord は認識したジェスチャーの記録
type GestureRecord struct {
	Session   string            `json:"session"`
	Kind      string            `json:"kind"`
	Slot      int               `json:"slot"`
	Direction gesture.Direction `json:"direction"`
	Fingers   int               `json:"fingers,omitempty"`
	X         float32           `json:"x"`
	Y         float32           `json:"y"`
	UpX       float32           `json:"up_x"`
	UpY       float32           `json:"up_y"`
	Length    float64           `json:"length"`
	Duration  int64             `json:"duration"`
	Phantom   bool              `json:"phantom"`
	Ignored   bool              `json:"ignored"`
	Held      bool              `json:"held"`
	At        time.Time         `json:"at"`
}

// LogListener はコールバックをログに出力し、最近のジェスチャーを保持する
// コールバックはイベントループから、Recent は HTTP ハンドラから呼ばれる
type LogListener struct {
	recognizer.NopListener

	mutex    sync.RWMutex
	session  string
	recent   []GestureRecord
	capacity int
	now      func() time.Time
}

// NewLogListener は最大 capacity 件を保持する LogListener を作成する
func NewLogListener(capacity int) *LogListener {
	if capacity < 1 {
		capacity = 1
	}
	return &LogListener{
		session:  uuid.NewString(),
		capacity: capacity,
		now:      time.Now,
	}
}

// Session は現在のセッションIDを返す
func (l *LogListener) Session() string {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.session
}

// Recent は新しい順にジェスチャーの記録を返す
func (l *LogListener) Recent() []GestureRecord {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	out := make([]GestureRecord, len(l.recent))
	for i, r := range l.recent {
		out[len(l.recent)-1-i] = r
	}
	return out
}

func (l *LogListener) record(kind string, g *gesture.Gesture, fingers int, dir gesture.Direction) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	r := GestureRecord{
		Session:   l.session,
		Kind:      kind,
		Slot:      g.ID(),
		Direction: dir,
		Fingers:   fingers,
		X:         g.DownX(),
		Y:         g.DownY(),
		UpX:       g.UpX(),
		UpY:       g.UpY(),
		Length:    g.Length(),
		Duration:  g.Duration(),
		Phantom:   g.Phantom(),
		Ignored:   g.Ignored(),
		Held:      g.Held(),
		At:        l.now(),
	}
	if len(l.recent) == l.capacity {
		copy(l.recent, l.recent[1:])
		l.recent = l.recent[:len(l.recent)-1]
	}
	l.recent = append(l.recent, r)
}

func (l *LogListener) OnDoubleTap(g *gesture.Gesture) {
	log.Printf("[%s] ダブルタップ: slot=%d (%.0f, %.0f)", l.Session(), g.ID(), g.DownX(), g.DownY())
	l.record("double_tap", g, 0, gesture.Tap)
}

func (l *LogListener) OnHold(g *gesture.Gesture) {
	log.Printf("[%s] ホールド: slot=%d (%.0f, %.0f)", l.Session(), g.ID(), g.DownX(), g.DownY())
	l.record("hold", g, 0, gesture.Undefined)
}

func (l *LogListener) OnSpecialArea(g *gesture.Gesture, area geometry.Rect) {
	log.Printf("[%s] 特殊領域: slot=%d area=%+v", l.Session(), g.ID(), area)
}

func (l *LogListener) OnSpecialDrag(g *gesture.Gesture, area geometry.Rect, delta float32, dir gesture.Direction) bool {
	log.Printf("[%s] 特殊ドラッグ: slot=%d %s %.1f", l.Session(), g.ID(), dir, delta)
	return false
}

func (l *LogListener) OnMultiTouch(touches []*gesture.Gesture, dir gesture.Direction) bool {
	if len(touches) == 0 {
		return false
	}
	log.Printf("[%s] %d本指ジェスチャー: %s", l.Session(), len(touches), dir)
	l.record("multi_touch", touches[0], len(touches), dir)
	return true
}

func (l *LogListener) OnProcessTouch(g *gesture.Gesture) {
	kind := "swipe"
	if g.Direction() == gesture.Tap {
		kind = "tap"
	}
	if g.Ignored() {
		log.Printf("[%s] 連打中のため無視: slot=%d %s", l.Session(), g.ID(), g.Direction())
	} else {
		log.Printf("[%s] %s: slot=%d %s (%.0f, %.0f) phantom=%v",
			l.Session(), kind, g.ID(), g.Direction(), g.DownX(), g.DownY(), g.Phantom())
	}
	l.record(kind, g, 0, g.Direction())
}

// OnReset はセッションの終わりに新しいセッションIDを発行する
func (l *LogListener) OnReset() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.session = uuid.NewString()
}

func (l *LogListener) HardReset() {
	log.Printf("[%s] 入力をキャンセルしました", l.Session())
}
