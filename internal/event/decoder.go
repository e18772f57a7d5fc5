package event

import (
	"github.com/char5742/swipe-detector/internal/ledger"
	"github.com/char5742/swipe-detector/internal/recognizer"
)

// Axis はデバイスの座標軸の範囲
type Axis struct {
	Min int32 `json:"min"`
	Max int32 `json:"max"`
}

func (a Axis) span() float64 {
	return float64(a.Max - a.Min)
}

// scale は生の座標を 0..size の範囲に変換する
func (a Axis) scale(v int32, size float64) float32 {
	if a.span() <= 0 || size <= 0 {
		return float32(v - a.Min)
	}
	return float32(float64(v-a.Min) / a.span() * size)
}

// Filter は指ごとの座標を加工する
type Filter interface {
	Filter(slot int, x, y float32) (float32, float32)
	Reset(slot int)
}

type slot struct {
	tracking int32 // -1 は指が離れている
	prev     int32 // 直前の SYN_REPORT 時点の tracking
	x, y     int32
	lastX    float32
	lastY    float32
	dirty    bool
}

// Decoder はマルチタッチプロトコルBのイベント列を認識器の入力に変換する
// SYN_REPORT ごとに Move, Up, Down の順で入力を出力する
type Decoder struct {
	x, y    Axis
	width   float64
	height  float64
	filter  Filter
	current int
	slots   [ledger.MaxFingers]slot
	dropped bool
}

// NewDecoder は新しいデコーダーを作成する
// width, height が 0 の場合は座標軸の範囲をそのまま大きさとする
func NewDecoder(x, y Axis, width, height float64) *Decoder {
	if width <= 0 {
		width = x.span()
	}
	if height <= 0 {
		height = y.span()
	}
	d := &Decoder{x: x, y: y, width: width, height: height}
	d.reset()
	return d
}

// WithFilter は座標のフィルターを設定する
func (d *Decoder) WithFilter(f Filter) *Decoder {
	d.filter = f
	return d
}

// Size は変換後の入力面の大きさを返す
func (d *Decoder) Size() (float64, float64) {
	return d.width, d.height
}

func (d *Decoder) reset() {
	d.current = 0
	for i := range d.slots {
		d.slots[i] = slot{tracking: -1, prev: -1}
		if d.filter != nil {
			d.filter.Reset(i)
		}
	}
}

func (d *Decoder) slot() *slot {
	if d.current < 0 || d.current >= len(d.slots) {
		return nil
	}
	return &d.slots[d.current]
}

// Feed は1つのイベントを処理し、SYN で確定した入力を返す
func (d *Decoder) Feed(e Event) []recognizer.Input {
	switch e.Type {
	case Abs:
		if !d.dropped {
			d.abs(e.Code, e.Value)
		}
	case Syn:
		switch e.Code {
		case SynDropped:
			// 次の SYN_REPORT までのイベントは破棄する
			d.dropped = true
			d.reset()
			return []recognizer.Input{recognizer.Cancel(e.Millis())}
		case SynReport:
			if d.dropped {
				d.dropped = false
				return nil
			}
			return d.report(e.Millis())
		}
	}
	return nil
}

func (d *Decoder) abs(code uint16, value int32) {
	if code == AbsMtSlot {
		d.current = int(value)
		return
	}
	s := d.slot()
	if s == nil {
		return
	}
	switch code {
	case AbsMtTrackingId:
		s.tracking = value
	case AbsMtPositionX:
		s.x = value
		s.dirty = true
	case AbsMtPositionY:
		s.y = value
		s.dirty = true
	}
}

func (d *Decoder) position(i int, s *slot) (float32, float32) {
	if !s.dirty {
		return s.lastX, s.lastY
	}
	x := d.x.scale(s.x, d.width)
	y := d.y.scale(s.y, d.height)
	if d.filter != nil {
		x, y = d.filter.Filter(i, x, y)
	}
	s.lastX, s.lastY = x, y
	s.dirty = false
	return x, y
}

func (d *Decoder) report(t int64) []recognizer.Input {
	var out []recognizer.Input

	// 継続中の指
	var pointers []recognizer.PointerSample
	moved := false
	for i := range d.slots {
		s := &d.slots[i]
		if s.prev < 0 || s.tracking != s.prev {
			continue
		}
		moved = moved || s.dirty
		x, y := d.position(i, s)
		pointers = append(pointers, recognizer.PointerSample{ID: i, X: x, Y: y})
	}
	if moved {
		out = append(out, recognizer.Move(t, pointers...))
	}

	// 離れた指
	for i := range d.slots {
		s := &d.slots[i]
		if s.prev >= 0 && s.tracking != s.prev {
			x, y := d.position(i, s)
			out = append(out, recognizer.Up(i, x, y, t))
		}
	}

	// 新しく触れた指
	for i := range d.slots {
		s := &d.slots[i]
		if s.tracking >= 0 && s.tracking != s.prev {
			if d.filter != nil {
				d.filter.Reset(i)
			}
			s.dirty = true
			x, y := d.position(i, s)
			out = append(out, recognizer.Down(i, x, y, t))
		}
		s.prev = s.tracking
	}
	return out
}
