package gesture

// Role は軌跡上での点の役割
type Role int

const (
	Head Role = iota
	Body
	Tail
)

func (r Role) String() string {
	switch r {
	case Head:
		return "head"
	case Body:
		return "body"
	case Tail:
		return "tail"
	}
	return "unknown"
}

// Point はタイムスタンプ付きの2次元サンプル
type Point struct {
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	T    int64   `json:"t"` // 単調増加するミリ秒
	Role Role    `json:"role"`
}

// NewPoint は新しい点を作成する
func NewPoint(role Role, x, y float32, t int64) Point {
	return Point{X: x, Y: y, T: t, Role: role}
}

// Trace は1本の指の軌跡。追加のみ可能
type Trace []Point
