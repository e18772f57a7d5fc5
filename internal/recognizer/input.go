package recognizer

// Action は入力イベントの種類
type Action int

const (
	ActionDown Action = iota
	ActionMove
	ActionUp
	ActionCancel
)

func (a Action) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionMove:
		return "move"
	case ActionUp:
		return "up"
	case ActionCancel:
		return "cancel"
	}
	return "unknown"
}

// Sample は Move に含まれる過去のサンプル
type Sample struct {
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	Time int64   `json:"time"`
}

// PointerSample は Move 時点での1本の指の位置
type PointerSample struct {
	ID      int      `json:"id"`
	X       float32  `json:"x"`
	Y       float32  `json:"y"`
	History []Sample `json:"history,omitempty"`
}

// Input は入力ソースから届く1つのイベント
// Down/Up では ID, X, Y が対象の指を表し、Move では Pointers に全ての指が入る
type Input struct {
	Action   Action          `json:"action"`
	ID       int             `json:"id"`
	X        float32         `json:"x"`
	Y        float32         `json:"y"`
	Time     int64           `json:"time"` // ミリ秒
	Pointers []PointerSample `json:"pointers,omitempty"`
}

// Down は指が触れたイベントを作成する
func Down(id int, x, y float32, t int64) Input {
	return Input{Action: ActionDown, ID: id, X: x, Y: y, Time: t}
}

// Move は指が動いたイベントを作成する
func Move(t int64, pointers ...PointerSample) Input {
	return Input{Action: ActionMove, Time: t, Pointers: pointers}
}

// Up は指が離れたイベントを作成する
func Up(id int, x, y float32, t int64) Input {
	return Input{Action: ActionUp, ID: id, X: x, Y: y, Time: t}
}

// Cancel はセッションを破棄するイベントを作成する
func Cancel(t int64) Input {
	return Input{Action: ActionCancel, Time: t}
}
