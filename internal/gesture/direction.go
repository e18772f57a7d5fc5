package gesture

import (
	"fmt"
	"strings"
)

// Direction はジェスチャーの方向を表す列挙型
// Tap は「短い距離」ではなく方向を持たない特別な値
type Direction int

const (
	Undefined Direction = iota
	Tap
	Up
	Down
	Left
	Right
)

var directionNames = [...]string{
	Undefined: "undefined",
	Tap:       "tap",
	Up:        "up",
	Down:      "down",
	Left:      "left",
	Right:     "right",
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// IsSwipe は上下左右のいずれかであるかを返す
func (d Direction) IsSwipe() bool {
	return d == Up || d == Down || d == Left || d == Right
}

// ParseDirection は文字列から方向を取得する
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return Undefined, fmt.Errorf("不明な方向です: %q", s)
}

// MarshalText は設定ファイルやJSONで方向名を使うためのもの
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText は方向名から値を復元する
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
