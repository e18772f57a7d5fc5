package geometry

// Rect は画面上の矩形領域を表す構造体
type Rect struct {
	Left   float32 `toml:"left" yaml:"left" json:"left"`
	Top    float32 `toml:"top" yaml:"top" json:"top"`
	Right  float32 `toml:"right" yaml:"right" json:"right"`
	Bottom float32 `toml:"bottom" yaml:"bottom" json:"bottom"`
}

// Contains は点が矩形内（境界を含む）にあるかを返す
func (r Rect) Contains(x, y float32) bool {
	return r.Left <= x && r.Top <= y && r.Right >= x && r.Bottom >= y
}

// ContainsAny はいずれかの矩形に点が含まれるかを返す
func ContainsAny(x, y float32, rects ...Rect) bool {
	for _, r := range rects {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

// Width は矩形の幅を返す
func (r Rect) Width() float32 {
	return r.Right - r.Left
}

// Height は矩形の高さを返す
func (r Rect) Height() float32 {
	return r.Bottom - r.Top
}
