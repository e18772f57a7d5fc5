package gesture

import "math"

// Gesture は1本の指の連続した接触を表す
// 親は所有しない逆参照で、子のリストはこのジェスチャーが所有する
type Gesture struct {
	id       int
	tag      any
	points   Trace
	parent   *Gesture
	children []*Gesture

	held      bool
	refined   bool
	ignored   bool
	phantom   bool
	processed bool
	direction Direction
}

// New は Head の点を1つ持つジェスチャーを作成し、親があれば子として登録する
func New(tag any, id int, x, y float32, t int64, parent *Gesture) *Gesture {
	g := &Gesture{
		id:     id,
		tag:    tag,
		parent: parent,
		points: Trace{NewPoint(Head, x, y, t)},
	}
	if parent != nil {
		parent.haveChild(g)
	}
	return g
}

func (g *Gesture) ID() int  { return g.id }
func (g *Gesture) Tag() any { return g.tag }

// SetTag はタグを差し替える
func (g *Gesture) SetTag(tag any) { g.tag = tag }

func (g *Gesture) MarkProcessed()    { g.processed = true }
func (g *Gesture) Processed() bool   { return g.processed }
func (g *Gesture) SetHeld(h bool)    { g.held = h }
func (g *Gesture) Held() bool        { return g.held }
func (g *Gesture) Refine()           { g.refined = true }
func (g *Gesture) Refined() bool     { return g.refined }
func (g *Gesture) SetIgnored(i bool) { g.ignored = i }
func (g *Gesture) Ignored() bool     { return g.ignored }
func (g *Gesture) SetPhantom(p bool) { g.phantom = p }
func (g *Gesture) Phantom() bool     { return g.phantom }

func (g *Gesture) Direction() Direction     { return g.direction }
func (g *Gesture) SetDirection(d Direction) { g.direction = d }

// Points は軌跡を返す。呼び出し側は点を追加してはならない
func (g *Gesture) Points() Trace { return g.points }

// AddPoint は軌跡に点を追加する
func (g *Gesture) AddPoint(p Point) {
	g.points = append(g.points, p)
}

// SetRole は index の点の役割を書き換える。範囲外は無視する
func (g *Gesture) SetRole(index int, r Role) {
	if index >= 0 && index < len(g.points) {
		g.points[index].Role = r
	}
}

func (g *Gesture) FirstPoint() Point { return g.points[0] }
func (g *Gesture) LastPoint() Point  { return g.points[len(g.points)-1] }

func (g *Gesture) PressTime() int64   { return g.FirstPoint().T }
func (g *Gesture) ReleaseTime() int64 { return g.LastPoint().T }
func (g *Gesture) Duration() int64    { return g.ReleaseTime() - g.PressTime() }

func (g *Gesture) DownX() float32 { return g.FirstPoint().X }
func (g *Gesture) DownY() float32 { return g.FirstPoint().Y }
func (g *Gesture) UpX() float32   { return g.LastPoint().X }
func (g *Gesture) UpY() float32   { return g.LastPoint().Y }

// DeltaX は始点 - 終点の x 方向の移動量
func (g *Gesture) DeltaX() float32 { return g.DownX() - g.UpX() }

// DeltaY は始点 - 終点の y 方向の移動量
func (g *Gesture) DeltaY() float32 { return g.DownY() - g.UpY() }

// Length は始点と終点の距離
func (g *Gesture) Length() float64 {
	return math.Hypot(float64(g.DeltaX()), float64(g.DeltaY()))
}

// Radian は全体の角度を [0, 2π) 付近に正規化して返す
func (g *Gesture) Radian() float64 {
	return TraceRadian(g.points)
}

// TraceRadian は軌跡の始点から終点への角度を返す（y は上向きが正）
func TraceRadian(points Trace) float64 {
	if len(points) == 0 {
		return 0
	}
	first, last := points[0], points[len(points)-1]
	r := math.Atan2(float64(-(first.Y - last.Y)), float64(first.X-last.X))
	if r < 0 {
		r += 6.28
	}
	return r
}

// Root は祖先をたどって最上位のジェスチャーを返す
func (g *Gesture) Root() *Gesture {
	root := g
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Parent は親を返す
func (g *Gesture) Parent() *Gesture { return g.parent }

// LeaveParent は親から離脱し、元の親を返す
func (g *Gesture) LeaveParent() *Gesture {
	parent := g.parent
	if parent != nil {
		parent.loseChild(g)
		g.parent = nil
	}
	return parent
}

// SetParent は親を付け替える。nil で親から離脱する
func (g *Gesture) SetParent(adopter *Gesture) {
	if g.parent != nil {
		g.parent.loseChild(g)
	}
	g.parent = adopter
	if adopter != nil {
		adopter.haveChild(g)
	}
}

// CanLiberate は子の数が target 以上かを返す
func (g *Gesture) CanLiberate(target int) bool {
	return len(g.children) >= target
}

// Liberator は最後の子を返す。子が無い場合は自分自身
func (g *Gesture) Liberator() *Gesture {
	if len(g.children) == 0 {
		return g
	}
	return g.children[len(g.children)-1]
}

func (g *Gesture) haveChild(child *Gesture) {
	g.children = append(g.children, child)
}

func (g *Gesture) loseChild(child *Gesture) {
	for i, c := range g.children {
		if c == child {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return
		}
	}
}

func (g *Gesture) Orphaned() bool    { return g.parent == nil }
func (g *Gesture) HasParent() bool   { return g.parent != nil }
func (g *Gesture) HasChildren() bool { return len(g.children) > 0 }
func (g *Gesture) ChildCount() int   { return len(g.children) }

// Freed は親が無く、最終分類済みであるかを返す
func (g *Gesture) Freed() bool {
	return g.Orphaned() && g.Refined()
}

// Children は子のコピーを返す
func (g *Gesture) Children() []*Gesture {
	return append([]*Gesture(nil), g.children...)
}

// AbandonChildren はすべての子を手放し、その一覧を返す
func (g *Gesture) AbandonChildren() []*Gesture {
	if len(g.children) == 0 {
		return nil
	}
	abandoned := g.children
	for _, child := range abandoned {
		child.parent = nil
	}
	g.children = nil
	return abandoned
}

// AdoptChildrenFrom は old の子をすべて引き取る
func (g *Gesture) AdoptChildrenFrom(old *Gesture) {
	for _, child := range old.children {
		child.parent = g
		g.haveChild(child)
	}
	old.children = nil
}
