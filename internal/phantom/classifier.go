// Package phantom はハードウェアやドライバの不具合で生じた「ファントムスワイプ」を
// 軌跡の幾何学的な異常から判定する
package phantom

import (
	"fmt"
	"log"
	"math"

	"github.com/char5742/swipe-detector/internal/geometry"
	"github.com/char5742/swipe-detector/internal/gesture"
)

// Report は判定結果と診断情報
type Report struct {
	Phantom       bool
	Weight        float64
	Segments      int
	TotalLength   float64
	AverageLength float64
	StdDev        float64
	RadianError   float64
	PhantomLength float64
	DeltaVelocity float64
	BadDirections bool
	VerticalSave  bool
	Lines         []string // デバッグ用の出力
}

// Classifier はファントムスワイプ判定器
// 状態は Classify の呼び出しごとにリセットされ、呼び出しをまたいで保持しない
type Classifier struct {
	thresholds Thresholds
	logger     *log.Logger
}

// New は判定器を作成する
func New(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// WithLogger はデバッグ出力先を設定する
func (c *Classifier) WithLogger(l *log.Logger) *Classifier {
	c.logger = l
	return c
}

// Thresholds は現在の閾値を返す
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// scan は1回の判定で使う作業領域
type scan struct {
	t      Thresholds
	width  float64
	height float64
	debug  bool

	weight        float64
	perfect       int
	directions    int
	radError      float64
	phantomLength float64
	lengths       []float64

	prevLength float64
	prevRad    float64
	prevDelta  float64
	prevDir    gesture.Direction
	direction  gesture.Direction

	badAngle      bool
	badDirections bool
	verticalSave  bool
	phantom       bool

	lines []string
}

// Classify は軌跡を調べてファントムスワイプかどうかを判定する
// 静止中とみなした区間の2点目は Head に書き換えられる
func (c *Classifier) Classify(points gesture.Trace, width, height float64) Report {
	s := &scan{
		t:         c.thresholds,
		width:     width,
		height:    height,
		debug:     c.logger != nil,
		prevDir:   gesture.Undefined,
		direction: gesture.Undefined,
	}

	// 2点以下はタップとして扱われる
	if len(points) <= 2 {
		s.println("BAD SWIPE: %d points", len(points))
		return c.finish(s, Report{Phantom: true, Segments: 0})
	}

	for i := 0; i < len(points)-1; i++ {
		p1 := &points[i]
		p2 := &points[i+1]

		dx := geometry.Delta(p2.X, p1.X)
		dy := geometry.Delta(p2.Y, p1.Y)
		length := geometry.Length(dx, dy)
		// y は画面下向きが正なので反転する
		rad := geometry.Angle(dx, -dy)
		dRad := geometry.AngleDelta(rad, s.prevRad)

		if !s.holding(p1, p2, length, dRad) {
			s.lengths = append(s.lengths, length)
			s.incrementRadError(dRad, p1.Role, length)
			s.bodyScan(p1.Role, dRad, length)
		}

		dir := geometry.ClassifyDirection(geometry.Delta(p1.X, p2.X), geometry.Delta(p1.Y, p2.Y), false)
		s.trackDirection(dir, p2.X, p2.Y)
		s.println("%d r%.2f [%.3f] <%.0f, %.0f> l: %.3f dir: %s", i+1, rad, dRad, p2.X, p2.Y, length, dir)

		s.prevLength = length
		s.prevRad = rad
		s.prevDelta = dRad
		s.prevDir = dir
	}

	s.finalScan(gesture.TraceRadian(points))

	return c.finish(s, Report{
		Phantom:       s.phantom,
		Weight:        s.weight,
		Segments:      len(s.lengths),
		RadianError:   s.radError,
		PhantomLength: s.phantomLength,
		BadDirections: s.badDirections,
		VerticalSave:  s.verticalSave,
	})
}

func (c *Classifier) finish(s *scan, r Report) Report {
	r.TotalLength = geometry.Sum(s.lengths)
	if len(s.lengths) > 0 {
		r.AverageLength = geometry.Mean(s.lengths)
		r.StdDev = geometry.StandardDeviation(s.lengths)
		r.DeltaVelocity = deltaVelocity(s.lengths, s.t.VelocitySpeed)
	}
	if c.logger != nil {
		r.Lines = s.lines
		for _, line := range s.lines {
			c.logger.Println(line)
		}
	}
	return r
}

// holding は静止中の区間を角度の判定から除外する
// 長さが正なら区間長の一覧には加える
// 先頭で角度の変化が無い区間は指を置いたままの動きとみなし、2点目も Head とする
func (s *scan) holding(p1, p2 *gesture.Point, length, dRad float64) bool {
	dRad = math.Round(dRad*1000) / 1000
	if p1.Role == gesture.Head && dRad <= 0 {
		if length > 0 {
			s.lengths = append(s.lengths, length)
		} else {
			s.println("EARLY ZERO LENGTH")
		}
		s.phantomLength += length
		p2.Role = gesture.Head
		return true
	}
	if length == 0 {
		s.println("LATE ZERO LENGTH")
		return true
	}
	return false
}

// incrementRadError は小さな角度変化を無視しつつ角度の誤差を累積する
func (s *scan) incrementRadError(dRad float64, role gesture.Role, length float64) {
	if dRad > s.t.MinChangeInRads && role != gesture.Head && length > 0 {
		s.radError += dRad
		s.println("Delta Err: %.3f", s.radError)
	}
}

// trackDirection は方向が頻繁に変わる軌跡を検出する
func (s *scan) trackDirection(dir gesture.Direction, x, y float32) {
	if float64(x) <= 0 || float64(x) >= s.width {
		return
	}
	if float64(y) <= 0 || float64(y) >= s.height {
		return
	}
	if dir == gesture.Undefined {
		return
	}
	if dir != s.prevDir {
		s.directions = 0
	}
	if dir == s.direction {
		s.directions = 0
		return
	}
	s.directions++
	if s.directions == 3 {
		if s.direction != gesture.Undefined {
			s.weight++
			s.badDirections = true
			s.println("BAD DIRECTIONS")
		}
		s.direction = dir
		s.println("DIRECTION: %s", dir)
	}
}

func (s *scan) bodyScan(role gesture.Role, dRad, length float64) {
	if role != gesture.Body {
		return
	}
	s.tooPerfect(dRad)
	s.crazyAngle(dRad, length)
}

// tooPerfect は角度が全く変化しない区間の連続を検出する (+0.5)
func (s *scan) tooPerfect(dRad float64) {
	if dRad != 0 {
		s.perfect = 0
		return
	}
	s.perfect++
	if s.perfect == s.t.MaxConcurrentRads {
		s.weight += 0.5
		s.println("PERFECT COMBO %.2f", s.weight)
	}
}

// crazyAngle は十分な長さの区間で急に角度が変わったものを検出する (+1)
func (s *scan) crazyAngle(dRad, length float64) {
	if dRad >= s.t.AvgChangeInRads && length > s.t.Pixel && s.prevLength > s.t.Pixel {
		s.badAngle = !s.badAngle
		s.println("OVER ANGLE")
		if !s.badAngle {
			s.radError = 0
		}
		return
	}
	if s.badAngle {
		s.weight++
		s.badAngle = false
		s.println("CRAZY ANGLE %.2f", s.weight)
	}
}

func (s *scan) finalScan(radian float64) {
	total := geometry.Sum(s.lengths)

	if len(s.lengths) <= 2 {
		s.tooTiny(radian, total)
		return
	}

	avg := geometry.Mean(s.lengths)
	stdDev := geometry.StandardDeviation(s.lengths)

	errorsHigh := s.checkErrors(avg)
	s.jumping()
	s.phantomLengths(errorsHigh)
	s.badEnding(avg)
	s.terribleSwipe(stdDev)
	s.vertical(radian, total)
	s.label(total)

	s.println("Length: %.3f Avg L: %.3f Std Dev: %.3f", total, avg, stdDev)
	s.println("Deg Err: %.3f", s.radError)
}

// checkErrors は角度の誤差の合計で重みを増やす
func (s *scan) checkErrors(avg float64) bool {
	if s.radError <= s.t.AvgRadianError {
		return false
	}
	s.weight++
	s.println("ERRORS %.2f", s.weight)
	if s.radError > s.t.MaxRadianError && avg > s.t.averageLength(s.height) {
		s.weight += s.radError - s.t.MaxRadianError
		s.weight = math.Round(s.weight*10) / 10
		s.println("MAX ERRORS %.2f", s.weight)
	}
	return true
}

// jumping は不自然に長い区間ごとに重みを増やす
func (s *scan) jumping() {
	jump := s.t.jumpLength(s.width)
	for _, l := range s.lengths {
		if l > jump {
			s.weight++
			s.println("JUMPER %.2f", s.weight)
		}
	}
}

// phantomLengths は静止区間の長さが誤差と同時に現れた場合に重みを増やす
func (s *scan) phantomLengths(errorsHigh bool) {
	if s.phantomLength <= 0 || !errorsHigh {
		return
	}
	s.weight++
	if s.radError > s.t.MaxRadianError {
		s.weight += s.phantomLength
		s.println("PHANTOM LINE! %.2f", s.weight)
		return
	}
	s.println("PHANTOM LINE? %.2f", s.weight)
}

// badEnding は最後の2区間が平均に比べて短すぎる場合に重みを増やす (+0.5)
func (s *scan) badEnding(avg float64) {
	n := len(s.lengths)
	if s.lengths[n-1]+s.lengths[n-2] <= avg*s.t.AvgEndLengthRatio {
		s.weight += 0.5
		s.println("BAD ENDING %.2f", s.weight)
	}
}

// terribleSwipe は区間長の標準偏差が大きすぎる場合に重みを増やす (+1)
func (s *scan) terribleSwipe(stdDev float64) {
	if stdDev >= s.t.MaxStandardDeviation {
		s.weight++
		s.println("STD %.0f TERRIBLE SWIPE %.2f", stdDev, s.weight)
	}
}

// vertical は十分に長い縦方向のスワイプの重みを軽くする
func (s *scan) vertical(radian, total float64) bool {
	if s.t.vertical(radian) && !s.badDirections && total > s.t.niceLength(s.height) {
		s.weight /= s.t.VerticalForgiveness
		s.verticalSave = true
		s.println("VERTICAL SAVE! %.2f", s.weight)
		return true
	}
	return false
}

// tooTiny は区間が少ない軌跡で、終端の区間が短すぎるものをファントムとする
func (s *scan) tooTiny(radian, total float64) {
	if len(s.lengths) == 0 {
		return
	}
	if s.lengths[len(s.lengths)-1] < total*s.t.TinyEndRatio {
		if !s.vertical(radian, total) {
			s.phantom = true
			s.println("TINY ENDING")
		}
	}
}

// label は最終的な重みで判定する
func (s *scan) label(total float64) {
	nice := s.t.niceLength(s.height)
	if total > nice && !s.badDirections {
		s.weight /= total / nice
		s.println("GOOD LENGTH REDEMPTION %.2f", s.weight)
	}
	s.phantom = s.weight >= s.t.MaxWeight
	if s.phantom {
		s.println("BAD SWIPE: %.2f", s.weight)
	} else {
		s.println("GOOD SWIPE: %.2f", s.weight)
	}
}

func (s *scan) println(format string, args ...any) {
	if s.debug {
		s.lines = append(s.lines, fmt.Sprintf(format, args...))
	}
}

// deltaVelocity は最初に仮の速度を置いたときの区間長の変化の合計
func deltaVelocity(lengths []float64, speed float64) float64 {
	v := append([]float64{lengths[0] * speed}, lengths...)
	var d float64
	for i := 0; i < len(v)-1; i++ {
		d += v[i+1] - v[i]
	}
	return d
}
