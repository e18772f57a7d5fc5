// Package replay は記録した入力列を仮想時刻で認識器に流し直す
package replay

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/char5742/swipe-detector/internal/recognizer"
	"github.com/char5742/swipe-detector/internal/scheduler"
)

// Recording は入力面の大きさと入力列の記録
type Recording struct {
	Width  float64            `json:"width" yaml:"width"`
	Height float64            `json:"height" yaml:"height"`
	Inputs []recognizer.Input `json:"inputs" yaml:"inputs"`
}

// Size は記録時の入力面の大きさを返す
func (r *Recording) Size() (float64, float64) {
	return r.Width, r.Height
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load は JSON か YAML の記録を読み込む
func Load(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("記録ファイルの読み込みに失敗しました: %w", err)
	}
	var rec Recording
	if isYAML(path) {
		err = yaml.Unmarshal(data, &rec)
	} else {
		err = json.Unmarshal(data, &rec)
	}
	if err != nil {
		return nil, fmt.Errorf("記録ファイルの解析に失敗しました: %w", err)
	}
	return &rec, nil
}

// Save は記録を JSON で保存する
func Save(path string, rec *Recording) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("記録のエンコードに失敗しました: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("記録ファイルの書き込みに失敗しました: %w", err)
	}
	return nil
}

// Recorder は入力を記録する。複数のゴルーチンから使える
type Recorder struct {
	mu  sync.Mutex
	rec Recording
}

// NewRecorder は入力面の大きさを指定して Recorder を作成する
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{rec: Recording{Width: width, Height: height}}
}

// Record は入力を追加する
func (r *Recorder) Record(in recognizer.Input) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.Inputs = append(r.rec.Inputs, in)
}

// Recording はこれまでの記録のコピーを返す
func (r *Recorder) Recording() *Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.rec
	rec.Inputs = append([]recognizer.Input(nil), r.rec.Inputs...)
	return &rec
}

// Result はリプレイの結果
type Result struct {
	Inputs   int
	Duration time.Duration
}

// Run は記録の入力を順に o に渡す
// 入力の時刻に合わせて clock を進めるので、ホールドやダブルタップのタイマーは記録時と同じ順で発火する
// 最後の入力の後は tail だけ時刻を進める
func Run(rec *Recording, o *recognizer.Orchestrator, clock *scheduler.Manual, tail time.Duration) Result {
	if len(rec.Inputs) == 0 {
		return Result{}
	}
	start := clock.Now()
	base := rec.Inputs[0].Time
	for _, in := range rec.Inputs {
		clock.AdvanceTo(start + time.Duration(in.Time-base)*time.Millisecond)
		o.Handle(in)
	}
	clock.Advance(tail)
	return Result{Inputs: len(rec.Inputs), Duration: clock.Now() - start}
}

// Play は記録の大きさと opts で新しい認識器を作成して記録を流す
// debug が nil でなければファントム判定の詳細を出力する
func Play(rec *Recording, opts recognizer.Options, l recognizer.Listener, debug *log.Logger) (*recognizer.Orchestrator, Result) {
	clock := scheduler.NewManual()
	o := recognizer.New(opts, l, clock, rec)
	if debug != nil {
		o.Classifier().WithLogger(debug)
	}
	tail := opts.HoldDelay + opts.DoubleTapDelay + opts.SpecialDelay
	return o, Run(rec, o, clock, tail)
}
