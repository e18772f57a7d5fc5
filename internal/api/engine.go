package api

import (
	"log"

	"github.com/char5742/swipe-detector/internal/config"
	"github.com/char5742/swipe-detector/internal/event"
	"github.com/char5742/swipe-detector/internal/features"
	"github.com/char5742/swipe-detector/internal/recognizer"
	"github.com/char5742/swipe-detector/internal/replay"
	"github.com/char5742/swipe-detector/internal/scheduler"
)

// engine はデコーダーと認識器をまとめたもの
// イベントループのゴルーチンからのみ使う
type engine struct {
	x, y         event.Axis
	scheduler    scheduler.Scheduler
	listener     *LogListener
	recorder     *replay.Recorder
	decoder      *event.Decoder
	orchestrator *recognizer.Orchestrator
	pending      *config.Config
}

func newEngine(cfg *config.Config, x, y event.Axis, s scheduler.Scheduler, l *LogListener) (*engine, error) {
	e := &engine{x: x, y: y, scheduler: s, listener: l}
	if err := e.build(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// build は設定からデコーダーと認識器を作り直す
func (e *engine) build(cfg *config.Config) error {
	opts, err := cfg.RecognizerOptions()
	if err != nil {
		return err
	}
	decoder := event.NewDecoder(e.x, e.y, cfg.Surface.Width, cfg.Surface.Height)
	if f := features.NewSlotFilter(cfg.Motion.FilterSmoothingFactor, cfg.Motion.FilterWarmUpCount); f != nil {
		decoder.WithFilter(f)
	}
	o := recognizer.New(opts, e.listener, e.scheduler, decoder)
	if cfg.Log.Classifier {
		o.Classifier().WithLogger(log.Default())
	}

	if e.orchestrator != nil {
		e.orchestrator.Cancel()
	}
	e.decoder = decoder
	e.orchestrator = o
	return nil
}

// feed はイベントを1つ処理する
func (e *engine) feed(ev event.Event) {
	for _, in := range e.decoder.Feed(ev) {
		if e.recorder != nil {
			e.recorder.Record(in)
		}
		e.orchestrator.Handle(in)
	}
	e.applyPending()
}

// update は新しい設定を次のセッションの開始前に反映する
func (e *engine) update(cfg *config.Config) {
	e.pending = cfg
	e.applyPending()
}

func (e *engine) applyPending() {
	if e.pending == nil || e.orchestrator.TouchCount() > 0 {
		return
	}
	cfg := e.pending
	e.pending = nil
	if err := e.build(cfg); err != nil {
		log.Printf("設定の反映に失敗しました: %v", err)
		return
	}
	log.Println("設定を更新しました")
}
