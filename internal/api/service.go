package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/char5742/swipe-detector/internal/config"
	"github.com/char5742/swipe-detector/internal/features"
	"github.com/char5742/swipe-detector/internal/replay"
	"github.com/char5742/swipe-detector/internal/scheduler"
)

var (
	ErrAlreadyRunning = errors.New("サービスは既に実行中です")
	ErrNotRunning     = errors.New("サービスは実行されていません")
)

// OpenFunc はパスからマルチタッチデバイスを開く関数
type OpenFunc func(path string) (features.TouchScreen, error)

// Status はサービスの状態
type Status struct {
	Running   bool            `json:"running"`
	Device    features.Device `json:"device"`
	Session   string          `json:"session,omitempty"`
	StartedAt time.Time       `json:"started_at,omitempty"`
}

// GestureService はジェスチャー認識サービスを管理する構造体
type GestureService struct {
	cfg         *config.Config
	scan        features.ScanFunc
	open        OpenFunc
	statusMutex sync.RWMutex
	running     bool
	device      features.Device
	startedAt   time.Time
	listener    *LogListener
	loop        *scheduler.Loop
	engine      *engine
	cancel      context.CancelFunc
	done        chan struct{}
	recordPath  string
	recorder    *replay.Recorder
}

// NewGestureService は新しいジェスチャー認識サービスを作成する
func NewGestureService(cfg *config.Config) *GestureService {
	return &GestureService{
		cfg:      cfg,
		scan:     features.ScanDevices,
		open:     features.OpenTouchScreen,
		listener: NewLogListener(cfg.Log.RecentGestures),
	}
}

// RecordTo は停止時に入力列を path に保存するように設定する
func (s *GestureService) RecordTo(path string) {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()
	s.recordPath = path
}

// Start はジェスチャー認識サービスを開始する
func (s *GestureService) Start() error {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	devices, err := s.scan()
	if err != nil {
		return fmt.Errorf("デバイス一覧の取得に失敗しました: %w", err)
	}
	device, err := features.SelectDevice(devices, s.cfg.DevicePrefs.PreferredTouchDevice)
	if err != nil {
		return err
	}
	log.Printf("使用するデバイス: %s (%s)", device.Name, device.Path)

	screen, err := s.open(device.Path)
	if err != nil {
		return fmt.Errorf("デバイスのオープンに失敗しました[path=%s]: %w", device.Path, err)
	}
	if s.cfg.DevicePrefs.Grab {
		if err := screen.Grab(); err != nil {
			screen.Close()
			return err
		}
	}

	// 再起動時は最近のジェスチャーを消去する
	listener := NewLogListener(s.cfg.Log.RecentGestures)
	loop := scheduler.NewLoop(256)
	x, y := screen.Axes()
	eng, err := newEngine(s.cfg, x, y, loop, listener)
	if err != nil {
		screen.Close()
		return err
	}
	if s.recordPath != "" {
		width, height := eng.decoder.Size()
		s.recorder = replay.NewRecorder(width, height)
		eng.recorder = s.recorder
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.listener = listener
	s.loop = loop
	s.engine = eng
	s.cancel = cancel
	s.done = make(chan struct{})
	s.device = device
	s.startedAt = time.Now()
	s.running = true

	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("イベントループが終了しました: %v", err)
		}
	}()
	go s.readEvents(ctx, screen, loop, eng, s.done, s.recorder, s.recordPath)

	log.Println("ジェスチャー認識を開始しました...")
	return nil
}

// readEvents はデバイスからイベントを読み、イベントループに渡す
// 停止の理由に関わらず、終了時に記録を保存する
func (s *GestureService) readEvents(ctx context.Context, screen features.TouchScreen, loop *scheduler.Loop, eng *engine, done chan struct{}, recorder *replay.Recorder, path string) {
	defer close(done)
	defer func() {
		// サービス終了時にデバイスをクローズ
		screen.Close()
		if recorder != nil && path != "" {
			if err := replay.Save(path, recorder.Recording()); err != nil {
				log.Printf("%v", err)
			} else {
				log.Printf("入力を保存しました: %s", path)
			}
		}
		log.Println("ジェスチャー認識サービスを停止しました")
	}()

	// Close で ReadEvent を中断させる
	go func() {
		<-ctx.Done()
		screen.Close()
	}()

	for {
		ev, err := screen.ReadEvent()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				log.Printf("イベントの読み込みに失敗しました: %v", err)
			}
			s.markStopped()
			return
		}
		if !loop.Post(func() { eng.feed(ev) }) {
			return
		}
	}
}

func (s *GestureService) markStopped() {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()
	if s.running {
		s.running = false
		s.cancel()
	}
}

// Stop はジェスチャー認識サービスを停止する
func (s *GestureService) Stop() error {
	s.statusMutex.Lock()
	if !s.running {
		s.statusMutex.Unlock()
		return ErrNotRunning
	}
	s.running = false
	s.cancel()
	done := s.done
	s.statusMutex.Unlock()

	<-done
	return nil
}

// UpdateConfig は設定を更新する
// 実行中の場合は現在のセッションが終わってから反映される
func (s *GestureService) UpdateConfig(cfg *config.Config) {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()

	s.cfg = cfg
	if s.running {
		eng := s.engine
		s.loop.Post(func() { eng.update(cfg) })
	}
}

// IsRunning はサービスが実行中かどうかを返す
func (s *GestureService) IsRunning() bool {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()
	return s.running
}

// Status はサービスの状態を返す
func (s *GestureService) Status() Status {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()
	if !s.running {
		return Status{}
	}
	return Status{
		Running:   true,
		Device:    s.device,
		Session:   s.listener.Session(),
		StartedAt: s.startedAt,
	}
}

// RecentGestures は最近認識したジェスチャーを新しい順に返す
func (s *GestureService) RecentGestures() []GestureRecord {
	s.statusMutex.RLock()
	listener := s.listener
	s.statusMutex.RUnlock()
	return listener.Recent()
}

// Wait はサービスが停止するまで待つ
func (s *GestureService) Wait() {
	s.statusMutex.RLock()
	done := s.done
	s.statusMutex.RUnlock()
	if done != nil {
		<-done
	}
}
