package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/browser"

	"github.com/char5742/swipe-detector/internal/api"
	"github.com/char5742/swipe-detector/internal/config"
	"github.com/char5742/swipe-detector/internal/features"
	"github.com/char5742/swipe-detector/internal/replay"
)

func main() {
	// コマンドライン引数の解析
	useApi := flag.Bool("api", false, "APIサーバーモードで起動します")
	configPath := flag.String("config", "", "設定ファイルのパス (指定しない場合はデフォルトパスを使用)")
	port := flag.Int("port", 8080, "APIサーバーのポート番号")
	openBrowser := flag.Bool("open", false, "APIサーバーの状態ページをブラウザで開きます")
	replayPath := flag.String("replay", "", "記録した入力列を再生して結果を表示します")
	recordPath := flag.String("record", "", "停止時に入力列をこのパスに保存します")
	devicePath := flag.String("device", "", "使用するデバイスの名前またはパス")
	flag.Parse()

	// デフォルト設定ファイルパスの設定
	defaultConfigPath := ""
	configDir, err := config.GetDefaultConfigDir()
	if err == nil {
		defaultConfigPath = filepath.Join(configDir, "config.toml")
	}

	// 設定ファイルパスの決定
	cfgPath := defaultConfigPath
	if *configPath != "" {
		cfgPath = *configPath
	}

	// 設定ファイルの読み込み
	var cfg *config.Config
	if cfgPath != "" {
		cfg, err = config.LoadConfig(cfgPath)
		if err != nil {
			fmt.Printf("設定ファイルの読み込みに失敗しました: %v\nデフォルト設定を使用します\n", err)
			cfg = config.DefaultConfig()
		} else {
			fmt.Printf("設定ファイルを読み込みました: %s\n", cfgPath)
		}
	} else {
		cfg = config.DefaultConfig()
	}
	if *devicePath != "" {
		cfg.DevicePrefs.PreferredTouchDevice = *devicePath
	}

	switch {
	case *replayPath != "":
		runReplay(cfg, *replayPath)
	case *useApi:
		fmt.Printf("APIサーバーモードで起動します (ポート: %d)...\n", *port)
		runApiServer(cfg, cfgPath, *port, *openBrowser)
	default:
		fmt.Println("CLIモードで起動します...")
		runCLI(cfg, cfgPath, *recordPath)
	}
}

// APIサーバーモードでの実行
func runApiServer(cfg *config.Config, cfgPath string, port int, open bool) {
	server := api.NewServer(cfg, port, cfgPath)

	monitor, err := features.NewDeviceMonitor(nil)
	if err != nil {
		log.Printf("デバイスモニターの作成に失敗しました: %v", err)
	} else {
		monitor.RegisterCallback(func(ev features.DeviceEvent) {
			log.Printf("デバイスイベント: %s %s (%s)", ev.Type, ev.Device.Name, ev.Device.Path)
		})
		if err := monitor.Start(); err != nil {
			log.Printf("デバイスモニターの起動に失敗しました: %v", err)
		} else {
			defer monitor.Stop()
			server.SetDeviceMonitor(monitor)
		}
	}

	if cfgPath != "" {
		watcher, err := config.NewWatcher(cfgPath, server.UpdateConfig)
		if err != nil {
			log.Printf("設定ファイルの監視に失敗しました: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	go func() {
		waitForSignal()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			log.Printf("APIサーバーの停止に失敗しました: %v", err)
		}
	}()

	if open {
		go func() {
			// サーバーの起動を待ってから開く
			time.Sleep(500 * time.Millisecond)
			url := fmt.Sprintf("http://localhost:%d/api/service/status", port)
			if err := browser.OpenURL(url); err != nil {
				log.Printf("ブラウザを開けませんでした: %v", err)
			}
		}()
	}

	if err := server.Start(); err != nil {
		log.Fatalf("APIサーバーの起動に失敗しました: %v", err)
	}
}

// CLIモードでの実行
func runCLI(cfg *config.Config, cfgPath, recordPath string) {
	service := api.NewGestureService(cfg)
	if recordPath != "" {
		service.RecordTo(recordPath)
	}

	if err := service.Start(); err != nil {
		fmt.Printf("ジェスチャー認識サービスの起動に失敗しました: %v\n", err)
		os.Exit(1)
	}

	if cfgPath != "" {
		watcher, err := config.NewWatcher(cfgPath, service.UpdateConfig)
		if err != nil {
			log.Printf("設定ファイルの監視に失敗しました: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	stopped := make(chan struct{})
	go func() {
		service.Wait()
		close(stopped)
	}()

	select {
	case <-signalChan():
		fmt.Println("シャットダウンします...")
		if err := service.Stop(); err != nil {
			log.Printf("サービスの停止に失敗しました: %v", err)
		}
	case <-stopped:
		log.Println("デバイスからの入力が終了しました")
	}
}

// 記録の再生
func runReplay(cfg *config.Config, path string) {
	rec, err := replay.Load(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	opts, err := cfg.RecognizerOptions()
	if err != nil {
		log.Fatalf("設定が不正です: %v", err)
	}

	listener := api.NewLogListener(len(rec.Inputs) + 1)
	var debug *log.Logger
	if cfg.Log.Classifier {
		debug = log.Default()
	}
	_, res := replay.Play(rec, opts, listener, debug)

	fmt.Printf("%d 件の入力を再生しました (%v)\n", res.Inputs, res.Duration)
	recent := listener.Recent()
	for i := len(recent) - 1; i >= 0; i-- {
		r := recent[i]
		fmt.Printf("%-12s slot=%d %-5s (%.0f, %.0f) -> (%.0f, %.0f) phantom=%v ignored=%v\n",
			r.Kind, r.Slot, r.Direction, r.X, r.Y, r.UpX, r.UpY, r.Phantom, r.Ignored)
	}
}

func signalChan() <-chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return sigChan
}

func waitForSignal() {
	<-signalChan()
	fmt.Println("シャットダウンします...")
}
