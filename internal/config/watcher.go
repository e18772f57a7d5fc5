package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher は設定ファイルの変更を監視し、読み込み直した設定を通知する
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(*Config)
	debounce time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher は configPath を監視する Watcher を作成する
// エディタによる置き換え保存にも対応するため、ディレクトリごと監視する
func NewWatcher(configPath string, onChange func(*Config)) (*Watcher, error) {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルのパス解決に失敗しました: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("ファイル監視の作成に失敗しました: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("設定ディレクトリの監視に失敗しました: %w", err)
	}
	w := &Watcher{
		path:     abs,
		watcher:  fw,
		onChange: onChange,
		debounce: 200 * time.Millisecond,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close は監視を停止する
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	// 保存時に複数のイベントが届くのでまとめて処理する
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-w.stopChan:
			timer.Stop()
			return

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			// 移動や削除で消えた場合はデフォルト設定を書き戻さない
			if _, err := os.Stat(w.path); errors.Is(err, fs.ErrNotExist) {
				log.Printf("設定ファイルが見つからないため再読み込みをスキップしました: %s", w.path)
				continue
			}
			cfg, err := LoadConfig(w.path)
			if err != nil {
				log.Printf("設定ファイルの再読み込みに失敗しました: %v", err)
				continue
			}
			log.Printf("設定ファイルを再読み込みしました: %s", w.path)
			w.onChange(cfg)

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !pending {
				pending = true
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("設定ファイル監視エラー: %v", err)
		}
	}
}
