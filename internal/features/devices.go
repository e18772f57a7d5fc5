package features

import (
	"errors"
	"log"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNoDevice はマルチタッチデバイスが見つからないことを表す
var ErrNoDevice = errors.New("no multi-touch device found")

type Device struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Direct bool   `json:"direct"` // タッチスクリーンなら true
}

// DeviceEventType はデバイスイベントの種類を表す
type DeviceEventType int

const (
	DeviceAdded DeviceEventType = iota
	DeviceRemoved
	DeviceChanged
)

func (t DeviceEventType) String() string {
	switch t {
	case DeviceAdded:
		return "added"
	case DeviceRemoved:
		return "removed"
	case DeviceChanged:
		return "changed"
	}
	return "unknown"
}

// DeviceEvent はデバイスの変更イベントを表す
type DeviceEvent struct {
	Type   DeviceEventType
	Device Device
}

// DeviceCallback はデバイスイベント発生時に呼び出されるコールバック関数の型
type DeviceCallback func(event DeviceEvent)

// ScanFunc は接続中のデバイス一覧を返す関数
type ScanFunc func() ([]Device, error)

const inputDir = "/dev/input"

// ScanDevices は /dev/input/event* のうちマルチタッチ(プロトコルB)に対応したデバイスを返す
func ScanDevices() ([]Device, error) {
	paths, err := filepath.Glob(filepath.Join(inputDir, "event*"))
	if err != nil {
		return nil, err
	}
	var devices []Device
	for _, path := range paths {
		caps, err := ProbeDevice(path)
		if err != nil {
			// 権限がないデバイスは飛ばす
			continue
		}
		if !caps.MultiTouch {
			continue
		}
		devices = append(devices, Device{Name: caps.Name, Path: path, Direct: caps.Direct})
	}
	sortDevices(devices)
	return devices, nil
}

func sortDevices(devices []Device) {
	sort.Slice(devices, func(i, j int) bool { return devices[i].Path < devices[j].Path })
}

// SelectDevice は優先デバイスを名前かパスで探す
// 見つからない場合はタッチスクリーン、それも無ければ最初のデバイスを返す
func SelectDevice(devices []Device, preferred string) (Device, error) {
	if len(devices) == 0 {
		return Device{}, ErrNoDevice
	}
	if preferred != "" {
		for _, d := range devices {
			if d.Name == preferred || d.Path == preferred {
				return d, nil
			}
		}
		log.Printf("優先デバイスが見つかりません: %s", preferred)
	}
	for _, d := range devices {
		if d.Direct {
			return d, nil
		}
	}
	return devices[0], nil
}

// DeviceMonitor はデバイスの接続状態を監視する構造体
type DeviceMonitor struct {
	watcher   *fsnotify.Watcher
	scan      ScanFunc
	dirs      []string
	debounce  time.Duration
	polling   time.Duration
	callbacks []DeviceCallback
	devices   map[string]Device // パスをキーにしたデバイスマップ
	mutex     sync.RWMutex
	stopChan  chan struct{}
	wg        sync.WaitGroup
	isRunning bool
}

// NewDeviceMonitor は新しいDeviceMonitorを作成する
// scan が nil の場合は ScanDevices を使う
func NewDeviceMonitor(scan ScanFunc, dirs ...string) (*DeviceMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if scan == nil {
		scan = ScanDevices
	}
	if len(dirs) == 0 {
		dirs = []string{inputDir}
	}
	return &DeviceMonitor{
		watcher:  watcher,
		scan:     scan,
		dirs:     dirs,
		debounce: 500 * time.Millisecond,
		polling:  5 * time.Second,
		devices:  make(map[string]Device),
		stopChan: make(chan struct{}),
	}, nil
}

// Start はデバイスの監視を開始する
func (dm *DeviceMonitor) Start() error {
	dm.mutex.Lock()
	if dm.isRunning {
		dm.mutex.Unlock()
		return nil
	}
	dm.isRunning = true
	dm.mutex.Unlock()

	log.Println("デバイスモニターを開始します")
	for _, dir := range dm.dirs {
		if err := dm.watcher.Add(dir); err != nil {
			log.Printf("ディレクトリの監視に失敗しました: %s - %v", dir, err)
		}
	}

	dm.RescanDevices()

	dm.wg.Add(1)
	go dm.watchEvents()
	return nil
}

// Stop はデバイスの監視を停止する
func (dm *DeviceMonitor) Stop() {
	dm.mutex.Lock()
	if !dm.isRunning {
		dm.mutex.Unlock()
		return
	}
	dm.isRunning = false
	dm.mutex.Unlock()

	log.Println("デバイスモニターを停止します")
	close(dm.stopChan)
	dm.watcher.Close()
	dm.wg.Wait()
}

// RegisterCallback はデバイスイベントのコールバック関数を登録する
func (dm *DeviceMonitor) RegisterCallback(callback DeviceCallback) {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	dm.callbacks = append(dm.callbacks, callback)
}

// RescanDevices はデバイス一覧を強制的に再スキャンする
func (dm *DeviceMonitor) RescanDevices() {
	devices, err := dm.scan()
	if err != nil {
		log.Printf("デバイス再スキャンに失敗しました: %v", err)
		return
	}
	dm.updateDeviceList(devices)
}

// updateDeviceList は現在のデバイス一覧を更新し、変更があれば通知する
func (dm *DeviceMonitor) updateDeviceList(newDevices []Device) {
	var events []DeviceEvent

	dm.mutex.Lock()
	seen := make(map[string]bool, len(newDevices))
	for _, device := range newDevices {
		seen[device.Path] = true
		old, exists := dm.devices[device.Path]
		switch {
		case !exists:
			log.Printf("新しいデバイスを追加: %s (%s)", device.Name, device.Path)
			events = append(events, DeviceEvent{Type: DeviceAdded, Device: device})
		case old != device:
			log.Printf("デバイス情報が変更: %s → %s (%s)", old.Name, device.Name, device.Path)
			events = append(events, DeviceEvent{Type: DeviceChanged, Device: device})
		}
		dm.devices[device.Path] = device
	}
	for path, device := range dm.devices {
		if !seen[path] {
			log.Printf("デバイスを削除: %s (%s)", device.Name, path)
			events = append(events, DeviceEvent{Type: DeviceRemoved, Device: device})
			delete(dm.devices, path)
		}
	}
	callbacks := append([]DeviceCallback(nil), dm.callbacks...)
	dm.mutex.Unlock()

	// ロックを解放した状態でコールバックを呼び出す
	for _, ev := range events {
		for _, cb := range callbacks {
			cb(ev)
		}
	}
}

// watchEvents はfsnotifyのイベントを監視する
func (dm *DeviceMonitor) watchEvents() {
	defer dm.wg.Done()

	// 複数のイベントをまとめて1回の再スキャンにする
	eventTimer := time.NewTimer(dm.debounce)
	eventTimer.Stop()
	ticker := time.NewTicker(dm.polling)
	defer ticker.Stop()

	for {
		select {
		case <-dm.stopChan:
			eventTimer.Stop()
			return

		case <-eventTimer.C:
			dm.RescanDevices()

		case <-ticker.C:
			// fsnotify で拾えない変化は定期的に確認する
			dm.RescanDevices()

		case ev, ok := <-dm.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod) != 0 {
				eventTimer.Reset(dm.debounce)
			}

		case err, ok := <-dm.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("ファイルシステム監視エラー: %v", err)
		}
	}
}

// GetConnectedDevices は現在接続されているデバイスのスナップショットを返す
func (dm *DeviceMonitor) GetConnectedDevices() []Device {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()

	devices := make([]Device, 0, len(dm.devices))
	for _, device := range dm.devices {
		devices = append(devices, device)
	}
	sortDevices(devices)
	return devices
}
