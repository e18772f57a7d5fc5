package features

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"unsafe"

	"github.com/char5742/swipe-detector/internal/event"
	"github.com/char5742/swipe-detector/internal/utils"
)

// TouchScreen はマルチタッチデバイスの入力を扱うインターフェース
type TouchScreen interface {
	// ReadEvent は次のイベントが届くまで待って返す
	ReadEvent() (event.Event, error)
	// Axes はマルチタッチの X, Y 座標軸の範囲を返す
	Axes() (x, y event.Axis)
	// デバイスの入力を専有する
	Grab() error
	// 専有を解除する
	Release() error
	Name() string
	Close() error
}

// absInfo は struct input_absinfo
type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

type touchScreen struct {
	file    *os.File
	reader  *bufio.Reader
	name    string
	x, y    event.Axis
	grabbed bool
}

// OpenTouchScreen は指定されたパスのマルチタッチデバイスを開く
func OpenTouchScreen(path string) (TouchScreen, error) {
	f, err := os.OpenFile(path, syscall.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open device file: %w", err)
	}
	name, err := deviceName(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	x, err := readAxis(f, event.AbsMtPositionX)
	if err != nil {
		f.Close()
		return nil, err
	}
	y, err := readAxis(f, event.AbsMtPositionY)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &touchScreen{
		file:   f,
		reader: bufio.NewReaderSize(f, event.Size*64),
		name:   name,
		x:      x,
		y:      y,
	}, nil
}

func deviceName(f *os.File) (string, error) {
	buf := make([]byte, 256)
	if err := utils.IOCtlPtr(f, utils.EVIOCGNAME(len(buf)), unsafe.Pointer(&buf[0])); err != nil {
		return "", fmt.Errorf("failed to get device name: %w", err)
	}
	return strings.TrimRight(string(buf), "\x00"), nil
}

func readAxis(f *os.File, code int) (event.Axis, error) {
	var info absInfo
	if err := utils.IOCtlPtr(f, utils.EVIOCGABS(code), unsafe.Pointer(&info)); err != nil {
		return event.Axis{}, fmt.Errorf("failed to get axis 0x%02x: %w", code, err)
	}
	return event.Axis{Min: info.Minimum, Max: info.Maximum}, nil
}

func (t *touchScreen) ReadEvent() (event.Event, error) {
	return event.Read(t.reader)
}

func (t *touchScreen) Axes() (event.Axis, event.Axis) {
	return t.x, t.y
}

func (t *touchScreen) Name() string {
	return t.name
}

func (t *touchScreen) Grab() error {
	if t.grabbed {
		return nil
	}
	if err := utils.IOCtl(t.file, utils.EVIOCGRAB, 1); err != nil {
		return fmt.Errorf("failed to grab device: %w", err)
	}
	t.grabbed = true
	return nil
}

func (t *touchScreen) Release() error {
	if !t.grabbed {
		return nil
	}
	if err := utils.IOCtl(t.file, utils.EVIOCGRAB, 0); err != nil {
		return fmt.Errorf("failed to release device: %w", err)
	}
	t.grabbed = false
	return nil
}

func (t *touchScreen) Close() error {
	_ = t.Release()
	return t.file.Close()
}

// Capabilities はデバイスがマルチタッチとして使えるかを表す
type Capabilities struct {
	Name       string
	MultiTouch bool // ABS_MT_SLOT を持つ（プロトコルB）
	Direct     bool // タッチスクリーン。false ならタッチパッド
}

// ProbeDevice はデバイスの名前と機能を調べる
func ProbeDevice(path string) (Capabilities, error) {
	f, err := os.OpenFile(path, syscall.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		return Capabilities{}, fmt.Errorf("failed to open device file: %w", err)
	}
	defer f.Close()

	name, err := deviceName(f)
	if err != nil {
		return Capabilities{}, err
	}
	caps := Capabilities{Name: name}

	absBits := make([]byte, (event.AbsCount+7)/8)
	if err := utils.IOCtlPtr(f, utils.EVIOCGBIT(event.Abs, len(absBits)), unsafe.Pointer(&absBits[0])); err != nil {
		return caps, fmt.Errorf("failed to get abs bits: %w", err)
	}
	caps.MultiTouch = utils.TestBit(absBits, event.AbsMtSlot) &&
		utils.TestBit(absBits, event.AbsMtPositionX) &&
		utils.TestBit(absBits, event.AbsMtPositionY)

	propBits := make([]byte, (event.PropCount+7)/8)
	if err := utils.IOCtlPtr(f, utils.EVIOCGPROP(len(propBits)), unsafe.Pointer(&propBits[0])); err == nil {
		caps.Direct = utils.TestBit(propBits, event.PropDirect)
	}
	return caps, nil
}
