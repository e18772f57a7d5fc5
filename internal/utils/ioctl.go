// Package utils は evdev デバイスの ioctl を扱う
package utils

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl の方向ビット（asm-generic/ioctl.h より）
const (
	iocWrite = 1
	iocRead  = 2

	evdevType = 'E'
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | typ<<8 | nr
}

// absInfoSize は struct input_absinfo の大きさ
const absInfoSize = 24

// EVIOCGRAB はデバイスを排他的に取得する
var EVIOCGRAB = ioc(iocWrite, evdevType, 0x90, 4)

// EVIOCGNAME はデバイス名を取得する
func EVIOCGNAME(length int) uintptr {
	return ioc(iocRead, evdevType, 0x06, uintptr(length))
}

// EVIOCGPROP はデバイスのプロパティビットを取得する
func EVIOCGPROP(length int) uintptr {
	return ioc(iocRead, evdevType, 0x09, uintptr(length))
}

// EVIOCGBIT はイベント種別ごとのコードのビットを取得する
func EVIOCGBIT(ev, length int) uintptr {
	return ioc(iocRead, evdevType, uintptr(0x20+ev), uintptr(length))
}

// EVIOCGABS は絶対座標軸の情報を取得する
func EVIOCGABS(axis int) uintptr {
	return ioc(iocRead, evdevType, uintptr(0x40+axis), absInfoSize)
}

// IOCtl は値を引数に取る ioctl を呼び出す
func IOCtl(f *os.File, cmd, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), cmd, arg)
	if errno != 0 {
		return errno
	}
	return nil
}

// IOCtlPtr はバッファへのポインタを引数に取る ioctl を呼び出す
func IOCtlPtr(f *os.File, cmd uintptr, ptr unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), cmd, uintptr(ptr))
	if errno != 0 {
		return errno
	}
	return nil
}

// TestBit はビット列の n 番目が立っているかを返す
func TestBit(bits []byte, n int) bool {
	if n < 0 || n/8 >= len(bits) {
		return false
	}
	return bits[n/8]&(1<<(n%8)) != 0
}
