// Package event は evdev の入力イベントとマルチタッチ(プロトコルB)の解釈を扱う
package event

// イベントタイプの定数（input-event-codes.hより）
const (
	Syn = 0x00 // 同期イベント
	Key = 0x01 // キーイベント
	Abs = 0x03 // 絶対座標イベント

	AbsX            = 0x00 // X軸の絶対座標
	AbsY            = 0x01 // Y軸の絶対座標
	AbsMtSlot       = 0x2f // マルチタッチスロット
	AbsMtTouchMajor = 0x30 // タッチ領域の長径
	AbsMtPositionX  = 0x35 // マルチタッチのX座標
	AbsMtPositionY  = 0x36 // マルチタッチのY座標
	AbsMtTrackingId = 0x39 // タッチ追跡用ID
	AbsMtPressure   = 0x3a // タッチ圧力
	AbsCount        = 0x40 // 絶対座標コードの数

	SynReport  = 0 // イベント報告の同期
	SynDropped = 3 // バッファあふれでイベントが失われた

	BtnTouch = 0x14a // タッチイベント

	PropPointer = 0x00 // ポインターデバイスプロパティ
	PropDirect  = 0x01 // 画面に直接触れるデバイス
	PropCount   = 0x20
)

// Size は struct input_event の大きさ（64ビット環境）
const Size = 24

// Event は入力イベントを表す構造体
type Event struct {
	Sec   int64  // イベント発生時刻（秒）
	Usec  int64  // イベント発生時刻（マイクロ秒）
	Type  uint16 // イベントタイプ
	Code  uint16 // イベントコード
	Value int32  // イベント値
}

// Millis はイベント発生時刻をミリ秒で返す
func (e Event) Millis() int64 {
	return e.Sec*1000 + e.Usec/1000
}
