package event

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Read は r から1つのイベントを読み込む
func Read(r io.Reader) (Event, error) {
	var buf [Size]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Event{}, err
	}

	var e Event
	e.Sec = int64(binary.LittleEndian.Uint64(buf[0:8]))
	e.Usec = int64(binary.LittleEndian.Uint64(buf[8:16]))
	e.Type = binary.LittleEndian.Uint16(buf[16:18])
	e.Code = binary.LittleEndian.Uint16(buf[18:20])
	e.Value = int32(binary.LittleEndian.Uint32(buf[20:24]))
	return e, nil
}

// Write はイベントを順に w に書き込む
func Write(w io.Writer, events ...Event) error {
	for _, ev := range events {
		buf := new(bytes.Buffer)
		if err := binary.Write(buf, binary.LittleEndian, ev); err != nil {
			return fmt.Errorf("イベントをバッファに書き込むのに失敗しました: %w", err)
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("イベントの書き込みに失敗しました: %w", err)
		}
	}
	return nil
}
