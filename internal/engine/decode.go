// internal/engine/decode.go
package engine

import (
	"encoding/binary"
	"errors"
	"math"
	"time"

	"github.com/tamzrod/valence-poller/internal/registry"
)

// Field offsets within a data response. Provisional until the frame
// layout is fully mapped against hardware captures.
const (
	offVoltage   = 10 // u16 LE, x0.01 V
	offCurrent   = 12 // s16 LE, x0.1 A
	offSOC       = 15 // u8, percent
	offTemp      = 16 // s8, degrees C
	offCells     = 20 // 6x u16 LE, x0.001 V, present when len > 30
	offSecondary = 34 // s16 LE, x0.1 A, present when len > 35
)

var (
	// ErrShortFrame means the response is below the decodable minimum.
	ErrShortFrame = errors.New("engine: response below minimum length")

	// ErrBadHeader means the response does not start with the frame header.
	ErrBadHeader = errors.New("engine: unexpected response header")

	// ErrBadSlot means the slot index is outside the registry.
	ErrBadSlot = errors.New("engine: slot index out of range")
)

// DecodeFrame parses a raw data response into the slot's reading.
// On any failure the registry is left untouched. Fields whose offsets
// fall beyond the buffer keep their previous values; they are never
// read out of bounds.
func (e *Engine) DecodeFrame(slot int, buf []byte) error {
	if len(buf) < minDataReply {
		return ErrShortFrame
	}
	if slot < 0 || slot >= registry.Capacity {
		return ErrBadSlot
	}
	if buf[0] != frameHeader {
		return ErrBadHeader
	}

	rd, _ := e.reg.Slot(slot)

	rd.Voltage = float64(binary.LittleEndian.Uint16(buf[offVoltage:])) * 0.01
	rd.Current = float64(int16(binary.LittleEndian.Uint16(buf[offCurrent:]))) * 0.1
	rd.StateOfCharge = int(buf[offSOC])
	rd.Temperature = float64(int8(buf[offTemp]))
	rd.Power = rd.Voltage * math.Abs(rd.Current)

	if len(buf) > 30 {
		for i := 0; i < registry.CellCount; i++ {
			off := offCells + 2*i
			if off+1 >= len(buf) {
				break
			}
			rd.CellVoltages[i] = float64(binary.LittleEndian.Uint16(buf[off:])) * 0.001
		}
	}

	if len(buf) > offSecondary+1 {
		rd.SecondaryCurrent = float64(int16(binary.LittleEndian.Uint16(buf[offSecondary:]))) * 0.1
	}

	rd.Valid = true
	rd.LastUpdate = time.Now()
	e.reg.Store(slot, rd)

	return nil
}
