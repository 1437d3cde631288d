// internal/transport/transport.go
package transport

import (
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Port is the exact serial surface the transport drives.
// go.bug.st/serial.Port satisfies it; tests use a fake.
type Port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Drain() error
	ResetInputBuffer() error
	SetRTS(level bool) error
	SetReadTimeout(t time.Duration) error
	Close() error
}

// Config is the minimal link config the transport needs.
type Config struct {
	Device string
	Baud   int

	// RTSDirection asserts RTS while transmitting. Required on buses
	// where RTS drives the RS485 driver-enable pin.
	RTSDirection bool

	// Settle is the delay between toggling the direction line and
	// touching the wire, and again between the flush and the release.
	Settle time.Duration
}

// readSlice bounds a single blocking read so the deadline loop can
// re-evaluate between bytes.
const readSlice = 20 * time.Millisecond

// Transport owns one half-duplex serial link.
// It has no protocol knowledge: frames in, bytes out.
type Transport struct {
	port Port
	cfg  Config
}

// Open opens the serial device at 8N1 and returns a ready transport.
func Open(cfg Config) (*Transport, error) {
	if cfg.Device == "" {
		return nil, errors.New("transport: device required")
	}
	if cfg.Baud <= 0 {
		return nil, errors.New("transport: baud must be > 0")
	}

	port, err := serial.Open(cfg.Device, &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", cfg.Device, err)
	}

	t := New(cfg, port)

	// Idle state is receive. Never park the bus in transmit.
	if cfg.RTSDirection {
		if err := port.SetRTS(false); err != nil {
			port.Close()
			return nil, fmt.Errorf("transport: release direction line: %w", err)
		}
	}

	return t, nil
}

// New wraps an already-open port. Used by Open and by tests.
func New(cfg Config, port Port) *Transport {
	return &Transport{port: port, cfg: cfg}
}

// SendFrame writes one frame with the direction line held in transmit
// for exactly the duration of the write plus the settle windows.
func (t *Transport) SendFrame(frame []byte) error {
	if len(frame) == 0 {
		return errors.New("transport: empty frame")
	}

	if t.cfg.RTSDirection {
		if err := t.port.SetRTS(true); err != nil {
			return fmt.Errorf("transport: assert direction line: %w", err)
		}
		time.Sleep(t.cfg.Settle)
	}

	for off := 0; off < len(frame); {
		n, err := t.port.Write(frame[off:])
		if err != nil {
			// Best effort: do not leave the bus driven.
			if t.cfg.RTSDirection {
				t.port.SetRTS(false)
			}
			return fmt.Errorf("transport: write: %w", err)
		}
		off += n
	}

	if err := t.port.Drain(); err != nil {
		if t.cfg.RTSDirection {
			t.port.SetRTS(false)
		}
		return fmt.Errorf("transport: drain: %w", err)
	}

	if t.cfg.RTSDirection {
		time.Sleep(t.cfg.Settle)
		if err := t.port.SetRTS(false); err != nil {
			return fmt.Errorf("transport: release direction line: %w", err)
		}
	}

	return nil
}

// ReadResponse accumulates bytes until maxBytes is reached or the
// deadline elapses. Each received byte may push the deadline out to
// now+perByte, so a streaming response is not truncated while a silent
// bus is not waited on past the original window.
//
// A short or empty result is not an error; the caller decides what a
// usable response looks like.
func (t *Transport) ReadResponse(maxBytes int, overall, perByte time.Duration) ([]byte, error) {
	if maxBytes <= 0 {
		return nil, errors.New("transport: maxBytes must be > 0")
	}

	if err := t.port.SetReadTimeout(readSlice); err != nil {
		return nil, fmt.Errorf("transport: set read timeout: %w", err)
	}

	buf := make([]byte, 0, maxBytes)
	tmp := make([]byte, maxBytes)
	deadline := time.Now().Add(overall)

	for len(buf) < maxBytes {
		if !time.Now().Before(deadline) {
			break
		}

		n, err := t.port.Read(tmp[:maxBytes-len(buf)])
		if err != nil {
			return buf, fmt.Errorf("transport: read: %w", err)
		}
		if n == 0 {
			continue
		}

		buf = append(buf, tmp[:n]...)

		if ext := time.Now().Add(perByte); ext.After(deadline) {
			deadline = ext
		}
	}

	return buf, nil
}

// DiscardInput drops any bytes still queued from a previous exchange.
// Must be called before every new request so a stale tail is never
// read as the head of the next response.
func (t *Transport) DiscardInput() error {
	return t.port.ResetInputBuffer()
}

// Close releases the direction line and closes the port.
func (t *Transport) Close() error {
	if t == nil || t.port == nil {
		return nil
	}
	if t.cfg.RTSDirection {
		t.port.SetRTS(false)
	}
	return t.port.Close()
}
