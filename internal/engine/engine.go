// internal/engine/engine.go
package engine

import (
	"errors"
	"time"

	"github.com/tamzrod/valence-poller/internal/registry"
)

// Bus abstracts the half-duplex link the engine drives.
// The engine depends on framing and timing only.
type Bus interface {
	SendFrame(frame []byte) error
	ReadResponse(maxBytes int, overall, perByte time.Duration) ([]byte, error)
	DiscardInput() error
}

// Config is the runtime timing config the engine needs.
// Zero fields fall back to the defaults below.
type Config struct {
	// ScanWindow is how long discovery waits for a reply per address.
	ScanWindow time.Duration

	// ScanByteExtension extends the scan window per received byte.
	ScanByteExtension time.Duration

	// PollTimeout is the overall per-slot response window.
	PollTimeout time.Duration

	// PollByteExtension extends the poll window per received byte.
	PollByteExtension time.Duration

	// SlotGap separates consecutive per-slot requests (bus settle).
	SlotGap time.Duration
}

const (
	defaultScanWindow        = 100 * time.Millisecond
	defaultScanByteExtension = 20 * time.Millisecond
	defaultPollTimeout       = 1000 * time.Millisecond
	defaultPollByteExtension = 100 * time.Millisecond
	defaultSlotGap           = 50 * time.Millisecond
)

// Engine is the single master on the bus. It owns the registry and
// the initialized flag; all bus exchanges run to completion before
// returning, so no two frames are ever in flight.
type Engine struct {
	cfg Config
	bus Bus
	reg *registry.Registry

	initialized bool

	// synthetic marks a registry populated by the generator rather
	// than discovered hardware. Polling passes regenerate instead of
	// sending requests at addresses nothing answered.
	synthetic bool
}

// New creates an engine with an empty registry.
func New(cfg Config, bus Bus) (*Engine, error) {
	if bus == nil {
		return nil, errors.New("engine: bus required")
	}

	if cfg.ScanWindow <= 0 {
		cfg.ScanWindow = defaultScanWindow
	}
	if cfg.ScanByteExtension <= 0 {
		cfg.ScanByteExtension = defaultScanByteExtension
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}
	if cfg.PollByteExtension <= 0 {
		cfg.PollByteExtension = defaultPollByteExtension
	}
	if cfg.SlotGap <= 0 {
		cfg.SlotGap = defaultSlotGap
	}

	return &Engine{
		cfg: cfg,
		bus: bus,
		reg: registry.New(),
	}, nil
}

// Initialized reports whether a discovery pass has completed.
func (e *Engine) Initialized() bool {
	return e.initialized
}

// ActiveCount returns the number of assigned registry slots.
func (e *Engine) ActiveCount() int {
	return e.reg.Active()
}

// Slot returns a read-only copy of one registry slot.
func (e *Engine) Slot(idx int) (registry.Reading, bool) {
	return e.reg.Slot(idx)
}

// Snapshot returns copies of all active slots in index order.
func (e *Engine) Snapshot() []registry.Reading {
	return e.reg.Snapshot()
}
