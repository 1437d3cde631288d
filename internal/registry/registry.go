// internal/registry/registry.go
package registry

import "time"

// ---- TABLE GEOMETRY ----

// Capacity is the fixed number of battery slots.
const Capacity = 4

// CellCount is the number of cell-group voltage channels per reading.
const CellCount = 6

// Reading is one battery snapshot. Zero value means "never seen".
type Reading struct {
	// Identifier is extracted from the discovery response.
	// Empty until the slot is assigned.
	Identifier string

	Voltage       float64 // volts
	Current       float64 // amps, signed: positive = charging
	Power         float64 // watts, derived
	StateOfCharge int     // percent
	Temperature   float64 // degrees C

	CellVoltages     [CellCount]float64 // volts
	SecondaryCurrent float64            // amps, second current channel

	// CycleCount is only populated by the synthetic generator.
	// Real frames do not carry it.
	CycleCount uint

	// Valid becomes true once a frame has been decoded into this slot.
	Valid      bool
	LastUpdate time.Time
}

// Registry is the fixed table of battery slots, indexed in discovery
// order. Written by discovery and polling, read by collaborators.
type Registry struct {
	slots  [Capacity]Reading
	active int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Reset clears all slots for a fresh discovery pass.
// This is the only place a valid slot becomes invalid.
func (r *Registry) Reset() {
	r.slots = [Capacity]Reading{}
	r.active = 0
}

// Assign places identifier in the next free slot and returns its
// index. Returns false when the table is full.
func (r *Registry) Assign(identifier string) (int, bool) {
	if r.active >= Capacity {
		return 0, false
	}

	idx := r.active
	r.slots[idx] = Reading{Identifier: identifier}
	r.active++

	return idx, true
}

// Active returns the number of assigned slots.
func (r *Registry) Active() int {
	return r.active
}

// Slot returns a copy of the reading at idx.
// The second result is false when idx is out of range.
func (r *Registry) Slot(idx int) (Reading, bool) {
	if idx < 0 || idx >= Capacity {
		return Reading{}, false
	}
	return r.slots[idx], true
}

// Store overwrites the reading at idx.
// Out-of-range indexes are ignored.
func (r *Registry) Store(idx int, rd Reading) {
	if idx < 0 || idx >= Capacity {
		return
	}
	r.slots[idx] = rd
}

// Snapshot returns copies of the active slots in index order.
func (r *Registry) Snapshot() []Reading {
	out := make([]Reading, r.active)
	copy(out, r.slots[:r.active])
	return out
}
