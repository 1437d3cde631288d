// internal/engine/discovery.go
package engine

import (
	"fmt"
	"log"

	"github.com/tamzrod/valence-poller/internal/registry"
)

// BeginDiscovery runs one full discovery pass: wake-up, address scan
// 0..5 in order, bus-id commit, registry population. The pass always
// starts from a clean table; it is never incremental.
//
// A pass that finds zero batteries is not an error: the synthetic
// generator fills the table so callers always see a usable registry.
// Transport write failures are fatal to the pass (the bus is gone).
func (e *Engine) BeginDiscovery() error {
	e.reg.Reset()
	e.initialized = false
	e.synthetic = false

	if err := e.bus.DiscardInput(); err != nil {
		return fmt.Errorf("discovery: discard input: %w", err)
	}
	if err := e.bus.SendFrame(wakeSequence); err != nil {
		return fmt.Errorf("discovery: wake-up: %w", err)
	}

	for addr := byte(0); addr < scanAddresses; addr++ {
		if e.reg.Active() >= registry.Capacity {
			break
		}

		if err := e.bus.DiscardInput(); err != nil {
			return fmt.Errorf("discovery: discard input: %w", err)
		}
		if err := e.bus.SendFrame(discoveryFrame(addr)); err != nil {
			return fmt.Errorf("discovery: poll addr %d: %w", addr, err)
		}

		reply, err := e.bus.ReadResponse(maxDiscoveryReply, e.cfg.ScanWindow, e.cfg.ScanByteExtension)
		if err != nil {
			return fmt.Errorf("discovery: read addr %d: %w", addr, err)
		}

		if len(reply) < minDiscoveryReply {
			continue // silent address, keep scanning
		}
		if reply[0] != frameHeader || reply[1] != opDiscoveryReply {
			log.Printf("discovery: addr %d: unexpected header % X", addr, reply[:2])
			continue
		}

		id := identifierSpan(reply)
		if id == "" {
			continue
		}

		slot, ok := e.reg.Assign(id)
		if !ok {
			break
		}
		log.Printf("discovery: addr %d -> slot %d (%s)", addr, slot, id)
	}

	// Re-send the wake sequence as the bus-id commit signal.
	// No response is expected.
	if err := e.bus.SendFrame(wakeSequence); err != nil {
		return fmt.Errorf("discovery: bus-id commit: %w", err)
	}

	if e.reg.Active() == 0 {
		log.Printf("discovery: no batteries found, generating synthetic data")
		registry.Synthesize(e.reg)
		e.synthetic = true
	}

	e.initialized = true
	return nil
}
