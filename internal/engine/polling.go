// internal/engine/polling.go
package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/tamzrod/valence-poller/internal/registry"
)

// PollAll refreshes measurements for every active slot in index order.
// No-op until a discovery pass has completed. When the registry holds
// synthetic data, the pass regenerates it without touching the bus.
//
// A slot that does not answer, or answers with a short or malformed
// frame, is logged and skipped; its previous reading stays valid with
// its old timestamp. Only transport write failures abort the pass.
func (e *Engine) PollAll() error {
	if !e.initialized {
		return nil
	}

	if e.synthetic || e.reg.Active() == 0 {
		// Nothing real to poll; refresh the fabricated readings
		// instead of timing out against a silent bus.
		registry.Synthesize(e.reg)
		return nil
	}

	for slot := 0; slot < e.reg.Active(); slot++ {
		if err := e.bus.DiscardInput(); err != nil {
			return fmt.Errorf("polling: discard input: %w", err)
		}
		if err := e.bus.SendFrame(dataRequestFrame(byte(slot))); err != nil {
			return fmt.Errorf("polling: request slot %d: %w", slot, err)
		}

		reply, err := e.bus.ReadResponse(maxDataReply, e.cfg.PollTimeout, e.cfg.PollByteExtension)
		if err != nil {
			return fmt.Errorf("polling: read slot %d: %w", slot, err)
		}

		if len(reply) < minDataReply || reply[0] != frameHeader {
			log.Printf("polling: slot %d: no usable response (%d bytes)", slot, len(reply))
		} else if err := e.DecodeFrame(slot, reply); err != nil {
			log.Printf("polling: slot %d: decode: %v", slot, err)
		}

		// Bus settle between consecutive requests.
		time.Sleep(e.cfg.SlotGap)
	}

	return nil
}
