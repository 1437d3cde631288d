// internal/publish/publisher.go
package publish

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/valence-poller/internal/registry"
)

// Publisher fans one registry snapshot out to every configured sink.
// Delivery only: no retries, no buffering, no interpretation.
type Publisher struct {
	sinks []Sink
}

// New creates a publisher. Zero sinks is valid: Publish becomes a no-op.
func New(sinks []Sink) *Publisher {
	return &Publisher{sinks: sinks}
}

// Publish delivers every slot of the snapshot to every sink.
// One failing sink does not block the others; all failures are
// collected into a single error.
func (p *Publisher) Publish(snap []registry.Reading) error {
	var errs []string

	for slot, rd := range snap {
		for _, s := range p.sinks {
			if err := s.PublishSlot(slot, rd); err != nil {
				errs = append(errs, fmt.Sprintf("slot %d: %v", slot, err))
			}
		}
	}

	if len(errs) > 0 {
		return errors.New("publish: " + strings.Join(errs, "; "))
	}
	return nil
}
