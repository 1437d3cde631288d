// internal/publish/types.go
package publish

import "github.com/tamzrod/valence-poller/internal/registry"

// Sink is the exact delivery contract for one publish target.
// IMPORTANT: There must be NO other version of this interface anywhere.
type Sink interface {
	PublishSlot(slot int, r registry.Reading) error
	Close() error
}
