// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	v := cfg.Valence

	// ------------------------------------------------------------
	// BUS
	// ------------------------------------------------------------

	if v.Bus.Port == "" {
		return fmt.Errorf("bus: port is required")
	}
	if v.Bus.Baud < 0 {
		return fmt.Errorf("bus: baud must not be negative")
	}
	if v.Bus.SettleMs < 0 {
		return fmt.Errorf("bus: settle_ms must not be negative")
	}
	if v.Bus.ScanWindowMs < 0 {
		return fmt.Errorf("bus: scan_window_ms must not be negative")
	}

	// ------------------------------------------------------------
	// POLL
	// ------------------------------------------------------------

	if v.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll: interval_ms must not be negative")
	}
	if v.Poll.TimeoutMs < 0 {
		return fmt.Errorf("poll: timeout_ms must not be negative")
	}
	if v.Poll.ByteExtensionMs < 0 {
		return fmt.Errorf("poll: byte_extension_ms must not be negative")
	}
	if v.Poll.SlotGapMs < 0 {
		return fmt.Errorf("poll: slot_gap_ms must not be negative")
	}

	// ------------------------------------------------------------
	// PUBLISH TARGETS
	// ------------------------------------------------------------

	// key = kind | endpoint | topic-or-prefix
	owner := make(map[string]int)

	for i, t := range v.Publish.Targets {
		var slot string

		switch t.Kind {
		case "mqtt":
			if t.Endpoint == "" {
				return fmt.Errorf("publish target %d: mqtt endpoint is required", i)
			}
			if t.Topic == "" {
				return fmt.Errorf("publish target %d: mqtt topic is required", i)
			}
			slot = t.Topic

		case "redis":
			if t.Endpoint == "" {
				return fmt.Errorf("publish target %d: redis endpoint is required", i)
			}
			if t.KeyPrefix == "" {
				return fmt.Errorf("publish target %d: redis key_prefix is required", i)
			}
			slot = t.KeyPrefix

		default:
			return fmt.Errorf("publish target %d: unknown kind %q", i, t.Kind)
		}

		key := fmt.Sprintf("%s|%s|%s", t.Kind, t.Endpoint, slot)
		if prev, exists := owner[key]; exists {
			return fmt.Errorf(
				"publish target collision: kind=%s endpoint=%s %s used by targets %d and %d",
				t.Kind, t.Endpoint, slot, prev, i,
			)
		}
		owner[key] = i
	}

	return nil
}
