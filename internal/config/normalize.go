// internal/config/normalize.go
package config

// Wire and timing defaults. The bus side of the protocol is fixed at
// 115200 8N1; the timing windows match the hardware-observed values.
const (
	DefaultBaud            = 115200
	DefaultSettleMs        = 2
	DefaultScanWindowMs    = 100
	DefaultIntervalMs      = 2000
	DefaultTimeoutMs       = 1000
	DefaultByteExtensionMs = 100
	DefaultSlotGapMs       = 50
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	b := &cfg.Valence.Bus
	if b.Baud == 0 {
		b.Baud = DefaultBaud
	}
	if b.SettleMs == 0 {
		b.SettleMs = DefaultSettleMs
	}
	if b.ScanWindowMs == 0 {
		b.ScanWindowMs = DefaultScanWindowMs
	}

	p := &cfg.Valence.Poll
	if p.IntervalMs == 0 {
		p.IntervalMs = DefaultIntervalMs
	}
	if p.TimeoutMs == 0 {
		p.TimeoutMs = DefaultTimeoutMs
	}
	if p.ByteExtensionMs == 0 {
		p.ByteExtensionMs = DefaultByteExtensionMs
	}
	if p.SlotGapMs == 0 {
		p.SlotGapMs = DefaultSlotGapMs
	}
}
