// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Valence ValenceConfig `yaml:"valence"`
}

type ValenceConfig struct {
	Bus     BusConfig     `yaml:"bus"`
	Poll    PollConfig    `yaml:"poll"`
	Publish PublishConfig `yaml:"publish"`
}

// ---- BUS ----

type BusConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`

	// RTSDirection drives the RS485 direction line via RTS.
	RTSDirection bool `yaml:"rts_direction"`

	SettleMs     int `yaml:"settle_ms"`
	ScanWindowMs int `yaml:"scan_window_ms"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs      int `yaml:"interval_ms"`
	TimeoutMs       int `yaml:"timeout_ms"`
	ByteExtensionMs int `yaml:"byte_extension_ms"`
	SlotGapMs       int `yaml:"slot_gap_ms"`
}

// ---- PUBLISH ----

type PublishConfig struct {
	Targets []TargetConfig `yaml:"targets"`
}

type TargetConfig struct {
	Kind     string `yaml:"kind"` // "mqtt" or "redis"
	Endpoint string `yaml:"endpoint"`

	// mqtt only
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// redis only
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads and parses a config file. No validation here.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return &cfg, nil
}
