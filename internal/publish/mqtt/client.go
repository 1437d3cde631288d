// internal/publish/mqtt/client.go
package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/tamzrod/valence-poller/internal/registry"
)

// Config is the minimal broker config the sink needs.
type Config struct {
	Endpoint string
	ClientID string
	Topic    string
	Username string
	Password string
}

const opTimeout = 5 * time.Second

// Client publishes readings as retained JSON, one topic per slot.
type Client struct {
	cli   mqtt.Client
	topic string
}

// New creates a connected MQTT sink.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("mqtt sink: endpoint required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("mqtt sink: topic required")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Endpoint)
	if cfg.ClientID != "" {
		opts.SetClientID(cfg.ClientID)
	}
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetryInterval(2 * time.Second)

	cli := mqtt.NewClient(opts)
	if tok := cli.Connect(); !tok.WaitTimeout(opTimeout) {
		return nil, fmt.Errorf("mqtt sink: connect to %s timed out", cfg.Endpoint)
	} else if tok.Error() != nil {
		return nil, fmt.Errorf("mqtt sink: connect to %s: %w", cfg.Endpoint, tok.Error())
	}

	return &Client{cli: cli, topic: cfg.Topic}, nil
}

// slotPayload is the wire shape of one reading.
type slotPayload struct {
	Identifier       string    `json:"identifier"`
	Voltage          float64   `json:"voltage"`
	Current          float64   `json:"current"`
	Power            float64   `json:"power"`
	StateOfCharge    int       `json:"state_of_charge"`
	Temperature      float64   `json:"temperature"`
	CellVoltages     []float64 `json:"cell_voltages"`
	SecondaryCurrent float64   `json:"secondary_current"`
	CycleCount       uint      `json:"cycle_count"`
	Valid            bool      `json:"valid"`
	LastUpdate       time.Time `json:"last_update"`
}

// PublishSlot delivers one reading to <topic>/<slot>, retained so late
// subscribers see the last known state.
func (c *Client) PublishSlot(slot int, r registry.Reading) error {
	payload := slotPayload{
		Identifier:       r.Identifier,
		Voltage:          r.Voltage,
		Current:          r.Current,
		Power:            r.Power,
		StateOfCharge:    r.StateOfCharge,
		Temperature:      r.Temperature,
		CellVoltages:     r.CellVoltages[:],
		SecondaryCurrent: r.SecondaryCurrent,
		CycleCount:       r.CycleCount,
		Valid:            r.Valid,
		LastUpdate:       r.LastUpdate,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mqtt sink: marshal slot %d: %w", slot, err)
	}

	tok := c.cli.Publish(fmt.Sprintf("%s/%d", c.topic, slot), 0, true, b)
	if !tok.WaitTimeout(opTimeout) {
		return fmt.Errorf("mqtt sink: publish slot %d timed out", slot)
	}
	return tok.Error()
}

// Close disconnects from the broker.
func (c *Client) Close() error {
	c.cli.Disconnect(250)
	return nil
}
