// internal/publish/redis/client.go
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tamzrod/valence-poller/internal/registry"
)

// Config is the minimal connection config the sink needs.
type Config struct {
	Endpoint  string
	KeyPrefix string
}

// Client mirrors each reading into a hash at <prefix>:<slot> and
// notifies subscribers on the same channel name.
type Client struct {
	rdb    *goredis.Client
	prefix string
	ctx    context.Context
}

// New creates a connected Redis sink.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("redis sink: endpoint required")
	}
	if cfg.KeyPrefix == "" {
		return nil, errors.New("redis sink: key prefix required")
	}

	ctx := context.Background()
	rdb := goredis.NewClient(&goredis.Options{Addr: cfg.Endpoint})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis sink: ping %s: %w", cfg.Endpoint, err)
	}

	return &Client{rdb: rdb, prefix: cfg.KeyPrefix, ctx: ctx}, nil
}

// PublishSlot writes the hash and the notification in one pipeline so
// subscribers never observe a half-written reading.
func (c *Client) PublishSlot(slot int, r registry.Reading) error {
	key := fmt.Sprintf("%s:%d", c.prefix, slot)

	fields := map[string]interface{}{
		"identifier":        r.Identifier,
		"voltage":           fmt.Sprintf("%.2f", r.Voltage),
		"current":           fmt.Sprintf("%.1f", r.Current),
		"power":             fmt.Sprintf("%.1f", r.Power),
		"state-of-charge":   fmt.Sprintf("%d", r.StateOfCharge),
		"temperature":       fmt.Sprintf("%.1f", r.Temperature),
		"secondary-current": fmt.Sprintf("%.1f", r.SecondaryCurrent),
		"cycle-count":       fmt.Sprintf("%d", r.CycleCount),
		"valid":             fmt.Sprintf("%t", r.Valid),
		"last-update":       r.LastUpdate.Format("2006-01-02T15:04:05.000Z07:00"),
	}
	for i, cv := range r.CellVoltages {
		fields[fmt.Sprintf("cell-voltage:%d", i)] = fmt.Sprintf("%.3f", cv)
	}

	pipe := c.rdb.Pipeline()
	pipe.HSet(c.ctx, key, fields)
	pipe.Publish(c.ctx, key, "reading")

	if _, err := pipe.Exec(c.ctx); err != nil {
		return fmt.Errorf("redis sink: slot %d: %w", slot, err)
	}
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
