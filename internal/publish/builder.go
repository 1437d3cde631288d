// internal/publish/builder.go
package publish

import (
	"fmt"

	cfg "github.com/tamzrod/valence-poller/internal/config"
	pmqtt "github.com/tamzrod/valence-poller/internal/publish/mqtt"
	predis "github.com/tamzrod/valence-poller/internal/publish/redis"
)

// Build constructs one sink per configured target and a closer that
// releases them all. Fails fast: the first target that cannot connect
// tears down the ones already built.
func Build(pc cfg.PublishConfig) ([]Sink, func() error, error) {
	var sinks []Sink

	closeAll := func() error {
		var last error
		for _, s := range sinks {
			if err := s.Close(); err != nil {
				last = err
			}
		}
		return last
	}

	for i, t := range pc.Targets {
		switch t.Kind {
		case "mqtt":
			s, err := pmqtt.New(pmqtt.Config{
				Endpoint: t.Endpoint,
				ClientID: t.ClientID,
				Topic:    t.Topic,
				Username: t.Username,
				Password: t.Password,
			})
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("publish: target %d: %w", i, err)
			}
			sinks = append(sinks, s)

		case "redis":
			s, err := predis.New(predis.Config{
				Endpoint:  t.Endpoint,
				KeyPrefix: t.KeyPrefix,
			})
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("publish: target %d: %w", i, err)
			}
			sinks = append(sinks, s)

		default:
			closeAll()
			return nil, nil, fmt.Errorf("publish: target %d: unknown kind %q", i, t.Kind)
		}
	}

	return sinks, closeAll, nil
}
