// cmd/valenced/main.go
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/valence-poller/internal/config"
	"github.com/tamzrod/valence-poller/internal/engine"
	"github.com/tamzrod/valence-poller/internal/publish"
	"github.com/tamzrod/valence-poller/internal/transport"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: valenced <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	// --------------------
	// Bus transport
	// --------------------

	bus := cfg.Valence.Bus

	tr, err := transport.Open(transport.Config{
		Device:       bus.Port,
		Baud:         bus.Baud,
		RTSDirection: bus.RTSDirection,
		Settle:       time.Duration(bus.SettleMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatalf("transport open failed: %v", err)
	}
	defer tr.Close()

	// --------------------
	// Protocol engine
	// --------------------

	poll := cfg.Valence.Poll

	eng, err := engine.New(engine.Config{
		ScanWindow:        time.Duration(bus.ScanWindowMs) * time.Millisecond,
		PollTimeout:       time.Duration(poll.TimeoutMs) * time.Millisecond,
		PollByteExtension: time.Duration(poll.ByteExtensionMs) * time.Millisecond,
		SlotGap:           time.Duration(poll.SlotGapMs) * time.Millisecond,
	}, tr)
	if err != nil {
		log.Fatalf("engine build failed: %v", err)
	}

	// --------------------
	// Publish sinks
	// --------------------

	sinks, closeSinks, err := publish.Build(cfg.Valence.Publish)
	if err != nil {
		log.Fatalf("publish build failed: %v", err)
	}
	defer closeSinks()

	pub := publish.New(sinks)

	// --------------------
	// Discovery, then the polling loop
	// --------------------

	if err := eng.BeginDiscovery(); err != nil {
		log.Fatalf("discovery failed: %v", err)
	}
	log.Printf("discovery complete: %d active slot(s)", eng.ActiveCount())

	rediscover := make(chan os.Signal, 1)
	signal.Notify(rediscover, syscall.SIGHUP)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(poll.IntervalMs) * time.Millisecond)
	defer ticker.Stop()

	// Single loop, single bus master: discovery and polling never
	// overlap.
	for {
		select {
		case <-stop:
			log.Printf("shutting down")
			return

		case <-rediscover:
			log.Printf("SIGHUP: re-running discovery")
			if err := eng.BeginDiscovery(); err != nil {
				log.Printf("re-discovery failed: %v", err)
				continue
			}
			log.Printf("discovery complete: %d active slot(s)", eng.ActiveCount())

		case <-ticker.C:
			if err := eng.PollAll(); err != nil {
				log.Printf("polling pass failed: %v", err)
				continue
			}
			if err := pub.Publish(eng.Snapshot()); err != nil {
				log.Printf("publish error: %v", err)
			}
		}
	}
}
