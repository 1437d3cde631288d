// internal/publish/publisher_test.go
package publish

import (
	"errors"
	"strings"
	"testing"

	"github.com/tamzrod/valence-poller/internal/registry"
)

type recordingSink struct {
	slots  []int
	ids    []string
	fail   bool
	closed bool
}

func (s *recordingSink) PublishSlot(slot int, r registry.Reading) error {
	if s.fail {
		return errors.New("sink down")
	}
	s.slots = append(s.slots, slot)
	s.ids = append(s.ids, r.Identifier)
	return nil
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func snapshot() []registry.Reading {
	return []registry.Reading{
		{Identifier: "BAT-A", Valid: true},
		{Identifier: "BAT-B", Valid: true},
	}
}

func TestPublish_AllSlotsToAllSinks(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}
	p := New([]Sink{a, b})

	if err := p.Publish(snapshot()); err != nil {
		t.Fatalf("Publish err=%v", err)
	}

	for _, s := range []*recordingSink{a, b} {
		if len(s.slots) != 2 || s.slots[0] != 0 || s.slots[1] != 1 {
			t.Fatalf("slots delivered %v, want [0 1]", s.slots)
		}
		if s.ids[0] != "BAT-A" || s.ids[1] != "BAT-B" {
			t.Fatalf("readings delivered %v", s.ids)
		}
	}
}

func TestPublish_FailingSinkDoesNotBlockOthers(t *testing.T) {
	bad := &recordingSink{fail: true}
	good := &recordingSink{}
	p := New([]Sink{bad, good})

	err := p.Publish(snapshot())
	if err == nil {
		t.Fatal("expected aggregated error, got nil")
	}
	if !strings.Contains(err.Error(), "sink down") {
		t.Fatalf("error %v does not mention the failing sink", err)
	}
	if len(good.slots) != 2 {
		t.Fatalf("healthy sink got %d slots, want 2", len(good.slots))
	}
}

func TestPublish_NoSinks(t *testing.T) {
	p := New(nil)

	if err := p.Publish(snapshot()); err != nil {
		t.Fatalf("Publish with no sinks err=%v", err)
	}
}

func TestPublish_EmptySnapshot(t *testing.T) {
	s := &recordingSink{}
	p := New([]Sink{s})

	if err := p.Publish(nil); err != nil {
		t.Fatalf("Publish err=%v", err)
	}
	if len(s.slots) != 0 {
		t.Fatalf("delivered %v from empty snapshot", s.slots)
	}
}
