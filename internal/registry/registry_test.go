// internal/registry/registry_test.go
package registry

import "testing"

func TestAssign_DiscoveryOrder(t *testing.T) {
	r := New()

	ids := []string{"BAT-A", "BAT-B", "BAT-C"}
	for i, id := range ids {
		idx, ok := r.Assign(id)
		if !ok {
			t.Fatalf("Assign(%q) refused", id)
		}
		if idx != i {
			t.Fatalf("Assign(%q) -> slot %d, want %d", id, idx, i)
		}
	}

	if r.Active() != len(ids) {
		t.Fatalf("Active=%d, want %d", r.Active(), len(ids))
	}

	for i, id := range ids {
		rd, ok := r.Slot(i)
		if !ok {
			t.Fatalf("Slot(%d) out of range", i)
		}
		if rd.Identifier != id {
			t.Fatalf("slot %d identifier %q, want %q", i, rd.Identifier, id)
		}
		if rd.Valid {
			t.Fatalf("slot %d valid before any decode", i)
		}
	}
}

func TestAssign_FullTable(t *testing.T) {
	r := New()

	for i := 0; i < Capacity; i++ {
		if _, ok := r.Assign("x"); !ok {
			t.Fatalf("Assign refused at %d/%d", i, Capacity)
		}
	}
	if _, ok := r.Assign("overflow"); ok {
		t.Fatal("Assign accepted beyond capacity")
	}
	if r.Active() != Capacity {
		t.Fatalf("Active=%d, want %d", r.Active(), Capacity)
	}
}

func TestReset_ClearsEverything(t *testing.T) {
	r := New()
	r.Assign("BAT-A")

	rd, _ := r.Slot(0)
	rd.Valid = true
	rd.Voltage = 12.8
	r.Store(0, rd)

	r.Reset()

	if r.Active() != 0 {
		t.Fatalf("Active=%d after Reset", r.Active())
	}
	rd, _ = r.Slot(0)
	if rd.Valid || rd.Identifier != "" || rd.Voltage != 0 {
		t.Fatalf("slot survived Reset: %+v", rd)
	}
}

func TestSlot_Bounds(t *testing.T) {
	r := New()

	if _, ok := r.Slot(-1); ok {
		t.Fatal("Slot(-1) accepted")
	}
	if _, ok := r.Slot(Capacity); ok {
		t.Fatalf("Slot(%d) accepted", Capacity)
	}
}

func TestSynthesize_Completeness(t *testing.T) {
	r := New()
	Synthesize(r)

	if r.Active() != Capacity {
		t.Fatalf("Active=%d, want %d", r.Active(), Capacity)
	}

	for i := 0; i < Capacity; i++ {
		rd, _ := r.Slot(i)

		if !rd.Valid {
			t.Fatalf("slot %d not valid", i)
		}
		if rd.Identifier == "" {
			t.Fatalf("slot %d has empty identifier", i)
		}
		if rd.Voltage < 10 || rd.Voltage > 15 {
			t.Fatalf("slot %d voltage %.2f outside 12V band", i, rd.Voltage)
		}
		if rd.Current < -12.5 || rd.Current > 12.5 {
			t.Fatalf("slot %d current %.2f outside band", i, rd.Current)
		}
		if rd.StateOfCharge < 0 || rd.StateOfCharge > 100 {
			t.Fatalf("slot %d soc %d outside [0,100]", i, rd.StateOfCharge)
		}
		if rd.Temperature < 18 || rd.Temperature > 28 {
			t.Fatalf("slot %d temperature %.1f implausible", i, rd.Temperature)
		}
		if rd.LastUpdate.IsZero() {
			t.Fatalf("slot %d missing timestamp", i)
		}
		for c, cv := range rd.CellVoltages {
			if cv <= 0 {
				t.Fatalf("slot %d cell %d voltage %.3f", i, c, cv)
			}
		}
	}
}

func TestSnapshot_CopiesActiveSlots(t *testing.T) {
	r := New()
	r.Assign("BAT-A")
	r.Assign("BAT-B")

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot length %d, want 2", len(snap))
	}

	// Mutating the snapshot must not touch the table.
	snap[0].Identifier = "mutated"
	rd, _ := r.Slot(0)
	if rd.Identifier != "BAT-A" {
		t.Fatalf("registry mutated through snapshot: %q", rd.Identifier)
	}
}
