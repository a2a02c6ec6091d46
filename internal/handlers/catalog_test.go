package handlers

import "testing"

func TestPlanHomepageSlotsMoveProducesSingleUpdate(t *testing.T) {
	current := []SlotOccupant{
		{ID: "a", Slot: 4},
		{ID: "b", Slot: 1},
	}
	desired := []SlotAssignment{
		{ID: "a", Slot: 2},
		{ID: "b", Slot: 1},
	}

	changes, err := PlanHomepageSlots(current, desired)
	if err != nil {
		t.Fatalf("PlanHomepageSlots() error = %v", err)
	}

	if len(changes) != 1 {
		t.Fatalf("changes = %d, want exactly 1 for a single move: %+v", len(changes), changes)
	}
	if changes[0].ID != "a" || !changes[0].Show || changes[0].Slot != 2 {
		t.Errorf("unexpected change: %+v", changes[0])
	}
}

func TestPlanHomepageSlotsClearsDroppedOccupant(t *testing.T) {
	current := []SlotOccupant{
		{ID: "a", Slot: 1},
		{ID: "b", Slot: 2},
	}
	desired := []SlotAssignment{
		{ID: "c", Slot: 2},
	}

	changes, err := PlanHomepageSlots(current, desired)
	if err != nil {
		t.Fatalf("PlanHomepageSlots() error = %v", err)
	}

	var placed, cleared int
	for _, ch := range changes {
		if ch.Show {
			placed++
			if ch.ID != "c" || ch.Slot != 2 {
				t.Errorf("unexpected placement: %+v", ch)
			}
		} else {
			cleared++
		}
	}
	if placed != 1 || cleared != 2 {
		t.Errorf("placed=%d cleared=%d, want 1 placement and 2 clears: %+v", placed, cleared, changes)
	}
}

func TestPlanHomepageSlotsNoChanges(t *testing.T) {
	current := []SlotOccupant{{ID: "a", Slot: 1}}
	desired := []SlotAssignment{{ID: "a", Slot: 1}}

	changes, err := PlanHomepageSlots(current, desired)
	if err != nil {
		t.Fatalf("PlanHomepageSlots() error = %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("changes = %+v, want none", changes)
	}
}

func TestPlanHomepageSlotsValidation(t *testing.T) {
	tests := []struct {
		name    string
		desired []SlotAssignment
	}{
		{"slot too low", []SlotAssignment{{ID: "a", Slot: 0}}},
		{"slot too high", []SlotAssignment{{ID: "a", Slot: 5}}},
		{"duplicate slot", []SlotAssignment{{ID: "a", Slot: 1}, {ID: "b", Slot: 1}}},
		{"duplicate entity", []SlotAssignment{{ID: "a", Slot: 1}, {ID: "a", Slot: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PlanHomepageSlots(nil, tt.desired); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPlanHomepageSlotsSwap(t *testing.T) {
	current := []SlotOccupant{
		{ID: "a", Slot: 1},
		{ID: "b", Slot: 2},
	}
	desired := []SlotAssignment{
		{ID: "a", Slot: 2},
		{ID: "b", Slot: 1},
	}

	changes, err := PlanHomepageSlots(current, desired)
	if err != nil {
		t.Fatalf("PlanHomepageSlots() error = %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("changes = %d, want 2 for a swap: %+v", len(changes), changes)
	}
	for _, ch := range changes {
		if !ch.Show {
			t.Errorf("swap should not clear anything: %+v", ch)
		}
	}
}
