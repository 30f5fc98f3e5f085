package appointment

import (
	"errors"
	"testing"
	"time"
)

func testScheduler() *Scheduler {
	return NewScheduler(NewCatalog(8, 12, 13, 17))
}

func mkAppt(id int64, pref TimePreference, slot string) Appointment {
	s, err := ParseSlot(slot)
	if err != nil {
		panic(err)
	}
	return Appointment{
		ID:              id,
		PatientID:       id * 100,
		DoctorID:        7,
		AppointmentDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		TimePreference:  pref,
		AssignedTime:    &s,
		Status:          StatusScheduled,
	}
}

func TestNextFreeSlot_FillsInOrder(t *testing.T) {
	s := testScheduler()

	var existing []Appointment
	want := []string{"08:00", "09:00", "10:00", "11:00"}
	for i, expected := range want {
		slot, err := s.NextFreeSlot(PreferenceAM, existing)
		if err != nil {
			t.Fatalf("booking %d: unexpected error: %v", i+1, err)
		}
		if slot.String() != expected {
			t.Fatalf("booking %d: expected slot %s, got %s", i+1, expected, slot)
		}
		existing = append(existing, mkAppt(int64(i+1), PreferenceAM, slot.String()))
	}

	_, err := s.NextFreeSlot(PreferenceAM, existing)
	if !errors.Is(err, ErrNoFreeSlot) {
		t.Fatalf("5th booking: expected ErrNoFreeSlot, got %v", err)
	}
}

func TestNextFreeSlot_SkipsTakenMiddleSlot(t *testing.T) {
	s := testScheduler()
	existing := []Appointment{
		mkAppt(1, PreferenceAM, "08:00"),
		mkAppt(2, PreferenceAM, "09:00"),
		mkAppt(3, PreferenceAM, "11:00"),
	}

	slot, err := s.NextFreeSlot(PreferenceAM, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot.String() != "10:00" {
		t.Errorf("expected gap slot 10:00, got %s", slot)
	}
}

func TestNextFreeSlot_EmptyCatalog(t *testing.T) {
	s := NewScheduler(NewCatalog(0, 0, 0, 0))
	_, err := s.NextFreeSlot(PreferenceAM, nil)
	if !errors.Is(err, ErrNoFreeSlot) {
		t.Fatalf("expected ErrNoFreeSlot for empty catalog, got %v", err)
	}
}

func TestReassign_Positional(t *testing.T) {
	s := testScheduler()
	active := []Appointment{
		mkAppt(1, PreferenceAM, "08:00"), // A
		mkAppt(2, PreferenceAM, "09:00"), // B
		mkAppt(3, PreferenceAM, "10:00"), // C
	}

	updated, err := s.Reassign(active, []int64{3, 1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := map[int64]string{}
	for _, a := range updated {
		got[a.ID] = a.AssignedTime.String()
	}
	if got[3] != "08:00" || got[1] != "09:00" || got[2] != "10:00" {
		t.Errorf("expected C=08:00 A=09:00 B=10:00, got %v", got)
	}
}

func TestReassign_SplitsPreferenceHalves(t *testing.T) {
	s := testScheduler()
	active := []Appointment{
		mkAppt(1, PreferenceAM, "08:00"),
		mkAppt(2, PreferencePM, "13:00"),
		mkAppt(3, PreferenceAM, "09:00"),
		mkAppt(4, PreferencePM, "14:00"),
	}

	// PM ids interleaved with AM ids; each half keeps its own relative order.
	updated, err := s.Reassign(active, []int64{4, 3, 2, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := map[int64]string{}
	for _, a := range updated {
		got[a.ID] = a.AssignedTime.String()
	}
	if got[3] != "08:00" || got[1] != "09:00" {
		t.Errorf("AM half misassigned: %v", got)
	}
	if got[4] != "13:00" || got[2] != "14:00" {
		t.Errorf("PM half misassigned: %v", got)
	}
}

func TestReassign_NoopPermutationIsIdempotent(t *testing.T) {
	s := testScheduler()
	active := []Appointment{
		mkAppt(1, PreferenceAM, "08:00"),
		mkAppt(2, PreferenceAM, "09:00"),
		mkAppt(3, PreferencePM, "13:00"),
	}

	updated, err := s.Reassign(active, []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, a := range updated {
		if a.AssignedTime.String() != active[i].AssignedTime.String() {
			t.Errorf("appointment %d: slot changed from %s to %s on no-op reorder",
				a.ID, active[i].AssignedTime, a.AssignedTime)
		}
	}
}

func TestReassign_IDSetMismatch(t *testing.T) {
	s := testScheduler()
	active := []Appointment{
		mkAppt(1, PreferenceAM, "08:00"),
		mkAppt(2, PreferenceAM, "09:00"),
	}

	cases := []struct {
		name string
		ids  []int64
	}{
		{"missing id", []int64{1}},
		{"extra id", []int64{1, 2, 99}},
		{"unknown id", []int64{1, 99}},
		{"duplicate id", []int64{1, 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Reassign(active, tc.ids)
			if !errors.Is(err, ErrQueueMismatch) {
				t.Fatalf("expected ErrQueueMismatch, got %v", err)
			}
		})
	}

	// Inputs must be untouched after failed validation.
	if active[0].AssignedTime.String() != "08:00" || active[1].AssignedTime.String() != "09:00" {
		t.Error("failed reassign mutated its input")
	}
}

func TestReassign_InputNotMutated(t *testing.T) {
	s := testScheduler()
	active := []Appointment{
		mkAppt(1, PreferenceAM, "08:00"),
		mkAppt(2, PreferenceAM, "09:00"),
	}

	if _, err := s.Reassign(active, []int64{2, 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active[0].AssignedTime.String() != "08:00" {
		t.Error("Reassign mutated the caller's snapshot")
	}
}

func TestReassign_HalfOverflowsCatalog(t *testing.T) {
	s := NewScheduler(NewCatalog(8, 10, 13, 17)) // only two AM slots
	active := []Appointment{
		mkAppt(1, PreferenceAM, "08:00"),
		mkAppt(2, PreferenceAM, "09:00"),
		mkAppt(3, PreferenceAM, "09:30"),
	}

	_, err := s.Reassign(active, []int64{1, 2, 3})
	if !errors.Is(err, ErrNoFreeSlot) {
		t.Fatalf("expected ErrNoFreeSlot when a half exceeds its catalog, got %v", err)
	}
}
