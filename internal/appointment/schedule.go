package appointment

import (
	"errors"
	"fmt"
)

var (
	ErrNoFreeSlot      = errors.New("no free slot for preference")
	ErrQueueMismatch   = errors.New("appointment ids must match the active queue exactly")
	ErrSlotNotAssigned = errors.New("active appointment has no assigned time")
)

// Scheduler decides slot placement. Both methods are pure functions of
// their inputs and the immutable catalog; callers pass in a fresh
// snapshot of the active appointments and persist the result themselves.
type Scheduler struct {
	catalog *Catalog
}

func NewScheduler(catalog *Catalog) *Scheduler {
	return &Scheduler{catalog: catalog}
}

// NextFreeSlot returns the earliest catalog slot for pref not taken by
// any of the existing active appointments. Exhaustion is reported with
// ErrNoFreeSlot and the catalog size so callers can reject the request.
func (s *Scheduler) NextFreeSlot(pref TimePreference, existing []Appointment) (Slot, error) {
	taken := make(map[Slot]struct{}, len(existing))
	for i := range existing {
		if existing[i].AssignedTime != nil {
			taken[*existing[i].AssignedTime] = struct{}{}
		}
	}

	slots := s.catalog.Slots(pref)
	for _, slot := range slots {
		if _, ok := taken[slot]; !ok {
			return slot, nil
		}
	}

	return 0, fmt.Errorf("all %d %s slots are taken: %w", len(slots), pref, ErrNoFreeSlot)
}

// Reassign recomputes every assigned time for a doctor's daily queue from
// the requested order alone. orderedIDs must contain exactly the ids of
// the active appointments, no more, no less, no duplicates. The requested
// order is split per preference half, and the i-th appointment of each
// half receives the i-th catalog slot. Nothing is mutated on failure;
// the returned copies are meant to be saved as one atomic batch.
func (s *Scheduler) Reassign(active []Appointment, orderedIDs []int64) ([]Appointment, error) {
	byID := make(map[int64]*Appointment, len(active))
	for i := range active {
		byID[active[i].ID] = &active[i]
	}

	if len(orderedIDs) != len(active) {
		return nil, fmt.Errorf("got %d ids for %d active appointments: %w",
			len(orderedIDs), len(active), ErrQueueMismatch)
	}
	seen := make(map[int64]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("id %d is not in the active queue: %w", id, ErrQueueMismatch)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("id %d appears more than once: %w", id, ErrQueueMismatch)
		}
		seen[id] = struct{}{}
	}

	// Split the requested order into AM and PM halves, preserving
	// relative order within each half.
	var amIDs, pmIDs []int64
	for _, id := range orderedIDs {
		if byID[id].TimePreference == PreferencePM {
			pmIDs = append(pmIDs, id)
		} else {
			amIDs = append(amIDs, id)
		}
	}

	updated := make([]Appointment, 0, len(orderedIDs))
	for _, half := range []struct {
		pref TimePreference
		ids  []int64
	}{
		{PreferenceAM, amIDs},
		{PreferencePM, pmIDs},
	} {
		slots := s.catalog.Slots(half.pref)
		if len(half.ids) > len(slots) {
			return nil, fmt.Errorf("%d %s appointments for %d slots: %w",
				len(half.ids), half.pref, len(slots), ErrNoFreeSlot)
		}
		for pos, id := range half.ids {
			appt := *byID[id]
			slot := slots[pos]
			appt.AssignedTime = &slot
			updated = append(updated, appt)
		}
	}

	return updated, nil
}
