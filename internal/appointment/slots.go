package appointment

// Catalog holds the ordered bookable slots for each half-day window.
// It is built once at startup from configuration and never mutated,
// so it is safe to share across goroutines without locking.
type Catalog struct {
	am []Slot
	pm []Slot
}

// NewCatalog derives hour-aligned slots in [start, end) for each window.
// An empty or inverted window yields no slots for that preference, which
// the scheduler reports as exhausted capacity rather than an error here.
func NewCatalog(amStartHour, amEndHour, pmStartHour, pmEndHour int) *Catalog {
	return &Catalog{
		am: hourlySlots(amStartHour, amEndHour),
		pm: hourlySlots(pmStartHour, pmEndHour),
	}
}

func hourlySlots(start, end int) []Slot {
	if end <= start {
		return nil
	}
	slots := make([]Slot, 0, end-start)
	for h := start; h < end; h++ {
		slots = append(slots, SlotAtHour(h))
	}
	return slots
}

// Slots returns the catalog for a preference in ascending order.
// Callers must not modify the returned slice.
func (c *Catalog) Slots(pref TimePreference) []Slot {
	if pref == PreferencePM {
		return c.pm
	}
	return c.am
}
