package appointment

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusCancelled  Status = "CANCELLED"
)

// ParseStatus validates a status value coming in over the wire.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusScheduled, StatusInProgress, StatusDone, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

type TimePreference string

const (
	PreferenceAM TimePreference = "AM"
	PreferencePM TimePreference = "PM"
)

func ParseTimePreference(s string) (TimePreference, error) {
	switch TimePreference(s) {
	case PreferenceAM, PreferencePM:
		return TimePreference(s), nil
	}
	return "", fmt.Errorf("unknown time preference %q", s)
}

// Slot is a bookable time of day, stored as minutes from midnight.
// Slots compare in catalog order with plain <.
type Slot int

func SlotAtHour(hour int) Slot {
	return Slot(hour * 60)
}

func (s Slot) Hour() int   { return int(s) / 60 }
func (s Slot) Minute() int { return int(s) % 60 }

func (s Slot) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour(), s.Minute())
}

// MarshalText renders the slot as HH:MM for JSON payloads.
func (s Slot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Slot) UnmarshalText(b []byte) error {
	parsed, err := ParseSlot(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseSlot(raw string) (Slot, error) {
	hh, mm, ok := strings.Cut(raw, ":")
	if !ok {
		return 0, fmt.Errorf("invalid slot %q: want HH:MM", raw)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid slot %q: %w", raw, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid slot %q: %w", raw, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid slot %q: out of range", raw)
	}
	return Slot(h*60 + m), nil
}

// Appointment is the persisted booking record. AssignedTime is nil only
// before the scheduler has placed it; every stored row has it set.
type Appointment struct {
	ID              int64
	PatientID       int64
	DoctorID        int64
	AppointmentDate time.Time // calendar date, time component zero
	TimePreference  TimePreference
	AssignedTime    *Slot
	Status          Status
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Active reports whether the appointment still occupies its slot.
func (a *Appointment) Active() bool {
	return a.Status != StatusCancelled
}
