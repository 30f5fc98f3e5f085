package appointment

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrSlotConflict is returned when an insert loses the race for a
	// slot to a concurrent booking. The caller should retry the request.
	ErrSlotConflict = errors.New("slot already taken by another appointment")
)

// Repository contains all DB interactions needed by the service.
// Active queries exclude cancelled appointments and order by assigned time.
type Repository interface {
	Create(ctx context.Context, appt Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id int64) (*Appointment, error)

	ListActiveByDoctorDate(ctx context.Context, doctorID int64, date time.Time) ([]Appointment, error)
	ListActiveByDoctorDatePreference(ctx context.Context, doctorID int64, date time.Time, pref TimePreference) ([]Appointment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]Appointment, error)

	UpdateStatus(ctx context.Context, id int64, status Status) (*Appointment, error)

	// SaveAssignedTimes persists a reordered queue in one transaction.
	SaveAssignedTimes(ctx context.Context, appts []Appointment) ([]Appointment, error)
}
