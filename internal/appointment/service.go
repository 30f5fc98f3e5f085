package appointment

import (
	"context"
	"fmt"
	"time"
)

// Events receives notifications after a state change has committed.
// Implementations must not block and must not return failures into the
// request path; delivery is fire and forget.
type Events interface {
	AppointmentCreated(appt *Appointment)
	AppointmentStatusChanged(appt *Appointment)
}

type BookRequest struct {
	PatientID       int64
	DoctorID        int64
	AppointmentDate time.Time
	TimePreference  TimePreference
	Notes           *string
}

// Service is the appointment use-case façade. It reads a fresh snapshot
// of the relevant queue per request and lets the database's active-slot
// uniqueness resolve concurrent bookings; it holds no scheduling state.
type Service struct {
	repo      Repository
	scheduler *Scheduler
	events    Events
}

func NewService(repo Repository, scheduler *Scheduler, events Events) *Service {
	return &Service{
		repo:      repo,
		scheduler: scheduler,
		events:    events,
	}
}

// Book assigns the earliest free slot for the requested doctor, date and
// half-day preference and persists a new SCHEDULED appointment. Two
// requests racing for the same slot both pass the scan; the insert that
// loses gets ErrSlotConflict from the repository and the client retries.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	existing, err := s.repo.ListActiveByDoctorDatePreference(ctx, req.DoctorID, req.AppointmentDate, req.TimePreference)
	if err != nil {
		return nil, fmt.Errorf("load booked slots: %w", err)
	}

	slot, err := s.scheduler.NextFreeSlot(req.TimePreference, existing)
	if err != nil {
		return nil, fmt.Errorf("doctor %d on %s: %w",
			req.DoctorID, req.AppointmentDate.Format("2006-01-02"), err)
	}

	created, err := s.repo.Create(ctx, Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: req.AppointmentDate,
		TimePreference:  req.TimePreference,
		AssignedTime:    &slot,
		Status:          StatusScheduled,
		Notes:           req.Notes,
	})
	if err != nil {
		return nil, err
	}

	s.events.AppointmentCreated(created)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// Queue returns the active appointments for one doctor on one date,
// ordered by assigned time.
func (s *Service) Queue(ctx context.Context, doctorID int64, date time.Time) ([]Appointment, error) {
	appts, err := s.repo.ListActiveByDoctorDate(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("load queue: %w", err)
	}
	return appts, nil
}

func (s *Service) PatientAppointments(ctx context.Context, patientID int64) ([]Appointment, error) {
	appts, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load patient appointments: %w", err)
	}
	return appts, nil
}

// UpdateStatus sets the appointment's status to any requested value.
// Transitions are deliberately unrestricted, including out of DONE and
// CANCELLED; staff use this as an administrative override.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Appointment, error) {
	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.events.AppointmentStatusChanged(updated)
	return updated, nil
}

// ReorderQueue reassigns every slot of a doctor's daily queue from the
// requested order and saves the result as one atomic batch. The id list
// must match the active queue exactly. No events are emitted; bulk slot
// churn is not treated as individually event-worthy.
func (s *Service) ReorderQueue(ctx context.Context, doctorID int64, date time.Time, orderedIDs []int64) ([]Appointment, error) {
	active, err := s.repo.ListActiveByDoctorDate(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("load queue: %w", err)
	}

	updated, err := s.scheduler.Reassign(active, orderedIDs)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.SaveAssignedTimes(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("save reordered queue: %w", err)
	}

	return saved, nil
}
