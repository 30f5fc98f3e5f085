// Package event carries appointment domain events to downstream consumers
// over Redis pub/sub. Delivery is best effort: an event is published after
// the triggering change has committed, and a publish failure never fails
// the request that produced it.
package event

import (
	"time"

	"github.com/coxMita/OPD-Vertex-Group7/internal/appointment"
)

const (
	TopicAppointmentCreated       = "appointment.created"
	TopicAppointmentStatusChanged = "appointment.status_changed"
)

// AppointmentEvent is an immutable snapshot of an appointment's public
// fields taken right after a successful state change.
type AppointmentEvent struct {
	AppointmentID   int64                      `json:"appointment_id"`
	PatientID       int64                      `json:"patient_id"`
	DoctorID        int64                      `json:"doctor_id"`
	AppointmentDate string                     `json:"appointment_date"`
	TimePreference  appointment.TimePreference `json:"time_preference"`
	AssignedTime    *appointment.Slot          `json:"assigned_time"`
	Status          appointment.Status         `json:"status"`
	OccurredAt      time.Time                  `json:"occurred_at"`
}

func FromAppointment(a *appointment.Appointment) AppointmentEvent {
	return AppointmentEvent{
		AppointmentID:   a.ID,
		PatientID:       a.PatientID,
		DoctorID:        a.DoctorID,
		AppointmentDate: a.AppointmentDate.Format("2006-01-02"),
		TimePreference:  a.TimePreference,
		AssignedTime:    a.AssignedTime,
		Status:          a.Status,
		OccurredAt:      time.Now().UTC(),
	}
}
