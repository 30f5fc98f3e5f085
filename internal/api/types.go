package api

import (
	"github.com/coxMita/OPD-Vertex-Group7/internal/appointment"
)

type BookAppointmentRequest struct {
	PatientID       int64   `json:"patient_id"`
	DoctorID        int64   `json:"doctor_id"`
	AppointmentDate string  `json:"appointment_date"` // YYYY-MM-DD
	TimePreference  string  `json:"time_preference"`  // AM or PM
	Notes           *string `json:"notes,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ReorderQueueRequest struct {
	AppointmentIDs []int64 `json:"appointment_ids"`
}

type AppointmentResponse struct {
	ID              int64             `json:"id"`
	PatientID       int64             `json:"patient_id"`
	DoctorID        int64             `json:"doctor_id"`
	AppointmentDate string            `json:"appointment_date"`
	TimePreference  string            `json:"time_preference"`
	AssignedTime    *appointment.Slot `json:"assigned_time"`
	Status          string            `json:"status"`
	Notes           *string           `json:"notes,omitempty"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		PatientID:       a.PatientID,
		DoctorID:        a.DoctorID,
		AppointmentDate: a.AppointmentDate.Format("2006-01-02"),
		TimePreference:  string(a.TimePreference),
		AssignedTime:    a.AssignedTime,
		Status:          string(a.Status),
		Notes:           a.Notes,
	}
}

func toAppointmentResponses(appts []appointment.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		out = append(out, toAppointmentResponse(&appts[i]))
	}
	return out
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
