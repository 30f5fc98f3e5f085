package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coxMita/OPD-Vertex-Group7/internal/appointment"
)

func bookAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		date, err := parseDate(req.AppointmentDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_date", "appointment_date must be YYYY-MM-DD")
			return
		}

		pref, err := appointment.ParseTimePreference(req.TimePreference)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_time_preference", "time_preference must be AM or PM")
			return
		}

		if req.PatientID <= 0 || req.DoctorID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_ids", "patient_id and doctor_id are required")
			return
		}

		appt, err := svc.Book(r.Context(), appointment.BookRequest{
			PatientID:       req.PatientID,
			DoctorID:        req.DoctorID,
			AppointmentDate: date,
			TimePreference:  pref,
			Notes:           req.Notes,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be an integer")
			return
		}

		appt, err := svc.Get(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func updateStatusHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be an integer")
			return
		}

		var req UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		status, err := appointment.ParseStatus(req.Status)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
			return
		}

		appt, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func doctorQueueHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, date, ok := queueParams(w, r)
		if !ok {
			return
		}

		appts, err := svc.Queue(r.Context(), doctorID, date)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func reorderQueueHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, date, ok := queueParams(w, r)
		if !ok {
			return
		}

		var req ReorderQueueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appts, err := svc.ReorderQueue(r.Context(), doctorID, date, req.AppointmentIDs)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func patientAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, err := pathID(r, "patientID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patientID must be an integer")
			return
		}

		appts, err := svc.PatientAppointments(r.Context(), patientID)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, appointment.ErrNoFreeSlot):
		writeError(w, http.StatusConflict, "capacity_exceeded", err.Error())
	case errors.Is(err, appointment.ErrSlotConflict):
		writeError(w, http.StatusConflict, "slot_conflict", "slot was just taken by another booking, please retry")
	case errors.Is(err, appointment.ErrQueueMismatch):
		writeError(w, http.StatusUnprocessableEntity, "queue_mismatch", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

func queueParams(w http.ResponseWriter, r *http.Request) (int64, time.Time, bool) {
	doctorID, err := pathID(r, "doctorID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctorID must be an integer")
		return 0, time.Time{}, false
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date query parameter must be YYYY-MM-DD")
		return 0, time.Time{}, false
	}

	return doctorID, date, true
}
