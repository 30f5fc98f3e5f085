package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `
	id, patient_id, doctor_id, appointment_date, time_preference,
	assigned_time, status, notes, created_at, updated_at`

// Helpers

func slotToPg(s *Slot) pgtype.Time {
	if s == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{
		Microseconds: int64(*s) * int64(time.Minute/time.Microsecond),
		Valid:        true,
	}
}

func pgToSlot(t pgtype.Time) *Slot {
	if !t.Valid {
		return nil
	}
	s := Slot(t.Microseconds / int64(time.Minute/time.Microsecond))
	return &s
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var assigned pgtype.Time
	var notes *string

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.AppointmentDate,
		&a.TimePreference,
		&assigned,
		&a.Status,
		&notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.AssignedTime = pgToSlot(assigned)
	a.Notes = notes
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Interface methods

func (r *PgRepository) Create(ctx context.Context, appt Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments
			(patient_id, doctor_id, appointment_date, time_preference,
			 assigned_time, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING`+appointmentColumns,
		appt.PatientID,
		appt.DoctorID,
		appt.AppointmentDate,
		appt.TimePreference,
		slotToPg(appt.AssignedTime),
		appt.Status,
		appt.Notes,
	)

	created, err := scanAppointment(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotConflict
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) ListActiveByDoctorDate(ctx context.Context, doctorID int64, date time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		  AND appointment_date = $2
		  AND status <> $3
		ORDER BY assigned_time
	`, doctorID, date, StatusCancelled)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) ListActiveByDoctorDatePreference(ctx context.Context, doctorID int64, date time.Time, pref TimePreference) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		  AND appointment_date = $2
		  AND time_preference = $3
		  AND status <> $4
		ORDER BY assigned_time
	`, doctorID, date, pref, StatusCancelled)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID int64) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1
	`, patientID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id int64, status Status) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING`+appointmentColumns,
		id, status)

	updated, err := scanAppointment(row)
	if err != nil {
		// Un-cancelling can reclaim a slot that was rebooked in the
		// meantime, tripping the active-slot index.
		if isUniqueViolation(err) {
			return nil, ErrSlotConflict
		}
		return nil, err
	}
	return updated, nil
}

// SaveAssignedTimes writes a reordered queue in a single transaction so a
// half-renumbered queue can never become visible.
func (r *PgRepository) SaveAssignedTimes(ctx context.Context, appts []Appointment) ([]Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin reorder tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// The active-slot unique index is checked per statement, so a swap
	// would trip it mid-batch. Vacate the whole batch first.
	ids := make([]int64, 0, len(appts))
	for _, appt := range appts {
		ids = append(ids, appt.ID)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE appointments
		SET assigned_time = NULL
		WHERE id = ANY($1)
	`, ids); err != nil {
		return nil, fmt.Errorf("vacate slots: %w", err)
	}

	saved := make([]Appointment, 0, len(appts))
	for _, appt := range appts {
		row := tx.QueryRow(ctx, `
			UPDATE appointments
			SET assigned_time = $2,
			    updated_at = now()
			WHERE id = $1
			RETURNING`+appointmentColumns,
			appt.ID, slotToPg(appt.AssignedTime))

		updated, err := scanAppointment(row)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrSlotConflict
			}
			return nil, fmt.Errorf("reassign appointment %d: %w", appt.ID, err)
		}
		saved = append(saved, *updated)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reorder tx: %w", err)
	}

	return saved, nil
}
