package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
)

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment, event *model.OutboxEvent) error {
	if apt.ID == uuid.Nil {
		apt.ID = uuid.New()
	}
	if apt.CreatedAt.IsZero() {
		apt.CreatedAt = time.Now()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapErr("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, date, slot, status, reason, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		apt.ID,
		apt.PatientID,
		apt.DoctorID,
		apt.Date,
		apt.Slot,
		apt.Status,
		apt.Reason,
		apt.Notes,
		apt.CreatedAt,
	)
	if err != nil {
		return wrapErr("failed to create appointment", err)
	}

	if event != nil {
		if err := insertOutboxTx(ctx, tx, event); err != nil {
			return err
		}
	}

	return wrapErr("failed to commit appointment", tx.Commit())
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, date, slot, status, reason, notes, created_at
		FROM appointments
		WHERE id = $1
	`
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		return nil, wrapErr("failed to get appointment", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) ListDay(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, date, slot, status, reason, notes, created_at
		FROM appointments
		WHERE doctor_id = $1
		AND date = $2
		AND status <> 'cancelled'
		ORDER BY slot ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, doctorID, date.Format(model.DateOnly))
	if err != nil {
		return nil, wrapErr("failed to list day appointments", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.AppointmentDetail, error) {
	query := `
		SELECT a.id, a.patient_id, a.doctor_id, a.date, a.slot, a.status, a.reason, a.notes, a.created_at,
			   p.full_name AS patient_name, p.national_id AS patient_national_id,
			   u.full_name AS doctor_name
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		JOIN users u ON a.doctor_id = u.id
		WHERE 1=1
	`
	args := []interface{}{}
	n := 1

	if filter != nil {
		if filter.Date != nil {
			query += fmt.Sprintf(" AND a.date = $%d", n)
			args = append(args, filter.Date.Format(model.DateOnly))
			n++
		}
		if filter.DoctorID != nil {
			query += fmt.Sprintf(" AND a.doctor_id = $%d", n)
			args = append(args, *filter.DoctorID)
			n++
		}
		if filter.Status != nil {
			query += fmt.Sprintf(" AND a.status = $%d", n)
			args = append(args, *filter.Status)
			n++
		}
	}

	query += " ORDER BY a.date ASC, a.slot ASC"

	var appointments []*model.AppointmentDetail
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, wrapErr("failed to list appointments", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, notes *string, event *model.OutboxEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapErr("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var result interface {
		RowsAffected() (int64, error)
	}
	if notes != nil {
		result, err = tx.ExecContext(ctx,
			`UPDATE appointments SET status = $1, notes = $2 WHERE id = $3`, status, *notes, id)
	} else {
		result, err = tx.ExecContext(ctx,
			`UPDATE appointments SET status = $1 WHERE id = $2`, status, id)
	}
	if err != nil {
		return wrapErr("failed to update appointment status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return wrapErr("failed to get rows affected", err)
	}
	if rows == 0 {
		return wrapErr("failed to update appointment status", repository.ErrNotFound)
	}

	if event != nil {
		if err := insertOutboxTx(ctx, tx, event); err != nil {
			return err
		}
	}

	return wrapErr("failed to commit status update", tx.Commit())
}

func (r *appointmentRepository) MonthCounts(ctx context.Context, doctorID uuid.UUID, year int, month time.Month) ([]model.DayCount, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	query := `
		SELECT to_char(date, 'YYYY-MM-DD') AS date, COUNT(*) AS count
		FROM appointments
		WHERE doctor_id = $1
		AND date >= $2 AND date < $3
		AND status <> 'cancelled'
		GROUP BY date
		ORDER BY date ASC
	`
	var counts []model.DayCount
	err := r.db.SelectContext(ctx, &counts, query,
		doctorID, first.Format(model.DateOnly), next.Format(model.DateOnly))
	if err != nil {
		return nil, wrapErr("failed to count month appointments", err)
	}
	return counts, nil
}

func (r *appointmentRepository) RangeStats(ctx context.Context, doctorID *uuid.UUID, from, to time.Time) (*model.AppointmentStats, error) {
	query := `
		SELECT COUNT(*) AS total,
			   COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			   COUNT(*) FILTER (WHERE status = 'attended') AS attended,
			   COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled
		FROM appointments
		WHERE date >= $1 AND date <= $2
	`
	args := []interface{}{from.Format(model.DateOnly), to.Format(model.DateOnly)}
	if doctorID != nil {
		query += " AND doctor_id = $3"
		args = append(args, *doctorID)
	}

	var stats model.AppointmentStats
	if err := r.db.GetContext(ctx, &stats, query, args...); err != nil {
		return nil, wrapErr("failed to compute appointment stats", err)
	}
	return &stats, nil
}

func (r *appointmentRepository) CountOnDate(ctx context.Context, date time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM appointments WHERE date = $1`, date.Format(model.DateOnly))
	if err != nil {
		return 0, wrapErr("failed to count appointments", err)
	}
	return count, nil
}
