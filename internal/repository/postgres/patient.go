package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
)

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, national_id, full_name, birth_date, sex, phone, address, email,
			blood_type, allergies, chronic_conditions, status, user_id, registered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	if patient.RegisteredAt.IsZero() {
		patient.RegisteredAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.NationalID,
		patient.FullName,
		patient.BirthDate,
		patient.Sex,
		patient.Phone,
		patient.Address,
		patient.Email,
		patient.BloodType,
		patient.Allergies,
		patient.ChronicConditions,
		patient.Status,
		patient.UserID,
		patient.RegisteredAt,
	)
	return wrapErr("failed to create patient", err)
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT id, national_id, full_name, birth_date, sex, phone, address, email,
			   blood_type, allergies, chronic_conditions, status, user_id, registered_at
		FROM patients
		WHERE id = $1
	`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, wrapErr("failed to get patient", err)
	}
	return &patient, nil
}

func (r *patientRepository) Search(ctx context.Context, term string) ([]*model.Patient, error) {
	query := `
		SELECT id, national_id, full_name, birth_date, sex, phone, address, email,
			   blood_type, allergies, chronic_conditions, status, user_id, registered_at
		FROM patients
		WHERE status = 'active'
	`
	args := []interface{}{}
	if term != "" {
		query += " AND (full_name ILIKE $1 OR national_id LIKE $1)"
		args = append(args, "%"+term+"%")
	}
	query += " ORDER BY full_name ASC"

	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, wrapErr("failed to search patients", err)
	}
	return patients, nil
}

// Update writes only the fields set in the request. The SET clauses are built
// from named struct fields, never from caller-supplied keys.
func (r *patientRepository) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) error {
	sets := []string{}
	args := []interface{}{}
	n := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if req.FullName != nil {
		set("full_name", *req.FullName)
	}
	if req.BirthDate != nil {
		set("birth_date", *req.BirthDate)
	}
	if req.Phone != nil {
		set("phone", *req.Phone)
	}
	if req.Address != nil {
		set("address", *req.Address)
	}
	if req.Email != nil {
		set("email", *req.Email)
	}
	if req.BloodType != nil {
		set("blood_type", *req.BloodType)
	}
	if req.Allergies != nil {
		set("allergies", *req.Allergies)
	}
	if req.ChronicConditions != nil {
		set("chronic_conditions", *req.ChronicConditions)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE patients SET %s WHERE id = $%d", strings.Join(sets, ", "), n)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapErr("failed to update patient", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return wrapErr("failed to get rows affected", err)
	}
	if rows == 0 {
		return wrapErr("failed to update patient", repository.ErrNotFound)
	}
	return nil
}

func (r *patientRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE patients SET status = 'inactive' WHERE id = $1`, id)
	if err != nil {
		return wrapErr("failed to deactivate patient", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return wrapErr("failed to get rows affected", err)
	}
	if rows == 0 {
		return wrapErr("failed to deactivate patient", repository.ErrNotFound)
	}
	return nil
}

func (r *patientRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM patients WHERE status = 'active'`)
	if err != nil {
		return 0, wrapErr("failed to count patients", err)
	}
	return count, nil
}
