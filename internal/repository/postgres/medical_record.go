package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicasys/clinica-api/internal/model"
)

func (r *medicalRecordRepository) Create(ctx context.Context, record *model.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (
			id, patient_id, appointment_id, doctor_id, visit_reason,
			diagnosis, prescription, requested_tests, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.PatientID,
		record.AppointmentID,
		record.DoctorID,
		record.VisitReason,
		record.Diagnosis,
		record.Prescription,
		record.RequestedTests,
		record.Notes,
		record.CreatedAt,
	)
	return wrapErr("failed to create medical record", err)
}

func (r *medicalRecordRepository) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecordDetail, error) {
	query := `
		SELECT m.id, m.patient_id, m.appointment_id, m.doctor_id, m.visit_reason,
			   m.diagnosis, m.prescription, m.requested_tests, m.notes, m.created_at,
			   u.full_name AS doctor_name
		FROM medical_records m
		JOIN users u ON m.doctor_id = u.id
		WHERE m.id = $1
	`
	var record model.MedicalRecordDetail
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, wrapErr("failed to get medical record", err)
	}
	return &record, nil
}

func (r *medicalRecordRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecordDetail, error) {
	query := `
		SELECT m.id, m.patient_id, m.appointment_id, m.doctor_id, m.visit_reason,
			   m.diagnosis, m.prescription, m.requested_tests, m.notes, m.created_at,
			   u.full_name AS doctor_name
		FROM medical_records m
		JOIN users u ON m.doctor_id = u.id
		WHERE m.patient_id = $1
		ORDER BY m.created_at DESC
	`
	var records []*model.MedicalRecordDetail
	if err := r.db.SelectContext(ctx, &records, query, patientID); err != nil {
		return nil, wrapErr("failed to list medical records", err)
	}
	return records, nil
}
