package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is append-only; there are no update or delete operations.
type MedicalRecord struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	AppointmentID  *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	DoctorID       uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	VisitReason    string     `db:"visit_reason" json:"visit_reason"`
	Diagnosis      *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	Prescription   *string    `db:"prescription" json:"prescription,omitempty"`
	RequestedTests *string    `db:"requested_tests" json:"requested_tests,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

type MedicalRecordDetail struct {
	MedicalRecord
	DoctorName string `db:"doctor_name" json:"doctor_name"`
}

type CreateMedicalRecordRequest struct {
	PatientID      uuid.UUID  `json:"patient_id" binding:"required"`
	AppointmentID  *uuid.UUID `json:"appointment_id"`
	VisitReason    string     `json:"visit_reason" binding:"required"`
	Diagnosis      *string    `json:"diagnosis"`
	Prescription   *string    `json:"prescription"`
	RequestedTests *string    `json:"requested_tests"`
	Notes          *string    `json:"notes"`
}
