package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clinicasys/clinica-api/internal/model"
)

// Storage-level sentinels. Repositories surface these; services translate
// them into domain errors with user-facing messages.
var (
	ErrNotFound  = errors.New("row not found")
	ErrDuplicate = errors.New("unique constraint violation")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, role *model.Role) ([]*model.User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.UserStatus) error
	CountActiveByRole(ctx context.Context, role model.Role) (int, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	Search(ctx context.Context, term string) ([]*model.Patient, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	CountActive(ctx context.Context) (int, error)
}

type AppointmentRepository interface {
	// Create inserts the appointment and its outbox event in one transaction.
	Create(ctx context.Context, apt *model.Appointment, event *model.OutboxEvent) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	// ListDay returns the doctor's non-cancelled appointments for a calendar day.
	ListDay(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error)
	List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.AppointmentDetail, error)
	// UpdateStatus writes the status change and its outbox event in one transaction.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, notes *string, event *model.OutboxEvent) error
	// MonthCounts returns per-day non-cancelled counts; zero-count days are omitted.
	MonthCounts(ctx context.Context, doctorID uuid.UUID, year int, month time.Month) ([]model.DayCount, error)
	RangeStats(ctx context.Context, doctorID *uuid.UUID, from, to time.Time) (*model.AppointmentStats, error)
	CountOnDate(ctx context.Context, date time.Time) (int, error)
}

type MedicalRecordRepository interface {
	Create(ctx context.Context, record *model.MedicalRecord) error
	Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecordDetail, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecordDetail, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	Get(ctx context.Context, id uuid.UUID) (*model.PaymentDetail, error)
	// ListRange returns paid payments whose payment date falls in [from, to].
	ListRange(ctx context.Context, from, to time.Time) ([]*model.PaymentDetail, error)
	SumPaidInMonth(ctx context.Context, year int, month time.Month) (float64, error)
	MonthlyRevenue(ctx context.Context, from, to time.Time) ([]model.MonthRevenue, error)
	CountByMethod(ctx context.Context, from, to time.Time) ([]model.MethodCount, error)
}

type ClinicRepository interface {
	GetConfig(ctx context.Context) (*model.ClinicConfig, error)
	// UpdateConfig updates the singleton row, creating it first if absent.
	UpdateConfig(ctx context.Context, req *model.UpdateClinicConfigRequest) error
	ListSpecialties(ctx context.Context) ([]*model.Specialty, error)
	CreateSpecialty(ctx context.Context, specialty *model.Specialty) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
}
