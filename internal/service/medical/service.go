package medical

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
)

// Service manages the append-only consultation history. Records are never
// updated or deleted once written.
type Service struct {
	repo     repository.MedicalRecordRepository
	patients repository.PatientRepository
	users    repository.UserRepository
}

func NewService(repo repository.MedicalRecordRepository, patients repository.PatientRepository, users repository.UserRepository) *Service {
	return &Service{repo: repo, patients: patients, users: users}
}

func (s *Service) Create(ctx context.Context, doctorID uuid.UUID, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	doctor, err := s.users.Get(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	if doctor.Role != model.RoleDoctor && doctor.Role != model.RoleAdmin {
		return nil, apperrors.AccessDenied("only doctors may write medical records")
	}

	record := &model.MedicalRecord{
		ID:             uuid.New(),
		PatientID:      req.PatientID,
		AppointmentID:  req.AppointmentID,
		DoctorID:       doctorID,
		VisitReason:    req.VisitReason,
		Diagnosis:      req.Diagnosis,
		Prescription:   req.Prescription,
		RequestedTests: req.RequestedTests,
		Notes:          req.Notes,
		CreatedAt:      time.Now(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create medical record: %w", err)
	}
	return record, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecordDetail, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("medical record", err)
		}
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}
	return record, nil
}

// ListByPatient returns the patient's full history, newest first.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecordDetail, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	records, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}
