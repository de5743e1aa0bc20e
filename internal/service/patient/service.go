package patient

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

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	birthDate, err := time.Parse(model.DateOnly, req.BirthDate)
	if err != nil {
		return nil, apperrors.Validation("invalid birth date format", err)
	}
	if birthDate.After(time.Now()) {
		return nil, apperrors.Validation("birth date cannot be in the future", nil)
	}

	patient := &model.Patient{
		ID:                uuid.New(),
		NationalID:        req.NationalID,
		FullName:          req.FullName,
		BirthDate:         birthDate,
		Sex:               req.Sex,
		Phone:             req.Phone,
		Address:           req.Address,
		Email:             req.Email,
		BloodType:         req.BloodType,
		Allergies:         req.Allergies,
		ChronicConditions: req.ChronicConditions,
		Status:            model.PatientStatusActive,
		UserID:            req.UserID,
		RegisteredAt:      time.Now(),
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.DuplicateKey("a patient with this national id already exists", err)
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

// Search matches the query against national id and full name,
// case-insensitively. An empty query lists active patients.
func (s *Service) Search(ctx context.Context, query string) ([]*model.Patient, error) {
	patients, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	return patients, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	if req.BirthDate != nil {
		if _, err := time.Parse(model.DateOnly, *req.BirthDate); err != nil {
			return nil, apperrors.Validation("invalid birth date format", err)
		}
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("patient", err)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.DuplicateKey("a patient with this national id already exists", err)
		}
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return s.Get(ctx, id)
}

// Deactivate soft-deletes the record; history stays queryable.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("patient", err)
		}
		return fmt.Errorf("failed to deactivate patient: %w", err)
	}
	return nil
}
