package payment

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
	repo         repository.PaymentRepository
	appointments repository.AppointmentRepository
}

func NewService(repo repository.PaymentRepository, appointments repository.AppointmentRepository) *Service {
	return &Service{repo: repo, appointments: appointments}
}

// Register records a completed payment against an appointment. Payments are
// written as paid at the moment of registration; there is no checkout flow.
func (s *Service) Register(ctx context.Context, req *model.RegisterPaymentRequest) (*model.Payment, error) {
	apt, err := s.appointments.Get(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if apt.Status == model.AppointmentStatusCancelled {
		return nil, apperrors.Validation("cannot register a payment for a cancelled appointment", nil)
	}

	p := &model.Payment{
		ID:            uuid.New(),
		AppointmentID: req.AppointmentID,
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        model.PaymentStatusPaid,
		PaidAt:        time.Now(),
		Notes:         req.Notes,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.DuplicateKey("appointment already has a payment", err)
		}
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.PaymentDetail, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("payment", err)
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// ListRange returns paid payments whose paid date falls inside [from, to],
// inclusive on both ends.
func (s *Service) ListRange(ctx context.Context, from, to time.Time) ([]*model.PaymentDetail, error) {
	if to.Before(from) {
		return nil, apperrors.Validation("end date must not precede start date", nil)
	}

	payments, err := s.repo.ListRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
