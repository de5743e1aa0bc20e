package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
)

// Service computes reporting aggregates live from the primary store; nothing
// is precomputed or cached.
type Service struct {
	patients     repository.PatientRepository
	appointments repository.AppointmentRepository
	users        repository.UserRepository
	payments     repository.PaymentRepository
}

func NewService(
	patients repository.PatientRepository,
	appointments repository.AppointmentRepository,
	users repository.UserRepository,
	payments repository.PaymentRepository,
) *Service {
	return &Service{
		patients:     patients,
		appointments: appointments,
		users:        users,
		payments:     payments,
	}
}

// DashboardStats assembles the landing page counters: active patients,
// today's appointments, active doctors and the current month's revenue.
func (s *Service) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	now := time.Now()

	activePatients, err := s.patients.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active patients: %w", err)
	}

	todays, err := s.appointments.CountOnDate(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's appointments: %w", err)
	}

	activeDoctors, err := s.users.CountActiveByRole(ctx, model.RoleDoctor)
	if err != nil {
		return nil, fmt.Errorf("failed to count active doctors: %w", err)
	}

	monthRevenue, err := s.payments.SumPaidInMonth(ctx, now.Year(), now.Month())
	if err != nil {
		return nil, fmt.Errorf("failed to sum month revenue: %w", err)
	}

	return &model.DashboardStats{
		ActivePatients:     activePatients,
		TodaysAppointments: todays,
		ActiveDoctors:      activeDoctors,
		MonthRevenue:       monthRevenue,
	}, nil
}

// AppointmentStats breaks appointments in [from, to] down by status,
// optionally restricted to one doctor.
func (s *Service) AppointmentStats(ctx context.Context, doctorID *uuid.UUID, from, to time.Time) (*model.AppointmentStats, error) {
	if to.Before(from) {
		return nil, apperrors.Validation("end date must not precede start date", nil)
	}

	stats, err := s.appointments.RangeStats(ctx, doctorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to compute appointment stats: %w", err)
	}
	return stats, nil
}

// MonthlyRevenue returns the month-by-month paid totals for the last n
// months, oldest first. Months without payments are absent.
func (s *Service) MonthlyRevenue(ctx context.Context, months int) ([]model.MonthRevenue, error) {
	if months <= 0 || months > 36 {
		return nil, apperrors.Validation("months must be between 1 and 36", nil)
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	revenue, err := s.payments.MonthlyRevenue(ctx, from, now)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly revenue: %w", err)
	}
	return revenue, nil
}

// PaymentsByMethod counts paid payments per method over [from, to].
func (s *Service) PaymentsByMethod(ctx context.Context, from, to time.Time) ([]model.MethodCount, error) {
	if to.Before(from) {
		return nil, apperrors.Validation("end date must not precede start date", nil)
	}

	counts, err := s.payments.CountByMethod(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count payments by method: %w", err)
	}
	return counts, nil
}
