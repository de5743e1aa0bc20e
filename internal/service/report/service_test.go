package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicasys/clinica-api/internal/model"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
)

type stubPatientRepo struct{ active int }

func (s *stubPatientRepo) Create(_ context.Context, _ *model.Patient) error { return nil }
func (s *stubPatientRepo) Get(_ context.Context, _ uuid.UUID) (*model.Patient, error) {
	return nil, nil
}
func (s *stubPatientRepo) Search(_ context.Context, _ string) ([]*model.Patient, error) {
	return nil, nil
}
func (s *stubPatientRepo) Update(_ context.Context, _ uuid.UUID, _ *model.UpdatePatientRequest) error {
	return nil
}
func (s *stubPatientRepo) Deactivate(_ context.Context, _ uuid.UUID) error { return nil }
func (s *stubPatientRepo) CountActive(_ context.Context) (int, error)      { return s.active, nil }

type stubAppointmentRepo struct {
	today int
	stats model.AppointmentStats
}

func (s *stubAppointmentRepo) Create(_ context.Context, _ *model.Appointment, _ *model.OutboxEvent) error {
	return nil
}
func (s *stubAppointmentRepo) Get(_ context.Context, _ uuid.UUID) (*model.Appointment, error) {
	return nil, nil
}
func (s *stubAppointmentRepo) ListDay(_ context.Context, _ uuid.UUID, _ time.Time) ([]*model.Appointment, error) {
	return nil, nil
}
func (s *stubAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilter) ([]*model.AppointmentDetail, error) {
	return nil, nil
}
func (s *stubAppointmentRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.AppointmentStatus, _ *string, _ *model.OutboxEvent) error {
	return nil
}
func (s *stubAppointmentRepo) MonthCounts(_ context.Context, _ uuid.UUID, _ int, _ time.Month) ([]model.DayCount, error) {
	return nil, nil
}
func (s *stubAppointmentRepo) RangeStats(_ context.Context, _ *uuid.UUID, _, _ time.Time) (*model.AppointmentStats, error) {
	stats := s.stats
	return &stats, nil
}
func (s *stubAppointmentRepo) CountOnDate(_ context.Context, _ time.Time) (int, error) {
	return s.today, nil
}

type stubUserRepo struct{ doctors int }

func (s *stubUserRepo) Create(_ context.Context, _ *model.User) error { return nil }
func (s *stubUserRepo) Get(_ context.Context, _ uuid.UUID) (*model.User, error) {
	return nil, nil
}
func (s *stubUserRepo) GetByUsername(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}
func (s *stubUserRepo) List(_ context.Context, _ *model.Role) ([]*model.User, error) {
	return nil, nil
}
func (s *stubUserRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.UserStatus) error {
	return nil
}
func (s *stubUserRepo) CountActiveByRole(_ context.Context, _ model.Role) (int, error) {
	return s.doctors, nil
}

type stubPaymentRepo struct {
	monthTotal float64
	revenue    []model.MonthRevenue
	methods    []model.MethodCount
}

func (s *stubPaymentRepo) Create(_ context.Context, _ *model.Payment) error { return nil }
func (s *stubPaymentRepo) Get(_ context.Context, _ uuid.UUID) (*model.PaymentDetail, error) {
	return nil, nil
}
func (s *stubPaymentRepo) ListRange(_ context.Context, _, _ time.Time) ([]*model.PaymentDetail, error) {
	return nil, nil
}
func (s *stubPaymentRepo) SumPaidInMonth(_ context.Context, _ int, _ time.Month) (float64, error) {
	return s.monthTotal, nil
}
func (s *stubPaymentRepo) MonthlyRevenue(_ context.Context, _, _ time.Time) ([]model.MonthRevenue, error) {
	return s.revenue, nil
}
func (s *stubPaymentRepo) CountByMethod(_ context.Context, _, _ time.Time) ([]model.MethodCount, error) {
	return s.methods, nil
}

func TestDashboardStats(t *testing.T) {
	svc := NewService(
		&stubPatientRepo{active: 42},
		&stubAppointmentRepo{today: 7},
		&stubUserRepo{doctors: 5},
		&stubPaymentRepo{monthTotal: 1234.50},
	)

	stats, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, stats.ActivePatients)
	assert.Equal(t, 7, stats.TodaysAppointments)
	assert.Equal(t, 5, stats.ActiveDoctors)
	assert.Equal(t, 1234.50, stats.MonthRevenue)
}

func TestAppointmentStats(t *testing.T) {
	svc := NewService(
		&stubPatientRepo{},
		&stubAppointmentRepo{stats: model.AppointmentStats{Total: 10, Pending: 3, Attended: 5, Cancelled: 2}},
		&stubUserRepo{},
		&stubPaymentRepo{},
	)

	now := time.Now()
	stats, err := svc.AppointmentStats(context.Background(), nil, now.AddDate(0, 0, -7), now)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 5, stats.Attended)
}

func TestAppointmentStatsInvertedRange(t *testing.T) {
	svc := NewService(&stubPatientRepo{}, &stubAppointmentRepo{}, &stubUserRepo{}, &stubPaymentRepo{})

	now := time.Now()
	_, err := svc.AppointmentStats(context.Background(), nil, now, now.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestMonthlyRevenueBounds(t *testing.T) {
	svc := NewService(&stubPatientRepo{}, &stubAppointmentRepo{}, &stubUserRepo{},
		&stubPaymentRepo{revenue: []model.MonthRevenue{{Month: "2025-03", Total: 900}}})

	revenue, err := svc.MonthlyRevenue(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, revenue, 1)
	assert.Equal(t, "2025-03", revenue[0].Month)

	_, err = svc.MonthlyRevenue(context.Background(), 0)
	assert.Error(t, err)
	_, err = svc.MonthlyRevenue(context.Background(), 37)
	assert.Error(t, err)
}

func TestPaymentsByMethod(t *testing.T) {
	svc := NewService(&stubPatientRepo{}, &stubAppointmentRepo{}, &stubUserRepo{},
		&stubPaymentRepo{methods: []model.MethodCount{{Method: model.PaymentMethodCash, Count: 3}}})

	now := time.Now()
	counts, err := svc.PaymentsByMethod(context.Background(), now.AddDate(0, 0, -30), now)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, model.PaymentMethodCash, counts[0].Method)
}
