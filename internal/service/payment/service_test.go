package payment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
)

type fakePaymentRepo struct {
	payments map[uuid.UUID]*model.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*model.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *model.Payment) error {
	f.payments[p.ID] = p
	return nil
}

func (f *fakePaymentRepo) Get(_ context.Context, id uuid.UUID) (*model.PaymentDetail, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &model.PaymentDetail{Payment: *p}, nil
}

func (f *fakePaymentRepo) ListRange(_ context.Context, from, to time.Time) ([]*model.PaymentDetail, error) {
	var out []*model.PaymentDetail
	for _, p := range f.payments {
		day := p.PaidAt.Truncate(24 * time.Hour)
		if p.Status == model.PaymentStatusPaid && !day.Before(from) && !day.After(to) {
			out = append(out, &model.PaymentDetail{Payment: *p})
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) SumPaidInMonth(_ context.Context, year int, month time.Month) (float64, error) {
	var total float64
	for _, p := range f.payments {
		if p.Status == model.PaymentStatusPaid && p.PaidAt.Year() == year && p.PaidAt.Month() == month {
			total += p.Amount
		}
	}
	return total, nil
}

func (f *fakePaymentRepo) MonthlyRevenue(_ context.Context, _, _ time.Time) ([]model.MonthRevenue, error) {
	return nil, nil
}

func (f *fakePaymentRepo) CountByMethod(_ context.Context, _, _ time.Time) ([]model.MethodCount, error) {
	return nil, nil
}

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, _ *model.Appointment, _ *model.OutboxEvent) error {
	return nil
}
func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return apt, nil
}
func (f *fakeAppointmentRepo) ListDay(_ context.Context, _ uuid.UUID, _ time.Time) ([]*model.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilter) ([]*model.AppointmentDetail, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.AppointmentStatus, _ *string, _ *model.OutboxEvent) error {
	return nil
}
func (f *fakeAppointmentRepo) MonthCounts(_ context.Context, _ uuid.UUID, _ int, _ time.Month) ([]model.DayCount, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) RangeStats(_ context.Context, _ *uuid.UUID, _, _ time.Time) (*model.AppointmentStats, error) {
	return &model.AppointmentStats{}, nil
}
func (f *fakeAppointmentRepo) CountOnDate(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

func setup(status model.AppointmentStatus) (*Service, *fakePaymentRepo, uuid.UUID) {
	aptID := uuid.New()
	appointments := &fakeAppointmentRepo{appointments: map[uuid.UUID]*model.Appointment{
		aptID: {ID: aptID, Status: status, Date: time.Now()},
	}}
	repo := newFakePaymentRepo()
	return NewService(repo, appointments), repo, aptID
}

func TestRegisterCreatesPaidPayment(t *testing.T) {
	svc, _, aptID := setup(model.AppointmentStatusAttended)

	p, err := svc.Register(context.Background(), &model.RegisterPaymentRequest{
		AppointmentID: aptID,
		Amount:        50.00,
		Method:        model.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, p.Status)
	assert.False(t, p.PaidAt.IsZero())
}

func TestRegisterRejectsCancelledAppointment(t *testing.T) {
	svc, _, aptID := setup(model.AppointmentStatusCancelled)

	_, err := svc.Register(context.Background(), &model.RegisterPaymentRequest{
		AppointmentID: aptID,
		Amount:        50.00,
		Method:        model.PaymentMethodCard,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestRegisterUnknownAppointment(t *testing.T) {
	svc, _, _ := setup(model.AppointmentStatusPending)

	_, err := svc.Register(context.Background(), &model.RegisterPaymentRequest{
		AppointmentID: uuid.New(),
		Amount:        50.00,
		Method:        model.PaymentMethodCash,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestListRangeIncludesBoundaryDays(t *testing.T) {
	svc, _, aptID := setup(model.AppointmentStatusAttended)

	_, err := svc.Register(context.Background(), &model.RegisterPaymentRequest{
		AppointmentID: aptID,
		Amount:        75.50,
		Method:        model.PaymentMethodTransfer,
	})
	require.NoError(t, err)

	today := time.Now().Truncate(24 * time.Hour)
	payments, err := svc.ListRange(context.Background(), today, today)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 75.50, payments[0].Amount)
}

func TestListRangeRejectsInvertedRange(t *testing.T) {
	svc, _, _ := setup(model.AppointmentStatusAttended)

	now := time.Now()
	_, err := svc.ListRange(context.Background(), now, now.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}
