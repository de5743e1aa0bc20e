package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
	"github.com/clinicasys/clinica-api/internal/service/clinic"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
	"github.com/clinicasys/clinica-api/pkg/metrics"
)

var (
	testMetrics     *metrics.Metrics
	testMetricsOnce sync.Once
)

func newTestMetrics() *metrics.Metrics {
	testMetricsOnce.Do(func() {
		testMetrics = metrics.New("appointment_test")
	})
	return testMetrics
}

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	events       []*model.OutboxEvent
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment, event *model.OutboxEvent) error {
	for _, existing := range f.appointments {
		if existing.DoctorID == apt.DoctorID &&
			existing.Date.Equal(apt.Date) &&
			existing.Slot == apt.Slot &&
			existing.Status != model.AppointmentStatusCancelled {
			return repository.ErrDuplicate
		}
	}
	f.appointments[apt.ID] = apt
	f.events = append(f.events, event)
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *apt
	return &copied, nil
}

func (f *fakeAppointmentRepo) ListDay(_ context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if apt.DoctorID == doctorID && apt.Date.Equal(date) && apt.Status != model.AppointmentStatusCancelled {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilter) ([]*model.AppointmentDetail, error) {
	return nil, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus, notes *string, event *model.OutboxEvent) error {
	apt, ok := f.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	apt.Status = status
	if notes != nil {
		apt.Notes = notes
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeAppointmentRepo) MonthCounts(_ context.Context, doctorID uuid.UUID, year int, month time.Month) ([]model.DayCount, error) {
	byDay := make(map[string]int)
	for _, apt := range f.appointments {
		if apt.DoctorID == doctorID && apt.Date.Year() == year && apt.Date.Month() == month &&
			apt.Status != model.AppointmentStatusCancelled {
			byDay[apt.Date.Format(model.DateOnly)]++
		}
	}
	var out []model.DayCount
	for day, count := range byDay {
		out = append(out, model.DayCount{Date: day, Count: count})
	}
	return out, nil
}

func (f *fakeAppointmentRepo) RangeStats(_ context.Context, doctorID *uuid.UUID, from, to time.Time) (*model.AppointmentStats, error) {
	stats := &model.AppointmentStats{}
	for _, apt := range f.appointments {
		if doctorID != nil && apt.DoctorID != *doctorID {
			continue
		}
		if apt.Date.Before(from) || apt.Date.After(to) {
			continue
		}
		stats.Total++
		switch apt.Status {
		case model.AppointmentStatusPending:
			stats.Pending++
		case model.AppointmentStatusAttended:
			stats.Attended++
		case model.AppointmentStatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

func (f *fakeAppointmentRepo) CountOnDate(_ context.Context, date time.Time) (int, error) {
	count := 0
	for _, apt := range f.appointments {
		if apt.Date.Equal(date) {
			count++
		}
	}
	return count, nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (f *fakePatientRepo) Create(_ context.Context, p *model.Patient) error { return nil }
func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}
func (f *fakePatientRepo) Search(_ context.Context, _ string) ([]*model.Patient, error) {
	return nil, nil
}
func (f *fakePatientRepo) Update(_ context.Context, _ uuid.UUID, _ *model.UpdatePatientRequest) error {
	return nil
}
func (f *fakePatientRepo) Deactivate(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakePatientRepo) CountActive(_ context.Context) (int, error)      { return len(f.patients), nil }

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ *model.User) error { return nil }
func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}
func (f *fakeUserRepo) GetByUsername(_ context.Context, _ string) (*model.User, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeUserRepo) List(_ context.Context, _ *model.Role) ([]*model.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.UserStatus) error {
	return nil
}
func (f *fakeUserRepo) CountActiveByRole(_ context.Context, _ model.Role) (int, error) {
	return 0, nil
}

type fakeClinicRepo struct{}

func (f *fakeClinicRepo) GetConfig(_ context.Context) (*model.ClinicConfig, error) {
	return &model.ClinicConfig{
		ID:          uuid.New(),
		Name:        "Test Clinic",
		OpeningTime: "08:00",
		ClosingTime: "18:00",
		SlotMinutes: 30,
	}, nil
}
func (f *fakeClinicRepo) UpdateConfig(_ context.Context, _ *model.UpdateClinicConfigRequest) error {
	return nil
}
func (f *fakeClinicRepo) ListSpecialties(_ context.Context) ([]*model.Specialty, error) {
	return nil, nil
}
func (f *fakeClinicRepo) CreateSpecialty(_ context.Context, _ *model.Specialty) error { return nil }

type fixture struct {
	svc       *Service
	repo      *fakeAppointmentRepo
	patientID uuid.UUID
	doctorID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	patientID := uuid.New()
	doctorID := uuid.New()
	email := "ana@example.com"
	specialty := "Cardiology"

	patients := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{
		patientID: {ID: patientID, NationalID: "12345678", FullName: "Ana Torres", Email: &email},
	}}
	users := &fakeUserRepo{users: map[uuid.UUID]*model.User{
		doctorID: {ID: doctorID, Role: model.RoleDoctor, FullName: "Dr. Ruiz", Specialty: &specialty, Status: model.UserStatusActive},
	}}

	repo := newFakeAppointmentRepo()
	svc := NewService(repo, patients, users, clinic.NewService(&fakeClinicRepo{}), newTestMetrics())
	return &fixture{svc: svc, repo: repo, patientID: patientID, doctorID: doctorID}
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format(model.DateOnly)
}

func TestCreateBooksFreeSlot(t *testing.T) {
	f := newFixture(t)

	apt, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Date:      futureDate(),
		Slot:      "09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, apt.Status)

	require.Len(t, f.repo.events, 1)
	assert.Equal(t, model.EventAppointmentCreated, f.repo.events[0].EventType)
}

func TestCreateRejectsTakenSlot(t *testing.T) {
	f := newFixture(t)
	req := &model.CreateAppointmentRequest{
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Date:      futureDate(),
		Slot:      "09:00",
	}

	_, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestCreateAllowsRebookingCancelledSlot(t *testing.T) {
	f := newFixture(t)
	req := &model.CreateAppointmentRequest{
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Date:      futureDate(),
		Slot:      "10:00",
	}

	apt, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(context.Background(), apt.ID, nil))

	_, err = f.svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreateAcceptsClosingTimeSlot(t *testing.T) {
	f := newFixture(t)

	apt, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Date:      futureDate(),
		Slot:      "18:00",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TimeSlot("18:00"), apt.Slot)
}

func TestCreateRejectsSlotOutsideHours(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Date:      futureDate(),
		Slot:      "19:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestCreateRejectsPastDate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Date:      "2020-01-15",
		Slot:      "09:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestCreateRejectsUnknownPatient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: uuid.New(),
		DoctorID:  f.doctorID,
		Date:      futureDate(),
		Slot:      "09:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestTransitions(t *testing.T) {
	f := newFixture(t)
	apt, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Date:      futureDate(),
		Slot:      "11:00",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkAttended(context.Background(), apt.ID))

	// Attended is terminal.
	err = f.svc.Cancel(context.Background(), apt.ID, nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTransition))

	err = f.svc.MarkAttended(context.Background(), apt.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTransition))
}

func TestMonthAvailabilityOmitsEmptyDays(t *testing.T) {
	f := newFixture(t)
	date := time.Now().AddDate(0, 1, 0)
	day := time.Date(date.Year(), date.Month(), 10, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Date:      day.Format(model.DateOnly),
		Slot:      "09:00",
	})
	require.NoError(t, err)

	overlay, err := f.svc.MonthAvailability(context.Background(), f.doctorID, day.Year(), day.Month())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{day.Format(model.DateOnly): 1}, overlay)
}

func TestDaySlots(t *testing.T) {
	f := newFixture(t)
	date := futureDate()

	_, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Date:      date,
		Slot:      "08:30",
	})
	require.NoError(t, err)

	parsed, err := time.Parse(model.DateOnly, date)
	require.NoError(t, err)

	slots, err := f.svc.DaySlots(context.Background(), f.doctorID, parsed)
	require.NoError(t, err)
	require.Len(t, slots, 21)

	byName := make(map[model.TimeSlot]bool, len(slots))
	for _, s := range slots {
		byName[s.Slot] = s.Taken
	}
	assert.True(t, byName["08:30"])
	assert.False(t, byName["08:00"])
	assert.False(t, byName["18:00"])
}

func TestCheckAvailabilityInvalidSlot(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckAvailability(context.Background(), f.doctorID, time.Now(), "not-a-slot")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}
