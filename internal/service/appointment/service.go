package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
	"github.com/clinicasys/clinica-api/internal/service/clinic"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
	"github.com/clinicasys/clinica-api/pkg/metrics"
)

type Service struct {
	repo      repository.AppointmentRepository
	patients  repository.PatientRepository
	users     repository.UserRepository
	clinicSvc *clinic.Service
	metrics   *metrics.Metrics
}

func NewService(
	repo repository.AppointmentRepository,
	patients repository.PatientRepository,
	users repository.UserRepository,
	clinicSvc *clinic.Service,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:      repo,
		patients:  patients,
		users:     users,
		clinicSvc: clinicSvc,
		metrics:   m,
	}
}

// CheckAvailability reports whether the doctor's slot on the given day is
// free. Fetches the day's non-cancelled appointments and scans for an exact
// slot match; slots are fixed-width units, not intervals.
func (s *Service) CheckAvailability(ctx context.Context, doctorID uuid.UUID, date time.Time, slot model.TimeSlot) (bool, error) {
	if !slot.Valid() {
		return false, apperrors.Validation("invalid time slot format", nil)
	}

	appointments, err := s.repo.ListDay(ctx, doctorID, date)
	if err != nil {
		return false, fmt.Errorf("failed to list day appointments: %w", err)
	}

	for _, apt := range appointments {
		if apt.Slot == slot {
			return false, nil
		}
	}
	return true, nil
}

func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	date, err := time.Parse(model.DateOnly, req.Date)
	if err != nil {
		return nil, apperrors.Validation("invalid date format", err)
	}

	today, _ := time.Parse(model.DateOnly, time.Now().Format(model.DateOnly))
	if date.Before(today) {
		return nil, apperrors.Validation("appointment date cannot be in the past", nil)
	}

	if err := s.validateSlot(ctx, req.Slot); err != nil {
		return nil, err
	}

	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	doctor, err := s.users.Get(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	if doctor.Role != model.RoleDoctor || doctor.Status != model.UserStatusActive {
		return nil, apperrors.Validation("selected user is not an active doctor", nil)
	}

	// Double-check right before insert. Narrows the race window; the partial
	// unique index on (doctor_id, date, slot) catches anything that slips
	// through.
	available, err := s.CheckAvailability(ctx, req.DoctorID, date, req.Slot)
	if err != nil {
		return nil, err
	}
	if !available {
		s.metrics.BookingConflicts.Inc()
		return nil, apperrors.Conflict("slot already booked for this doctor", nil)
	}

	apt := &model.Appointment{
		ID:        uuid.New(),
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      date,
		Slot:      req.Slot,
		Status:    model.AppointmentStatusPending,
		Reason:    req.Reason,
		Notes:     req.Notes,
		CreatedAt: time.Now(),
	}

	event, err := s.buildEvent(model.EventAppointmentCreated, apt, patient, doctor)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, apt, event); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.BookingConflicts.Inc()
			return nil, apperrors.Conflict("slot already booked for this doctor", err)
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.metrics.BookingsCreated.Inc()
	return apt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.AppointmentDetail, error) {
	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// MarkAttended moves a pending appointment to attended.
func (s *Service) MarkAttended(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, model.AppointmentStatusAttended, nil, model.EventAppointmentAttended)
}

// Cancel moves a pending appointment to cancelled with an optional note.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, note *string) error {
	return s.transition(ctx, id, model.AppointmentStatusCancelled, note, model.EventAppointmentCancelled)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, next model.AppointmentStatus, notes *string, eventType string) error {
	apt, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !apt.Status.CanTransition(next) {
		return apperrors.InvalidTransition(
			fmt.Sprintf("cannot move appointment from %s to %s", apt.Status, next))
	}

	event, err := s.buildEvent(eventType, apt, nil, nil)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, id, next, notes, event); err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	return nil
}

// MonthAvailability returns the day→count overlay for a doctor's month.
// Days without non-cancelled appointments are absent from the map.
func (s *Service) MonthAvailability(ctx context.Context, doctorID uuid.UUID, year int, month time.Month) (map[string]int, error) {
	if month < time.January || month > time.December {
		return nil, apperrors.Validation("month must be between 1 and 12", nil)
	}

	counts, err := s.repo.MonthCounts(ctx, doctorID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to count month appointments: %w", err)
	}

	overlay := make(map[string]int, len(counts))
	for _, c := range counts {
		overlay[c.Date] = c.Count
	}
	return overlay, nil
}

// DaySlots enumerates every slot of the doctor's day, flagged taken or free,
// for the booking form.
func (s *Service) DaySlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]model.SlotAvailability, error) {
	cfg, err := s.clinicSvc.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	appointments, err := s.repo.ListDay(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list day appointments: %w", err)
	}

	taken := make(map[model.TimeSlot]bool, len(appointments))
	for _, apt := range appointments {
		taken[apt.Slot] = true
	}

	slots := model.EnumerateSlots(cfg.OpeningTime, cfg.ClosingTime, time.Duration(cfg.SlotMinutes)*time.Minute)
	out := make([]model.SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		out = append(out, model.SlotAvailability{Slot: slot, Taken: taken[slot]})
	}
	return out, nil
}

func (s *Service) validateSlot(ctx context.Context, slot model.TimeSlot) error {
	cfg, err := s.clinicSvc.GetConfig(ctx)
	if err != nil {
		return err
	}

	for _, valid := range model.EnumerateSlots(cfg.OpeningTime, cfg.ClosingTime, time.Duration(cfg.SlotMinutes)*time.Minute) {
		if valid == slot {
			return nil
		}
	}
	return apperrors.Validation("slot is outside clinic operating hours", nil)
}

func (s *Service) buildEvent(eventType string, apt *model.Appointment, patient *model.Patient, doctor *model.User) (*model.OutboxEvent, error) {
	payload := model.AppointmentEventPayload{
		AppointmentID: apt.ID,
		PatientID:     apt.PatientID,
		DoctorID:      apt.DoctorID,
		Date:          apt.Date.Format(model.DateOnly),
		Slot:          apt.Slot,
	}
	if patient != nil {
		payload.PatientName = patient.FullName
		if patient.Email != nil {
			payload.PatientEmail = *patient.Email
		}
	}
	if doctor != nil {
		payload.DoctorName = doctor.FullName
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   raw,
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}, nil
}
