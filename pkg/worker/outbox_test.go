package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
	"github.com/clinicasys/clinica-api/pkg/logger"
	"github.com/clinicasys/clinica-api/pkg/metrics"
)

var (
	testMetrics     *metrics.Metrics
	testMetricsOnce sync.Once
)

func newTestMetrics() *metrics.Metrics {
	testMetricsOnce.Do(func() {
		testMetrics = metrics.New("worker_test")
	})
	return testMetrics
}

type fakeOutboxRepo struct {
	pending  []*model.OutboxEvent
	statuses map[uuid.UUID]model.OutboxStatus
	errs     map[uuid.UUID]string
}

func newFakeOutboxRepo(events ...*model.OutboxEvent) *fakeOutboxRepo {
	return &fakeOutboxRepo{
		pending:  events,
		statuses: make(map[uuid.UUID]model.OutboxStatus),
		errs:     make(map[uuid.UUID]string),
	}
}

func (f *fakeOutboxRepo) Create(_ context.Context, _ *model.OutboxEvent) error { return nil }

func (f *fakeOutboxRepo) GetPendingWithLock(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	batch := f.pending[:limit]
	f.pending = f.pending[limit:]
	return batch, nil
}

func (f *fakeOutboxRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	f.statuses[id] = status
	if errMsg != nil {
		f.errs[id] = *errMsg
	}
	return nil
}

var _ repository.OutboxRepository = (*fakeOutboxRepo)(nil)

type fakeBroker struct {
	published map[string]int
	failures  int
}

func (f *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("broker unavailable")
	}
	if f.published == nil {
		f.published = make(map[string]int)
	}
	f.published[channel]++
	return nil
}

func (f *fakeBroker) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	return nil, nil
}
func (f *fakeBroker) Close() error { return nil }

type recordingMailer struct {
	confirmations []string
}

func (m *recordingMailer) SendWelcome(_, _, _ string) error { return nil }
func (m *recordingMailer) SendAppointmentConfirmation(to, _, _, _, _ string) error {
	m.confirmations = append(m.confirmations, to)
	return nil
}

func appointmentEvent(t *testing.T) *model.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(model.AppointmentEventPayload{
		AppointmentID: uuid.New(),
		PatientID:     uuid.New(),
		DoctorID:      uuid.New(),
		Date:          "2025-03-10",
		Slot:          "09:00",
		PatientEmail:  "ana@example.com",
		PatientName:   "Ana Torres",
		DoctorName:    "Dr. Ruiz",
	})
	require.NoError(t, err)
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventAppointmentCreated,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}
}

func newProcessor(repo *fakeOutboxRepo, broker *fakeBroker, mailer *recordingMailer) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, mailer, newTestMetrics(), logger.NewLogger(nil), Config{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	})
}

func TestProcessBatchPublishesAndMails(t *testing.T) {
	event := appointmentEvent(t)
	repo := newFakeOutboxRepo(event)
	broker := &fakeBroker{}
	mailer := &recordingMailer{}

	require.NoError(t, newProcessor(repo, broker, mailer).processBatch(context.Background()))

	assert.Equal(t, 1, broker.published[model.EventAppointmentCreated])
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[event.ID])
	assert.Equal(t, []string{"ana@example.com"}, mailer.confirmations)
}

func TestProcessBatchRetriesTransientFailure(t *testing.T) {
	event := appointmentEvent(t)
	repo := newFakeOutboxRepo(event)
	broker := &fakeBroker{failures: 1}

	require.NoError(t, newProcessor(repo, broker, &recordingMailer{}).processBatch(context.Background()))

	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[event.ID])
}

func TestProcessBatchMarksPermanentFailure(t *testing.T) {
	event := appointmentEvent(t)
	repo := newFakeOutboxRepo(event)
	broker := &fakeBroker{failures: 10}

	require.NoError(t, newProcessor(repo, broker, &recordingMailer{}).processBatch(context.Background()))

	assert.Equal(t, model.OutboxStatusFailed, repo.statuses[event.ID])
	assert.Contains(t, repo.errs[event.ID], "broker unavailable")
}

func TestNoConfirmationWithoutEmail(t *testing.T) {
	payload, err := json.Marshal(model.AppointmentEventPayload{AppointmentID: uuid.New()})
	require.NoError(t, err)
	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventAppointmentCreated,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}

	repo := newFakeOutboxRepo(event)
	mailer := &recordingMailer{}
	require.NoError(t, newProcessor(repo, &fakeBroker{}, mailer).processBatch(context.Background()))

	assert.Empty(t, mailer.confirmations)
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[event.ID])
}
