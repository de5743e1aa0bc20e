package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clinicasys/clinica-api/internal/email"
	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
	"github.com/clinicasys/clinica-api/pkg/logger"
	"github.com/clinicasys/clinica-api/pkg/messaging"
	"github.com/clinicasys/clinica-api/pkg/metrics"
)

type Config struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// OutboxProcessor drains the outbox table: it polls for pending events,
// publishes them to the broker and triggers side effects such as
// confirmation email. Events are locked with SKIP LOCKED so multiple workers
// can run side by side.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	mailer  email.Sender
	metrics *metrics.Metrics
	log     *logger.Logger
	cfg     Config
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	mailer email.Sender,
	m *metrics.Metrics,
	log *logger.Logger,
	cfg Config,
) *OutboxProcessor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		mailer:  mailer,
		metrics: m,
		log:     log,
		cfg:     cfg,
	}
}

// Run polls until the context is cancelled.
func (p *OutboxProcessor) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	p.log.Info("outbox processor started",
		"batch_size", p.cfg.BatchSize,
		"poll_interval", p.cfg.PollInterval.String())

	for {
		select {
		case <-ctx.Done():
			p.log.Info("outbox processor stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.log.Error(err, "failed to process outbox batch")
			}
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	events, err := p.repo.GetPendingWithLock(ctx, p.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch pending events: %w", err)
	}

	for _, event := range events {
		start := time.Now()
		err := p.processWithRetry(ctx, event)
		p.metrics.OutboxProcessingLatency.Observe(time.Since(start).Seconds())

		if err != nil {
			p.metrics.OutboxEventsFailed.Inc()
			msg := err.Error()
			if uerr := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusFailed, &msg); uerr != nil {
				p.log.Error(uerr, "failed to mark event failed", "event_id", event.ID.String())
			}
			p.log.Error(err, "outbox event failed permanently",
				"event_id", event.ID.String(), "event_type", event.EventType)
			continue
		}

		p.metrics.OutboxEventsProcessed.Inc()
		if uerr := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusProcessed, nil); uerr != nil {
			p.log.Error(uerr, "failed to mark event processed", "event_id", event.ID.String())
		}
	}
	return nil
}

func (p *OutboxProcessor) processWithRetry(ctx context.Context, event *model.OutboxEvent) error {
	var lastErr error
	for attempt := 1; attempt <= p.cfg.RetryAttempts; attempt++ {
		if attempt > 1 {
			p.metrics.OutboxRetries.WithLabelValues(event.EventType).Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.cfg.RetryDelay):
			}
		}

		if lastErr = p.process(ctx, event); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func (p *OutboxProcessor) process(ctx context.Context, event *model.OutboxEvent) error {
	if err := p.broker.Publish(ctx, event.EventType, json.RawMessage(event.Payload)); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	if event.EventType == model.EventAppointmentCreated {
		p.sendConfirmation(event)
	}
	return nil
}

// sendConfirmation mails the patient after a booking. Mail failure does not
// fail the event; the booking is already published.
func (p *OutboxProcessor) sendConfirmation(event *model.OutboxEvent) {
	var payload model.AppointmentEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		p.log.Error(err, "failed to decode appointment payload", "event_id", event.ID.String())
		return
	}
	if payload.PatientEmail == "" {
		return
	}

	err := p.mailer.SendAppointmentConfirmation(
		payload.PatientEmail, payload.PatientName, payload.DoctorName, payload.Date, string(payload.Slot))
	if err != nil {
		p.log.Error(err, "failed to send confirmation email",
			"event_id", event.ID.String(), "to", payload.PatientEmail)
	}
}
