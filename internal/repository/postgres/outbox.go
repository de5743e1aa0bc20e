package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
)

func insertOutboxTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if event.Status == "" {
		event.Status = model.OutboxStatusPending
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO outbox_events (id, event_type, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, event.ID, event.EventType, event.Payload, event.Status, event.CreatedAt)
	return wrapErr("failed to insert outbox event", err)
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapErr("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := insertOutboxTx(ctx, tx, event); err != nil {
		return err
	}
	return wrapErr("failed to commit outbox event", tx.Commit())
}

// GetPendingWithLock reads a batch of pending events, oldest first. SKIP
// LOCKED lets overlapping polls pass over rows another statement is reading,
// but the row locks end with the SELECT, so delivery is at least once and
// subscribers must tolerate duplicates.
func (r *outboxRepository) GetPendingWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT id, event_type, payload, status, error, created_at, processed_at
		FROM outbox_events
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	var events []*model.OutboxEvent
	if err := r.db.SelectContext(ctx, &events, query, limit); err != nil {
		return nil, wrapErr("failed to get pending events", err)
	}
	return events, nil
}

func (r *outboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE outbox_events
		SET status = $1, error = $2, processed_at = $3
		WHERE id = $4
	`, status, errMsg, time.Now(), id)
	if err != nil {
		return wrapErr("failed to update event status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return wrapErr("failed to get rows affected", err)
	}
	if rows == 0 {
		return wrapErr("failed to update event status", repository.ErrNotFound)
	}
	return nil
}
