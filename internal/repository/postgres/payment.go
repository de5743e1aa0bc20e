package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicasys/clinica-api/internal/model"
)

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (id, appointment_id, amount, method, status, paid_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.AppointmentID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.PaidAt,
		payment.Notes,
	)
	return wrapErr("failed to create payment", err)
}

const paymentDetailSelect = `
	SELECT p.id, p.appointment_id, p.amount, p.method, p.status, p.paid_at, p.notes,
		   a.date AS appointment_date,
		   pac.full_name AS patient_name,
		   u.full_name AS doctor_name
	FROM payments p
	JOIN appointments a ON p.appointment_id = a.id
	JOIN patients pac ON a.patient_id = pac.id
	JOIN users u ON a.doctor_id = u.id
`

func (r *paymentRepository) Get(ctx context.Context, id uuid.UUID) (*model.PaymentDetail, error) {
	var payment model.PaymentDetail
	if err := r.db.GetContext(ctx, &payment, paymentDetailSelect+" WHERE p.id = $1", id); err != nil {
		return nil, wrapErr("failed to get payment", err)
	}
	return &payment, nil
}

func (r *paymentRepository) ListRange(ctx context.Context, from, to time.Time) ([]*model.PaymentDetail, error) {
	query := paymentDetailSelect + `
		WHERE p.status = 'paid'
		AND p.paid_at::date >= $1 AND p.paid_at::date <= $2
		ORDER BY p.paid_at DESC
	`
	var payments []*model.PaymentDetail
	err := r.db.SelectContext(ctx, &payments, query,
		from.Format(model.DateOnly), to.Format(model.DateOnly))
	if err != nil {
		return nil, wrapErr("failed to list payments", err)
	}
	return payments, nil
}

func (r *paymentRepository) SumPaidInMonth(ctx context.Context, year int, month time.Month) (float64, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	var total float64
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE status = 'paid'
		AND paid_at >= $1 AND paid_at < $2
	`, first, next)
	if err != nil {
		return 0, wrapErr("failed to sum payments", err)
	}
	return total, nil
}

func (r *paymentRepository) MonthlyRevenue(ctx context.Context, from, to time.Time) ([]model.MonthRevenue, error) {
	query := `
		SELECT to_char(paid_at, 'YYYY-MM') AS month, COALESCE(SUM(amount), 0) AS total
		FROM payments
		WHERE status = 'paid'
		AND paid_at >= $1 AND paid_at <= $2
		GROUP BY month
		ORDER BY month ASC
	`
	var revenue []model.MonthRevenue
	if err := r.db.SelectContext(ctx, &revenue, query, from, to); err != nil {
		return nil, wrapErr("failed to compute monthly revenue", err)
	}
	return revenue, nil
}

func (r *paymentRepository) CountByMethod(ctx context.Context, from, to time.Time) ([]model.MethodCount, error) {
	query := `
		SELECT method, COUNT(*) AS count
		FROM payments
		WHERE status = 'paid'
		AND paid_at >= $1 AND paid_at <= $2
		GROUP BY method
		ORDER BY count DESC
	`
	var counts []model.MethodCount
	if err := r.db.SelectContext(ctx, &counts, query, from, to); err != nil {
		return nil, wrapErr("failed to count payments by method", err)
	}
	return counts, nil
}
