package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

type Payment struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	AppointmentID uuid.UUID     `db:"appointment_id" json:"appointment_id"`
	Amount        float64       `db:"amount" json:"amount"`
	Method        PaymentMethod `db:"method" json:"method"`
	Status        PaymentStatus `db:"status" json:"status"`
	PaidAt        time.Time     `db:"paid_at" json:"paid_at"`
	Notes         *string       `db:"notes" json:"notes,omitempty"`
}

// PaymentDetail joins the context shown on the billing screen.
type PaymentDetail struct {
	Payment
	AppointmentDate time.Time `db:"appointment_date" json:"appointment_date"`
	PatientName     string    `db:"patient_name" json:"patient_name"`
	DoctorName      string    `db:"doctor_name" json:"doctor_name"`
}

type RegisterPaymentRequest struct {
	AppointmentID uuid.UUID     `json:"appointment_id" binding:"required"`
	Amount        float64       `json:"amount" binding:"required,gt=0"`
	Method        PaymentMethod `json:"method" binding:"required,oneof=cash card transfer"`
	Notes         *string       `json:"notes"`
}

// MethodCount is one slice of the payments-by-method breakdown.
type MethodCount struct {
	Method PaymentMethod `db:"method" json:"method"`
	Count  int           `db:"count" json:"count"`
}

// MonthRevenue is one point of the monthly revenue series, keyed "YYYY-MM".
type MonthRevenue struct {
	Month string  `db:"month" json:"month"`
	Total float64 `db:"total" json:"total"`
}
