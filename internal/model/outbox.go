package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// Event types published by the scheduler.
const (
	EventAppointmentCreated   = "appointment.created"
	EventAppointmentAttended  = "appointment.attended"
	EventAppointmentCancelled = "appointment.cancelled"
)

// OutboxEvent is written in the same transaction as the state change it
// describes; the worker publishes it afterwards.
type OutboxEvent struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	EventType   string          `db:"event_type" json:"event_type"`
	Payload     json.RawMessage `db:"payload" json:"payload"`
	Status      OutboxStatus    `db:"status" json:"status"`
	Error       *string         `db:"error" json:"error,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

// AppointmentEventPayload is the outbox payload for appointment lifecycle
// events; the worker uses it to address confirmation email.
type AppointmentEventPayload struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	Date          string    `json:"date"`
	Slot          TimeSlot  `json:"slot"`
	PatientEmail  string    `json:"patient_email,omitempty"`
	PatientName   string    `json:"patient_name,omitempty"`
	DoctorName    string    `json:"doctor_name,omitempty"`
}
