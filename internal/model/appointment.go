package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusAttended  AppointmentStatus = "attended"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// CanTransition reports whether the status may move to next. Attended and
// cancelled are terminal.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	if s != AppointmentStatusPending {
		return false
	}
	return next == AppointmentStatusAttended || next == AppointmentStatusCancelled
}

// TimeSlot is a fixed-width booking unit within clinic operating hours,
// rendered as "HH:MM".
type TimeSlot string

func (t TimeSlot) Valid() bool {
	_, err := time.Parse("15:04", string(t))
	return err == nil
}

func (t TimeSlot) String() string { return string(t) }

// Minutes returns the slot's offset from midnight. Invalid slots report -1.
func (t TimeSlot) Minutes() int {
	parsed, err := time.Parse("15:04", string(t))
	if err != nil {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// EnumerateSlots lists every slot from opening to closing at the given
// width, both endpoints included. The closing time is itself bookable; a
// closing time not aligned to the width is skipped.
func EnumerateSlots(opening, closing TimeSlot, width time.Duration) []TimeSlot {
	start := opening.Minutes()
	end := closing.Minutes()
	step := int(width.Minutes())
	if start < 0 || end < 0 || step <= 0 {
		return nil
	}

	var slots []TimeSlot
	for m := start; m <= end; m += step {
		slots = append(slots, TimeSlot(time.Date(0, 1, 1, m/60, m%60, 0, 0, time.UTC).Format("15:04")))
	}
	return slots
}

type Appointment struct {
	ID        uuid.UUID         `db:"id" json:"id"`
	PatientID uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	Date      time.Time         `db:"date" json:"date"`
	Slot      TimeSlot          `db:"slot" json:"slot"`
	Status    AppointmentStatus `db:"status" json:"status"`
	Reason    *string           `db:"reason" json:"reason,omitempty"`
	Notes     *string           `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

// AppointmentDetail joins the names the listing screens render.
type AppointmentDetail struct {
	Appointment
	PatientName       string `db:"patient_name" json:"patient_name"`
	PatientNationalID string `db:"patient_national_id" json:"patient_national_id"`
	DoctorName        string `db:"doctor_name" json:"doctor_name"`
}

type CreateAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	Date      string    `json:"date" binding:"required,datefmt"`
	Slot      TimeSlot  `json:"slot" binding:"required,timeslot"`
	Reason    *string   `json:"reason" binding:"omitempty,max=500"`
	Notes     *string   `json:"notes" binding:"omitempty,max=500"`
}

type AppointmentFilter struct {
	Date     *time.Time
	DoctorID *uuid.UUID
	Status   *AppointmentStatus
}

// SlotAvailability marks a single slot of a doctor's day as free or taken.
type SlotAvailability struct {
	Slot  TimeSlot `json:"slot"`
	Taken bool     `json:"taken"`
}

// DayCount is one day of a month-availability overlay; days without
// appointments are omitted.
type DayCount struct {
	Date  string `db:"date" json:"date"`
	Count int    `db:"count" json:"count"`
}

type AppointmentStats struct {
	Total     int `db:"total" json:"total"`
	Pending   int `db:"pending" json:"pending"`
	Attended  int `db:"attended" json:"attended"`
	Cancelled int `db:"cancelled" json:"cancelled"`
}
