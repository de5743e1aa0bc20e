package model

import "github.com/google/uuid"

// ClinicConfig is a singleton row: clinic identity plus the operating hours
// that bound every bookable slot.
type ClinicConfig struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Address     *string   `db:"address" json:"address,omitempty"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	Email       *string   `db:"email" json:"email,omitempty"`
	OpeningTime TimeSlot  `db:"opening_time" json:"opening_time"`
	ClosingTime TimeSlot  `db:"closing_time" json:"closing_time"`
	SlotMinutes int       `db:"slot_minutes" json:"slot_minutes"`
}

type UpdateClinicConfigRequest struct {
	Name        *string   `json:"name"`
	Address     *string   `json:"address"`
	Phone       *string   `json:"phone"`
	Email       *string   `json:"email" binding:"omitempty,email"`
	OpeningTime *TimeSlot `json:"opening_time" binding:"omitempty,timeslot"`
	ClosingTime *TimeSlot `json:"closing_time" binding:"omitempty,timeslot"`
	SlotMinutes *int      `json:"slot_minutes" binding:"omitempty,gt=0,lte=120"`
}

type SpecialtyStatus string

const (
	SpecialtyStatusActive   SpecialtyStatus = "active"
	SpecialtyStatusInactive SpecialtyStatus = "inactive"
)

type Specialty struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description,omitempty"`
	Status      SpecialtyStatus `db:"status" json:"status"`
}

type CreateSpecialtyRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}
