package model

import (
	"time"

	"github.com/google/uuid"
)

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "active"
	PatientStatusInactive PatientStatus = "inactive"
)

type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
	SexOther  Sex = "other"
)

type Patient struct {
	ID                uuid.UUID     `db:"id" json:"id"`
	NationalID        string        `db:"national_id" json:"national_id"`
	FullName          string        `db:"full_name" json:"full_name"`
	BirthDate         time.Time     `db:"birth_date" json:"birth_date"`
	Sex               Sex           `db:"sex" json:"sex"`
	Phone             *string       `db:"phone" json:"phone,omitempty"`
	Address           *string       `db:"address" json:"address,omitempty"`
	Email             *string       `db:"email" json:"email,omitempty"`
	BloodType         *string       `db:"blood_type" json:"blood_type,omitempty"`
	Allergies         *string       `db:"allergies" json:"allergies,omitempty"`
	ChronicConditions *string       `db:"chronic_conditions" json:"chronic_conditions,omitempty"`
	Status            PatientStatus `db:"status" json:"status"`
	UserID            *uuid.UUID    `db:"user_id" json:"user_id,omitempty"`
	RegisteredAt      time.Time     `db:"registered_at" json:"registered_at"`
}

// Age reports the patient's age in whole years as of the given date.
func (p *Patient) Age(asOf time.Time) int {
	years := asOf.Year() - p.BirthDate.Year()
	if asOf.YearDay() < p.BirthDate.YearDay() {
		years--
	}
	return years
}

type CreatePatientRequest struct {
	NationalID        string     `json:"national_id" binding:"required,national_id"`
	FullName          string     `json:"full_name" binding:"required"`
	BirthDate         string     `json:"birth_date" binding:"required,datefmt"`
	Sex               Sex        `json:"sex" binding:"required,oneof=M F other"`
	Phone             *string    `json:"phone" binding:"omitempty,phone"`
	Address           *string    `json:"address"`
	Email             *string    `json:"email" binding:"omitempty,email"`
	BloodType         *string    `json:"blood_type"`
	Allergies         *string    `json:"allergies"`
	ChronicConditions *string    `json:"chronic_conditions"`
	UserID            *uuid.UUID `json:"user_id"`
}

// UpdatePatientRequest carries explicit optional fields; only non-nil fields
// are written.
type UpdatePatientRequest struct {
	FullName          *string `json:"full_name"`
	BirthDate         *string `json:"birth_date" binding:"omitempty,datefmt"`
	Phone             *string `json:"phone" binding:"omitempty,phone"`
	Address           *string `json:"address"`
	Email             *string `json:"email" binding:"omitempty,email"`
	BloodType         *string `json:"blood_type"`
	Allergies         *string `json:"allergies"`
	ChronicConditions *string `json:"chronic_conditions"`
}
