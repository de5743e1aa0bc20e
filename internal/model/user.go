package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of principal roles. Every screen declares the roles
// allowed to reach it; stringly-typed comparisons stay out of the services.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleReceptionist Role = "receptionist"
	RolePatient      Role = "patient"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleReceptionist, RolePatient:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	FullName     string     `db:"full_name" json:"full_name"`
	Specialty    *string    `db:"specialty" json:"specialty,omitempty"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Status       UserStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type CreateUserRequest struct {
	Username  string  `json:"username" binding:"required,min=3,max=50"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	Role      Role    `json:"role" binding:"required,oneof=admin doctor receptionist patient"`
	FullName  string  `json:"full_name" binding:"required"`
	Specialty *string `json:"specialty"`
	Phone     *string `json:"phone"`
}

type UpdateUserStatusRequest struct {
	Status UserStatus `json:"status" binding:"required,oneof=active inactive"`
}
