package validator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	nationalIDPattern = regexp.MustCompile(`^\d{8,12}$`)
	phonePattern      = regexp.MustCompile(`^[\d\s\-\+\(\)]{7,20}$`)
)

// Register installs the clinic's custom format rules on a validator instance.
// Gin's binding engine satisfies the same interface, so the request DTO tags
// and direct validation share one rule set.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("national_id", validNationalID); err != nil {
		return err
	}
	if err := v.RegisterValidation("phone", validPhone); err != nil {
		return err
	}
	if err := v.RegisterValidation("datefmt", validDate); err != nil {
		return err
	}
	return v.RegisterValidation("timeslot", validTimeSlot)
}

func validNationalID(fl validator.FieldLevel) bool {
	return nationalIDPattern.MatchString(fl.Field().String())
}

func validPhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func validDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func validTimeSlot(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

// IsNationalID reports whether s is a well-formed national id (8-12 digits).
func IsNationalID(s string) bool { return nationalIDPattern.MatchString(s) }

// IsPhone reports whether s looks like a phone number.
func IsPhone(s string) bool { return phonePattern.MatchString(s) }
