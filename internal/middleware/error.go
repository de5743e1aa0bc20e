package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
	"github.com/clinicasys/clinica-api/pkg/logger"
)

// ErrorHandler renders errors collected on the gin context into the response
// envelope. Domain errors carry their own HTTP status; anything else is a 500
// with its detail kept out of the response.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.StatusCode(), gin.H{
				"status": "error",
				"error": gin.H{
					"code":    appErr.Code,
					"message": appErr.Message,
				},
			})
			return
		}

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": "error",
				"error": gin.H{
					"code":    apperrors.ErrValidation,
					"message": validationMessage(validationErrs),
				},
			})
			return
		}

		log.Error(err, "unhandled error", "request_id", GetRequestID(c))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error": gin.H{
				"code":    apperrors.ErrInternal,
				"message": "internal server error",
			},
		})
	}
}

func validationMessage(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "validation failed"
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "national_id":
		return fe.Field() + " must be 8 to 12 digits"
	case "phone":
		return fe.Field() + " must be a valid phone number"
	case "datefmt":
		return fe.Field() + " must use the YYYY-MM-DD format"
	case "timeslot":
		return fe.Field() + " must use the HH:MM format"
	case "oneof":
		return fe.Field() + " has an unsupported value"
	default:
		return fe.Field() + " is invalid"
	}
}
