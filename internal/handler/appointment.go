package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicasys/clinica-api/internal/middleware"
	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/service/appointment"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
)

type AppointmentHandler struct {
	svc *appointment.Service
}

func NewAppointmentHandler(svc *appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	apt, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, apt)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	apt, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, apt)
}

// List returns appointments filtered by the optional date, doctor_id and
// status query parameters. Doctors are always scoped to their own agenda
// regardless of the doctor_id filter.
func (h *AppointmentHandler) List(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if claims := middleware.GetClaims(c); claims != nil && claims.Role == model.RoleDoctor {
		filter.DoctorID = &claims.UserID
	}

	appointments, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, appointments)
}

func (h *AppointmentHandler) MarkAttended(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.MarkAttended(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id, "status": model.AppointmentStatusAttended})
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Notes *string `json:"notes" binding:"omitempty,max=500"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}
	}

	if err := h.svc.Cancel(c.Request.Context(), id, req.Notes); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id, "status": model.AppointmentStatusCancelled})
}

// MonthAvailability returns the day to count overlay for a doctor's month.
func (h *AppointmentHandler) MonthAvailability(c *gin.Context) {
	doctorID, ok := pathUUID(c, "doctor_id")
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid year parameter", err))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid month parameter", err))
		return
	}

	overlay, err := h.svc.MonthAvailability(c.Request.Context(), doctorID, year, time.Month(month))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, overlay)
}

// DaySlots returns every slot of a doctor's day with the taken flag set.
func (h *AppointmentHandler) DaySlots(c *gin.Context) {
	doctorID, ok := pathUUID(c, "doctor_id")
	if !ok {
		return
	}

	date, err := time.Parse(model.DateOnly, c.Query("date"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid date parameter", err))
		return
	}

	slots, err := h.svc.DaySlots(c.Request.Context(), doctorID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, slots)
}

func (h *AppointmentHandler) parseFilter(c *gin.Context) (*model.AppointmentFilter, error) {
	filter := &model.AppointmentFilter{}

	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(model.DateOnly, raw)
		if err != nil {
			return nil, apperrors.Validation("invalid date filter", err)
		}
		filter.Date = &date
	}
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperrors.Validation("invalid doctor_id filter", err)
		}
		filter.DoctorID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := model.AppointmentStatus(raw)
		switch status {
		case model.AppointmentStatusPending, model.AppointmentStatusAttended, model.AppointmentStatusCancelled:
			filter.Status = &status
		default:
			return nil, apperrors.Validation("invalid status filter", nil)
		}
	}
	return filter, nil
}
