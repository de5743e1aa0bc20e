package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicasys/clinica-api/internal/service/report"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
)

type ReportHandler struct {
	svc *report.Service
}

func NewReportHandler(svc *report.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Dashboard serves the landing page counters.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.svc.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}

// AppointmentStats breaks a date range down by status, optionally for one
// doctor.
func (h *ReportHandler) AppointmentStats(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var doctorID *uuid.UUID
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, apperrors.Validation("invalid doctor_id parameter", err))
			return
		}
		doctorID = &id
	}

	stats, err := h.svc.AppointmentStats(c.Request.Context(), doctorID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}

// MonthlyRevenue returns the paid totals of the last n months; months
// defaults to 12.
func (h *ReportHandler) MonthlyRevenue(c *gin.Context) {
	months := 12
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, apperrors.Validation("invalid months parameter", err))
			return
		}
		months = parsed
	}

	revenue, err := h.svc.MonthlyRevenue(c.Request.Context(), months)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, revenue)
}

// PaymentsByMethod counts paid payments per method over a date range.
func (h *ReportHandler) PaymentsByMethod(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	counts, err := h.svc.PaymentsByMethod(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, counts)
}
