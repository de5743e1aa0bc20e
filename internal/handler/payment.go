package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/service/payment"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
)

type PaymentHandler struct {
	svc *payment.Service
}

func NewPaymentHandler(svc *payment.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) Register(c *gin.Context) {
	var req model.RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	p, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, p)
}

// List returns paid payments in the [from, to] date range; both parameters
// default to today.
func (h *PaymentHandler) List(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	payments, err := h.svc.ListRange(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, payments)
}

// dateRange parses from/to query parameters, defaulting both to today.
func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	today := time.Now().Truncate(24 * time.Hour)
	from, to := today, today

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(model.DateOnly, raw)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.Validation("invalid from parameter", err)
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(model.DateOnly, raw)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.Validation("invalid to parameter", err)
		}
		to = parsed
	}
	return from, to, nil
}
