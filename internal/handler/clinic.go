package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/service/clinic"
)

type ClinicHandler struct {
	svc *clinic.Service
}

func NewClinicHandler(svc *clinic.Service) *ClinicHandler {
	return &ClinicHandler{svc: svc}
}

func (h *ClinicHandler) GetConfig(c *gin.Context) {
	cfg, err := h.svc.GetConfig(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, cfg)
}

func (h *ClinicHandler) UpdateConfig(c *gin.Context) {
	var req model.UpdateClinicConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	cfg, err := h.svc.UpdateConfig(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, cfg)
}

func (h *ClinicHandler) ListSpecialties(c *gin.Context) {
	specialties, err := h.svc.ListSpecialties(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, specialties)
}

func (h *ClinicHandler) CreateSpecialty(c *gin.Context) {
	var req model.CreateSpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	specialty, err := h.svc.CreateSpecialty(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, specialty)
}
