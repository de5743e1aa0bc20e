package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/clinicasys/clinica-api/internal/middleware"
	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/service/medical"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
)

type MedicalRecordHandler struct {
	svc *medical.Service
}

func NewMedicalRecordHandler(svc *medical.Service) *MedicalRecordHandler {
	return &MedicalRecordHandler{svc: svc}
}

// Create writes a consultation record signed by the authenticated doctor.
func (h *MedicalRecordHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		respondError(c, apperrors.Unauthorized("authentication required"))
		return
	}

	var req model.CreateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	record, err := h.svc.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, record)
}

func (h *MedicalRecordHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	record, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, record)
}

// ListByPatient returns a patient's full history, newest first.
func (h *MedicalRecordHandler) ListByPatient(c *gin.Context) {
	patientID, ok := pathUUID(c, "patient_id")
	if !ok {
		return
	}

	records, err := h.svc.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, records)
}
