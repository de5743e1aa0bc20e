package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/service/user"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
)

type UserHandler struct {
	svc *user.Service
}

func NewUserHandler(svc *user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	u, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, u)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	u, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, u)
}

// List returns users, filtered by the optional role query parameter.
func (h *UserHandler) List(c *gin.Context) {
	var role *model.Role
	if raw := c.Query("role"); raw != "" {
		r := model.Role(raw)
		if !r.Valid() {
			respondError(c, apperrors.Validation("unknown role filter", nil))
			return
		}
		role = &r
	}

	users, err := h.svc.List(c.Request.Context(), role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, users)
}

// ListDoctors serves the scheduling form's doctor picker; any staff role may
// call it.
func (h *UserHandler) ListDoctors(c *gin.Context) {
	role := model.RoleDoctor
	doctors, err := h.svc.List(c.Request.Context(), &role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, doctors)
}

func (h *UserHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id, "status": req.Status})
}
