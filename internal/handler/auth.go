package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/clinicasys/clinica-api/internal/middleware"
	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/service/auth"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tokens)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tokens)
}

// Me returns the authenticated principal's claims.
func (h *AuthHandler) Me(c *gin.Context) {
	respondOK(c, middleware.GetClaims(c))
}
