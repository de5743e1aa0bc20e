package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
)

// Response is the envelope every endpoint renders.
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Status: "success", Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Status: "success", Data: data})
}

// respondError hands the error to the error handling middleware.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func respondBadRequest(c *gin.Context, err error) {
	respondError(c, apperrors.Validation("invalid request payload", err))
}

// pathUUID parses a uuid path parameter, reporting a validation error on
// malformed input.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apperrors.Validation("invalid "+name+" parameter", err))
		return uuid.Nil, false
	}
	return id, true
}
