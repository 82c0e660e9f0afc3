package webapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AssociateFileRequest represents the blob association payload
type AssociateFileRequest struct {
	Path       string `json:"path" binding:"required"`
	EntityType string `json:"entity_type" binding:"required"`
	EntityID   string `json:"entity_id" binding:"required"`
}

// AssociateFile handles POST /api/files/associate
func (h *Handlers) AssociateFile(c *gin.Context) {
	var req AssociateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "request/malformed-body"})
		return
	}

	if err := h.fileGuard.Associate(c.Request.Context(), req.Path, req.EntityType, req.EntityID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// DeleteFile handles DELETE /api/files/*path
func (h *Handlers) DeleteFile(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "file/path-required"})
		return
	}

	if err := h.fileGuard.Delete(c.Request.Context(), requesterID(c), path); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}
