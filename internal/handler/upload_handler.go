package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/platera-api/internal/service"
)

// UploadHandler issues signed upload credentials for recipe images.
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// SignatureRequest describes the batch the client wants to upload.
type SignatureRequest struct {
	Files []service.UploadFile `json:"files" binding:"required,min=1"`
}

// CreateSignature validates the batch and returns signed upload parameters.
// POST /api/upload/signature
func (h *UploadHandler) CreateSignature(c *gin.Context) {
	var req SignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signature, err := h.uploadService.CreateSignature(req.Files)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, signature)
}
