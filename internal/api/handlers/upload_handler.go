package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nhiennh/supply-chain-analytics/internal/service"
)

type UploadHandler struct {
	service *service.UploadService
}

func NewUploadHandler(service *service.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload accepts a single CSV form file under the "file" field.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "missing form file \"file\"")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "cannot open uploaded file")
		return
	}
	defer src.Close()

	uploaded, err := h.service.SaveCSV(c.Request.Context(), fileHeader.Filename, src)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "file uploaded",
		"file":    uploaded,
	})
}
