package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"insights-api/src/storage"
)

// UploadHandler handles media uploads for article images
type UploadHandler struct {
	uploader *storage.MediaUploader
	logger   *logrus.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploader *storage.MediaUploader, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		logger:   logger,
	}
}

// UploadImage accepts a multipart image and returns its public URL
func (h *UploadHandler) UploadImage(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponseDTO{Error: "Media storage is not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid request format",
			Message: "multipart field 'file' is required",
		})
		return
	}

	if fileHeader.Size > storage.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponseDTO{Error: "File too large"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := storage.ValidateContentType(contentType); err != nil {
		c.JSON(http.StatusUnsupportedMediaType, ErrorResponseDTO{
			Error:   "Unsupported media type",
			Message: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.WithError(err).Error("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to read upload"})
		return
	}
	defer file.Close()

	url, err := h.uploader.UploadImage(file, fileHeader.Filename, contentType)
	if err != nil {
		h.logger.WithError(err).Error("failed to upload media")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to upload media"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"filename": fileHeader.Filename,
		"size":     fileHeader.Size,
		"url":      url,
	}).Info("media uploaded")
	c.JSON(http.StatusCreated, UploadResponseDTO{URL: url})
}
