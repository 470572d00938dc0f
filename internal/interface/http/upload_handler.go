package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-connect/internal/application"
	"github.com/oksasatya/campus-connect/pkg/response"
)

// PhotoField is the multipart field carrying photo parts.
const PhotoField = "photos"

type PhotoUploader interface {
	UploadPhotos(ctx context.Context, files []application.UploadFile) ([]string, error)
}

type UploadHandler struct {
	Svc          PhotoUploader
	Logger       *logrus.Logger
	MaxFiles     int
	MaxFileBytes int64
}

func NewUploadHandler(svc PhotoUploader, logger *logrus.Logger, maxFiles int, maxFileBytes int64) *UploadHandler {
	if maxFiles <= 0 {
		maxFiles = application.DefaultMaxFiles
	}
	if maxFileBytes <= 0 {
		maxFileBytes = application.DefaultMaxFileBytes
	}
	return &UploadHandler{Svc: svc, Logger: logger, MaxFiles: maxFiles, MaxFileBytes: maxFileBytes}
}

// POST /api/upload/photos
func (h *UploadHandler) Photos(c *gin.Context) {
	// Room for one oversize part so it is rejected by the size rule rather
	// than by a truncated body.
	limit := int64(h.MaxFiles+1)*h.MaxFileBytes + 1<<20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusBadRequest, fmt.Sprintf("File size too large. Maximum size is %dMB per file", h.MaxFileBytes>>20), nil)
			return
		}
		response.Error(c, http.StatusBadRequest, "No files uploaded", nil)
		return
	}

	headers := form.File[PhotoField]
	if len(headers) > h.MaxFiles {
		response.Error(c, http.StatusBadRequest, fmt.Sprintf("You can only upload up to %d photos", h.MaxFiles), nil)
		return
	}

	files := make([]application.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, toUploadFile(fh))
	}

	urls, err := h.Svc.UploadPhotos(c.Request.Context(), files)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"urls": urls}, "Files uploaded successfully")
}

func toUploadFile(fh *multipart.FileHeader) application.UploadFile {
	return application.UploadFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
