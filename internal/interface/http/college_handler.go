package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-connect/internal/application"
	"github.com/oksasatya/campus-connect/pkg/response"
)

type CollegeLister interface {
	ListApproved(ctx context.Context) ([]application.CollegeOption, error)
}

type CollegeHandler struct {
	Svc    CollegeLister
	Logger *logrus.Logger
}

func NewCollegeHandler(svc CollegeLister, logger *logrus.Logger) *CollegeHandler {
	return &CollegeHandler{Svc: svc, Logger: logger}
}

// GET /api/colleges
func (h *CollegeHandler) List(c *gin.Context) {
	list, err := h.Svc.ListApproved(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"colleges": list}, "")
}
