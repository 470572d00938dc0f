package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-connect/internal/application"
	"github.com/oksasatya/campus-connect/pkg/response"
)

// writeError maps a service error to its HTTP status. Only the typed
// message reaches the client; causes are logged.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var appErr *application.Error
	if !errors.As(err, &appErr) {
		logger.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
		response.Error(c, http.StatusInternalServerError, application.MsgInternal, nil)
		return
	}

	switch appErr.Kind {
	case application.KindValidation, application.KindConflict:
		response.Error(c, http.StatusBadRequest, appErr.Message, nil)
	case application.KindAuthentication:
		response.Error(c, http.StatusUnauthorized, appErr.Message, nil)
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).Error("dependency failure")
		response.Error(c, http.StatusInternalServerError, appErr.Message, nil)
	}
}
