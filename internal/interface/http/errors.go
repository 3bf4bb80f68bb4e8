package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/placora/places-api/internal/application"
	"github.com/placora/places-api/pkg/response"
)

// fail converts any service error into the JSON error body. Typed
// application errors carry their own status and client message; anything
// else is reported once and becomes a 500.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	var appErr *application.Error
	if errors.As(err, &appErr) {
		if appErr.Err != nil && logger != nil {
			logger.WithError(appErr.Err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error(appErr.Message)
		}
		response.Error(c, appErr.Status, appErr.Message)
		return
	}
	if logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("unexpected error")
	}
	response.Error(c, http.StatusInternalServerError, "an unknown error occurred")
}
