package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-realworld/internal/application"
	"github.com/oksasatya/go-ddd-realworld/pkg/response"
	"github.com/oksasatya/go-ddd-realworld/pkg/validation"
)

// statusFor maps application error categories onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, application.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrConflict), errors.Is(err, application.ErrInvalid):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"route":      c.FullPath(),
			}).Error("request failed")
		}
		response.Error(c, status, "internal server error")
		return
	}
	response.Error(c, status, err.Error())
}

func respondInvalid(c *gin.Context, err error) {
	response.Fields(c, http.StatusUnprocessableEntity, validation.ToDetails(err))
}
