package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"finance-tracker/internal/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuthentication:
		return http.StatusUnauthorized
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	var appErr *domain.Error
	if !errors.As(err, &appErr) {
		appErr = domain.Internal(err).(*domain.Error)
	}

	status := statusFor(appErr.Kind)
	if status >= http.StatusInternalServerError {
		h.logger.WithFields(logrus.Fields{
			"request_id": c.GetString(ctxRequestID),
			"path":       c.Request.URL.Path,
		}).WithError(err).Error("internal error")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   appErr.Reason,
		Message: appErr.Message,
	})
}

func badRequest(err error) error {
	return domain.Validation("invalid request body: " + err.Error())
}
