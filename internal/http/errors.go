package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"messagely/internal/auth"
	"messagely/internal/metrics"
	"messagely/internal/service"
)

// writeError maps service errors onto status codes. Store failures are
// logged in full and answered with a generic body.
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	status, msg := statusFor(err)
	switch status {
	case http.StatusForbidden:
		metrics.AccessDeniedTotal.WithLabelValues(op).Inc()
		h.logger.WithField("username", identity(c)).Warnf("%s: %v", op, err)
	case http.StatusInternalServerError:
		h.logger.WithError(err).Errorf("%s failed", op)
	}
	c.JSON(status, gin.H{"error": msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUnknownUser):
		return http.StatusBadRequest, "unknown user"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid username or password"
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrUserAlreadyExists):
		return http.StatusConflict, "username already taken"
	case errors.Is(err, service.ErrExportUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
