package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/server/http/dto"
)

// statusFor maps domain failures to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrOrderNotFound),
		errors.Is(err, domainErrors.ErrMenuItemNotFound),
		errors.Is(err, domainErrors.ErrCartNotFound),
		errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrEmptyOrder),
		errors.Is(err, domainErrors.ErrInvalidTable),
		errors.Is(err, domainErrors.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrInvalidStatus),
		errors.Is(err, domainErrors.ErrInvalidKitchenLoad),
		errors.Is(err, domainErrors.ErrInvalidFeedback):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrPersistenceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON body. Internal failures are not echoed.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

func badRequest(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request"})
}
